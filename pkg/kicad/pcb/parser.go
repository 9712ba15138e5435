package pcb

import (
	"fmt"
	"io"
	"os"

	"github.com/OpenTraceLab/lincoil/pkg/kicad/sexp/kicadsexp"
)

// Minimum supported KiCad version (6.0 = 20211014)
const MinSupportedVersion = 20211014

// ParseFile reads and parses a KiCad board file
func ParseFile(filename string) (*Board, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads and parses a KiCad board from an io.Reader
func Parse(r io.Reader) (*Board, error) {
	root, err := parseRoot(r)
	if err != nil {
		return nil, err
	}
	return parseBoard(root)
}

// parseRoot reads the (kicad_pcb ...) tree without interpreting it.
func parseRoot(r io.Reader) (*kicadsexp.List, error) {
	sexps, err := kicadsexp.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse s-expression: %w", err)
	}

	if len(sexps) == 0 {
		return nil, fmt.Errorf("empty file or no valid s-expressions found")
	}

	root, ok := sexps[0].(*kicadsexp.List)
	if !ok {
		return nil, fmt.Errorf("not a KiCad PCB file: top level is an atom")
	}

	rootName, err := getNodeName(root)
	if err != nil {
		return nil, fmt.Errorf("failed to get root node name: %w", err)
	}
	if rootName != "kicad_pcb" {
		return nil, fmt.Errorf("not a KiCad PCB file: expected 'kicad_pcb', got '%s'", rootName)
	}
	return root, nil
}

func parseBoard(root *kicadsexp.List) (*Board, error) {
	version, generator, err := parseHeader(root)
	if err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	board := &Board{
		Version:   version,
		Generator: generator,
	}

	if generalNode, found := findNode(root, "general"); found {
		board.General = parseGeneral(generalNode)
	}

	if layersNode, found := findNode(root, "layers"); found {
		layers, err := parseLayers(layersNode)
		if err != nil {
			return nil, fmt.Errorf("failed to parse layers section: %w", err)
		}
		board.Layers = layers
	}

	nets, err := parseNets(root)
	if err != nil {
		return nil, fmt.Errorf("failed to parse nets: %w", err)
	}
	board.Nets = nets

	netMap := NewNetMap(board.Nets)

	board.Graphics = parseGraphics(root, board)

	tracks, err := parseTracks(root, netMap)
	if err != nil {
		return nil, fmt.Errorf("failed to parse tracks: %w", err)
	}
	board.Tracks = tracks

	vias, err := parseVias(root, netMap)
	if err != nil {
		return nil, fmt.Errorf("failed to parse vias: %w", err)
	}
	board.Vias = vias

	board.Footprints = parseFootprints(root, netMap, board)

	return board, nil
}

// parseHeader extracts version and generator information from the root node
// Expected format: (kicad_pcb (version 20221018) (generator pcbnew) ...)
func parseHeader(root kicadsexp.Sexp) (version int, generator string, err error) {
	versionNode, found := findNode(root, "version")
	if !found {
		return 0, "", fmt.Errorf("missing required 'version' field")
	}

	ver, err := getInt(versionNode, 1)
	if err != nil {
		return 0, "", fmt.Errorf("failed to parse version: %w", err)
	}

	if ver < MinSupportedVersion {
		return 0, "", fmt.Errorf("unsupported KiCad version: %d (minimum required: %d / KiCad 6.0)", ver, MinSupportedVersion)
	}

	gen := "unknown"
	if hostNode, found := findNode(root, "host"); found {
		// Format: (host pcbnew "(6.0.0)")
		if toolName, err := getString(hostNode, 1); err == nil {
			gen = toolName
		}
	} else if genNode, found := findNode(root, "generator"); found {
		if generatorName, err := getString(genNode, 1); err == nil {
			gen = generatorName
		}
	}

	return ver, gen, nil
}

// parseGeneral extracts general board properties
// Expected format: (general (thickness 1.6) ...)
func parseGeneral(node kicadsexp.Sexp) General {
	var general General
	if thicknessNode, found := findNode(node, "thickness"); found {
		if thickness, err := getFloat(thicknessNode, 1); err == nil {
			general.Thickness = thickness
		}
	}
	return general
}

// parseLayers extracts layer definitions
// Expected format: (layers (0 "F.Cu" signal) (31 "B.Cu" signal) ...)
func parseLayers(node kicadsexp.Sexp) ([]Layer, error) {
	layerNodes := getListItems(node)
	if len(layerNodes) == 0 {
		return nil, fmt.Errorf("no layers defined")
	}

	var layers []Layer

	for _, layerNode := range layerNodes {
		if layerNode.IsLeaf() {
			continue
		}

		// Parse individual layer: (number "name" type ["user name"])
		number, err := getInt(layerNode, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to parse layer number: %w", err)
		}

		name, err := getString(layerNode, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to parse layer name: %w", err)
		}

		layerType, err := getString(layerNode, 2)
		if err != nil {
			layerType = "user"
		}

		layers = append(layers, Layer{
			Number: number,
			Name:   name,
			Type:   layerType,
		})
	}

	return layers, nil
}

// parseNets extracts net definitions from the root node
// Expected format: (net 0 "") (net 1 "GND") (net 2 "+5V") ...
func parseNets(root kicadsexp.Sexp) ([]Net, error) {
	netNodes := findAllNodes(root, "net")
	nets := make([]Net, 0, len(netNodes))

	for _, netNode := range netNodes {
		number, err := getInt(netNode, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to parse net number: %w", err)
		}

		// Name is optional (net 0 often has empty name)
		name, _ := getString(netNode, 2)

		nets = append(nets, Net{
			Number: number,
			Name:   name,
		})
	}

	return nets, nil
}
