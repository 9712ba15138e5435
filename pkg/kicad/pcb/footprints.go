package pcb

import (
	"fmt"
	"strings"

	"github.com/OpenTraceLab/lincoil/pkg/kicad/sexp/kicadsexp"
)

// parsePad extracts a pad definition from a footprint
// Expected format: (pad "number" type shape (at x y [angle]) (size w h) (layers ...) (net n "name") ...)
func parsePad(node kicadsexp.Sexp, netMap *NetMap) (*Pad, error) {
	pad := &Pad{}

	number, err := getString(node, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad number: %w", err)
	}
	pad.Number = number

	// thru_hole, smd, connect, np_thru_hole
	padType, err := getString(node, 2)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad type: %w", err)
	}
	pad.Type = padType

	// circle, rect, oval, roundrect, trapezoid, custom
	shape, err := getString(node, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad shape: %w", err)
	}
	pad.Shape = shape

	atNode, found := findNode(node, "at")
	if !found {
		return nil, fmt.Errorf("missing required 'at' position")
	}
	pos, err := getPositionAngle(atNode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad position: %w", err)
	}
	pad.Position = pos

	if sizeNode, found := findNode(node, "size"); found {
		width, err := getFloat(sizeNode, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to parse pad width: %w", err)
		}
		height, err := getFloat(sizeNode, 2)
		if err != nil {
			return nil, fmt.Errorf("failed to parse pad height: %w", err)
		}
		pad.Size = Size{Width: width, Height: height}
	} else {
		return nil, fmt.Errorf("missing required 'size' field")
	}

	// Drill can be (drill d) or (drill oval w h)
	if drillNode, found := findNode(node, "drill"); found {
		for i := 1; i < drillNode.Len(); i++ {
			if drill, err := getFloat(drillNode, i); err == nil {
				pad.Drill = drill
				break
			}
		}
	}

	if layersNode, found := findNode(node, "layers"); found {
		layers, err := getLayers(layersNode)
		if err != nil {
			return nil, fmt.Errorf("failed to parse pad layers: %w", err)
		}
		pad.Layers = layers
	} else {
		return nil, fmt.Errorf("missing required 'layers' field")
	}

	if code, ok := getNetCode(node); ok && netMap != nil {
		if net, ok := netMap.GetByNumber(code); ok {
			pad.Net = net
		}
	}

	return pad, nil
}

// parseFootprint extracts a footprint (component) definition
// Expected format: (footprint "library:name" (layer "layer") (at x y [angle]) ...)
func parseFootprint(node kicadsexp.Sexp, netMap *NetMap) (*Footprint, []string, error) {
	footprint := &Footprint{}

	fpName, err := getString(node, 1)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse footprint name: %w", err)
	}

	// Example: "Resistor_SMD:R_0603_1608Metric"
	if lib, name, ok := strings.Cut(fpName, ":"); ok && lib != "" {
		footprint.Library = lib
		footprint.Name = name
	} else {
		footprint.Name = fpName
	}

	layerNode, found := findNode(node, "layer")
	if !found {
		return nil, nil, fmt.Errorf("missing required 'layer' field")
	}
	if footprint.Layer, err = getString(layerNode, 1); err != nil {
		return nil, nil, fmt.Errorf("failed to parse layer: %w", err)
	}

	atNode, found := findNode(node, "at")
	if !found {
		return nil, nil, fmt.Errorf("missing required 'at' position")
	}
	if footprint.Position, err = getPositionAngle(atNode); err != nil {
		return nil, nil, fmt.Errorf("failed to parse position: %w", err)
	}

	// KiCad 7+ stores Reference and Value as properties
	for _, propNode := range findAllNodes(node, "property") {
		propName, err := getString(propNode, 1)
		if err != nil {
			continue
		}
		propValue, err := getString(propNode, 2)
		if err != nil {
			continue
		}

		switch propName {
		case "Reference":
			footprint.Reference = propValue
		case "Value":
			footprint.Value = propValue
		}
	}

	// KiCad 6 uses (fp_text reference "J1" ...)
	for _, textNode := range findAllNodes(node, "fp_text") {
		kind, _ := getString(textNode, 1)
		text, err := getString(textNode, 2)
		if err != nil {
			continue
		}
		switch {
		case kind == "reference" && footprint.Reference == "":
			footprint.Reference = text
		case kind == "value" && footprint.Value == "":
			footprint.Value = text
		}
	}

	var warnings []string
	for _, padNode := range findAllNodes(node, "pad") {
		pad, err := parsePad(padNode, netMap)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("footprint %s: skipped pad: %v", footprint.Reference, err))
			continue
		}
		footprint.Pads = append(footprint.Pads, *pad)
	}

	return footprint, warnings, nil
}

// parseFootprints extracts all footprint definitions from the root node.
// Footprints that fail to parse are skipped and noted in board.Warnings.
func parseFootprints(root kicadsexp.Sexp, netMap *NetMap, board *Board) []Footprint {
	footprintNodes := findAllNodes(root, "footprint")
	footprints := make([]Footprint, 0, len(footprintNodes))

	for i, fpNode := range footprintNodes {
		footprint, warnings, err := parseFootprint(fpNode, netMap)
		if err != nil {
			board.Warnings = append(board.Warnings, fmt.Sprintf("skipped footprint %d: %v", i, err))
			continue
		}
		board.Warnings = append(board.Warnings, warnings...)
		footprints = append(footprints, *footprint)
	}

	return footprints
}
