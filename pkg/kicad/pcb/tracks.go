package pcb

import (
	"fmt"

	"github.com/OpenTraceLab/lincoil/pkg/kicad/sexp/kicadsexp"
)

// parseSegment extracts a track segment (copper trace)
// Expected format: (segment (start x y) (end x y) (width w) (layer "layer") (net n) ...)
func parseSegment(node kicadsexp.Sexp, netMap *NetMap) (*Track, error) {
	track := &Track{
		Width: 0.15, // Default width
	}

	startNode, found := findNode(node, "start")
	if !found {
		return nil, fmt.Errorf("missing required 'start' position")
	}
	start, err := getPosition(startNode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse start position: %w", err)
	}
	track.Start = start

	endNode, found := findNode(node, "end")
	if !found {
		return nil, fmt.Errorf("missing required 'end' position")
	}
	end, err := getPosition(endNode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse end position: %w", err)
	}
	track.End = end

	if widthNode, found := findNode(node, "width"); found {
		width, err := getFloat(widthNode, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to parse width: %w", err)
		}
		track.Width = width
	}

	layerNode, found := findNode(node, "layer")
	if !found {
		return nil, fmt.Errorf("missing required 'layer' field")
	}
	if track.Layer, err = getString(layerNode, 1); err != nil {
		return nil, fmt.Errorf("failed to parse layer: %w", err)
	}

	// Net is optional - the track may be unconnected
	if code, ok := getNetCode(node); ok && netMap != nil {
		if net, ok := netMap.GetByNumber(code); ok {
			track.Net = net
		}
	}

	// Older files use (locked), newer ones (locked yes) or a bare symbol
	if _, found := findNode(node, "locked"); found || hasSymbol(node, "locked") {
		track.Locked = true
	}

	return track, nil
}

// parseVia extracts a via definition
// Expected format: (via [blind|micro] (at x y) (size diameter) (drill diameter) (layers "L1" "L2") (net n) ...)
func parseVia(node kicadsexp.Sexp, netMap *NetMap) (*Via, error) {
	via := &Via{}

	switch {
	case hasSymbol(node, "blind"):
		via.Type = "blind"
	case hasSymbol(node, "micro"):
		via.Type = "micro"
	}

	atNode, found := findNode(node, "at")
	if !found {
		return nil, fmt.Errorf("missing required 'at' position")
	}
	pos, err := getPosition(atNode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse position: %w", err)
	}
	via.Position = pos

	sizeNode, found := findNode(node, "size")
	if !found {
		return nil, fmt.Errorf("missing required 'size' field")
	}
	if via.Size, err = getFloat(sizeNode, 1); err != nil {
		return nil, fmt.Errorf("failed to parse size: %w", err)
	}

	drillNode, found := findNode(node, "drill")
	if !found {
		return nil, fmt.Errorf("missing required 'drill' field")
	}
	if via.Drill, err = getFloat(drillNode, 1); err != nil {
		return nil, fmt.Errorf("failed to parse drill: %w", err)
	}

	layersNode, found := findNode(node, "layers")
	if !found {
		return nil, fmt.Errorf("missing required 'layers' field")
	}
	if via.Layers, err = getLayers(layersNode); err != nil {
		return nil, fmt.Errorf("failed to parse layers: %w", err)
	}

	if code, ok := getNetCode(node); ok && netMap != nil {
		if net, ok := netMap.GetByNumber(code); ok {
			via.Net = net
		}
	}

	if _, found := findNode(node, "locked"); found || hasSymbol(node, "locked") {
		via.Locked = true
	}

	return via, nil
}

// parseTracks extracts all track segments from the root node
func parseTracks(root kicadsexp.Sexp, netMap *NetMap) ([]Track, error) {
	segmentNodes := findAllNodes(root, "segment")
	tracks := make([]Track, 0, len(segmentNodes))

	for _, segmentNode := range segmentNodes {
		track, err := parseSegment(segmentNode, netMap)
		if err != nil {
			return nil, fmt.Errorf("failed to parse segment: %w", err)
		}
		tracks = append(tracks, *track)
	}

	return tracks, nil
}

// parseVias extracts all via definitions from the root node
func parseVias(root kicadsexp.Sexp, netMap *NetMap) ([]Via, error) {
	viaNodes := findAllNodes(root, "via")
	vias := make([]Via, 0, len(viaNodes))

	for _, viaNode := range viaNodes {
		via, err := parseVia(viaNode, netMap)
		if err != nil {
			return nil, fmt.Errorf("failed to parse via: %w", err)
		}
		vias = append(vias, *via)
	}

	return vias, nil
}
