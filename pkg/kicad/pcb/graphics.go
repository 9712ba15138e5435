package pcb

import (
	"fmt"

	"github.com/OpenTraceLab/lincoil/pkg/kicad/sexp/kicadsexp"
)

// parseStroke extracts stroke properties from a node carrying either
// (stroke (width w) (type t)) or the older bare (width w).
func parseStroke(node kicadsexp.Sexp) Stroke {
	stroke := Stroke{Width: 0.1, Type: "solid"}

	src := kicadsexp.Sexp(node)
	if strokeNode, found := findNode(node, "stroke"); found {
		src = strokeNode
	}
	if widthNode, found := findNode(src, "width"); found {
		if w, err := getFloat(widthNode, 1); err == nil {
			stroke.Width = w
		}
	}
	if typeNode, found := findNode(src, "type"); found {
		if t, err := getString(typeNode, 1); err == nil {
			stroke.Type = t
		}
	}
	return stroke
}

// parseGrLine extracts (gr_line (start x y) (end x y) ... (layer "Edge.Cuts"))
func parseGrLine(node kicadsexp.Sexp) (*GrLine, error) {
	line := &GrLine{Stroke: parseStroke(node)}

	startNode, found := findNode(node, "start")
	if !found {
		return nil, fmt.Errorf("missing start")
	}
	endNode, found := findNode(node, "end")
	if !found {
		return nil, fmt.Errorf("missing end")
	}
	var err error
	if line.Start, err = getPosition(startNode); err != nil {
		return nil, fmt.Errorf("failed to parse start: %w", err)
	}
	if line.End, err = getPosition(endNode); err != nil {
		return nil, fmt.Errorf("failed to parse end: %w", err)
	}
	if layerNode, found := findNode(node, "layer"); found {
		line.Layer, _ = getString(layerNode, 1)
	}
	return line, nil
}

// parseGrRect extracts (gr_rect (start x y) (end x y) ... (layer ...))
func parseGrRect(node kicadsexp.Sexp) (*GrRect, error) {
	line, err := parseGrLine(node)
	if err != nil {
		return nil, err
	}
	return &GrRect{Start: line.Start, End: line.End, Stroke: line.Stroke, Layer: line.Layer}, nil
}

// parseGraphics collects board-level lines and rectangles. Elements that
// fail to parse are skipped and noted in board.Warnings.
func parseGraphics(root kicadsexp.Sexp, board *Board) Graphics {
	var g Graphics
	for _, node := range findAllNodes(root, "gr_line") {
		line, err := parseGrLine(node)
		if err != nil {
			board.Warnings = append(board.Warnings, fmt.Sprintf("skipped gr_line: %v", err))
			continue
		}
		g.Lines = append(g.Lines, *line)
	}
	for _, node := range findAllNodes(root, "gr_rect") {
		rect, err := parseGrRect(node)
		if err != nil {
			board.Warnings = append(board.Warnings, fmt.Sprintf("skipped gr_rect: %v", err))
			continue
		}
		g.Rects = append(g.Rects, *rect)
	}
	return g
}
