package pcb

import (
	"fmt"
	"strconv"

	"github.com/OpenTraceLab/lincoil/pkg/kicad/sexp/kicadsexp"
)

// S-expression navigation helpers

// findNode searches for a child list with the given key (first symbol)
// Example: findNode(sexp, "at") finds (at 100 50) in a list
func findNode(s kicadsexp.Sexp, key string) (*kicadsexp.List, bool) {
	list, ok := s.(*kicadsexp.List)
	if !ok {
		return nil, false
	}
	for _, item := range list.Elements() {
		if sub, ok := item.(*kicadsexp.List); ok && sub.Key() == key {
			return sub, true
		}
	}
	return nil, false
}

// findAllNodes finds all child lists with the given key
func findAllNodes(s kicadsexp.Sexp, key string) []*kicadsexp.List {
	list, ok := s.(*kicadsexp.List)
	if !ok {
		return nil
	}
	var results []*kicadsexp.List
	for _, item := range list.Elements() {
		if sub, ok := item.(*kicadsexp.List); ok && sub.Key() == key {
			results = append(results, sub)
		}
	}
	return results
}

// getListItems returns all items in a list (excluding the first symbol/key)
// Example: getListItems((layers "F.Cu" "B.Cu")) returns ["F.Cu", "B.Cu"]
func getListItems(s kicadsexp.Sexp) []kicadsexp.Sexp {
	list, ok := s.(*kicadsexp.List)
	if !ok || list.Len() <= 1 {
		return nil
	}
	return list.Elements()[1:]
}

// Typed value extraction helpers

// getString extracts a symbol or quoted string at the given index in a list
// Index 0 is the key, 1 is first value, etc.
func getString(s kicadsexp.Sexp, index int) (string, error) {
	list, ok := s.(*kicadsexp.List)
	if !ok {
		return "", fmt.Errorf("expected list, got leaf")
	}
	item := list.Get(index)
	if item == nil {
		return "", fmt.Errorf("index %d out of bounds (length %d)", index, list.Len())
	}
	if v, ok := kicadsexp.AtomValue(item); ok {
		return v, nil
	}
	return "", fmt.Errorf("expected atom at index %d, got list", index)
}

// getFloat extracts a float64 value at the given index
func getFloat(s kicadsexp.Sexp, index int) (float64, error) {
	str, err := getString(s, index)
	if err != nil {
		return 0, err
	}

	val, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse float %q: %w", str, err)
	}

	return val, nil
}

// getInt extracts an int value at the given index
func getInt(s kicadsexp.Sexp, index int) (int, error) {
	str, err := getString(s, index)
	if err != nil {
		return 0, err
	}

	val, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("failed to parse int %q: %w", str, err)
	}

	return val, nil
}

// Domain-specific extraction helpers

// getPosition extracts X,Y from (start X Y), (end X Y), (at X Y) and similar.
// KiCad writes coordinates in millimetres.
func getPosition(s kicadsexp.Sexp) (Position, error) {
	x, err := getFloat(s, 1)
	if err != nil {
		return Position{}, fmt.Errorf("failed to parse X: %w", err)
	}

	y, err := getFloat(s, 2)
	if err != nil {
		return Position{}, fmt.Errorf("failed to parse Y: %w", err)
	}

	return Position{X: x, Y: y}, nil
}

// getPositionAngle extracts (at X Y [angle]); the angle is in degrees.
func getPositionAngle(s kicadsexp.Sexp) (PositionAngle, error) {
	pos, err := getPosition(s)
	if err != nil {
		return PositionAngle{}, err
	}
	result := PositionAngle{Position: pos}
	if angle, err := getFloat(s, 3); err == nil {
		result.Angle = Angle(angle)
	}
	return result, nil
}

// getLayers extracts layer specifications
// Format: (layer "F.Cu") or (layers "F.Cu" "B.Cu" "*.Mask")
func getLayers(s kicadsexp.Sexp) (LayerSet, error) {
	keyword, err := getString(s, 0)
	if err != nil {
		return nil, err
	}

	var layers LayerSet

	switch keyword {
	case "layer":
		layer, err := getString(s, 1)
		if err != nil {
			return nil, err
		}
		layers = LayerSet{layer}
	case "layers":
		for _, item := range getListItems(s) {
			if name, ok := kicadsexp.AtomValue(item); ok && name != "" {
				layers = append(layers, name)
			}
		}
	default:
		return nil, fmt.Errorf("expected 'layer' or 'layers', got %q", keyword)
	}

	return layers, nil
}

// hasSymbol checks if a list contains a specific bare symbol
func hasSymbol(s kicadsexp.Sexp, symbol string) bool {
	list, ok := s.(*kicadsexp.List)
	if !ok {
		return false
	}
	for _, item := range list.Elements() {
		if sym, ok := item.(kicadsexp.Symbol); ok && string(sym) == symbol {
			return true
		}
	}
	return false
}

// getNodeName returns the first symbol of a list (the node type/name)
func getNodeName(s kicadsexp.Sexp) (string, error) {
	list, ok := s.(*kicadsexp.List)
	if !ok {
		return "", fmt.Errorf("expected list, got leaf")
	}
	if list.Key() == "" {
		return "", fmt.Errorf("expected symbol at head of list")
	}
	return list.Key(), nil
}

// getNetCode returns the code of a (net N ...) child, if any.
func getNetCode(s kicadsexp.Sexp) (int, bool) {
	node, ok := findNode(s, "net")
	if !ok {
		return 0, false
	}
	code, err := getInt(node, 1)
	return code, err == nil
}
