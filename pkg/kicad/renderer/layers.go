package renderer

import (
	"sort"

	"github.com/OpenTraceLab/lincoil/pkg/coil"
)

// LayerConfig controls which layers are drawn. Layers are visible unless
// hidden.
type LayerConfig struct {
	hidden map[string]bool
}

// NewLayerConfig creates a configuration with every layer visible.
func NewLayerConfig() *LayerConfig {
	return &LayerConfig{hidden: make(map[string]bool)}
}

// SetVisible sets the visibility of a specific layer
func (lc *LayerConfig) SetVisible(layer string, visible bool) {
	if visible {
		delete(lc.hidden, layer)
		return
	}
	lc.hidden[layer] = true
}

// Toggle flips a layer and returns its new state.
func (lc *LayerConfig) Toggle(layer string) bool {
	visible := !lc.IsVisible(layer)
	lc.SetVisible(layer, visible)
	return visible
}

// IsVisible returns whether a layer is drawn.
func (lc *LayerConfig) IsVisible(layer string) bool {
	return !lc.hidden[layer]
}

// ShowAll shows all layers
func (lc *LayerConfig) ShowAll() {
	lc.hidden = make(map[string]bool)
}

// ShowOnly shows only the given layers out of all.
func (lc *LayerConfig) ShowOnly(all []string, layers ...string) {
	keep := make(map[string]bool, len(layers))
	for _, l := range layers {
		keep[l] = true
	}
	for _, l := range all {
		lc.SetVisible(l, keep[l])
	}
}

// SortCopper orders copper layer names front to back and drops duplicates
// and non-copper names.
func SortCopper(layers []string) []string {
	seen := make(map[string]bool, len(layers))
	var out []string
	for _, l := range layers {
		if seen[l] || !coil.LayerID(l).IsCopper() {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		a, _ := coil.LayerID(out[i]).Ordinal()
		b, _ := coil.LayerID(out[j]).Ordinal()
		return a < b
	})
	return out
}
