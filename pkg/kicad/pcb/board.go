package pcb

import (
	"errors"
	"fmt"
)

var (
	// ErrFootprintNotFound is returned when no footprint has the reference.
	ErrFootprintNotFound = errors.New("footprint not found")

	// ErrPadNotFound is returned when a footprint has no pad with the number.
	ErrPadNotFound = errors.New("pad not found")

	// ErrUnknownNet is returned for net names or codes missing from the board.
	ErrUnknownNet = errors.New("unknown net")

	// ErrUnknownLayer is returned for layers missing from the board's stack.
	ErrUnknownLayer = errors.New("unknown layer")
)

// Board represents a complete KiCad PCB
type Board struct {
	Version    int         // File format version
	Generator  string      // Generator info (e.g., "pcbnew")
	General    General     // General board properties
	Layers     []Layer     // Layer definitions
	Nets       []Net       // Electrical nets
	Footprints []Footprint // Component footprints
	Graphics   Graphics    // Board-level lines and rectangles
	Tracks     []Track     // Track segments
	Vias       []Via       // Vias

	// Warnings lists elements that were skipped because they could not
	// be parsed.
	Warnings []string
}

// General contains general board properties
type General struct {
	Thickness float64 // Board thickness in mm
}

// Footprint represents a component footprint
type Footprint struct {
	Library   string        // Library name
	Name      string        // Footprint name
	Layer     string        // Layer (F.Cu or B.Cu typically)
	Position  PositionAngle // Position and rotation
	Pads      []Pad         // Pads
	Reference string        // Reference designator (e.g., "R1")
	Value     string        // Component value
}

// Pad represents a footprint pad
type Pad struct {
	Number   string        // Pad number/name
	Type     string        // Pad type (thru_hole, smd, etc.)
	Shape    string        // Pad shape (circle, rect, oval, etc.)
	Position PositionAngle // Position relative to the footprint
	Size     Size          // Pad size
	Drill    float64       // Drill diameter (0 for SMD)
	Layers   LayerSet      // Layers the pad appears on
	Net      *Net          // Connected net (if any)
}

// Track represents a copper track segment
type Track struct {
	Start  Position // Start point
	End    Position // End point
	Width  float64  // Track width in mm
	Layer  string   // Layer name
	Net    *Net     // Connected net
	Locked bool     // Whether track is locked
}

// Via represents a via
type Via struct {
	Position Position // Via position
	Size     float64  // Via diameter
	Drill    float64  // Drill diameter
	Type     string   // "" for through vias, "blind" or "micro"
	Layers   LayerSet // Layer pair
	Net      *Net     // Connected net
	Locked   bool     // Whether via is locked
}

// GetNet returns a net by name, or nil if not found
func (b *Board) GetNet(name string) *Net {
	for i := range b.Nets {
		if b.Nets[i].Name == name {
			return &b.Nets[i]
		}
	}
	return nil
}

// GetNetPads returns all pads connected to a specific net
func (b *Board) GetNetPads(netName string) []Pad {
	var pads []Pad
	for _, fp := range b.Footprints {
		for _, pad := range fp.Pads {
			if pad.Net != nil && pad.Net.Name == netName {
				pads = append(pads, pad)
			}
		}
	}
	return pads
}

// GetNetTracks returns all tracks connected to a specific net
func (b *Board) GetNetTracks(netName string) []Track {
	var tracks []Track
	for _, track := range b.Tracks {
		if track.Net != nil && track.Net.Name == netName {
			tracks = append(tracks, track)
		}
	}
	return tracks
}

// GetNetVias returns all vias connected to a specific net
func (b *Board) GetNetVias(netName string) []Via {
	var vias []Via
	for _, via := range b.Vias {
		if via.Net != nil && via.Net.Name == netName {
			vias = append(vias, via)
		}
	}
	return vias
}

// NetInfo contains information about a net and its connections
type NetInfo struct {
	Net    *Net
	Pads   []Pad
	Tracks []Track
	Vias   []Via
}

// GetNetInfo returns complete information about a net
func (b *Board) GetNetInfo(netName string) *NetInfo {
	net := b.GetNet(netName)
	if net == nil {
		return nil
	}

	return &NetInfo{
		Net:    net,
		Pads:   b.GetNetPads(netName),
		Tracks: b.GetNetTracks(netName),
		Vias:   b.GetNetVias(netName),
	}
}

// GetAllNetNames returns a list of all net names in the board
func (b *Board) GetAllNetNames() []string {
	names := make([]string, len(b.Nets))
	for i, net := range b.Nets {
		names[i] = net.Name
	}
	return names
}

// CopperLayers returns the copper layers in stack order.
func (b *Board) CopperLayers() []Layer {
	var layers []Layer
	for _, l := range b.Layers {
		if l.IsCopper() {
			layers = append(layers, l)
		}
	}
	return layers
}

// FindFootprint returns the footprint with the given reference designator.
func (b *Board) FindFootprint(reference string) (*Footprint, bool) {
	for i := range b.Footprints {
		if b.Footprints[i].Reference == reference {
			return &b.Footprints[i], true
		}
	}
	return nil, false
}

// PadPosition returns the absolute board position of a pad, with the
// footprint's placement and rotation applied. When several pads share a
// number the first one wins.
func (b *Board) PadPosition(reference, number string) (Position, error) {
	fp, ok := b.FindFootprint(reference)
	if !ok {
		return Position{}, fmt.Errorf("%w: %s", ErrFootprintNotFound, reference)
	}
	for _, pad := range fp.Pads {
		if pad.Number == number {
			return fp.TransformPosition(pad.Position), nil
		}
	}
	return Position{}, fmt.Errorf("%w: %s.%s", ErrPadNotFound, reference, number)
}
