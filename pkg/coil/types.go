package coil

import (
	"fmt"
	"strconv"
	"strings"
)

// Point is a position on the board. Y grows downward, as in KiCad.
type Point struct {
	X Length
	Y Length
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y Length) Point {
	return Point{X: x, Y: y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%s, %s)", p.X, p.Y)
}

// LayerID names a copper layer using KiCad's canonical names.
type LayerID string

const (
	FrontCopper LayerID = "F.Cu"
	BackCopper  LayerID = "B.Cu"

	maxInnerLayers = 30
)

// InnerLayer returns the n-th internal copper layer (1-based).
func InnerLayer(n int) LayerID {
	return LayerID(fmt.Sprintf("In%d.Cu", n))
}

// Ordinal returns the layer's position in the stack, front to back:
// F.Cu is 0, InN.Cu is N and B.Cu is 31.
func (l LayerID) Ordinal() (int, bool) {
	switch l {
	case FrontCopper:
		return 0, true
	case BackCopper:
		return maxInnerLayers + 1, true
	}
	s := string(l)
	if !strings.HasPrefix(s, "In") || !strings.HasSuffix(s, ".Cu") {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(s, "In"), ".Cu"))
	if err != nil || n < 1 || n > maxInnerLayers {
		return 0, false
	}
	return n, true
}

// IsCopper reports whether l names a copper layer.
func (l LayerID) IsCopper() bool {
	_, ok := l.Ordinal()
	return ok
}

// NetID is a KiCad net code.
type NetID int

// TrackSegment is a straight copper segment.
type TrackSegment struct {
	Start Point
	End   Point
	Width Length
	Layer LayerID
	Net   NetID
}

// Validate checks the segment is non-degenerate.
func (t TrackSegment) Validate() error {
	if t.Start == t.End {
		return configErrorf("segment", "zero length at %s", t.Start)
	}
	if t.Width <= 0 {
		return configErrorf("segment", "non-positive width %s", t.Width)
	}
	if !t.Layer.IsCopper() {
		return configErrorf("segment", "%q is not a copper layer", t.Layer)
	}
	return nil
}

// Len returns the Manhattan length of the segment. Every segment this
// package emits is axis-aligned, so this is also its true length.
func (t TrackSegment) Len() Length {
	dx := t.End.X - t.Start.X
	dy := t.End.Y - t.Start.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Via is a plated hole joining two copper layers.
type Via struct {
	Position Point
	Drill    Length
	Diameter Length
	From     LayerID
	To       LayerID
	Net      NetID
}

// Validate checks diameter > drill > 0 and a real layer change.
func (v Via) Validate() error {
	if v.Drill <= 0 || v.Diameter <= v.Drill {
		return configErrorf("via", "need diameter > drill > 0, got %s/%s", v.Diameter, v.Drill)
	}
	if v.From == v.To {
		return configErrorf("via", "both ends on %s", v.From)
	}
	if !v.From.IsCopper() || !v.To.IsCopper() {
		return configErrorf("via", "layers %s/%s are not copper", v.From, v.To)
	}
	return nil
}

// PadRef names a pad on a component, e.g. J1.2.
type PadRef struct {
	Component string
	Pad       string
}

// ParsePadRef parses "<component>.<pad>".
func ParsePadRef(s string) (PadRef, error) {
	comp, pad, ok := strings.Cut(strings.TrimSpace(s), ".")
	if !ok || comp == "" || pad == "" {
		return PadRef{}, fmt.Errorf("invalid pad reference %q (want COMPONENT.PAD)", s)
	}
	return PadRef{Component: comp, Pad: pad}, nil
}

func (p PadRef) String() string {
	return p.Component + "." + p.Pad
}

// IsZero reports whether the reference is unset.
func (p PadRef) IsZero() bool {
	return p.Component == "" && p.Pad == ""
}

// PhaseSpec describes one motor phase.
type PhaseSpec struct {
	Name string

	// From carries the forward leg, To the backward leg.
	From LayerID
	To   LayerID

	// ShiftSign scales Geometry.PhaseShift along X: -1, 0 or +1.
	ShiftSign int

	Net      string
	StartPad PadRef
	EndPad   PadRef

	// SkipConnectors suppresses both connector stubs; the winding ends
	// open at the start track and at the outermost return via.
	SkipConnectors bool
}

// Validate checks the phase description on its own.
func (s PhaseSpec) Validate() error {
	field := "phase " + s.Name
	if s.Name == "" {
		return configErrorf("phase", "missing name")
	}
	if !s.From.IsCopper() {
		return configErrorf(field, "layer %q is not copper", s.From)
	}
	if !s.To.IsCopper() {
		return configErrorf(field, "layer %q is not copper", s.To)
	}
	if s.From == s.To {
		return configErrorf(field, "forward and backward layer are both %s", s.From)
	}
	if s.ShiftSign < -1 || s.ShiftSign > 1 {
		return configErrorf(field, "shift sign %d not in {-1, 0, +1}", s.ShiftSign)
	}
	if s.Net == "" {
		return configErrorf(field, "missing net")
	}
	if !s.SkipConnectors && (s.StartPad.IsZero() || s.EndPad.IsZero()) {
		return configErrorf(field, "start and end pads are required unless connectors are skipped")
	}
	return nil
}
