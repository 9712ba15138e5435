package renderer

import (
	"math"

	"github.com/OpenTraceLab/lincoil/pkg/coil"
	"github.com/OpenTraceLab/lincoil/pkg/kicad/pcb"
	"github.com/OpenTraceLab/lincoil/pkg/kicad/sexp"
)

// Line is a stroked segment in millimetres.
type Line struct {
	Start sexp.Position
	End   sexp.Position
	Width float64
	Layer string

	// Generated marks geometry that came from the coil generator rather
	// than from the board file.
	Generated bool
}

// Hole is a via.
type Hole struct {
	At        sexp.Position
	Diameter  float64
	Drill     float64
	From      string
	To        string
	Generated bool
}

// PadShape is a pad at its absolute board position.
type PadShape struct {
	At     sexp.Position
	Size   sexp.Size
	Angle  float64
	Shape  string
	Drill  float64
	Layers pcb.LayerSet
}

// Scene is everything the preview draws, already in board millimetres.
type Scene struct {
	Outline []Line
	Pads    []PadShape
	Tracks  []Line
	Vias    []Hole

	// board is the extent of everything read from the board file, nil for
	// a scene built without one.
	board *sexp.BoundingBox
}

// BoardScene collects the drawable parts of a parsed board.
func BoardScene(b *pcb.Board) *Scene {
	bb := b.GetBoundingBox()
	s := &Scene{board: &bb}
	for _, l := range b.Graphics.Lines {
		if l.Layer == "Edge.Cuts" {
			s.Outline = append(s.Outline, Line{Start: l.Start, End: l.End, Width: l.Stroke.Width, Layer: l.Layer})
		}
	}
	for _, r := range b.Graphics.Rects {
		if r.Layer != "Edge.Cuts" {
			continue
		}
		c := []sexp.Position{r.Start, {X: r.End.X, Y: r.Start.Y}, r.End, {X: r.Start.X, Y: r.End.Y}}
		for i := range c {
			s.Outline = append(s.Outline, Line{Start: c[i], End: c[(i+1)%4], Width: r.Stroke.Width, Layer: r.Layer})
		}
	}
	for i := range b.Footprints {
		fp := &b.Footprints[i]
		for _, pad := range fp.Pads {
			s.Pads = append(s.Pads, PadShape{
				At:     fp.TransformPosition(pad.Position),
				Size:   pad.Size,
				Angle:  float64(pad.Position.Angle),
				Shape:  pad.Shape,
				Drill:  pad.Drill,
				Layers: pad.Layers,
			})
		}
	}
	for _, t := range b.Tracks {
		s.Tracks = append(s.Tracks, Line{Start: t.Start, End: t.End, Width: t.Width, Layer: t.Layer})
	}
	for _, v := range b.Vias {
		h := Hole{At: v.Position, Diameter: v.Size, Drill: v.Drill}
		if len(v.Layers) == 2 {
			h.From, h.To = v.Layers[0], v.Layers[1]
		}
		s.Vias = append(s.Vias, h)
	}
	return s
}

// AddEmissions appends generator output in emission order.
func (s *Scene) AddEmissions(events []coil.Event) {
	for _, e := range events {
		if e.IsVia {
			v := e.Via
			s.Vias = append(s.Vias, Hole{
				At:        point(v.Position),
				Diameter:  v.Diameter.Millimeters(),
				Drill:     v.Drill.Millimeters(),
				From:      string(v.From),
				To:        string(v.To),
				Generated: true,
			})
			continue
		}
		t := e.Track
		s.Tracks = append(s.Tracks, Line{
			Start:     point(t.Start),
			End:       point(t.End),
			Width:     t.Width.Millimeters(),
			Layer:     string(t.Layer),
			Generated: true,
		})
	}
}

func point(p coil.Point) sexp.Position {
	return sexp.Position{X: p.X.Millimeters(), Y: p.Y.Millimeters()}
}

// Bounds covers the board and every generated item, including track
// widths and via diameters.
func (s *Scene) Bounds() sexp.BoundingBox {
	bb := sexp.NewBoundingBox()
	if s.board != nil {
		bb.ExpandBox(*s.board)
	}
	for _, l := range s.Tracks {
		if l.Generated {
			bb.ExpandBox(l.Extent())
		}
	}
	for _, v := range s.Vias {
		if v.Generated {
			bb.ExpandBox(v.Extent())
		}
	}
	return bb
}

// Extent returns the area the stroked line covers.
func (l Line) Extent() sexp.BoundingBox {
	bb := sexp.NewBoundingBox()
	r := l.Width / 2
	for _, p := range []sexp.Position{l.Start, l.End} {
		bb.Expand(sexp.Position{X: p.X - r, Y: p.Y - r})
		bb.Expand(sexp.Position{X: p.X + r, Y: p.Y + r})
	}
	return bb
}

// Extent returns the area the via's annular ring covers.
func (h Hole) Extent() sexp.BoundingBox {
	r := h.Diameter / 2
	return sexp.BoundingBox{
		Min: sexp.Position{X: h.At.X - r, Y: h.At.Y - r},
		Max: sexp.Position{X: h.At.X + r, Y: h.At.Y + r},
	}
}

// Extent returns an area the pad covers at any rotation.
func (p PadShape) Extent() sexp.BoundingBox {
	r := math.Hypot(p.Size.Width, p.Size.Height) / 2
	return sexp.BoundingBox{
		Min: sexp.Position{X: p.At.X - r, Y: p.At.Y - r},
		Max: sexp.Position{X: p.At.X + r, Y: p.At.Y + r},
	}
}

// CopperLayers lists the copper layers that carry tracks or vias, front to
// back.
func (s *Scene) CopperLayers() []string {
	var layers []string
	for _, t := range s.Tracks {
		layers = append(layers, t.Layer)
	}
	for _, v := range s.Vias {
		layers = append(layers, v.From, v.To)
	}
	return SortCopper(layers)
}
