package coil

import "fmt"

// MaxConnectorWidth caps the width of connector stubs.
const MaxConnectorWidth = 2 * Millimeter

// Params are the physical inputs of a winding.
type Params struct {
	// Length is the active length of the stator along X; Height is the
	// depth of each U along Y.
	Length Length
	Height Length

	PoleCount     int
	PeriodCount   int
	TracksPerPole int
	PhaseCount    int

	Clearance   Length
	ViaDiameter Length
	ViaDrill    Length

	// Origin is the top-left corner of the unshifted winding.
	Origin Point

	// TopLayer is the pad-facing layer connector stubs finish on.
	// Defaults to F.Cu.
	TopLayer LayerID
}

// Geometry is a resolved, read-only parameter set.
type Geometry struct {
	Params

	PoleLength   Length
	PeriodLength Length
	PhaseShift   Length
	TrackWidth   Length
	Pitch        Length
}

// Resolve derives the winding geometry from p. Every check that can fail
// for a given Params is made here, so generation itself only fails on
// lookups.
func Resolve(p Params) (*Geometry, error) {
	if p.TopLayer == "" {
		p.TopLayer = FrontCopper
	}

	switch {
	case p.Length <= 0:
		return nil, configErrorf("length", "must be positive, got %s mm", p.Length)
	case p.Height <= 0:
		return nil, configErrorf("height", "must be positive, got %s mm", p.Height)
	case p.PoleCount <= 0:
		return nil, configErrorf("pole count", "must be positive, got %d", p.PoleCount)
	case p.PeriodCount <= 0:
		return nil, configErrorf("period count", "must be positive, got %d", p.PeriodCount)
	case p.TracksPerPole <= 0:
		return nil, configErrorf("tracks per pole", "must be positive, got %d", p.TracksPerPole)
	case p.PhaseCount <= 0:
		return nil, configErrorf("phase count", "must be positive, got %d", p.PhaseCount)
	case p.Clearance <= 0:
		return nil, configErrorf("clearance", "must be positive, got %s mm", p.Clearance)
	case p.ViaDrill <= 0 || p.ViaDiameter <= p.ViaDrill:
		return nil, configErrorf("via", "need diameter > drill > 0, got %s/%s mm", p.ViaDiameter, p.ViaDrill)
	case !p.TopLayer.IsCopper():
		return nil, configErrorf("top layer", "%q is not a copper layer", p.TopLayer)
	}

	g := &Geometry{
		Params:       p,
		PoleLength:   p.Length / Length(p.PoleCount),
		PeriodLength: p.Length / Length(p.PeriodCount),
	}
	g.PhaseShift = g.PoleLength / Length(p.PhaseCount)
	g.TrackWidth = g.PoleLength/Length(p.TracksPerPole) - p.Clearance
	g.Pitch = g.TrackWidth + p.Clearance

	if g.TrackWidth <= 0 {
		return nil, configErrorf("track width",
			"pole length %s mm / %d tracks leaves no copper after %s mm clearance",
			g.PoleLength, p.TracksPerPole, p.Clearance)
	}
	if dx, _ := g.Offsets(0); dx <= 0 {
		return nil, configErrorf("track width", "pitch %s mm is below resolution", g.Pitch)
	}

	// The innermost U is the tightest; if it fits, all of them do.
	dx, _ := g.Offsets(p.TracksPerPole - 1)
	if g.PeriodLength <= 2*dx {
		return nil, configErrorf("period length",
			"%s mm cannot hold %d nested tracks (needs more than %s mm)",
			g.PeriodLength, p.TracksPerPole, 2*dx)
	}
	if p.Height <= dx {
		return nil, configErrorf("height",
			"%s mm cannot hold %d nested tracks (needs more than %s mm)",
			p.Height, p.TracksPerPole, dx)
	}
	if g.PeriodLength <= g.PoleLength {
		return nil, configErrorf("period length",
			"%s mm must exceed the pole length %s mm", g.PeriodLength, g.PoleLength)
	}
	if drill, diameter := g.ConnectorVia(); drill >= p.ViaDrill || diameter >= p.ViaDiameter {
		return nil, configErrorf("via",
			"connector via %s/%s mm must be smaller than the main via %s/%s mm",
			diameter, drill, p.ViaDiameter, p.ViaDrill)
	}

	return g, nil
}

// Offsets returns the lateral (dx) and longitudinal (dy) displacement of
// nested track i: dx = floor((i+0.5)*pitch), dy = floor(i*pitch).
// i must be in [0, TracksPerPole).
func (g *Geometry) Offsets(track int) (dx, dy Length) {
	if track < 0 || track >= g.TracksPerPole {
		panic(fmt.Sprintf("coil: track index %d out of range [0, %d)", track, g.TracksPerPole))
	}
	return Length(2*track+1) * g.Pitch / 2, Length(track) * g.Pitch
}

// PhaseOrigin returns the winding origin shifted by sign*PhaseShift.
func (g *Geometry) PhaseOrigin(sign int) Point {
	return Point{X: g.Origin.X + Length(sign)*g.PhaseShift, Y: g.Origin.Y}
}

// ConnectorWidth is the width of connector stubs: the track width capped
// at MaxConnectorWidth.
func (g *Geometry) ConnectorWidth() Length {
	return minLength(g.TrackWidth, MaxConnectorWidth)
}

// ConnectorVia returns the reduced drill and diameter used where a
// connector stub changes layer. Resolve guarantees both are strictly
// smaller than the main via.
func (g *Geometry) ConnectorVia() (drill, diameter Length) {
	w := g.ConnectorWidth()
	return w / 5, 3 * w / 5
}

// Extent returns the bounding box of the unshifted winding, excluding
// connector stubs.
func (g *Geometry) Extent() (lo, hi Point) {
	_, dyMax := g.Offsets(g.TracksPerPole - 1)
	dx0, _ := g.Offsets(0)
	lo = Point{X: g.Origin.X - g.Pitch/2, Y: g.Origin.Y - dyMax}
	hi = Point{
		X: g.Origin.X + Length(g.PeriodCount+1)*g.PeriodLength,
		Y: g.Origin.Y + g.Height - dx0,
	}
	return lo, hi
}
