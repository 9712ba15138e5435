package coil

import "fmt"

// Phase is a PhaseSpec bound to its resolved net and shifted origin.
type Phase struct {
	Spec   PhaseSpec
	Net    NetID
	Origin Point
}

// Generator emits the geometry of single phases. It holds no state between
// calls and may be shared.
type Generator struct {
	geo  *Geometry
	pads PadLocator
}

// NewGenerator creates a generator. pads may be nil when every phase skips
// its connectors.
func NewGenerator(geo *Geometry, pads PadLocator) *Generator {
	return &Generator{geo: geo, pads: pads}
}

// Forward emits the forward leg on ph.Spec.From: PeriodCount+1 period
// slots of nested U-shapes, chained by top bridges, with a row of
// From→To vias on the trailing edge of the last slot. The start stub is
// emitted ahead of the first U of track 0.
func (g *Generator) Forward(ph Phase, out *Buffer) error {
	geo := g.geo
	layer := ph.Spec.From
	origin := ph.Origin

	for period := 0; period <= geo.PeriodCount; period++ {
		terminal := period == geo.PeriodCount
		for track := 0; track < geo.TracksPerPole; track++ {
			dx, dy := geo.Offsets(track)

			if period == 0 && track == 0 && !ph.Spec.SkipConnectors {
				lead := Pt(origin.X+dx, origin.Y-dy)
				if err := g.connect(lead, ph.Spec.StartPad, layer, ph.Net, out, period, track); err != nil {
					return fmt.Errorf("start connector %s: %w", ph.Spec.StartPad, err)
				}
			}

			if terminal {
				u, err := UShape(origin, geo.PeriodLength, geo.Height, dx, dy, geo.TrackWidth, layer, ph.Net)
				if err != nil {
					return err
				}
				if err := addU(out, period, track, u[:]); err != nil {
					return err
				}
				via := Via{
					Position: Pt(origin.X+geo.PeriodLength-dx, origin.Y-dy),
					Drill:    geo.ViaDrill,
					Diameter: geo.ViaDiameter,
					From:     ph.Spec.From,
					To:       ph.Spec.To,
					Net:      ph.Net,
				}
				if err := out.addVia(KindVia, period, track, via); err != nil {
					return err
				}
				continue
			}

			closed, err := UShapeClosed(origin, geo.PeriodLength, geo.Height, dx, dy, geo.TrackWidth, layer, ph.Net)
			if err != nil {
				return err
			}
			if err := addU(out, period, track, closed[:3]); err != nil {
				return err
			}
			if err := out.addTrack(KindBridge, period, track, closed[3]); err != nil {
				return err
			}
		}
		origin.X += geo.PeriodLength
	}
	return nil
}

// Backward emits the return leg on ph.Spec.To. Its U-shapes sit one pole to
// the right of the forward ones, so every pole carries current the same way
// on both layers.
//
// Period 0 lifts each track back onto the From layer. The via is not at
// the backward U's own leading edge: it sits on the leading edge of forward
// track i+1, which turns the pair of legs into a spiral. The outermost
// track has no next track, so its via sits half a pitch left of the phase
// origin, just outside the winding, and feeds the end stub. The last period closes each track onto the forward
// via row with an end line.
func (g *Generator) Backward(ph Phase, out *Buffer) error {
	geo := g.geo
	layer := ph.Spec.To
	last := geo.PeriodCount - 1
	outer := geo.TracksPerPole - 1
	viaRowX := ph.Origin.X + Length(geo.PeriodCount+1)*geo.PeriodLength
	origin := Pt(ph.Origin.X+geo.PoleLength, ph.Origin.Y)

	for period := 0; period < geo.PeriodCount; period++ {
		for track := 0; track < geo.TracksPerPole; track++ {
			dx, dy := geo.Offsets(track)
			top := origin.Y - dy
			lead := Pt(origin.X+dx, top)
			trail := Pt(origin.X+geo.PeriodLength-dx, top)

			var turn Point
			if period == 0 {
				turn = g.turnPoint(ph.Origin, track, top)
				via := Via{
					Position: turn,
					Drill:    geo.ViaDrill,
					Diameter: geo.ViaDiameter,
					From:     ph.Spec.From,
					To:       ph.Spec.To,
					Net:      ph.Net,
				}
				if err := out.addVia(KindVia, period, track, via); err != nil {
					return err
				}
				start := TrackSegment{Start: turn, End: lead, Width: geo.TrackWidth, Layer: layer, Net: ph.Net}
				if err := out.addTrack(KindStartLine, period, track, start); err != nil {
					return err
				}
			}

			if period == last {
				u, err := UShape(origin, geo.PeriodLength, geo.Height, dx, dy, geo.TrackWidth, layer, ph.Net)
				if err != nil {
					return err
				}
				if err := addU(out, period, track, u[:]); err != nil {
					return err
				}
				end := TrackSegment{Start: trail, End: Pt(viaRowX-dx, top), Width: geo.TrackWidth, Layer: layer, Net: ph.Net}
				if err := out.addTrack(KindEndLine, period, track, end); err != nil {
					return err
				}
			} else {
				closed, err := UShapeClosed(origin, geo.PeriodLength, geo.Height, dx, dy, geo.TrackWidth, layer, ph.Net)
				if err != nil {
					return err
				}
				if err := addU(out, period, track, closed[:3]); err != nil {
					return err
				}
				if err := out.addTrack(KindBridge, period, track, closed[3]); err != nil {
					return err
				}
			}

			if period == 0 && track == outer && !ph.Spec.SkipConnectors {
				if err := g.connect(turn, ph.Spec.EndPad, ph.Spec.From, ph.Net, out, period, track); err != nil {
					return fmt.Errorf("end connector %s: %w", ph.Spec.EndPad, err)
				}
			}
		}
		origin.X += geo.PeriodLength
	}
	return nil
}

// turnPoint is where backward track i climbs back to the From layer: on
// forward track i+1's leading edge, or left of the winding for the
// outermost track.
func (g *Generator) turnPoint(phaseOrigin Point, track int, y Length) Point {
	if track == g.geo.TracksPerPole-1 {
		return Pt(phaseOrigin.X-g.geo.Pitch/2, y)
	}
	next, _ := g.geo.Offsets(track + 1)
	return Pt(phaseOrigin.X+next, y)
}

// Connect routes from a winding point to a pad: a vertical run on layer to
// the pad's row, a reduced via onto the top layer when needed, and a
// horizontal run into the pad. Pad lookup failures are returned as-is.
func (g *Generator) Connect(from Point, pad PadRef, layer LayerID, net NetID, out *Buffer) error {
	return g.connect(from, pad, layer, net, out, 0, 0)
}

func (g *Generator) connect(from Point, ref PadRef, layer LayerID, net NetID, out *Buffer, period, track int) error {
	if g.pads == nil {
		return fmt.Errorf("%w: no pad locator for %s", ErrPadNotFound, ref)
	}
	pad, err := g.pads.PadPosition(ref)
	if err != nil {
		return err
	}

	geo := g.geo
	width := geo.ConnectorWidth()
	corner := Pt(from.X, pad.Y)

	if corner != from {
		seg := TrackSegment{Start: from, End: corner, Width: width, Layer: layer, Net: net}
		if err := out.addTrack(KindStub, period, track, seg); err != nil {
			return err
		}
	}
	if layer != geo.TopLayer {
		drill, diameter := geo.ConnectorVia()
		via := Via{Position: corner, Drill: drill, Diameter: diameter, From: layer, To: geo.TopLayer, Net: net}
		if err := out.addVia(KindStubVia, period, track, via); err != nil {
			return err
		}
	}
	if pad != corner {
		seg := TrackSegment{Start: corner, End: pad, Width: width, Layer: geo.TopLayer, Net: net}
		if err := out.addTrack(KindStub, period, track, seg); err != nil {
			return err
		}
	}
	return nil
}

func addU(out *Buffer, period, track int, segs []TrackSegment) error {
	for _, s := range segs {
		if err := out.addTrack(KindUShape, period, track, s); err != nil {
			return err
		}
	}
	return nil
}
