package pcb

import "math"

// GetBoundingBox returns the area covered by the board's copper, pads and
// graphics, including track widths, via diameters and stroke widths.
func (b *Board) GetBoundingBox() BoundingBox {
	bbox := NewBoundingBox()
	for _, t := range b.Tracks {
		expandRound(&bbox, t.Start, t.Width/2)
		expandRound(&bbox, t.End, t.Width/2)
	}
	for _, v := range b.Vias {
		expandRound(&bbox, v.Position, v.Size/2)
	}
	for i := range b.Footprints {
		bbox.ExpandBox(b.Footprints[i].GetBoundingBox())
	}
	for _, l := range b.Graphics.Lines {
		expandRound(&bbox, l.Start, l.Stroke.Width/2)
		expandRound(&bbox, l.End, l.Stroke.Width/2)
	}
	for _, r := range b.Graphics.Rects {
		expandRound(&bbox, r.Start, r.Stroke.Width/2)
		expandRound(&bbox, r.End, r.Stroke.Width/2)
	}
	return bbox
}

// GetBoundingBox returns the area covered by the footprint's pads at their
// board positions. A footprint without pads covers only its anchor.
func (fp *Footprint) GetBoundingBox() BoundingBox {
	bbox := NewBoundingBox()
	if len(fp.Pads) == 0 {
		bbox.Expand(Position{X: fp.Position.X, Y: fp.Position.Y})
		return bbox
	}
	for _, pad := range fp.Pads {
		at := fp.TransformPosition(pad.Position)
		hx, hy := rotatedHalfSize(pad.Size, float64(pad.Position.Angle))
		bbox.Expand(Position{X: at.X - hx, Y: at.Y - hy})
		bbox.Expand(Position{X: at.X + hx, Y: at.Y + hy})
	}
	return bbox
}

// rotatedHalfSize returns the half extents of a w×h rectangle turned by deg.
func rotatedHalfSize(s Size, deg float64) (hx, hy float64) {
	rad := deg * math.Pi / 180.0
	cos, sin := math.Abs(math.Cos(rad)), math.Abs(math.Sin(rad))
	return (s.Width*cos + s.Height*sin) / 2, (s.Width*sin + s.Height*cos) / 2
}

func expandRound(bbox *BoundingBox, p Position, r float64) {
	bbox.Expand(Position{X: p.X - r, Y: p.Y - r})
	bbox.Expand(Position{X: p.X + r, Y: p.Y + r})
}

// TransformPosition maps a pad position from footprint to board
// coordinates. KiCad angles turn counter-clockwise on screen and Y grows
// downward, so the rotation is applied with a negated angle.
func (fp *Footprint) TransformPosition(rel PositionAngle) Position {
	x, y := rel.X, rel.Y
	if fp.Position.Angle != 0 {
		rad := -float64(fp.Position.Angle) * math.Pi / 180.0
		cos, sin := math.Cos(rad), math.Sin(rad)
		x, y = x*cos-y*sin, x*sin+y*cos
	}
	return Position{X: x + fp.Position.X, Y: y + fp.Position.Y}
}
