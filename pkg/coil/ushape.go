package coil

// UShape builds the three segments of one nested U: down the leading edge,
// across the bottom, up the trailing edge. The bottom is raised by dx (not
// dy) so inner tracks are shortened at both open ends in proportion to
// their nesting.
func UShape(origin Point, lengthX, heightY, dx, dy, width Length, layer LayerID, net NetID) ([3]TrackSegment, error) {
	var u [3]TrackSegment
	switch {
	case dx < 0 || dy < 0:
		return u, configErrorf("u-shape", "negative offset (%s, %s)", dx, dy)
	case lengthX <= 2*dx:
		return u, configErrorf("u-shape", "length %s mm does not exceed twice the offset %s mm", lengthX, dx)
	case heightY <= dx:
		return u, configErrorf("u-shape", "height %s mm does not exceed the offset %s mm", heightY, dx)
	case width <= 0:
		return u, configErrorf("u-shape", "non-positive width %s mm", width)
	}

	top := origin.Y - dy
	bottom := origin.Y + heightY - dx
	lead := origin.X + dx
	trail := origin.X + lengthX - dx

	u[0] = TrackSegment{Start: Pt(lead, top), End: Pt(lead, bottom), Width: width, Layer: layer, Net: net}
	u[1] = TrackSegment{Start: Pt(lead, bottom), End: Pt(trail, bottom), Width: width, Layer: layer, Net: net}
	u[2] = TrackSegment{Start: Pt(trail, bottom), End: Pt(trail, top), Width: width, Layer: layer, Net: net}
	return u, nil
}

// UShapeClosed is UShape plus a top bridge from the trailing edge to the
// leading edge of the same track in the next period (origin.X + lengthX).
func UShapeClosed(origin Point, lengthX, heightY, dx, dy, width Length, layer LayerID, net NetID) ([4]TrackSegment, error) {
	var closed [4]TrackSegment
	if dx == 0 {
		return closed, configErrorf("u-shape", "zero offset leaves no room for a bridge")
	}
	u, err := UShape(origin, lengthX, heightY, dx, dy, width, layer, net)
	if err != nil {
		return closed, err
	}
	copy(closed[:], u[:])
	top := origin.Y - dy
	closed[3] = TrackSegment{
		Start: Pt(origin.X+lengthX-dx, top),
		End:   Pt(origin.X+lengthX+dx, top),
		Width: width,
		Layer: layer,
		Net:   net,
	}
	return closed, nil
}
