// Package sexp provides types shared by the KiCad file models: positions,
// sizes and bounding boxes in millimetres, plus exact conversion between
// the decimal millimetre text KiCad writes and integer nanometres.
package sexp

// Position represents a 2D coordinate in the KiCad coordinate system,
// in millimetres. Y grows downward.
type Position struct {
	X float64
	Y float64
}

// Angle represents rotation in degrees, counter-clockwise as drawn.
type Angle float64

// PositionAngle combines position with rotation
type PositionAngle struct {
	Position
	Angle Angle
}

// Size represents dimensions
type Size struct {
	Width  float64 // Width in mm
	Height float64 // Height in mm
}

// Stroke defines line appearance
type Stroke struct {
	Width float64 // Line width in mm
	Type  string  // Line type (solid, dash, dot, etc.)
}

// BoundingBox represents a rectangular boundary
type BoundingBox struct {
	Min Position // Minimum (top-left) corner
	Max Position // Maximum (bottom-right) corner
}

// NewBoundingBox creates an empty bounding box
func NewBoundingBox() BoundingBox {
	return BoundingBox{
		Min: Position{X: 1e9, Y: 1e9},
		Max: Position{X: -1e9, Y: -1e9},
	}
}

// IsEmpty checks if the bounding box is empty
func (bb BoundingBox) IsEmpty() bool {
	return bb.Min.X > bb.Max.X || bb.Min.Y > bb.Max.Y
}

// Intersects checks if two bounding boxes intersect
func (bb BoundingBox) Intersects(other BoundingBox) bool {
	return bb.Min.X <= other.Max.X && bb.Max.X >= other.Min.X &&
		bb.Min.Y <= other.Max.Y && bb.Max.Y >= other.Min.Y
}

// Contains checks if a position is within the bounding box
func (bb BoundingBox) Contains(pos Position) bool {
	return pos.X >= bb.Min.X && pos.X <= bb.Max.X &&
		pos.Y >= bb.Min.Y && pos.Y <= bb.Max.Y
}

// Expand expands the bounding box to include a position
func (bb *BoundingBox) Expand(pos Position) {
	if pos.X < bb.Min.X {
		bb.Min.X = pos.X
	}
	if pos.Y < bb.Min.Y {
		bb.Min.Y = pos.Y
	}
	if pos.X > bb.Max.X {
		bb.Max.X = pos.X
	}
	if pos.Y > bb.Max.Y {
		bb.Max.Y = pos.Y
	}
}

// ExpandBox expands to include another bounding box
func (bb *BoundingBox) ExpandBox(other BoundingBox) {
	if !other.IsEmpty() {
		bb.Expand(other.Min)
		bb.Expand(other.Max)
	}
}

// Width returns the width of the bounding box
func (bb BoundingBox) Width() float64 {
	return bb.Max.X - bb.Min.X
}

// Height returns the height of the bounding box
func (bb BoundingBox) Height() float64 {
	return bb.Max.Y - bb.Min.Y
}

// Center returns the center point of the bounding box
func (bb BoundingBox) Center() Position {
	return Position{
		X: (bb.Min.X + bb.Max.X) / 2.0,
		Y: (bb.Min.Y + bb.Max.Y) / 2.0,
	}
}

// UUID represents a unique identifier (used in KiCad v6+ files)
type UUID string

// GrLine represents a line graphic element
type GrLine struct {
	Start  Position
	End    Position
	Stroke Stroke
	Layer  string
}

// GrRect represents a rectangle graphic element
type GrRect struct {
	Start  Position // Top-left corner
	End    Position // Bottom-right corner
	Stroke Stroke
	Layer  string
}

// Graphics contains the board-level drawings the viewer cares about.
type Graphics struct {
	Lines []GrLine
	Rects []GrRect
}
