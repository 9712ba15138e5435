package renderer

import (
	"math"

	"github.com/OpenTraceLab/lincoil/pkg/kicad/sexp"
)

// Camera maps board millimetres to window pixels.
type Camera struct {
	// Center position in world coordinates (mm)
	CenterX float64
	CenterY float64

	// Zoom level in pixels per mm
	Zoom float64

	ScreenWidth  int
	ScreenHeight int

	// FlipView mirrors X around the rotation center, which is how the
	// back of the board is shown.
	FlipView bool
	Rotation float64 // degrees

	RotationCenterX float64
	RotationCenterY float64
}

const (
	minZoom = 0.1
	maxZoom = 1000.0
)

// NewCamera creates a camera at 10 px/mm.
func NewCamera(screenWidth, screenHeight int) *Camera {
	return &Camera{
		Zoom:         10.0,
		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
	}
}

// WorldToScreen converts board coordinates to pixels. KiCad's Y axis
// already grows downward like the screen's, so no flip is needed.
func (c *Camera) WorldToScreen(pos sexp.Position) (float64, float64) {
	pos = c.applyViewTransform(pos)

	x := (pos.X-c.CenterX)*c.Zoom + float64(c.ScreenWidth)/2.0
	y := (pos.Y-c.CenterY)*c.Zoom + float64(c.ScreenHeight)/2.0
	return x, y
}

// ScreenToWorld converts pixels to board coordinates.
func (c *Camera) ScreenToWorld(screenX, screenY float64) sexp.Position {
	x := (screenX-float64(c.ScreenWidth)/2.0)/c.Zoom + c.CenterX
	y := (screenY-float64(c.ScreenHeight)/2.0)/c.Zoom + c.CenterY
	return c.applyInverseViewTransform(sexp.Position{X: x, Y: y})
}

// Pan moves the camera by a pixel offset.
func (c *Camera) Pan(deltaX, deltaY float64) {
	c.CenterX -= deltaX / c.Zoom
	c.CenterY -= deltaY / c.Zoom
}

// ZoomAt zooms by factor keeping the point under the cursor fixed.
func (c *Camera) ZoomAt(screenX, screenY, factor float64) {
	before := c.ScreenToWorld(screenX, screenY)

	c.Zoom = math.Max(minZoom, math.Min(maxZoom, c.Zoom*factor))

	after := c.ScreenToWorld(screenX, screenY)
	c.CenterX += before.X - after.X
	c.CenterY += before.Y - after.Y
}

// Fit centers bbox and zooms so it fills 90% of the window.
func (c *Camera) Fit(bbox sexp.BoundingBox) {
	width := bbox.Width()
	height := bbox.Height()
	if bbox.IsEmpty() || width <= 0 || height <= 0 {
		return
	}

	center := bbox.Center()
	c.CenterX, c.CenterY = center.X, center.Y
	c.RotationCenterX, c.RotationCenterY = center.X, center.Y

	zoomX := float64(c.ScreenWidth) * 0.9 / width
	zoomY := float64(c.ScreenHeight) * 0.9 / height
	c.Zoom = math.Min(zoomX, zoomY)
}

// UpdateScreenSize records a window resize.
func (c *Camera) UpdateScreenSize(width, height int) {
	c.ScreenWidth = width
	c.ScreenHeight = height
}

// Flip toggles between the front and the mirrored back view.
func (c *Camera) Flip() {
	c.FlipView = !c.FlipView
}

// Rotate turns the view, normalized to [0, 360).
func (c *Camera) Rotate(degrees float64) {
	c.Rotation = math.Mod(c.Rotation+degrees, 360)
	if c.Rotation < 0 {
		c.Rotation += 360
	}
}

func (c *Camera) applyViewTransform(pos sexp.Position) sexp.Position {
	x := pos.X - c.RotationCenterX
	y := pos.Y - c.RotationCenterY

	if c.Rotation != 0 {
		x, y = rotate(x, y, c.Rotation)
	}
	if c.FlipView {
		x = -x
	}

	return sexp.Position{X: x + c.RotationCenterX, Y: y + c.RotationCenterY}
}

func (c *Camera) applyInverseViewTransform(pos sexp.Position) sexp.Position {
	x := pos.X - c.RotationCenterX
	y := pos.Y - c.RotationCenterY

	if c.FlipView {
		x = -x
	}
	if c.Rotation != 0 {
		x, y = rotate(x, y, -c.Rotation)
	}

	return sexp.Position{X: x + c.RotationCenterX, Y: y + c.RotationCenterY}
}

func rotate(x, y, degrees float64) (float64, float64) {
	rad := degrees * math.Pi / 180.0
	cos, sin := math.Cos(rad), math.Sin(rad)
	return x*cos - y*sin, x*sin + y*cos
}

// VisibleBounds returns the board area currently on screen.
func (c *Camera) VisibleBounds() sexp.BoundingBox {
	bb := sexp.NewBoundingBox()
	w, h := float64(c.ScreenWidth), float64(c.ScreenHeight)
	for _, p := range [][2]float64{{0, 0}, {w, 0}, {0, h}, {w, h}} {
		bb.Expand(c.ScreenToWorld(p[0], p[1]))
	}
	return bb
}
