package renderer

import (
	"image"
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
)

// Render draws the scene. Copper is painted back to front so the front
// layer ends up on top; existing board copper is dimmed so the generated
// winding stands out. Items outside the camera's view are skipped.
func Render(gtx layout.Context, camera *Camera, scene *Scene, config *LayerConfig, palette Palette) {
	if config == nil {
		config = NewLayerConfig()
	}
	view := camera.VisibleBounds()

	paint.FillShape(gtx.Ops, palette.Background, clip.Rect{Max: gtx.Constraints.Max}.Op())

	for _, l := range scene.Outline {
		if view.Intersects(l.Extent()) {
			renderTrack(gtx, camera, l, palette.Edge)
		}
	}

	layers := scene.CopperLayers()
	for i := len(layers) - 1; i >= 0; i-- {
		layer := layers[i]
		if !config.IsVisible(layer) {
			continue
		}
		c := palette.Layer(layer)
		for _, t := range scene.Tracks {
			if t.Layer != layer || !view.Intersects(t.Extent()) {
				continue
			}
			if t.Generated {
				renderTrack(gtx, camera, t, c)
			} else {
				renderTrack(gtx, camera, t, Dim(c))
			}
		}
	}

	for _, p := range scene.Pads {
		if view.Intersects(p.Extent()) && padVisible(p, layers, config) {
			renderPad(gtx, camera, p, palette)
		}
	}

	for _, v := range scene.Vias {
		if !config.IsVisible(v.From) && !config.IsVisible(v.To) {
			continue
		}
		if !view.Intersects(v.Extent()) {
			continue
		}
		c := palette.Via
		if !v.Generated {
			c = Dim(c)
		}
		sx, sy := camera.WorldToScreen(v.At)
		renderCircle(gtx, sx, sy, math.Max(v.Diameter/2*camera.Zoom, 1.5), c)
		renderCircle(gtx, sx, sy, math.Max(v.Drill/2*camera.Zoom, 0.75), palette.Drill)
	}
}

func padVisible(p PadShape, layers []string, config *LayerConfig) bool {
	for _, l := range layers {
		if p.Layers.Contains(l) && config.IsVisible(l) {
			return true
		}
	}
	return len(layers) == 0
}

func renderTrack(gtx layout.Context, camera *Camera, t Line, c color.NRGBA) {
	x1, y1 := camera.WorldToScreen(t.Start)
	x2, y2 := camera.WorldToScreen(t.End)
	width := math.Max(t.Width*camera.Zoom, 1.0)
	renderLine(gtx, x1, y1, x2, y2, width, c)

	// Round the ends so consecutive segments join cleanly.
	renderCircle(gtx, x1, y1, width/2, c)
	renderCircle(gtx, x2, y2, width/2, c)
}

func renderPad(gtx layout.Context, camera *Camera, p PadShape, palette Palette) {
	sx, sy := camera.WorldToScreen(p.At)
	radians := -p.Angle * math.Pi / 180.0
	if camera.FlipView {
		radians = -radians
	}

	width := math.Max(p.Size.Width*camera.Zoom, 2.0)
	height := math.Max(p.Size.Height*camera.Zoom, 2.0)

	switch p.Shape {
	case "circle":
		renderCircle(gtx, sx, sy, (width+height)/4.0, palette.Pad)
	default:
		renderRotatedRect(gtx, sx, sy, width, height, radians, palette.Pad)
	}

	if p.Drill > 0 {
		renderCircle(gtx, sx, sy, math.Max(p.Drill/2.0*camera.Zoom, 1.0), palette.Drill)
	}
}

func renderCircle(gtx layout.Context, x, y, radius float64, fillColor color.NRGBA) {
	stack := op.Affine(f32.Affine2D{}.Offset(f32.Pt(float32(x), float32(y)))).Push(gtx.Ops)
	defer stack.Pop()

	r := int(math.Ceil(radius))
	rect := image.Rectangle{
		Min: image.Pt(-r, -r),
		Max: image.Pt(r, r),
	}
	paint.FillShape(gtx.Ops, fillColor, clip.Ellipse(rect).Op(gtx.Ops))
}

func renderRotatedRect(gtx layout.Context, x, y, width, height, radians float64, fillColor color.NRGBA) {
	stack := op.Affine(f32.Affine2D{}.Offset(f32.Pt(float32(x), float32(y)))).Push(gtx.Ops)
	defer stack.Pop()

	cos := float32(math.Cos(radians))
	sin := float32(math.Sin(radians))
	hw := float32(width / 2)
	hh := float32(height / 2)

	var path clip.Path
	path.Begin(gtx.Ops)
	corners := [4][2]float32{{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh}}
	for i, c := range corners {
		pt := f32.Pt(c[0]*cos-c[1]*sin, c[0]*sin+c[1]*cos)
		if i == 0 {
			path.MoveTo(pt)
		} else {
			path.LineTo(pt)
		}
	}
	path.Close()

	paint.FillShape(gtx.Ops, fillColor, clip.Outline{Path: path.End()}.Op())
}

func renderLine(gtx layout.Context, x1, y1, x2, y2, width float64, lineColor color.NRGBA) {
	var path clip.Path
	path.Begin(gtx.Ops)
	path.MoveTo(f32.Pt(float32(x1), float32(y1)))
	path.LineTo(f32.Pt(float32(x2), float32(y2)))

	stroke := clip.Stroke{
		Path:  path.End(),
		Width: float32(width),
	}.Op()

	paint.FillShape(gtx.Ops, lineColor, stroke)
}
