package radar

import (
	"image/color"
	"math"
)

// Canvas is an immediate-mode 2D drawing surface. Coordinates are logical
// pixels; the device pixel ratio is applied by Setup. The current path
// survives Fill and Stroke until the next BeginPath.
type Canvas interface {
	// Setup sizes the backing surface to round(width*dpr) x
	// round(height*dpr) pixels and scales drawing by dpr.
	Setup(width, height, dpr float64)
	Clear(c color.Color)

	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	ClosePath()
	Fill()
	Stroke()

	SetFillColor(c color.Color)
	SetStrokeColor(c color.Color)
	SetLineWidth(w float64)

	SetFont(size float64)
	SetTextAlign(a TextAlign)
	// FillText draws text with its baseline at y, using the fill colour.
	FillText(text string, x, y float64)
}

type TextAlign int

const (
	AlignLeft TextAlign = iota
	AlignCenter
)

// Viewport is the logical size of the drawing area and its device pixel
// ratio.
type Viewport struct {
	Width  float64
	Height float64
	DPR    float64
}

func (v Viewport) normalized() Viewport {
	if v.DPR <= 0 || math.IsNaN(v.DPR) || math.IsInf(v.DPR, 0) {
		v.DPR = 1
	}
	if v.Width < 0 {
		v.Width = 0
	}
	if v.Height < 0 {
		v.Height = 0
	}
	return v
}

// BackingSize returns the pixel dimensions of the surface for v.
func (v Viewport) BackingSize() (int, int) {
	v = v.normalized()
	return int(math.Round(v.Width * v.DPR)), int(math.Round(v.Height * v.DPR))
}
