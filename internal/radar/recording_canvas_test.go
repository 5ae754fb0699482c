package radar

import (
	"fmt"
	"image/color"
)

// recordingCanvas logs every call so tests can assert the drawing sequence.
type recordingCanvas struct {
	calls []string
	texts []textCall
	fill  color.Color
	font  float64
	align TextAlign

	width, height, dpr float64
}

type textCall struct {
	text  string
	x, y  float64
	font  float64
	fill  color.Color
	align TextAlign
}

func (r *recordingCanvas) record(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recordingCanvas) Setup(w, h, dpr float64) {
	r.width, r.height, r.dpr = w, h, dpr
	r.record("setup")
}
func (r *recordingCanvas) Clear(color.Color) { r.record("clear") }
func (r *recordingCanvas) BeginPath() { r.record("begin") }
func (r *recordingCanvas) MoveTo(x, y float64) { r.record("move") }
func (r *recordingCanvas) LineTo(x, y float64) { r.record("line") }
func (r *recordingCanvas) ClosePath() { r.record("close") }
func (r *recordingCanvas) Fill() { r.record("fill") }
func (r *recordingCanvas) Stroke() { r.record("stroke") }
func (r *recordingCanvas) SetStrokeColor(color.Color) {}
func (r *recordingCanvas) SetLineWidth(w float64) { r.record("width %g", w) }
func (r *recordingCanvas) SetFillColor(c color.Color) {
	r.fill = c
}
func (r *recordingCanvas) SetFont(size float64) {
	r.font = size
}
func (r *recordingCanvas) SetTextAlign(a TextAlign) {
	r.align = a
}
func (r *recordingCanvas) FillText(text string, x, y float64) {
	r.record("text")
	r.texts = append(r.texts, textCall{text: text, x: x, y: y, font: r.font, fill: r.fill, align: r.align})
}

func (r *recordingCanvas) count(call string) int {
	n := 0
	for _, c := range r.calls {
		if c == call {
			n++
		}
	}
	return n
}
