package radar

import (
	"image"
	"image/color"
	"strings"

	"github.com/julianstephens/selfrpg/internal/models"
)

type CellKind int

const (
	CellEmpty CellKind = iota
	CellGrid
	CellData
)

// BrailleCell is one terminal cell covering a 2x4 pixel block.
type BrailleCell struct {
	Rune rune
	Kind CellKind
}

// Braille is a radar chart rasterised into Unicode braille cells.
type Braille struct {
	Cols, Rows int
	Cells      [][]BrailleCell
	Chart      Chart
}

// braille dot bit for pixel (x, y) inside a cell.
var brailleBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// RenderBraille draws attrs into a cols x rows braille grid. Labels are
// omitted; callers print a legend instead. Chart.Placeholder tells the
// caller to show placeholder text rather than the grid.
func RenderBraille(attrs []models.Attribute, cols, rows int) (Braille, error) {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	r, err := NewRenderer(DefaultTheme())
	if err != nil {
		return Braille{}, err
	}
	r.palette.Background = color.Transparent
	r.HideLabels = true

	c, err := NewImageCanvas()
	if err != nil {
		return Braille{}, err
	}
	ch := r.Draw(c, attrs, Viewport{Width: float64(cols * 2), Height: float64(rows * 4), DPR: 1})

	b := Braille{Cols: cols, Rows: rows, Chart: ch, Cells: make([][]BrailleCell, rows)}
	img := c.Image()
	for cy := 0; cy < rows; cy++ {
		b.Cells[cy] = make([]BrailleCell, cols)
		for cx := 0; cx < cols; cx++ {
			if ch.Placeholder {
				b.Cells[cy][cx] = BrailleCell{Rune: 0x2800}
				continue
			}
			b.Cells[cy][cx] = packCell(img, cx*2, cy*4)
		}
	}
	return b, nil
}

func packCell(img image.Image, x0, y0 int) BrailleCell {
	cell := BrailleCell{Rune: 0x2800}
	bounds := img.Bounds()
	for dy := 0; dy < 4; dy++ {
		for dx := 0; dx < 2; dx++ {
			p := image.Pt(x0+dx, y0+dy)
			if !p.In(bounds) {
				continue
			}
			kind := classify(img.At(p.X, p.Y))
			if kind == CellEmpty {
				continue
			}
			cell.Rune |= brailleBits[dy][dx]
			if kind > cell.Kind {
				cell.Kind = kind
			}
		}
	}
	return cell
}

// classify separates the opaque grey grid from the blue data stroke. The
// translucent fill alone stays below the alpha cut-off.
func classify(c color.Color) CellKind {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A < 96 {
		return CellEmpty
	}
	if int(n.B)-int(n.R) > 60 {
		return CellData
	}
	return CellGrid
}

// String renders the grid without colour.
func (b Braille) String() string {
	return b.Render(func(_ CellKind, s string) string { return s })
}

// Render joins the cells row by row, passing each run of same-kind cells
// through paint.
func (b Braille) Render(paint func(CellKind, string) string) string {
	lines := make([]string, len(b.Cells))
	for y, row := range b.Cells {
		var line strings.Builder
		var run strings.Builder
		kind := CellEmpty
		flush := func() {
			if run.Len() > 0 {
				line.WriteString(paint(kind, run.String()))
				run.Reset()
			}
		}
		for _, cell := range row {
			if cell.Kind != kind {
				flush()
				kind = cell.Kind
			}
			run.WriteRune(cell.Rune)
		}
		flush()
		lines[y] = line.String()
	}
	return strings.Join(lines, "\n")
}
