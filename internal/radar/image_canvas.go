package radar

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"strings"
	"sync"
	"unicode"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/julianstephens/selfrpg/internal/models"
)

var (
	goRegularOnce sync.Once
	goRegular     *truetype.Font
	goRegularErr  error
)

func loadGoRegular() (*truetype.Font, error) {
	goRegularOnce.Do(func() {
		goRegular, goRegularErr = truetype.Parse(goregular.TTF)
	})
	return goRegular, goRegularErr
}

// ImageCanvas is a raster Canvas backed by a gg context. Text uses the Go
// Regular face, which has no emoji glyphs, so emoji are left out.
type ImageCanvas struct {
	dc     *gg.Context
	fill   color.Color
	stroke color.Color
	align  TextAlign
	faces  map[float64]font.Face
	font   *truetype.Font
}

func NewImageCanvas() (*ImageCanvas, error) {
	f, err := loadGoRegular()
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	return &ImageCanvas{
		fill:   color.Black,
		stroke: color.Black,
		faces:  map[float64]font.Face{},
		font:   f,
	}, nil
}

func (c *ImageCanvas) Setup(width, height, dpr float64) {
	w, h := Viewport{Width: width, Height: height, DPR: dpr}.BackingSize()
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	c.dc = gg.NewContext(w, h)
	c.dc.Scale(dpr, dpr)
	c.dc.SetLineJoinRound()
}

func (c *ImageCanvas) Clear(bg color.Color) {
	c.dc.SetColor(bg)
	c.dc.Clear()
}

func (c *ImageCanvas) BeginPath() {
	c.dc.ClearPath()
}

func (c *ImageCanvas) MoveTo(x, y float64) {
	c.dc.MoveTo(x, y)
}

func (c *ImageCanvas) LineTo(x, y float64) {
	c.dc.LineTo(x, y)
}

func (c *ImageCanvas) ClosePath() {
	c.dc.ClosePath()
}

func (c *ImageCanvas) Fill() {
	c.dc.SetFillStyle(gg.NewSolidPattern(c.fill))
	c.dc.FillPreserve()
}

func (c *ImageCanvas) Stroke() {
	c.dc.SetStrokeStyle(gg.NewSolidPattern(c.stroke))
	c.dc.StrokePreserve()
}

func (c *ImageCanvas) SetFillColor(col color.Color) {
	c.fill = col
}

func (c *ImageCanvas) SetStrokeColor(col color.Color) {
	c.stroke = col
}

func (c *ImageCanvas) SetLineWidth(w float64) {
	c.dc.SetLineWidth(w)
}

func (c *ImageCanvas) SetFont(size float64) {
	face, ok := c.faces[size]
	if !ok {
		face = truetype.NewFace(c.font, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
		c.faces[size] = face
	}
	c.dc.SetFontFace(face)
}

func (c *ImageCanvas) SetTextAlign(a TextAlign) {
	c.align = a
}

// FillText draws the runes of text the face can render. Text left with
// nothing visible, such as an emoji icon, draws nothing instead of tofu.
func (c *ImageCanvas) FillText(text string, x, y float64) {
	text = c.drawable(text)
	if strings.TrimSpace(text) == "" {
		return
	}
	c.dc.SetColor(c.fill)
	ax := 0.0
	if c.align == AlignCenter {
		ax = 0.5
	}
	c.dc.DrawStringAnchored(text, x, y, ax, 0)
}

// drawable drops the runes the font has no glyph for, including emoji
// variation selectors.
func (c *ImageCanvas) drawable(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || c.font.Index(r) != 0 {
			return r
		}
		return -1
	}, text)
}

// Image returns the backing raster.
func (c *ImageCanvas) Image() image.Image {
	return c.dc.Image()
}

// EncodePNG writes the backing raster as PNG.
func (c *ImageCanvas) EncodePNG(w io.Writer) error {
	return c.dc.EncodePNG(w)
}

// RenderPNG draws attrs at vp and writes the result as PNG.
func RenderPNG(w io.Writer, attrs []models.Attribute, vp Viewport, theme Theme) (Chart, error) {
	r, err := NewRenderer(theme)
	if err != nil {
		return Chart{}, err
	}
	c, err := NewImageCanvas()
	if err != nil {
		return Chart{}, err
	}
	ch := r.Draw(c, attrs, vp)
	if err := c.EncodePNG(w); err != nil {
		return Chart{}, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return ch, nil
}
