package radar

import (
	"github.com/julianstephens/selfrpg/internal/constants"
	"github.com/julianstephens/selfrpg/internal/models"
)

const (
	iconFontSize        = 18
	nameFontSize        = 11
	levelFontSize       = 10
	placeholderFontSize = 12
)

// Renderer draws charts with a fixed palette.
type Renderer struct {
	palette Palette
	// HideLabels skips the icon/name/level text, for surfaces too small to
	// hold it.
	HideLabels bool
}

// NewRenderer parses theme once for every later Draw.
func NewRenderer(theme Theme) (*Renderer, error) {
	p, err := theme.Palette()
	if err != nil {
		return nil, err
	}
	return &Renderer{palette: p}, nil
}

// Draw redraws the whole chart for attrs onto c and returns the geometry it
// used. The surface is resized for vp on every call.
func (r *Renderer) Draw(c Canvas, attrs []models.Attribute, vp Viewport) Chart {
	vp = vp.normalized()
	c.Setup(vp.Width, vp.Height, vp.DPR)
	c.Clear(r.palette.Background)

	ch := Compute(attrs, vp.Width, vp.Height)
	if ch.Placeholder {
		c.SetFillColor(r.palette.Muted)
		c.SetFont(placeholderFontSize)
		c.SetTextAlign(AlignCenter)
		c.FillText(constants.RadarPlaceholder, ch.PlaceholderAt.X, ch.PlaceholderAt.Y)
		c.SetTextAlign(AlignLeft)
		return ch
	}

	c.SetStrokeColor(r.palette.Grid)
	c.SetLineWidth(1)
	for _, ring := range ch.Rings {
		polygon(c, ring)
		c.Stroke()
	}
	for _, end := range ch.Spokes {
		c.BeginPath()
		c.MoveTo(ch.Center.X, ch.Center.Y)
		c.LineTo(end.X, end.Y)
		c.Stroke()
	}

	c.SetFillColor(r.palette.Fill)
	c.SetStrokeColor(r.palette.Stroke)
	c.SetLineWidth(2)
	polygon(c, ch.Data)
	c.Fill()
	c.Stroke()

	if r.HideLabels {
		return ch
	}
	c.SetTextAlign(AlignLeft)
	for _, l := range ch.Labels {
		c.SetFillColor(r.palette.Label)
		c.SetFont(iconFontSize)
		c.FillText(l.Icon, l.IconAt.X, l.IconAt.Y)

		c.SetFont(nameFontSize)
		c.FillText(l.Name, l.NameAt.X, l.NameAt.Y)

		c.SetFillColor(r.palette.Level)
		c.SetFont(levelFontSize)
		c.FillText(l.Level, l.LevelAt.X, l.LevelAt.Y)
	}

	return ch
}

func polygon(c Canvas, pts []Point) {
	c.BeginPath()
	for i, p := range pts {
		if i == 0 {
			c.MoveTo(p.X, p.Y)
		} else {
			c.LineTo(p.X, p.Y)
		}
	}
	c.ClosePath()
}
