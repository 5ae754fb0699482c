package radar

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Theme declares the chart colours as hex strings. Alpha values apply to
// the data polygon only.
type Theme struct {
	Background  string
	Grid        string
	Data        string
	FillAlpha   float64
	StrokeAlpha float64
	Label       string
	Level       string
	Muted       string
}

func DefaultTheme() Theme {
	return Theme{
		Background:  "#FFFFFF",
		Grid:        "#E5E7EB",
		Data:        "#3B82F6",
		FillAlpha:   0.22,
		StrokeAlpha: 0.95,
		Label:       "#111827",
		Level:       "#6B7280",
		Muted:       "#6B7280",
	}
}

// Palette is a parsed Theme.
type Palette struct {
	Background color.Color
	Grid       color.Color
	Fill       color.Color
	Stroke     color.Color
	Label      color.Color
	Level      color.Color
	Muted      color.Color
}

// Palette parses every colour of the theme.
func (t Theme) Palette() (Palette, error) {
	var p Palette
	fields := []struct {
		name  string
		hex   string
		alpha float64
		dst   *color.Color
	}{
		{"background", t.Background, 1, &p.Background},
		{"grid", t.Grid, 1, &p.Grid},
		{"data", t.Data, t.FillAlpha, &p.Fill},
		{"data", t.Data, t.StrokeAlpha, &p.Stroke},
		{"label", t.Label, 1, &p.Label},
		{"level", t.Level, 1, &p.Level},
		{"muted", t.Muted, 1, &p.Muted},
	}
	for _, f := range fields {
		c, err := colorful.Hex(f.hex)
		if err != nil {
			return Palette{}, fmt.Errorf("invalid %s colour %q: %w", f.name, f.hex, err)
		}
		*f.dst = withAlpha(c, f.alpha)
	}
	return p, nil
}

func withAlpha(c colorful.Color, alpha float64) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	return color.NRGBA{R: r, G: g, B: b, A: uint8(alpha*255 + 0.5)}
}
