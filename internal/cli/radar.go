package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/selfrpg/internal/constants"
	"github.com/julianstephens/selfrpg/internal/logger"
	"github.com/julianstephens/selfrpg/internal/models"
	"github.com/julianstephens/selfrpg/internal/radar"
)

var (
	radarGridStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	radarDataStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6"))
)

type RadarCmd struct {
	Out    string  `short:"o" help:"Write a PNG to this file instead of drawing in the terminal." type:"path"`
	Width  float64 `help:"PNG width in logical pixels." default:"360"`
	Height float64 `help:"PNG height in logical pixels." default:"320"`
	Scale  float64 `help:"PNG device pixel ratio." default:"2"`
	Cols   int     `help:"Terminal chart width in cells." default:"48"`
	Rows   int     `help:"Terminal chart height in cells." default:"20"`
}

func (c *RadarCmd) Run(ctx *Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	attrs := t.Attributes()

	if c.Out != "" {
		return c.writePNG(ctx, attrs)
	}

	b, err := radar.RenderBraille(attrs, c.Cols, c.Rows)
	if err != nil {
		return err
	}
	if b.Chart.Placeholder {
		ctx.println(constants.RadarPlaceholder)
		return nil
	}

	ctx.println(b.Render(paintBraille))
	ctx.println()
	for i, a := range radar.Axes(attrs) {
		ctx.printf("  %s %-12s Lv.%d\n", a.IconOrDefault(), radar.Truncate(a.Name, constants.RadarNameMaxLen), b.Chart.Levels[i])
	}
	return nil
}

func (c *RadarCmd) writePNG(ctx *Context, attrs []models.Attribute) error {
	f, err := os.OpenFile(c.Out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", c.Out, err)
	}

	vp := radar.Viewport{Width: c.Width, Height: c.Height, DPR: c.Scale}
	ch, err := radar.RenderPNG(f, attrs, vp, radar.DefaultTheme())
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	w, h := vp.BackingSize()
	logger.Debug("Radar PNG written", "path", c.Out, "width", w, "height", h, "placeholder", ch.Placeholder)
	fmt.Fprintf(ctx.out(), "Radar chart written to %s (%dx%d)\n", c.Out, w, h)
	return nil
}

func paintBraille(kind radar.CellKind, s string) string {
	switch kind {
	case radar.CellGrid:
		return radarGridStyle.Render(s)
	case radar.CellData:
		return radarDataStyle.Render(s)
	default:
		return s
	}
}
