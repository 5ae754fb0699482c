// Package radar draws attribute levels as a radar (spider) chart. Compute
// does the geometry; Renderer sequences it onto any Canvas.
package radar

import (
	"fmt"
	"math"

	"github.com/julianstephens/selfrpg/internal/constants"
	"github.com/julianstephens/selfrpg/internal/models"
	"github.com/julianstephens/selfrpg/internal/progression"
)

type Point struct {
	X, Y float64
}

// Label is the text drawn at the end of one spoke.
type Label struct {
	Icon    string
	Name    string
	Level   string
	Anchor  Point
	IconAt  Point
	NameAt  Point
	LevelAt Point
}

// Chart is the full geometry of one radar frame in logical pixels.
type Chart struct {
	Width, Height float64
	// Placeholder is set when fewer than constants.RadarMinAxes attributes
	// are shown. Only PlaceholderAt is meaningful then.
	Placeholder   bool
	PlaceholderAt Point

	Center   Point
	Radius   float64
	Levels   []int
	MaxLevel int
	// Rings holds constants.RadarRings regular polygons, innermost first.
	Rings [][]Point
	// Spokes holds the outer end of each spoke; every spoke starts at Center.
	Spokes []Point
	Data   []Point
	Labels []Label
}

// Axes returns the attributes that get a spoke: the first
// constants.RadarMaxAxes in display order.
func Axes(attrs []models.Attribute) []models.Attribute {
	if len(attrs) > constants.RadarMaxAxes {
		return attrs[:constants.RadarMaxAxes]
	}
	return attrs
}

// angle of spoke i out of n: the first points straight up, then clockwise
// in screen coordinates.
func angle(i, n int) float64 {
	return -math.Pi/2 + float64(i)*2*math.Pi/float64(n)
}

func polar(c Point, r, ang float64) Point {
	return Point{X: c.X + r*math.Cos(ang), Y: c.Y + r*math.Sin(ang)}
}

// Compute lays out the chart for a width x height logical surface.
func Compute(attrs []models.Attribute, width, height float64) Chart {
	axes := Axes(attrs)
	ch := Chart{
		Width:         width,
		Height:        height,
		PlaceholderAt: Point{X: width / 2, Y: height / 2},
	}
	if len(axes) < constants.RadarMinAxes {
		ch.Placeholder = true
		return ch
	}

	n := len(axes)
	ch.Center = Point{X: width / 2, Y: height/2 + constants.RadarCenterOffset}
	ch.Radius = math.Min(width, height) * constants.RadarRadiusFactor

	ch.Levels = make([]int, n)
	ch.MaxLevel = constants.RadarMinMaxLevel
	for i, a := range axes {
		ch.Levels[i] = progression.LevelFromXP(a.XP)
		if ch.Levels[i] > ch.MaxLevel {
			ch.MaxLevel = ch.Levels[i]
		}
	}

	ch.Rings = make([][]Point, constants.RadarRings)
	for r := 1; r <= constants.RadarRings; r++ {
		rr := ch.Radius * float64(r) / constants.RadarRings
		ring := make([]Point, n)
		for i := range ring {
			ring[i] = polar(ch.Center, rr, angle(i, n))
		}
		ch.Rings[r-1] = ring
	}

	ch.Spokes = make([]Point, n)
	ch.Data = make([]Point, n)
	ch.Labels = make([]Label, n)
	for i, a := range axes {
		ang := angle(i, n)
		ch.Spokes[i] = polar(ch.Center, ch.Radius, ang)
		ch.Data[i] = polar(ch.Center, ch.Radius*float64(ch.Levels[i])/float64(ch.MaxLevel), ang)

		lp := polar(ch.Center, ch.Radius+constants.RadarLabelOffset, ang)
		ch.Labels[i] = Label{
			Icon:    a.IconOrDefault(),
			Name:    Truncate(a.Name, constants.RadarNameMaxLen),
			Level:   fmt.Sprintf("Lv.%d", ch.Levels[i]),
			Anchor:  lp,
			IconAt:  Point{X: lp.X - 8, Y: lp.Y - 6},
			NameAt:  Point{X: lp.X - 22, Y: lp.Y + 10},
			LevelAt: Point{X: lp.X - 16, Y: lp.Y + 24},
		}
	}

	return ch
}
