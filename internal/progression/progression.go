// Package progression maps accumulated XP onto levels using a fixed
// quadratic curve.
package progression

import (
	"math"

	"github.com/julianstephens/selfrpg/internal/constants"
)

// MaxLevel caps LevelFromXP so that infinite or absurdly large XP values
// still produce a defined level.
const MaxLevel = math.MaxInt32

// Progress describes where an XP total sits inside its level.
type Progress struct {
	Level     int
	InLevel   float64
	Need      float64
	Pct       float64
	CurStart  float64
	NextStart float64
}

// XPToReachLevel returns the cumulative XP needed to reach level.
// Level 1 requires 0 XP; levels below 1 are treated as level 1.
func XPToReachLevel(level int) float64 {
	if level <= 1 {
		return 0
	}
	n := float64(level - 1)
	return constants.XPCurveA*n*n + constants.XPCurveB*n
}

// LevelFromXP returns the highest level L >= 1 with XPToReachLevel(L) <= xp.
// It solves A*n^2 + B*n <= xp in closed form and then nudges the estimate to
// absorb floating point error.
func LevelFromXP(xp float64) int {
	xp = sanitize(xp)
	if xp <= 0 {
		return 1
	}

	a, b := constants.XPCurveA, constants.XPCurveB
	n := math.Floor((-b + math.Sqrt(b*b+4*a*xp)) / (2 * a))
	if math.IsInf(n, 0) || n >= MaxLevel-1 {
		return MaxLevel
	}

	level := int(n) + 1
	for level < MaxLevel && XPToReachLevel(level+1) <= xp {
		level++
	}
	for level > 1 && XPToReachLevel(level) > xp {
		level--
	}
	return level
}

// ProgressInLevel reports the level for xp together with how far into that
// level the XP total is. Pct is always within [0, 1].
func ProgressInLevel(xp float64) Progress {
	xp = sanitize(xp)
	level := LevelFromXP(xp)
	curStart := XPToReachLevel(level)
	nextStart := XPToReachLevel(level + 1)
	inLevel := xp - curStart
	need := nextStart - curStart

	pct := 0.0
	if need != 0 {
		pct = math.Max(0, math.Min(1, inLevel/need))
	}

	return Progress{
		Level:     level,
		InLevel:   inLevel,
		Need:      need,
		Pct:       pct,
		CurStart:  curStart,
		NextStart: nextStart,
	}
}

// sanitize clamps out-of-contract input (negative or NaN) to 0.
func sanitize(xp float64) float64 {
	if math.IsNaN(xp) || xp < 0 {
		return 0
	}
	return xp
}
