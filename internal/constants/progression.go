package constants

const (
	// XP curve: XP to reach level L is XPCurveA*n^2 + XPCurveB*n with n = L-1.
	XPCurveA = 50.0
	XPCurveB = 100.0

	// Radar chart tuning
	RadarMaxAxes      = 8
	RadarMinAxes      = 3
	RadarMinMaxLevel  = 5
	RadarRings        = 5
	RadarRadiusFactor = 0.33
	RadarCenterOffset = 10.0
	RadarLabelOffset  = 40.0
	RadarNameMaxLen   = 10
	RadarPlaceholder  = "Add 3+ attributes"
)
