package core

// Physical constants. Names match the quantities they hold rather than a
// generic "config" label, since none of these are tunable at runtime.
const (
	Omega      = 7.2921e-5 // rad/s, Earth's rotation rate
	AirDensity = 1.225     // kg/m^3, sea-level standard air density

	SeaLevelPressurePa   = 101325.0
	PressureScaleHeightM = 8400.0

	FThreshold     = 1e-6   // s^-1, below |f| the solver falls back to direct flow
	FTropicalLimit = 1.27e-5 // s^-1, approximately f at 5 degrees latitude

	WindCapPolarMS = 40.0
	WindCapMidMS   = 30.0
	WindCapLatBoundaryDeg = 60.0

	GradientTargetLowPaPerM  = 6e-4
	GradientTargetHighPaPerM = 3.2e-3
	GradientCeilingPaPerM    = 1e-2

	BoundaryDamping       = 0.95
	BoundaryFluxTolerance = 1e-4

	DefaultMaxElevationM = 5000.0
)
