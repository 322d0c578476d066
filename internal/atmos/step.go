// Package atmos composes the five-stage atmospheric pipeline — scale,
// pressure, wind, boundary, diagnostics — into a single deterministic
// Step call. It is the only package that imports every component package,
// which is why the entry point lives here instead of inside core: core is
// imported by all of them, so it can never import back without a cycle.
package atmos

import (
	"atmoscore/internal/atmos/boundary"
	"atmoscore/internal/atmos/core"
	"atmoscore/internal/atmos/diagnflag"
	"atmoscore/internal/atmos/diagnostics"
	"atmoscore/internal/atmos/pressure"
	"atmoscore/internal/atmos/scale"
	"atmoscore/internal/atmos/wind"
)

// Re-export the shared types callers need to build a Heightmap and a
// WorldScale, so external collaborators only need to import this package.
type (
	Heightmap   = core.Heightmap
	WorldScale  = core.WorldScale
	DetailLevel = core.DetailLevel
)

const (
	DetailLow      = core.DetailLow
	DetailStandard = core.DetailStandard
	DetailHigh     = core.DetailHigh
)

// Diagnostics bundles the scalar health metrics and the flags raised while
// producing them.
type Diagnostics struct {
	diagnostics.Metrics
	Flags []diagnflag.Flag
}

// Has reports whether f was raised this tick.
func (d *Diagnostics) Has(f diagnflag.Flag) bool {
	for _, x := range d.Flags {
		if x == f {
			return true
		}
	}
	return false
}

// TickResult bundles everything one Step call produces.
type TickResult struct {
	Pressure    *core.PressureField
	Wind        *core.WindField
	Derived     *diagnostics.DerivedFields
	Weather     *diagnostics.Analysis
	Diagnostics *Diagnostics
}

// Step runs the full scale -> pressure -> wind -> boundary -> diagnostics
// pipeline for one tick. It never returns a Go error; an input dimension
// mismatch is instead surfaced as diagnflag.InputDimensionMismatch on a
// zero-filled result, and every other failure mode is recovered locally by
// substitution (see Diagnostics.Flags) — nothing else aborts a tick.
func Step(ws core.WorldScale, hm core.Heightmap, seed uint64, maxElevationM float32) *TickResult {
	if hm.Width() != ws.Width || hm.Height() != ws.Height {
		return dimensionMismatchResult(ws)
	}

	sc := scale.New(ws)

	pf, gradReport := pressure.Generate(sc, hm, seed, maxElevationM)
	var flags []diagnflag.Flag
	if core.SanitizeScalarField(pf.ScalarField, core.SeaLevelPressurePa) {
		flags = append(flags, diagnflag.NonFinitePressure)
	}

	wf := wind.Solve(pf, sc)
	if core.SanitizeWindField(wf) {
		flags = append(flags, diagnflag.NonFiniteWind)
	}

	fluxBefore, fluxAfter := boundary.Apply(wf, sc)
	if core.SanitizeWindField(wf) {
		flags = append(flags, diagnflag.NonFiniteWind)
	}

	derived := diagnostics.ComputeDerived(wf, sc)
	metrics, diagFlags := diagnostics.Compute(pf, wf, derived, sc, fluxBefore, fluxAfter, gradReport.MaxGradientPaPerM, gradReport.OutOfFlagRange)
	flags = append(flags, diagFlags...)

	weather := diagnostics.ExtractPatterns(pf, wf, derived, sc)

	return &TickResult{
		Pressure: pf,
		Wind:     wf,
		Derived:  derived,
		Weather:  weather,
		Diagnostics: &Diagnostics{
			Metrics: metrics,
			Flags:   flags,
		},
	}
}

func dimensionMismatchResult(ws core.WorldScale) *TickResult {
	return &TickResult{
		Pressure: core.NewPressureField(ws.Width, ws.Height, ws.MetersPerPixel()),
		Wind:     core.NewWindField(ws.Width, ws.Height),
		Derived: &diagnostics.DerivedFields{
			Speed:     core.NewScalarField(ws.Width, ws.Height),
			Direction: core.NewScalarField(ws.Width, ws.Height),
			Vorticity: core.NewScalarField(ws.Width, ws.Height),
		},
		Weather: &diagnostics.Analysis{},
		Diagnostics: &Diagnostics{
			Flags: []diagnflag.Flag{diagnflag.InputDimensionMismatch},
		},
	}
}
