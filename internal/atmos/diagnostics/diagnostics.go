// Package diagnostics derives speed/direction/vorticity fields from a wind
// field, rolls them and the pressure field up into scalar health metrics,
// and raises diagnflag.Flags when a metric falls outside its expected
// range. Nothing here mutates the fields it reads.
package diagnostics

import (
	"math"

	"atmoscore/internal/atmos/core"
	"atmoscore/internal/atmos/diagnflag"
	"atmoscore/internal/atmos/scale"
)

// DerivedFields holds the per-cell fields computed from a wind field.
type DerivedFields struct {
	Speed     *core.ScalarField
	Direction *core.ScalarField
	Vorticity *core.ScalarField
}

// ComputeDerived fills speed, direction (every cell), and vorticity
// (interior cells only — it needs neighbours on both sides).
func ComputeDerived(wf *core.WindField, sc *scale.Context) *DerivedFields {
	speed := core.NewScalarField(sc.Width, sc.Height)
	direction := core.NewScalarField(sc.Width, sc.Height)
	vorticity := core.NewScalarField(sc.Width, sc.Height)

	for y := 0; y < sc.Height; y++ {
		for x := 0; x < sc.Width; x++ {
			speed.Set(x, y, wf.Speed(x, y))
			direction.Set(x, y, wf.Direction(x, y))
		}
	}

	dx := sc.MetersPerPixel
	for y := 1; y < sc.Height-1; y++ {
		for x := 1; x < sc.Width-1; x++ {
			_, vE := wf.Get(x+1, y)
			_, vW := wf.Get(x-1, y)
			uN, _ := wf.Get(x, y+1)
			uS, _ := wf.Get(x, y-1)
			zeta := (vE-vW)/(2*dx) - (uN-uS)/(2*dx)
			vorticity.Set(x, y, zeta)
		}
	}
	return &DerivedFields{Speed: speed, Direction: direction, Vorticity: vorticity}
}

// Metrics are the scalar health numbers the tick reports.
type Metrics struct {
	GeostrophicResidual     float64
	PressureWindCorrelation float64
	BoundaryFluxBefore      float64
	BoundaryFlux            float64
	TotalMomentum           float64
	MaxWind                 float64
	MeanWind                float64
	MaxPressureGradient     float64
}

// Compute rolls the pressure and wind fields up into Metrics and raises
// diagnflag.GradientOutOfRange / BoundaryFluxResidual when warranted. It
// never raises NonFinitePressure/NonFiniteWind — those are caught earlier,
// right after the stage that could have produced them.
func Compute(pf *core.PressureField, wf *core.WindField, df *DerivedFields, sc *scale.Context, fluxBefore, fluxAfter, maxGradient float64, gradientOutOfRange bool) (Metrics, []diagnflag.Flag) {
	var flags []diagnflag.Flag

	m := Metrics{
		MaxPressureGradient: maxGradient,
		BoundaryFluxBefore:  fluxBefore,
		BoundaryFlux:        fluxAfter,
	}
	if gradientOutOfRange {
		flags = append(flags, diagnflag.GradientOutOfRange)
	}
	if math.Abs(fluxBefore) > 0 && math.Abs(fluxAfter)/math.Abs(fluxBefore) > core.BoundaryFluxTolerance {
		flags = append(flags, diagnflag.BoundaryFluxResidual)
	}

	var sumSpeed, maxSpeed, momentum float64
	n := sc.Width * sc.Height
	cellArea := sc.MetersPerPixel * sc.MetersPerPixel
	for i := 0; i < n; i++ {
		u, v := float64(wf.U[i]), float64(wf.V[i])
		speed := math.Hypot(u, v)
		sumSpeed += speed
		if speed > maxSpeed {
			maxSpeed = speed
		}
		momentum += speed * core.AirDensity * cellArea
	}
	m.MeanWind = sumSpeed / float64(n)
	m.MaxWind = maxSpeed
	m.TotalMomentum = momentum

	m.GeostrophicResidual = geostrophicResidual(pf, wf, sc)
	m.PressureWindCorrelation = pressureWindCorrelation(pf, wf, sc)

	return m, flags
}

// geostrophicResidual averages the magnitude of the balance imbalance
// vector (dP/dx/rho - f*v, f*u + dP/dy/rho — zero exactly when the solved
// wind matches wind.Solve's geostrophic formula u = -dP/dy/(rho*f),
// v = dP/dx/(rho*f)) over interior cells where the Coriolis parameter is
// strong enough for the balance to apply at all; equatorial cells use the
// direct-flow fallback and are excluded, per the scenario that exercises
// them.
func geostrophicResidual(pf *core.PressureField, wf *core.WindField, sc *scale.Context) float64 {
	var sum float64
	var count int
	for y := 1; y < sc.Height-1; y++ {
		f := sc.Coriolis.At(y)
		if math.Abs(f) < core.FThreshold {
			continue
		}
		for x := 1; x < sc.Width-1; x++ {
			dPdx, dPdy := pf.Gradient(x, y)
			u, v := wf.Get(x, y)
			rx := dPdx/core.AirDensity - f*v
			ry := f*u + dPdy/core.AirDensity
			sum += math.Hypot(rx, ry)
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func pressureWindCorrelation(pf *core.PressureField, wf *core.WindField, sc *scale.Context) float64 {
	n := (sc.Width - 2) * (sc.Height - 2)
	if n <= 0 {
		return 0
	}
	gradMags := make([]float64, 0, n)
	speeds := make([]float64, 0, n)
	for y := 1; y < sc.Height-1; y++ {
		for x := 1; x < sc.Width-1; x++ {
			gx, gy := pf.Gradient(x, y)
			gradMags = append(gradMags, math.Hypot(gx, gy))
			speeds = append(speeds, wf.Speed(x, y))
		}
	}
	return pearson(gradMags, speeds)
}

func pearson(a, b []float64) float64 {
	n := len(a)
	if n == 0 {
		return 0
	}
	var meanA, meanB float64
	for i := range a {
		meanA += a[i]
		meanB += b[i]
	}
	meanA /= float64(n)
	meanB /= float64(n)

	var cov, varA, varB float64
	for i := range a {
		da, db := a[i]-meanA, b[i]-meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}
	if varA == 0 || varB == 0 {
		return 0
	}
	return cov / math.Sqrt(varA*varB)
}
