package wind_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"atmoscore/internal/atmos/core"
	"atmoscore/internal/atmos/scale"
	"atmoscore/internal/atmos/wind"
)

func midLatitudeScale(w, h int) *scale.Context {
	return scale.New(core.WorldScale{PhysicalSizeKm: 1000, Width: w, Height: h})
}

// uniformGradientField returns a pressure field with a constant gradient
// (gx, gy) Pa/m everywhere, so the geostrophic solution is analytically
// known at every interior cell.
func uniformGradientField(w, h int, dx, gx, gy float64) *core.PressureField {
	pf := core.NewPressureField(w, h, dx)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pf.Set(x, y, gx*float64(x)*dx+gy*float64(y)*dx)
		}
	}
	return pf
}

func TestSolve_GeostrophicBalanceHolds(t *testing.T) {
	sc := midLatitudeScale(40, 40)
	pf := uniformGradientField(40, 40, sc.MetersPerPixel, 1e-3, -5e-4)

	wf := wind.Solve(pf, sc)

	for y := 2; y < sc.Height-2; y++ {
		f := sc.Coriolis.At(y)
		if math.Abs(f) < core.FThreshold {
			continue
		}
		for x := 2; x < sc.Width-2; x++ {
			dPdx, dPdy := pf.Gradient(x, y)
			u, v := wf.Get(x, y)
			// dP/dx/rho - f*v and f*u + dP/dy/rho should vanish, up to the
			// hard wind-speed clamp saturating the analytic value.
			speed := math.Hypot(u, v)
			if speed >= sc.WindCap(sc.Coriolis.Lat[y])-1e-6 {
				continue // clamp engaged; balance intentionally breaks here
			}
			rx := dPdx/core.AirDensity - f*v
			ry := f*u + dPdy/core.AirDensity
			assert.InDelta(t, 0.0, rx, 1e-6)
			assert.InDelta(t, 0.0, ry, 1e-6)
		}
	}
}

func TestSolve_WindCapEnforced(t *testing.T) {
	sc := midLatitudeScale(40, 40)
	// A steep gradient that would blow far past any cap without clamping.
	pf := uniformGradientField(40, 40, sc.MetersPerPixel, 5e-2, 5e-2)

	wf := wind.Solve(pf, sc)
	for y := 1; y < sc.Height-1; y++ {
		cap := sc.WindCap(sc.Coriolis.Lat[y])
		for x := 1; x < sc.Width-1; x++ {
			assert.LessOrEqual(t, wf.Speed(x, y), cap+1e-9)
		}
	}
}

func TestSolve_ClampPreservesDirection(t *testing.T) {
	sc := midLatitudeScale(40, 40)
	pf := uniformGradientField(40, 40, sc.MetersPerPixel, 5e-2, 3e-2)
	wf := wind.Solve(pf, sc)

	y := sc.Height / 2
	x := sc.Width / 2
	u, v := wf.Get(x, y)
	dPdx, dPdy := pf.Gradient(x, y)
	f := sc.Coriolis.At(y)
	wantU := -dPdy / (core.AirDensity * f)
	wantV := dPdx / (core.AirDensity * f)
	assert.InDelta(t, math.Atan2(wantV, wantU), math.Atan2(v, u), 1e-6)
}

func TestSolve_EquatorialFallback(t *testing.T) {
	// A narrow band straddling row index where latitude crosses zero is
	// hard to target directly; instead force a Context with a near-zero
	// Coriolis row by hand.
	sc := midLatitudeScale(20, 20)
	sc.Coriolis.F[10] = 0 // simulate an equatorial cell irrespective of domain size
	pf := uniformGradientField(20, 20, sc.MetersPerPixel, 1e-3, 2e-3)

	wf := wind.Solve(pf, sc)
	dPdx, dPdy := pf.Gradient(10, 10)
	wantU := -(0.1 / core.AirDensity) * dPdx
	wantV := -(0.1 / core.AirDensity) * dPdy
	u, v := wf.Get(10, 10)
	// The fallback result may itself be clamped; only check direction/shape
	// when it isn't.
	if math.Hypot(wantU, wantV) <= sc.WindCap(sc.Coriolis.Lat[10]) {
		assert.InDelta(t, wantU, u, 1e-6)
		assert.InDelta(t, wantV, v, 1e-6)
	}
}

func TestSolve_BoundaryCellsLeftZero(t *testing.T) {
	sc := midLatitudeScale(20, 20)
	pf := uniformGradientField(20, 20, sc.MetersPerPixel, 1e-3, 1e-3)
	wf := wind.Solve(pf, sc)

	u, v := wf.Get(0, 5)
	assert.Equal(t, 0.0, u)
	assert.Equal(t, 0.0, v)
}
