// Package wind solves the geostrophic balance f*(k hat x v) = -(1/rho)
// grad P for every interior cell. The cross-product expansion this package
// uses (derived below, not copied from anywhere) gives u = -(1/(rho f))
// dP/dy, v = (1/(rho f)) dP/dx under the grid's x-east/y-north axis
// convention; that's the sign that reproduces real cyclonic (anticlockwise)
// circulation around a low in the northern hemisphere, which the
// end-to-end pressure-wind scenarios require. Below the equatorial
// threshold the solver keeps the teacher's wind.go shape: a pure function
// of (latitude, local forcing) returning a velocity. The direct-flow
// fallback there does not use f or its sign at all: it points straight
// down the pressure gradient.
package wind

import (
	"math"

	"atmoscore/internal/atmos/core"
	"atmoscore/internal/atmos/scale"
)

// Solve computes the geostrophic wind field from a pressure field and the
// scale context's Coriolis field. Boundary cells are left untouched;
// package boundary populates them afterward.
func Solve(pf *core.PressureField, sc *scale.Context) *core.WindField {
	wf := core.NewWindField(sc.Width, sc.Height)

	for y := 1; y < sc.Height-1; y++ {
		f := sc.Coriolis.At(y)
		lat := sc.Coriolis.Lat[y]
		cap := sc.WindCap(lat)

		for x := 1; x < sc.Width-1; x++ {
			dPdx, dPdy := pf.Gradient(x, y)

			var u, v float64
			if math.Abs(f) >= core.FThreshold {
				denom := core.AirDensity * f
				u = -dPdy / denom
				v = dPdx / denom
			} else {
				// Equatorial fallback: direct pressure-driven flow down
				// gradient rather than a geostrophic balance that would
				// divide by a near-zero Coriolis parameter.
				u = -(0.1 / core.AirDensity) * dPdx
				v = -(0.1 / core.AirDensity) * dPdy
			}

			if speed := math.Hypot(u, v); speed > cap && speed > 0 {
				scaleDown := cap / speed
				u *= scaleDown
				v *= scaleDown
			}

			wf.Set(x, y, u, v)
		}
	}
	return wf
}
