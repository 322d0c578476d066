// Package boundary fills in the wind field's untouched edge cells and
// corrects the grid's net mass flux. Written in the numerical style of the
// teacher's ApplyThermalErosionSpherical: read two neighbors, write a
// corrected value, bounded iteration — generalized here from an erosion
// transfer to a second-order velocity extrapolation.
package boundary

import (
	"math"

	"atmoscore/internal/atmos/core"
	"atmoscore/internal/atmos/scale"
)

type cell struct {
	x, y   int
	nx, ny float64 // outward unit normal
}

// perimeterCells enumerates every boundary cell of a w x h grid with its
// outward unit normal: edges first, then the four corners with their
// diagonal normal (not a blend of their two adjoining edges).
func perimeterCells(w, h int) []cell {
	cells := make([]cell, 0, 2*w+2*h-4)
	for x := 1; x < w-1; x++ {
		cells = append(cells, cell{x, 0, 0, -1})
		cells = append(cells, cell{x, h - 1, 0, 1})
	}
	for y := 1; y < h-1; y++ {
		cells = append(cells, cell{0, y, -1, 0})
		cells = append(cells, cell{w - 1, y, 1, 0})
	}
	inv := 1 / math.Sqrt2
	cells = append(cells, cell{0, 0, -inv, -inv})
	cells = append(cells, cell{w - 1, 0, inv, -inv})
	cells = append(cells, cell{0, h - 1, -inv, inv})
	cells = append(cells, cell{w - 1, h - 1, inv, inv})
	return cells
}

// extrapolate populates every boundary cell from its two interior
// neighbours along the inward normal, second order: v_b = 2 v1 - v2.
// Corners use their diagonal neighbours with the same formula.
func extrapolate(wf *core.WindField) {
	w, h := wf.W, wf.H
	for x := 1; x < w-1; x++ {
		u1, v1 := wf.Get(x, 1)
		u2, v2 := wf.Get(x, 2)
		wf.Set(x, 0, 2*u1-u2, 2*v1-v2)

		u1, v1 = wf.Get(x, h-2)
		u2, v2 = wf.Get(x, h-3)
		wf.Set(x, h-1, 2*u1-u2, 2*v1-v2)
	}
	for y := 1; y < h-1; y++ {
		u1, v1 := wf.Get(1, y)
		u2, v2 := wf.Get(2, y)
		wf.Set(0, y, 2*u1-u2, 2*v1-v2)

		u1, v1 = wf.Get(w-2, y)
		u2, v2 = wf.Get(w-3, y)
		wf.Set(w-1, y, 2*u1-u2, 2*v1-v2)
	}

	corner := func(cx, cy, ix1, iy1, ix2, iy2 int) {
		u1, v1 := wf.Get(ix1, iy1)
		u2, v2 := wf.Get(ix2, iy2)
		wf.Set(cx, cy, 2*u1-u2, 2*v1-v2)
	}
	corner(0, 0, 1, 1, 2, 2)
	corner(w-1, 0, w-2, 1, w-3, 2)
	corner(0, h-1, 1, h-2, 2, h-3)
	corner(w-1, h-1, w-2, h-2, w-3, h-3)
}

func damp(wf *core.WindField, cells []cell) {
	for _, c := range cells {
		u, v := wf.Get(c.x, c.y)
		wf.Set(c.x, c.y, u*core.BoundaryDamping, v*core.BoundaryDamping)
	}
}

func netOutwardFlux(wf *core.WindField, cells []cell, dx float64) float64 {
	flux := 0.0
	for _, c := range cells {
		u, v := wf.Get(c.x, c.y)
		vn := u*c.nx + v*c.ny
		flux += core.AirDensity * vn * dx
	}
	return flux
}

// Apply populates boundary cells by second-order extrapolation, damps them
// for stability, then distributes a single global mass-flux correction
// across the normal component of every boundary cell so the perimeter flux
// integral is driven toward zero. Returns the flux before and after
// correction for diagnostics.
func Apply(wf *core.WindField, sc *scale.Context) (fluxBefore, fluxAfter float64) {
	cells := perimeterCells(wf.W, wf.H)
	dx := sc.MetersPerPixel

	extrapolate(wf)
	damp(wf, cells)

	fluxBefore = netOutwardFlux(wf, cells, dx)

	perimeterLength := float64(len(cells)) * dx
	var deltaV float64
	if perimeterLength > 0 {
		deltaV = -fluxBefore / (core.AirDensity * perimeterLength)
	}
	for _, c := range cells {
		u, v := wf.Get(c.x, c.y)
		wf.Set(c.x, c.y, u+deltaV*c.nx, v+deltaV*c.ny)
	}

	fluxAfter = netOutwardFlux(wf, cells, dx)
	return fluxBefore, fluxAfter
}
