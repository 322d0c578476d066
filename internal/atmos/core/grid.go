// Package core holds the storage types every atmospheric-core component
// shares: the dense scalar grid, the structure-of-arrays wind field, the
// heightmap collaborator contract, and the world-scale descriptor. Nothing
// here depends on any of the component packages, so they can all import it
// without risking a cycle.
package core

import "math"

// ScalarField is a dense, row-major W*H buffer, the one indexing
// convention shared by every scalar grid in the core (pressure, speed,
// direction, vorticity).
type ScalarField struct {
	W, H int
	Data []float32
}

// NewScalarField allocates a zeroed field. W and H must both be positive.
func NewScalarField(w, h int) *ScalarField {
	return &ScalarField{W: w, H: h, Data: make([]float32, w*h)}
}

func (f *ScalarField) idx(x, y int) int { return y*f.W + x }

// Get returns the value at (x,y). Callers are expected to stay in bounds;
// this is a hot-loop accessor, not a validated one.
func (f *ScalarField) Get(x, y int) float64 { return float64(f.Data[f.idx(x, y)]) }

// Set writes the value at (x,y).
func (f *ScalarField) Set(x, y int, v float64) { f.Data[f.idx(x, y)] = float32(v) }

// Heightmap is the read-only external-collaborator contract: normalized
// elevation in [0,1] over a dense W x H grid.
type Heightmap interface {
	Get(x, y int) float32
	Width() int
	Height() int
}

// DetailLevel is informational context a collaborator may use to size its
// own generation work; the physics core's formulas never change with it.
type DetailLevel int

const (
	DetailLow DetailLevel = iota
	DetailStandard
	DetailHigh
)

// WorldScale is the immutable descriptor every scale-dependent parameter in
// the core derives from.
type WorldScale struct {
	PhysicalSizeKm float64
	Width          int
	Height         int
	Detail         DetailLevel
}

func (w WorldScale) maxDim() int {
	if w.Width > w.Height {
		return w.Width
	}
	return w.Height
}

// MetersPerPixel is the physical width of one grid cell.
func (w WorldScale) MetersPerPixel() float64 {
	return w.PhysicalSizeKm * 1000.0 / float64(w.maxDim())
}

// PressureField is the scalar pressure output in Pa, plus the spacing
// needed to turn it into a gradient.
type PressureField struct {
	*ScalarField
	MetersPerPixel float64
}

// NewPressureField allocates a zeroed pressure field at the given spacing.
func NewPressureField(w, h int, metersPerPixel float64) *PressureField {
	return &PressureField{ScalarField: NewScalarField(w, h), MetersPerPixel: metersPerPixel}
}

// Gradient returns the central-difference pressure gradient at (x,y), in
// Pa/m. Cells on the grid border use a one-sided difference instead.
func (p *PressureField) Gradient(x, y int) (float64, float64) {
	dx := p.MetersPerPixel
	var gx, gy float64
	switch {
	case x > 0 && x < p.W-1:
		gx = (p.Get(x+1, y) - p.Get(x-1, y)) / (2 * dx)
	case x == 0:
		gx = (p.Get(1, y) - p.Get(0, y)) / dx
	default:
		gx = (p.Get(p.W-1, y) - p.Get(p.W-2, y)) / dx
	}
	switch {
	case y > 0 && y < p.H-1:
		gy = (p.Get(x, y+1) - p.Get(x, y-1)) / (2 * dx)
	case y == 0:
		gy = (p.Get(x, 1) - p.Get(x, 0)) / dx
	default:
		gy = (p.Get(x, p.H-1) - p.Get(x, p.H-2)) / dx
	}
	return gx, gy
}

// WindField is the 2-D velocity output in m/s, stored as two parallel
// buffers rather than a slice of structs, so a row can be handed to
// vectorized or SIMD-friendly code without a conversion pass.
type WindField struct {
	W, H int
	U, V []float32
}

// NewWindField allocates a zeroed wind field.
func NewWindField(w, h int) *WindField {
	return &WindField{W: w, H: h, U: make([]float32, w*h), V: make([]float32, w*h)}
}

func (w *WindField) idx(x, y int) int { return y*w.W + x }

// Get returns the (u,v) components at (x,y).
func (w *WindField) Get(x, y int) (float64, float64) {
	i := w.idx(x, y)
	return float64(w.U[i]), float64(w.V[i])
}

// Set writes the (u,v) components at (x,y).
func (w *WindField) Set(x, y int, u, v float64) {
	i := w.idx(x, y)
	w.U[i] = float32(u)
	w.V[i] = float32(v)
}

// Speed returns the wind speed at (x,y) in m/s.
func (w *WindField) Speed(x, y int) float64 {
	u, v := w.Get(x, y)
	return math.Hypot(u, v)
}

// Direction returns the wind direction at (x,y) in radians, atan2(v, u).
func (w *WindField) Direction(x, y int) float64 {
	u, v := w.Get(x, y)
	return math.Atan2(v, u)
}

// SanitizeScalarField replaces any non-finite value with fallback in place
// and reports whether it had to.
func SanitizeScalarField(f *ScalarField, fallback float64) bool {
	flagged := false
	for i, v := range f.Data {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			f.Data[i] = float32(fallback)
			flagged = true
		}
	}
	return flagged
}

// SanitizeWindField replaces any non-finite component with zero in place
// and reports whether it had to.
func SanitizeWindField(w *WindField) bool {
	flagged := false
	for i := range w.U {
		if math.IsNaN(float64(w.U[i])) || math.IsInf(float64(w.U[i]), 0) {
			w.U[i] = 0
			flagged = true
		}
		if math.IsNaN(float64(w.V[i])) || math.IsInf(float64(w.V[i]), 0) {
			w.V[i] = 0
			flagged = true
		}
	}
	return flagged
}
