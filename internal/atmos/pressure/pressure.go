// Package pressure builds the synoptic pressure field: a hydrostatic
// elevation baseline, deterministic Gaussian low/high centres, and one
// smoothing pass. The hydrostatic baseline is grounded in the teacher's
// GeneratePressureMap (elevation-driven surface pressure); the synoptic
// placement has no teacher analogue, so it borrows the teacher's
// noise.go deterministic-generator shape instead, trading go-perlin for a
// small LCG since a handful of Gaussian centres don't need a full noise
// library.
package pressure

import (
	"math"

	"atmoscore/internal/atmos/core"
	"atmoscore/internal/atmos/scale"
)

// lcgAdvance advances a 64-bit linear congruential generator. The
// multiplier and increment are the constants PCG uses, reused here for
// their documented avalanche behaviour on a 64-bit state.
const (
	lcgMul = 6364136223846793005
	lcgInc = 1442695040888963407
)

func lcgAdvance(state uint64) uint64 { return state*lcgMul + lcgInc }

// lcgFloat advances state and returns a value in [0,1).
func lcgFloat(state *uint64) float64 {
	*state = lcgAdvance(*state)
	return float64(*state>>11) / float64(uint64(1)<<53)
}

type synopticSystem struct {
	X, Y      int
	Amplitude float64
	Sigma     float64
}

// generateSynopticSystems draws sc.NumSystems pseudo-random centres from
// seed: one draw fixes the starting sign, then each system draws an (fx,
// fy) pair mapped into the inner 60% of the grid, with sign alternating
// from the starting parity.
func generateSynopticSystems(sc *scale.Context, seed uint64) []synopticSystem {
	if sc.NumSystems <= 0 {
		return nil
	}
	state := seed
	startHigh := lcgFloat(&state) < 0.5

	systems := make([]synopticSystem, sc.NumSystems)
	for i := 0; i < sc.NumSystems; i++ {
		fx := lcgFloat(&state)
		fy := lcgFloat(&state)
		px := int(math.Round((0.2 + 0.6*fx) * float64(sc.Width-1)))
		py := int(math.Round((0.2 + 0.6*fy) * float64(sc.Height-1)))

		high := startHigh
		if i%2 == 1 {
			high = !high
		}
		sign := -1.0
		if high {
			sign = 1.0
		}

		systems[i] = synopticSystem{
			X:         px,
			Y:         py,
			Amplitude: sign * sc.PressureAmplitude,
			Sigma:     sc.SystemRadiusCells / 1.8,
		}
	}
	return systems
}

// weakPerturbation adds a single low-amplitude bump for domains too small
// to host organised synoptic systems (scale.Context.TinyDomain), giving
// them some texture without the full generator. It never fires merely
// because a caller overrode EnableSynoptic on a larger domain, which keeps
// the zero-gradient idempotence property independent of that override.
func weakPerturbation(sc *scale.Context, seed uint64) *synopticSystem {
	if !sc.TinyDomain {
		return nil
	}
	state := seed ^ 0xA5A5A5A5A5A5A5A5
	fx := lcgFloat(&state)
	fy := lcgFloat(&state)
	signDraw := lcgFloat(&state)
	sign := 1.0
	if signDraw < 0.5 {
		sign = -1.0
	}
	return &synopticSystem{
		X:         int(math.Round((0.2 + 0.6*fx) * float64(sc.Width-1))),
		Y:         int(math.Round((0.2 + 0.6*fy) * float64(sc.Height-1))),
		Amplitude: sign * sc.PressureAmplitude * 0.05,
		Sigma:     sc.SystemRadiusCells / 1.8,
	}
}

// GradientReport summarizes the gradient-magnitude validation every
// generated field gets: whether the strongest gradient in the field sits
// inside the nominal synoptic range, and whether it crossed the numerical
// stability ceiling.
type GradientReport struct {
	MaxGradientPaPerM float64
	WithinTargetRange bool // [6e-4, 3.2e-3] Pa/m, the nominal synoptic range
	OutOfFlagRange    bool // outside [6e-4, 1e-2] Pa/m, raises GradientOutOfRange
}

// Generate produces a smooth synoptic pressure field: hydrostatic
// elevation baseline, optional synoptic Gaussian centres, one 5-point
// smoothing pass. Deterministic in seed and the heightmap.
func Generate(sc *scale.Context, hm core.Heightmap, seed uint64, maxElevationM float32) (*core.PressureField, GradientReport) {
	pf := core.NewPressureField(sc.Width, sc.Height, sc.MetersPerPixel)

	for y := 0; y < sc.Height; y++ {
		for x := 0; x < sc.Width; x++ {
			elevM := float64(hm.Get(x, y)) * float64(maxElevationM)
			pf.Set(x, y, core.SeaLevelPressurePa*math.Exp(-elevM/core.PressureScaleHeightM))
		}
	}

	var systems []synopticSystem
	switch {
	case sc.EnableSynoptic:
		systems = generateSynopticSystems(sc, seed)
	default:
		if w := weakPerturbation(sc, seed); w != nil {
			systems = []synopticSystem{*w}
		}
	}

	for _, s := range systems {
		addGaussianBump(pf, s)
	}

	smoothOnePass(pf)

	return pf, validateGradient(pf)
}

func addGaussianBump(pf *core.PressureField, s synopticSystem) {
	twoSigmaSq := 2 * s.Sigma * s.Sigma
	// A Gaussian decays to ~3e-4 of its amplitude past 4 sigma; skip cells
	// outside that radius instead of scanning the whole grid per system.
	radius := int(math.Ceil(4 * s.Sigma))
	for dy := -radius; dy <= radius; dy++ {
		y := s.Y + dy
		if y < 0 || y >= pf.H {
			continue
		}
		for dx := -radius; dx <= radius; dx++ {
			x := s.X + dx
			if x < 0 || x >= pf.W {
				continue
			}
			d2 := float64(dx*dx + dy*dy)
			delta := s.Amplitude * math.Exp(-d2/twoSigmaSq)
			pf.Set(x, y, pf.Get(x, y)+delta)
		}
	}
}

// smoothOnePass applies a single 5-point stencil (centre weight 0.4, each
// of the four edge neighbours 0.15) to interior cells. Boundary cells are
// copied unsmoothed; BoundaryConditioner owns them later in the pipeline.
func smoothOnePass(pf *core.PressureField) {
	src := make([]float32, len(pf.Data))
	copy(src, pf.Data)
	get := func(x, y int) float64 { return float64(src[y*pf.W+x]) }

	for y := 1; y < pf.H-1; y++ {
		for x := 1; x < pf.W-1; x++ {
			v := 0.4*get(x, y) + 0.15*(get(x-1, y)+get(x+1, y)+get(x, y-1)+get(x, y+1))
			pf.Set(x, y, v)
		}
	}
}

func validateGradient(pf *core.PressureField) GradientReport {
	maxGrad := 0.0
	for y := 1; y < pf.H-1; y++ {
		for x := 1; x < pf.W-1; x++ {
			gx, gy := pf.Gradient(x, y)
			g := math.Hypot(gx, gy)
			if g > maxGrad {
				maxGrad = g
			}
		}
	}
	return GradientReport{
		MaxGradientPaPerM: maxGrad,
		WithinTargetRange: maxGrad >= core.GradientTargetLowPaPerM && maxGrad <= core.GradientTargetHighPaPerM,
		OutOfFlagRange:    maxGrad < core.GradientTargetLowPaPerM || maxGrad > core.GradientCeilingPaPerM,
	}
}
