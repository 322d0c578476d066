package pressure_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atmoscore/internal/atmos/core"
	"atmoscore/internal/atmos/pressure"
	"atmoscore/internal/atmos/scale"
)

// flatHeightmap is a constant-elevation Heightmap stub for tests that don't
// need terrain variation.
type flatHeightmap struct {
	w, h int
	elev float32
}

func (f flatHeightmap) Get(x, y int) float32 { return f.elev }
func (f flatHeightmap) Width() int           { return f.w }
func (f flatHeightmap) Height() int          { return f.h }

func TestGenerate_FlatHydrostaticBaseline(t *testing.T) {
	ws := core.WorldScale{PhysicalSizeKm: 1000, Width: 100, Height: 100}
	sc := scale.New(ws)
	sc.EnableSynoptic = false
	sc.NumSystems = 0
	sc.TinyDomain = false // suppress even the weak-texture perturbation for this check

	hm := flatHeightmap{w: 100, h: 100, elev: 0.5}
	pf, _ := pressure.Generate(sc, hm, 0, 5000)

	// The field stores float32, so compare against the float32-rounded value.
	want := float64(float32(core.SeaLevelPressurePa * math.Exp(-2500.0/core.PressureScaleHeightM)))
	for y := 0; y < pf.H; y++ {
		for x := 0; x < pf.W; x++ {
			assert.InDelta(t, want, pf.Get(x, y), 1e-6)
		}
	}
}

func TestGenerate_LowCentreDepressesPressure(t *testing.T) {
	ws := core.WorldScale{PhysicalSizeKm: 1000, Width: 100, Height: 100}
	sc := scale.New(ws)
	hm := flatHeightmap{w: 100, h: 100, elev: 0}

	// Find a seed producing a single system so the scenario is unambiguous.
	var pf *core.PressureField
	found := false
	for seed := uint64(0); seed < 64 && !found; seed++ {
		candidate, _ := pressure.Generate(sc, hm, seed, 5000)
		base := core.SeaLevelPressurePa
		minV, maxV := candidate.Get(0, 0), candidate.Get(0, 0)
		for y := 0; y < candidate.H; y++ {
			for x := 0; x < candidate.W; x++ {
				v := candidate.Get(x, y)
				if v < minV {
					minV = v
				}
				if v > maxV {
					maxV = v
				}
			}
		}
		if base-minV > 500 { // a real low centre formed somewhere
			pf = candidate
			found = true
		}
	}
	require.True(t, found, "expected at least one seed in range to produce a low centre")
	assert.Less(t, minOf(pf), core.SeaLevelPressurePa-500)
}

func minOf(pf *core.PressureField) float64 {
	m := pf.Get(0, 0)
	for y := 0; y < pf.H; y++ {
		for x := 0; x < pf.W; x++ {
			if v := pf.Get(x, y); v < m {
				m = v
			}
		}
	}
	return m
}

func TestGenerate_DeterministicInSeed(t *testing.T) {
	ws := core.WorldScale{PhysicalSizeKm: 1000, Width: 64, Height: 64}
	sc := scale.New(ws)
	hm := flatHeightmap{w: 64, h: 64, elev: 0.2}

	a, _ := pressure.Generate(sc, hm, 42, 5000)
	b, _ := pressure.Generate(sc, hm, 42, 5000)
	assert.Equal(t, a.Data, b.Data, "same seed must reproduce bit-identical fields")
}

func TestGenerate_AllFinite(t *testing.T) {
	ws := core.WorldScale{PhysicalSizeKm: 4000, Width: 80, Height: 60}
	sc := scale.New(ws)
	hm := flatHeightmap{w: 80, h: 60, elev: 0.7}

	pf, _ := pressure.Generate(sc, hm, 7, 5000)
	for _, v := range pf.Data {
		assert.False(t, math.IsNaN(float64(v)))
		assert.False(t, math.IsInf(float64(v), 0))
	}
}

func TestGenerate_GradientReportFlagsOutOfRange(t *testing.T) {
	ws := core.WorldScale{PhysicalSizeKm: 1000, Width: 100, Height: 100}
	sc := scale.New(ws)
	sc.EnableSynoptic = false
	sc.NumSystems = 0
	sc.TinyDomain = false

	hm := flatHeightmap{w: 100, h: 100, elev: 0.5}
	_, report := pressure.Generate(sc, hm, 0, 5000)

	// A perfectly flat field has zero gradient everywhere: below the
	// nominal synoptic floor, so the report must flag it.
	assert.InDelta(t, 0.0, report.MaxGradientPaPerM, 1e-9)
	assert.True(t, report.OutOfFlagRange)
	assert.False(t, report.WithinTargetRange)
}
