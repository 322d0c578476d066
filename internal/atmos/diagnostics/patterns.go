package diagnostics

import (
	"math"
	"sort"

	"atmoscore/internal/atmos/core"
	"atmoscore/internal/atmos/scale"
)

// PatternType names the kind of weather feature a window was classified
// as, generalized from the teacher's disasters.go threshold classifier
// (SpawnDisaster) and its PressureSystem/AtmosphericCell enums from a
// single-cell check into a windowed scan.
type PatternType string

const (
	PatternCyclone     PatternType = "CYCLONE"
	PatternAnticyclone PatternType = "ANTICYCLONE"
	PatternJet         PatternType = "JET"
	PatternCalm        PatternType = "CALM"
)

// WeatherPattern is one detected feature.
type WeatherPattern struct {
	Type        PatternType
	CenterX     int
	CenterY     int
	RadiusCells float64
	Intensity   float64
}

// Analysis is the full set of features found in one tick.
type Analysis struct {
	Patterns []WeatherPattern
}

const (
	patternStride  = 4
	maxPatterns    = 20
	jetThresholdMS = 20.0
	calmThreshold  = 1.0
)

// ExtractPatterns scans the grid on a coarse stride, classifies each
// window, then suppresses weaker detections that overlap a stronger one
// within one synoptic-system radius.
func ExtractPatterns(pf *core.PressureField, wf *core.WindField, df *DerivedFields, sc *scale.Context) *Analysis {
	var candidates []WeatherPattern
	for y := 2; y < sc.Height-2; y += patternStride {
		for x := 2; x < sc.Width-2; x += patternStride {
			if p, ok := classifyVortex(pf, df, sc, x, y); ok {
				candidates = append(candidates, p)
				continue
			}
			if p, ok := classifyJet(wf, sc, x, y); ok {
				candidates = append(candidates, p)
				continue
			}
			if p, ok := classifyCalm(wf, sc, x, y); ok {
				candidates = append(candidates, p)
			}
		}
	}

	candidates = nonMaxSuppress(candidates, sc.SystemRadiusCells)
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Intensity > candidates[j].Intensity })
	if len(candidates) > maxPatterns {
		candidates = candidates[:maxPatterns]
	}
	return &Analysis{Patterns: candidates}
}

func classifyVortex(pf *core.PressureField, df *DerivedFields, sc *scale.Context, cx, cy int) (WeatherPattern, bool) {
	center := pf.Get(cx, cy)
	isMin, isMax := true, true
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			x, y := cx+dx, cy+dy
			if x < 0 || x >= sc.Width || y < 0 || y >= sc.Height {
				continue
			}
			v := pf.Get(x, y)
			if v > center {
				isMax = false
			}
			if v < center {
				isMin = false
			}
		}
	}
	zeta := df.Vorticity.Get(cx, cy)
	northernHemisphere := sc.Coriolis.Lat[cy] >= 0
	cyclonic := zeta > 0
	if !northernHemisphere {
		cyclonic = zeta < 0
	}

	switch {
	case isMin && cyclonic && math.Abs(zeta) > 1e-6:
		return WeatherPattern{Type: PatternCyclone, CenterX: cx, CenterY: cy, RadiusCells: sc.SystemRadiusCells, Intensity: math.Abs(zeta)}, true
	case isMax && !cyclonic && math.Abs(zeta) > 1e-6:
		return WeatherPattern{Type: PatternAnticyclone, CenterX: cx, CenterY: cy, RadiusCells: sc.SystemRadiusCells, Intensity: math.Abs(zeta)}, true
	}
	return WeatherPattern{}, false
}

func classifyJet(wf *core.WindField, sc *scale.Context, cx, cy int) (WeatherPattern, bool) {
	speed := wf.Speed(cx, cy)
	if speed <= jetThresholdMS {
		return WeatherPattern{}, false
	}
	dir := wf.Direction(cx, cy)

	coherent := 1
	for _, step := range []int{1, 2} {
		x := cx + step*patternStride
		if x >= sc.Width-2 {
			break
		}
		s := wf.Speed(x, cy)
		if s <= jetThresholdMS {
			break
		}
		if angularDiff(dir, wf.Direction(x, cy)) > math.Pi/6 {
			break
		}
		coherent++
	}
	if coherent < 3 {
		return WeatherPattern{}, false
	}
	return WeatherPattern{Type: PatternJet, CenterX: cx, CenterY: cy, RadiusCells: sc.SystemRadiusCells, Intensity: speed}, true
}

func angularDiff(a, b float64) float64 {
	d := math.Abs(a - b)
	if d > math.Pi {
		d = 2*math.Pi - d
	}
	return d
}

func classifyCalm(wf *core.WindField, sc *scale.Context, cx, cy int) (WeatherPattern, bool) {
	var sum float64
	var count int
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			x, y := cx+dx, cy+dy
			if x < 0 || x >= sc.Width || y < 0 || y >= sc.Height {
				continue
			}
			sum += wf.Speed(x, y)
			count++
		}
	}
	mean := sum / float64(count)
	if mean >= calmThreshold {
		return WeatherPattern{}, false
	}
	return WeatherPattern{Type: PatternCalm, CenterX: cx, CenterY: cy, RadiusCells: sc.SystemRadiusCells, Intensity: calmThreshold - mean}, true
}

func nonMaxSuppress(candidates []WeatherPattern, radius float64) []WeatherPattern {
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Intensity > candidates[j].Intensity })
	kept := make([]WeatherPattern, 0, len(candidates))
	for _, c := range candidates {
		suppressed := false
		for _, k := range kept {
			dx := float64(c.CenterX - k.CenterX)
			dy := float64(c.CenterY - k.CenterY)
			if math.Hypot(dx, dy) < radius {
				suppressed = true
				break
			}
		}
		if !suppressed {
			kept = append(kept, c)
		}
	}
	return kept
}
