// Package scale derives every scale-dependent quantity a tick needs —
// Coriolis parameter per row, synoptic system count and size, wind caps —
// from a single WorldScale descriptor. Every quantity here is a continuous
// function of domain_km, clamped only at the physical extremes, the same
// shape the teacher's GetAtmosphericCell/GetPressureAtLatitude use for
// their latitude bands, generalized from discrete bands to a continuous
// interpolation.
package scale

import (
	"math"

	"atmoscore/internal/atmos/core"
)

// CoriolisField stores the Coriolis parameter f(y), in s^-1, and the
// latitude each row was derived from, in radians. Neither varies with x.
type CoriolisField struct {
	H   int
	F   []float64
	Lat []float64
}

// At returns f(y).
func (cf *CoriolisField) At(y int) float64 { return cf.F[y] }

func newCoriolisField(h int, domainKm float64) *CoriolisField {
	cf := &CoriolisField{H: h, F: make([]float64, h), Lat: make([]float64, h)}
	for y := 0; y < h; y++ {
		lat := latitudeForRow(y, h, domainKm)
		cf.Lat[y] = lat
		cf.F[y] = 2 * core.Omega * math.Sin(lat)
	}
	return cf
}

// latitudeForRow maps grid row y to a latitude in radians, y increasing
// northward (row 0 is the southernmost row). Small domains sit in a narrow
// band around a mid-latitude reference; as domain size grows toward a
// planetary scale the band widens and recentres on the equator, reaching
// the full -90..90 range. The interpolation is continuous in domain_km and
// clamped only at +/-90 degrees.
func latitudeForRow(y, h int, domainKm float64) float64 {
	const smallDomainKm = 100.0
	const globalDomainKm = 20000.0
	const midLatitudeDeg = 45.0
	const smallBandHalfWidthDeg = 2.0
	const globalHalfWidthDeg = 90.0

	t := (domainKm - smallDomainKm) / (globalDomainKm - smallDomainKm)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	centerDeg := midLatitudeDeg * (1 - t)
	halfWidthDeg := smallBandHalfWidthDeg + t*(globalHalfWidthDeg-smallBandHalfWidthDeg)

	var norm float64
	if h > 1 {
		norm = 2*float64(y)/float64(h-1) - 1
	}
	latDeg := centerDeg + halfWidthDeg*norm
	if latDeg > 90 {
		latDeg = 90
	}
	if latDeg < -90 {
		latDeg = -90
	}
	return latDeg * math.Pi / 180
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Context holds every scale-derived parameter the downstream components
// need, computed once per tick from a WorldScale.
type Context struct {
	core.WorldScale
	MetersPerPixel float64
	Coriolis       *CoriolisField

	NumSystems        int
	SystemRadiusCells float64
	PressureAmplitude float64

	// EnableSynoptic gates the full synoptic-centre generator. It is
	// derived from domain size but may be overridden by a caller (tests
	// exercising a forced flat/zero-wind baseline independent of domain
	// size do this).
	EnableSynoptic bool

	// TinyDomain marks domains too small to host organised synoptic
	// systems (domain_km <= 100); it is independent of EnableSynoptic so
	// an override of the latter never changes whether the weak-texture
	// perturbation for small maps applies.
	TinyDomain bool
}

// New derives every scale-dependent parameter from ws in one pass.
func New(ws core.WorldScale) *Context {
	domainKm := ws.PhysicalSizeKm
	sc := &Context{
		WorldScale:        ws,
		MetersPerPixel:    ws.MetersPerPixel(),
		Coriolis:          newCoriolisField(ws.Height, domainKm),
		NumSystems:        int(clamp(math.Round(domainKm/800), 1, 4)),
		SystemRadiusCells: clamp(domainKm/1000*8, 3, 12),
		PressureAmplitude: 2500 * clamp(domainKm/500, 0.8, 1.5),
		EnableSynoptic:    domainKm > 100,
		TinyDomain:        domainKm <= 100,
	}
	return sc
}

// WindCap returns the hard wind-speed clamp for the given latitude, in m/s.
func (sc *Context) WindCap(latRad float64) float64 {
	latDeg := math.Abs(latRad) * 180 / math.Pi
	if latDeg > core.WindCapLatBoundaryDeg {
		return core.WindCapPolarMS
	}
	return core.WindCapMidMS
}
