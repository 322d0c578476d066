// Package heightmap generates a dense, row-major elevation field for the
// atmospheric core to drive off of. It wraps the same
// github.com/aquilax/go-perlin generator the teacher's geography package
// uses, adapted from a sphere-topology, map-keyed field to a flat W x H
// slice — the dense-array contract the core's Heightmap interface
// requires can't be satisfied by a map[Coordinate]float64.
package heightmap

import (
	"github.com/aquilax/go-perlin"
)

const (
	perlinAlpha   = 2.0
	perlinBeta    = 2.0
	perlinOctaves = 3
)

// Map is a flat, normalized-to-[0,1] elevation field.
type Map struct {
	w, h   int
	values []float32
}

// Generate builds a W x H elevation field from fractal Perlin noise,
// normalized into [0,1] so callers can scale it by whatever maximum
// elevation their scenario wants. scaleCells controls how many grid cells
// one noise-lattice unit spans — smaller values produce rougher terrain.
func Generate(w, h int, seed int64, scaleCells float64) *Map {
	if scaleCells <= 0 {
		scaleCells = float64(w) / 8
	}
	gen := perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, seed)

	m := &Map{w: w, h: h, values: make([]float32, w*h)}
	min, max := float32(1), float32(-1)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			n := float32(gen.Noise2D(float64(x)/scaleCells, float64(y)/scaleCells))
			m.values[y*w+x] = n
			if n < min {
				min = n
			}
			if n > max {
				max = n
			}
		}
	}

	spread := max - min
	if spread == 0 {
		spread = 1
	}
	for i, v := range m.values {
		m.values[i] = (v - min) / spread
	}
	return m
}

// Get returns the normalized elevation at (x,y), in [0,1].
func (m *Map) Get(x, y int) float32 { return m.values[y*m.w+x] }

// Width returns the grid width.
func (m *Map) Width() int { return m.w }

// Height returns the grid height.
func (m *Map) Height() int { return m.h }
