package heightmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate_DimensionsAndBounds(t *testing.T) {
	m := Generate(32, 24, 7, 0)
	assert.Equal(t, 32, m.Width())
	assert.Equal(t, 24, m.Height())

	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			v := m.Get(x, y)
			assert.GreaterOrEqual(t, v, float32(0))
			assert.LessOrEqual(t, v, float32(1))
		}
	}
}

func TestGenerate_NormalizedRangeIsUsed(t *testing.T) {
	m := Generate(64, 64, 11, 0)
	var min, max float32 = 1, 0
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			v := m.Get(x, y)
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}
	assert.InDelta(t, 0, min, 0.05)
	assert.InDelta(t, 1, max, 0.05)
}

func TestGenerate_DeterministicInSeed(t *testing.T) {
	a := Generate(20, 20, 99, 4)
	b := Generate(20, 20, 99, 4)
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			assert.Equal(t, a.Get(x, y), b.Get(x, y))
		}
	}
}

func TestGenerate_DifferentSeedsDiffer(t *testing.T) {
	a := Generate(20, 20, 1, 4)
	b := Generate(20, 20, 2, 4)
	same := true
	for y := 0; y < 20 && same; y++ {
		for x := 0; x < 20; x++ {
			if a.Get(x, y) != b.Get(x, y) {
				same = false
				break
			}
		}
	}
	assert.False(t, same, "different seeds should produce different fields")
}

func TestGenerate_DefaultScaleCellsWhenNonPositive(t *testing.T) {
	assert.NotPanics(t, func() {
		Generate(16, 16, 3, 0)
		Generate(16, 16, 3, -5)
	})
}
