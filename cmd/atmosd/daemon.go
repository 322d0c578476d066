package main

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"atmoscore/internal/atmos"
	"atmoscore/internal/atmos/core"
	"atmoscore/internal/atmos/telemetry"
	"atmoscore/internal/worldgen/heightmap"
)

// daemon owns the one atmospheric grid this process simulates: it runs
// Step on a schedule and publishes each result to anything reading the
// latest snapshot between ticks (the HTTP API, the websocket hub, the
// prometheus gauges), the same temporal-separation discipline spec.md §5
// describes between the core and its collaborators.
type daemon struct {
	cfg config
	hm  *heightmap.Map

	mu       sync.RWMutex
	tickNum  uint64
	latest   *atmos.TickResult
	onResult func(*atmos.TickResult, uint64)
}

func newDaemon(cfg config) *daemon {
	hm := heightmap.Generate(cfg.GridWidth, cfg.GridHeight, cfg.NoiseSeed, 0)
	return &daemon{cfg: cfg, hm: hm}
}

// Snapshot returns the most recent tick result, or nil before the first
// tick has run.
func (d *daemon) Snapshot() (*atmos.TickResult, uint64) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.latest, d.tickNum
}

// Tick runs one Step and publishes the result.
func (d *daemon) Tick() {
	ws := core.WorldScale{
		PhysicalSizeKm: d.cfg.DomainKm,
		Width:          d.cfg.GridWidth,
		Height:         d.cfg.GridHeight,
		Detail:         d.cfg.Detail,
	}

	start := time.Now()
	result := atmos.Step(ws, d.hm, d.cfg.PressureSeed, d.cfg.MaxElevationM)
	elapsed := time.Since(start)

	d.mu.Lock()
	d.tickNum++
	tickNum := d.tickNum
	d.latest = result
	cb := d.onResult
	d.mu.Unlock()

	telemetry.Update(result.Diagnostics)

	evt := log.Info().
		Uint64("tick", tickNum).
		Dur("duration", elapsed).
		Int("patterns", len(result.Weather.Patterns)).
		Float64("mean_wind_mps", result.Diagnostics.MeanWind).
		Float64("max_wind_mps", result.Diagnostics.MaxWind)
	if len(result.Diagnostics.Flags) > 0 {
		flags := make([]string, len(result.Diagnostics.Flags))
		for i, f := range result.Diagnostics.Flags {
			flags[i] = string(f)
		}
		evt = evt.Strs("flags", flags)
	}
	evt.Msg("atmospheric tick completed")

	if cb != nil {
		cb(result, tickNum)
	}
}

// OnResult registers a callback invoked synchronously after every Tick,
// used to fan a fresh snapshot out to connected websocket viewers without
// making them poll the daemon.
func (d *daemon) OnResult(fn func(*atmos.TickResult, uint64)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onResult = fn
}
