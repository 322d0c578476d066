// Package api serves the atmospheric daemon's latest tick over HTTP as
// JSON, in the handler-struct-with-dependencies shape of
// tw-backend/cmd/game-server/api's handlers (e.g. HealthHandler).
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"atmoscore/internal/atmos"
	"atmoscore/internal/atmos/diagnostics"
	"atmoscore/internal/logging"
)

// Snapshotter is the read-only seam into the daemon's latest tick result;
// the api package depends on this interface, not the daemon's concrete
// type, so it has no import-cycle back to package main.
type Snapshotter interface {
	Snapshot() (*atmos.TickResult, uint64)
}

// TickHandler serves the most recent tick's fields and diagnostics.
type TickHandler struct {
	source    Snapshotter
	startTime time.Time
	ready     atomic.Bool
}

// NewTickHandler creates a handler reading from source.
func NewTickHandler(source Snapshotter) *TickHandler {
	h := &TickHandler{source: source, startTime: time.Now()}
	h.ready.Store(true)
	return h
}

// SetReady flips readiness, for graceful-shutdown draining.
func (h *TickHandler) SetReady(ready bool) { h.ready.Store(ready) }

// tickResponse is the wire shape of GET /api/tick: scalar diagnostics and
// the weather list in full, with the dense grids summarized rather than
// dumped cell-by-cell — a viewer wanting raw grids uses the websocket
// stream instead.
type tickResponse struct {
	Tick        uint64                       `json:"tick"`
	Width       int                          `json:"width"`
	Height      int                          `json:"height"`
	Diagnostics diagnostics.Metrics          `json:"diagnostics"`
	Flags       []string                     `json:"flags"`
	Weather     []diagnostics.WeatherPattern `json:"weather"`
}

// HandleTick serves GET /api/tick.
func (h *TickHandler) HandleTick(w http.ResponseWriter, r *http.Request) {
	result, tickNum := h.source.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	if result == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"status": "warming_up"})
		return
	}

	flags := make([]string, len(result.Diagnostics.Flags))
	for i, f := range result.Diagnostics.Flags {
		flags[i] = string(f)
	}

	resp := tickResponse{
		Tick:        tickNum,
		Width:       result.Pressure.W,
		Height:      result.Pressure.H,
		Diagnostics: result.Diagnostics.Metrics,
		Flags:       flags,
		Weather:     result.Weather.Patterns,
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// cellResponse is the wire shape of GET /api/cell: the pressure, wind,
// speed, direction, and vorticity at a single (x,y), for a viewer that
// wants one value without pulling the whole grid.
type cellResponse struct {
	X          int     `json:"x"`
	Y          int     `json:"y"`
	PressurePa float64 `json:"pressure_pa"`
	U          float64 `json:"u"`
	V          float64 `json:"v"`
	SpeedMS    float64 `json:"speed_mps"`
	Direction  float64 `json:"direction_rad"`
	Vorticity  float64 `json:"vorticity"`
}

// HandleCell serves GET /api/cell?x=..&y=...
func (h *TickHandler) HandleCell(w http.ResponseWriter, r *http.Request) {
	result, _ := h.source.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	if result == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"status": "warming_up"})
		return
	}

	x := queryInt(r, "x", 0)
	y := queryInt(r, "y", 0)
	if x < 0 || x >= result.Pressure.W || y < 0 || y >= result.Pressure.H {
		logging.LogWarning(r.Context(), "cell request out of bounds", map[string]interface{}{
			"x": x, "y": y, "width": result.Pressure.W, "height": result.Pressure.H,
		})
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "x,y out of grid bounds"})
		return
	}

	u, v := result.Wind.Get(x, y)
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(cellResponse{
		X: x, Y: y,
		PressurePa: result.Pressure.Get(x, y),
		U:          u,
		V:          v,
		SpeedMS:    result.Derived.Speed.Get(x, y),
		Direction:  result.Derived.Direction.Get(x, y),
		Vorticity:  result.Derived.Vorticity.Get(x, y),
	})
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n := fallback
	if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
		return fallback
	}
	return n
}

// HealthResponse mirrors tw-backend/cmd/game-server/api.HealthHandler's
// liveness payload, adapted with atmosphere-daemon fields in place of
// connected-user counts.
type HealthResponse struct {
	Status     string  `json:"status"`
	Uptime     string  `json:"uptime"`
	Goroutines int     `json:"goroutines"`
	MemoryMB   float64 `json:"memory_mb"`
	Ready      bool    `json:"ready"`
}

// HandleHealth serves GET /health.
func (h *TickHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(HealthResponse{
		Status:     "healthy",
		Uptime:     time.Since(h.startTime).String(),
		Goroutines: runtime.NumGoroutine(),
		MemoryMB:   float64(m.Alloc) / 1024 / 1024,
		Ready:      h.ready.Load(),
	})
}
