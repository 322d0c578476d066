package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atmoscore/internal/atmos"
	"atmoscore/internal/atmos/core"
	"atmoscore/internal/worldgen/heightmap"
)

type stubSnapshotter struct {
	result *atmos.TickResult
	tick   uint64
}

func (s stubSnapshotter) Snapshot() (*atmos.TickResult, uint64) { return s.result, s.tick }

func sampleResult(t *testing.T) *atmos.TickResult {
	t.Helper()
	ws := core.WorldScale{PhysicalSizeKm: 1000, Width: 20, Height: 20}
	hm := heightmap.Generate(20, 20, 1, 0)
	return atmos.Step(ws, hm, 1, 5000)
}

func TestHandleTick_WarmingUpBeforeFirstTick(t *testing.T) {
	h := NewTickHandler(stubSnapshotter{})
	req := httptest.NewRequest(http.MethodGet, "/api/tick", nil)
	rr := httptest.NewRecorder()

	h.HandleTick(rr, req)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestHandleTick_ServesLatestSnapshot(t *testing.T) {
	result := sampleResult(t)
	h := NewTickHandler(stubSnapshotter{result: result, tick: 3})
	req := httptest.NewRequest(http.MethodGet, "/api/tick", nil)
	rr := httptest.NewRecorder()

	h.HandleTick(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp tickResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, uint64(3), resp.Tick)
	assert.Equal(t, 20, resp.Width)
	assert.Equal(t, 20, resp.Height)
}

func TestHandleCell_OutOfBoundsRejected(t *testing.T) {
	result := sampleResult(t)
	h := NewTickHandler(stubSnapshotter{result: result, tick: 1})
	req := httptest.NewRequest(http.MethodGet, "/api/cell?x=999&y=999", nil)
	rr := httptest.NewRecorder()

	h.HandleCell(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleCell_ServesRequestedCell(t *testing.T) {
	result := sampleResult(t)
	h := NewTickHandler(stubSnapshotter{result: result, tick: 1})
	req := httptest.NewRequest(http.MethodGet, "/api/cell?x=5&y=7", nil)
	rr := httptest.NewRecorder()

	h.HandleCell(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp cellResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 5, resp.X)
	assert.Equal(t, 7, resp.Y)
	assert.InDelta(t, result.Pressure.Get(5, 7), resp.PressurePa, 1e-6)
}

func TestHandleHealth_ReportsReady(t *testing.T) {
	h := NewTickHandler(stubSnapshotter{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	h.HandleHealth(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.True(t, resp.Ready)

	h.SetReady(false)
	rr2 := httptest.NewRecorder()
	h.HandleHealth(rr2, req)
	require.NoError(t, json.Unmarshal(rr2.Body.Bytes(), &resp))
	assert.False(t, resp.Ready)
}
