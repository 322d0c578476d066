package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atmoscore/internal/atmos"
)

func TestDaemon_TickPublishesSnapshot(t *testing.T) {
	cfg := loadConfig()
	cfg.GridWidth, cfg.GridHeight = 40, 40
	d := newDaemon(cfg)

	before, tickNum := d.Snapshot()
	assert.Nil(t, before)
	assert.Equal(t, uint64(0), tickNum)

	d.Tick()

	after, tickNum := d.Snapshot()
	require.NotNil(t, after)
	assert.Equal(t, uint64(1), tickNum)
	assert.Equal(t, 40, after.Pressure.W)
}

func TestDaemon_OnResultCallbackFires(t *testing.T) {
	cfg := loadConfig()
	cfg.GridWidth, cfg.GridHeight = 20, 20
	d := newDaemon(cfg)

	var gotTick uint64
	var gotResult *atmos.TickResult
	d.OnResult(func(result *atmos.TickResult, tick uint64) {
		gotResult = result
		gotTick = tick
	})

	d.Tick()

	require.NotNil(t, gotResult)
	assert.Equal(t, uint64(1), gotTick)
}
