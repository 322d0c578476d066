package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"atmoscore/internal/atmos/core"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "ATMOS_DOMAIN_KM", "ATMOS_GRID_WIDTH", "ATMOS_GRID_HEIGHT", "ATMOS_DETAIL", "ATMOS_TICK_CRON"} {
		os.Unsetenv(k)
	}

	cfg := loadConfig()
	assert.Equal(t, "8085", cfg.Port)
	assert.Equal(t, 1000.0, cfg.DomainKm)
	assert.Equal(t, 100, cfg.GridWidth)
	assert.Equal(t, core.DetailStandard, cfg.Detail)
	assert.Equal(t, "@every 5s", cfg.TickCron)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ATMOS_DOMAIN_KM", "40000")
	t.Setenv("ATMOS_DETAIL", "high")

	cfg := loadConfig()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 40000.0, cfg.DomainKm)
	assert.Equal(t, core.DetailHigh, cfg.Detail)
}

func TestParseDetail(t *testing.T) {
	assert.Equal(t, core.DetailLow, parseDetail("low"))
	assert.Equal(t, core.DetailHigh, parseDetail("high"))
	assert.Equal(t, core.DetailStandard, parseDetail("standard"))
	assert.Equal(t, core.DetailStandard, parseDetail("garbage"))
}
