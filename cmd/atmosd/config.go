package main

import (
	"os"
	"strconv"

	"atmoscore/internal/atmos/core"
)

// config is the daemon's environment-variable configuration block, in the
// os.Getenv-with-defaulting style of tw-backend/cmd/game-server/main.go.
type config struct {
	Port string

	DomainKm      float64
	GridWidth     int
	GridHeight    int
	Detail        core.DetailLevel
	PressureSeed  uint64
	MaxElevationM float32
	NoiseSeed     int64

	TickCron    string
	CORSOrigins []string
}

func loadConfig() config {
	cfg := config{
		Port:          getenvDefault("PORT", "8085"),
		DomainKm:      getenvFloat("ATMOS_DOMAIN_KM", 1000),
		GridWidth:     getenvInt("ATMOS_GRID_WIDTH", 100),
		GridHeight:    getenvInt("ATMOS_GRID_HEIGHT", 100),
		Detail:        parseDetail(getenvDefault("ATMOS_DETAIL", "standard")),
		PressureSeed:  uint64(getenvInt64("ATMOS_PRESSURE_SEED", 42)),
		MaxElevationM: float32(getenvFloat("ATMOS_MAX_ELEVATION_M", float64(core.DefaultMaxElevationM))),
		NoiseSeed:     getenvInt64("ATMOS_NOISE_SEED", 1),
		TickCron:      getenvDefault("ATMOS_TICK_CRON", "@every 5s"),
		CORSOrigins:   []string{getenvDefault("CORS_ALLOWED_ORIGIN", "http://localhost:5173")},
	}
	return cfg
}

func parseDetail(s string) core.DetailLevel {
	switch s {
	case "low":
		return core.DetailLow
	case "high":
		return core.DetailHigh
	default:
		return core.DetailStandard
	}
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func getenvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return n
}
