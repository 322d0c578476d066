// Package telemetry exports the latest tick's Diagnostics as Prometheus
// gauges, following the teacher's ai/metrics/prometheus.go promauto idiom:
// package-level gauges created once via promauto, updated by a single
// "set everything from this struct" call.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"atmoscore/internal/atmos"
	"atmoscore/internal/atmos/diagnflag"
)

var (
	geostrophicResidualGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "atmos_geostrophic_residual",
		Help: "Mean geostrophic balance imbalance over non-equatorial interior cells",
	})
	pressureWindCorrelationGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "atmos_pressure_wind_correlation",
		Help: "Pearson correlation between pressure-gradient magnitude and wind speed",
	})
	boundaryFluxGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "atmos_boundary_flux",
		Help: "Net outward mass flux across the domain boundary after correction",
	})
	totalMomentumGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "atmos_total_momentum",
		Help: "Sum of rho * |v| * cell_area over the whole grid",
	})
	maxWindGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "atmos_max_wind_mps",
		Help: "Maximum wind speed in the most recent tick",
	})
	meanWindGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "atmos_mean_wind_mps",
		Help: "Mean wind speed in the most recent tick",
	})
	maxGradientGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "atmos_max_pressure_gradient_pa_per_m",
		Help: "Maximum pressure gradient magnitude in the most recent tick",
	})
	flagsRaisedGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "atmos_diagnostic_flag_raised",
		Help: "Whether a given diagnostic flag was raised in the most recent tick (1) or not (0)",
	}, []string{"flag"})
)

var allFlags = []diagnflag.Flag{
	diagnflag.InputDimensionMismatch,
	diagnflag.NonFinitePressure,
	diagnflag.NonFiniteWind,
	diagnflag.GradientOutOfRange,
	diagnflag.BoundaryFluxResidual,
}

// Update sets every gauge from the latest tick's Diagnostics.
func Update(d *atmos.Diagnostics) {
	geostrophicResidualGauge.Set(d.GeostrophicResidual)
	pressureWindCorrelationGauge.Set(d.PressureWindCorrelation)
	boundaryFluxGauge.Set(d.BoundaryFlux)
	totalMomentumGauge.Set(d.TotalMomentum)
	maxWindGauge.Set(d.MaxWind)
	meanWindGauge.Set(d.MeanWind)
	maxGradientGauge.Set(d.MaxPressureGradient)

	for _, f := range allFlags {
		v := 0.0
		if d.Has(f) {
			v = 1.0
		}
		flagsRaisedGauge.WithLabelValues(string(f)).Set(v)
	}
}
