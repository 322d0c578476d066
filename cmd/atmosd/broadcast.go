package main

import (
	"atmoscore/cmd/atmosd/wsstream"
	"atmoscore/internal/atmos"
)

// wireTickBroadcast registers a callback that turns every fresh Step
// result into a wsstream.Frame and fans it out to connected viewers.
func wireTickBroadcast(d *daemon, hub *wsstream.Hub) {
	d.OnResult(func(result *atmos.TickResult, tick uint64) {
		hub.Broadcast(wsstream.Frame{
			Tick:     tick,
			Width:    result.Pressure.W,
			Height:   result.Pressure.H,
			Pressure: result.Pressure.Data,
			WindU:    result.Wind.U,
			WindV:    result.Wind.V,
			MeanWind: result.Diagnostics.MeanWind,
			MaxWind:  result.Diagnostics.MaxWind,
		})
	})
}
