// Command atmosd is the external-collaborator demo host for the
// atmospheric core: it generates a heightmap, runs Step on a schedule,
// and serves the result over HTTP/websocket, in the chi-router,
// cron-scheduled daemon shape of tw-backend/cmd/game-server/main.go —
// narrowed to a single standalone process with no database, auth, or
// message-bus dependency, since the core's contract forbids persisted
// state (spec.md §6, §7).
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"atmoscore/cmd/atmosd/api"
	"atmoscore/cmd/atmosd/wsstream"
	"atmoscore/internal/logging"
)

func main() {
	logging.InitLogger()
	cfg := loadConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := newDaemon(cfg)
	hub := wsstream.NewHub()
	go hub.Run()
	wireTickBroadcast(d, hub)

	// Run the first tick synchronously so the HTTP API has something to
	// serve the moment the server starts listening.
	d.Tick()

	sched := cron.New()
	if _, err := sched.AddFunc(cfg.TickCron, d.Tick); err != nil {
		log.Fatal().Err(err).Str("expr", cfg.TickCron).Msg("invalid ATMOS_TICK_CRON expression")
	}
	sched.Start()
	defer sched.Stop()

	tickHandler := api.NewTickHandler(d)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(logging.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", tickHandler.HandleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/api", func(r chi.Router) {
		r.Get("/tick", tickHandler.HandleTick)
		r.Get("/cell", tickHandler.HandleCell)
	})
	r.Get("/ws", hub.ServeHTTP)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		log.Info().Msg("shutting down atmosd")
		tickHandler.SetReady(false)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown error")
		}
	}()

	log.Info().
		Str("port", cfg.Port).
		Str("tick_cron", cfg.TickCron).
		Float64("domain_km", cfg.DomainKm).
		Int("width", cfg.GridWidth).
		Int("height", cfg.GridHeight).
		Msg("atmosd listening")

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server error")
	}
	<-ctx.Done()
	log.Info().Msg("atmosd stopped")
}
