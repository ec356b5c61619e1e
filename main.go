package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mkrogh/courtside/internal/admission"
	"github.com/mkrogh/courtside/internal/application"
	"github.com/mkrogh/courtside/internal/clock"
	"github.com/mkrogh/courtside/internal/config"
	"github.com/mkrogh/courtside/internal/court"
	"github.com/mkrogh/courtside/internal/database"
	"github.com/mkrogh/courtside/internal/dispatcher"
	"github.com/mkrogh/courtside/internal/game"
	server "github.com/mkrogh/courtside/internal/http"
	"github.com/mkrogh/courtside/internal/metrics"
	slacknotifier "github.com/mkrogh/courtside/internal/notifier/slack"
	"github.com/mkrogh/courtside/internal/profile"
	"github.com/mkrogh/courtside/internal/pubsub"
	"github.com/mkrogh/courtside/internal/wizard"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	clk := clock.New()
	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()

	courts := court.New(db)
	profiles := profile.New(db)
	games := game.New(db, courts, clk, cfg.HorizonDays)
	apps := application.New(db, clk)

	notifier := slacknotifier.NewNotifier(cfg.Slack.Token, metricsSvc)
	ps := pubsub.New(cfg.ProjectID)
	disp := dispatcher.New(games, apps, profiles, notifier, metricsSvc, ps)
	controller := admission.New(games, apps, clk, metricsSvc, disp)
	wiz := wizard.New(courts, games)

	s := server.NewServer(
		games,
		apps,
		profiles,
		courts,
		controller,
		disp,
		wiz,
		metricsSvc,
		metricsHandler,
		cfg,
		ps,
	)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		// Create a context with a timeout for the shutdown.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Attempt to gracefully shut down the server.
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}
