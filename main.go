package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"
	"github.com/okosoff-test/hockeytest/internal/clock"
	"github.com/okosoff-test/hockeytest/internal/config"
	"github.com/okosoff-test/hockeytest/internal/database"
	server "github.com/okosoff-test/hockeytest/internal/http"
	"github.com/okosoff-test/hockeytest/internal/http/handlers"
	"github.com/okosoff-test/hockeytest/internal/league"
	"github.com/okosoff-test/hockeytest/internal/metrics"
	"github.com/okosoff-test/hockeytest/internal/notifier"
	"github.com/okosoff-test/hockeytest/internal/notifier/slack"
	"github.com/okosoff-test/hockeytest/internal/pubsub"
	"github.com/okosoff-test/hockeytest/internal/scheduler"
	"github.com/okosoff-test/hockeytest/internal/session"
	"github.com/okosoff-test/hockeytest/internal/storage"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.Warn("Unknown LOG_LEVEL, using info", "level", cfg.LogLevel)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()
	var leagueMetrics metrics.Metrics = metricsSvc
	var counters handlers.CounterTotals

	var store league.Store
	db, err := database.InitDB(cfg.DBName, cfg.DatabaseURL, cfg.DBAuthToken)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Error("Failed to initialize database, falling back to snapshot file", "error", err, "file", cfg.SnapshotFile)
		fileStore, err := storage.NewFileStore(cfg.SnapshotFile)
		if err != nil {
			log.Fatalf("Failed to open snapshot file: %s", err)
		}
		store = fileStore
	} else {
		defer func() {
			log.Info("Closing database connection")
			db.Close()
		}()
		store = storage.NewSQLStore(db)
		durable := metrics.NewDurable(metricsSvc, metrics.NewStore(db))
		leagueMetrics = durable
		counters = durable
	}

	var notifiers notifier.Multi
	if cfg.Slack.Token != "" && cfg.Slack.ChannelID != "" {
		notifiers = append(notifiers, slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, leagueMetrics))
	} else {
		log.Info("Slack notifications disabled")
	}
	if cfg.ProjectID != "" {
		client, err := pubsub.New(ctx, cfg.ProjectID)
		if err != nil {
			log.Error("Failed to create pub/sub client, events will not be published", "error", err)
		} else {
			defer client.Close()
			notifiers = append(notifiers, pubsub.NewNotifier(client, leagueMetrics))
		}
	}

	loc := cfg.Location()
	clk := clock.New(clockwork.NewRealClock(), loc)
	svc := league.New(cfg.League, clk, store, notifiers, leagueMetrics)
	if err := svc.Load(ctx); err != nil {
		log.Fatalf("Failed to load league state: %s", err)
	}

	sched, err := scheduler.New(ctx, svc, clk, cfg.TickInterval)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %s", err)
	}
	sched.Start()

	s := server.NewServer(svc, session.New(), metricsHandler, counters, cfg)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port, "league", cfg.League.Name, "timezone", loc.String())
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Error("Server error", "error", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		// Create a context with a timeout for the shutdown.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Attempt to gracefully shut down the server.
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	if err := sched.Shutdown(); err != nil {
		log.Error("Scheduler shutdown failed", "error", err)
	}
	stop()
	log.Info("Server process shutting down")
}
