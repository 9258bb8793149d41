package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/obstacle-ladder/internal/config"
	"github.com/obstacle-ladder/internal/kafka"
	"github.com/obstacle-ladder/internal/ladder"
	"github.com/obstacle-ladder/internal/postgres"
	"github.com/obstacle-ladder/internal/redis"
	"github.com/obstacle-ladder/internal/report"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	every := flag.Duration("every", 0, "Recompute interval (0 = run once and exit)")
	flag.Parse()

	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Warn("failed to load config file, using defaults", "error", err)
		cfg = config.DefaultConfig()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize PostgreSQL
	logger.Info("connecting to PostgreSQL", "host", cfg.Postgres.Host, "database", cfg.Postgres.Database)
	repo, err := postgres.NewRepository(&cfg.Postgres, logger)
	if err != nil {
		logger.Error("failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to PostgreSQL")

	// Optional standings cache
	var cache *redis.StandingsCache
	if cfg.Redis.Enabled {
		logger.Info("connecting to Redis", "addr", cfg.Redis.Addr)
		cache, err = redis.NewStandingsCache(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("failed to connect to Redis, standings caching disabled", "error", err)
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	// Optional run-summary publisher
	var producer *kafka.Producer
	if cfg.Kafka.Enabled {
		logger.Info("initializing Kafka producer", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
		producer, err = kafka.NewProducer(&cfg.Kafka, logger)
		if err != nil {
			logger.Warn("failed to create Kafka producer, continuing without Kafka", "error", err)
			producer = nil
		} else {
			defer producer.Close()
		}
	}

	service := ladder.NewService(repo, logger)

	runOnce := func(ctx context.Context) error {
		result, err := service.Run(ctx)
		if err != nil {
			return fmt.Errorf("computing ladder: %w", err)
		}

		// The CSV reports are the contractual output; a write failure fails
		// the run. The Redis and Kafka sinks are best-effort extras.
		if err := report.WriteReports(result, cfg.Ladder.PlayersReport, cfg.Ladder.MapsReport); err != nil {
			return fmt.Errorf("writing reports: %w", err)
		}
		logger.Info("reports written",
			"players_report", cfg.Ladder.PlayersReport,
			"maps_report", cfg.Ladder.MapsReport,
		)

		if cache != nil {
			if err := cache.StoreLadder(ctx, result); err != nil {
				logger.Warn("failed to cache standings", "error", err)
			}
		}
		if producer != nil {
			if err := producer.PublishRunSummary(result); err != nil {
				logger.Warn("failed to publish run summary", "error", err)
			}
		}
		return nil
	}

	if *every == 0 {
		if err := runOnce(ctx); err != nil {
			logger.Error("ladder run failed", "error", err)
			os.Exit(1)
		}
		return
	}

	// Interval mode: recompute the full ladder on a ticker until interrupted.
	// A failed cycle is logged and the next one still runs.
	if err := runOnce(ctx); err != nil {
		logger.Error("ladder run failed", "error", err)
	}

	ticker := time.NewTicker(*every)
	defer ticker.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("recomputing on interval", "every", every.String())
	for {
		select {
		case <-quit:
			logger.Info("shutting down")
			return
		case <-ticker.C:
			if err := runOnce(ctx); err != nil {
				logger.Error("ladder run failed", "error", err)
			}
		}
	}
}
