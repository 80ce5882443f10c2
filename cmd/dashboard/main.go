package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/flood-alert-dashboard/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/flood-alert-dashboard/internal/adapter/kafka"
	"github.com/couchcryptid/flood-alert-dashboard/internal/adapter/sqlite"
	"github.com/couchcryptid/flood-alert-dashboard/internal/adapter/weatherapi"
	wsadapter "github.com/couchcryptid/flood-alert-dashboard/internal/adapter/websocket"
	"github.com/couchcryptid/flood-alert-dashboard/internal/config"
	"github.com/couchcryptid/flood-alert-dashboard/internal/dashboard"
	"github.com/couchcryptid/flood-alert-dashboard/internal/domain"
	"github.com/couchcryptid/flood-alert-dashboard/internal/observability"
	"github.com/jonboulle/clockwork"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	dir, err := domain.NewDirectory(cfg.Stations)
	if err != nil {
		logger.Error("invalid station directory", "error", err)
		os.Exit(1)
	}

	clock := clockwork.NewRealClock()
	client := weatherapi.NewClient(cfg.APIURL, cfg.APITimeout, metrics, logger)
	source := weatherapi.NewCachedFetcher(client, cfg.CacheTTL, clock, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := wsadapter.NewHub(logger, metrics)
	go hub.Run(ctx)
	publishers := []dashboard.Publisher{hub}

	// Kafka export is feature-flagged via KAFKA_ENABLED.
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publishers = append(publishers, writer)
		logger.Info("kafka export enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka export disabled")
	}

	opts := httpadapter.Options{TrustProxy: cfg.TrustProxy, Live: hub}

	var archive *sqlite.Archive
	if cfg.ArchivePath != "" {
		archive, err = sqlite.Open(cfg.ArchivePath, logger)
		if err != nil {
			logger.Error("open reading archive", "error", err, "path", cfg.ArchivePath)
			os.Exit(1)
		}
		publishers = append(publishers, archive)
		opts.History = archive
		logger.Info("reading archive enabled", "path", cfg.ArchivePath)
	}

	svc := dashboard.New(source, cfg.Thresholds, dir, dashboard.Options{
		MaxAge:     cfg.CacheTTL,
		Clock:      clock,
		Publishers: publishers,
	}, logger, metrics)

	srv, err := httpadapter.NewServer(cfg.HTTPAddr, svc, opts, logger, metrics)
	if err != nil {
		logger.Error("failed to build http server", "error", err)
		os.Exit(1)
	}

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	if cfg.PollSchedule != "" {
		poller := dashboard.NewPoller(cfg.PollSchedule, svc, logger)
		go func() {
			if err := poller.Run(ctx); err != nil {
				logger.Error("poller error", "error", err)
			}
		}()
	} else {
		logger.Info("background polling disabled; refreshing on request")
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	if err := archive.Close(); err != nil {
		logger.Error("archive close error", "error", err)
	}

	logger.Info("shutdown complete")
}
