package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/joaohbaptista125/seafarers-dashboard/internal/amqp"
	"github.com/joaohbaptista125/seafarers-dashboard/internal/config"
	apphttp "github.com/joaohbaptista125/seafarers-dashboard/internal/http"
	"github.com/joaohbaptista125/seafarers-dashboard/internal/mirror"
	"github.com/joaohbaptista125/seafarers-dashboard/internal/session"
	"github.com/joaohbaptista125/seafarers-dashboard/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting seafarers dashboard")

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// Local persistence
	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// Optional state broadcast between instances
	var broadcast *amqp.Client
	if cfg.BroadcastEnabled() {
		broadcast, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer broadcast.Close()
		logger.Info("State broadcast enabled", "exchange", cfg.AMQPExchange)
	} else {
		logger.Info("State broadcast disabled - no AMQP_URL provided")
	}

	// Optional Google Sheets history mirror
	var sheetMirror *mirror.Client
	if cfg.MirrorEnabled() {
		sheetMirror, err = mirror.New(context.Background(), mirror.Config{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			CredentialsJSON: cfg.GoogleCredentialsJSON,
			CredentialsFile: cfg.GoogleCredentialsFile,
		})
		if err != nil {
			logger.Error("Failed to initialize Sheets mirror", "error", err)
			os.Exit(1)
		}
		logger.Info("History mirror enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("History mirror disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	opts := session.Options{
		Local:    repo,
		Debounce: cfg.SaveDebounce,
	}
	if broadcast != nil {
		opts.Notifier = broadcast
	}
	if sheetMirror != nil {
		opts.Mirror = sheetMirror
	}
	sess := session.New(opts)

	// Resume from the last persisted state
	loadCtx, loadCancel := context.WithTimeout(context.Background(), 10*time.Second)
	ps, found, err := repo.LoadState(loadCtx)
	loadCancel()
	if err != nil {
		logger.Error("Failed to load persisted state", "error", err)
		os.Exit(1)
	}
	if found {
		sess.Load(ps)
		logger.Info("Persisted state loaded",
			"week", ps.WeeklyData.WeekNumber,
			"snapshots", len(ps.WeeklyHistory),
			"updated_at", ps.UpdatedAt)
	} else {
		logger.Info("No persisted state found, starting fresh",
			"week", sess.State().WeeklyData.WeekNumber)
	}

	srv := apphttp.NewServer(":"+cfg.Port, sess)
	srv.ReadTimeout = 30 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting HTTP server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if broadcast != nil {
		g.Go(func() error {
			err := broadcast.ConsumeStateUpdates(ctx, func(msg *amqp.StateUpdateMessage) error {
				remote, err := msg.DecodeState()
				if err != nil {
					return err
				}
				sess.ApplyRemote(ctx, msg.Origin, remote)
				return nil
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}

		// Flush any pending debounced save before exiting
		sess.Close()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
