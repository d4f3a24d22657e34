package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"soravault/internal/ai"
	"soravault/internal/auth"
	"soravault/internal/config"
	"soravault/internal/logging"
	"soravault/internal/migrations"
	"soravault/internal/notify"
	"soravault/internal/pricing"
	"soravault/internal/realtime"
	"soravault/internal/repositories"
	"soravault/internal/timeutil"
	"soravault/utils"
)

const shutdownTimeout = 20 * time.Second

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: load .env: %v\n", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	addr := flag.String("addr", cfg.Server.Address, "HTTP network address")
	flag.Parse()

	logger := logging.New(os.Stdout, cfg.Log.Level)
	if err := run(cfg, *addr, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, addr string, logger *slog.Logger) error {
	if err := timeutil.SetLocation(cfg.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", cfg.Timezone, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Database.Migrate {
		if err := migrations.Apply(ctx, db.DB); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		logger.Info("migrations applied")
	}

	tokens, err := auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.Audience)
	if err != nil {
		return err
	}

	hub := realtime.NewHub(logger)
	d := deps{tokens: tokens, hub: hub, pub: hub}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		defer rdb.Close()

		bus := realtime.NewRedisBus(rdb, hub, logger)
		d.pub = bus
		go func() {
			if err := bus.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("realtime subscriber stopped", "error", err)
			}
		}()
	} else {
		logger.Info("redis not configured, realtime delivery is local")
	}

	if cfg.StorageEnabled() {
		uploader, err := utils.NewS3Uploader(utils.S3Config{
			Endpoint:      cfg.Storage.Endpoint,
			Region:        cfg.Storage.Region,
			Bucket:        cfg.Storage.Bucket,
			AccessKey:     cfg.Storage.AccessKey,
			SecretKey:     cfg.Storage.SecretKey,
			PublicBaseURL: cfg.Storage.PublicBaseURL,
		})
		if err != nil {
			return fmt.Errorf("storage: %w", err)
		}
		d.storage = uploader
	} else {
		logger.Warn("storage not configured, photo uploads and image generation are disabled")
	}

	aiClient := ai.NewClient(ai.Options{
		APIKey:      cfg.AI.APIKey,
		BaseURL:     cfg.AI.BaseURL,
		ChatModel:   cfg.AI.ChatModel,
		VisionModel: cfg.AI.VisionModel,
		ImageModel:  cfg.AI.ImageModel,
		Timeout:     cfg.AI.Timeout,
	})
	d.ai = aiClient
	d.prices = priceChain(cfg, aiClient, rdb, logger)

	d.devices = &repositories.DeviceRepository{DB: db}
	d.push = notify.Noop{}
	if cfg.Firebase.CredentialsFile != "" {
		fcm, err := notify.NewFCM(ctx, cfg.Firebase.CredentialsFile, d.devices, logger)
		if err != nil {
			return fmt.Errorf("firebase: %w", err)
		}
		d.push = fcm
	} else {
		logger.Info("firebase not configured, push notifications are disabled")
	}

	app := initializeApp(cfg, db, logger, d)

	scheduler, err := app.startScheduler(ctx)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      app.routes(),
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
		IdleTimeout:  time.Minute,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	<-scheduler.Stop().Done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	app.bg.Wait()
	return nil
}

func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Open(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// priceChain asks the model first and falls back to scraping listings.
// Answers are cached in Redis when it is configured.
func priceChain(cfg config.Config, client *ai.Client, rdb *redis.Client, logger *slog.Logger) *pricing.Chain {
	chain := &pricing.Chain{TTL: cfg.Market.CacheTTL, Logger: logger}
	if rdb != nil {
		chain.Cache = &pricing.RedisCache{Client: rdb}
	}
	if client.Enabled() {
		chain.Providers = append(chain.Providers, &pricing.AIProvider{Client: client})
	}
	if cfg.Market.ScrapeURL != "" {
		chain.Providers = append(chain.Providers, &pricing.ScrapeProvider{
			HTTPClient:  &http.Client{Timeout: 15 * time.Second},
			URLTemplate: cfg.Market.ScrapeURL,
			Selector:    cfg.Market.PriceSelector,
		})
	}
	return chain
}
