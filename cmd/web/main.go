package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AdamBeresnev/gymit/internal/config"
	"github.com/AdamBeresnev/gymit/internal/db"
	"github.com/AdamBeresnev/gymit/internal/events"
	"github.com/AdamBeresnev/gymit/internal/lock"
	"github.com/AdamBeresnev/gymit/internal/middleware"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	if err := run(cfg); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	database, err := db.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.RunMigrations(database.DB, cfg.DBDriver, cfg.MigrationsURL); err != nil {
		return err
	}

	var (
		locker    lock.Locker      = lock.NewLocalLocker(cfg.LockWait)
		publisher events.Publisher = events.NewLogPublisher()
	)
	if cfg.RedisURL != "" {
		client, err := connectRedis(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer client.Close()

		locker = lock.NewRedisLocker(client, cfg.LockTTL, cfg.LockWait)
		publisher = events.NewRedisPublisher(client, cfg.EventsChannel)
		slog.Info("redis enabled", "channel", cfg.EventsChannel)
	} else {
		slog.Warn("REDIS_URL not set, using in-process locks and logged events")
	}

	app := newApplication(database, locker, publisher, middleware.NewAuthenticator(cfg.JWTSecret))
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(app, cfg.CORSAllowedOrigins),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server starting", "addr", srv.Addr, "env", cfg.Env, "db_driver", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		slog.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func connectRedis(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}
