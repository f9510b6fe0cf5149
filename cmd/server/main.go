// Command server runs the loyalty-program management API.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/perkloop/perkloop/internal/account"
	"github.com/perkloop/perkloop/internal/auth"
	"github.com/perkloop/perkloop/internal/config"
	internaldb "github.com/perkloop/perkloop/internal/db"
	"github.com/perkloop/perkloop/internal/handler"
	"github.com/perkloop/perkloop/pkg/db"
	"github.com/perkloop/perkloop/pkg/logger"
	"github.com/perkloop/perkloop/pkg/mailer"
	"github.com/perkloop/perkloop/pkg/pinning"
	"github.com/perkloop/perkloop/pkg/redis"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(cfg.Logger).With("app", "perkloop", "env", cfg.Env)

	pool, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool, internaldb.Migrations, cfg.DB.MigrationsTable, log); err != nil {
		return err
	}

	redisClient, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	sessionStore := auth.NewRedisStore(redisClient)
	authSvc := auth.NewService(
		auth.NewRepository(pool),
		sessionStore,
		sessionStore,
		mailer.NewResend(cfg.Mailer, log),
		cfg.Auth,
		log,
	)

	accountSvc := account.NewService(account.NewRepository(pool), authSvc, log)

	orchestrator := pinning.New(cfg.Pinning, pinning.WithLogger(log))

	router := handler.New(handler.Deps{
		Log:      log,
		Auth:     authSvc,
		Profiles: accountSvc,
		Uploads:  orchestrator,
		Healthchecks: []func(ctx context.Context) error{
			func(ctx context.Context) error { return pool.Ping(ctx) },
			redis.Healthcheck(redisClient),
		},
		MaxUploadSize:  cfg.MaxUploadSize,
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down", "timeout", cfg.ShutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
