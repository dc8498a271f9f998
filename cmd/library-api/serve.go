package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/shelfkeep/library-api/internal/api"
	"github.com/shelfkeep/library-api/internal/api/handler"
	"github.com/shelfkeep/library-api/internal/core/ports"
	"github.com/shelfkeep/library-api/internal/core/service"
	"github.com/shelfkeep/library-api/internal/infrastructure/db/postgres"
	"github.com/shelfkeep/library-api/internal/infrastructure/db/redis"
)

const (
	shutdownTimeout  = 10 * time.Second
	redisPingTimeout = 2 * time.Second
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, log, err := bootstrap(cmd)
	if err != nil {
		return err
	}

	// --- Postgres (lazy pool) ---
	db, err := postgres.Open(postgresConfig(cfg.Postgres))
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Postgres.AutoMigrate {
		if err := postgres.Migrate(ctx, db.DB, log); err != nil {
			return err
		}
	}

	healthChecks := map[string]handler.Pinger{
		"postgres": func(ctx context.Context) error { return postgres.Ping(ctx, db) },
	}

	// --- Redis (optional) ---
	var idem ports.IdempotencyStore
	if cfg.Redis.Enabled() {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rdb.Close()

		idem = redis.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL)
		healthChecks["redis"] = func(ctx context.Context) error { return redis.Ping(ctx, rdb, redisPingTimeout) }
		log.Info().Str("addr", cfg.Redis.Addr).Msg("idempotency store enabled")
	} else {
		log.Warn().Msg("REDIS_ADDR not set, Idempotency-Key headers are ignored")
	}

	// --- Dependencies ---
	books := postgres.NewBookRepository(db)
	checkouts := postgres.NewCheckoutRepository(db)
	users := postgres.NewUserRepository(db)

	e := api.NewRouter(api.Deps{
		Log:             log,
		JWTSecret:       cfg.JWTSecret,
		AuthService:     service.NewAuthService(users, cfg.JWTSecret, cfg.TokenTTL),
		BookService:     service.NewBookService(books, idem, log),
		CheckoutService: service.NewCheckoutService(books, checkouts, idem, log),
		UserService:     service.NewUserService(users),
		HealthChecks:    healthChecks,
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}
