// Command social-server starts the social API HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/social-api/internal/config"
	"github.com/and161185/social-api/internal/crypto"
	"github.com/and161185/social-api/internal/migrate"
	"github.com/and161185/social-api/internal/repository"
	"github.com/and161185/social-api/internal/repository/postgres"
	"github.com/and161185/social-api/internal/repository/sqlite"
	httpserver "github.com/and161185/social-api/internal/server/http"
	"github.com/and161185/social-api/internal/service"
	"github.com/and161185/social-api/internal/token"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

type store struct {
	users repository.UserRepository
	posts repository.PostRepository
	likes repository.LikeRepository
	ping  httpserver.Pinger
	close func()
}

// openStore migrates and opens the configured database.
func openStore(ctx context.Context, cfg config.DatabaseConfig) (*store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := sqlite.New(ctx, cfg.Name)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return &store{
			users: sqlite.NewUserRepo(db),
			posts: sqlite.NewPostRepo(db),
			likes: sqlite.NewLikeRepo(db),
			ping:  db,
			close: db.Close,
		}, nil
	default:
		dsn := cfg.DSN()
		if err := migrate.Up(ctx, dsn); err != nil {
			return nil, fmt.Errorf("migrate up: %w", err)
		}
		db, err := postgres.New(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return &store{
			users: postgres.NewUserRepo(db),
			posts: postgres.NewPostRepo(db),
			likes: postgres.NewLikeRepo(db),
			ping:  db,
			close: db.Close,
		}, nil
	}
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// main loads configuration, opens the store and serves HTTP until SIGINT/SIGTERM.
func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := newLogger(cfg.Server.IsDevelopment())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.Server.Addr),
		zap.String("db", cfg.Database.Driver),
	)

	hasher, err := crypto.NewHasher(cfg.Auth.BcryptCost)
	if err != nil {
		logger.Fatal("password hasher", zap.Error(err))
	}
	tokens, err := token.NewManager(cfg.Auth.SecretKey, cfg.Auth.Algorithm, cfg.Auth.AccessTTL)
	if err != nil {
		logger.Fatal("token manager", zap.Error(err))
	}

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("open store", zap.Error(err))
	}
	defer st.close()

	authSvc, err := service.NewAuthService(st.users, hasher, tokens)
	if err != nil {
		logger.Fatal("auth service", zap.Error(err))
	}

	api := httpserver.New(httpserver.Services{
		Auth:  authSvc,
		Users: service.NewUserService(st.users, hasher),
		Posts: service.NewPostService(st.posts),
		Likes: service.NewLikeService(st.posts, st.likes),
		Store: st.ping,
	}, logger, cfg.Server.CORSOrigins)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Server.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown", zap.Error(err))
			_ = srv.Close()
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			st.close()
			os.Exit(1)
		}
	}

	logger.Info("shutdown complete")
}
