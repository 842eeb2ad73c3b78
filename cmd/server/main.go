package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/xpense/xpense/internal/auth"
	"github.com/xpense/xpense/internal/config"
	"github.com/xpense/xpense/internal/ledger"
	"github.com/xpense/xpense/internal/service"
	"github.com/xpense/xpense/internal/storage/sqlite"
	"github.com/xpense/xpense/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	secret := cfg.JWTSecret
	if secret == "" {
		// Ephemeral secret: tokens stop working on restart.
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			slog.Error("Failed to generate JWT secret", "error", err)
			os.Exit(1)
		}
		secret = hex.EncodeToString(buf)
		slog.Warn("JWT_SECRET not set, using an ephemeral secret")
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	jwtManager := auth.NewJWTManager(secret, cfg.TokenDuration)
	authenticator := auth.NewPasswordAuthenticator(store)
	ledg := ledger.New(store)

	router := service.NewRouter(store, ledg, authenticator, jwtManager)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Server starting", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
