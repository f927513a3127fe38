// Command legerd runs a small HTTP status/transfer surface in front of
// a single Provider connection, following the teacher's cmd/server
// graceful-shutdown shape.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fouge/leger-go/internal/config"
	"github.com/fouge/leger-go/internal/httpapi"
	"github.com/fouge/leger-go/internal/logging"
	"github.com/fouge/leger-go/internal/provider"
	"github.com/fouge/leger-go/internal/rpc"
	"github.com/fouge/leger-go/internal/transport"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		slog.Error("legerd error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logCloser, err := logging.Setup(cfg.LogLevel, cfg.LogDir)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	defer logCloser.Close()

	slog.Info("starting legerd",
		"version", version,
		"nodeAddr", cfg.NodeAddr,
		"httpPort", cfg.HTTPPort,
	)

	dialer := transport.NewDialer(cfg.ReadTimeout)
	session := rpc.New(dialer)

	var opts []provider.Option
	if cfg.MultiAddressDiscriminant {
		opts = append(opts, provider.WithMultiAddressDiscriminant())
	}
	opts = append(opts, provider.WithReconnectPolicy(cfg.ReconnectRPS, cfg.ReconnectFailThresh, cfg.ReconnectCooldown))

	p := provider.New(session, cfg.NodeAddr, opts...)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ReadTimeout*5)
	if err := p.Open(ctx); err != nil {
		cancel()
		return fmt.Errorf("failed to open provider connection: %w", err)
	}
	cancel()

	slog.Info("provider connected", "nodeAddr", cfg.NodeAddr)

	httpapi.Version = version
	router := httpapi.NewRouter(p)

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	slog.Info("initiating graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	closeCtx, closeCancel := context.WithTimeout(context.Background(), cfg.ReadTimeout)
	defer closeCancel()
	if err := p.Close(closeCtx); err != nil {
		slog.Warn("provider close error", "error", err)
	}

	slog.Info("legerd stopped gracefully")
	return nil
}
