package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
)

// serveMetricsCommand implements `apexls serve-metrics`: exposes
// internal/metrics's collectors over promhttp.Handler() on an
// operator-configured port (SPEC_FULL.md §7.4) — purely ambient
// observability, independent of the engine's own correctness.
func serveMetricsCommand(c *cli.Context) error {
	logger := newLogger(c.Bool("verbose"))
	addr := c.String("addr")

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("metrics server: %w", err)
	case sig := <-sigCh:
		logger.Info("shutting down metrics server", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

var serveMetricsFlags = []cli.Flag{
	&cli.StringFlag{Name: "addr", Usage: "Address to serve /metrics on", Value: ":9090"},
}
