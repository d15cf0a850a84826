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

	"github.com/aretw0/pipewright"
	"github.com/aretw0/pipewright/internal/presentation/tui"
	httpAdapter "github.com/aretw0/pipewright/pkg/adapters/http"
	"github.com/aretw0/pipewright/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Starts the document API over HTTP, with the OpenAPI description and Prometheus metrics.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = cfg.Server.Addr
		}
		quiet, _ := cmd.Flags().GetBool("quiet")
		if !quiet {
			tui.FprintBanner(cmd.ErrOrStderr())
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServe(ctx, addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "address to listen on (default from config, :8080)")
	serveCmd.Flags().BoolP("quiet", "q", false, "do not print the banner")
}

func runServe(ctx context.Context, addr string) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)

	engine, closeStore, err := newEngine(ctx, cfg, logger, pipewright.WithMetrics(metrics))
	if err != nil {
		return err
	}
	defer closeStore()

	srv := &http.Server{
		Addr: addr,
		Handler: httpAdapter.NewHandler(engine,
			httpAdapter.WithLogger(logger),
			httpAdapter.WithGatherer(registry),
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		logger.Info("starting pipewright server", "addr", srv.Addr, "backend", cfg.Store.Backend)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		logger.Info("shutting down")

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown did not complete", "timeout", 5*time.Second, "err", err)
			return srv.Close()
		}
		logger.Info("pipewright server stopped gracefully")
		return nil
	}
}
