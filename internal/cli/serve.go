package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/ppiankov/claimroute/internal/metrics"
	"github.com/ppiankov/claimroute/internal/pipeline"
	"github.com/ppiankov/claimroute/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	serveAddr       string
	shutdownTimeout time.Duration
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP intake API",
	Long: `Serve exposes the routing pipeline over HTTP:
  POST /api/v1/claims   {"text": "...", "fastTrackThreshold": 25000}
  GET  /health
  GET  /metrics         Prometheus metrics

Example:
  claimroute serve
  claimroute serve --addr 0.0.0.0:9090`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	serveCmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 10*time.Second, "graceful shutdown timeout")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := appConfig
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	m := metrics.New(true)
	p, err := pipeline.NewFromConfig(cfg, logger, m)
	if err != nil {
		return err
	}

	srv, err := server.New(p, cfg.Routing, cfg.Server, m, logger.Named("server"))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("intake server listening", zap.String("addr", cfg.Server.Addr))
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down intake server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
