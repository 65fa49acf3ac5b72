package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/paw-chain/ammpool/app"
	"github.com/paw-chain/ammpool/x/amm/types"
)

const flagRefresh = "refresh"

// ServeMetricsCmd serves the pool metrics for Prometheus.
func ServeMetricsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve-metrics",
		Short: "Serve pool metrics for Prometheus on /metrics",
		Long: `Serve Prometheus metrics and a /health endpoint on --metrics-addr until
interrupted. The reserve and share gauges are refreshed from the store every
--refresh interval.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := configFromCmd(cmd)
			refresh, err := cmd.Flags().GetDuration(flagRefresh)
			if err != nil {
				return err
			}
			if refresh <= 0 {
				return fmt.Errorf("%s must be positive", flagRefresh)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			tel, err := app.InitTelemetry(app.TelemetryConfig{PrometheusEnabled: true})
			if err != nil {
				return err
			}
			defer tel.Shutdown(context.Background()) //nolint:errcheck

			return withApp(cmd, func(a *app.App) error {
				return serveMetrics(ctx, cmd, a, cfg.MetricsAddr, refresh)
			})
		},
	}
	cmd.Flags().String(flagMetricsAddr, defaultMetricsAddr, "listen address for /metrics")
	cmd.Flags().Duration(flagRefresh, 15*time.Second, "interval between gauge refreshes")
	return cmd
}

func serveMetrics(ctx context.Context, cmd *cobra.Command, a *app.App, addr string, refresh time.Duration) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/health", healthHandler(a))

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()
	fmt.Fprintf(cmd.ErrOrStderr(), "serving metrics on %s/metrics\n", addr)

	ticker := time.NewTicker(refresh)
	defer ticker.Stop()
	refreshGauges(cmd, a)
	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case err, ok := <-serveErr:
			if ok {
				return err
			}
			return nil
		case <-ticker.C:
			refreshGauges(cmd, a)
		}
	}
}

func refreshGauges(cmd *cobra.Command, a *app.App) {
	err := a.Query(func(ctx sdk.Context) error {
		return a.AMMKeeper.RefreshGauges(ctx)
	})
	if err != nil && !errors.Is(err, types.ErrNotInitialized) {
		fmt.Fprintf(cmd.ErrOrStderr(), "refresh gauges: %v\n", err)
	}
	broken := a.CheckInvariants()
	invariantsBroken.Set(float64(len(broken)))
	for _, msg := range broken {
		fmt.Fprintln(cmd.ErrOrStderr(), msg)
	}
}
