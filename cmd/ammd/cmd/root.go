package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/paw-chain/ammpool/app"
)

type configKey struct{}

// NewRootCmd creates the root command for ammd.
func NewRootCmd() *cobra.Command {
	v := newViper()

	rootCmd := &cobra.Command{
		Use:   "ammd",
		Short: "Constant-product AMM pool host",
		Long: `ammd hosts a single two-asset constant-product liquidity pool together with
the balance ledger it settles through. State is kept in a local database under
--home; every command runs as one atomic operation.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())

			cfg, err := loadConfig(v, cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(context.WithValue(ctx, configKey{}, cfg))
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.String(flagHome, DefaultHome, "directory for config and data")
	pf.String(flagDBBackend, "goleveldb", "database backend (goleveldb, memdb)")
	pf.String(flagLogLevel, "info", "log level (trace, debug, info, warn, error)")
	pf.String(flagLogFormat, "plain", "log format (plain, json)")
	pf.String(flagOTLPEndpoint, "", "OTLP/HTTP endpoint to export traces to; tracing is off when empty")
	pf.Float64(flagSampleRate, 1.0, "fraction of operations traced")

	rootCmd.AddCommand(
		InitCmd(),
		FundCmd(),
		AddLiquidityCmd(),
		RemoveLiquidityCmd(),
		SwapCmd(),
		QuoteCmd(),
		QueryCmd(),
		CheckInvariantsCmd(),
		ExportCmd(),
		ImportGenesisCmd(),
		ServeMetricsCmd(),
	)
	return rootCmd
}

func configFromCmd(cmd *cobra.Command) Config {
	cfg, ok := cmd.Context().Value(configKey{}).(Config)
	if !ok {
		panic("ammd: command run without config")
	}
	return cfg
}

func newLogger(cmd *cobra.Command, cfg Config) (log.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", flagLogLevel, err)
	}
	opts := []log.Option{log.LevelOption(level)}
	if cfg.LogFormat == "json" {
		opts = append(opts, log.OutputJSONOption())
	}
	return log.NewLogger(cmd.ErrOrStderr(), opts...), nil
}

// withApp opens the host under the configured home, runs fn and closes it.
func withApp(cmd *cobra.Command, fn func(a *app.App) error) (err error) {
	cfg := configFromCmd(cmd)
	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}

	tel, err := app.InitTelemetry(app.TelemetryConfig{
		OTLPEndpoint: cfg.OTLPEndpoint,
		SampleRate:   cfg.SampleRate,
	})
	if err != nil {
		return err
	}
	defer func() {
		if shutdownErr := tel.Shutdown(context.Background()); shutdownErr != nil && err == nil {
			err = shutdownErr
		}
	}()

	db, err := app.OpenDB(cfg.Home, cfg.DBBackend)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	a, err := app.New(logger, db)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return fn(a)
}

func printJSON(cmd *cobra.Command, v any) error {
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
	return err
}
