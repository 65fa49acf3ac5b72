package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	envPrefix      = "AMMD"
	configFileName = "ammd"

	flagHome         = "home"
	flagDBBackend    = "db-backend"
	flagLogLevel     = "log-level"
	flagLogFormat    = "log-format"
	flagFeeBps       = "fee-bps"
	flagMetricsAddr  = "metrics-addr"
	flagOTLPEndpoint = "otlp-endpoint"
	flagSampleRate   = "trace-sample-rate"

	defaultFeeBps      = 30
	defaultMetricsAddr = ":36660"
)

// DefaultHome is the default home directory of ammd.
var DefaultHome = func() string {
	userHome, err := os.UserHomeDir()
	if err != nil {
		return ".ammd"
	}
	return filepath.Join(userHome, ".ammd")
}()

// Config is the resolved host configuration. Values come from, in increasing
// priority, defaults, $HOME/config/ammd.toml, AMMD_* environment variables
// and command line flags.
type Config struct {
	Home         string
	DBBackend    string
	LogLevel     string
	LogFormat    string
	FeeBps       uint32
	MetricsAddr  string
	OTLPEndpoint string
	SampleRate   float64
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(flagHome, DefaultHome)
	v.SetDefault(flagDBBackend, "goleveldb")
	v.SetDefault(flagLogLevel, "info")
	v.SetDefault(flagLogFormat, "plain")
	v.SetDefault(flagFeeBps, defaultFeeBps)
	v.SetDefault(flagMetricsAddr, defaultMetricsAddr)
	v.SetDefault(flagSampleRate, 1.0)
	return v
}

// loadConfig binds the command's flags and reads the config file under home.
// A missing config file is not an error.
func loadConfig(v *viper.Viper, cmd *cobra.Command) (Config, error) {
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return Config{}, err
	}

	home := v.GetString(flagHome)
	v.SetConfigName(configFileName)
	v.SetConfigType("toml")
	v.AddConfigPath(filepath.Join(home, "config"))
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	feeBps, err := cast.ToUint32E(v.Get(flagFeeBps))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", flagFeeBps, err)
	}
	sampleRate, err := cast.ToFloat64E(v.Get(flagSampleRate))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", flagSampleRate, err)
	}

	return Config{
		Home:         home,
		DBBackend:    cast.ToString(v.Get(flagDBBackend)),
		LogLevel:     cast.ToString(v.Get(flagLogLevel)),
		LogFormat:    cast.ToString(v.Get(flagLogFormat)),
		FeeBps:       feeBps,
		MetricsAddr:  cast.ToString(v.Get(flagMetricsAddr)),
		OTLPEndpoint: cast.ToString(v.Get(flagOTLPEndpoint)),
		SampleRate:   sampleRate,
	}, nil
}

// writeDefaultConfig writes cfg to $HOME/config/ammd.toml unless the file
// already exists.
func writeDefaultConfig(cfg Config) (string, error) {
	dir := filepath.Join(cfg.Home, "config")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, configFileName+".toml")

	v := viper.New()
	v.Set(flagDBBackend, cfg.DBBackend)
	v.Set(flagLogLevel, cfg.LogLevel)
	v.Set(flagLogFormat, cfg.LogFormat)
	v.Set(flagFeeBps, cfg.FeeBps)
	v.Set(flagMetricsAddr, cfg.MetricsAddr)
	v.Set(flagSampleRate, cfg.SampleRate)
	if cfg.OTLPEndpoint != "" {
		v.Set(flagOTLPEndpoint, cfg.OTLPEndpoint)
	}
	if err := v.SafeWriteConfigAs(path); err != nil {
		var exists viper.ConfigFileAlreadyExistsError
		if errors.As(err, &exists) {
			return path, nil
		}
		return "", err
	}
	return path, nil
}
