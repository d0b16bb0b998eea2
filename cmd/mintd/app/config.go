package app

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/mintbase/weave/errors"
	"github.com/mintbase/weave/market"
	"github.com/mintbase/weave/market/natsmarket"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/libs/log"
)

// EnvPrefix is prepended to every environment variable overriding a
// configuration value, ie. MINTD_NATS_URL.
const EnvPrefix = "MINTD"

// Config holds the node configuration.
type Config struct {
	// LogLevel is one of debug, info, error or none.
	LogLevel string `mapstructure:"log_level"`
	// DBPath is where the state is persisted. An empty path keeps the
	// state in memory.
	DBPath string `mapstructure:"db_path"`
	// Genesis is the genesis file loaded by the init command.
	Genesis string `mapstructure:"genesis"`
	// BlockSize is the number of calls executed before a commit.
	BlockSize int `mapstructure:"block_size"`
	// NATS configures the marketplace notifier. Listing is disabled
	// when no URL is set.
	NATS natsmarket.Config `mapstructure:"nats"`
}

// LoadConfig reads the configuration from configFile or, when empty,
// from config.yaml in the home directory. A missing default file is not
// an error. Environment variables take precedence over the file.
func LoadConfig(home, configFile string) (*Config, error) {
	v := viper.New()
	v.SetDefault("log_level", "info")
	v.SetDefault("db_path", filepath.Join(home, "mint.db"))
	v.SetDefault("genesis", filepath.Join(home, "genesis.json"))
	v.SetDefault("block_size", 100)
	v.SetDefault("nats.url", "")
	v.SetDefault("nats.subject_prefix", natsmarket.DefaultSubjectPrefix)
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.connection_name", Name)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(home)
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, errors.Wrapf(errors.ErrInput, "read config: %s", err)
		}
	}

	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "unmarshal config: %s", err)
	}
	if conf.BlockSize <= 0 {
		return nil, errors.Wrap(errors.ErrInput, "block_size must be positive")
	}
	return &conf, nil
}

// Logger returns a tendermint logger writing to w, filtered to the
// configured level. Results of exec and check go to stdout, so the node
// logs to stderr.
func Logger(conf Config, w io.Writer) (log.Logger, error) {
	logger := log.NewTMLogger(log.NewSyncWriter(w)).
		With("module", Name)
	if conf.LogLevel == "" {
		return logger, nil
	}
	opt, err := log.AllowLevel(conf.LogLevel)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "log level: %s", err)
	}
	return log.NewFilter(logger, opt), nil
}

// Closer releases the resources held by a notifier.
type Closer func()

// Notifier connects to the marketplace described by the configuration.
// It returns a nil notifier when no marketplace is configured.
func Notifier(conf Config, logger log.Logger) (market.Notifier, Closer, error) {
	if conf.NATS.URL == "" {
		logger.Info("No marketplace configured, listing is disabled")
		return nil, func() {}, nil
	}
	pub, err := natsmarket.Connect(conf.NATS, logger.With("module", "natsmarket"))
	if err != nil {
		return nil, nil, err
	}
	return pub, pub.Close, nil
}
