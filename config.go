package tcdynamodb

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of the environment variables read by LoadConfig,
// e.g. DYNAMODB_LOCAL_IMAGE or DYNAMODB_LOCAL_REUSE.
const EnvPrefix = "DYNAMODB_LOCAL"

// Config holds the container settings that can be provided through the environment
// or a dynamodb-local.yaml file.
type Config struct {
	Image          string        `mapstructure:"image"`
	Reuse          bool          `mapstructure:"reuse"`
	ReuseName      string        `mapstructure:"reuse_name"`
	Reset          bool          `mapstructure:"reset"`
	StartupTimeout time.Duration `mapstructure:"startup_timeout"`
	LogLevel       string        `mapstructure:"log_level"`
	LogFormat      string        `mapstructure:"log_format"`
}

// LoadConfig reads the configuration from environment variables and an optional
// dynamodb-local.yaml file in the working directory or its parent. Missing values
// fall back to the defaults.
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetConfigName("dynamodb-local")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("..")

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("image", DefaultImage)
	v.SetDefault("reuse", false)
	v.SetDefault("reuse_name", DefaultReuseName)
	v.SetDefault("reset", true)
	v.SetDefault("startup_timeout", DefaultStartupTimeout)
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "text")
}

// Logger creates a logger honoring the configured level and format.
// Unknown levels fall back to warn.
func (c *Config) Logger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.WarnLevel
	}
	logger.SetLevel(level)

	if c.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger
}
