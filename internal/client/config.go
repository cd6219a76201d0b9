package client

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultAPIURL         = "http://localhost:3001"
	DefaultRequestTimeout = 10 * time.Second
)

// Config holds terminal client settings.
type Config struct {
	// APIURL is the server root, without the /api/todos suffix.
	APIURL string `mapstructure:"api_url" yaml:"api_url"`

	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`

	// LogFile receives debug logs; empty disables logging.
	LogFile string `mapstructure:"log_file" yaml:"log_file"`
}

// DefaultConfigPath returns ~/.config/todo/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "todo", "config.yaml")
}

// LoadConfig merges, lowest first: defaults, the YAML file at path,
// TODO_* environment variables, then any flags that were set.
// A missing file is not an error.
func LoadConfig(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("api_url", DefaultAPIURL)
	v.SetDefault("request_timeout", DefaultRequestTimeout)
	v.SetDefault("log_file", "")

	v.SetEnvPrefix("todo")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if f := flags.Lookup("api-url"); f != nil {
			if err := v.BindPFlag("api_url", f); err != nil {
				return nil, fmt.Errorf("binding api-url flag: %w", err)
			}
		}
		if f := flags.Lookup("log-file"); f != nil {
			if err := v.BindPFlag("log_file", f); err != nil {
				return nil, fmt.Errorf("binding log-file flag: %w", err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	return cfg, nil
}
