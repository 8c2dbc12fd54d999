package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/wesleyorama2/courier/http"
	"github.com/wesleyorama2/courier/reachability"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "COURIER"

// Config holds the runtime settings of the command-line client.
type Config struct {
	Timeout      time.Duration `mapstructure:"timeout"`
	LogLevel     string        `mapstructure:"log_level"`
	LogFormat    string        `mapstructure:"log_format"`
	Transport    string        `mapstructure:"transport"`
	ProbeAddress string        `mapstructure:"probe_address"`
	Offline      bool          `mapstructure:"offline"`
	NoColor      bool          `mapstructure:"no_color"`
	Verbose      bool          `mapstructure:"verbose"`
	Output       string        `mapstructure:"output"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("timeout", http.DefaultTimeout)
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "console")
	v.SetDefault("transport", TransportNet)
	v.SetDefault("probe_address", reachability.DefaultProbeAddress)
	v.SetDefault("offline", false)
	v.SetDefault("no_color", false)
	v.SetDefault("verbose", false)
	v.SetDefault("output", OutputText)
}

// Load reads settings into a Config. Later sources override earlier ones:
// defaults, the optional config file, then COURIER_* environment variables
// (a .env file in the working directory is loaded first) and finally any
// flags already bound to v.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	_ = godotenv.Load()

	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.Transport = strings.ToLower(cfg.Transport)
	cfg.Output = strings.ToLower(cfg.Output)

	if errs := ValidateConfig(&cfg); len(errs) > 0 {
		return nil, fmt.Errorf("invalid config: %w", errs)
	}

	return &cfg, nil
}
