package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	configDir  = ".nebuloviz"
	envPrefix  = "NEBULOVIZ"

	DefaultBaseURL  = "http://127.0.0.1:8000"
	DefaultBasePath = "/api/v1"
	DefaultTimeout  = 5 * time.Second

	SessionBackendFile = "file"
	SessionBackendPass = "pass"
)

// Config holds all application configuration
type Config struct {
	API     APIConfig
	Session SessionConfig
	Cache   CacheConfig
	Log     LogConfig
	Metrics MetricsConfig
}

type APIConfig struct {
	BaseURL  string        `mapstructure:"base_url" validate:"required,url"`
	BasePath string        `mapstructure:"base_path" validate:"required,startswith=/"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// SessionConfig selects where the credential lives. The "pass" backend keeps it
// in the pass password store and falls back to Path when pass is unusable.
type SessionConfig struct {
	Path      string `mapstructure:"path" validate:"required"`
	Backend   string `mapstructure:"backend" validate:"omitempty,oneof=file pass"`
	PassEntry string `mapstructure:"pass_entry"`
}

type CacheConfig struct {
	Retention time.Duration `mapstructure:"retention" validate:"gte=0"`
	StaleTime time.Duration `mapstructure:"stale_time" validate:"gte=0"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn warning error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
	Output string `mapstructure:"output"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr" validate:"omitempty,hostname_port"`
}

// Load reads ~/.nebuloviz/config.toml when present, applies NEBULOVIZ_* env
// overrides and validates the result. The viper instance is returned so adapters
// that resolve their own keys share the same view.
func Load(v *viper.Viper) (Config, *viper.Viper, error) {
	if v == nil {
		v = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Config{}, nil, fmt.Errorf("resolve home directory: %w", err)
	}
	root := filepath.Join(homeDir, configDir)

	setDefaults(v, root)

	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(root)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")

	if err := Validate(cfg); err != nil {
		return Config{}, nil, err
	}

	return cfg, v, nil
}

func setDefaults(v *viper.Viper, root string) {
	v.SetDefault("api.base_url", DefaultBaseURL)
	v.SetDefault("api.base_path", DefaultBasePath)
	v.SetDefault("api.timeout", DefaultTimeout)
	v.SetDefault("session.path", filepath.Join(root, "session.toml"))
	v.SetDefault("session.backend", SessionBackendFile)
	v.SetDefault("session.pass_entry", "nebuloviz/session")
	v.SetDefault("cache.retention", 5*time.Minute)
	v.SetDefault("cache.stale_time", time.Duration(0))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", filepath.Join(root, "nebuloviz.log"))
	v.SetDefault("metrics.addr", "")
}

func Validate(cfg Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) {
			fields := make([]string, 0, len(invalid))
			for _, fieldErr := range invalid {
				fields = append(fields, fmt.Sprintf("%s (%s)", fieldErr.Namespace(), fieldErr.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}
