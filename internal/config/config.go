package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full application configuration, loaded once in main and
// passed down explicitly.
type Config struct {
	Server struct {
		Host string `mapstructure:"host"`
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`

	Database struct {
		Driver string `mapstructure:"driver"` // "postgres" | "mysql" | "sqlite"
		DSN    string `mapstructure:"dsn"`
	} `mapstructure:"database"`

	JWT struct {
		Secret string        `mapstructure:"secret"`
		TTL    time.Duration `mapstructure:"ttl"`
	} `mapstructure:"jwt"`

	CORS struct {
		Origins []string `mapstructure:"origins"`
	} `mapstructure:"cors"`

	Logging struct {
		Level  string `mapstructure:"level"`  // trace|debug|info|warning|error|fatal
		Format string `mapstructure:"format"` // text|json
	} `mapstructure:"logs"`

	Sweeper struct {
		Enabled     bool          `mapstructure:"enabled"`
		Interval    time.Duration `mapstructure:"interval"`
		NoShowGrace time.Duration `mapstructure:"no_show_grace"`
	} `mapstructure:"sweeper"`

	Webhook struct {
		URL string `mapstructure:"url"`
	} `mapstructure:"webhook"`
}

// Load reads configuration from an optional config file and the
// environment, with working defaults for everything except the JWT
// secret and the database DSN.
func Load() (*Config, error) {
	v := viper.New()

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "3000")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.dsn", "")

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.ttl", 168*time.Hour)

	v.SetDefault("cors.origins", []string{
		"http://localhost:3000",
		"http://localhost:5173",
	})

	v.SetDefault("logs.level", "info")
	v.SetDefault("logs.format", "text")

	v.SetDefault("sweeper.enabled", true)
	v.SetDefault("sweeper.interval", time.Minute)
	v.SetDefault("sweeper.no_show_grace", 30*time.Minute)

	v.SetDefault("webhook.url", "")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/ladle")

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return nil, fmt.Errorf("config read error: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal error: %w", err)
	}

	if cfg.JWT.Secret == "" {
		return nil, errors.New("jwt.secret (JWT_SECRET) is required")
	}

	if cfg.Database.DSN == "" && cfg.Database.Driver != "sqlite" {
		return nil, errors.New("database.dsn (DATABASE_DSN) is required")
	}

	return &cfg, nil
}
