package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load,
// e.g. ADBOARD_DATABASE_URL for database.url.
const EnvPrefix = "ADBOARD"

// defaults lists every configuration key together with its default value.
// Keys must be registered with viper so that AutomaticEnv can resolve them
// during Unmarshal, which is why required keys appear with empty values.
var defaults = map[string]any{
	"server.port":                     8080,
	"server.log_level":                "info",
	"server.cors_allowed_origins":     []string{"*"},
	"server.auth_rate_limit":          20,
	"server.shutdown_timeout_seconds": 15,

	"database.url":                       "",
	"database.max_open_conns":            25,
	"database.max_idle_conns":            25,
	"database.conn_max_lifetime_minutes": 5,

	"auth.jwt_secret":                     "",
	"auth.token_lifetime_minutes":         60,
	"auth.refresh_token_lifetime_minutes": 10080,
	"auth.bcrypt_cost":                    10,

	"images.backend":             "database",
	"images.max_bytes":           int64(10 << 20),
	"images.bucket":              "",
	"images.prefix":              "images/",
	"images.region":              "auto",
	"images.endpoint":            "",
	"images.access_key_id":       "",
	"images.secret_access_key":   "",
	"images.credentials_file":    "",
	"images.default_avatar_path": "",

	"comments.strict_ad_lookup": true,
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
