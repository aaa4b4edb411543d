// Package configpkg provides parsing functionality for environment variables.
package configpkg

import (
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
//
// The values are read by viper from a config file or environment variables.
type Config struct {
	DBDriver          string        `mapstructure:"DB_DRIVER"`
	DBSource          string        `mapstructure:"DB_SOURCE"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBConnMaxLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME"`
	MigrationURL      string        `mapstructure:"MIGRATION_URL"`
	ServerAddress     string        `mapstructure:"SERVER_ADDRESS"`
	Environment       string        `mapstructure:"GO_ENV"`
	AuthorizerURL     string        `mapstructure:"AUTHORIZER_URL"`
	AuthorizerTimeout time.Duration `mapstructure:"AUTHORIZER_TIMEOUT"`
	NotifierURL       string        `mapstructure:"NOTIFIER_URL"`
	NotifierTimeout   time.Duration `mapstructure:"NOTIFIER_TIMEOUT"`
}

const (
	defaultServerAddress     = "0.0.0.0:8080"
	defaultMaxOpenConns      = 25
	defaultMaxIdleConns      = 25
	defaultConnMaxLifetime   = 5 * time.Minute
	defaultAuthorizerTimeout = 3 * time.Second
	defaultNotifierTimeout   = 3 * time.Second
)

// Load reads configuration from file or environment variables.
//
// Environment variables take precedence over the app.env file found in path.
func Load(path string) (Config, error) {
	var c Config

	v := viper.New()

	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	v.SetDefault("SERVER_ADDRESS", defaultServerAddress)
	v.SetDefault("DB_MAX_OPEN_CONNS", defaultMaxOpenConns)
	v.SetDefault("DB_MAX_IDLE_CONNS", defaultMaxIdleConns)
	v.SetDefault("DB_CONN_MAX_LIFETIME", defaultConnMaxLifetime)
	v.SetDefault("AUTHORIZER_TIMEOUT", defaultAuthorizerTimeout)
	v.SetDefault("NOTIFIER_TIMEOUT", defaultNotifierTimeout)

	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		return c, err
	}

	err = v.Unmarshal(&c)
	if err != nil {
		return c, err
	}

	return c, nil
}
