package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Driver names accepted for storage.driver.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is the full runtime configuration. Values come from defaults, an
// optional config.yaml in the working directory, and SCRAWL_-prefixed
// environment variables, in increasing precedence.
type Config struct {
	Addr    string        `mapstructure:"addr"`
	Storage StorageConfig `mapstructure:"storage"`
	Log     LogConfig     `mapstructure:"log"`
	CORS    CORSConfig    `mapstructure:"cors"`
}

type StorageConfig struct {
	// Driver selects the note store: memory, sqlite or postgres.
	Driver string `mapstructure:"driver"`
	// DSN is the sqlite file path or the postgres connection URL.
	DSN string `mapstructure:"dsn"`
	// Seed pre-populates a fresh memory store with the welcome notes.
	Seed bool `mapstructure:"seed"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type CORSConfig struct {
	Origin string `mapstructure:"origin"`
}

func Load() (*Config, error) {
	viper.SetDefault("addr", ":8080")
	viper.SetDefault("storage.driver", DriverMemory)
	viper.SetDefault("storage.dsn", "scrawl.db")
	viper.SetDefault("storage.seed", true)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("cors.origin", "*")

	viper.SetEnvPrefix("SCRAWL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	// A missing config file is fine; defaults and environment cover it.
	_ = viper.ReadInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
