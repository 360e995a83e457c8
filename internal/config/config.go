package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Database Database `mapstructure:"database"`
	Logger   Logger   `mapstructure:"logger"`
	Server   Server   `mapstructure:"server"`
	Ledger   Ledger   `mapstructure:"ledger"`
}

// Database holds the configuration for the database.
type Database struct {
	Driver string `mapstructure:"driver"` // "sqlite" or "postgres"
	DSN    string `mapstructure:"dsn"`
}

// Server holds the configuration for the query API server.
type Server struct {
	Port int `mapstructure:"port"`
}

// Ledger holds the configuration for ledger behaviour.
type Ledger struct {
	QueryLimit  int    `mapstructure:"query_limit"`
	EodSchedule string `mapstructure:"eod_schedule"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yml")    // or yaml, json

	// Allow environment variables to override config file
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("ledger.query_limit", 100)
	viper.SetDefault("ledger.eod_schedule", "5 0 * * *") // 00:05 UTC daily

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
