package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	SRS      SRSConfig      `mapstructure:"srs"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	// Path is the sqlite database file, or ":memory:" for an ephemeral store.
	Path string `mapstructure:"path" validate:"required"`
}

// SRSConfig overrides scheduling parameters. Zero values keep the defaults.
type SRSConfig struct {
	LapseRetryMinutes  int `mapstructure:"lapse_retry_minutes" validate:"gte=0"`
	FirstIntervalDays  int `mapstructure:"first_interval_days" validate:"gte=0"`
	SecondIntervalDays int `mapstructure:"second_interval_days" validate:"gte=0"`
}
