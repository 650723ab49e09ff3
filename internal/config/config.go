package config

import (
	"time"

	"github.com/ebdruplab/semactl/internal/log"
)

const (
	ReporterTypeText = "text"
	ReporterTypeJSON = "json"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server" validate:"required"`
	Settings SettingsConfig `mapstructure:"settings" yaml:"settings"`
}

// ServerConfig is the connection block. Exactly one of api_token or the
// username/password pair must be provided.
type ServerConfig struct {
	Host               string        `mapstructure:"host" yaml:"host" validate:"required"`
	Port               int           `mapstructure:"port" yaml:"port" validate:"gte=0,lte=65535"`
	InsecureSkipVerify bool          `mapstructure:"insecure_skip_verify" yaml:"insecure_skip_verify"`
	Timeout            time.Duration `mapstructure:"timeout" yaml:"timeout"`
	RequestsPerSecond  int           `mapstructure:"requests_per_second" yaml:"requests_per_second" validate:"gte=0"`
	APIToken           string        `mapstructure:"api_token" yaml:"api_token"`
	Username           string        `mapstructure:"username" yaml:"username"`
	Password           string        `mapstructure:"password" yaml:"password"`
}

type SettingsConfig struct {
	LogLevel     log.Level  `mapstructure:"log_level" yaml:"log_level"`
	LogFormat    log.Format `mapstructure:"log_format" yaml:"log_format"`
	ReporterType string     `mapstructure:"reporter" yaml:"reporter" validate:"omitempty,oneof=text json"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "http://localhost",
			Port:    3000,
			Timeout: 30 * time.Second,
		},
		Settings: SettingsConfig{
			LogLevel:     log.LevelInfo,
			LogFormat:    log.FormatText,
			ReporterType: ReporterTypeText,
		},
	}
}
