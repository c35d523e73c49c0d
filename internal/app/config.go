package app

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type HeaderConfig struct {
	Name  string `toml:"name"`
	Value string `toml:"value"`
}

type Config struct {
	Server struct {
		Port       string `toml:"port"`
		EnableAuth bool   `toml:"enable_auth"`
		BaseURL    string `toml:"base_url"`
	} `toml:"server"`

	Auth struct {
		RedisURL         string `toml:"redis_url"`
		TokenHeader      string `toml:"token_header"`
		TokenKeyTemplate string `toml:"token_key_template"`
	} `toml:"auth"`

	API struct {
		LecturerIDHeader string         `toml:"lecturer_id_header"`
		RequiredHeaders  []HeaderConfig `toml:"required_headers"`
	} `toml:"api"`

	Database struct {
		DSN           string `toml:"dsn"`
		MigrationsDir string `toml:"migrations_dir"`
	} `toml:"database"`

	Display struct {
		TimestampFormat string `toml:"timestamp_format"`
	} `toml:"display"`

	Attendance struct {
		LateAfterMinutes  int  `toml:"late_after_minutes"`
		EnforceTimeWindow bool `toml:"enforce_time_window"`
	} `toml:"attendance"`

	Export struct {
		Dir      string `toml:"dir"`
		Schedule string `toml:"schedule"`
	} `toml:"export"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf(
			"error reading config file %s\n> Error: %w\n> Content:\n%s",
			path,
			err,
			string(data),
		)
	}

	if config.Server.Port == "" {
		return nil, fmt.Errorf("Server port is not specified in config, use a value like :8080")
	}
	if config.Attendance.LateAfterMinutes == 0 {
		config.Attendance.LateAfterMinutes = 15
	}

	return &config, nil
}
