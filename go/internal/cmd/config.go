package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mcdev12/kiosk/go/clients/attendance_client"
	"github.com/mcdev12/kiosk/go/internal/kiosk"
)

type Config struct {
	Port string `yaml:"port"`

	Backend struct {
		URL     string        `yaml:"url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"backend"`

	Kiosk struct {
		PollInterval   time.Duration `yaml:"poll_interval"`
		PhotoHideDelay time.Duration `yaml:"photo_hide_delay"`
	} `yaml:"kiosk"`

	Sound struct {
		Enabled bool    `yaml:"enabled"`
		Volume  float64 `yaml:"volume"`
	} `yaml:"sound"`

	Events struct {
		NATSURL       string `yaml:"nats_url"`
		SubjectPrefix string `yaml:"subject_prefix"`
	} `yaml:"events"`
}

func defaultConfig() *Config {
	var config Config
	config.Port = "8080"
	config.Backend.URL = attendance_client.DefaultBaseURL
	config.Backend.Timeout = 10 * time.Second
	config.Kiosk.PollInterval = kiosk.DefaultPollInterval
	config.Kiosk.PhotoHideDelay = kiosk.DefaultPhotoHideDelay
	config.Sound.Enabled = true
	config.Sound.Volume = 0.3
	config.Events.SubjectPrefix = "kiosk.events"
	return &config
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// loadConfig reads the YAML file at path over the defaults, then applies environment
// overrides. A missing file is not an error.
func loadConfig(path string) (*Config, error) {
	config := defaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	config.Port = getEnv("KIOSK_PORT", config.Port)
	config.Backend.URL = getEnv("BACKEND_URL", config.Backend.URL)
	config.Events.NATSURL = getEnv("NATS_URL", config.Events.NATSURL)

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	if c.Kiosk.PollInterval <= 0 {
		return fmt.Errorf("kiosk.poll_interval must be positive, got %s", c.Kiosk.PollInterval)
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("backend.timeout must be positive, got %s", c.Backend.Timeout)
	}
	if c.Sound.Volume < 0 || c.Sound.Volume > 1 {
		return fmt.Errorf("sound.volume must be within [0, 1], got %v", c.Sound.Volume)
	}
	return nil
}
