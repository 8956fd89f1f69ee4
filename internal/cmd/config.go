package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"chefdraft/internal/episodes"
)

// Config is the application configuration file. Connection secrets
// come from the environment; this file carries the season's rules and
// tunables.
type Config struct {
	Season  string           `yaml:"season"`
	Scoring episodes.Scoring `yaml:"scoring"`

	Outbox struct {
		PollInterval time.Duration `yaml:"poll_interval"`
		BatchSize    int32         `yaml:"batch_size"`
	} `yaml:"outbox"`

	NATS struct {
		URL           string `yaml:"url"`
		StreamName    string `yaml:"stream_name"`
		SubjectPrefix string `yaml:"subject_prefix"`
	} `yaml:"nats"`
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func loadConfig(path string) (*Config, error) {
	config := &Config{
		Season:  "22",
		Scoring: episodes.DefaultScoring(),
	}
	config.Outbox.PollInterval = 5 * time.Second
	config.Outbox.BatchSize = 100

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return config, nil
}
