package config

import (
	"encoding/json"
	"fmt"
	"os"
)

type SourceConfig struct {
	Sources []SourceEntry `json:"sources"`
}

type SourceEntry struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Comment string `json:"comment"`
}

func LoadSourceConfig(path string) (SourceConfig, error) {
	if path == "" {
		return SourceConfig{}, fmt.Errorf("source config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return SourceConfig{}, fmt.Errorf("read source config: %w", err)
	}

	var cfg SourceConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return SourceConfig{}, fmt.Errorf("parse source config: %w", err)
	}

	if len(cfg.Sources) == 0 {
		return SourceConfig{}, fmt.Errorf("sources are required")
	}
	for _, source := range cfg.Sources {
		if source.Name == "" {
			return SourceConfig{}, fmt.Errorf("source name is required")
		}
		if source.URL == "" {
			return SourceConfig{}, fmt.Errorf("source url is required")
		}
	}

	return cfg, nil
}
