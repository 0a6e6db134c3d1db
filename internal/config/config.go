package config

import (
	"encoding/json"
	"fmt"
	"os"
)

const (
	DefaultBaseReportURL = "http://mis.ercot.com"
	DefaultRealtimeURL   = "http://www.ercot.com/content/cdr/html/real_time_system_conditions.html"
)

type Config struct {
	DBDSN         string `json:"db_dsn"`
	BaseReportURL string `json:"base_report_url"`
	RealtimeURL   string `json:"realtime_url"`
}

func Load(path string) (Config, error) {
	if path == "" {
		return Config{}, fmt.Errorf("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if cfg.DBDSN == "" {
		return Config{}, fmt.Errorf("db_dsn is required")
	}
	if cfg.BaseReportURL == "" {
		cfg.BaseReportURL = DefaultBaseReportURL
	}
	if cfg.RealtimeURL == "" {
		cfg.RealtimeURL = DefaultRealtimeURL
	}

	return cfg, nil
}
