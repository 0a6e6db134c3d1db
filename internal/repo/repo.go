package repo

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gridwatch/internal/config"
	"gridwatch/internal/models"
)

const defaultSourceConfigPath = "sources.json"

func Connect(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("dsn is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB, cfg config.Config) error {
	if db == nil {
		return errors.New("db is nil")
	}

	if err := db.AutoMigrate(&models.Source{}, &models.Log{}, &models.GenerationPoint{}, &models.LoadPoint{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if err := ensureDefaultSources(db, cfg); err != nil {
		return fmt.Errorf("ensure default sources: %w", err)
	}

	return nil
}

// ensureDefaultSources seeds the sources table on first run, preferring a
// sources.json file next to the binary and falling back to the configured
// provider endpoints.
func ensureDefaultSources(db *gorm.DB, cfg config.Config) error {
	if db == nil {
		return errors.New("db is nil")
	}

	var count int64
	if err := db.Model(&models.Source{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count sources: %w", err)
	}
	if count > 0 {
		return nil
	}

	entries, err := defaultSourceEntries(cfg)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		source := models.Source{
			ID:   uuid.NewString(),
			Name: entry.Name,
			URL:  entry.URL,
		}
		if entry.Comment != "" {
			comment := entry.Comment
			source.Comment = &comment
		}
		if err := db.Create(&source).Error; err != nil {
			return fmt.Errorf("create default source %s: %w", entry.Name, err)
		}
	}

	return nil
}

func defaultSourceEntries(cfg config.Config) ([]config.SourceEntry, error) {
	sourceCfg, err := config.LoadSourceConfig(defaultSourceConfigPath)
	if err == nil {
		return sourceCfg.Sources, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	baseURL := cfg.BaseReportURL
	if baseURL == "" {
		baseURL = config.DefaultBaseReportURL
	}
	realtimeURL := cfg.RealtimeURL
	if realtimeURL == "" {
		realtimeURL = config.DefaultRealtimeURL
	}

	return []config.SourceEntry{
		{Name: "mis", URL: baseURL, Comment: "report index"},
		{Name: "realtime", URL: realtimeURL, Comment: "real-time system conditions"},
	}, nil
}
