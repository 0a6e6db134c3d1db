package repo

import (
	"os"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"gridwatch/internal/config"
	"gridwatch/internal/models"
)

func openRepoTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite db: %v", err)
	}

	return db
}

func chdirTemp(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("get working dir: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("change working dir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(cwd); err != nil {
			t.Fatalf("restore working dir: %v", err)
		}
	})

	return dir
}

func TestConnectEmptyDSN(t *testing.T) {
	if _, err := Connect(""); err == nil {
		t.Fatalf("Connect empty dsn: expected error")
	}
}

func TestMigrateNilDB(t *testing.T) {
	if err := Migrate(nil, config.Config{}); err == nil {
		t.Fatalf("Migrate nil db: expected error")
	}
}

func TestMigrateSeedsDefaultSources(t *testing.T) {
	chdirTemp(t)
	db := openRepoTestDB(t)

	cfg := config.Config{
		BaseReportURL: "http://mis.test",
		RealtimeURL:   "http://rt.test",
	}
	if err := Migrate(db, cfg); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	var sources []models.Source
	if err := db.Order("name").Find(&sources).Error; err != nil {
		t.Fatalf("load sources: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("sources = %d, want 2", len(sources))
	}
	if sources[0].Name != "mis" || sources[0].URL != "http://mis.test" {
		t.Fatalf("first source = %+v, want mis", sources[0])
	}
	if sources[1].Name != "realtime" || sources[1].URL != "http://rt.test" {
		t.Fatalf("second source = %+v, want realtime", sources[1])
	}
}

func TestMigratePrefersSourceConfigFile(t *testing.T) {
	dir := chdirTemp(t)
	db := openRepoTestDB(t)

	content := `{"sources":[{"name":"custom","url":"http://custom.test","comment":"override"}]}`
	if err := os.WriteFile(filepath.Join(dir, "sources.json"), []byte(content), 0644); err != nil {
		t.Fatalf("write sources.json: %v", err)
	}

	if err := Migrate(db, config.Config{}); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	var sources []models.Source
	if err := db.Find(&sources).Error; err != nil {
		t.Fatalf("load sources: %v", err)
	}
	if len(sources) != 1 {
		t.Fatalf("sources = %d, want 1", len(sources))
	}
	if sources[0].Name != "custom" {
		t.Fatalf("source name = %q, want custom", sources[0].Name)
	}
}

func TestMigrateKeepsExistingSources(t *testing.T) {
	chdirTemp(t)
	db := openRepoTestDB(t)

	if err := Migrate(db, config.Config{}); err != nil {
		t.Fatalf("first Migrate: %v", err)
	}
	if err := Migrate(db, config.Config{}); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}

	var count int64
	if err := db.Model(&models.Source{}).Count(&count).Error; err != nil {
		t.Fatalf("count sources: %v", err)
	}
	if count != 2 {
		t.Fatalf("sources = %d, want 2", count)
	}
}
