package services

import (
	"context"
	"fmt"
	"net/url"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"gridwatch/internal/models"
)

type loggedEntry struct {
	eventID *string
	action  string
	outcome string
	message *string
}

type stubLogWriter struct {
	entries []loggedEntry
}

func (s *stubLogWriter) CreateLog(ctx context.Context, eventID *string, action string, outcome string, message *string) error {
	var copied *string
	if message != nil {
		value := *message
		copied = &value
	}

	s.entries = append(s.entries, loggedEntry{
		eventID: eventID,
		action:  action,
		outcome: outcome,
		message: copied,
	})
	return nil
}

func (s *stubLogWriter) lastOutcomeFor(action string) string {
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].action == action {
			return s.entries[i].outcome
		}
	}
	return ""
}

type stubPageFetcher struct {
	results map[string]FetchResult
	err     error
	calls   []string
}

func (s *stubPageFetcher) Fetch(ctx context.Context, rawURL string, params url.Values) (FetchResult, error) {
	key := rawURL
	if len(params) > 0 {
		key = rawURL + "?" + params.Encode()
	}
	s.calls = append(s.calls, key)

	if s.err != nil {
		return FetchResult{}, s.err
	}
	if result, ok := s.results[key]; ok {
		return result, nil
	}
	return FetchResult{URL: key, StatusCode: 404}, nil
}

type stubLocator struct {
	err error
}

func (s *stubLocator) Locate(ctx context.Context, reportID string, eventID *string) (ReportEndpoint, error) {
	if s.err != nil {
		return ReportEndpoint{}, s.err
	}
	return ReportEndpoint{ReportID: reportID, URL: "http://reports.test/" + reportID}, nil
}

type stubMaterializer struct {
	tables map[string]Table
	err    error
}

func (s *stubMaterializer) Materialize(ctx context.Context, endpoint ReportEndpoint, eventID *string) (Table, error) {
	if s.err != nil {
		return Table{}, s.err
	}
	table, ok := s.tables[endpoint.ReportID]
	if !ok {
		return Table{}, fmt.Errorf("no stub table for %s", endpoint.ReportID)
	}
	return table, nil
}

func openServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite db: %v", err)
	}
	if err := db.AutoMigrate(&models.Source{}, &models.Log{}, &models.GenerationPoint{}, &models.LoadPoint{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}
