package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

type stubExportService struct {
	payload []byte
	err     error
}

func (s *stubExportService) ExportGenerationXlsx(ctx context.Context, eventID *string) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.payload, nil
}

func TestExportHandlerSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)

	payload := []byte("workbook-bytes")
	controller, err := NewExportController(&stubExportService{payload: payload})
	if err != nil {
		t.Fatalf("NewExportController: %v", err)
	}

	router := gin.New()
	if err := controller.RegisterRoutes(router); err != nil {
		t.Fatalf("register export routes: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/export/generation.xlsx", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, recorder.Code)
	}
	if got := recorder.Header().Get("Content-Type"); got != xlsxContentType {
		t.Fatalf("content type = %q, want %q", got, xlsxContentType)
	}
	if got := recorder.Header().Get("Content-Disposition"); !strings.Contains(got, generationFilename) {
		t.Fatalf("content disposition = %q, want filename %q", got, generationFilename)
	}
	if recorder.Body.String() != string(payload) {
		t.Fatalf("unexpected body: %q", recorder.Body.String())
	}
}

func TestExportHandlerError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	controller, err := NewExportController(&stubExportService{err: errors.New("boom")})
	if err != nil {
		t.Fatalf("NewExportController: %v", err)
	}

	router := gin.New()
	if err := controller.RegisterRoutes(router); err != nil {
		t.Fatalf("register export routes: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/export/generation.xlsx", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, recorder.Code)
	}
}
