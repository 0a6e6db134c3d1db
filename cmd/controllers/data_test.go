package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"gridwatch/internal/models"
	"gridwatch/internal/services"
)

type stubDataService struct {
	generation []models.GenerationPoint
	load       []models.LoadPoint
	err        error
	deleted    int

	fuel  string
	from  string
	to    string
	limit string
}

func (s *stubDataService) GetGenerationPoints(ctx context.Context, fuel string, from string, to string, limit string) ([]models.GenerationPoint, error) {
	s.fuel = fuel
	s.from = from
	s.to = to
	s.limit = limit
	if s.err != nil {
		return nil, s.err
	}
	return s.generation, nil
}

func (s *stubDataService) GetLoadPoints(ctx context.Context, from string, to string, limit string) ([]models.LoadPoint, error) {
	s.from = from
	s.to = to
	s.limit = limit
	if s.err != nil {
		return nil, s.err
	}
	return s.load, nil
}

func (s *stubDataService) DeleteData(ctx context.Context) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.deleted, nil
}

func newDataRouter(t *testing.T, service DataProvider) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	controller, err := NewDataController(service)
	if err != nil {
		t.Fatalf("NewDataController: %v", err)
	}

	router := gin.New()
	if err := controller.RegisterRoutes(router); err != nil {
		t.Fatalf("register data routes: %v", err)
	}
	return router
}

func TestGenerationHandlerSuccess(t *testing.T) {
	points := []models.GenerationPoint{{
		ID:        "1",
		Timestamp: time.Date(2024, time.January, 15, 21, 0, 0, 0, time.UTC),
		FuelName:  services.FuelWind,
		GenMW:     250,
		Freq:      services.FreqHourly,
		Market:    services.MarketHourly,
		BaName:    services.BAName,
	}}
	service := &stubDataService{generation: points}
	router := newDataRouter(t, service)

	req := httptest.NewRequest(http.MethodGet, "/generation?fuel=wind&from=2024-01-15T00:00:00Z&limit=10", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, recorder.Code)
	}
	if service.fuel != "wind" {
		t.Fatalf("fuel = %q, want %q", service.fuel, "wind")
	}
	if service.from != "2024-01-15T00:00:00Z" {
		t.Fatalf("from = %q, want %q", service.from, "2024-01-15T00:00:00Z")
	}
	if service.limit != "10" {
		t.Fatalf("limit = %q, want %q", service.limit, "10")
	}

	var resp []models.GenerationPoint
	if err := json.NewDecoder(recorder.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp) != 1 || resp[0].FuelName != services.FuelWind {
		t.Fatalf("unexpected response: %v", resp)
	}
}

func TestGenerationHandlerInvalidFuel(t *testing.T) {
	router := newDataRouter(t, &stubDataService{err: services.ErrInvalidFuel})

	req := httptest.NewRequest(http.MethodGet, "/generation?fuel=coal", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, recorder.Code)
	}
}

func TestGenerationHandlerInvalidWindow(t *testing.T) {
	router := newDataRouter(t, &stubDataService{err: services.ErrInvalidWindow})

	req := httptest.NewRequest(http.MethodGet, "/generation?from=not-a-time", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, recorder.Code)
	}
}

func TestGenerationHandlerError(t *testing.T) {
	router := newDataRouter(t, &stubDataService{err: errors.New("boom")})

	req := httptest.NewRequest(http.MethodGet, "/generation", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, recorder.Code)
	}
}

func TestLoadHistoryHandlerSuccess(t *testing.T) {
	points := []models.LoadPoint{{
		ID:        "1",
		Timestamp: time.Date(2024, time.January, 15, 22, 0, 0, 0, time.UTC),
		LoadMW:    48123.5,
		Freq:      services.FreqFiveMin,
		Market:    services.MarketFiveMin,
		BaName:    services.BAName,
	}}
	service := &stubDataService{load: points}
	router := newDataRouter(t, service)

	req := httptest.NewRequest(http.MethodGet, "/load/history?limit=5", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, recorder.Code)
	}
	if service.limit != "5" {
		t.Fatalf("limit = %q, want %q", service.limit, "5")
	}

	var resp []models.LoadPoint
	if err := json.NewDecoder(recorder.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp) != 1 || resp[0].LoadMW != 48123.5 {
		t.Fatalf("unexpected response: %v", resp)
	}
}

func TestLoadHistoryHandlerInvalidLimit(t *testing.T) {
	router := newDataRouter(t, &stubDataService{err: services.ErrInvalidLimit})

	req := httptest.NewRequest(http.MethodGet, "/load/history?limit=zero", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, recorder.Code)
	}
}

func TestDeleteDataHandlerSuccess(t *testing.T) {
	router := newDataRouter(t, &stubDataService{deleted: 7})

	req := httptest.NewRequest(http.MethodDelete, "/data", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, recorder.Code)
	}

	var resp DeleteDataResponse
	if err := json.NewDecoder(recorder.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Deleted != 7 {
		t.Fatalf("deleted = %d, want %d", resp.Deleted, 7)
	}
}

func TestDeleteDataHandlerError(t *testing.T) {
	router := newDataRouter(t, &stubDataService{err: errors.New("boom")})

	req := httptest.NewRequest(http.MethodDelete, "/data", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, recorder.Code)
	}
}
