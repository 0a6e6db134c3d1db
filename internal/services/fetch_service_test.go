package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestFetchAppendsQueryParams(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte("listing"))
	}))
	t.Cleanup(server.Close)

	service, err := NewFetchService(server.Client())
	if err != nil {
		t.Fatalf("NewFetchService: %v", err)
	}

	params := url.Values{}
	params.Set("reportTypeId", "13028")
	result, err := service.Fetch(context.Background(), server.URL+"/misapp/GetReports.do", params)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if result.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", result.StatusCode, http.StatusOK)
	}
	if string(result.Body) != "listing" {
		t.Fatalf("body = %q", result.Body)
	}
	if gotQuery.Get("reportTypeId") != "13028" {
		t.Fatalf("reportTypeId = %q, want 13028", gotQuery.Get("reportTypeId"))
	}
}

func TestFetchEmptyURL(t *testing.T) {
	service, err := NewFetchService(nil)
	if err != nil {
		t.Fatalf("NewFetchService: %v", err)
	}

	if _, err := service.Fetch(context.Background(), "", nil); err == nil {
		t.Fatalf("expected error for empty url")
	}
}

func TestFetchNilService(t *testing.T) {
	var service *FetchService
	if _, err := service.Fetch(context.Background(), "http://example.com", nil); err == nil {
		t.Fatalf("expected error for nil service")
	}
}
