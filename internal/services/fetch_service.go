package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// FetchService is the shared HTTP transport for index pages and status
// pages. Retries and timeouts belong to the injected client.
type FetchService struct {
	client *http.Client
}

func NewFetchService(client *http.Client) (*FetchService, error) {
	if client == nil {
		client = http.DefaultClient
	}

	return &FetchService{client: client}, nil
}

func (s *FetchService) Fetch(ctx context.Context, rawURL string, params url.Values) (FetchResult, error) {
	if s == nil {
		return FetchResult{}, errors.New("fetch service is nil")
	}
	if s.client == nil {
		return FetchResult{}, errors.New("http client is nil")
	}
	if rawURL == "" {
		return FetchResult{}, errors.New("url is empty")
	}

	target, err := url.Parse(rawURL)
	if err != nil {
		return FetchResult{}, fmt.Errorf("parse url: %w", err)
	}
	if len(params) > 0 {
		query := target.Query()
		for key, values := range params {
			for _, value := range values {
				query.Add(key, value)
			}
		}
		target.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return FetchResult{URL: target.String()}, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return FetchResult{URL: target.String()}, fmt.Errorf("do request: %w", err)
	}

	body, readErr := io.ReadAll(resp.Body)
	closeErr := resp.Body.Close()
	if readErr != nil {
		return FetchResult{URL: target.String(), StatusCode: resp.StatusCode}, fmt.Errorf("read response: %w", readErr)
	}
	if closeErr != nil {
		return FetchResult{URL: target.String(), StatusCode: resp.StatusCode, Body: body}, fmt.Errorf("close response: %w", closeErr)
	}

	return FetchResult{URL: target.String(), StatusCode: resp.StatusCode, Body: body}, nil
}
