package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"gridwatch/internal/models"
)

var ErrInvalidRequest = errors.New("invalid load request")

const (
	loadStandardMarker = "N"

	loadHourEndingColumn = "HourEnding"
	loadDateColumn       = "DeliveryDate"
	loadDSTColumn        = "DSTFlag"
	loadTotalColumn      = "SystemTotal"

	demandLabel        = "Actual System Demand"
	updatedLabelPrefix = "Last Updated"
	demandValueClass   = "labelValueClassBold"

	realtimeTimeLayout = "Jan 02, 2006 15:04:05"
)

// LoadService builds load series in two mutually exclusive modes: a single
// scraped point from the real-time conditions page, or the 7-day forecast
// report sliced to a requested window.
type LoadService struct {
	locator     ReportLocator
	reports     ReportMaterializer
	times       TimeNormalizer
	fetcher     PageFetcher
	realtimeURL string
	logService  LogWriter
}

func NewLoadService(locator ReportLocator, reports ReportMaterializer, times TimeNormalizer, fetcher PageFetcher, realtimeURL string, logService LogWriter) (*LoadService, error) {
	if locator == nil {
		return nil, errors.New("report locator is nil")
	}
	if reports == nil {
		return nil, errors.New("report materializer is nil")
	}
	if times == nil {
		return nil, errors.New("time normalizer is nil")
	}
	if fetcher == nil {
		return nil, errors.New("fetcher is nil")
	}
	if realtimeURL == "" {
		return nil, errors.New("realtime url is empty")
	}
	if logService == nil {
		return nil, errors.New("log service is nil")
	}

	return &LoadService{
		locator:     locator,
		reports:     reports,
		times:       times,
		fetcher:     fetcher,
		realtimeURL: realtimeURL,
		logService:  logService,
	}, nil
}

// GetLoad has no default mode: callers choose latest or forecast, anything
// else is ErrInvalidRequest.
func (s *LoadService) GetLoad(ctx context.Context, opts LoadOptions, eventID *string) ([]models.LoadPoint, error) {
	if s == nil {
		return nil, errors.New("load service is nil")
	}
	if s.locator == nil || s.reports == nil || s.times == nil || s.fetcher == nil || s.logService == nil {
		return nil, errors.New("load service is not fully wired")
	}

	switch {
	case opts.Latest:
		return s.latestLoad(ctx, opts, eventID)
	case opts.Forecast:
		return s.forecastLoad(ctx, opts, eventID)
	default:
		return nil, fmt.Errorf("%w: load requires latest or forecast", ErrInvalidRequest)
	}
}

func (s *LoadService) latestLoad(ctx context.Context, opts LoadOptions, eventID *string) ([]models.LoadPoint, error) {
	result, err := s.fetcher.Fetch(ctx, s.realtimeURL, nil)
	if err != nil {
		failMsg := fmt.Sprintf("fetch realtime conditions: %v", err)
		_ = s.logService.CreateLog(ctx, eventID, LogActionLoadFetch, LogOutcomeFail, &failMsg)
		return nil, fmt.Errorf("fetch realtime conditions: %w", err)
	}
	if result.StatusCode < 200 || result.StatusCode >= 300 {
		failMsg := fmt.Sprintf("realtime conditions status=%d", result.StatusCode)
		_ = s.logService.CreateLog(ctx, eventID, LogActionLoadFetch, LogOutcomeFail, &failMsg)
		return nil, fmt.Errorf("realtime conditions failed with status %d", result.StatusCode)
	}

	loadMW, rawTS, err := parseRealtimeConditions(string(result.Body))
	if err != nil {
		failMsg := fmt.Sprintf("parse realtime conditions: %v", err)
		_ = s.logService.CreateLog(ctx, eventID, LogActionLoadFetch, LogOutcomeFail, &failMsg)
		return nil, err
	}

	ts, err := time.Parse(realtimeTimeLayout, rawTS)
	if err != nil {
		return nil, fmt.Errorf("%w: last updated %q: %v", ErrParse, rawTS, err)
	}

	// The status page carries no DST marker; the calendar alone resolves
	// the zone for all but the repeated fall-back hour.
	normalized, err := s.times.Normalize(ts, false, "", "")
	if err != nil {
		return nil, err
	}

	market := opts.Market
	if market == "" {
		market = MarketFiveMin
	}
	freq := opts.Freq
	if freq == "" {
		freq = FreqFiveMin
	}

	successMsg := fmt.Sprintf("latest load=%.1f at %s", loadMW, normalized.Format(time.RFC3339))
	_ = s.logService.CreateLog(ctx, eventID, LogActionLoadFetch, LogOutcomeSuccess, &successMsg)

	return []models.LoadPoint{{
		EventID:   eventID,
		Timestamp: normalized,
		LoadMW:    loadMW,
		Freq:      freq,
		Market:    market,
		BaName:    BAName,
	}}, nil
}

func (s *LoadService) forecastLoad(ctx context.Context, opts LoadOptions, eventID *string) ([]models.LoadPoint, error) {
	endpoint, err := s.locator.Locate(ctx, ReportLoad7Day, eventID)
	if err != nil {
		return nil, err
	}

	table, err := s.reports.Materialize(ctx, endpoint, eventID)
	if err != nil {
		return nil, err
	}

	market := opts.Market
	if market == "" {
		market = MarketDayAhead
	}
	freq := opts.Freq
	if freq == "" {
		freq = FreqHourly
	}

	points := make([]models.LoadPoint, 0, len(table.Rows))
	for _, row := range table.Rows {
		hourBeginning, err := hourBeginningFromEnding(row[loadHourEndingColumn])
		if err != nil {
			continue
		}
		day, err := parseReportTime(row[loadDateColumn])
		if err != nil {
			continue
		}

		local := time.Date(day.Year(), day.Month(), day.Day(), hourBeginning, 0, 0, 0, time.UTC)
		ts, err := s.times.Normalize(local, false, row[loadDSTColumn], loadStandardMarker)
		if err != nil {
			return nil, err
		}

		if !opts.Start.IsZero() && ts.Before(opts.Start) {
			continue
		}
		if !opts.End.IsZero() && ts.After(opts.End) {
			continue
		}

		value, err := strconv.ParseFloat(strings.TrimSpace(row[loadTotalColumn]), 64)
		if err != nil {
			continue
		}

		points = append(points, models.LoadPoint{
			EventID:   eventID,
			Timestamp: ts,
			LoadMW:    value,
			Freq:      freq,
			Market:    market,
			BaName:    BAName,
		})
	}

	successMsg := fmt.Sprintf("forecast load points=%d", len(points))
	_ = s.logService.CreateLog(ctx, eventID, LogActionLoadFetch, LogOutcomeSuccess, &successMsg)

	return points, nil
}

// hourBeginningFromEnding converts a published "HourEnding" label in the
// 1:00-24:00 convention to an hour-beginning integer in 0-23.
func hourBeginningFromEnding(hourEnding string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(hourEnding), ":", 2)
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("parse hour ending %q: %w", hourEnding, err)
	}
	return hour - 1, nil
}

// parseRealtimeConditions pulls the demand value and "Last Updated"
// timestamp out of the rendered status page. Missing anchor labels mean
// the page layout changed and fail with ErrParse.
func parseRealtimeConditions(rawHTML string) (float64, string, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return 0, "", fmt.Errorf("parse status page: %w", err)
	}

	labelNode := findTextNode(doc, demandLabel)
	if labelNode == nil {
		return 0, "", fmt.Errorf("%w: %q not found on status page", ErrParse, demandLabel)
	}

	container := labelNode
	for i := 0; i < 3 && container.Parent != nil; i++ {
		container = container.Parent
	}

	valueText := findTextByClass(container, demandValueClass)
	if valueText == "" {
		return 0, "", fmt.Errorf("%w: demand value not found near %q", ErrParse, demandLabel)
	}

	loadMW, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(valueText), ",", ""), 64)
	if err != nil {
		return 0, "", fmt.Errorf("%w: demand value %q: %v", ErrParse, valueText, err)
	}

	updatedNode := findTextNodeByPrefix(doc, updatedLabelPrefix)
	if updatedNode == nil {
		return 0, "", fmt.Errorf("%w: %q not found on status page", ErrParse, updatedLabelPrefix)
	}

	rawTS := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(updatedNode.Data), updatedLabelPrefix))
	rawTS = strings.TrimSpace(strings.TrimPrefix(rawTS, ":"))

	return loadMW, rawTS, nil
}

func findTextNode(node *html.Node, text string) *html.Node {
	if node.Type == html.TextNode && strings.TrimSpace(node.Data) == text {
		return node
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if found := findTextNode(child, text); found != nil {
			return found
		}
	}
	return nil
}

func findTextNodeByPrefix(node *html.Node, prefix string) *html.Node {
	if node.Type == html.TextNode && strings.HasPrefix(strings.TrimSpace(node.Data), prefix) {
		return node
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if found := findTextNodeByPrefix(child, prefix); found != nil {
			return found
		}
	}
	return nil
}
