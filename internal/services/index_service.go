package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

var ErrReportNotFound = errors.New("no downloadable report found")

const (
	ReportWind5Min = "wind_5min"
	ReportWindHrly = "wind_hrly"
	ReportGenHrly  = "gen_hrly"
	ReportLoad7Day = "load_7day"

	reportIndexPath  = "/misapp/GetReports.do"
	reportLabelClass = "labelOptional_ind"
)

// Provider-assigned numeric codes for each logical report.
var reportTypeIDs = map[string]string{
	ReportWind5Min: "13071",
	ReportWindHrly: "13028",
	ReportGenHrly:  "12358",
	ReportLoad7Day: "12311",
}

// IndexService resolves a logical report id to a concrete download URL by
// scanning the provider's report listing page.
type IndexService struct {
	baseURL    string
	fetcher    PageFetcher
	logService LogWriter
}

func NewIndexService(baseURL string, fetcher PageFetcher, logService LogWriter) (*IndexService, error) {
	if baseURL == "" {
		return nil, errors.New("base url is empty")
	}
	if fetcher == nil {
		return nil, errors.New("fetcher is nil")
	}
	if logService == nil {
		return nil, errors.New("log service is nil")
	}

	return &IndexService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		fetcher:    fetcher,
		logService: logService,
	}, nil
}

// Locate fetches the listing for reportID and returns the first entry
// whose label advertises a csv artifact, in document order. A listing
// without such an entry is a caller-visible ErrReportNotFound, not a
// transient fetch failure, and is never retried here.
func (s *IndexService) Locate(ctx context.Context, reportID string, eventID *string) (ReportEndpoint, error) {
	if s == nil {
		return ReportEndpoint{}, errors.New("index service is nil")
	}
	if s.fetcher == nil {
		return ReportEndpoint{}, errors.New("fetcher is nil")
	}
	if s.logService == nil {
		return ReportEndpoint{}, errors.New("log service is nil")
	}

	typeID, ok := reportTypeIDs[reportID]
	if !ok {
		return ReportEndpoint{}, fmt.Errorf("unknown report id %q", reportID)
	}

	params := url.Values{}
	params.Set("reportTypeId", typeID)

	result, err := s.fetcher.Fetch(ctx, s.baseURL+reportIndexPath, params)
	if err != nil {
		failMsg := fmt.Sprintf("fetch report index report=%s: %v", reportID, err)
		_ = s.logService.CreateLog(ctx, eventID, LogActionReportLocate, LogOutcomeFail, &failMsg)
		return ReportEndpoint{}, fmt.Errorf("fetch report index: %w", err)
	}
	if result.StatusCode < 200 || result.StatusCode >= 300 {
		failMsg := fmt.Sprintf("report index status=%d report=%s", result.StatusCode, reportID)
		_ = s.logService.CreateLog(ctx, eventID, LogActionReportLocate, LogOutcomeFail, &failMsg)
		return ReportEndpoint{}, fmt.Errorf("report index failed with status %d", result.StatusCode)
	}

	entries, err := parseReportListing(string(result.Body))
	if err != nil {
		failMsg := fmt.Sprintf("parse report index report=%s: %v", reportID, err)
		_ = s.logService.CreateLog(ctx, eventID, LogActionReportLocate, LogOutcomeFail, &failMsg)
		return ReportEndpoint{}, err
	}

	for _, entry := range entries {
		if !strings.Contains(entry.Label, "csv") {
			continue
		}

		resolved, err := resolveReportURL(entry.Href, s.baseURL)
		if err != nil {
			failMsg := fmt.Sprintf("resolve report link report=%s href=%s: %v", reportID, entry.Href, err)
			_ = s.logService.CreateLog(ctx, eventID, LogActionReportLocate, LogOutcomeFail, &failMsg)
			return ReportEndpoint{}, err
		}

		successMsg := fmt.Sprintf("located report=%s url=%s", reportID, resolved)
		_ = s.logService.CreateLog(ctx, eventID, LogActionReportLocate, LogOutcomeSuccess, &successMsg)
		return ReportEndpoint{ReportID: reportID, URL: resolved}, nil
	}

	failMsg := fmt.Sprintf("no csv entry for report=%s", reportID)
	_ = s.logService.CreateLog(ctx, eventID, LogActionReportLocate, LogOutcomeFail, &failMsg)
	return ReportEndpoint{}, fmt.Errorf("%w: report %s, listing:\n%s", ErrReportNotFound, reportID, string(result.Body))
}

type listingEntry struct {
	Label string
	Href  string
}

// parseReportListing reduces the listing page to label/link pairs, one per
// table row, so everything downstream is independent of page structure.
func parseReportListing(rawHTML string) ([]listingEntry, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("parse report listing: %w", err)
	}

	var entries []listingEntry
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == "tr" {
			label := findTextByClass(node, reportLabelClass)
			href := findAnchorHref(node)
			if label != "" && href != "" {
				entries = append(entries, listingEntry{Label: label, Href: href})
			}
			return
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	return entries, nil
}

func resolveReportURL(href string, baseURL string) (string, error) {
	parsed, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("parse report link: %w", err)
	}
	if parsed.IsAbs() {
		return parsed.String(), nil
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}

	return base.ResolveReference(parsed).String(), nil
}

// findTextByClass returns the trimmed text content of the first element in
// the subtree carrying the given class.
func findTextByClass(node *html.Node, class string) string {
	if node.Type == html.ElementNode && hasClass(node, class) {
		return strings.TrimSpace(textContent(node))
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if text := findTextByClass(child, class); text != "" {
			return text
		}
	}
	return ""
}

func findAnchorHref(node *html.Node) string {
	if node.Type == html.ElementNode && node.Data == "a" {
		for _, attr := range node.Attr {
			if strings.EqualFold(attr.Key, "href") && attr.Val != "" {
				return attr.Val
			}
		}
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if href := findAnchorHref(child); href != "" {
			return href
		}
	}
	return ""
}

func hasClass(node *html.Node, class string) bool {
	for _, attr := range node.Attr {
		if !strings.EqualFold(attr.Key, "class") {
			continue
		}
		for _, value := range strings.Fields(attr.Val) {
			if value == class {
				return true
			}
		}
	}
	return false
}

func textContent(node *html.Node) string {
	if node.Type == html.TextNode {
		return node.Data
	}

	var builder strings.Builder
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		builder.WriteString(textContent(child))
	}
	return builder.String()
}
