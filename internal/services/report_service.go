package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var zipMagic = []byte("PK\x03\x04")

// ReportService downloads a resolved report endpoint and turns the payload
// into a Table: single-member ZIPs are unpacked, legacy byte encodings are
// tolerated, column names are trimmed, and rows with any empty field are
// dropped before the numeric joins downstream.
type ReportService struct {
	client     *http.Client
	logService LogWriter
}

func NewReportService(logService LogWriter, client *http.Client) (*ReportService, error) {
	if logService == nil {
		return nil, errors.New("log service is nil")
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &ReportService{
		client:     client,
		logService: logService,
	}, nil
}

// Materialize fetches and parses one report artifact. An empty body means
// "nothing published yet" and yields an empty Table, not an error; only a
// broken fetch or an unparseable payload fails.
func (s *ReportService) Materialize(ctx context.Context, endpoint ReportEndpoint, eventID *string) (Table, error) {
	if s == nil {
		return Table{}, errors.New("report service is nil")
	}
	if s.client == nil {
		return Table{}, errors.New("http client is nil")
	}
	if s.logService == nil {
		return Table{}, errors.New("log service is nil")
	}
	if endpoint.URL == "" {
		return Table{}, errors.New("endpoint url is empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.URL, nil)
	if err != nil {
		failMsg := fmt.Sprintf("build report request report=%s: %v", endpoint.ReportID, err)
		_ = s.logService.CreateLog(ctx, eventID, LogActionReportDownload, LogOutcomeFail, &failMsg)
		return Table{}, fmt.Errorf("build report request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		failMsg := fmt.Sprintf("download report report=%s: %v", endpoint.ReportID, err)
		_ = s.logService.CreateLog(ctx, eventID, LogActionReportDownload, LogOutcomeFail, &failMsg)
		return Table{}, fmt.Errorf("download report: %w", err)
	}

	body, readErr := io.ReadAll(resp.Body)
	closeErr := resp.Body.Close()
	if readErr != nil {
		failMsg := fmt.Sprintf("read report report=%s: %v", endpoint.ReportID, readErr)
		_ = s.logService.CreateLog(ctx, eventID, LogActionReportDownload, LogOutcomeFail, &failMsg)
		return Table{}, fmt.Errorf("read report: %w", readErr)
	}
	if closeErr != nil {
		failMsg := fmt.Sprintf("close report response report=%s: %v", endpoint.ReportID, closeErr)
		_ = s.logService.CreateLog(ctx, eventID, LogActionReportDownload, LogOutcomeFail, &failMsg)
		return Table{}, fmt.Errorf("close report response: %w", closeErr)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		failMsg := fmt.Sprintf("report download status=%d report=%s url=%s", resp.StatusCode, endpoint.ReportID, endpoint.URL)
		_ = s.logService.CreateLog(ctx, eventID, LogActionReportDownload, LogOutcomeFail, &failMsg)
		return Table{}, fmt.Errorf("report download failed with status %d", resp.StatusCode)
	}

	if len(body) == 0 {
		emptyMsg := fmt.Sprintf("empty report body report=%s url=%s", endpoint.ReportID, endpoint.URL)
		_ = s.logService.CreateLog(ctx, eventID, LogActionReportDownload, LogOutcomeSuccess, &emptyMsg)
		return Table{}, nil
	}

	payload := body
	if bytes.HasPrefix(body, zipMagic) {
		payload, err = firstArchiveMember(body)
		if err != nil {
			failMsg := fmt.Sprintf("unpack report report=%s: %v", endpoint.ReportID, err)
			_ = s.logService.CreateLog(ctx, eventID, LogActionReportDownload, LogOutcomeFail, &failMsg)
			return Table{}, err
		}
	}

	table, err := parseDelimited(decodeReportText(payload))
	if err != nil {
		failMsg := fmt.Sprintf("parse report report=%s: %v", endpoint.ReportID, err)
		_ = s.logService.CreateLog(ctx, eventID, LogActionReportDownload, LogOutcomeFail, &failMsg)
		return Table{}, err
	}

	successMsg := fmt.Sprintf("report=%s url=%s rows=%d", endpoint.ReportID, endpoint.URL, len(table.Rows))
	_ = s.logService.CreateLog(ctx, eventID, LogActionReportDownload, LogOutcomeSuccess, &successMsg)

	return table, nil
}

// firstArchiveMember extracts the first regular file in the archive. The
// provider ships one csv per zip.
func firstArchiveMember(zipBytes []byte) ([]byte, error) {
	reader, err := zip.NewReader(bytes.NewReader(zipBytes), int64(len(zipBytes)))
	if err != nil {
		return nil, fmt.Errorf("open report archive: %w", err)
	}

	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		if strings.HasPrefix(file.Name, "__MACOSX") {
			continue
		}

		member, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("open archive member: %w", err)
		}

		content, readErr := io.ReadAll(member)
		closeErr := member.Close()
		if readErr != nil {
			return nil, fmt.Errorf("read archive member: %w", readErr)
		}
		if closeErr != nil {
			return nil, fmt.Errorf("close archive member: %w", closeErr)
		}

		return content, nil
	}

	return nil, errors.New("report archive has no files")
}

// decodeReportText decodes payload bytes, falling back to a single-byte
// legacy decoding when the payload is not valid UTF-8.
func decodeReportText(payload []byte) string {
	if utf8.Valid(payload) {
		return string(payload)
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(payload)
	if err != nil {
		return string(payload)
	}
	return string(decoded)
}

func parseDelimited(text string) (Table, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("parse report csv: %w", err)
	}
	if len(records) == 0 {
		return Table{}, nil
	}

	columns := make([]string, len(records[0]))
	for i, name := range records[0] {
		columns[i] = strings.TrimSpace(name)
	}

	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) != len(columns) {
			continue
		}

		complete := true
		row := make(map[string]string, len(columns))
		for i, value := range record {
			if strings.TrimSpace(value) == "" {
				complete = false
				break
			}
			row[columns[i]] = value
		}
		if complete {
			rows = append(rows, row)
		}
	}

	return Table{Columns: columns, Rows: rows}, nil
}
