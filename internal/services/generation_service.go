package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gridwatch/internal/models"
)

var ErrParse = errors.New("parse failed")

const (
	// Standard-time markers differ per report: the generation snapshot
	// flags standard time with "s", the wind and load series with "N".
	genStandardMarker  = "s"
	windStandardMarker = "N"

	genTotalColumn   = "SE_MW"
	genTimeColumn    = "SE_EXE_TIME"
	genDSTColumn     = "SE_EXE_TIME_DST"
	windTimeColumn   = "HOUR_BEGINNING"
	windDSTColumn    = "DSTFlag"
	windActualColumn = "ACTUAL_SYSTEM_WIDE"
)

// GenerationService reconciles the total-generation snapshot with the
// hourly wind series into a wind/nonwind fuel split.
type GenerationService struct {
	locator    ReportLocator
	reports    ReportMaterializer
	times      TimeNormalizer
	logService LogWriter
}

func NewGenerationService(locator ReportLocator, reports ReportMaterializer, times TimeNormalizer, logService LogWriter) (*GenerationService, error) {
	if locator == nil {
		return nil, errors.New("report locator is nil")
	}
	if reports == nil {
		return nil, errors.New("report materializer is nil")
	}
	if times == nil {
		return nil, errors.New("time normalizer is nil")
	}
	if logService == nil {
		return nil, errors.New("log service is nil")
	}

	return &GenerationService{
		locator:    locator,
		reports:    reports,
		times:      times,
		logService: logService,
	}, nil
}

// GetGeneration returns either zero points or exactly two: wind and
// nonwind generation sharing one hour. The snapshot's execution timestamp,
// normalized as hour-ending and truncated to the hour, is assumed to name
// the hour the snapshot covers; the source does not document the field
// precisely, so that assumption is deliberate rather than resolved.
// Missing wind data at that hour is a logged outcome, not an error, and
// suppresses the whole split; partial fuel splits are never published.
func (s *GenerationService) GetGeneration(ctx context.Context, eventID *string) ([]models.GenerationPoint, error) {
	if s == nil {
		return nil, errors.New("generation service is nil")
	}
	if s.locator == nil || s.reports == nil || s.times == nil || s.logService == nil {
		return nil, errors.New("generation service is not fully wired")
	}

	genTable, err := s.materialize(ctx, ReportGenHrly, eventID)
	if err != nil {
		return nil, err
	}
	if genTable.Empty() {
		msg := "generation snapshot is empty"
		_ = s.logService.CreateLog(ctx, eventID, LogActionGenReconcile, LogOutcomeFail, &msg)
		return nil, nil
	}

	// The snapshot is a single current observation; only the first row
	// carries it.
	totalRow := genTable.Rows[0]

	totalGen, err := strconv.ParseFloat(strings.TrimSpace(totalRow[genTotalColumn]), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: total generation %q: %v", ErrParse, totalRow[genTotalColumn], err)
	}

	rawTS, err := parseReportTime(totalRow[genTimeColumn])
	if err != nil {
		return nil, fmt.Errorf("%w: snapshot timestamp %q: %v", ErrParse, totalRow[genTimeColumn], err)
	}

	normalized, err := s.times.Normalize(rawTS, true, totalRow[genDSTColumn], genStandardMarker)
	if err != nil {
		return nil, err
	}
	targetHour := normalized.Truncate(time.Hour)

	windGen, found, err := s.findWindAt(ctx, targetHour, eventID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	points := make([]models.GenerationPoint, 0, 2)
	for _, split := range []struct {
		fuel  string
		genMW float64
	}{
		{FuelWind, windGen},
		{FuelNonWind, totalGen - windGen},
	} {
		points = append(points, models.GenerationPoint{
			EventID:   eventID,
			Timestamp: targetHour,
			FuelName:  split.fuel,
			GenMW:     split.genMW,
			Freq:      FreqHourly,
			Market:    MarketHourly,
			BaName:    BAName,
		})
	}

	successMsg := fmt.Sprintf("hour=%s total=%.1f wind=%.1f nonwind=%.1f",
		targetHour.Format(time.RFC3339), totalGen, windGen, totalGen-windGen)
	_ = s.logService.CreateLog(ctx, eventID, LogActionGenReconcile, LogOutcomeSuccess, &successMsg)

	return points, nil
}

// findWindAt scans the wind series in file order and takes the first row
// whose normalized hour matches targetHour. A matching row with an
// unparseable value exhausts the hour: the condition is logged and the
// scan stops rather than hunting for a later duplicate.
func (s *GenerationService) findWindAt(ctx context.Context, targetHour time.Time, eventID *string) (float64, bool, error) {
	windTable, err := s.materialize(ctx, ReportWindHrly, eventID)
	if err != nil {
		return 0, false, err
	}

	for _, row := range windTable.Rows {
		rawTS, err := parseReportTime(row[windTimeColumn])
		if err != nil {
			continue
		}

		ts, err := s.times.Normalize(rawTS, false, row[windDSTColumn], windStandardMarker)
		if err != nil {
			return 0, false, err
		}
		if !ts.Equal(targetHour) {
			continue
		}

		value, err := strconv.ParseFloat(strings.TrimSpace(row[windActualColumn]), 64)
		if err != nil {
			msg := fmt.Sprintf("no wind value at %s: %v", targetHour.Format(time.RFC3339), err)
			_ = s.logService.CreateLog(ctx, eventID, LogActionGenReconcile, LogOutcomeFail, &msg)
			return 0, false, nil
		}

		return value, true, nil
	}

	msg := fmt.Sprintf("no wind row at %s", targetHour.Format(time.RFC3339))
	_ = s.logService.CreateLog(ctx, eventID, LogActionGenReconcile, LogOutcomeFail, &msg)
	return 0, false, nil
}

func (s *GenerationService) materialize(ctx context.Context, reportID string, eventID *string) (Table, error) {
	endpoint, err := s.locator.Locate(ctx, reportID, eventID)
	if err != nil {
		return Table{}, err
	}
	return s.reports.Materialize(ctx, endpoint, eventID)
}

var reportTimeLayouts = []string{
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"01/02/2006",
	"2006-01-02",
}

// parseReportTime reads a naive operator-local timestamp in any of the
// formats the reports are known to publish.
func parseReportTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range reportTimeLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}
