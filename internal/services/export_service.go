package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

const exportSheetName = "Generation"

var exportHeaders = []string{"timestamp", "fuel_name", "gen_MW", "freq", "market", "ba_name"}

// ExportService renders the stored generation series as an xlsx workbook.
type ExportService struct {
	data       GenerationProvider
	logService LogWriter
}

func NewExportService(data GenerationProvider, logService LogWriter) (*ExportService, error) {
	if data == nil {
		return nil, errors.New("data provider is nil")
	}
	if logService == nil {
		return nil, errors.New("log service is nil")
	}

	return &ExportService{
		data:       data,
		logService: logService,
	}, nil
}

func (s *ExportService) ExportGenerationXlsx(ctx context.Context, eventID *string) ([]byte, error) {
	if s == nil {
		return nil, errors.New("export service is nil")
	}
	if s.data == nil {
		return nil, errors.New("data provider is nil")
	}
	if s.logService == nil {
		return nil, errors.New("log service is nil")
	}

	points, err := s.data.GetGenerationPoints(ctx, "", "", "", "")
	if err != nil {
		failMsg := fmt.Sprintf("export generation: %v", err)
		_ = s.logService.CreateLog(ctx, eventID, LogActionDataExport, LogOutcomeFail, &failMsg)
		return nil, fmt.Errorf("export generation: %w", err)
	}

	workbook := excelize.NewFile()
	if err := workbook.SetSheetName(workbook.GetSheetName(0), exportSheetName); err != nil {
		return nil, fmt.Errorf("rename export sheet: %w", err)
	}

	for col, header := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell name: %w", err)
		}
		if err := workbook.SetCellValue(exportSheetName, cell, header); err != nil {
			return nil, fmt.Errorf("write header cell: %w", err)
		}
	}

	for i, point := range points {
		values := []interface{}{
			point.Timestamp.UTC().Format(time.RFC3339),
			point.FuelName,
			point.GenMW,
			point.Freq,
			point.Market,
			point.BaName,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("data cell name: %w", err)
			}
			if err := workbook.SetCellValue(exportSheetName, cell, value); err != nil {
				return nil, fmt.Errorf("write data cell: %w", err)
			}
		}
	}

	buffer, err := workbook.WriteToBuffer()
	if err != nil {
		failMsg := fmt.Sprintf("render export workbook: %v", err)
		_ = s.logService.CreateLog(ctx, eventID, LogActionDataExport, LogOutcomeFail, &failMsg)
		return nil, fmt.Errorf("render export workbook: %w", err)
	}
	if err := workbook.Close(); err != nil {
		return nil, fmt.Errorf("close export workbook: %w", err)
	}

	successMsg := fmt.Sprintf("exported generation rows=%d", len(points))
	_ = s.logService.CreateLog(ctx, eventID, LogActionDataExport, LogOutcomeSuccess, &successMsg)

	return buffer.Bytes(), nil
}
