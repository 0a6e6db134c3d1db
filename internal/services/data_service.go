package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gridwatch/internal/models"
)

var ErrInvalidWindow = errors.New("invalid time window")
var ErrInvalidFuel = errors.New("invalid fuel")
var ErrInvalidLimit = errors.New("invalid limit")

// DataService persists and queries the fetched generation and load points.
type DataService struct {
	db         *gorm.DB
	logService LogWriter
}

func NewDataService(db *gorm.DB, logService LogWriter) (*DataService, error) {
	if db == nil {
		return nil, errors.New("db is nil")
	}
	if logService == nil {
		return nil, errors.New("log service is nil")
	}

	return &DataService{
		db:         db,
		logService: logService,
	}, nil
}

// StoreGenerationPoints writes a fuel split. An empty slice is a legal
// no-op: the reconciler suppresses output when wind data is unavailable.
func (s *DataService) StoreGenerationPoints(ctx context.Context, points []models.GenerationPoint, eventID *string) (int, error) {
	if s == nil {
		return 0, errors.New("data service is nil")
	}
	if s.db == nil {
		return 0, errors.New("db is nil")
	}
	if s.logService == nil {
		return 0, errors.New("log service is nil")
	}
	if len(points) == 0 {
		return 0, nil
	}

	records := make([]models.GenerationPoint, len(points))
	copy(records, points)
	for i := range records {
		if records[i].ID == "" {
			records[i].ID = uuid.NewString()
		}
	}

	if err := s.db.WithContext(ctx).Create(&records).Error; err != nil {
		failMsg := fmt.Sprintf("store generation rows=%d: %v", len(records), err)
		_ = s.logService.CreateLog(ctx, eventID, LogActionDataStore, LogOutcomeFail, &failMsg)
		return 0, fmt.Errorf("store generation points: %w", err)
	}

	successMsg := fmt.Sprintf("stored generation rows=%d", len(records))
	_ = s.logService.CreateLog(ctx, eventID, LogActionDataStore, LogOutcomeSuccess, &successMsg)

	return len(records), nil
}

func (s *DataService) StoreLoadPoints(ctx context.Context, points []models.LoadPoint, eventID *string) (int, error) {
	if s == nil {
		return 0, errors.New("data service is nil")
	}
	if s.db == nil {
		return 0, errors.New("db is nil")
	}
	if s.logService == nil {
		return 0, errors.New("log service is nil")
	}
	if len(points) == 0 {
		return 0, nil
	}

	records := make([]models.LoadPoint, len(points))
	copy(records, points)
	for i := range records {
		if records[i].ID == "" {
			records[i].ID = uuid.NewString()
		}
	}

	if err := s.db.WithContext(ctx).Create(&records).Error; err != nil {
		failMsg := fmt.Sprintf("store load rows=%d: %v", len(records), err)
		_ = s.logService.CreateLog(ctx, eventID, LogActionDataStore, LogOutcomeFail, &failMsg)
		return 0, fmt.Errorf("store load points: %w", err)
	}

	successMsg := fmt.Sprintf("stored load rows=%d", len(records))
	_ = s.logService.CreateLog(ctx, eventID, LogActionDataStore, LogOutcomeSuccess, &successMsg)

	return len(records), nil
}

func (s *DataService) GetGenerationPoints(ctx context.Context, fuel string, from string, to string, limit string) ([]models.GenerationPoint, error) {
	if s == nil {
		return nil, errors.New("data service is nil")
	}
	if s.db == nil {
		return nil, errors.New("db is nil")
	}

	query := s.db.WithContext(ctx).Model(&models.GenerationPoint{})

	fuel = strings.TrimSpace(fuel)
	if fuel != "" {
		if fuel != FuelWind && fuel != FuelNonWind {
			return nil, fmt.Errorf("%w: %q", ErrInvalidFuel, fuel)
		}
		query = query.Where("fuel_name = ?", fuel)
	}

	query, err := applyWindow(query, from, to)
	if err != nil {
		return nil, err
	}

	limitValue, err := parseLimit(limit)
	if err != nil {
		return nil, err
	}
	if limitValue > 0 {
		query = query.Limit(limitValue)
	}

	var points []models.GenerationPoint
	if err := query.Order("timestamp, fuel_name").Find(&points).Error; err != nil {
		return nil, fmt.Errorf("get generation points: %w", err)
	}

	return points, nil
}

func (s *DataService) GetLoadPoints(ctx context.Context, from string, to string, limit string) ([]models.LoadPoint, error) {
	if s == nil {
		return nil, errors.New("data service is nil")
	}
	if s.db == nil {
		return nil, errors.New("db is nil")
	}

	query := s.db.WithContext(ctx).Model(&models.LoadPoint{})

	query, err := applyWindow(query, from, to)
	if err != nil {
		return nil, err
	}

	limitValue, err := parseLimit(limit)
	if err != nil {
		return nil, err
	}
	if limitValue > 0 {
		query = query.Limit(limitValue)
	}

	var points []models.LoadPoint
	if err := query.Order("timestamp").Find(&points).Error; err != nil {
		return nil, fmt.Errorf("get load points: %w", err)
	}

	return points, nil
}

// DeleteData clears both point tables and reports the total rows removed.
func (s *DataService) DeleteData(ctx context.Context) (int, error) {
	if s == nil {
		return 0, errors.New("data service is nil")
	}
	if s.db == nil {
		return 0, errors.New("db is nil")
	}
	if s.logService == nil {
		return 0, errors.New("log service is nil")
	}

	deleted := 0
	for _, model := range []interface{}{&models.GenerationPoint{}, &models.LoadPoint{}} {
		result := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model)
		if result.Error != nil {
			failMsg := fmt.Sprintf("delete data: %v", result.Error)
			_ = s.logService.CreateLog(ctx, nil, LogActionDataStore, LogOutcomeFail, &failMsg)
			return 0, fmt.Errorf("delete data: %w", result.Error)
		}
		deleted += int(result.RowsAffected)
	}

	successMsg := fmt.Sprintf("deleted rows=%d", deleted)
	_ = s.logService.CreateLog(ctx, nil, LogActionDataStore, LogOutcomeSuccess, &successMsg)

	return deleted, nil
}

func applyWindow(query *gorm.DB, from string, to string) (*gorm.DB, error) {
	from = strings.TrimSpace(from)
	if from != "" {
		start, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return nil, fmt.Errorf("%w: from %q", ErrInvalidWindow, from)
		}
		query = query.Where("timestamp >= ?", start)
	}

	to = strings.TrimSpace(to)
	if to != "" {
		end, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return nil, fmt.Errorf("%w: to %q", ErrInvalidWindow, to)
		}
		query = query.Where("timestamp <= ?", end)
	}

	return query, nil
}

func parseLimit(limit string) (int, error) {
	limit = strings.TrimSpace(limit)
	if limit == "" {
		return 0, nil
	}

	value, err := strconv.Atoi(limit)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLimit, limit)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidLimit, value)
	}

	return value, nil
}
