package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// PipelineService runs one refresh cycle: reconcile the generation fuel
// split, fetch the forecast load series, store whatever came back. Every
// step logs under a shared event id so a run can be traced end to end.
type PipelineService struct {
	generation GenerationFetcher
	load       LoadFetcher
	store      DataStorer
	logService LogWriter
}

func NewPipelineService(generation GenerationFetcher, load LoadFetcher, store DataStorer, logService LogWriter) (*PipelineService, error) {
	if generation == nil {
		return nil, errors.New("generation fetcher is nil")
	}
	if load == nil {
		return nil, errors.New("load fetcher is nil")
	}
	if store == nil {
		return nil, errors.New("data storer is nil")
	}
	if logService == nil {
		return nil, errors.New("log service is nil")
	}

	return &PipelineService{
		generation: generation,
		load:       load,
		store:      store,
		logService: logService,
	}, nil
}

// Refresh runs both fetches even if the first fails and returns the first
// error encountered. A generation cycle that legally yields no points
// (wind unavailable) stores nothing and is not an error.
func (s *PipelineService) Refresh(ctx context.Context) error {
	if s == nil {
		return errors.New("pipeline service is nil")
	}
	if s.generation == nil || s.load == nil || s.store == nil || s.logService == nil {
		return errors.New("pipeline service is not fully wired")
	}

	eventID := uuid.NewString()

	startMsg := "refresh started"
	if err := s.logService.CreateLog(ctx, &eventID, LogActionRefresh, LogOutcomeSuccess, &startMsg); err != nil {
		return err
	}

	var refreshErr error

	genPoints, err := s.generation.GetGeneration(ctx, &eventID)
	if err != nil {
		failMsg := fmt.Sprintf("get generation: %v", err)
		_ = s.logService.CreateLog(ctx, &eventID, LogActionRefresh, LogOutcomeFail, &failMsg)
		refreshErr = fmt.Errorf("get generation: %w", err)
	} else if len(genPoints) > 0 {
		if _, err := s.store.StoreGenerationPoints(ctx, genPoints, &eventID); err != nil && refreshErr == nil {
			refreshErr = err
		}
	}

	loadPoints, err := s.load.GetLoad(ctx, LoadOptions{Forecast: true}, &eventID)
	if err != nil {
		failMsg := fmt.Sprintf("get load forecast: %v", err)
		_ = s.logService.CreateLog(ctx, &eventID, LogActionRefresh, LogOutcomeFail, &failMsg)
		if refreshErr == nil {
			refreshErr = fmt.Errorf("get load forecast: %w", err)
		}
	} else if len(loadPoints) > 0 {
		if _, err := s.store.StoreLoadPoints(ctx, loadPoints, &eventID); err != nil && refreshErr == nil {
			refreshErr = err
		}
	}

	outcome := LogOutcomeSuccess
	if refreshErr != nil {
		outcome = LogOutcomeFail
	}
	doneMsg := fmt.Sprintf("refresh finished generation=%d load=%d", len(genPoints), len(loadPoints))
	_ = s.logService.CreateLog(ctx, &eventID, LogActionRefresh, outcome, &doneMsg)

	return refreshErr
}
