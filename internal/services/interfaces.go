package services

import (
	"context"
	"net/url"
	"time"

	"gridwatch/internal/models"
)

type SourceProvider interface {
	GetSources(ctx context.Context) ([]models.Source, error)
}

type LogWriter interface {
	CreateLog(ctx context.Context, eventID *string, action string, outcome string, message *string) error
}

type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string, params url.Values) (FetchResult, error)
}

type ReportLocator interface {
	Locate(ctx context.Context, reportID string, eventID *string) (ReportEndpoint, error)
}

type ReportMaterializer interface {
	Materialize(ctx context.Context, endpoint ReportEndpoint, eventID *string) (Table, error)
}

type TimeNormalizer interface {
	Normalize(local time.Time, hourEnding bool, dstFlag string, standardMarker string) (time.Time, error)
}

type GenerationFetcher interface {
	GetGeneration(ctx context.Context, eventID *string) ([]models.GenerationPoint, error)
}

type LoadFetcher interface {
	GetLoad(ctx context.Context, opts LoadOptions, eventID *string) ([]models.LoadPoint, error)
}

type DataStorer interface {
	StoreGenerationPoints(ctx context.Context, points []models.GenerationPoint, eventID *string) (int, error)
	StoreLoadPoints(ctx context.Context, points []models.LoadPoint, eventID *string) (int, error)
}

type GenerationProvider interface {
	GetGenerationPoints(ctx context.Context, fuel string, from string, to string, limit string) ([]models.GenerationPoint, error)
}
