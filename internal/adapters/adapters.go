package adapters

import (
	"context"
	"time"

	"ratehub/internal/domain"
)

type RateClient interface {
	GetExchangeRates(ctx context.Context, base string) (map[string]float64, error)
}

type RateStore interface {
	UpsertLatest(ctx context.Context, base string, rates map[string]float64, now time.Time) error
	AppendHistory(ctx context.Context, base string, rates map[string]float64, now time.Time) error
	GetLatest(ctx context.Context, base string) ([]domain.Rate, error)
	GetOne(ctx context.Context, base string, target string) (domain.Rate, error)
	GetHistory(ctx context.Context, base string, target string, limit int) ([]domain.HistoryEntry, error)
	CountLatest(ctx context.Context, base string) (int, error)
	LastUpdatedAt(ctx context.Context, base string) (time.Time, error)
	DropAll(ctx context.Context) error
}

type RatesCache interface {
	Get(base string) (map[string]float64, bool)
	Set(base string, rates map[string]float64)
	Invalidate(base string)
	InvalidateAll()
	IsFresh(base string) bool
}
