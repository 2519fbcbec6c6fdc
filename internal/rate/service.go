package rate

import (
	"context"
	"fmt"
	"time"

	"ratehub/internal/adapters"
	"ratehub/internal/domain"
	"ratehub/internal/metrics"

	"github.com/sirupsen/logrus"
)

const defaultHistoryLimit = 20

type refreshRunner interface {
	Refresh(ctx context.Context, base string) (map[string]float64, error)
	LastUpdated() time.Time
}

type refreshScheduler interface {
	NextRun() time.Time
	Shutdown() error
}

// Service is the public read surface composing cache, store, settings,
// refresher and scheduler for REST/CLI/UI collaborators.
type Service struct {
	store     adapters.RateStore
	cache     adapters.RatesCache
	settings  *Settings
	refresher refreshRunner
	scheduler refreshScheduler
	metrics   *metrics.Metrics
}

func NewService(
	store adapters.RateStore,
	cache adapters.RatesCache,
	settings *Settings,
	refresher refreshRunner,
	scheduler refreshScheduler,
	m *metrics.Metrics,
) *Service {
	return &Service{
		store:     store,
		cache:     cache,
		settings:  settings,
		refresher: refresher,
		scheduler: scheduler,
		metrics:   m,
	}
}

// GetRates is the read-through path: cache first, store on a miss, repopulate
// on fallback. No stored data yields an empty mapping, not an error.
func (s *Service) GetRates(ctx context.Context, base string) (map[string]float64, error) {
	if base == "" {
		base = s.settings.Base()
	}

	if rates, ok := s.cache.Get(base); ok {
		s.metrics.CacheHitsTotal.Inc()
		return rates, nil
	}
	s.metrics.CacheMissesTotal.Inc()

	stored, err := s.store.GetLatest(ctx, base)
	if err != nil {
		return nil, err
	}

	rates := make(map[string]float64, len(stored))
	for _, r := range stored {
		rates[r.Target] = r.Value
	}
	if len(rates) > 0 {
		// Set overwrites unconditionally, so a concurrent refresh cannot be
		// shadowed by this repopulation for longer than one write.
		s.cache.Set(base, rates)
	}
	return rates, nil
}

// GetHistory is a pass-through to the store; history is never cached.
func (s *Service) GetHistory(ctx context.Context, base, target string, limit int) ([]domain.HistoryEntry, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.store.GetHistory(ctx, base, target, limit)
}

// RefreshNow triggers (or joins) a refresh cycle on behalf of a caller.
func (s *Service) RefreshNow(ctx context.Context, base string) (map[string]float64, error) {
	return s.refresher.Refresh(ctx, base)
}

// Convert multiplies amount by the stored base->target rate.
func (s *Service) Convert(ctx context.Context, base, target string, amount float64) (float64, domain.Rate, error) {
	rate, err := s.store.GetOne(ctx, base, target)
	if err != nil {
		return 0, domain.Rate{}, err
	}
	return amount * rate.Value, rate, nil
}

func (s *Service) GetStatus(ctx context.Context) (domain.Status, error) {
	snapshot := s.settings.Snapshot()

	count, err := s.store.CountLatest(ctx, snapshot.BaseCurrency)
	if err != nil {
		return domain.Status{}, fmt.Errorf("failed to build status: %w", err)
	}

	// After a restart the in-process marker is zero while the store still
	// holds data; fall back to the stored write time.
	lastUpdated := s.refresher.LastUpdated()
	if lastUpdated.IsZero() {
		if lastUpdated, err = s.store.LastUpdatedAt(ctx, snapshot.BaseCurrency); err != nil {
			return domain.Status{}, fmt.Errorf("failed to build status: %w", err)
		}
	}

	return domain.Status{
		BaseCurrency:      snapshot.BaseCurrency,
		EnabledCurrencies: snapshot.EnabledCurrencies,
		IntervalMinutes:   snapshot.RefreshIntervalMinutes,
		LastUpdated:       lastUpdated,
		NextScheduledAt:   s.scheduler.NextRun(),
		IsCached:          s.cache.IsFresh(snapshot.BaseCurrency),
		StoredRateCount:   count,
	}, nil
}

// PurgeAll is the uninstall-equivalent teardown: stop the timer, clear the
// cache, drop all stored data. Ordinary deactivation only stops the scheduler.
func (s *Service) PurgeAll(ctx context.Context) error {
	if err := s.scheduler.Shutdown(); err != nil {
		logrus.WithError(err).Error("Scheduler shutdown failed during purge")
	}
	s.cache.InvalidateAll()
	return s.store.DropAll(ctx)
}
