package rate

import (
	"context"
	"strings"
	"sync"
	"time"

	"ratehub/internal/adapters"
	"ratehub/internal/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const defaultCycleTimeout = 20 * time.Second

// Refresher runs one fetch-persist-cache cycle per base currency at a time.
// Concurrent triggers for the same base (timer tick, manual button, REST call)
// join the in-flight cycle and receive its result; refreshes for different
// bases run in parallel.
type Refresher struct {
	client   adapters.RateClient
	store    adapters.RateStore
	cache    adapters.RatesCache
	settings *Settings
	metrics  *metrics.Metrics

	group        singleflight.Group
	cycleTimeout time.Duration

	mu          sync.RWMutex
	lastUpdated time.Time
}

func NewRefresher(
	client adapters.RateClient,
	store adapters.RateStore,
	cache adapters.RatesCache,
	settings *Settings,
	m *metrics.Metrics,
) *Refresher {
	return &Refresher{
		client:       client,
		store:        store,
		cache:        cache,
		settings:     settings,
		metrics:      m,
		cycleTimeout: defaultCycleTimeout,
	}
}

// Refresh resolves base (empty means the configured default), then runs or
// joins the refresh cycle for it.
func (r *Refresher) Refresh(ctx context.Context, base string) (map[string]float64, error) {
	base = strings.ToUpper(strings.TrimSpace(base))
	if base == "" {
		base = r.settings.Base()
	}
	if err := ValidateCode(base); err != nil {
		return nil, err
	}

	v, err, shared := r.group.Do(base, func() (any, error) {
		return r.runCycle(base)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logrus.Debugf("Refresh for %s joined an in-flight cycle", base)
	}
	rates, _ := v.(map[string]float64)
	return rates, nil
}

// LastUpdated reports the time of the most recent successful cycle.
func (r *Refresher) LastUpdated() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastUpdated
}

func (r *Refresher) runCycle(base string) (map[string]float64, error) {
	execID := uuid.NewString()
	started := time.Now()

	// The cycle is detached from the triggering request so joined callers are
	// not failed by the first caller's cancellation; the timeout bounds it.
	ctx, cancel := context.WithTimeout(context.Background(), r.cycleTimeout)
	defer cancel()

	logrus.Infof("Refresh cycle %s started for base %s", execID, base)

	fetched, err := r.client.GetExchangeRates(ctx, base)
	if err != nil {
		return nil, r.fail(execID, base, err)
	}

	rates := filterEnabled(fetched, r.settings.EnabledSet())
	now := time.Now().UTC()

	// Same now for both writes: the latest set and the tail of history must
	// agree for this cycle.
	if err = r.store.UpsertLatest(ctx, base, rates, now); err != nil {
		return nil, r.fail(execID, base, err)
	}
	if err = r.store.AppendHistory(ctx, base, rates, now); err != nil {
		return nil, r.fail(execID, base, err)
	}

	r.cache.Invalidate(base)
	r.cache.Set(base, rates)

	r.mu.Lock()
	r.lastUpdated = now
	r.mu.Unlock()

	r.metrics.RefreshTotal.WithLabelValues("success").Inc()
	r.metrics.RefreshDuration.Observe(time.Since(started).Seconds())
	logrus.Infof("Refresh cycle %s stored %d rates for base %s", execID, len(rates), base)
	return rates, nil
}

// fail invalidates the cache entry so a stale "fresh" signal is never served
// past the freshness window, leaves the store untouched, and surfaces the
// error to whoever triggered the cycle.
func (r *Refresher) fail(execID, base string, err error) error {
	r.cache.Invalidate(base)
	r.metrics.RefreshTotal.WithLabelValues("failure").Inc()
	logrus.WithError(err).Errorf("Refresh cycle %s failed for base %s", execID, base)
	return err
}

// filterEnabled keeps only enabled currencies; an empty enabled set passes the
// full upstream mapping through.
func filterEnabled(fetched map[string]float64, enabled map[string]struct{}) map[string]float64 {
	if len(enabled) == 0 {
		return fetched
	}
	filtered := make(map[string]float64, len(enabled))
	for code, value := range fetched {
		if _, ok := enabled[code]; ok {
			filtered[code] = value
		}
	}
	return filtered
}
