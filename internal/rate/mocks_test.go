package rate

import (
	"context"
	"sync"
	"time"

	"ratehub/internal/domain"
	"ratehub/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"
)

// --- Testify mocks ---

type MockRateClient struct{ mock.Mock }

func (m *MockRateClient) GetExchangeRates(ctx context.Context, base string) (map[string]float64, error) {
	args := m.Called(ctx, base)
	rates, _ := args.Get(0).(map[string]float64)
	return rates, args.Error(1)
}

type MockRateStore struct{ mock.Mock }

func (m *MockRateStore) UpsertLatest(ctx context.Context, base string, rates map[string]float64, now time.Time) error {
	args := m.Called(ctx, base, rates, now)
	return args.Error(0)
}

func (m *MockRateStore) AppendHistory(ctx context.Context, base string, rates map[string]float64, now time.Time) error {
	args := m.Called(ctx, base, rates, now)
	return args.Error(0)
}

func (m *MockRateStore) GetLatest(ctx context.Context, base string) ([]domain.Rate, error) {
	args := m.Called(ctx, base)
	rates, _ := args.Get(0).([]domain.Rate)
	return rates, args.Error(1)
}

func (m *MockRateStore) GetOne(ctx context.Context, base string, target string) (domain.Rate, error) {
	args := m.Called(ctx, base, target)
	r, _ := args.Get(0).(domain.Rate)
	return r, args.Error(1)
}

func (m *MockRateStore) GetHistory(ctx context.Context, base string, target string, limit int) ([]domain.HistoryEntry, error) {
	args := m.Called(ctx, base, target, limit)
	entries, _ := args.Get(0).([]domain.HistoryEntry)
	return entries, args.Error(1)
}

func (m *MockRateStore) CountLatest(ctx context.Context, base string) (int, error) {
	args := m.Called(ctx, base)
	return args.Int(0), args.Error(1)
}

func (m *MockRateStore) LastUpdatedAt(ctx context.Context, base string) (time.Time, error) {
	args := m.Called(ctx, base)
	ts, _ := args.Get(0).(time.Time)
	return ts, args.Error(1)
}

func (m *MockRateStore) DropAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockRatesCache struct{ mock.Mock }

func (m *MockRatesCache) Get(base string) (map[string]float64, bool) {
	args := m.Called(base)
	rates, _ := args.Get(0).(map[string]float64)
	return rates, args.Bool(1)
}

func (m *MockRatesCache) Set(base string, rates map[string]float64) {
	m.Called(base, rates)
}

func (m *MockRatesCache) Invalidate(base string) {
	m.Called(base)
}

func (m *MockRatesCache) InvalidateAll() {
	m.Called()
}

func (m *MockRatesCache) IsFresh(base string) bool {
	args := m.Called(base)
	return args.Bool(0)
}

// --- In-memory fakes for concurrency and read-through tests ---

type memStore struct {
	mu      sync.Mutex
	latest  map[string]map[string]float64
	history map[string][]domain.HistoryEntry
	updated map[string]time.Time
}

func newMemStore() *memStore {
	return &memStore{
		latest:  make(map[string]map[string]float64),
		history: make(map[string][]domain.HistoryEntry),
		updated: make(map[string]time.Time),
	}
}

func (s *memStore) UpsertLatest(_ context.Context, base string, rates map[string]float64, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest[base] == nil {
		s.latest[base] = make(map[string]float64)
	}
	for target, value := range rates {
		s.latest[base][target] = value
	}
	s.updated[base] = now
	return nil
}

func (s *memStore) AppendHistory(_ context.Context, base string, rates map[string]float64, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for target, value := range rates {
		s.history[base] = append(s.history[base], domain.HistoryEntry{
			Base: base, Target: target, Value: value, RecordedAt: now,
		})
	}
	return nil
}

func (s *memStore) GetLatest(_ context.Context, base string) ([]domain.Rate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rates := make([]domain.Rate, 0, len(s.latest[base]))
	for target, value := range s.latest[base] {
		rates = append(rates, domain.Rate{Base: base, Target: target, Value: value, UpdatedAt: s.updated[base]})
	}
	return rates, nil
}

func (s *memStore) GetOne(_ context.Context, base string, target string) (domain.Rate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.latest[base][target]
	if !ok {
		return domain.Rate{}, domain.ErrRateNotFound
	}
	return domain.Rate{Base: base, Target: target, Value: value, UpdatedAt: s.updated[base]}, nil
}

func (s *memStore) GetHistory(_ context.Context, base string, target string, limit int) ([]domain.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make([]domain.HistoryEntry, 0, limit)
	for i := len(s.history[base]) - 1; i >= 0 && len(entries) < limit; i-- {
		if s.history[base][i].Target == target {
			entries = append(entries, s.history[base][i])
		}
	}
	return entries, nil
}

func (s *memStore) CountLatest(_ context.Context, base string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.latest[base]), nil
}

func (s *memStore) LastUpdatedAt(_ context.Context, base string) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updated[base], nil
}

func (s *memStore) DropAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = make(map[string]map[string]float64)
	s.history = make(map[string][]domain.HistoryEntry)
	s.updated = make(map[string]time.Time)
	return nil
}

type memCache struct {
	mu      sync.Mutex
	entries map[string]map[string]float64
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]map[string]float64)}
}

func (c *memCache) Get(base string) (map[string]float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rates, ok := c.entries[base]
	return rates, ok
}

func (c *memCache) Set(base string, rates map[string]float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[base] = rates
}

func (c *memCache) Invalidate(base string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, base)
}

func (c *memCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]map[string]float64)
}

func (c *memCache) IsFresh(base string) bool {
	_, ok := c.Get(base)
	return ok
}

// --- Helpers ---

func testMetrics() *metrics.Metrics {
	return metrics.NewMetrics(prometheus.NewRegistry())
}

func testSettings(cfg Config) *Settings {
	s, err := NewSettings(cfg)
	if err != nil {
		panic(err)
	}
	return s
}
