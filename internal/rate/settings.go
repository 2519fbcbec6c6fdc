package rate

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"ratehub/internal/domain"
)

const (
	MinIntervalMinutes = 5
	MaxIntervalMinutes = 1440
)

// Config is the externally-owned runtime configuration. The core never
// persists it; the config file seeds the initial value and the settings
// endpoint mutates it.
type Config struct {
	BaseCurrency           string
	EnabledCurrencies      []string
	RefreshIntervalMinutes int
}

// Settings holds the live configuration snapshot and fans out change
// notifications. Hooks fire after the snapshot is swapped, outside the lock.
type Settings struct {
	mu       sync.RWMutex
	base     string
	enabled  map[string]struct{}
	interval int

	hooksMu sync.Mutex
	hooks   []func(Config)
}

func NewSettings(cfg Config) (*Settings, error) {
	s := &Settings{}
	if err := s.apply(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

func normalize(cfg Config) (Config, error) {
	cfg.BaseCurrency = strings.ToUpper(strings.TrimSpace(cfg.BaseCurrency))
	if !domain.IsSupported(cfg.BaseCurrency) {
		return Config{}, fmt.Errorf("%w: base %q", domain.ErrCurrencyUnsupported, cfg.BaseCurrency)
	}

	enabled := make([]string, 0, len(cfg.EnabledCurrencies))
	for _, code := range cfg.EnabledCurrencies {
		code = strings.ToUpper(strings.TrimSpace(code))
		if !domain.IsSupported(code) {
			return Config{}, fmt.Errorf("%w: enabled %q", domain.ErrCurrencyUnsupported, code)
		}
		enabled = append(enabled, code)
	}
	slices.Sort(enabled)
	cfg.EnabledCurrencies = slices.Compact(enabled)

	if cfg.RefreshIntervalMinutes < MinIntervalMinutes {
		cfg.RefreshIntervalMinutes = MinIntervalMinutes
	}
	if cfg.RefreshIntervalMinutes > MaxIntervalMinutes {
		cfg.RefreshIntervalMinutes = MaxIntervalMinutes
	}
	return cfg, nil
}

func (s *Settings) apply(cfg Config) error {
	cfg, err := normalize(cfg)
	if err != nil {
		return err
	}

	enabled := make(map[string]struct{}, len(cfg.EnabledCurrencies))
	for _, code := range cfg.EnabledCurrencies {
		enabled[code] = struct{}{}
	}

	s.mu.Lock()
	s.base = cfg.BaseCurrency
	s.enabled = enabled
	s.interval = cfg.RefreshIntervalMinutes
	s.mu.Unlock()
	return nil
}

// Update validates and swaps the snapshot, then fires all registered hooks
// with the normalized config.
func (s *Settings) Update(cfg Config) error {
	if err := s.apply(cfg); err != nil {
		return err
	}

	snapshot := s.Snapshot()
	s.hooksMu.Lock()
	hooks := slices.Clone(s.hooks)
	s.hooksMu.Unlock()
	for _, hook := range hooks {
		hook(snapshot)
	}
	return nil
}

func (s *Settings) OnChange(hook func(Config)) {
	s.hooksMu.Lock()
	s.hooks = append(s.hooks, hook)
	s.hooksMu.Unlock()
}

func (s *Settings) Base() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.base
}

// EnabledSet returns a copy; an empty set means "track everything upstream".
func (s *Settings) EnabledSet() map[string]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.enabled)
}

func (s *Settings) IntervalMinutes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.interval
}

func (s *Settings) RefreshInterval() time.Duration {
	return time.Duration(s.IntervalMinutes()) * time.Minute
}

func (s *Settings) Snapshot() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	enabled := slices.Collect(maps.Keys(s.enabled))
	slices.Sort(enabled)
	return Config{
		BaseCurrency:           s.base,
		EnabledCurrencies:      enabled,
		RefreshIntervalMinutes: s.interval,
	}
}
