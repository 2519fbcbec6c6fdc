package domain

import (
	"time"
)

// Rate is one row of the latest set: the current value of a base/target pair.
type Rate struct {
	Base      string
	Target    string
	Value     float64
	UpdatedAt time.Time
}

// HistoryEntry is one sampled point of the append-only time series. An entry is
// written for every currency in every successful refresh cycle, even when the
// value did not change.
type HistoryEntry struct {
	Base       string
	Target     string
	Value      float64
	RecordedAt time.Time
}

// Status is the composed state snapshot served to status consumers.
type Status struct {
	BaseCurrency      string
	EnabledCurrencies []string
	IntervalMinutes   int
	LastUpdated       time.Time
	NextScheduledAt   time.Time
	IsCached          bool
	StoredRateCount   int
}
