package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ratehub/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RateStore struct {
	pool *pgxpool.Pool
}

type batchRow struct {
	Target string  `json:"target"`
	Value  float64 `json:"value"`
}

func marshalRates(rates map[string]float64) (json.RawMessage, error) {
	payload := make([]batchRow, 0, len(rates))
	for target, value := range rates {
		payload = append(payload, batchRow{Target: target, Value: value})
	}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal rates payload: %w", err)
	}
	return payloadJSON, nil
}

// UpsertLatest replaces the single latest row per (base,target). One statement,
// so each pair flips atomically under concurrent readers.
func (s *RateStore) UpsertLatest(ctx context.Context, base string, rates map[string]float64, now time.Time) error {
	if len(rates) == 0 {
		return nil
	}

	payloadJSON, err := marshalRates(rates)
	if err != nil {
		return err
	}

	const q = `
		with input_rows as (
			select * from json_to_recordset($2::json) as r(target text, value numeric)
		)
		insert into exchange_rates (base_currency, target_currency, rate, last_updated)
		select $1, ir.target, ir.value, $3 from input_rows ir
		on conflict (base_currency, target_currency) do update
		  set rate = excluded.rate, last_updated = excluded.last_updated;
	`

	if _, err = s.pool.Exec(ctx, q, base, payloadJSON, now); err != nil {
		return fmt.Errorf("failed to upsert latest rates for %q: %w", base, err)
	}
	return nil
}

// AppendHistory inserts one history row per currency, unconditionally. Callers
// pass the same now they passed to UpsertLatest so the latest set and the tail
// of history agree for the cycle.
func (s *RateStore) AppendHistory(ctx context.Context, base string, rates map[string]float64, now time.Time) error {
	if len(rates) == 0 {
		return nil
	}

	payloadJSON, err := marshalRates(rates)
	if err != nil {
		return err
	}

	const q = `
		insert into exchange_rates_history (base_currency, target_currency, rate, recorded_at)
		select $1, ir.target, ir.value, $3
		from json_to_recordset($2::json) as ir(target text, value numeric);
	`

	if _, err = s.pool.Exec(ctx, q, base, payloadJSON, now); err != nil {
		return fmt.Errorf("failed to append history for %q: %w", base, err)
	}
	return nil
}

func (s *RateStore) GetLatest(ctx context.Context, base string) ([]domain.Rate, error) {
	const q = `
		select base_currency, target_currency, rate, last_updated
		from exchange_rates
		where base_currency = $1
		order by target_currency asc;
	`

	rows, err := s.pool.Query(ctx, q, base)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest rates for %q: %w", base, err)
	}
	defer rows.Close()

	rates := make([]domain.Rate, 0, 64)
	for rows.Next() {
		var r domain.Rate
		if err = rows.Scan(&r.Base, &r.Target, &r.Value, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan latest rate: %w", err)
		}
		rates = append(rates, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating latest rates: %w", err)
	}
	return rates, nil
}

func (s *RateStore) GetOne(ctx context.Context, base string, target string) (domain.Rate, error) {
	const q = `
		select base_currency, target_currency, rate, last_updated
		from exchange_rates
		where base_currency = $1 and target_currency = $2;
	`

	var r domain.Rate
	if err := s.pool.QueryRow(ctx, q, base, target).Scan(&r.Base, &r.Target, &r.Value, &r.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Rate{}, domain.ErrRateNotFound
		}
		return domain.Rate{}, fmt.Errorf("failed to select rate for pair %q/%q: %w", base, target, err)
	}
	return r, nil
}

func (s *RateStore) GetHistory(ctx context.Context, base string, target string, limit int) ([]domain.HistoryEntry, error) {
	const q = `
		select base_currency, target_currency, rate, recorded_at
		from exchange_rates_history
		where base_currency = $1 and target_currency = $2
		order by recorded_at desc
		limit $3;
	`

	rows, err := s.pool.Query(ctx, q, base, target, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history for %q/%q: %w", base, target, err)
	}
	defer rows.Close()

	entries := make([]domain.HistoryEntry, 0, limit)
	for rows.Next() {
		var e domain.HistoryEntry
		if err = rows.Scan(&e.Base, &e.Target, &e.Value, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history entries: %w", err)
	}
	return entries, nil
}

func (s *RateStore) CountLatest(ctx context.Context, base string) (int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, `select count(*) from exchange_rates where base_currency = $1`, base).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count latest rates for %q: %w", base, err)
	}
	return count, nil
}

// LastUpdatedAt reports when the latest set for base was last written; zero
// when nothing is stored. Lets status survive a restart of the process.
func (s *RateStore) LastUpdatedAt(ctx context.Context, base string) (time.Time, error) {
	var updated *time.Time
	if err := s.pool.QueryRow(ctx, `select max(last_updated) from exchange_rates where base_currency = $1`, base).Scan(&updated); err != nil {
		return time.Time{}, fmt.Errorf("failed to select last update time for %q: %w", base, err)
	}
	if updated == nil {
		return time.Time{}, nil
	}
	return *updated, nil
}

// DropAll irreversibly removes all latest and history data. Teardown only.
func (s *RateStore) DropAll(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `truncate table exchange_rates, exchange_rates_history restart identity`); err != nil {
		return fmt.Errorf("failed to drop rate data: %w", err)
	}
	return nil
}

func NewRateStore(pool *pgxpool.Pool) *RateStore {
	return &RateStore{pool: pool}
}
