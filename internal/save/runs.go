package save

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Run summarises one finished run.
type Run struct {
	Level       int
	Ticks       int64
	DamageDealt int
	DamageTaken int
	Gold        int
	Kills       map[string]int // monster class -> count
	EndedAt     time.Time
}

// TotalKills sums Kills.
func (r Run) TotalKills() int {
	n := 0
	for _, k := range r.Kills {
		n += k
	}
	return n
}

// RecordRun appends r to the run history. A zero EndedAt is stamped with the
// current time.
func (s *Store) RecordRun(ctx context.Context, r Run) error {
	if r.EndedAt.IsZero() {
		r.EndedAt = time.Now()
	}
	kills, err := json.Marshal(r.Kills)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (level, ticks, damage_dealt, damage_taken, gold, kills, ended_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.Level, r.Ticks, r.DamageDealt, r.DamageTaken, r.Gold, string(kills), r.EndedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// Runs returns up to limit runs, most recent first. A limit of zero or less
// returns every run.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT level, ticks, damage_dealt, damage_taken, gold, kills, ended_at
		FROM runs ORDER BY ended_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			r     Run
			kills string
			ns    int64
		)
		if err := rows.Scan(&r.Level, &r.Ticks, &r.DamageDealt, &r.DamageTaken, &r.Gold, &kills, &ns); err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		if err := json.Unmarshal([]byte(kills), &r.Kills); err != nil {
			return nil, fmt.Errorf("list runs: kills: %w", err)
		}
		r.EndedAt = time.Unix(0, ns)
		out = append(out, r)
	}
	return out, rows.Err()
}
