package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Stats summarizes publishing history.
type Stats struct {
	Runs           int            `json:"runs"`
	Published      int            `json:"published"`
	PublishedMonth int            `json:"published_this_month"`
	Failures       int            `json:"failures"`
	LastPublished  *time.Time     `json:"last_published,omitempty"`
	ByProvider     map[string]int `json:"by_provider"`
}

// Stats computes totals; "this month" is the calendar month of now in UTC.
func (s *Store) Stats(now time.Time) (*Stats, error) {
	st := &Stats{ByProvider: make(map[string]int)}
	now = now.UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).Format(timeFmt)

	var last sql.NullString
	err := s.db.QueryRow(`SELECT
			COUNT(*),
			COALESCE(SUM(status = ?), 0),
			COALESCE(SUM(status = ? AND started_at >= ?), 0),
			COALESCE(SUM(status = ?), 0),
			MAX(CASE WHEN status = ? THEN started_at END)
		FROM runs`,
		StatusPublished, StatusPublished, monthStart, StatusFailed, StatusPublished,
	).Scan(&st.Runs, &st.Published, &st.PublishedMonth, &st.Failures, &last)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	if last.Valid {
		t := parseTime(last.String)
		st.LastPublished = &t
	}

	rows, err := s.db.Query(`SELECT COALESCE(provider, ''), COUNT(*) FROM runs WHERE status = ? GROUP BY provider`, StatusPublished)
	if err != nil {
		return nil, fmt.Errorf("stats by provider: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p string
		var n int
		if err := rows.Scan(&p, &n); err != nil {
			return nil, fmt.Errorf("stats by provider: %w", err)
		}
		st.ByProvider[p] = n
	}
	return st, rows.Err()
}
