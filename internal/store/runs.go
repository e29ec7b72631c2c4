package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const timeFmt = "2006-01-02T15:04:05Z"

// Run statuses.
const (
	StatusRunning   = "running"
	StatusPublished = "published"
	StatusFailed    = "failed"
)

// Run is one invocation of the generation pipeline.
type Run struct {
	ID           string     `json:"id"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	Trigger      string     `json:"trigger"` // manual, schedule, publish-now
	Topic        string     `json:"topic,omitempty"`
	Slug         string     `json:"slug,omitempty"`
	Title        string     `json:"title,omitempty"`
	Provider     string     `json:"provider,omitempty"`
	Status       string     `json:"status"`
	Error        string     `json:"error,omitempty"`
	QualityScore *float64   `json:"quality_score,omitempty"`
}

// Outcome is what FinishRun records.
type Outcome struct {
	Status       string
	Slug         string
	Title        string
	Provider     string
	Error        string
	QualityScore *float64
	FinishedAt   time.Time
}

func (s *Store) CreateRun(r *Run) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.StartedAt.IsZero() {
		r.StartedAt = time.Now()
	}
	if r.Status == "" {
		r.Status = StatusRunning
	}
	if r.Trigger == "" {
		r.Trigger = "manual"
	}
	_, err := s.db.Exec(`INSERT INTO runs (id, started_at, "trigger", topic, status) VALUES (?, ?, ?, ?, ?)`,
		r.ID, r.StartedAt.UTC().Format(timeFmt), r.Trigger, r.Topic, r.Status)
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	return nil
}

func (s *Store) FinishRun(id string, o Outcome) error {
	if o.FinishedAt.IsZero() {
		o.FinishedAt = time.Now()
	}
	res, err := s.db.Exec(`UPDATE runs SET finished_at = ?, status = ?, slug = ?, title = ?, provider = ?, error = ?, quality_score = ?
		WHERE id = ?`,
		o.FinishedAt.UTC().Format(timeFmt), o.Status, o.Slug, o.Title, o.Provider, nullable(o.Error), o.QualityScore, id)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("finish run: no run %q", id)
	}
	return nil
}

const runColumns = `id, started_at, finished_at, "trigger", topic, COALESCE(slug, ''), COALESCE(title, ''),
	COALESCE(provider, ''), status, COALESCE(error, ''), quality_score`

// GetRun returns nil, nil when no run has the id.
func (s *Store) GetRun(id string) (*Run, error) {
	r, err := scanRun(s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return r, nil
}

// ListRuns returns the most recent runs first.
func (s *Store) ListRuns(limit int) ([]*Run, error) {
	rows, err := s.db.Query(`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	r := &Run{}
	var started string
	var finished sql.NullString
	var score sql.NullFloat64
	if err := sc.Scan(&r.ID, &started, &finished, &r.Trigger, &r.Topic, &r.Slug, &r.Title,
		&r.Provider, &r.Status, &r.Error, &score); err != nil {
		return nil, err
	}
	r.StartedAt = parseTime(started)
	if finished.Valid {
		t := parseTime(finished.String)
		r.FinishedAt = &t
	}
	if score.Valid {
		v := score.Float64
		r.QualityScore = &v
	}
	return r, nil
}

func parseTime(s string) time.Time {
	for _, layout := range []string{timeFmt, "2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
