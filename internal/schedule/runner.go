package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/astroaura/astroblog/internal/post"
)

// Runner fires Run on every cron tick that the policy admits.
type Runner struct {
	Cron   *Cron
	Policy Policy
	Posts  func() ([]post.Record, error)
	Run    func(ctx context.Context) error

	Now   func() time.Time
	After func(time.Duration) <-chan time.Time
}

// Tick runs one admission check at now and, if admitted, the run function.
// A failing run is logged and returned; the loop keeps going.
func (r *Runner) Tick(ctx context.Context, now time.Time) (bool, error) {
	posts, err := r.Posts()
	if err != nil {
		return false, fmt.Errorf("load posts: %w", err)
	}
	if !r.Policy.ShouldGenerate(posts, now) {
		slog.Info("scheduled run skipped", "reason", "admission", "posts", len(posts))
		return false, nil
	}
	if err := r.Run(ctx); err != nil {
		return true, err
	}
	return true, nil
}

// Start blocks, sleeping until each cron fire time, until ctx is cancelled.
func (r *Runner) Start(ctx context.Context) error {
	now := r.Now
	if now == nil {
		now = time.Now
	}
	after := r.After
	if after == nil {
		after = time.After
	}

	for {
		next := r.Cron.Next(now())
		if next.IsZero() {
			return fmt.Errorf("schedule %q never fires", r.Cron)
		}
		slog.Info("next scheduled run", "at", next.Format(time.RFC3339))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-after(time.Until(next)):
		}

		if _, err := r.Tick(ctx, now()); err != nil {
			slog.Error("scheduled run failed", "error", err)
		}
	}
}
