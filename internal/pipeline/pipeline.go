// Package pipeline runs one end-to-end generation: pick a topic, build the
// post, check it, write its page and synchronize the feeds.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/astroaura/astroblog/internal/config"
	"github.com/astroaura/astroblog/internal/feed"
	"github.com/astroaura/astroblog/internal/notify"
	"github.com/astroaura/astroblog/internal/post"
	"github.com/astroaura/astroblog/internal/quality"
	"github.com/astroaura/astroblog/internal/render"
	"github.com/astroaura/astroblog/internal/store"
	"github.com/astroaura/astroblog/internal/trends"
)

// Run triggers recorded in the store.
const (
	TriggerManual     = "manual"
	TriggerSchedule   = "schedule"
	TriggerPublishNow = "publish-now"
)

// ErrQualityBlocked is returned when a post scores below the configured floor.
var ErrQualityBlocked = errors.New("quality below threshold")

// TopicSource is implemented by *trends.Discoverer.
type TopicSource interface {
	Discover(ctx context.Context) []trends.Topic
	Describe(name, source string) trends.Topic
}

// Runner holds everything a run needs. Store, Notify and Validator may be nil.
type Runner struct {
	Topics    TopicSource
	Builder   *post.Builder
	Validator *quality.Validator
	Feeds     *feed.Synchronizer
	Store     *store.Store
	Notify    *notify.Client
	FS        feed.FileSystem

	Site       config.SiteConfig
	PagesDir   string  // where <slug>.html is written
	BlockBelow float64 // 0 disables quality gating
}

// Options adjust a single run.
type Options struct {
	Topic         string // explicit topic; empty means discover trends
	ForceFallback bool
	Trigger       string
}

// Outcome describes a finished run.
type Outcome struct {
	RunID   string
	Record  *post.Record
	Sync    *feed.Result
	Quality *quality.Result
}

// Run executes the pipeline. A failure before the index is persisted leaves
// every artifact untouched.
func (r *Runner) Run(ctx context.Context, opts Options) (*Outcome, error) {
	if opts.Trigger == "" {
		opts.Trigger = TriggerManual
	}
	out := &Outcome{}

	// 1. Record the run
	run := &store.Run{Trigger: opts.Trigger, Topic: opts.Topic}
	if r.Store != nil {
		if err := r.Store.CreateRun(run); err != nil {
			return nil, err
		}
		out.RunID = run.ID
	}

	// 2. Choose a topic
	topic := r.chooseTopic(ctx, opts.Topic)
	slog.Info("topic selected", "topic", topic.Name, "category", topic.Category, "source", topic.Source)

	// 3. Build the post
	rec := r.Builder.Build(ctx, topic, post.Options{ForceFallback: opts.ForceFallback})
	out.Record = rec

	// 4. Check quality
	if r.Validator != nil {
		q := r.Validator.Validate(rec.Title, rec.Content, rec.MetaDescription, rec.Astronomical)
		out.Quality = &q
		slog.Info("quality checked", "slug", rec.Slug, "score", q.Score, "passed", q.Passed,
			"issues", len(q.Issues), "warnings", len(q.Warnings))
		if r.BlockBelow > 0 && q.Score < r.BlockBelow {
			err := fmt.Errorf("%w: scored %.1f, need %.1f", ErrQualityBlocked, q.Score, r.BlockBelow)
			return out, r.fail(ctx, run, topic.Name, rec, out, err)
		}
	}

	// 5. Write the post page
	if err := r.writePage(rec); err != nil {
		return out, r.fail(ctx, run, topic.Name, rec, out, err)
	}

	// 6. Synchronize the index and feeds
	res, err := r.Feeds.Sync(*rec)
	if err != nil {
		return out, r.fail(ctx, run, topic.Name, rec, out, err)
	}
	out.Sync = res

	// 7. Close the run and announce it
	if r.Store != nil {
		if err := r.Store.FinishRun(run.ID, outcome(store.StatusPublished, rec, out, "")); err != nil {
			slog.Warn("failed to record run outcome", "run", run.ID, "error", err)
		}
	}
	if err := r.Notify.SendPublished(ctx, rec.Title, rec.URL); err != nil {
		slog.Warn("publish notification failed", "error", err)
	}
	slog.Info("post published", "slug", rec.Slug, "url", rec.URL, "provider", rec.Provider,
		"replaced", res.Replaced, "skipped", len(res.Skipped))
	return out, nil
}

func (r *Runner) chooseTopic(ctx context.Context, explicit string) trends.Topic {
	if name := strings.TrimSpace(explicit); name != "" {
		return r.Topics.Describe(name, "cli")
	}
	return pickFresh(r.Topics.Discover(ctx), r.indexedTitles())
}

func (r *Runner) indexedTitles() []string {
	posts, err := r.Feeds.Posts()
	if err != nil {
		slog.Warn("could not read index for topic selection", "error", err)
		return nil
	}
	titles := make([]string, len(posts))
	for i, p := range posts {
		titles[i] = strings.ToLower(p.Title)
	}
	return titles
}

// pickFresh returns the highest ranked topic that no indexed title already
// mentions, or the top topic when every candidate has been covered.
func pickFresh(topics []trends.Topic, titles []string) trends.Topic {
	if len(topics) == 0 {
		return trends.DefaultTopic()
	}
	for _, t := range topics {
		name := strings.ToLower(t.Name)
		covered := false
		for _, title := range titles {
			if strings.Contains(title, name) {
				covered = true
				break
			}
		}
		if !covered {
			return t
		}
	}
	return topics[0]
}

func (r *Runner) writePage(rec *post.Record) error {
	fsys := r.FS
	if fsys == nil {
		fsys = feed.NewOSFileSystem()
	}
	var b strings.Builder
	err := render.Page(&b, render.PageData{
		Title:       rec.Title,
		Description: rec.MetaDescription,
		URL:         rec.URL,
		Image:       rec.Image,
		Author:      rec.Author,
		Category:    rec.Category,
		Keywords:    rec.Keywords,
		Date:        rec.Date,
		ReadingTime: rec.ReadingTime,
		Body:        rec.Content,
		SiteName:    r.Site.Title,
		SiteURL:     r.Site.URL,
		BlogURL:     r.Site.BlogURL,
		Language:    r.Site.Language,
	})
	if err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	if err := fsys.MkdirAll(r.PagesDir, 0o755); err != nil {
		return fmt.Errorf("create posts dir: %w", err)
	}
	path := filepath.Join(r.PagesDir, rec.Slug+".html")
	if err := fsys.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write page: %w", err)
	}
	slog.Debug("post page written", "path", path)
	return nil
}

func (r *Runner) fail(ctx context.Context, run *store.Run, topic string, rec *post.Record, out *Outcome, err error) error {
	slog.Error("run failed", "topic", topic, "error", err)
	if r.Store != nil {
		if ferr := r.Store.FinishRun(run.ID, outcome(store.StatusFailed, rec, out, err.Error())); ferr != nil {
			slog.Warn("failed to record run outcome", "run", run.ID, "error", ferr)
		}
	}
	if nerr := r.Notify.SendFailure(ctx, topic, err); nerr != nil {
		slog.Warn("failure notification failed", "error", nerr)
	}
	return err
}

func outcome(status string, rec *post.Record, out *Outcome, errMsg string) store.Outcome {
	o := store.Outcome{Status: status, Error: errMsg, FinishedAt: time.Now()}
	if rec != nil {
		o.Slug, o.Title, o.Provider = rec.Slug, rec.Title, rec.Provider
	}
	if out.Quality != nil {
		score := out.Quality.Score
		o.QualityScore = &score
	}
	return o
}
