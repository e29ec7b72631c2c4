package schedule

import (
	"time"

	"github.com/astroaura/astroblog/internal/post"
)

// Policy bounds how often scheduled runs publish.
type Policy struct {
	MinInterval time.Duration // publish freely once the newest post is this old
	MaxPerDay   int           // otherwise, allow up to this many posts per calendar day
}

// DefaultPolicy is one post per day, at most three on a busy day.
var DefaultPolicy = Policy{MinInterval: 24 * time.Hour, MaxPerDay: 3}

// ShouldGenerate reports whether a scheduled run may publish now. posts is
// the index, newest first; records without a date are ignored.
func (p Policy) ShouldGenerate(posts []post.Record, now time.Time) bool {
	var newest time.Time
	today := 0
	y, m, d := now.Date()
	for _, rec := range posts {
		if rec.Date.IsZero() {
			continue
		}
		if rec.Date.After(newest) {
			newest = rec.Date
		}
		ry, rm, rd := rec.Date.In(now.Location()).Date()
		if ry == y && rm == m && rd == d {
			today++
		}
	}
	if newest.IsZero() {
		return true
	}
	if now.Sub(newest) > p.MinInterval {
		return true
	}
	return today < p.MaxPerDay
}
