// Package post builds canonical post records from a topic and the current sky.
package post

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/astroaura/astroblog/internal/astro"
	"github.com/astroaura/astroblog/internal/content"
	"github.com/astroaura/astroblog/internal/render"
	"github.com/astroaura/astroblog/internal/trends"
)

// FallbackProvider marks records whose body came from the template renderer.
const FallbackProvider = "fallback"

// Record is one blog post. Records are created once and never mutated.
type Record struct {
	Title           string          `json:"title"`
	Slug            string          `json:"slug"`
	Date            time.Time       `json:"date"`
	MetaDescription string          `json:"meta_description"`
	Keywords        []string        `json:"keywords"`
	Author          string          `json:"author"`
	Category        string          `json:"category,omitempty"`
	AstroAngle      string          `json:"astro_angle,omitempty"`
	Astronomical    *astro.Snapshot `json:"astronomical_data,omitempty"`
	URL             string          `json:"url,omitempty"`
	Image           string          `json:"image,omitempty"`
	ReadingTime     int             `json:"reading_time,omitempty"`
	Provider        string          `json:"provider,omitempty"`
	Content         string          `json:"content,omitempty"`
}

// TextGenerator is satisfied by *content.Chain.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (*content.Result, error)
}

// Site carries the site-level values a record needs.
type Site struct {
	Author  string
	SiteURL string
	BlogURL string
	Image   string // default social image
}

// Options adjust a single Build call.
type Options struct {
	// ForceFallback skips the providers and uses the template body.
	ForceFallback bool
}

// Builder assembles records. Randomness and time are injected so a fixed
// seed and clock give reproducible output.
type Builder struct {
	gen  TextGenerator
	rnd  *rand.Rand
	now  func() time.Time
	site Site
}

func NewBuilder(gen TextGenerator, rnd *rand.Rand, now func() time.Time, site Site) *Builder {
	if now == nil {
		now = time.Now
	}
	return &Builder{gen: gen, rnd: rnd, now: now, site: site}
}

// NewRand returns a seeded source; seed 0 seeds from the clock.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1|1))
}

// Build always returns a complete record: provider failures fall back to the
// template renderer.
func (b *Builder) Build(ctx context.Context, topic trends.Topic, opts Options) *Record {
	now := b.now().Truncate(time.Second)
	sky := astro.Compute(now)
	title := b.Title(topic, sky)
	slug := Slugify(title)

	body, prose, provider := b.body(ctx, topic, sky, opts)

	rec := &Record{
		Title:           title,
		Slug:            slug,
		Date:            now,
		MetaDescription: MetaDescription(prose, topic.Name),
		Keywords:        Keywords(topic),
		Author:          b.site.Author,
		Category:        topic.Category,
		AstroAngle:      topic.Angle,
		Astronomical:    &sky,
		URL:             b.site.BlogURL + "/posts/" + slug + ".html",
		Image:           b.imageFor(topic),
		ReadingTime:     ReadingTime(body),
		Provider:        provider,
		Content:         body,
	}
	slog.Info("post built", "slug", rec.Slug, "provider", provider, "category", rec.Category)
	return rec
}

// body returns the HTML body, the plain text the description is cut from and
// the provider name.
func (b *Builder) body(ctx context.Context, topic trends.Topic, sky astro.Snapshot, opts Options) (string, string, string) {
	if opts.ForceFallback || b.gen == nil {
		return render.Fallback(topic.Name, sky), render.FallbackMeta(topic.Name, sky), FallbackProvider
	}
	res, err := b.gen.Generate(ctx, content.Prompt(topic.Name, topic.Angle, sky))
	if err != nil {
		slog.Warn("content generation failed, using fallback", "topic", topic.Name, "error", err)
		return render.Fallback(topic.Name, sky), render.FallbackMeta(topic.Name, sky), FallbackProvider
	}
	return render.FromText(res.Text), render.Prose(res.Text), res.Provider
}

func (b *Builder) imageFor(topic trends.Topic) string {
	if strings.HasPrefix(topic.Image, "/") {
		return b.site.SiteURL + topic.Image
	}
	if topic.Image != "" {
		return topic.Image
	}
	return b.site.Image
}

// Title picks one of the headline templates at random.
func (b *Builder) Title(topic trends.Topic, sky astro.Snapshot) string {
	templates := titleTemplates(topic, sky)
	return templates[b.rnd.IntN(len(templates))]
}

func titleTemplates(topic trends.Topic, sky astro.Snapshot) []string {
	t := topic.Name
	out := []string{
		"The Cosmic Truth About " + t + ": What the Stars Reveal",
		t + " Through an Astrological Lens: Your Cosmic Guide",
		"The Universe's Take on " + t + ": Astrological Insights for Modern Life",
		t + " in " + sky.SunSign + " Season - Cosmic Insights and Guidance",
		t + ": Your Complete Guide for " + sky.Date.Format("January 2006"),
	}
	if topic.Angle != "" && topic.Category != "" {
		out = append(out,
			"How "+topic.Angle+" Can Transform Your "+titleCase(topic.Category)+" Journey",
			"Why "+topic.Angle+" is the Key to Mastering "+t,
		)
	}
	return out
}

// Keywords merges topic keywords with the category and brand terms,
// lowercased and deduplicated in first-seen order.
func Keywords(topic trends.Topic) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(k string) {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" || seen[k] {
			return
		}
		seen[k] = true
		out = append(out, k)
	}
	for _, k := range topic.Keywords {
		add(k)
	}
	add(topic.Category)
	add("astrology")
	add("astroaura")
	return out
}

// ReadingTime estimates minutes at 200 words per minute, at least one.
func ReadingTime(body string) int {
	words := len(strings.Fields(render.StripTags(body)))
	mins := (words + 199) / 200
	if mins < 1 {
		return 1
	}
	return mins
}

func titleCase(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "-", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
