// Package quality scores a post for length, structure, astrology depth and SEO
// signals. The score is advisory; callers decide whether to act on it.
package quality

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/astroaura/astroblog/internal/astro"
)

// PassScore is the minimum score for a post to pass.
const PassScore = 70.0

const (
	minWords      = 500
	maxWords      = 2500
	minParagraphs = 5
	minHeadings   = 2
	maxHeadings   = 10
	minMetaLen    = 120
	maxMetaLen    = 160
	minTitleLen   = 30
	maxTitleLen   = 70
)

var (
	essentialTerms = []string{
		"astrology", "horoscope", "zodiac", "planet", "sign", "chart",
		"moon", "sun", "mercury", "venus", "mars", "jupiter", "saturn",
		"cosmic", "celestial", "natal", "birth", "transit",
	}
	advancedTerms = []string{
		"retrograde", "conjunction", "opposition", "trine", "square", "sextile",
		"ascendant", "descendant", "midheaven", "houses", "aspects",
		"ephemeris", "orb", "cusp", "stellium",
	}
	spiritualTerms = []string{
		"energy", "intuition", "spiritual", "manifestation", "consciousness",
		"alignment", "harmony", "wisdom", "guidance", "awakening",
	}
	practicalTerms = []string{"today", "this week", "current", "now", "practice", "apply"}
	redFlags       = []string{
		"generic", "vague", "template", "placeholder", "lorem ipsum",
		"fake", "artificial", "automated", "low quality",
	}
	seoKeywords = []string{"astrology", "horoscope", "astroaura"}
	months      = []string{
		"january", "february", "march", "april", "may", "june",
		"july", "august", "september", "october", "november", "december",
	}

	tagRe       = regexp.MustCompile(`<[^>]+>`)
	headingRe   = regexp.MustCompile(`<h[1-6][^>]*>`)
	paragraphRe = regexp.MustCompile(`<p[\s>]`)
	listRe      = regexp.MustCompile(`<[ou]l[^>]*>`)
	sectionRe   = regexp.MustCompile(`<section[^>]*>`)
	internalRe  = regexp.MustCompile(`href="[^"]*\.html"`)
)

// Result is the outcome of a validation. Issues prefixed "CRITICAL" fail the
// post regardless of score.
type Result struct {
	Score       float64  `json:"score"`
	Issues      []string `json:"issues"`
	Warnings    []string `json:"warnings"`
	Suggestions []string `json:"suggestions"`
	Passed      bool     `json:"passed"`
}

// Validator scores posts. Now supplies the current month and year for the
// relevance checks.
type Validator struct {
	Now func() time.Time
}

func New() *Validator {
	return &Validator{Now: time.Now}
}

// Validate scores a post. sky may be nil, which skips the relevance checks.
func (v *Validator) Validate(title, content, meta string, sky *astro.Snapshot) Result {
	var r Result
	score := 100.0

	score += v.title(&r, title)
	score += v.meta(&r, meta)
	score += v.structure(&r, content)
	score += v.authenticity(&r, content)
	score += v.seo(&r, title, content, meta)
	if sky != nil {
		score += v.relevance(&r, content, *sky)
	}

	r.Score = min(score, 100)
	critical := false
	for _, issue := range r.Issues {
		if strings.Contains(strings.ToLower(issue), "critical") {
			critical = true
			break
		}
	}
	r.Passed = r.Score >= PassScore && !critical
	return r
}

func (v *Validator) title(r *Result, title string) float64 {
	if strings.TrimSpace(title) == "" {
		r.Issues = append(r.Issues, "CRITICAL: Title is empty")
		return -50
	}
	adj := 0.0
	switch n := len(title); {
	case n < minTitleLen:
		r.Issues = append(r.Issues, fmt.Sprintf("Title too short (%d chars, minimum %d)", n, minTitleLen))
		adj -= 10
	case n > maxTitleLen:
		r.Issues = append(r.Issues, fmt.Sprintf("Title too long (%d chars, maximum %d)", n, maxTitleLen))
		adj -= 5
	}

	lower := strings.ToLower(title)
	switch n := countTerms(lower, essentialTerms); {
	case n == 0:
		r.Issues = append(r.Issues, "Title lacks astrology-specific terms")
		adj -= 10
	case n >= 2:
		adj += 5
	}

	if strings.Contains(title, fmt.Sprint(v.Now().Year())) || countTerms(lower, months) > 0 {
		adj += 5
	}
	return adj
}

func (v *Validator) meta(r *Result, meta string) float64 {
	if strings.TrimSpace(meta) == "" {
		r.Issues = append(r.Issues, "CRITICAL: Meta description is empty")
		return -30
	}
	adj := 0.0
	switch n := len(meta); {
	case n < minMetaLen:
		r.Issues = append(r.Issues, fmt.Sprintf("Meta description too short (%d chars, minimum %d)", n, minMetaLen))
		adj -= 10
	case n > maxMetaLen:
		r.Issues = append(r.Issues, fmt.Sprintf("Meta description too long (%d chars, maximum %d)", n, maxMetaLen))
		adj -= 5
	default:
		adj += 5
	}
	if strings.Contains(strings.ToLower(meta), "astroaura") {
		adj += 3
	}
	return adj
}

func (v *Validator) structure(r *Result, content string) float64 {
	if strings.TrimSpace(content) == "" {
		r.Issues = append(r.Issues, "CRITICAL: Content is empty")
		return -50
	}
	adj := 0.0

	words := len(strings.Fields(tagRe.ReplaceAllString(content, " ")))
	switch {
	case words < minWords:
		r.Issues = append(r.Issues, fmt.Sprintf("Content too short (%d words, minimum %d)", words, minWords))
		adj -= 15
	case words > maxWords:
		r.Warnings = append(r.Warnings, fmt.Sprintf("Content might be too long (%d words, recommended maximum %d)", words, maxWords))
		adj -= 5
	default:
		adj += 10
	}

	switch n := len(headingRe.FindAllString(content, -1)); {
	case n < minHeadings:
		r.Issues = append(r.Issues, fmt.Sprintf("Too few headings (%d, minimum %d)", n, minHeadings))
		adj -= 10
	case n > maxHeadings:
		r.Warnings = append(r.Warnings, fmt.Sprintf("Many headings (%d, recommended maximum %d)", n, maxHeadings))
	default:
		adj += 5
	}

	if n := len(paragraphRe.FindAllString(content, -1)); n < minParagraphs {
		r.Warnings = append(r.Warnings, fmt.Sprintf("Few paragraphs (%d, recommended minimum %d)", n, minParagraphs))
		adj -= 5
	}
	if listRe.MatchString(content) {
		adj += 3
	}
	if len(sectionRe.FindAllString(content, -1)) >= 3 {
		adj += 5
	}
	return adj
}

func (v *Validator) authenticity(r *Result, content string) float64 {
	lower := strings.ToLower(content)
	adj := 0.0

	switch n := countTerms(lower, essentialTerms); {
	case n < 5:
		r.Issues = append(r.Issues, fmt.Sprintf("Lacks essential astrology terms (%d found, need at least 5)", n))
		adj -= 15
	case n >= 10:
		adj += 10
	default:
		adj += 5
	}

	switch n := countTerms(lower, advancedTerms); {
	case n >= 3:
		adj += 10
	case n == 0:
		r.Warnings = append(r.Warnings, "No advanced astrology terms found - content might be too basic")
		adj -= 3
	}

	if countTerms(lower, spiritualTerms) >= 3 {
		adj += 5
	}

	switch n := countTerms(lower, practicalTerms); {
	case n >= 3:
		adj += 8
	case n == 0:
		r.Warnings = append(r.Warnings, "Content lacks practical, current application")
		adj -= 5
	}

	if n := countTerms(lower, redFlags); n > 0 {
		r.Issues = append(r.Issues, fmt.Sprintf("Content contains quality red flags: %d found", n))
		adj -= float64(n) * 5
	}
	return adj
}

func (v *Validator) seo(r *Result, title, content, meta string) float64 {
	lc, lt, lm := strings.ToLower(content), strings.ToLower(title), strings.ToLower(meta)
	adj := 0.0

	consistent := 0
	for _, k := range seoKeywords {
		if strings.Contains(lt, k) && strings.Contains(lm, k) && strings.Contains(lc, k) {
			consistent++
		}
	}
	switch {
	case consistent >= 2:
		adj += 8
	case consistent == 1:
		adj += 3
	default:
		r.Warnings = append(r.Warnings, "Low keyword consistency across title, meta, and content")
		adj -= 5
	}

	switch n := len(internalRe.FindAllString(content, -1)); {
	case n >= 2:
		adj += 5
	case n == 0:
		r.Suggestions = append(r.Suggestions, "Add internal links to improve SEO and user navigation")
	}

	appLinks := strings.Count(lc, "download") + strings.Count(lc, "app store") + strings.Count(lc, "google play")
	switch {
	case appLinks >= 2:
		adj += 5
	case appLinks == 0:
		r.Suggestions = append(r.Suggestions, "Include app download calls-to-action")
	}

	if strings.Contains(lc, "schema") || strings.Contains(lc, "structured") {
		adj += 3
	}
	return adj
}

func (v *Validator) relevance(r *Result, content string, sky astro.Snapshot) float64 {
	lower := strings.ToLower(content)
	adj := 0.0

	if sign := strings.ToLower(sky.SunSign); sign != "" && strings.Contains(lower, sign) {
		adj += 5
	}
	if phase := strings.ToLower(sky.MoonPhase); phase != "" && strings.Contains(lower, phase) {
		adj += 5
	}
	mentionsRetro := strings.Contains(lower, "retrograde")
	switch {
	case sky.MercuryRetrograde && mentionsRetro:
		adj += 8
	case !sky.MercuryRetrograde && mentionsRetro:
		r.Warnings = append(r.Warnings, "Content mentions retrograde but Mercury is not currently retrograde")
		adj -= 3
	}
	if season := strings.ToLower(sky.Season); season != "" && strings.Contains(lower, season) {
		adj += 3
	}

	now := v.Now()
	if strings.Contains(lower, strings.ToLower(now.Month().String())) || strings.Contains(lower, fmt.Sprint(now.Year())) {
		adj += 5
	}
	return adj
}

// countTerms counts how many of terms occur as substrings of s.
func countTerms(s string, terms []string) int {
	n := 0
	for _, t := range terms {
		if strings.Contains(s, t) {
			n++
		}
	}
	return n
}
