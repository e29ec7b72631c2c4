package quality

import (
	"strings"
	"testing"
	"time"

	"github.com/astroaura/astroblog/internal/astro"
)

func testValidator() *Validator {
	return &Validator{Now: func() time.Time { return time.Date(2025, time.May, 3, 9, 0, 0, 0, time.UTC) }}
}

const goodTitle = "Mercury Retrograde Astrology and Your Horoscope for May 2025"

const goodMeta = "Navigate Mercury retrograde with astrology and your daily horoscope. " +
	"Get personalized insights with AstroAura's AI-powered astrology app today."

func richContent() string {
	var b strings.Builder
	para := "<p>Astrology and your horoscope show how the zodiac sign, planet and natal chart shape today. " +
		"The moon, sun, mercury, venus, mars, jupiter and saturn form a cosmic and celestial transit at birth. " +
		"Retrograde, conjunction and trine aspects bring energy, intuition, wisdom and guidance you can practice and apply now. " +
		"Gemini season in spring with a waning gibbous moon invites current reflection.</p>\n"
	for s := 0; s < 3; s++ {
		b.WriteString(`<section class="part"><h2>Cosmic Section</h2>` + "\n")
		for i := 0; i < 5; i++ {
			b.WriteString(para)
		}
		b.WriteString("<ul><li>one</li></ul></section>\n")
	}
	b.WriteString(`<p>Read <a href="/about.html">about</a> and <a href="/features.html">features</a>. ` +
		`Download AstroAura on the App Store or Google Play. AstroAura uses structured schema data.</p>`)
	return b.String()
}

func TestValidateEmpty(t *testing.T) {
	r := testValidator().Validate("", "", "", nil)
	if r.Passed {
		t.Fatal("empty post should fail")
	}
	critical := 0
	for _, issue := range r.Issues {
		if strings.HasPrefix(issue, "CRITICAL") {
			critical++
		}
	}
	if critical != 3 {
		t.Fatalf("critical issues = %d, want 3: %v", critical, r.Issues)
	}
}

func TestValidateRichPostCapped(t *testing.T) {
	sky := &astro.Snapshot{SunSign: "Gemini", MoonPhase: "Waning Gibbous", Season: "Spring", MercuryRetrograde: true}
	r := testValidator().Validate(goodTitle, richContent(), goodMeta, sky)
	if r.Score != 100 {
		t.Fatalf("score = %.1f, want capped at 100 (issues %v warnings %v)", r.Score, r.Issues, r.Warnings)
	}
	if !r.Passed {
		t.Fatalf("rich post failed: %v", r.Issues)
	}
	if len(r.Issues) != 0 {
		t.Errorf("unexpected issues: %v", r.Issues)
	}
}

func TestValidateRetrogradeMismatch(t *testing.T) {
	sky := &astro.Snapshot{SunSign: "Gemini", MoonPhase: "Full Moon", Season: "Summer"}
	r := testValidator().Validate(goodTitle, richContent(), goodMeta, sky)
	found := false
	for _, w := range r.Warnings {
		if strings.Contains(w, "not currently retrograde") {
			found = true
		}
	}
	if !found {
		t.Fatalf("warnings = %v", r.Warnings)
	}
}

func TestValidateShortTitleAndRedFlags(t *testing.T) {
	r := testValidator().Validate("Short", "<p>lorem ipsum placeholder</p>", goodMeta, nil)
	wantPrefixes := []string{
		"Title too short (5 chars, minimum 30)",
		"Title lacks astrology-specific terms",
		"Content contains quality red flags: 2 found",
	}
	for _, want := range wantPrefixes {
		ok := false
		for _, issue := range r.Issues {
			if strings.HasPrefix(issue, want) {
				ok = true
			}
		}
		if !ok {
			t.Errorf("missing issue %q in %v", want, r.Issues)
		}
	}
	if r.Passed {
		t.Error("thin post should not pass")
	}
}

func TestGrade(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{100, "A+"},
		{90, "A+"},
		{85, "A "},
		{70, "B"},
		{65, "C"},
		{10, "D/F"},
	}
	for _, tt := range tests {
		if got := Grade(tt.score); !strings.HasPrefix(got, tt.want) {
			t.Errorf("Grade(%v) = %q, want prefix %q", tt.score, got, tt.want)
		}
	}
}

func TestReport(t *testing.T) {
	out := Report(Result{Score: 72.5, Passed: true, Warnings: []string{"Few paragraphs"}})
	for _, want := range []string{"Score:  72.5/100", "Status: PASSED", "Warnings:\n  - Few paragraphs", "Grade:  B (Good)"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Issues:") {
		t.Error("empty sections should be omitted")
	}
}
