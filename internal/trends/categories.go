package trends

import (
	"regexp"
	"strings"
)

// CatchAll is assigned when no category keyword matches.
const CatchAll = "culture"

type category struct {
	name string
	re   *regexp.Regexp
}

func wordsRe(words ...string) *regexp.Regexp {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// Scanned in order; the first match wins.
var categories = []category{
	{"wellness", wordsRe("mental health", "stress", "anxiety", "wellness", "health", "fitness", "diet", "mindfulness", "sleep", "meditation")},
	{"career", wordsRe("work", "job", "jobs", "career", "office", "remote", "hiring", "layoff", "layoffs")},
	{"finance", wordsRe("money", "inflation", "crypto", "bitcoin", "stock", "stocks", "market", "economy", "price", "prices")},
	{"relationships", wordsRe("dating", "relationship", "relationships", "love", "wedding", "marriage", "breakup")},
	{"technology", wordsRe("ai", "tech", "app", "iphone", "android", "software", "robot")},
	{"environment", wordsRe("climate", "environment", "weather", "storm", "earth", "eclipse")},
	{"society", wordsRe("social", "election", "protest", "community")},
	{"spirituality", wordsRe("astrology", "horoscope", "zodiac", "moon", "mercury", "tarot", "spiritual")},
}

// Categorize returns the first category whose keywords appear in topic.
func Categorize(topic string) string {
	for _, c := range categories {
		if c.re.MatchString(topic) {
			return c.name
		}
	}
	return CatchAll
}

type angle struct {
	re       *regexp.Regexp
	angle    string
	keywords []string
}

var angles = []angle{
	{wordsRe("mental health"), "Moon cycles and emotional healing", []string{"moon-phases", "emotional-healing"}},
	{wordsRe("stress"), "Saturn's lessons in resilience", []string{"saturn-transit", "stress-management"}},
	{wordsRe("anxiety"), "Mercury retrograde and mental clarity", []string{"mercury-retrograde", "anxiety-relief"}},
	{wordsRe("wellness"), "Holistic cosmic healing", []string{"holistic-healing", "cosmic-wellness"}},
	{wordsRe("work"), "Saturn's influence on career growth", []string{"career-astrology", "saturn-transit"}},
	{wordsRe("job", "jobs"), "Jupiter's expansion in professional life", []string{"jupiter-transit", "career-growth"}},
	{wordsRe("money"), "Pluto's transformation of wealth consciousness", []string{"financial-astrology", "abundance-mindset"}},
	{wordsRe("inflation"), "Saturn in Capricorn and economic cycles", []string{"economic-astrology", "saturn-capricorn"}},
	{wordsRe("dating"), "Venus retrograde and modern love", []string{"venus-retrograde", "relationship-astrology"}},
	{wordsRe("relationship", "relationships"), "Cosmic compatibility and connection", []string{"compatibility", "relationship-guidance"}},
	{wordsRe("love"), "Venus energy and heart wisdom", []string{"venus-energy", "love-astrology"}},
	{wordsRe("ai"), "Uranus revolution in consciousness", []string{"uranus-transit", "technology-astrology"}},
	{wordsRe("tech"), "Aquarian age innovation", []string{"aquarius-age", "innovation-astrology"}},
	{wordsRe("crypto"), "Neptune's digital illusions and reality", []string{"neptune-transit", "digital-finance"}},
	{wordsRe("climate"), "Neptune's call for collective healing", []string{"collective-healing", "environmental-astrology"}},
	{wordsRe("environment"), "Earth sign wisdom for planetary care", []string{"earth-signs", "environmental-consciousness"}},
	{wordsRe("social"), "Aquarian consciousness and social change", []string{"aquarius-energy", "social-transformation"}},
	{wordsRe("health"), "Virgoan wisdom for holistic wellness", []string{"virgo-energy", "holistic-health"}},
	{wordsRe("fitness"), "Mars energy and physical vitality", []string{"mars-energy", "physical-wellness"}},
	{wordsRe("diet"), "Moon cycles and nutritional wisdom", []string{"lunar-nutrition", "wellness-astrology"}},
}

const defaultAngle = "Cosmic perspective on modern life"

// AngleFor returns the astrological framing and keyword tags for topic.
func AngleFor(topic string) (string, []string) {
	for _, a := range angles {
		if a.re.MatchString(topic) {
			kw := append(append([]string(nil), a.keywords...), "trending-topics")
			return a.angle, kw
		}
	}
	return defaultAngle, []string{"cosmic-wisdom", "modern-astrology", "trending-topics"}
}
