package trends

import (
	"regexp"
	"strings"
)

// Topic is a categorized trend candidate ready for the post builder.
type Topic struct {
	Name     string   `json:"topic"`
	Source   string   `json:"source"`
	Category string   `json:"category"`
	Angle    string   `json:"astro_angle"`
	Keywords []string `json:"keywords"`
	Image    string   `json:"image"`
	Score    int      `json:"popularity_score"`
}

// NameClassifier decides whether a trend string is probably a person's name.
type NameClassifier interface {
	IsPersonName(s string) bool
}

// RegexNameClassifier flags exactly "Capitalized Capitalized" strings. It
// rejects some real topics ("Cosmic Energy") and misses many names.
type RegexNameClassifier struct{}

var personNameRe = regexp.MustCompile(`^[A-Z][a-z]+ [A-Z][a-z]+$`)

func (RegexNameClassifier) IsPersonName(s string) bool {
	return personNameRe.MatchString(s)
}

// Labeled pairs a raw trend list with the tag of the adapter that produced it.
type Labeled struct {
	Source string
	Items  []string
}

// Normalizer turns raw adapter output into at most TopK topics.
type Normalizer struct {
	TopK       int
	Classifier NameClassifier
}

func NewNormalizer(topK int) *Normalizer {
	return &Normalizer{TopK: topK, Classifier: RegexNameClassifier{}}
}

// DefaultTopic is returned when no candidate survives normalization.
func DefaultTopic() Topic {
	return Topic{
		Name:     "Mindfulness and Mental Health",
		Source:   "default",
		Category: "wellness",
		Angle:    "Moon cycles and emotional balance",
		Keywords: []string{"moon-phases", "mental-health", "mindfulness"},
		Image:    imageFor("wellness"),
		Score:    100,
	}
}

// Normalize flattens, dedupes, filters, categorizes and ranks. The result is
// never empty.
func (n *Normalizer) Normalize(lists []Labeled) []Topic {
	seen := make(map[string]bool)
	var out []Topic
	for _, l := range lists {
		for _, raw := range l.Items {
			name := strings.Join(strings.Fields(raw), " ")
			if name == "" {
				continue
			}
			key := strings.ToLower(name)
			if seen[key] {
				continue
			}
			seen[key] = true
			if n.Classifier != nil && n.Classifier.IsPersonName(name) {
				continue
			}
			out = append(out, n.Describe(name, l.Source))
		}
	}

	for i := range out {
		out[i].Score = scoreFor(i)
	}
	if n.TopK > 0 && len(out) > n.TopK {
		out = out[:n.TopK]
	}
	if len(out) == 0 {
		return []Topic{DefaultTopic()}
	}
	return out
}

// Describe categorizes a single topic name without ranking it. Used for
// topics supplied directly on the command line.
func (n *Normalizer) Describe(name, source string) Topic {
	category := Categorize(name)
	angle, keywords := AngleFor(name)
	return Topic{
		Name:     name,
		Source:   source,
		Category: category,
		Angle:    angle,
		Keywords: keywords,
		Image:    imageFor(category),
		Score:    scoreFor(0),
	}
}

func scoreFor(position int) int {
	s := 100 - 3*position
	if s < 1 {
		return 1
	}
	return s
}

func imageFor(category string) string {
	return "/assets/images/blog/" + category + ".jpg"
}
