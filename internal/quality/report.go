package quality

import (
	"fmt"
	"strings"
)

// Grade maps a score to a letter grade.
func Grade(score float64) string {
	switch {
	case score >= 90:
		return "A+ (Excellent)"
	case score >= 80:
		return "A (Very Good)"
	case score >= 70:
		return "B (Good)"
	case score >= 60:
		return "C (Acceptable)"
	default:
		return "D/F (Needs Improvement)"
	}
}

// Report renders r as a plain-text report.
func Report(r Result) string {
	var b strings.Builder
	b.WriteString("CONTENT QUALITY REPORT\n")
	b.WriteString(strings.Repeat("=", 50) + "\n\n")
	fmt.Fprintf(&b, "Score:  %.1f/100\n", r.Score)
	if r.Passed {
		b.WriteString("Status: PASSED\n\n")
	} else {
		b.WriteString("Status: FAILED - NEEDS IMPROVEMENT\n\n")
	}

	section := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		b.WriteString(title + ":\n")
		for _, it := range items {
			b.WriteString("  - " + it + "\n")
		}
		b.WriteString("\n")
	}
	section("Issues", r.Issues)
	section("Warnings", r.Warnings)
	section("Suggestions", r.Suggestions)

	fmt.Fprintf(&b, "Grade:  %s\n", Grade(r.Score))
	return b.String()
}
