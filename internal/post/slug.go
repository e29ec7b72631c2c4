package post

import (
	"regexp"
	"strings"
)

// MaxSlugLen bounds slug length.
const MaxSlugLen = 50

var (
	slugStripRe    = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugCollapseRe = regexp.MustCompile(`[\s-]+`)
)

// Slugify derives the URL slug for a title. The same title always yields the
// same slug; collisions between different titles are not resolved.
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = slugStripRe.ReplaceAllString(s, "")
	s = slugCollapseRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > MaxSlugLen {
		s = strings.TrimRight(s[:MaxSlugLen], "-")
	}
	return s
}
