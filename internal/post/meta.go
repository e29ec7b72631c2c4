package post

import "strings"

const (
	// MaxMetaLen is the longest meta description we emit.
	MaxMetaLen = 155

	productName = "astroaura"
	metaSuffix  = " Get personalized insights with AstroAura's AI-powered astrology app."
	ellipsis    = "..."
)

// MetaDescription derives the SEO description from the first two sentences of
// the plain prose text, or from a template when there is none. The result is
// at most MaxMetaLen characters and always mentions AstroAura.
func MetaDescription(prose, topic string) string {
	desc := firstSentences(prose, 2)
	if desc == "" {
		desc = "Discover what the stars reveal about " + topic + " with practical cosmic guidance for today."
	}

	if strings.Contains(strings.ToLower(desc), productName) {
		if len(desc) <= MaxMetaLen {
			return desc
		}
		cut := cutRunes(desc, MaxMetaLen-len(ellipsis)) + ellipsis
		if strings.Contains(strings.ToLower(cut), productName) {
			return cut
		}
		// The mention was beyond the cut; fall through and append it.
	}

	if len(desc)+len(metaSuffix) <= MaxMetaLen {
		return desc + metaSuffix
	}
	room := MaxMetaLen - len(metaSuffix) - len(ellipsis)
	return strings.TrimSpace(cutRunes(desc, room)) + ellipsis + metaSuffix
}

// firstSentences returns up to n sentences terminated by '.', '!' or '?'.
func firstSentences(text string, n int) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	count := 0
	for i, r := range text {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		// Only a terminator followed by space or end of text ends a sentence.
		if i+1 < len(text) && text[i+1] != ' ' {
			continue
		}
		count++
		if count == n {
			return strings.TrimSpace(text[:i+1])
		}
	}
	return text
}

// cutRunes truncates s to at most max bytes without splitting a UTF-8 sequence.
func cutRunes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	end := 0
	for i := range s {
		if i > max {
			break
		}
		end = i
	}
	return s[:end]
}
