package render

import (
	"html"
	"regexp"
	"strings"
)

var (
	blankLineRe = regexp.MustCompile(`\n[ \t]*\n`)
	boldRe      = regexp.MustCompile(`\*\*([^*\n]+)\*\*`)
	italicRe    = regexp.MustCompile(`\*([^*\n]+)\*`)
)

// FromText converts provider output into the post body: blank-line separated
// paragraphs, "#" lines and short title-like lines as headings, **bold** and
// *italic* emphasis. Text is escaped before any markup is added. The CTA block
// is appended.
func FromText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var b strings.Builder
	b.WriteString("<div class=\"blog-content\">\n")
	for _, block := range blankLineRe.Split(text, -1) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		// A heading may be glued to the first paragraph by a single newline.
		if first, rest, ok := strings.Cut(block, "\n"); ok && strings.HasPrefix(first, "#") {
			writeHeading(&b, first)
			writeParagraph(&b, rest)
			continue
		}
		switch {
		case strings.HasPrefix(block, "#"):
			writeHeading(&b, block)
		case looksLikeHeading(block):
			b.WriteString("    <h2>" + inline(block) + "</h2>\n")
		default:
			writeParagraph(&b, block)
		}
	}
	b.WriteString(ctaHTML)
	b.WriteString("\n</div>")
	return b.String()
}

func writeHeading(b *strings.Builder, line string) {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	title := strings.TrimSpace(strings.Trim(line[level:], "*"))
	if title == "" {
		return
	}
	// "#" maps to h2; the page title owns h1.
	tag := "h" + string(rune('0'+min(level+1, 6)))
	b.WriteString("    <" + tag + ">" + html.EscapeString(title) + "</" + tag + ">\n")
}

func writeParagraph(b *strings.Builder, block string) {
	block = strings.TrimSpace(block)
	if block == "" {
		return
	}
	block = strings.Join(strings.Fields(block), " ")
	b.WriteString("    <p>" + inline(block) + "</p>\n")
}

func inline(s string) string {
	s = html.EscapeString(s)
	s = boldRe.ReplaceAllString(s, "<strong>$1</strong>")
	s = italicRe.ReplaceAllString(s, "<em>$1</em>")
	return s
}

func looksLikeHeading(block string) bool {
	if len(block) >= 100 || strings.Contains(block, "\n") {
		return false
	}
	if strings.Count(block, ".") > 1 || strings.HasSuffix(block, ".") {
		return false
	}
	if strings.HasSuffix(block, "?") || strings.HasSuffix(block, "!") || strings.HasSuffix(block, ":") {
		return false
	}
	c := block[0]
	return c >= 'A' && c <= 'Z'
}

// Prose returns the paragraph text of provider output with headings dropped
// and emphasis markers removed.
func Prose(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var parts []string
	for _, block := range blankLineRe.Split(text, -1) {
		block = strings.TrimSpace(block)
		if first, rest, ok := strings.Cut(block, "\n"); ok && strings.HasPrefix(first, "#") {
			block = strings.TrimSpace(rest)
		}
		if block == "" || strings.HasPrefix(block, "#") || looksLikeHeading(block) {
			continue
		}
		block = boldRe.ReplaceAllString(block, "$1")
		block = italicRe.ReplaceAllString(block, "$1")
		parts = append(parts, strings.Join(strings.Fields(block), " "))
	}
	return strings.Join(parts, " ")
}

// StripTags removes markup and collapses whitespace.
func StripTags(s string) string {
	s = tagRe.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(html.UnescapeString(s)), " ")
}

var tagRe = regexp.MustCompile(`<[^>]+>`)
