package content

import (
	"fmt"
	"strings"

	"github.com/astroaura/astroblog/internal/astro"
)

// Prompt builds the article request sent to every provider.
func Prompt(topic, angle string, snap astro.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write an engaging, SEO-friendly astrology blog post about %q for the AstroAura blog.\n\n", topic)
	b.WriteString("Current cosmic context:\n")
	fmt.Fprintf(&b, "- Date: %s\n", snap.Date.Format("January 2, 2006"))
	fmt.Fprintf(&b, "- Sun sign season: %s (%s)\n", snap.SunSign, astro.SignThemes(snap.SunSign))
	fmt.Fprintf(&b, "- Moon phase: %s\n", snap.MoonPhase)
	fmt.Fprintf(&b, "- Season: %s\n", snap.Season)
	if snap.MercuryRetrograde {
		b.WriteString("- Mercury is retrograde\n")
	} else {
		b.WriteString("- Mercury is direct\n")
	}
	if angle != "" {
		fmt.Fprintf(&b, "- Astrological angle: %s\n", angle)
	}
	b.WriteString(`
Structure the post with these section headings, each on its own line starting with "# ":
# The Cosmic Connection
# Understanding the Astrological Influence
# Practical Cosmic Guidance
# Your Personal Cosmic Blueprint

Requirements:
- 800 to 1200 words, warm and practical, no fortune-telling claims
- include at least four concrete actions readers can take today
- mention the current moon phase and sun sign season naturally
- close by inviting readers to explore personalized insights in the AstroAura app
- separate paragraphs with a blank line; use **bold** for key ideas
`)
	return b.String()
}
