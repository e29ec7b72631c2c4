// Package render produces the HTML for post bodies and post pages.
package render

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/astroaura/astroblog/internal/astro"
)

const (
	IOSAppURL     = "https://apps.apple.com/us/app/astroaura-daily-ai-astrology/id6749437213"
	AndroidAppURL = "https://play.google.com/store/apps/details?id=com.astroaura.me"
)

type fallbackData struct {
	Topic   string
	DateStr string
	Sky     astro.Snapshot
	Waning  bool
	Themes  string
}

var fallbackTmpl = template.Must(template.New("fallback").Parse(`<div class="blog-content enhanced-fallback">
    <section class="cosmic-introduction">
        <h2>Understanding {{.Topic}} in Today's Cosmic Climate</h2>
        <p>Welcome to your astrological guidance for {{.DateStr}}. As we move through {{.Sky.SunSign}} season with the {{.Sky.MoonPhase}} lighting our path, the sky offers practical insight into {{.Topic}} and how to meet it with intention.</p>
        <p>Today's celestial configuration presents real opportunities for growth. Let's explore how these cosmic influences can guide your daily decisions and support your longer-term goals.</p>
    </section>
    <section class="current-cosmic-weather">
        <h2>Current Cosmic Weather Report</h2>
        <div class="cosmic-highlights">
            <div class="cosmic-factor">
                <h3>Moon Phase: {{.Sky.MoonPhase}}</h3>
                {{- if .Waning}}
                <p>The {{.Sky.MoonPhase}} energy favours reflection, release and inner wisdom. This lunar phase encourages you to let go of limiting beliefs and patterns around {{.Topic}}.</p>
                {{- else}}
                <p>The {{.Sky.MoonPhase}} energy favours manifestation, new beginnings and setting intentions. This lunar phase encourages you to plant seeds for future growth around {{.Topic}}.</p>
                {{- end}}
            </div>
            <div class="cosmic-factor">
                <h3>Sun in {{.Sky.SunSign}}</h3>
                <p>{{.Sky.SunSign}} season brings focus to {{.Themes}}. It is an ideal time to align with {{.Sky.SunSign}} energy and bring its gifts into your daily practice.</p>
            </div>
            {{- if .Sky.MercuryRetrograde}}
            <div class="cosmic-factor mercury-rx">
                <h3>Mercury Retrograde Alert</h3>
                <p>Mercury is retrograde right now. Slow down, double-check messages and contracts, back up your files and use this window to review, revise and reconnect rather than launch something new.</p>
            </div>
            {{- else}}
            <div class="cosmic-factor">
                <h3>Mercury Direct Flow</h3>
                <p>With Mercury moving direct, communication flows clearly and technology supports our intentions. This is a good time for important conversations and new projects.</p>
            </div>
            {{- end}}
        </div>
    </section>
    <section class="practical-cosmic-guidance">
        <h2>Practical Cosmic Guidance for Today</h2>
        <p>Here's how you can consciously work with today's cosmic energy:</p>
        <ol class="cosmic-action-steps">
            <li><strong>Morning Cosmic Attunement:</strong> Begin your day by acknowledging the {{.Sky.MoonPhase}} energy and setting one clear intention connected to {{.Topic}}.</li>
            <li><strong>Midday Energy Check:</strong> Pause and notice how {{.Sky.SunSign}} themes of {{.Themes}} are showing up in your work and relationships.</li>
            <li><strong>Evening Cosmic Reflection:</strong> Journal about how today's influences played out and what you learned about yourself.</li>
            <li><strong>Weekly Cosmic Planning:</strong> Consider how this {{.Sky.Season}} energy can guide your upcoming goals and creative projects.</li>
            <li><strong>Monthly Cosmic Integration:</strong> Look for patterns in how lunar cycles support your personal evolution.</li>
        </ol>
    </section>
    <section class="deep-astrological-wisdom">
        <h2>Ancient Wisdom for Modern Cosmic Living</h2>
        <p>Astrology teaches that we are connected to the rhythms of the sky. Our ancestors read the planets to navigate challenges, celebrate opportunities and align with natural cycles of growth and renewal.</p>
        <blockquote class="cosmic-wisdom-quote">"As above, so below. As within, so without."</blockquote>
        <p>In a fast-moving world, astrology is a bridge between timeless insight and the decisions in front of us today.</p>
    </section>
    <section class="personalized-cosmic-insights">
        <h2>Unlock Your Personal Cosmic Story with AstroAura</h2>
        <p>General guidance is a starting point. Your birth chart shows how these transits affect you specifically.</p>
        <ul class="feature-list-enhanced">
            <li><strong>Personalized Daily Guidance:</strong> insights tailored to your birth chart and current transits.</li>
            <li><strong>Multilingual Cosmic Wisdom:</strong> authentic astrological guidance in 11 languages.</li>
            <li><strong>Real-Time Cosmic Weather:</strong> track how today's planetary movements touch your chart.</li>
            <li><strong>Interactive Cosmic Learning:</strong> deepen your understanding with guided lessons.</li>
        </ul>
    </section>
    <section class="cosmic-conclusion">
        <h2>Embracing Your Cosmic Journey with Confidence</h2>
        <p>The stars guide, but you decide. Work consciously with today's energy and {{.Topic}} becomes an invitation to grow rather than a source of stress.</p>
    </section>
{{template "cta" .}}
</div>`))

func init() {
	template.Must(fallbackTmpl.New("cta").Parse(ctaHTML))
}

const ctaHTML = `    <section class="astroaura-cta">
        <h3>Discover Your Personal Cosmic Story</h3>
        <p>Ready for personalized astrological insights? AstroAura's AI-powered app provides authentic cosmic guidance in 11 languages.</p>
        <div class="cta-buttons">
            <a href="` + IOSAppURL + `" class="download-btn ios">Download for iOS</a>
            <a href="` + AndroidAppURL + `" class="download-btn android">Download for Android</a>
        </div>
    </section>`

// Fallback renders the template body used when no provider produced text.
// Output depends only on topic and sky.
// FallbackMeta is the description that goes with Fallback.
func FallbackMeta(topic string, sky astro.Snapshot) string {
	return "Explore " + strings.ToLower(topic) + " under the " + sky.MoonPhase + " in " + sky.SunSign +
		" season, " + sky.Date.Format("January 2, 2006") + ". Practical cosmic guidance from AstroAura."
}

func Fallback(topic string, sky astro.Snapshot) string {
	data := fallbackData{
		Topic:   topic,
		DateStr: sky.Date.Format("January 2, 2006"),
		Sky:     sky,
		Waning:  astro.IsWaning(sky.MoonPhase),
		Themes:  astro.SignThemes(sky.SunSign),
	}
	var buf bytes.Buffer
	// Execution can only fail on writer errors, which bytes.Buffer never returns.
	_ = fallbackTmpl.Execute(&buf, data)
	return buf.String()
}
