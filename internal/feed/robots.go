package feed

import "fmt"

// Robots renders robots.txt pointing crawlers at the sitemap.
func Robots(siteURL string) string {
	return fmt.Sprintf(`# AstroAura Website Robots.txt

User-agent: *
Allow: /
Disallow: /automation/
Disallow: /.github/

User-agent: GPTBot
Allow: /

User-agent: Google-Extended
Allow: /

Sitemap: %s/sitemap.xml

Crawl-delay: 1
`, siteURL)
}
