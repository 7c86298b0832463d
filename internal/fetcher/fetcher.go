package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Fetcher downloads a hosted resume (personal site, public profile page) and
// strips it down to plain text suitable for skill extraction.
type Fetcher struct {
	http *http.Client
}

func NewFetcher() *Fetcher {
	return &Fetcher{http: &http.Client{Timeout: 15 * time.Second}}
}

// ResumeText fetches the page at rawURL and returns its visible text content.
func (f *Fetcher) ResumeText(ctx context.Context, rawURL, userAgent string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported url scheme: %s", u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch resume: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("fetch resume: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse resume page: %w", err)
	}

	doc.Find("script, style, nav, header, footer, noscript, iframe").Remove()

	var parts []string
	body := doc.Find("main, article, body").First()
	body.Find("p, h1, h2, h3, h4, li, pre, td").Each(func(i int, s *goquery.Selection) {
		if text := cleanText(s.Text()); text != "" {
			parts = append(parts, text)
		}
	})

	content := strings.TrimSpace(strings.Join(parts, "\n"))
	if content == "" {
		return "", fmt.Errorf("no readable text at %s", rawURL)
	}
	return content, nil
}

var whitespaceRE = regexp.MustCompile(`[ \t]+`)

// cleanText collapses whitespace and drops empty lines
func cleanText(text string) string {
	text = whitespaceRE.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return strings.Join(cleaned, "\n")
}
