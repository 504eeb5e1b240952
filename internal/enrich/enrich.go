package enrich

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/launchforge/accel-api/internal/logger"
)

// Profile holds due-diligence signals extracted from a startup's website
type Profile struct {
	URL           string    `json:"url"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Headings      []string  `json:"headings,omitempty"`
	Keywords      []string  `json:"keywords,omitempty"`
	HasPricing    bool      `json:"has_pricing"`
	HasCareers    bool      `json:"has_careers"`
	HasBlog       bool      `json:"has_blog"`
	MentionsUsers bool      `json:"mentions_users"`
	FetchedAt     time.Time `json:"fetched_at"`
}

// Summary renders the profile as a short text block for assessment input
func (p *Profile) Summary() string {
	var b strings.Builder
	if p.Description != "" {
		b.WriteString(p.Description)
	}
	for _, h := range p.Headings {
		if b.Len() > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(h)
	}
	return b.String()
}

// Enricher fetches startup websites and extracts structured signals
type Enricher struct {
	httpClient *http.Client
	logger     logger.Logger
}

// NewEnricher creates an enricher with a bounded fetch timeout
func NewEnricher(log logger.Logger) *Enricher {
	return &Enricher{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: log,
	}
}

// Enrich fetches the given website and parses it into a Profile
func (e *Enricher) Enrich(ctx context.Context, url string) (*Profile, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; AccelBot/1.0)")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s returned status %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", url, err)
	}

	profile := e.Parse(doc)
	profile.URL = url
	profile.FetchedAt = time.Now()
	e.logger.Debug("Enriched website", "url", url, "keywords", len(profile.Keywords))
	return profile, nil
}

// Parse extracts signals from an already-fetched document
func (e *Enricher) Parse(doc *goquery.Document) *Profile {
	profile := &Profile{}

	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		profile.Title = title
	}

	// Meta description first, og:description as fallback
	descriptionSelectors := []string{
		"meta[name='description']",
		"meta[property='og:description']",
		"meta[name='twitter:description']",
	}
	for _, selector := range descriptionSelectors {
		if content, ok := doc.Find(selector).First().Attr("content"); ok {
			content = strings.TrimSpace(content)
			if content != "" {
				profile.Description = content
				break
			}
		}
	}

	doc.Find("h1, h2").Each(func(i int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text != "" && len(text) < 120 && len(profile.Headings) < 10 {
			profile.Headings = append(profile.Headings, text)
		}
	})

	// Navigation signals suggest organizational maturity
	doc.Find("a").Each(func(i int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		target := strings.ToLower(href + " " + s.Text())
		if strings.Contains(target, "pricing") || strings.Contains(target, "plans") {
			profile.HasPricing = true
		}
		if strings.Contains(target, "careers") || strings.Contains(target, "jobs") {
			profile.HasCareers = true
		}
		if strings.Contains(target, "blog") || strings.Contains(target, "changelog") {
			profile.HasBlog = true
		}
	})

	allText := strings.ToLower(doc.Find("body").Text())

	tractionKeywords := []string{
		"customers", "users", "trusted by", "case study", "testimonial",
	}
	for _, keyword := range tractionKeywords {
		if strings.Contains(allText, keyword) {
			profile.MentionsUsers = true
			break
		}
	}

	signalKeywords := []string{
		"api", "saas", "platform", "marketplace", "open source",
		"machine learning", "analytics", "enterprise", "self-serve",
		"mobile", "integration", "automation", "compliance",
	}
	for _, keyword := range signalKeywords {
		if strings.Contains(allText, keyword) {
			profile.Keywords = append(profile.Keywords, keyword)
		}
	}

	return profile
}
