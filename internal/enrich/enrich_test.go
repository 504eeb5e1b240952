package enrich

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/launchforge/accel-api/internal/logger"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
  <title>Acme Dispatch - Logistics for SMBs</title>
  <meta name="description" content="Acme Dispatch automates delivery routing for small fleets.">
</head>
<body>
  <h1>Routing that runs itself</h1>
  <h2>Trusted by 200 fleets</h2>
  <nav>
    <a href="/pricing">Pricing</a>
    <a href="/careers">Careers</a>
    <a href="/blog">Blog</a>
  </nav>
  <p>Our platform offers an API for automation and analytics, trusted by customers worldwide.</p>
</body>
</html>`

func parseSample(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse sample html: %v", err)
	}
	return doc
}

func TestParseExtractsTitleAndDescription(t *testing.T) {
	e := NewEnricher(logger.NewNop())
	profile := e.Parse(parseSample(t, samplePage))

	if profile.Title != "Acme Dispatch - Logistics for SMBs" {
		t.Errorf("unexpected title: %s", profile.Title)
	}
	if !strings.Contains(profile.Description, "delivery routing") {
		t.Errorf("unexpected description: %s", profile.Description)
	}
}

func TestParseDetectsNavigationSignals(t *testing.T) {
	e := NewEnricher(logger.NewNop())
	profile := e.Parse(parseSample(t, samplePage))

	if !profile.HasPricing {
		t.Error("expected pricing link to be detected")
	}
	if !profile.HasCareers {
		t.Error("expected careers link to be detected")
	}
	if !profile.HasBlog {
		t.Error("expected blog link to be detected")
	}
	if !profile.MentionsUsers {
		t.Error("expected traction mention to be detected")
	}
}

func TestParseCollectsKeywords(t *testing.T) {
	e := NewEnricher(logger.NewNop())
	profile := e.Parse(parseSample(t, samplePage))

	want := map[string]bool{"api": false, "platform": false, "automation": false, "analytics": false}
	for _, k := range profile.Keywords {
		if _, ok := want[k]; ok {
			want[k] = true
		}
	}
	for k, found := range want {
		if !found {
			t.Errorf("expected keyword %q to be collected, got %v", k, profile.Keywords)
		}
	}
}

func TestParseEmptyDocument(t *testing.T) {
	e := NewEnricher(logger.NewNop())
	profile := e.Parse(parseSample(t, "<html><body></body></html>"))

	if profile.Title != "" || profile.Description != "" {
		t.Errorf("expected empty profile, got %+v", profile)
	}
	if len(profile.Keywords) != 0 {
		t.Errorf("expected no keywords, got %v", profile.Keywords)
	}
}

func TestEnrichFetchesAndParses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(samplePage))
	}))
	defer server.Close()

	e := NewEnricher(logger.NewNop())
	profile, err := e.Enrich(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Enrich failed: %v", err)
	}
	if profile.Title == "" {
		t.Error("expected title to be populated")
	}
	if profile.URL != server.URL {
		t.Errorf("expected URL %s, got %s", server.URL, profile.URL)
	}
	if profile.FetchedAt.IsZero() {
		t.Error("expected FetchedAt to be set")
	}
}

func TestEnrichNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	e := NewEnricher(logger.NewNop())
	if _, err := e.Enrich(context.Background(), server.URL); err == nil {
		t.Error("expected error for non-200 response")
	}
}
