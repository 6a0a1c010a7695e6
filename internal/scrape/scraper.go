package scrape

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/arkdex/arkdex/backend/go-services/internal/trivia"
	"github.com/arkdex/arkdex/backend/go-services/pkg/logger"
	"github.com/arkdex/arkdex/backend/go-services/pkg/metrics"
)

const defaultBaseURL = "https://arknights.fandom.com/wiki"

// Archiver stores the raw HTML of a scraped page and returns the object key.
type Archiver interface {
	PutHTML(ctx context.Context, key string, body []byte) (string, error)
}

// Config controls scraping behavior.
type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// Scraper fetches and parses operator trivia pages.
type Scraper struct {
	fetcher *Fetcher
	baseURL string
	archive Archiver
}

// New creates a Scraper. archive may be nil (raw snapshots disabled).
func New(cfg Config, archive Archiver) *Scraper {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	return &Scraper{
		fetcher: NewFetcher(cfg.Timeout, cfg.UserAgent),
		baseURL: base,
		archive: archive,
	}
}

// PageURL returns the trivia subpage URL for an operator. Spaces become
// underscores per wiki convention before escaping.
func (s *Scraper) PageURL(operator string) string {
	slug := strings.ReplaceAll(strings.TrimSpace(operator), " ", "_")
	return s.baseURL + "/" + url.PathEscape(slug) + "/Trivia"
}

// ScrapeTrivia fetches, parses and validates one operator's trivia page.
// When an archiver is configured the raw HTML is stored and the record
// carries the archive key.
func (s *Scraper) ScrapeTrivia(ctx context.Context, operator string) (*trivia.Record, error) {
	pageURL := s.PageURL(operator)
	logger.Debugf("scraping trivia: operator=%s url=%s", operator, pageURL)

	body, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		metrics.ScrapesFailed.WithLabelValues("trivia").Inc()
		return nil, err
	}

	doc, err := ParseTriviaPage(body, operator, pageURL)
	if err != nil {
		metrics.ScrapesFailed.WithLabelValues("trivia").Inc()
		return nil, fmt.Errorf("scrape: parse %s: %w", pageURL, err)
	}
	if err := doc.Validate(); err != nil {
		metrics.ScrapesFailed.WithLabelValues("trivia").Inc()
		return nil, err
	}

	rec := &trivia.Record{
		Document:  *doc,
		FetchedAt: time.Now().UTC(),
	}

	if s.archive != nil {
		key := strings.ReplaceAll(doc.Name, " ", "_") + "/Trivia.html"
		archiveKey, err := s.archive.PutHTML(ctx, key, body)
		if err != nil {
			// archiving is best-effort; the parsed document still stands
			logger.Warnf("archive snapshot failed for %s: %v", operator, err)
		} else {
			rec.ArchiveKey = archiveKey
		}
	}

	metrics.ScrapesTotal.WithLabelValues("trivia").Inc()
	logger.Infof("scraped trivia: operator=%s items=%d", doc.Name, len(doc.TriviaItems))
	return rec, nil
}
