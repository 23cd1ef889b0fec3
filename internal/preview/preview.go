// Package preview resolves a representative image for ranked news items by
// reading each linked page's social-sharing metadata.
package preview

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/arkwork/energy-news/internal/models"
)

// maxBodyBytes caps how much of an article page is read while looking for
// meta tags; they live in <head>, so this is plenty.
const maxBodyBytes = 512 << 10

// Candidate selectors, checked in order.
var imageSelectors = []struct {
	selector string
	attr     string
}{
	{`meta[property="og:image"]`, "content"},
	{`meta[name="og:image"]`, "content"},
	{`meta[name="twitter:image"]`, "content"},
	{`link[rel="image_src"]`, "href"},
}

// Enricher fetches preview images under a bounded concurrency cap.
type Enricher struct {
	client    *http.Client
	userAgent string
	workers   int
	log       *slog.Logger
}

// NewEnricher builds an enricher. workers caps the number of article pages
// in flight at once; timeout bounds each individual page fetch.
func NewEnricher(appName string, timeout time.Duration, workers int, log *slog.Logger) *Enricher {
	if workers <= 0 {
		workers = 1
	}
	return &Enricher{
		client:    &http.Client{Timeout: timeout},
		userAgent: strings.ToLower(appName) + "-aggregator/1.0",
		workers:   workers,
		log:       log,
	}
}

// Enrich fills Image for every item with a non-empty link. Each goroutine
// writes only its own slot, so no locking is needed. Failures leave the
// Image empty for that item and never abort the batch; items keep their
// order.
func (e *Enricher) Enrich(ctx context.Context, items []models.NewsItem) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i := range items {
		if items[i].Link == "" {
			continue
		}
		i := i
		g.Go(func() error {
			img, err := e.fetchImage(ctx, items[i].Link)
			if err != nil {
				e.log.Debug("preview fetch failed", slog.String("link", items[i].Link), slog.Any("err", err))
				return nil
			}
			items[i].Image = img
			return nil
		})
	}

	// Workers always return nil; Wait only joins them.
	_ = g.Wait()
}

func (e *Enricher) fetchImage(ctx context.Context, link string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page responded with status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "html") {
		return "", fmt.Errorf("unexpected content type %q", ct)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}

	for _, c := range imageSelectors {
		if v, ok := doc.Find(c.selector).First().Attr(c.attr); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v, nil
			}
		}
	}

	return "", fmt.Errorf("no preview image tag found")
}
