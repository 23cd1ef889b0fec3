// Package gnews builds Google News RSS search queries and fetches them.
package gnews

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed/rss"
)

const baseURL = "https://news.google.com/rss/search"

// Default query sets: energy topics restricted to a fixed group of outlets.
var idQueries = []string{
	"(migas OR minyak OR gas OR energi) site:esdm.go.id",
	"(migas OR minyak OR gas OR energi) site:katadata.co.id",
	"(migas OR minyak OR gas OR energi) site:cnbcindonesia.com",
	"(migas OR minyak OR gas OR energi) site:bisnis.com",
	"(migas OR minyak OR gas OR energi) site:cnnindonesia.com",
}

var globalQueries = []string{
	"(oil OR gas OR LNG OR energy) site:reuters.com",
	"(oil OR gas OR LNG OR energy) site:aljazeera.com",
	"(oil OR gas OR LNG OR energy) site:bloomberg.com",
	"(oil OR gas OR LNG OR energy) site:ft.com",
	"(oil OR gas OR LNG OR energy) site:wsj.com",
}

// Queries returns the search queries for one aggregation run.
// Scope "id" and "global" pick the matching default list, anything else
// both lists with the regional ones first. Non-empty keywords replace the
// whole list with a single free-text query; the upstream service repeated
// that query once per replaced entry, which only produced identical fetches,
// so it is collapsed here. A recency token restricts every query via the
// Google News "when:" operator.
func Queries(scope, keywords, when string) []string {
	var queries []string
	switch scope {
	case "id":
		queries = append(queries, idQueries...)
	case "global":
		queries = append(queries, globalQueries...)
	default:
		queries = append(queries, idQueries...)
		queries = append(queries, globalQueries...)
	}

	if kw := strings.TrimSpace(keywords); kw != "" {
		queries = []string{kw}
	}

	if when = strings.TrimSpace(when); when != "" {
		for i, q := range queries {
			queries[i] = fmt.Sprintf("(%s) when:%s", q, when)
		}
	}

	return queries
}

// FeedURL builds the search feed URL for one query.
func FeedURL(query, lang, country string) string {
	p := url.Values{}
	p.Set("q", query)
	p.Set("hl", lang)
	p.Set("gl", country)
	p.Set("ceid", country+":"+lang)
	return baseURL + "?" + p.Encode()
}

// Fetcher downloads search feeds concurrently, tolerating per-feed failure.
type Fetcher struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
	log       *slog.Logger
	feedURL   func(query, lang, country string) string
}

// NewFetcher wires a fetcher with its own HTTP client. The timeout bounds
// each individual feed request.
func NewFetcher(appName string, timeout time.Duration, log *slog.Logger) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: strings.ToLower(appName) + "-aggregator/1.0",
		timeout:   timeout,
		log:       log,
		feedURL:   FeedURL,
	}
}

// FetchAll issues one request per query, all in parallel, and re-joins the
// outcomes in submission order. A failed or unparseable feed contributes an
// empty slice; the batch itself never fails.
func (f *Fetcher) FetchAll(ctx context.Context, queries []string, lang, country string) [][]*rss.Item {
	batches := make([][]*rss.Item, len(queries))

	var wg sync.WaitGroup
	for i, q := range queries {
		wg.Add(1)
		go func(i int, q string) {
			defer wg.Done()

			items, err := f.fetch(ctx, q, lang, country)
			if err != nil {
				f.log.Warn("feed fetch failed", slog.String("query", q), slog.Any("err", err))
				return
			}
			batches[i] = items
		}(i, q)
	}
	wg.Wait()

	return batches
}

func (f *Fetcher) fetch(ctx context.Context, query, lang, country string) ([]*rss.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.feedURL(query, lang, country), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed responded with status %d", resp.StatusCode)
	}

	// rss.Parser is not safe for concurrent use, so each fetch gets its own.
	parser := &rss.Parser{}
	feed, err := parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	return feed.Items, nil
}
