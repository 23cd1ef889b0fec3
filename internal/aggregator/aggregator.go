// Package aggregator runs the full news pipeline for one request:
// build queries, fetch feeds, normalize, dedupe, rank, truncate, enrich.
package aggregator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmcdole/gofeed/rss"

	"github.com/arkwork/energy-news/internal/gnews"
	"github.com/arkwork/energy-news/internal/models"
	"github.com/arkwork/energy-news/internal/processing"
)

// Params select what one aggregation run fetches. Limit is already clamped
// by the caller.
type Params struct {
	Scope    string
	Lang     string
	Country  string
	Keywords string
	When     string
	Limit    int
}

type feedFetcher interface {
	FetchAll(ctx context.Context, queries []string, lang, country string) [][]*rss.Item
}

type imageEnricher interface {
	Enrich(ctx context.Context, items []models.NewsItem)
}

// Service owns the pipeline collaborators. It holds no per-request state;
// every Aggregate call is independent and re-fetches everything.
type Service struct {
	fetcher  feedFetcher
	enricher imageEnricher
	log      *slog.Logger
}

// New wires an aggregation service.
func New(fetcher feedFetcher, enricher imageEnricher, log *slog.Logger) *Service {
	return &Service{fetcher: fetcher, enricher: enricher, log: log}
}

// Aggregate runs the pipeline once. Individual feed or image failures are
// absorbed upstream and only shrink the result; the returned error is
// reserved for the request context ending before the run completes.
func (s *Service) Aggregate(ctx context.Context, p Params) (*models.Result, error) {
	queries := gnews.Queries(p.Scope, p.Keywords, p.When)

	batches := s.fetcher.FetchAll(ctx, queries, p.Lang, p.Country)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("aggregation interrupted: %w", err)
	}

	items := processing.Flatten(batches)
	total := len(items)

	items = processing.Dedupe(items)
	processing.Rank(items)

	if p.Limit > 0 && len(items) > p.Limit {
		items = items[:p.Limit]
	}

	s.enricher.Enrich(ctx, items)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("aggregation interrupted: %w", err)
	}

	s.log.Info("aggregation finished",
		slog.String("scope", p.Scope),
		slog.Int("queries", len(queries)),
		slog.Int("fetched", total),
		slog.Int("returned", len(items)),
	)

	return &models.Result{
		Scope:   p.Scope,
		Lang:    p.Lang,
		Country: p.Country,
		When:    p.When,
		Items:   items,
	}, nil
}
