package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/arkwork/energy-news/internal/aggregator"
	"github.com/arkwork/energy-news/internal/config"
	"github.com/arkwork/energy-news/internal/models"
)

type newsAggregator interface {
	Aggregate(ctx context.Context, p aggregator.Params) (*models.Result, error)
}

type server struct {
	log  *slog.Logger
	cfg  *config.Config
	news newsAggregator
}

type errorResponse struct {
	Error string `json:"error"`
}

type newsItemResponse struct {
	Title   string  `json:"title"`
	Link    string  `json:"link"`
	PubDate *string `json:"pubDate"`
	Source  string  `json:"source"`
	Image   *string `json:"image"`
}

type energyNewsResponse struct {
	App     string             `json:"app"`
	Scope   string             `json:"scope"`
	Lang    string             `json:"lang"`
	Country string             `json:"country"`
	When    *string            `json:"when"`
	Count   int                `json:"count"`
	Items   []newsItemResponse `json:"items"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleEnergyNews serves GET /api/news/energy. Malformed parameters fall
// back to defaults instead of erroring; a request beyond the limiter window
// never reaches this handler.
func (s *server) handleEnergyNews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := aggregator.Params{
		Scope:    defaultString(q.Get("scope"), "both"),
		Lang:     defaultString(q.Get("lang"), "id"),
		Country:  defaultString(q.Get("country"), "ID"),
		Keywords: strings.TrimSpace(q.Get("keywords")),
		When:     strings.TrimSpace(q.Get("when")),
		Limit:    clampInt(q.Get("limit"), s.cfg.DefaultLimit, s.cfg.MaxLimit),
	}

	result, err := s.news.Aggregate(r.Context(), params)
	if err != nil {
		s.log.Error("aggregate news", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to aggregate news"})
		return
	}

	items := make([]newsItemResponse, 0, len(result.Items))
	for _, it := range result.Items {
		items = append(items, newsItemResponse{
			Title:   it.Title,
			Link:    it.Link,
			PubDate: nullable(it.PubDate),
			Source:  it.Source,
			Image:   nullable(it.Image),
		})
	}

	writeJSON(w, http.StatusOK, energyNewsResponse{
		App:     s.cfg.AppName,
		Scope:   result.Scope,
		Lang:    result.Lang,
		Country: result.Country,
		When:    nullable(result.When),
		Count:   result.Count(),
		Items:   items,
	})
}

func defaultString(raw, fallback string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	return raw
}

func clampInt(raw string, fallback, max int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	if value <= 0 {
		return fallback
	}
	if value > max {
		return max
	}
	return value
}

// nullable maps the pipeline's empty-string sentinel to JSON null.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// nothing better to do
	}
}
