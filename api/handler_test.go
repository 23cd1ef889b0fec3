package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arkwork/energy-news/internal/aggregator"
	"github.com/arkwork/energy-news/internal/config"
	"github.com/arkwork/energy-news/internal/models"
)

type stubAggregator struct {
	params aggregator.Params
	result *models.Result
	err    error
}

func (s *stubAggregator) Aggregate(_ context.Context, p aggregator.Params) (*models.Result, error) {
	s.params = p
	if s.err != nil {
		return nil, s.err
	}
	if s.result != nil {
		return s.result, nil
	}
	return &models.Result{Scope: p.Scope, Lang: p.Lang, Country: p.Country, When: p.When}, nil
}

func newTestServer(agg newsAggregator) *server {
	return &server{
		log:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		cfg:  &config.Config{AppName: "ArkWork", DefaultLimit: 20, MaxLimit: 50},
		news: agg,
	}
}

func doEnergyRequest(t *testing.T, srv *server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	srv.handleEnergyNews(rec, req)
	return rec
}

func TestHandleEnergyNewsDefaults(t *testing.T) {
	agg := &stubAggregator{}
	srv := newTestServer(agg)

	rec := doEnergyRequest(t, srv, "/api/news/energy")
	require.Equal(t, http.StatusOK, rec.Code)

	require.Equal(t, "both", agg.params.Scope)
	require.Equal(t, "id", agg.params.Lang)
	require.Equal(t, "ID", agg.params.Country)
	require.Empty(t, agg.params.Keywords)
	require.Empty(t, agg.params.When)
	require.Equal(t, 20, agg.params.Limit)
}

func TestHandleEnergyNewsLimitClamping(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  int
	}{
		{name: "missing falls back", query: "", want: 20},
		{name: "zero falls back", query: "limit=0", want: 20},
		{name: "negative falls back", query: "limit=-5", want: 20},
		{name: "garbage falls back", query: "limit=abc", want: 20},
		{name: "valid passes through", query: "limit=7", want: 7},
		{name: "huge clamps to max", query: "limit=1000", want: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := &stubAggregator{}
			srv := newTestServer(agg)

			rec := doEnergyRequest(t, srv, "/api/news/energy?"+tt.query)
			require.Equal(t, http.StatusOK, rec.Code)
			require.Equal(t, tt.want, agg.params.Limit)
		})
	}
}

func TestHandleEnergyNewsEmptyResultIsStillOK(t *testing.T) {
	agg := &stubAggregator{result: &models.Result{Scope: "both", Lang: "id", Country: "ID"}}
	srv := newTestServer(agg)

	rec := doEnergyRequest(t, srv, "/api/news/energy")
	require.Equal(t, http.StatusOK, rec.Code)

	var body energyNewsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 0, body.Count)
	require.NotNil(t, body.Items)
	require.Empty(t, body.Items)
	require.Nil(t, body.When)
	require.Equal(t, "ArkWork", body.App)
}

func TestHandleEnergyNewsResponseShape(t *testing.T) {
	agg := &stubAggregator{result: &models.Result{
		Scope:   "id",
		Lang:    "id",
		Country: "ID",
		When:    "7d",
		Items: []models.NewsItem{
			{Title: "dated", Link: "https://example.com/a", PubDate: "2024-05-06T00:08:09Z", Source: "Katadata", Image: "https://img.example.com/a.jpg"},
			{Title: "undated", Link: "https://example.com/b", Source: "Google News"},
		},
	}}
	srv := newTestServer(agg)

	rec := doEnergyRequest(t, srv, "/api/news/energy?scope=id&when=7d")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "7d", body["when"])
	require.EqualValues(t, 2, body["count"])

	items := body["items"].([]any)
	first := items[0].(map[string]any)
	require.Equal(t, "2024-05-06T00:08:09Z", first["pubDate"])
	require.Equal(t, "https://img.example.com/a.jpg", first["image"])

	// Unknown date and missing preview serialize as null, never "".
	second := items[1].(map[string]any)
	require.Nil(t, second["pubDate"])
	require.Nil(t, second["image"])
}

func TestHandleEnergyNewsInternalError(t *testing.T) {
	agg := &stubAggregator{err: errors.New("boom")}
	srv := newTestServer(agg)

	rec := doEnergyRequest(t, srv, "/api/news/energy")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "failed to aggregate news", body.Error)
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(&stubAggregator{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.handleHealth(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
