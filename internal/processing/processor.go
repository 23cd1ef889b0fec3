// Package processing turns raw feed entries into the canonical, ordered
// item list: normalization, key-based deduplication, and date ranking.
// Everything here is pure; no I/O happens in this package.
package processing

import (
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed/rss"

	"github.com/arkwork/energy-news/internal/models"
)

// fallbackSource labels items whose feed carried no source at all.
const fallbackSource = "Google News"

// Normalize maps one raw feed entry to the canonical item shape. Missing
// title and link become empty strings so that dedup keys stay well-defined;
// an absent or unparseable date becomes an empty PubDate.
func Normalize(item *rss.Item) models.NewsItem {
	n := models.NewsItem{
		Title:  item.Title,
		Link:   item.Link,
		Source: sourceOf(item),
	}

	if item.PubDateParsed != nil {
		n.PubDate = item.PubDateParsed.UTC().Format(time.RFC3339)
	}

	return n
}

func sourceOf(item *rss.Item) string {
	if item.Source != nil && item.Source.Title != "" {
		return item.Source.Title
	}
	if item.DublinCoreExt != nil {
		for _, creator := range item.DublinCoreExt.Creator {
			if creator != "" {
				return creator
			}
		}
	}
	if item.Author != "" {
		return item.Author
	}
	return fallbackSource
}

// Flatten concatenates per-query batches preserving query order, then
// normalizes every entry.
func Flatten(batches [][]*rss.Item) []models.NewsItem {
	var items []models.NewsItem
	for _, batch := range batches {
		for _, raw := range batch {
			items = append(items, Normalize(raw))
		}
	}
	return items
}

// Dedupe collapses items sharing a key, first occurrence winning. The key
// is the link, falling back to the title when the link is empty; items
// whose key trims down to nothing cannot be deduplicated meaningfully and
// are dropped. Surviving items keep their first-seen order.
func Dedupe(items []models.NewsItem) []models.NewsItem {
	seen := make(map[string]struct{}, len(items))
	out := make([]models.NewsItem, 0, len(items))

	for _, it := range items {
		key := dedupKey(it)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, it)
	}

	return out
}

func dedupKey(it models.NewsItem) string {
	key := it.Link
	if key == "" {
		key = it.Title
	}
	return strings.TrimSpace(key)
}

// Rank sorts items by publication date descending. PubDate strings are
// RFC3339 in UTC, so lexicographic comparison matches chronological order
// and empty dates (unknown) end up last. The sort is stable: equal dates
// keep their first-seen order.
func Rank(items []models.NewsItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PubDate > items[j].PubDate
	})
}
