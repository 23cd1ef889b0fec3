package models

// NewsItem is the canonical shape every feed entry is normalized into.
// PubDate is RFC3339 UTC, empty when the feed carried no parseable date.
// Image is filled by the preview enricher, empty when none was found.
// Empty strings instead of absent fields keep dedup keys well-defined.
type NewsItem struct {
	Title   string
	Link    string
	PubDate string
	Source  string
	Image   string
}

// Result is one aggregation outcome. It lives only for the duration of
// the response that carries it.
type Result struct {
	Scope   string
	Lang    string
	Country string
	When    string
	Items   []NewsItem
}

// Count reports how many items the result carries.
func (r *Result) Count() int {
	return len(r.Items)
}
