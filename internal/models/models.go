package models

import "time"

// PageSize is the fixed number of mentions requested per page
const PageSize = 100

// Mention represents one collected record referencing a tracked subject
type Mention struct {
	ID          int64      `json:"id"`
	Term        string     `json:"termo"`
	Title       string     `json:"titulo"`
	URL         string     `json:"url"`
	Snippet     string     `json:"trecho"`
	Channel     Channel    `json:"canal"`
	Sentiment   Sentiment  `json:"sentimento"`
	Tags        []string   `json:"tags"`
	CreatedAt   time.Time  `json:"created_at"`             // when the mention was mined
	PublishedAt *time.Time `json:"published_at,omitempty"` // when the content was published, if known
}

// DateFor returns the timestamp selected by the given date field, or nil if unknown
func (m Mention) DateFor(field DateField) *time.Time {
	if field == DateFieldMined {
		if m.CreatedAt.IsZero() {
			return nil
		}
		t := m.CreatedAt
		return &t
	}
	return m.PublishedAt
}

// MentionPage is one page of mentions as reported by the backend
type MentionPage struct {
	Items     []Mention `json:"items"`
	Total     int       `json:"total"`
	Limit     int       `json:"limit"`
	Offset    int       `json:"offset"`
	Page      int       `json:"page"`
	PageCount int       `json:"page_count"`
	HasPrev   bool      `json:"has_prev"`
	HasNext   bool      `json:"has_next"`
}

// TagUpdate is the body of a tag change request
type TagUpdate struct {
	Add    []string `json:"add,omitempty"`
	Remove []string `json:"remove,omitempty"`
}

// TagState is the tag list of a mention after an update
type TagState struct {
	ID   int64    `json:"id"`
	Tags []string `json:"tags"`
}

// BulkDeleteRequest is the body of a bulk deletion
type BulkDeleteRequest struct {
	IDs []int64 `json:"ids"`
}

// BulkDeleteResult reports how many mentions the backend actually removed
type BulkDeleteResult struct {
	Deleted int `json:"deleted"`
}

// SearchResult acknowledges a search/ingest run
type SearchResult struct {
	Term  string `json:"termo"`
	Total int    `json:"total"`
}

// EnrichResult reports a published-date enrichment batch
type EnrichResult struct {
	Processed int `json:"processed"`
	Updated   int `json:"updated"`
}

// HealthStatus is returned by the backend health endpoint
type HealthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// SentimentCount is one row of the per-sentiment aggregate
type SentimentCount struct {
	Sentiment Sentiment `json:"sentimento"`
	Count     int       `json:"count"`
}

// ChannelCount is one row of the per-channel aggregate
type ChannelCount struct {
	Channel Channel `json:"canal"`
	Count   int     `json:"count"`
}

// DailyCount is one point of the daily time series
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// TagCount is one row of the top tags aggregate
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Analytics holds aggregate counts for a set of filter criteria
type Analytics struct {
	Total           int              `json:"total"`
	BySentiment     []SentimentCount `json:"by_sentiment"`
	ByChannel       []ChannelCount   `json:"by_channel"`
	TimeseriesDaily []DailyCount     `json:"timeseries_daily"`
	TopTags         []TagCount       `json:"top_tags"`
}

// Report represents a periodic digest of backend analytics
type Report struct {
	GeneratedAt      time.Time              `json:"generated_at"`
	Period           string                 `json:"period"` // "daily" or "weekly"
	DateFrom         string                 `json:"date_from"`
	DateTo           string                 `json:"date_to"`
	Analytics        Analytics              `json:"analytics"`
	NegativeMentions []Mention              `json:"negative_mentions"`
	Summary          map[string]interface{} `json:"summary"`
}

// Alert represents an urgent notification
type Alert struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"` // "critical", "urgent", "info"
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Mentions  []Mention `json:"mentions,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
