package model

// LinkEntry is one (url, category) row of the link-submission form.
// IDs are ULIDs, so lexical order matches insertion order.
type LinkEntry struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	Category      string `json:"category"`
	URLError      string `json:"url_error,omitempty"`
	CategoryError string `json:"category_error,omitempty"`
}

// HasErrors reports whether validation flagged either field.
func (e LinkEntry) HasErrors() bool {
	return e.URLError != "" || e.CategoryError != ""
}

// AnalyticsItem is one row of the /analytics_add batch.
type AnalyticsItem struct {
	PostURL     string `json:"post_url"`
	AccountName string `json:"account_name"`
	Likes       int    `json:"likes"`
	Views       int    `json:"views"`
}

// AnalyticsBatch is the /analytics_add request body.
type AnalyticsBatch struct {
	Data []AnalyticsItem `json:"data"`
}

// ToAnalyticsItem maps a form entry to its wire row. Counters start at zero.
func (e LinkEntry) ToAnalyticsItem() AnalyticsItem {
	return AnalyticsItem{
		PostURL:     e.URL,
		AccountName: e.Category,
	}
}
