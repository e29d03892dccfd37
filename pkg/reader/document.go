package reader

import "encoding/json"

// Tag organizes documents inside Reader.
type Tag struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Created int64  `json:"created"`
}

// Document is a single document saved in Reader. Fields are passed through
// as received; the client interprets none of them beyond what filters need.
type Document struct {
	ID              string          `json:"id"`
	URL             string          `json:"url"`
	Title           string          `json:"title"`
	Author          string          `json:"author"`
	Source          string          `json:"source"`
	Category        string          `json:"category"`
	Location        string          `json:"location"`
	Tags            map[string]Tag  `json:"tags"`
	SiteName        string          `json:"site_name"`
	WordCount       int             `json:"word_count"`
	CreatedAt       string          `json:"created_at"`
	UpdatedAt       string          `json:"updated_at"`
	Notes           string          `json:"notes"`
	PublishedDate   json.RawMessage `json:"published_date"` // int epoch or ISO string, server-dependent
	Summary         string          `json:"summary"`
	ImageURL        string          `json:"image_url"`
	Content         string          `json:"content"`
	SourceURL       string          `json:"source_url"`
	ParentID        string          `json:"parent_id"`
	SavedAt         string          `json:"saved_at"`
	LastMovedAt     string          `json:"last_moved_at"`
	ReadingProgress float64         `json:"reading_progress"`
}

// listResponse is a page of results from GET /list/.
type listResponse struct {
	Count          int        `json:"count"`
	NextPageCursor string     `json:"nextPageCursor"`
	Results        []Document `json:"results"`
}

// SaveRequest is the body for POST /save/. Exactly one of URL or HTML is
// required; everything else is optional and omitted when empty.
type SaveRequest struct {
	URL             string   `json:"url,omitempty"`
	HTML            string   `json:"html,omitempty"`
	ShouldCleanHTML bool     `json:"should_clean_html,omitempty"`
	Title           string   `json:"title,omitempty"`
	Author          string   `json:"author,omitempty"`
	Summary         string   `json:"summary,omitempty"`
	PublishedDate   string   `json:"published_date,omitempty"` // ISO 8601
	ImageURL        string   `json:"image_url,omitempty"`
	Location        string   `json:"location,omitempty"`
	Category        string   `json:"category,omitempty"`
	SavedUsing      string   `json:"saved_using,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	Notes           string   `json:"notes,omitempty"`
}

// saveResponse is the body returned by POST /save/.
type saveResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// updateRequest is the body for PATCH /update/{id}/.
type updateRequest struct {
	Location string `json:"location"`
}
