package reader

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Location is a document's place in the Reader triage flow.
type Location string

const (
	LocationNew       Location = "new"
	LocationLater     Location = "later"
	LocationShortlist Location = "shortlist"
	LocationArchive   Location = "archive"
	LocationFeed      Location = "feed"
)

// Category is a document's content type.
type Category string

const (
	CategoryArticle   Category = "article"
	CategoryEmail     Category = "email"
	CategoryRSS       Category = "rss"
	CategoryHighlight Category = "highlight"
	CategoryNote      Category = "note"
	CategoryPDF       Category = "pdf"
	CategoryEPUB      Category = "epub"
	CategoryTweet     Category = "tweet"
	CategoryVideo     Category = "video"
)

var validLocations = map[Location]bool{
	LocationNew:       true,
	LocationLater:     true,
	LocationShortlist: true,
	LocationArchive:   true,
	LocationFeed:      true,
}

var validCategories = map[Category]bool{
	CategoryArticle:   true,
	CategoryEmail:     true,
	CategoryRSS:       true,
	CategoryHighlight: true,
	CategoryNote:      true,
	CategoryPDF:       true,
	CategoryEPUB:      true,
	CategoryTweet:     true,
	CategoryVideo:     true,
}

// ListingFilter narrows a /list/ walk. All fields are optional; zero values
// are omitted from the outgoing query, never sent as empty strings.
type ListingFilter struct {
	// Location filters by triage location (new, later, shortlist, archive, feed).
	Location Location

	// Category filters by content type (article, email, rss, ...).
	Category Category

	// Tag filters to documents carrying the named tag.
	Tag string

	// UpdatedAfter filters to documents updated after the given instant.
	UpdatedAfter time.Time

	// PageSize is the per-page result count requested from the server.
	// Must be between 1 and 100 when set.
	PageSize int

	// WithRawSourceURL asks the server to include the raw source URL.
	WithRawSourceURL bool
}

// Validate checks the filter before any network call is made.
func (f ListingFilter) Validate() error {
	if f.Location != "" && !validLocations[f.Location] {
		return fmt.Errorf("invalid location %q", f.Location)
	}
	if f.Category != "" && !validCategories[f.Category] {
		return fmt.Errorf("invalid category %q", f.Category)
	}
	if f.PageSize != 0 && (f.PageSize < 1 || f.PageSize > 100) {
		return fmt.Errorf("page size must be between 1 and 100 (got %d)", f.PageSize)
	}
	return nil
}

// query builds the /list/ query parameters, omitting absent fields.
func (f ListingFilter) query() url.Values {
	params := url.Values{}
	if f.Location != "" {
		params.Set("location", string(f.Location))
	}
	if f.Category != "" {
		params.Set("category", string(f.Category))
	}
	if f.Tag != "" {
		params.Set("tag", f.Tag)
	}
	if !f.UpdatedAfter.IsZero() {
		params.Set("updatedAfter", f.UpdatedAfter.Format(time.RFC3339))
	}
	if f.PageSize != 0 {
		params.Set("limit", strconv.Itoa(f.PageSize))
	}
	if f.WithRawSourceURL {
		params.Set("withRawSourceUrl", "true")
	}
	return params
}
