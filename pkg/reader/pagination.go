package reader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"net/http"
	"net/url"
)

// listOptions holds per-walk settings.
type listOptions struct {
	limit           int
	retryOnThrottle bool
}

// ListOption configures a listing walk.
type ListOption func(*listOptions)

// WithLimit caps the total number of documents returned across all pages.
// Distinct from ListingFilter.PageSize: the limit truncates the final page
// instead of issuing a further request.
func WithLimit(n int) ListOption {
	return func(o *listOptions) {
		o.limit = n
	}
}

// WithThrottleRetry enables the 429 retry policy: on a rate-limited page
// fetch the walk waits for the server-supplied Retry-After and re-issues the
// same request with the same cursor. The cursor identifies a fixed server
// position, so the retry yields no duplicates and no gaps.
func WithThrottleRetry() ListOption {
	return func(o *listOptions) {
		o.retryOnThrottle = true
	}
}

func applyListOptions(opts []ListOption) listOptions {
	var o listOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// fetchPage issues one /list/ request and decodes the page, applying the
// throttle retry policy when enabled. Config.MaxThrottleRetries bounds the
// retries; zero retries forever.
func (c *Client) fetchPage(ctx context.Context, params url.Values, retryOnThrottle bool) (*listResponse, error) {
	attempt := 0
	for {
		data, _, err := c.do(ctx, http.MethodGet, "/list/", params, nil)
		if err != nil {
			var rle *RateLimitError
			if retryOnThrottle && errors.As(err, &rle) {
				attempt++
				if c.maxThrottleRetries > 0 && attempt > c.maxThrottleRetries {
					c.logger.Warn().
						Int("max_attempts", c.maxThrottleRetries).
						Msg("Throttle retries exhausted")
					return nil, err
				}
				if waitErr := c.waitThrottle(ctx, rle, attempt); waitErr != nil {
					return nil, waitErr
				}
				continue
			}
			return nil, err
		}

		var page listResponse
		if err := json.Unmarshal(data, &page); err != nil {
			return nil, fmt.Errorf("decode list response: %w", err)
		}
		return &page, nil
	}
}

// List walks /list/ eagerly, following the continuation cursor until the
// server stops returning one or the WithLimit cap is reached. Documents are
// returned in server page order with no client-side reordering. Any page
// failure aborts the walk; partial results are discarded.
func (c *Client) List(ctx context.Context, filter ListingFilter, opts ...ListOption) ([]Document, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	o := applyListOptions(opts)
	params := filter.query()

	var results []Document
	for {
		page, err := c.fetchPage(ctx, params, o.retryOnThrottle)
		if err != nil {
			return nil, err
		}
		results = append(results, page.Results...)

		if o.limit > 0 && len(results) >= o.limit {
			return results[:o.limit], nil
		}
		if page.NextPageCursor == "" {
			return results, nil
		}
		params.Set("pageCursor", page.NextPageCursor)
	}
}

// Documents walks /list/ lazily, yielding one document at a time. The next
// page is fetched only once the previously yielded page is exhausted, so a
// caller consuming M documents triggers only the page fetches needed to
// produce them. The sequence is finite and single-pass: a second range over
// it yields nothing. A mid-walk fetch failure is yielded as the error at the
// point of consumption; documents already yielded remain valid.
func (c *Client) Documents(ctx context.Context, filter ListingFilter, opts ...ListOption) iter.Seq2[Document, error] {
	o := applyListOptions(opts)
	params := filter.query()
	validationErr := filter.Validate()

	var (
		buf     []Document
		yielded int
		hasMore = true
		done    bool
	)

	return func(yield func(Document, error) bool) {
		if validationErr != nil {
			yield(Document{}, validationErr)
			return
		}
		for !done {
			for len(buf) > 0 {
				d := buf[0]
				buf = buf[1:]
				yielded++
				if !yield(d, nil) {
					return
				}
				if o.limit > 0 && yielded >= o.limit {
					done = true
					return
				}
			}
			if !hasMore {
				done = true
				return
			}
			page, err := c.fetchPage(ctx, params, o.retryOnThrottle)
			if err != nil {
				done = true
				yield(Document{}, err)
				return
			}
			buf = page.Results
			if page.NextPageCursor != "" {
				params.Set("pageCursor", page.NextPageCursor)
			} else {
				hasMore = false
			}
		}
	}
}

// GetDocumentByID fetches a single document via an id-filtered one-page
// walk. A nonexistent id produces an empty page, returned as (nil, nil)
// rather than an error.
func (c *Client) GetDocumentByID(ctx context.Context, id string, opts ...ListOption) (*Document, error) {
	o := applyListOptions(opts)
	params := url.Values{}
	params.Set("id", id)

	page, err := c.fetchPage(ctx, params, o.retryOnThrottle)
	if err != nil {
		return nil, err
	}
	if len(page.Results) == 0 {
		return nil, nil
	}
	return &page.Results[0], nil
}

// SearchDocumentByURL finds a document by its saved URL. Returns (nil, nil)
// when no document matches.
func (c *Client) SearchDocumentByURL(ctx context.Context, docURL string, opts ...ListOption) (*Document, error) {
	o := applyListOptions(opts)
	params := url.Values{}
	params.Set("url", docURL)

	page, err := c.fetchPage(ctx, params, o.retryOnThrottle)
	if err != nil {
		return nil, err
	}
	if len(page.Results) == 0 {
		return nil, nil
	}
	return &page.Results[0], nil
}
