package reader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Write operations deliberately return outcome structs instead of (T, error)
// pairs: best-effort batch callers inspect OK without error plumbing, while
// Err keeps the typed failure for diagnostics. Read operations return errors
// as usual; the asymmetry is part of the contract.

// SaveResult is the outcome of SaveDocument.
type SaveResult struct {
	OK            bool
	AlreadyExists bool // server answered 200 instead of 201
	ID            string
	ReaderURL     string
	StatusCode    int
	Err           error
}

// UpdateResult is the outcome of UpdateDocumentLocation.
type UpdateResult struct {
	OK         bool
	StatusCode int
	Err        error
}

// DeleteResult is the outcome of DeleteDocument and DeleteDocumentByURL.
type DeleteResult struct {
	OK         bool
	StatusCode int
	Err        error
}

// updatableLocations are the valid targets for a location update; shortlist
// and feed are server-managed and cannot be set directly.
var updatableLocations = map[Location]bool{
	LocationNew:     true,
	LocationLater:   true,
	LocationArchive: true,
}

// doWrite performs a mutating request, honoring 429 throttle responses the
// same way the pagination walker does. Mutations always wait and re-issue on
// throttle, bounded by Config.MaxThrottleRetries (zero retries forever).
func (c *Client) doWrite(ctx context.Context, method, path string, body any) ([]byte, int, error) {
	attempt := 0
	for {
		data, status, err := c.do(ctx, method, path, nil, body)
		if err != nil {
			var rle *RateLimitError
			if errors.As(err, &rle) {
				attempt++
				if c.maxThrottleRetries > 0 && attempt > c.maxThrottleRetries {
					c.logger.Warn().
						Int("max_attempts", c.maxThrottleRetries).
						Msg("Throttle retries exhausted")
					return data, status, err
				}
				if waitErr := c.waitThrottle(ctx, rle, attempt); waitErr != nil {
					return nil, 0, waitErr
				}
				continue
			}
			return data, status, err
		}
		return data, status, nil
	}
}

// SaveDocument saves a document to Reader via POST /save/. Exactly one of
// req.URL or req.HTML must be set; the check runs before any network call.
// A 200 status means the document already existed, 201 means it was created.
func (c *Client) SaveDocument(ctx context.Context, req SaveRequest) SaveResult {
	if (req.URL == "") == (req.HTML == "") {
		return SaveResult{Err: fmt.Errorf("exactly one of URL or HTML is required")}
	}
	if req.ShouldCleanHTML && req.HTML == "" {
		return SaveResult{Err: fmt.Errorf("should_clean_html is only valid when HTML is provided")}
	}

	data, status, err := c.doWrite(ctx, http.MethodPost, "/save/", req)
	if err != nil {
		return SaveResult{StatusCode: status, Err: err}
	}

	var resp saveResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return SaveResult{StatusCode: status, Err: fmt.Errorf("decode save response: %w", err)}
	}

	return SaveResult{
		OK:            true,
		AlreadyExists: status == http.StatusOK,
		ID:            resp.ID,
		ReaderURL:     resp.URL,
		StatusCode:    status,
	}
}

// UpdateDocumentLocation moves a document via PATCH /update/{id}/.
func (c *Client) UpdateDocumentLocation(ctx context.Context, id string, location Location) UpdateResult {
	if !updatableLocations[location] {
		return UpdateResult{Err: fmt.Errorf("invalid location %q: must be one of new, later, archive", location)}
	}

	_, status, err := c.doWrite(ctx, http.MethodPatch, "/update/"+id+"/", updateRequest{Location: string(location)})
	if err != nil {
		return UpdateResult{StatusCode: status, Err: err}
	}
	return UpdateResult{OK: true, StatusCode: status}
}

// DeleteDocument removes a document via DELETE /delete/{id}/.
func (c *Client) DeleteDocument(ctx context.Context, id string) DeleteResult {
	_, status, err := c.doWrite(ctx, http.MethodDelete, "/delete/"+id+"/", nil)
	if err != nil {
		return DeleteResult{StatusCode: status, Err: err}
	}
	return DeleteResult{OK: true, StatusCode: status}
}

// DeleteDocumentByURL looks up a document by its saved URL, then deletes it.
func (c *Client) DeleteDocumentByURL(ctx context.Context, docURL string) DeleteResult {
	doc, err := c.SearchDocumentByURL(ctx, docURL)
	if err != nil {
		return DeleteResult{Err: err}
	}
	if doc == nil {
		return DeleteResult{Err: fmt.Errorf("no document found with URL %s", docURL)}
	}
	return c.DeleteDocument(ctx, doc.ID)
}
