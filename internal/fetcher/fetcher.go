package fetcher

import (
	"context"
	"encoding/json"
)

// Fetcher is the transport every data source reads its remote content through.
// Implementations perform a single GET per call and never retry.
type Fetcher interface {
	// Fetch retrieves the resource at locator.
	// Returns a *FetchError if the transport fails or the status is not 2xx.
	Fetch(ctx context.Context, locator string) (*Content, error)
}

// Content is the unprocessed result of a successful fetch.
type Content struct {
	// Locator is the URL the content was fetched from
	Locator string

	// StatusCode is the HTTP status of the response
	StatusCode int

	// ContentType is the value of the Content-Type response header, if any
	ContentType string

	// Body holds the raw response payload
	Body []byte
}

// DecodeJSON unmarshals the body into v.
func (c *Content) DecodeJSON(v any) error {
	return json.Unmarshal(c.Body, v)
}
