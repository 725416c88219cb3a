package source

import (
	"context"
	"fmt"

	"apiviz/internal/dataset"
	"apiviz/internal/fetcher"
	"apiviz/internal/render"
	"apiviz/internal/report"
)

// Source is one remote API the workflow knows how to fetch, normalize and render.
type Source interface {
	// Name returns the short key the source is selected by (e.g. "crypto").
	Name() string

	// Locators returns the URLs fetched before Transform runs.
	Locators() []string

	// Transform normalizes the fetched content, one entry per locator.
	// Sources that need follow-up requests issue them through f.
	Transform(ctx context.Context, f fetcher.Fetcher, raw []*fetcher.Content) (*dataset.Data, error)

	// View returns how normalized data should be rendered.
	View() render.View
}

// Reporter is implemented by sources that summarize their data before it is
// rendered. Sources without a summary simply don't implement it.
type Reporter interface {
	Report(data *dataset.Data) (*report.Summary, error)
}

// TransformError reports content that could not be normalized
type TransformError struct {
	Source  string
	Locator string
	Err     error
}

// Error implements the error interface
func (e *TransformError) Error() string {
	if e.Locator != "" {
		return fmt.Sprintf("transform %s (%s): %v", e.Source, e.Locator, e.Err)
	}
	return fmt.Sprintf("transform %s: %v", e.Source, e.Err)
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *TransformError) Unwrap() error {
	return e.Err
}

// Errorf creates a TransformError for source with a formatted cause
func Errorf(source, locator, format string, args ...any) *TransformError {
	return &TransformError{Source: source, Locator: locator, Err: fmt.Errorf(format, args...)}
}

// DecodeJSON decodes c into v, reporting malformed bodies as a TransformError
func DecodeJSON(source string, c *fetcher.Content, v any) error {
	if err := c.DecodeJSON(v); err != nil {
		return &TransformError{Source: source, Locator: c.Locator, Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	return nil
}

// Single returns the only content entry, or a TransformError when there is
// not exactly one
func Single(source string, raw []*fetcher.Content) (*fetcher.Content, error) {
	if len(raw) != 1 || raw[0] == nil {
		return nil, Errorf(source, "", "expected 1 response, got %d", len(raw))
	}
	return raw[0], nil
}
