package testutil

import (
	"context"
	"net/http"
	"sync"

	"apiviz/internal/dataset"
	"apiviz/internal/fetcher"
	"apiviz/internal/render"
)

// MockFetcher is a mock implementation of the Fetcher interface for testing.
// FetchFunc takes precedence; otherwise Responses is consulted and unknown
// locators fail with a 404 FetchError.
type MockFetcher struct {
	FetchFunc func(ctx context.Context, locator string) (*fetcher.Content, error)
	Responses map[string][]byte

	mu    sync.Mutex
	calls []string
}

// Fetch implements the Fetcher interface
func (m *MockFetcher) Fetch(ctx context.Context, locator string) (*fetcher.Content, error) {
	m.mu.Lock()
	m.calls = append(m.calls, locator)
	m.mu.Unlock()

	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, locator)
	}

	body, ok := m.Responses[locator]
	if !ok {
		return nil, fetcher.ClassifyHTTPError(locator, http.StatusNotFound)
	}
	return &fetcher.Content{Locator: locator, StatusCode: http.StatusOK, Body: body}, nil
}

// Calls returns the locators fetched so far, in order
func (m *MockFetcher) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// NewMockFetcher creates a mock fetcher serving fixed bodies by locator
func NewMockFetcher(responses map[string]string) *MockFetcher {
	m := &MockFetcher{Responses: make(map[string][]byte, len(responses))}
	for locator, body := range responses {
		m.Responses[locator] = []byte(body)
	}
	return m
}

// MockRenderer records what it was asked to render
type MockRenderer struct {
	RenderFunc func(data *dataset.Data, view render.View) error
	Rendered   []*dataset.Data
}

// Render implements the Renderer interface
func (m *MockRenderer) Render(data *dataset.Data, view render.View) error {
	m.Rendered = append(m.Rendered, data)
	if m.RenderFunc != nil {
		return m.RenderFunc(data, view)
	}
	return nil
}
