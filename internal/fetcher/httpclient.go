package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"resty.dev/v3"
)

const (
	// DefaultTimeout bounds a single request when no timeout is configured
	DefaultTimeout = 30 * time.Second

	acceptHeader = "application/json, image/*;q=0.9, */*;q=0.8"
)

// Pacer throttles requests per host before they are sent.
type Pacer interface {
	Wait(ctx context.Context, host string) error
}

// NewHTTPClient creates a resty client that makes exactly one attempt per request
func NewHTTPClient(timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", acceptHeader).
		SetRetryCount(0)
}

// HTTPFetcher fetches locators over HTTP
type HTTPFetcher struct {
	client *resty.Client
	pacer  Pacer
}

// NewHTTPFetcher creates a fetcher backed by client. pacer may be nil.
func NewHTTPFetcher(client *resty.Client, pacer Pacer) *HTTPFetcher {
	return &HTTPFetcher{
		client: client,
		pacer:  pacer,
	}
}

// Fetch performs a single GET request against locator
func (f *HTTPFetcher) Fetch(ctx context.Context, locator string) (*Content, error) {
	u, err := url.Parse(locator)
	if err != nil || u.Host == "" {
		return nil, &FetchError{
			Type:    ErrorTypeClient,
			Locator: locator,
			Message: "invalid locator",
			Cause:   err,
		}
	}

	if f.pacer != nil {
		if err := f.pacer.Wait(ctx, u.Host); err != nil {
			return nil, ClassifyTransportError(locator, fmt.Errorf("waiting for rate limiter: %w", err))
		}
	}

	start := time.Now()
	resp, err := f.client.R().
		SetContext(ctx).
		Get(locator)
	if err != nil {
		slog.Debug("request failed", "url", locator, "error", err.Error())
		return nil, ClassifyTransportError(locator, err)
	}

	slog.Debug("request completed",
		"url", locator,
		"status_code", resp.StatusCode(),
		"duration", time.Since(start))

	if !resp.IsSuccess() {
		return nil, ClassifyHTTPError(locator, resp.StatusCode())
	}

	return &Content{
		Locator:     locator,
		StatusCode:  resp.StatusCode(),
		ContentType: resp.Header().Get("Content-Type"),
		Body:        resp.Bytes(),
	}, nil
}

// Close releases the underlying client
func (f *HTTPFetcher) Close() error {
	return f.client.Close()
}
