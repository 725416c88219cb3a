// Package fixture serves stored sample responses for every endpoint the data
// sources call, so the workflow can run without network access.
package fixture

import (
	"bytes"
	"context"
	"embed"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strings"

	"apiviz/internal/fetcher"
)

//go:embed data/*.json
var files embed.FS

var (
	tickerPath  = regexp.MustCompile(`/tickers/[^/]+$`)
	parkingPath = regexp.MustCompile(`/autobahn/([^/]+)/parking_lorry$`)
)

// Fetcher answers locators from the embedded sample data. Routing only looks
// at the URL path, so any base URL works.
type Fetcher struct{}

// New creates a fixture fetcher
func New() *Fetcher {
	return &Fetcher{}
}

// Fetch implements fetcher.Fetcher
func (f *Fetcher) Fetch(ctx context.Context, locator string) (*fetcher.Content, error) {
	if err := ctx.Err(); err != nil {
		return nil, fetcher.ClassifyTransportError(locator, err)
	}

	u, err := url.Parse(locator)
	if err != nil {
		return nil, fetcher.NewNetworkError(locator, err)
	}

	p := u.Path
	switch {
	case strings.HasSuffix(p, "/historical"):
		return f.file(locator, "crypto_historical.json")
	case tickerPath.MatchString(p):
		return f.file(locator, "crypto_ticker.json")
	case strings.HasSuffix(p, "/breeds/image/random"):
		return f.file(locator, "dog_random.json")
	case parkingPath.MatchString(p):
		road := parkingPath.FindStringSubmatch(p)[1]
		return f.file(locator, "parking_"+road+".json")
	case strings.HasSuffix(p, "/autobahn"):
		return f.file(locator, "autobahn_roads.json")
	case isImage(p):
		return &fetcher.Content{
			Locator:     locator,
			StatusCode:  http.StatusOK,
			ContentType: "image/png",
			Body:        samplePNG(),
		}, nil
	default:
		return nil, fetcher.ClassifyHTTPError(locator, http.StatusNotFound)
	}
}

func (f *Fetcher) file(locator, name string) (*fetcher.Content, error) {
	body, err := files.ReadFile("data/" + name)
	if err != nil {
		return nil, fetcher.ClassifyHTTPError(locator, http.StatusNotFound)
	}
	return &fetcher.Content{
		Locator:     locator,
		StatusCode:  http.StatusOK,
		ContentType: "application/json",
		Body:        body,
	}, nil
}

func isImage(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".jpg", ".jpeg", ".png", ".gif":
		return true
	}
	return false
}

// samplePNG draws a small striped picture
func samplePNG() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			c := color.RGBA{R: 210, G: 180, B: 140, A: 255}
			if (x/4+y/4)%2 == 0 {
				c = color.RGBA{R: 90, G: 60, B: 30, A: 255}
			}
			img.Set(x, y, c)
		}
	}

	var buf bytes.Buffer
	// encoding an in-memory RGBA image cannot fail
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}
