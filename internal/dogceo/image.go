package dogceo

import (
	"context"
	"strings"

	"apiviz/internal/dataset"
	"apiviz/internal/fetcher"
	"apiviz/internal/render"
	"apiviz/internal/source"
)

const (
	// Name is the key the dog image source is selected by
	Name = "dog"

	// DefaultBaseURL is the production dog.ceo API
	DefaultBaseURL = "https://dog.ceo/api"
)

// RandomImageResponse represents the dog.ceo random image response
type RandomImageResponse struct {
	Message *string `json:"message"`
	Status  string  `json:"status"`
}

// ImageSource fetches a random dog picture
type ImageSource struct {
	baseURL string
}

// NewImageSource creates a random dog image source
func NewImageSource(baseURL string) *ImageSource {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &ImageSource{baseURL: strings.TrimRight(baseURL, "/")}
}

// Name implements source.Source
func (s *ImageSource) Name() string {
	return Name
}

// Locators implements source.Source
func (s *ImageSource) Locators() []string {
	return []string{s.baseURL + "/breeds/image/random"}
}

// Transform downloads the picture the response points at and returns its
// bytes unchanged
func (s *ImageSource) Transform(ctx context.Context, f fetcher.Fetcher, raw []*fetcher.Content) (*dataset.Data, error) {
	content, err := source.Single(Name, raw)
	if err != nil {
		return nil, err
	}

	var resp RandomImageResponse
	if err := source.DecodeJSON(Name, content, &resp); err != nil {
		return nil, err
	}
	if resp.Message == nil {
		return nil, source.Errorf(Name, content.Locator, "missing key %q", "message")
	}
	if *resp.Message == "" {
		return nil, source.Errorf(Name, content.Locator, "empty image url")
	}

	picture, err := f.Fetch(ctx, *resp.Message)
	if err != nil {
		return nil, err
	}

	return &dataset.Data{
		Source:      Name,
		Payload:     picture.Body,
		ContentType: picture.ContentType,
	}, nil
}

// View implements source.Source
func (s *ImageSource) View() render.View {
	return render.View{Title: "Random dog"}
}
