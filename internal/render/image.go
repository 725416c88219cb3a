package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"apiviz/internal/dataset"
)

// ImageRenderer writes binary payloads to files in a directory
type ImageRenderer struct {
	dir string
}

// NewImageRenderer creates an ImageRenderer writing into dir
func NewImageRenderer(dir string) *ImageRenderer {
	return &ImageRenderer{dir: dir}
}

// Path returns the file a payload from source with the given extension is written to
func (r *ImageRenderer) Path(source, ext string) string {
	return filepath.Join(r.dir, source+ext)
}

// Render implements Renderer
func (r *ImageRenderer) Render(data *dataset.Data, _ View) error {
	if len(data.Payload) == 0 {
		return errors.New("data has no payload")
	}

	ext := extensionFor(data.ContentType)
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data.Payload))
	if err == nil {
		ext = extensionFor("image/" + format)
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	name := data.Source
	if name == "" {
		name = "image"
	}
	path := r.Path(name, ext)
	if err := os.WriteFile(path, data.Payload, 0o644); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}

	if format != "" {
		slog.Info("image written", "path", path, "format", format, "width", cfg.Width, "height", cfg.Height)
	} else {
		slog.Info("payload written", "path", path, "bytes", len(data.Payload))
	}
	return nil
}

// extensionFor maps a content type to a file extension
func extensionFor(contentType string) string {
	mediaType, _, _ := strings.Cut(contentType, ";")
	switch strings.TrimSpace(strings.ToLower(mediaType)) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	default:
		return ".bin"
	}
}
