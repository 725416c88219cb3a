package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"apiviz/internal/dataset"
)

func parkingData(t *testing.T) *dataset.Data {
	t.Helper()

	tbl := dataset.NewTable("Autobahn", "city", "coordinate.lat")
	if err := tbl.AppendRow("A3", "Frankfurt", 50.1); err != nil {
		t.Fatalf("AppendRow() returned unexpected error: %v", err)
	}
	if err := tbl.AppendRow("A7", "Kassel", nil); err != nil {
		t.Fatalf("AppendRow() returned unexpected error: %v", err)
	}
	return &dataset.Data{Source: "autobahn", Table: tbl}
}

func TestSelectColumns(t *testing.T) {
	tbl := parkingData(t).Table

	tests := []struct {
		name string
		view View
		want []string
	}{
		{"all when empty", View{}, []string{"Autobahn", "city", "coordinate.lat"}},
		{"subset in view order", View{Columns: []string{"city", "Autobahn"}}, []string{"city", "Autobahn"}},
		{"unknown skipped", View{Columns: []string{"subtitle", "city"}}, []string{"city"}},
		{"all unknown", View{Columns: []string{"subtitle"}}, []string{"Autobahn", "city", "coordinate.lat"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, selectColumns(tbl, tt.view)); diff != "" {
				t.Errorf("selectColumns() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		view    string
		caption string
		want    string
	}{
		{"Prices", "", "Prices"},
		{"", "Bitcoin (BTC)", "Bitcoin (BTC)"},
		{"Prices", "as of today", "Prices (as of today)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := title(&dataset.Data{Caption: tt.caption}, View{Title: tt.view})
			if got != tt.want {
				t.Errorf("title() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTableRenderer_Render(t *testing.T) {
	var buf bytes.Buffer
	r := NewTableRenderer(&buf)

	err := r.Render(parkingData(t), View{Title: "Truck parking", Columns: []string{"Autobahn", "city"}})
	if err != nil {
		t.Fatalf("Render() returned unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Truck parking", "A3", "Frankfurt", "Kassel"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "50.1") {
		t.Errorf("Render() output contains unselected column:\n%s", out)
	}
}

func TestTableRenderer_RenderBinary(t *testing.T) {
	r := NewTableRenderer(&bytes.Buffer{})
	if err := r.Render(&dataset.Data{Payload: []byte{1}}, View{}); err == nil {
		t.Error("Render() of binary data expected error, got nil")
	}
}

func TestMarkdownRenderer_Render(t *testing.T) {
	var buf bytes.Buffer
	r := NewMarkdownRenderer(&buf)

	if err := r.Render(parkingData(t), View{Title: "Truck parking"}); err != nil {
		t.Fatalf("Render() returned unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"# Truck parking", "50.1", "Kassel"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() output missing %q:\n%s", want, out)
		}
	}
}

func TestImageRenderer_Render(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var payload bytes.Buffer
	if err := png.Encode(&payload, img); err != nil {
		t.Fatalf("png.Encode() returned unexpected error: %v", err)
	}

	tests := []struct {
		name        string
		payload     []byte
		contentType string
		wantExt     string
	}{
		{"decoded png", payload.Bytes(), "application/octet-stream", ".png"},
		{"content type fallback", []byte{0x00, 0x01}, "image/jpeg", ".jpg"},
		{"unknown", []byte{0x00, 0x01}, "", ".bin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			r := NewImageRenderer(dir)

			data := &dataset.Data{Source: "dog", Payload: tt.payload, ContentType: tt.contentType}
			if err := r.Render(data, View{}); err != nil {
				t.Fatalf("Render() returned unexpected error: %v", err)
			}

			got, err := os.ReadFile(filepath.Join(dir, "dog"+tt.wantExt))
			if err != nil {
				t.Fatalf("ReadFile() returned unexpected error: %v", err)
			}
			if !bytes.Equal(got, tt.payload) {
				t.Errorf("written payload = %v, want %v", got, tt.payload)
			}
		})
	}
}

func TestImageRenderer_EmptyPayload(t *testing.T) {
	r := NewImageRenderer(t.TempDir())
	if err := r.Render(&dataset.Data{Source: "dog"}, View{}); err == nil {
		t.Error("Render() with empty payload expected error, got nil")
	}
}

type recordingRenderer struct {
	calls int
}

func (r *recordingRenderer) Render(*dataset.Data, View) error {
	r.calls++
	return nil
}

func TestDispatcher_Render(t *testing.T) {
	tableR := &recordingRenderer{}
	binaryR := &recordingRenderer{}
	d := &Dispatcher{Table: tableR, Binary: binaryR}

	if err := d.Render(parkingData(t), View{}); err != nil {
		t.Fatalf("Render(table) returned unexpected error: %v", err)
	}
	if err := d.Render(&dataset.Data{Payload: []byte{1}}, View{}); err != nil {
		t.Fatalf("Render(binary) returned unexpected error: %v", err)
	}

	if tableR.calls != 1 || binaryR.calls != 1 {
		t.Errorf("calls = table %d, binary %d, want 1 each", tableR.calls, binaryR.calls)
	}

	if err := (&Dispatcher{}).Render(parkingData(t), View{}); err == nil {
		t.Error("Render() without renderers expected error, got nil")
	}
}
