package autobahn

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"apiviz/internal/dataset"
	"apiviz/internal/fetcher"
	"apiviz/internal/render"
	"apiviz/internal/source"
)

const (
	// Name is the key the Autobahn source is selected by
	Name = "autobahn"

	// DefaultBaseURL is the production deutschland-api.dev API
	DefaultBaseURL = "https://api.deutschland-api.dev"

	// MaxRoads is how many highways are fetched, in API order
	MaxRoads = 10

	// titleSeparator splits "<Autobahn> | <city>" titles
	titleSeparator = " | "

	// ColumnAutobahn and ColumnCity hold the two halves of an entry title
	ColumnAutobahn = "Autobahn"
	ColumnCity     = "city"
)

// RoadsResponse represents the list of highway identifiers
type RoadsResponse struct {
	Entries *[]string `json:"entries"`
}

// ParkingResponse represents the truck parking entries of one highway
type ParkingResponse struct {
	Entries *[]map[string]any `json:"entries"`
}

// ParkingSource collects truck parking areas along German highways
type ParkingSource struct {
	baseURL string
}

// NewParkingSource creates a truck parking source
func NewParkingSource(baseURL string) *ParkingSource {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &ParkingSource{baseURL: strings.TrimRight(baseURL, "/")}
}

// Name implements source.Source
func (s *ParkingSource) Name() string {
	return Name
}

// Locators implements source.Source
func (s *ParkingSource) Locators() []string {
	return []string{s.baseURL + "/autobahn"}
}

// ParkingLocator returns the truck parking endpoint of one highway
func (s *ParkingSource) ParkingLocator(road string) string {
	return fmt.Sprintf("%s/autobahn/%s/parking_lorry", s.baseURL, url.PathEscape(road))
}

// Transform fetches the parking entries of the first MaxRoads highways one
// after another and concatenates them into a single table.
func (s *ParkingSource) Transform(ctx context.Context, f fetcher.Fetcher, raw []*fetcher.Content) (*dataset.Data, error) {
	content, err := source.Single(Name, raw)
	if err != nil {
		return nil, err
	}

	roads, err := decodeRoads(content)
	if err != nil {
		return nil, err
	}
	if len(roads) > MaxRoads {
		slog.Debug("truncating highway list", "available", len(roads), "used", MaxRoads)
		roads = roads[:MaxRoads]
	}

	all := dataset.NewTable()
	for _, road := range roads {
		locator := s.ParkingLocator(road)
		resp, err := f.Fetch(ctx, locator)
		if err != nil {
			return nil, err
		}

		tbl, err := parkingTable(resp)
		if err != nil {
			return nil, err
		}
		slog.Debug("parking entries fetched", "road", road, "entries", tbl.Len())
		all.Concat(tbl)
	}

	return &dataset.Data{Source: Name, Table: all}, nil
}

// decodeRoads accepts {"entries": [...]} as well as a bare array
func decodeRoads(c *fetcher.Content) ([]string, error) {
	if trimmed := bytes.TrimSpace(c.Body); len(trimmed) > 0 && trimmed[0] == '[' {
		var roads []string
		if err := source.DecodeJSON(Name, c, &roads); err != nil {
			return nil, err
		}
		return roads, nil
	}

	var resp RoadsResponse
	if err := source.DecodeJSON(Name, c, &resp); err != nil {
		return nil, err
	}
	if resp.Entries == nil {
		return nil, source.Errorf(Name, c.Locator, "missing key %q", "entries")
	}
	return *resp.Entries, nil
}

// parkingTable flattens the entries of one highway, splits their title into
// Autobahn and city, and drops title and id
func parkingTable(c *fetcher.Content) (*dataset.Table, error) {
	var resp ParkingResponse
	if err := source.DecodeJSON(Name, c, &resp); err != nil {
		return nil, err
	}
	if resp.Entries == nil {
		return nil, source.Errorf(Name, c.Locator, "missing key %q", "entries")
	}

	tbl := dataset.NewTable()
	for i, entry := range *resp.Entries {
		title, ok := entry["title"].(string)
		if !ok {
			return nil, source.Errorf(Name, c.Locator, "entry %d: missing key %q", i, "title")
		}
		road, city, found := strings.Cut(title, titleSeparator)
		if !found {
			return nil, source.Errorf(Name, c.Locator, "entry %d: title %q has no %q separator", i, title, titleSeparator)
		}

		fields := append(dataset.Flatten(entry),
			dataset.Field{Name: ColumnAutobahn, Value: road},
			dataset.Field{Name: ColumnCity, Value: city},
		)
		tbl.AppendRecord(fields...)
	}
	tbl.Drop("title", "id")
	return tbl, nil
}

// View implements source.Source
func (s *ParkingSource) View() render.View {
	return render.View{
		Title: "Truck parking along German Autobahns",
		Columns: []string{
			ColumnAutobahn,
			ColumnCity,
			"subtitle",
			"description",
			"coordinate.lat",
			"coordinate.long",
		},
	}
}
