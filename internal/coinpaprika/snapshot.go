package coinpaprika

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"apiviz/internal/dataset"
	"apiviz/internal/fetcher"
	"apiviz/internal/render"
	"apiviz/internal/source"
)

const (
	// ColumnMinutes and ColumnChange are the columns of snapshot data
	ColumnMinutes = "minutes_before_now"
	ColumnChange  = "percent_change"
)

// changeWindows pairs each percent-change quote field with its window length
// in minutes, newest first.
var changeWindows = []struct {
	field   string
	minutes int
}{
	{"percent_change_15m", 15},
	{"percent_change_30m", 30},
	{"percent_change_1h", 60},
	{"percent_change_6h", 360},
	{"percent_change_12h", 720},
	{"percent_change_24h", 1440},
	{"percent_change_7d", 10080},
	{"percent_change_30d", 43200},
	{"percent_change_1y", 525600},
}

// TickerResponse represents the Coinpaprika ticker snapshot
type TickerResponse struct {
	Name        string                    `json:"name"`
	Symbol      string                    `json:"symbol"`
	LastUpdated string                    `json:"last_updated"`
	Quotes      map[string]map[string]any `json:"quotes"`
}

// SnapshotSource reads a coin's current ticker and tabulates its recent
// percent changes
type SnapshotSource struct {
	baseURL string
	coin    string
	quote   string
}

// NewSnapshotSource creates a ticker snapshot source quoting in USD
func NewSnapshotSource(baseURL, coin string) *SnapshotSource {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if coin == "" {
		coin = DefaultCoin
	}

	return &SnapshotSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		coin:    coin,
		quote:   "USD",
	}
}

// Name implements source.Source
func (s *SnapshotSource) Name() string {
	return Name
}

// Locators implements source.Source
func (s *SnapshotSource) Locators() []string {
	return []string{fmt.Sprintf("%s/tickers/%s", s.baseURL, s.coin)}
}

// Transform builds a minutes-before-now/percent-change table ordered oldest
// to newest. The name, symbol and as-of date go into the caption.
func (s *SnapshotSource) Transform(_ context.Context, _ fetcher.Fetcher, raw []*fetcher.Content) (*dataset.Data, error) {
	content, err := source.Single(Name, raw)
	if err != nil {
		return nil, err
	}

	var ticker TickerResponse
	if err := source.DecodeJSON(Name, content, &ticker); err != nil {
		return nil, err
	}

	quote, ok := ticker.Quotes[s.quote]
	if !ok {
		return nil, source.Errorf(Name, content.Locator, "missing %s quote", s.quote)
	}

	tbl := dataset.NewTable(ColumnMinutes, ColumnChange)
	for _, w := range slices.Backward(changeWindows) {
		v, ok := quote[w.field]
		if !ok {
			return nil, source.Errorf(Name, content.Locator, "missing key %q", w.field)
		}
		change, ok := dataset.ToFloat(v)
		if !ok {
			return nil, source.Errorf(Name, content.Locator, "%s %v is not numeric", w.field, v)
		}
		if err := tbl.AppendRow(float64(w.minutes-15), change); err != nil {
			return nil, &source.TransformError{Source: Name, Locator: content.Locator, Err: err}
		}
	}

	asOf, _, _ := strings.Cut(ticker.LastUpdated, "T")
	return &dataset.Data{
		Source:  Name,
		Caption: fmt.Sprintf("%s (%s) as of %s", ticker.Name, ticker.Symbol, asOf),
		Table:   tbl,
	}, nil
}

// View implements source.Source
func (s *SnapshotSource) View() render.View {
	return render.View{
		Title:   fmt.Sprintf("Price change in %s", s.quote),
		Columns: []string{ColumnMinutes, ColumnChange},
	}
}
