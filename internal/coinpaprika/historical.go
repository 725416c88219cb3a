package coinpaprika

import (
	"context"
	"fmt"
	"strings"

	"apiviz/internal/dataset"
	"apiviz/internal/fetcher"
	"apiviz/internal/render"
	"apiviz/internal/report"
	"apiviz/internal/source"
)

const (
	// Name is the key the crypto source is selected by
	Name = "crypto"

	// DefaultBaseURL is the production Coinpaprika API
	DefaultBaseURL = "https://api.coinpaprika.com/v1"
	// DefaultCoin is the coin id prices are fetched for
	DefaultCoin = "btc-bitcoin"
	// DefaultStart is the first day of the historical series
	DefaultStart = "2024-07-01"
	// DefaultInterval is the spacing between historical data points
	DefaultInterval = "1d"

	// ColumnTime and ColumnPrice are the columns of historical data
	ColumnTime  = "time"
	ColumnPrice = "price"
)

// HistoricalParams selects the price series to fetch
type HistoricalParams struct {
	Coin     string
	Start    string
	Interval string
}

// HistoricalSource reads a coin's historical price series
type HistoricalSource struct {
	baseURL string
	params  HistoricalParams
}

// NewHistoricalSource creates a historical price source. Empty params fall
// back to the defaults.
func NewHistoricalSource(baseURL string, params HistoricalParams) *HistoricalSource {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if params.Coin == "" {
		params.Coin = DefaultCoin
	}
	if params.Start == "" {
		params.Start = DefaultStart
	}
	if params.Interval == "" {
		params.Interval = DefaultInterval
	}

	return &HistoricalSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		params:  params,
	}
}

// Name implements source.Source
func (s *HistoricalSource) Name() string {
	return Name
}

// Locators implements source.Source
func (s *HistoricalSource) Locators() []string {
	return []string{fmt.Sprintf("%s/tickers/%s/historical?start=%s&interval=%s",
		s.baseURL, s.params.Coin, s.params.Start, s.params.Interval)}
}

// Transform turns the price records into a time/price table, one row per
// record in response order.
func (s *HistoricalSource) Transform(_ context.Context, _ fetcher.Fetcher, raw []*fetcher.Content) (*dataset.Data, error) {
	content, err := source.Single(Name, raw)
	if err != nil {
		return nil, err
	}

	var records []map[string]any
	if err := source.DecodeJSON(Name, content, &records); err != nil {
		return nil, err
	}

	tbl := dataset.NewTable(ColumnTime, ColumnPrice)
	for i, rec := range records {
		ts, ok := rec["timestamp"]
		if !ok {
			return nil, source.Errorf(Name, content.Locator, "record %d: missing key %q", i, "timestamp")
		}
		rawPrice, ok := rec["price"]
		if !ok {
			return nil, source.Errorf(Name, content.Locator, "record %d: missing key %q", i, "price")
		}
		price, ok := dataset.ToFloat(rawPrice)
		if !ok {
			return nil, source.Errorf(Name, content.Locator, "record %d: price %v is not numeric", i, rawPrice)
		}

		if err := tbl.AppendRow(ts, price); err != nil {
			return nil, &source.TransformError{Source: Name, Locator: content.Locator, Err: err}
		}
	}

	return &dataset.Data{Source: Name, Table: tbl}, nil
}

// Report summarizes the price column
func (s *HistoricalSource) Report(data *dataset.Data) (*report.Summary, error) {
	if data.Table == nil {
		return nil, fmt.Errorf("crypto report needs tabular data")
	}
	prices, err := data.Table.Floats(ColumnPrice)
	if err != nil {
		return nil, err
	}

	st := report.Describe(prices)
	summary := &report.Summary{}
	summary.Section(fmt.Sprintf("Price summary for %s", s.params.Coin))
	summary.Count("Data points", st.Count)
	if st.Count == 0 {
		return summary, nil
	}

	summary.Add("Min price", st.Min).
		Add("Max price", st.Max).
		Add("Mean price", st.Mean).
		Add("Std deviation", st.StdDev)
	return summary, nil
}

// View implements source.Source
func (s *HistoricalSource) View() render.View {
	return render.View{
		Title:   "Price of Bitcoin from July 2024 to now",
		Columns: []string{ColumnTime, ColumnPrice},
	}
}
