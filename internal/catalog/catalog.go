// Package catalog maps the short keys users pick sources by to the sources
// themselves.
package catalog

import (
	"fmt"
	"slices"
	"strings"

	"apiviz/internal/autobahn"
	"apiviz/internal/coinpaprika"
	"apiviz/internal/config"
	"apiviz/internal/dogceo"
	"apiviz/internal/source"
)

// Entry describes one selectable source
type Entry struct {
	Key         string
	Description string
	New         func(cfg *config.Config) source.Source
}

var entries = map[string]Entry{
	coinpaprika.Name: {
		Key:         coinpaprika.Name,
		Description: "Bitcoin price history from Coinpaprika",
		New:         newCrypto,
	},
	dogceo.Name: {
		Key:         dogceo.Name,
		Description: "Random dog picture from dog.ceo",
		New: func(cfg *config.Config) source.Source {
			return dogceo.NewImageSource(cfg.DogBaseURL)
		},
	},
	autobahn.Name: {
		Key:         autobahn.Name,
		Description: "Truck parking along German Autobahns",
		New: func(cfg *config.Config) source.Source {
			return autobahn.NewParkingSource(cfg.AutobahnBaseURL)
		},
	},
}

func newCrypto(cfg *config.Config) source.Source {
	if cfg.CryptoVariant == config.CryptoSnapshot {
		return coinpaprika.NewSnapshotSource(cfg.CryptoBaseURL, cfg.CryptoCoin)
	}
	return coinpaprika.NewHistoricalSource(cfg.CryptoBaseURL, coinpaprika.HistoricalParams{
		Coin:     cfg.CryptoCoin,
		Start:    cfg.CryptoStart,
		Interval: cfg.CryptoInterval,
	})
}

// Keys returns the selectable keys, sorted
func Keys() []string {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Entries returns every entry in key order
func Entries() []Entry {
	out := make([]Entry, 0, len(entries))
	for _, k := range Keys() {
		out = append(out, entries[k])
	}
	return out
}

// Lookup builds the source registered under key
func Lookup(key string, cfg *config.Config) (source.Source, error) {
	e, ok := entries[key]
	if !ok {
		return nil, fmt.Errorf("unknown source %q (available: %s)", key, strings.Join(Keys(), ", "))
	}
	return e.New(cfg), nil
}
