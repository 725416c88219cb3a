// Package report holds summary statistics computed from normalized data and
// the sinks they are written to.
package report

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Entry is one line of a summary. A nil Value marks a section label.
type Entry struct {
	Label string
	Value *float64

	// Integer marks counts, which are written without decimals
	Integer bool
}

// IsSection reports whether the entry is a label without a value
func (e Entry) IsSection() bool {
	return e.Value == nil
}

// Summary is an ordered list of labeled metrics
type Summary struct {
	Entries []Entry
}

// Section appends a label with no value
func (s *Summary) Section(label string) *Summary {
	s.Entries = append(s.Entries, Entry{Label: label})
	return s
}

// Add appends a labeled value
func (s *Summary) Add(label string, value float64) *Summary {
	s.Entries = append(s.Entries, Entry{Label: label, Value: &value})
	return s
}

// Count appends a labeled integer value
func (s *Summary) Count(label string, n int) *Summary {
	value := float64(n)
	s.Entries = append(s.Entries, Entry{Label: label, Value: &value, Integer: true})
	return s
}

// Lookup returns the value stored under label
func (s *Summary) Lookup(label string) (float64, bool) {
	for _, e := range s.Entries {
		if e.Label == label && e.Value != nil {
			return *e.Value, true
		}
	}
	return 0, false
}

// Stats describes a series of values
type Stats struct {
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

// Describe computes count, min, max, mean and sample standard deviation.
// StdDev is 0 for fewer than two values; all fields are 0 for none.
func Describe(values []float64) Stats {
	st := Stats{Count: len(values)}
	if st.Count == 0 {
		return st
	}

	st.Min = floats.Min(values)
	st.Max = floats.Max(values)
	st.Mean = stat.Mean(values, nil)
	if st.Count > 1 {
		st.StdDev = stat.StdDev(values, nil)
	}
	return st
}
