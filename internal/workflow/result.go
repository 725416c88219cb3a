package workflow

import (
	"fmt"
	"io"
)

// Result represents the outcome of one workflow run.
type Result struct {
	// Source is the key of the data source that ran
	Source string

	// Err is nil when every step succeeded
	Err error
}

// Print writes results in the format:
//   - Success: "SOURCE: OK"
//   - Error: "SOURCE: ERROR - error message"
//
// It returns the number of failed results.
func Print(w io.Writer, results []Result) int {
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(w, "%s: ERROR - %v\n", r.Source, r.Err)
			continue
		}
		fmt.Fprintf(w, "%s: OK\n", r.Source)
	}
	return failed
}
