// Command apiviz fetches data from public REST APIs, summarizes it and renders
// it as tables, markdown or image files.
//
// Usage:
//
//	apiviz run crypto
//	apiviz run dog autobahn --output-dir out
//	apiviz run crypto --use-stored --format markdown
//	apiviz sources
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
