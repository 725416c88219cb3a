package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"apiviz/internal/dataset"
	"apiviz/internal/fetcher"
	"apiviz/internal/render"
	"apiviz/internal/report"
	"apiviz/internal/source"
)

// Orchestrator runs the fetch → transform → report → render sequence for a
// data source
type Orchestrator struct {
	fetcher  fetcher.Fetcher
	renderer render.Renderer
	sink     report.Sink
}

// New creates an Orchestrator. A nil sink discards reports.
func New(f fetcher.Fetcher, r render.Renderer, sink report.Sink) *Orchestrator {
	if sink == nil {
		sink = report.NopSink{}
	}
	return &Orchestrator{
		fetcher:  f,
		renderer: r,
		sink:     sink,
	}
}

// Run executes the four steps for src in order. The first error aborts the
// run; nothing is rendered for a failed run.
//
// Fetch failures are returned as *fetcher.FetchError and malformed content as
// *source.TransformError, both reachable with errors.As.
func (o *Orchestrator) Run(ctx context.Context, src source.Source) error {
	log := slog.With("source", src.Name())

	// Step 1: fetch
	locators := src.Locators()
	if len(locators) == 0 {
		return fmt.Errorf("%s: no locators to fetch", src.Name())
	}

	raw := make([]*fetcher.Content, 0, len(locators))
	for _, locator := range locators {
		log.Debug("fetching", "url", locator)
		content, err := o.fetcher.Fetch(ctx, locator)
		if err != nil {
			return fmt.Errorf("%s: %w", src.Name(), err)
		}
		raw = append(raw, content)
	}

	// Step 2: transform
	data, err := o.transform(ctx, src, raw)
	if err != nil {
		return err
	}
	if data.Table != nil {
		log.Info("content transformed", "rows", data.Table.Len(), "columns", len(data.Table.Columns()))
	} else {
		log.Info("content transformed", "bytes", len(data.Payload))
	}

	// Step 3: report (hook)
	if reporter, ok := src.(source.Reporter); ok {
		summary, err := reporter.Report(data)
		if err != nil {
			return fmt.Errorf("%s: report: %w", src.Name(), err)
		}
		if err := o.sink.Report(summary); err != nil {
			return fmt.Errorf("%s: %w", src.Name(), err)
		}
	}

	// Step 4: render
	if err := o.renderer.Render(data, src.View()); err != nil {
		return fmt.Errorf("%s: render: %w", src.Name(), err)
	}

	return nil
}

// transform runs the source's transform and classifies its failures
func (o *Orchestrator) transform(ctx context.Context, src source.Source, raw []*fetcher.Content) (*dataset.Data, error) {
	data, err := src.Transform(ctx, o.fetcher, raw)
	if err != nil {
		var fetchErr *fetcher.FetchError
		var transformErr *source.TransformError
		switch {
		case errors.As(err, &fetchErr), errors.As(err, &transformErr):
			return nil, fmt.Errorf("%s: %w", src.Name(), err)
		default:
			return nil, &source.TransformError{Source: src.Name(), Err: err}
		}
	}
	if data == nil {
		return nil, source.Errorf(src.Name(), "", "transform returned no data")
	}
	if data.Source != src.Name() {
		return nil, source.Errorf(src.Name(), "", "transform returned data for source %q", data.Source)
	}
	return data, nil
}

// RunAll runs each source in turn and collects one Result per source.
// A failing source does not stop the ones after it.
func (o *Orchestrator) RunAll(ctx context.Context, sources []source.Source) []Result {
	results := make([]Result, 0, len(sources))
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			results = append(results, Result{Source: src.Name(), Err: err})
			continue
		}
		results = append(results, Result{
			Source: src.Name(),
			Err:    o.Run(ctx, src),
		})
	}
	return results
}
