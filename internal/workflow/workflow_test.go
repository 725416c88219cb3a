package workflow

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"apiviz/internal/dataset"
	"apiviz/internal/fetcher"
	"apiviz/internal/render"
	"apiviz/internal/report"
	"apiviz/internal/source"
	"apiviz/internal/testutil"
)

// stubSource is a source whose steps are supplied by the test
type stubSource struct {
	name          string
	locators      []string
	transformFunc func(ctx context.Context, f fetcher.Fetcher, raw []*fetcher.Content) (*dataset.Data, error)
	transforms    int
}

func (s *stubSource) Name() string       { return s.name }
func (s *stubSource) Locators() []string { return s.locators }
func (s *stubSource) View() render.View  { return render.View{Title: s.name} }

func (s *stubSource) Transform(ctx context.Context, f fetcher.Fetcher, raw []*fetcher.Content) (*dataset.Data, error) {
	s.transforms++
	if s.transformFunc != nil {
		return s.transformFunc(ctx, f, raw)
	}
	return &dataset.Data{Source: s.name, Payload: raw[0].Body}, nil
}

// reportingSource adds the report hook to stubSource
type reportingSource struct {
	stubSource
	reportErr error
}

func (s *reportingSource) Report(data *dataset.Data) (*report.Summary, error) {
	if s.reportErr != nil {
		return nil, s.reportErr
	}
	return (&report.Summary{}).Section("Summary").Add("Bytes", float64(len(data.Payload))), nil
}

type recordingSink struct {
	summaries []*report.Summary
}

func (s *recordingSink) Report(summary *report.Summary) error {
	s.summaries = append(s.summaries, summary)
	return nil
}

func TestNew_DefaultSink(t *testing.T) {
	o := New(testutil.NewMockFetcher(nil), &testutil.MockRenderer{}, nil)
	if _, ok := o.sink.(report.NopSink); !ok {
		t.Errorf("sink = %T, want report.NopSink", o.sink)
	}
}

func TestRun_Success(t *testing.T) {
	f := testutil.NewMockFetcher(map[string]string{
		"https://api.example.com/a": "payload",
	})
	r := &testutil.MockRenderer{}
	sink := &recordingSink{}
	src := &reportingSource{stubSource: stubSource{name: "stub", locators: []string{"https://api.example.com/a"}}}

	if err := New(f, r, sink).Run(context.Background(), src); err != nil {
		t.Fatalf("Run() returned unexpected error: %v", err)
	}

	if diff := cmp.Diff([]string{"https://api.example.com/a"}, f.Calls()); diff != "" {
		t.Errorf("Calls() mismatch (-want +got):\n%s", diff)
	}
	if len(sink.summaries) != 1 {
		t.Fatalf("sink received %d summaries, want 1", len(sink.summaries))
	}
	if got, _ := sink.summaries[0].Lookup("Bytes"); got != 7 {
		t.Errorf("Bytes = %v, want 7", got)
	}
	if len(r.Rendered) != 1 {
		t.Fatalf("rendered %d times, want 1", len(r.Rendered))
	}
	if r.Rendered[0].Source != "stub" {
		t.Errorf("rendered Source = %q, want stub", r.Rendered[0].Source)
	}
}

func TestRun_MultipleLocatorsInOrder(t *testing.T) {
	f := testutil.NewMockFetcher(map[string]string{
		"https://api.example.com/1": "one",
		"https://api.example.com/2": "two",
	})
	var got []string
	src := &stubSource{
		name:     "stub",
		locators: []string{"https://api.example.com/1", "https://api.example.com/2"},
		transformFunc: func(_ context.Context, _ fetcher.Fetcher, raw []*fetcher.Content) (*dataset.Data, error) {
			for _, c := range raw {
				got = append(got, string(c.Body))
			}
			return &dataset.Data{Source: "stub", Payload: []byte("x")}, nil
		},
	}

	if err := New(f, &testutil.MockRenderer{}, nil).Run(context.Background(), src); err != nil {
		t.Fatalf("Run() returned unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"one", "two"}, got); diff != "" {
		t.Errorf("raw bodies mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_NoReportHook(t *testing.T) {
	f := testutil.NewMockFetcher(map[string]string{"https://api.example.com/a": "x"})
	sink := &recordingSink{}
	r := &testutil.MockRenderer{}

	src := &stubSource{name: "stub", locators: []string{"https://api.example.com/a"}}
	if err := New(f, r, sink).Run(context.Background(), src); err != nil {
		t.Fatalf("Run() returned unexpected error: %v", err)
	}

	if len(sink.summaries) != 0 {
		t.Errorf("sink received %d summaries, want 0", len(sink.summaries))
	}
	if len(r.Rendered) != 1 {
		t.Errorf("rendered %d times, want 1", len(r.Rendered))
	}
}

func TestRun_FetchError(t *testing.T) {
	f := testutil.NewMockFetcher(map[string]string{
		"https://api.example.com/1": "one",
	})
	r := &testutil.MockRenderer{}
	src := &stubSource{name: "stub", locators: []string{"https://api.example.com/1", "https://api.example.com/missing"}}

	err := New(f, r, nil).Run(context.Background(), src)

	var fe *fetcher.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("Run() error = %v, want *fetcher.FetchError", err)
	}
	if fe.Locator != "https://api.example.com/missing" || fe.StatusCode != 404 {
		t.Errorf("FetchError = %+v, want missing locator with status 404", fe)
	}
	if src.transforms != 0 {
		t.Errorf("Transform called %d times, want 0", src.transforms)
	}
	if len(r.Rendered) != 0 {
		t.Errorf("rendered %d times after fetch failure, want 0", len(r.Rendered))
	}
}

func TestRun_TransformErrors(t *testing.T) {
	plain := errors.New("unexpected shape")
	typed := &source.TransformError{Source: "stub", Err: errors.New("missing key")}
	fetchErr := fetcher.ClassifyHTTPError("https://api.example.com/secondary", 500)

	tests := []struct {
		name      string
		err       error
		wantFetch bool
	}{
		{"plain error is wrapped", plain, false},
		{"transform error passes through", typed, false},
		{"secondary fetch error passes through", fetchErr, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := testutil.NewMockFetcher(map[string]string{"https://api.example.com/a": "x"})
			r := &testutil.MockRenderer{}
			src := &stubSource{
				name:     "stub",
				locators: []string{"https://api.example.com/a"},
				transformFunc: func(context.Context, fetcher.Fetcher, []*fetcher.Content) (*dataset.Data, error) {
					return nil, tt.err
				},
			}

			err := New(f, r, nil).Run(context.Background(), src)
			if !errors.Is(err, tt.err) {
				t.Errorf("Run() error = %v, want it to wrap %v", err, tt.err)
			}

			var fe *fetcher.FetchError
			var te *source.TransformError
			if tt.wantFetch {
				if !errors.As(err, &fe) {
					t.Errorf("Run() error = %v, want *fetcher.FetchError", err)
				}
			} else {
				if !errors.As(err, &te) {
					t.Fatalf("Run() error = %v, want *source.TransformError", err)
				}
				if te.Source != "stub" {
					t.Errorf("Source = %q, want stub", te.Source)
				}
			}
			if len(r.Rendered) != 0 {
				t.Errorf("rendered %d times after transform failure, want 0", len(r.Rendered))
			}
		})
	}
}

func TestRun_DataWithoutMatchingSource(t *testing.T) {
	for _, name := range []string{"", "other"} {
		t.Run("source "+name, func(t *testing.T) {
			f := testutil.NewMockFetcher(map[string]string{"https://api.example.com/a": "x"})
			r := &testutil.MockRenderer{}
			src := &stubSource{
				name:     "stub",
				locators: []string{"https://api.example.com/a"},
				transformFunc: func(context.Context, fetcher.Fetcher, []*fetcher.Content) (*dataset.Data, error) {
					return &dataset.Data{Source: name, Payload: []byte("x")}, nil
				},
			}

			err := New(f, r, nil).Run(context.Background(), src)

			var te *source.TransformError
			if !errors.As(err, &te) {
				t.Fatalf("Run() error = %v, want *source.TransformError", err)
			}
			if len(r.Rendered) != 0 {
				t.Errorf("rendered %d times, want 0", len(r.Rendered))
			}
		})
	}
}

func TestRun_ReportAndRenderErrors(t *testing.T) {
	f := testutil.NewMockFetcher(map[string]string{"https://api.example.com/a": "x"})

	reportFails := &reportingSource{
		stubSource: stubSource{name: "stub", locators: []string{"https://api.example.com/a"}},
		reportErr:  errors.New("no prices"),
	}
	r := &testutil.MockRenderer{}
	if err := New(f, r, nil).Run(context.Background(), reportFails); err == nil || !strings.Contains(err.Error(), "no prices") {
		t.Errorf("Run() error = %v, want report failure", err)
	}
	if len(r.Rendered) != 0 {
		t.Errorf("rendered %d times after report failure, want 0", len(r.Rendered))
	}

	renderFails := &testutil.MockRenderer{
		RenderFunc: func(*dataset.Data, render.View) error { return errors.New("terminal gone") },
	}
	src := &stubSource{name: "stub", locators: []string{"https://api.example.com/a"}}
	if err := New(f, renderFails, nil).Run(context.Background(), src); err == nil || !strings.Contains(err.Error(), "terminal gone") {
		t.Errorf("Run() error = %v, want render failure", err)
	}
}

func TestRun_NoLocators(t *testing.T) {
	err := New(testutil.NewMockFetcher(nil), &testutil.MockRenderer{}, nil).Run(context.Background(), &stubSource{name: "empty"})
	if err == nil {
		t.Error("Run() expected error for source without locators, got nil")
	}
}

func TestRunAll(t *testing.T) {
	f := testutil.NewMockFetcher(map[string]string{"https://api.example.com/ok": "x"})
	o := New(f, &testutil.MockRenderer{}, nil)

	results := o.RunAll(context.Background(), []source.Source{
		&stubSource{name: "first", locators: []string{"https://api.example.com/ok"}},
		&stubSource{name: "second", locators: []string{"https://api.example.com/gone"}},
		&stubSource{name: "third", locators: []string{"https://api.example.com/ok"}},
	})

	if len(results) != 3 {
		t.Fatalf("RunAll() returned %d results, want 3", len(results))
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Errorf("unexpected errors: %v, %v", results[0].Err, results[2].Err)
	}
	if results[1].Err == nil {
		t.Error("second result has no error, want fetch failure")
	}

	var buf bytes.Buffer
	if failed := Print(&buf, results); failed != 1 {
		t.Errorf("Print() = %d failed, want 1", failed)
	}
	out := buf.String()
	if !strings.Contains(out, "first: OK\n") || !strings.Contains(out, "second: ERROR - ") {
		t.Errorf("Print() output = %q", out)
	}
}

func TestRunAll_ContextCancelled(t *testing.T) {
	f := testutil.NewMockFetcher(map[string]string{"https://api.example.com/ok": "x"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := New(f, &testutil.MockRenderer{}, nil).RunAll(ctx, []source.Source{
		&stubSource{name: "first", locators: []string{"https://api.example.com/ok"}},
	})

	if !errors.Is(results[0].Err, context.Canceled) {
		t.Errorf("Err = %v, want context.Canceled", results[0].Err)
	}
	if len(f.Calls()) != 0 {
		t.Errorf("Calls() = %v, want none", f.Calls())
	}
}
