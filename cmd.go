package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"apiviz/internal/catalog"
	"apiviz/internal/config"
	"apiviz/internal/fetcher"
	"apiviz/internal/fixture"
	"apiviz/internal/ratelimit"
	"apiviz/internal/render"
	"apiviz/internal/report"
	"apiviz/internal/source"
	"apiviz/internal/workflow"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apiviz",
		Short: "Fetch, summarize and render data from public REST APIs",
		Long: `apiviz runs a fixed fetch, transform, report and render workflow against
one or more public APIs:

  crypto    Bitcoin price history from Coinpaprika
  dog       A random dog picture from dog.ceo
  autobahn  Truck parking along German Autobahns

Settings are read from config.yaml (in . or $HOME/.apiviz) and APIVIZ_*
environment variables; flags override both.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newSourcesCmd())

	return cmd
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <source> [source...]",
		Short: "Run the workflow for the given sources",
		Example: `  apiviz run crypto
  apiviz run dog autobahn --output-dir out
  apiviz run crypto --use-stored --format markdown`,
		Args: cobra.MinimumNArgs(1),
		RunE: runRun,
	}

	cmd.Flags().BoolP("use-stored", "s", false, "Use stored sample responses instead of calling the APIs")
	cmd.Flags().StringP("format", "f", "", "Table output format: table or markdown")
	cmd.Flags().String("report-format", "", "Report output format: text or markdown")
	cmd.Flags().StringP("output-dir", "o", "", "Directory images are written to")
	cmd.Flags().String("crypto-variant", "", "Crypto data: historical or snapshot")

	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	setupLogger(cmd, cfg)

	sources := make([]source.Source, 0, len(args))
	for _, key := range args {
		src, err := catalog.Lookup(strings.ToLower(key), cfg)
		if err != nil {
			return err
		}
		sources = append(sources, src)
	}

	useStored, _ := cmd.Flags().GetBool("use-stored")
	f, closeFetcher := newFetcher(cfg, useStored)
	defer closeFetcher()

	out := cmd.OutOrStdout()
	orchestrator := workflow.New(f, newRenderer(cfg, out), newSink(cfg, out))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results := orchestrator.RunAll(ctx, sources)
	if failed := workflow.Print(cmd.ErrOrStderr(), results); failed > 0 {
		return fmt.Errorf("%d of %d sources failed", failed, len(results))
	}
	return nil
}

func newSourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List the available data sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"Source", "Description"})

			for _, e := range catalog.Entries() {
				t.AppendRow(table.Row{e.Key, e.Description})
			}

			t.SetStyle(table.StyleRounded)
			t.Render()
			return nil
		},
	}
}

// loadConfig reads the configuration and applies flag overrides
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	overrides := map[string]*string{
		"format":         &cfg.RenderFormat,
		"report-format":  &cfg.ReportFormat,
		"output-dir":     &cfg.OutputDir,
		"crypto-variant": &cfg.CryptoVariant,
	}
	for flag, field := range overrides {
		if cmd.Flags().Changed(flag) {
			*field, _ = cmd.Flags().GetString(flag)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setupLogger(cmd *cobra.Command, cfg *config.Config) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func newFetcher(cfg *config.Config, useStored bool) (fetcher.Fetcher, func()) {
	if useStored {
		slog.Info("using stored sample data")
		return fixture.New(), func() {}
	}

	f := fetcher.NewHTTPFetcher(
		fetcher.NewHTTPClient(cfg.HTTPTimeout),
		ratelimit.New(cfg.RequestsPerSecond, 1),
	)
	return f, func() {
		if err := f.Close(); err != nil {
			slog.Debug("closing http client", "error", err.Error())
		}
	}
}

func newRenderer(cfg *config.Config, out io.Writer) render.Renderer {
	var tableRenderer render.Renderer = render.NewTableRenderer(out)
	if cfg.RenderFormat == config.RenderMarkdown {
		tableRenderer = render.NewMarkdownRenderer(out)
	}

	return &render.Dispatcher{
		Table:  tableRenderer,
		Binary: render.NewImageRenderer(cfg.OutputDir),
	}
}

func newSink(cfg *config.Config, out io.Writer) report.Sink {
	if cfg.ReportFormat == config.ReportMarkdown {
		return report.NewMarkdownSink(out)
	}
	return report.NewTextSink(out)
}
