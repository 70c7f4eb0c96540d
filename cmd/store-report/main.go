package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"storecli/internal/cleaning"
	"storecli/internal/config"
	"storecli/internal/exporter"
	"storecli/internal/infrastructure"
	"storecli/internal/loader"
	"storecli/internal/pipeline"
	"storecli/internal/report"
	"storecli/pkg/contracts"
)

// summaryTopN caps the rankings printed to the terminal
const summaryTopN = 5

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		slog.Error("Store report failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("store-report", flag.ContinueOnError)
	fs.SetOutput(stdout)
	inPath := fs.String("in", "", "input CSV or XLSX file of order lines (overrides input.path)")
	outDir := fs.String("out", "", "output directory for report files (overrides output.dir)")
	configFile := fs.String("config", "", "optional YAML configuration file")
	formats := fs.String("format", "", "comma-separated output formats: csv, json, xlsx (overrides output.formats)")
	showVersion := fs.Bool("version", false, "print version information and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *showVersion {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return nil
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		return err
	}
	applyFlags(cfg, *inPath, *outDir, *formats)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if cfg.Input.Path == "" {
		return fmt.Errorf("no input file: pass -in or set %s_INPUT_PATH", config.EnvPrefix)
	}

	runLog, err := infrastructure.NewLogger(cfg.Logging, os.Stderr)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer runLog.Close()
	logger := runLog.Logger

	paths, err := config.NewPaths(cfg)
	if err != nil {
		return err
	}
	paths.LogPathResolution()

	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			infrastructure.WithError(logger, err).Warn("OpenTelemetry shutdown failed")
		}
	}()

	pm, err := infrastructure.NewPipelineMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("create pipeline metrics: %w", err)
	}

	registry, err := pipeline.NewReportRegistry(pipeline.Deps{
		Source:  loader.NewLoader(cfg.Input, logger),
		Cleaner: cleaning.NewCleaner(cfg.Input.DateLayout, cfg.Report.MaxRejectionSamples, logger),
		Builder: report.NewBuilder(cfg.Report, pm, logger),
		Writer:  exporter.NewExporter(paths, cfg.Output.Formats, logger),
		Metrics: pm,
	})
	if err != nil {
		return err
	}

	ctx = infrastructure.EnsureTraceID(ctx)
	logger.InfoContext(ctx, "Starting store report",
		slog.String("version", contracts.Version),
		slog.String("input", cfg.Input.Path),
		slog.String("output_dir", paths.OutputDir),
		slog.String("formats", strings.Join(cfg.Output.Formats, ",")))

	state, runErr := pipeline.NewRunner(registry, providers.Tracer, pm, logger).Run(ctx, cfg.Input.Path)

	if err := providers.PushMetrics(ctx, cfg.Telemetry.PushgatewayURL, cfg.Telemetry.JobName, state.ID); err != nil {
		infrastructure.WithError(logger, err).WarnContext(ctx, "Failed to push metrics")
	}

	if runErr != nil {
		return runErr
	}

	printSummary(stdout, state)
	return nil
}

// applyFlags lets command-line flags override the loaded configuration
func applyFlags(cfg *config.Config, in, out, formats string) {
	if in != "" {
		cfg.Input.Path = in
	}
	if out != "" {
		cfg.Output.Dir = out
	}
	if formats != "" {
		cfg.Output.Formats = cfg.Output.Formats[:0]
		for _, f := range strings.Split(formats, ",") {
			if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
				cfg.Output.Formats = append(cfg.Output.Formats, f)
			}
		}
	}
}

func printSummary(w io.Writer, state *pipeline.State) {
	r := state.Report
	if r == nil {
		return
	}

	fmt.Fprintf(w, "\n=== STORE REPORT %s ===\n", r.RunID)
	fmt.Fprintf(w, "Rows: %d read, %d accepted, %d rejected\n",
		r.Rejections.Total, r.Rejections.Accepted, r.Rejections.Rejected)
	for _, reason := range cleaning.Reasons {
		if n := r.Rejections.Count(reason); n > 0 {
			fmt.Fprintf(w, "  %-30s %d\n", reason, n)
		}
	}

	fmt.Fprintf(w, "Customers: %d, retained %d (%s%%)\n",
		r.Retention.Customers, r.Retention.Retained, r.Retention.Rate.Format(2))
	fmt.Fprintf(w, "Mean days between orders: %s\n", r.Gaps.Mean.Format(2))
	if len(r.AOV) > 0 {
		fmt.Fprintf(w, "Average order value: %s over %d orders\n", r.AOV[0].AOV.Format(2), r.AOV[0].Orders)
	}
	if r.Growth.Error != "" {
		fmt.Fprintf(w, "Customer growth %d-%d: %s\n", r.Growth.BaseYear, r.Growth.TargetYear, r.Growth.Error)
	} else {
		fmt.Fprintf(w, "Customer growth %d-%d: %s%%\n", r.Growth.BaseYear, r.Growth.TargetYear, r.Growth.Rate.Format(2))
	}
	fmt.Fprintf(w, "Mean fulfillment days: %s\n", r.Latency.Overall.Format(2))

	if len(r.Rankings.TopProducts) > 0 {
		fmt.Fprintln(w, "\n=== TOP PRODUCTS BY SALES ===")
		fmt.Fprintln(w, "Rank | Sales        | Product")
		fmt.Fprintln(w, "-----|--------------|--------")
		for i, p := range r.Rankings.TopProducts {
			if i == summaryTopN {
				break
			}
			fmt.Fprintf(w, "%4d | %12s | %s\n", p.Rank, p.Sales.StringFixed(2), p.Key)
		}
	}

	if len(state.Files) > 0 {
		fmt.Fprintf(w, "\nWrote %d files in %s\n", len(state.Files), state.Duration().Round(time.Millisecond))
	}
}
