package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ligustah/spritefetch/internal/config"
	"github.com/ligustah/spritefetch/internal/downloader"
	spritehttp "github.com/ligustah/spritefetch/internal/http"
	"github.com/ligustah/spritefetch/internal/progress"
)

var progressOutput io.Writer = os.Stderr

// runFetch removes output_dir, then fetches the sprite of every record in
// the inputs into it using the strategy named by command.
func runFetch(command string, args []string) int {
	fs := flag.NewFlagSet(command, flag.ContinueOnError)

	var common cliFlags
	common.register(fs)
	timeout := fs.Duration("timeout", 0, "Per-request timeout (default 30s)")
	deadline := fs.Duration("deadline", 0, "Deadline for the whole run, 0 for none")
	maxSize := fs.String("max-size", "", "Reject sprites larger than this, e.g. 10MB")
	userAgent := fs.String("user-agent", "", "User-Agent header sent with every request")
	showProgress := fs.Bool("progress", false, "Show progress output")
	strict := fs.Bool("strict", false, "Exit non-zero when any record fails")
	reportPath := fs.String("report", "", "Write a JSON report of every outcome to this file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: spritefetch %s [options] output_dir input...

Remove output_dir, then fetch the sprite of every record in the inputs and
write it to output_dir/<category>/<name>.png.

Options:
`, command)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		return ExitInvalidArgs
	}
	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Error: output_dir and at least one input are required")
		fs.Usage()
		return ExitInvalidArgs
	}
	outputDir := fs.Arg(0)
	inputs := fs.Args()[1:]

	size, err := parseSize(*maxSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid max size: %v\n", err)
		return ExitInvalidArgs
	}

	cfg, err := loadConfig(&common, config.Config{
		Timeout:   *timeout,
		Deadline:  *deadline,
		MaxSize:   size,
		Progress:  *showProgress,
		Strict:    *strict,
		UserAgent: *userAgent,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		return ExitInvalidArgs
	}

	strategy, err := downloader.ParseStrategy(command, cfg.Workers, cfg.Limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitInvalidArgs
	}

	records, err := loadRecords(inputs, cfg.StrictNames)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading inputs: %v\n", err)
		return ExitInputError
	}

	ctx, cancel := signalContext(func() {
		fmt.Fprintln(os.Stderr, "\n[spritefetch] Received interrupt, shutting down...")
	})
	defer cancel()

	st, err := openStore(ctx, cfg, outputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening storage: %v\n", err)
		return ExitStorageError
	}
	defer st.Close()

	var reporter *progress.Reporter
	if cfg.Progress {
		reporter = progress.NewReporter(progress.Options{
			TotalItems:     len(records),
			Workers:        workersFor(strategy),
			Strategy:       strategy.Name(),
			Output:         progressOutput,
			UpdateInterval: 2 * time.Second,
		})
		reporter.Start()
	}

	httpOpts := spritehttp.DefaultOptions()
	httpOpts.Timeout = cfg.Timeout
	httpOpts.MaxSize = cfg.MaxSize
	httpOpts.UserAgent = cfg.UserAgent
	if n := cfg.Workers * 2; n > httpOpts.MaxIdleConnsPerHost {
		httpOpts.MaxIdleConnsPerHost = n
	}

	report, err := downloader.Run(ctx, records, downloader.Options{
		Strategy:    strategy,
		Store:       st,
		Reset:       true,
		HTTPOptions: httpOpts,
		Deadline:    cfg.Deadline,
		Progress:    reporter,
	})
	if reporter != nil {
		reporter.Stop()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error preparing output: %v\n", err)
		return ExitStorageError
	}

	log.Info().
		Str("strategy", report.Strategy).
		Msgf("%s took %s", command, progress.FormatDuration(report.Elapsed()))

	if *reportPath != "" {
		if err := writeReport(*reportPath, report); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
			return ExitGeneralError
		}
	}

	if ctx.Err() != nil {
		fmt.Fprintln(os.Stderr, "[spritefetch] Run interrupted")
		return ExitGeneralError
	}
	if cfg.Strict && report.Failed() {
		fmt.Fprintf(os.Stderr, "[spritefetch] %d of %d records failed\n", report.Summary.Errored, report.Summary.Total)
		return ExitPartialFailure
	}

	return ExitSuccess
}

func workersFor(s downloader.Strategy) int {
	switch s := s.(type) {
	case downloader.Sequential:
		return 1
	case downloader.Pool:
		if s.Workers <= 0 {
			return downloader.DefaultWorkers
		}
		return s.Workers
	case downloader.Cooperative:
		return s.Limit
	}
	return 0
}

func writeReport(path string, report *downloader.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
