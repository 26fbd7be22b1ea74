package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/ligustah/spritefetch/internal/config"
	"github.com/ligustah/spritefetch/internal/record"
	"github.com/ligustah/spritefetch/internal/store"
)

// checkResult is the validation state of one record.
type checkResult struct {
	problem string
}

// runValidate checks that every record with a sprite has a non-empty file in
// output_dir. It reads sizes only, never contents.
func runValidate(args []string) int {
	flags := flag.NewFlagSet("validate", flag.ContinueOnError)

	var common cliFlags
	common.register(flags)

	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: spritefetch validate [options] output_dir input...

Check that every record with a sprite in the inputs has a non-empty file in
output_dir. Does not fetch anything.

Options:`)
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		return ExitInvalidArgs
	}
	if flags.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Error: output_dir and at least one input are required")
		flags.Usage()
		return ExitInvalidArgs
	}
	outputDir := flags.Arg(0)

	cfg, err := loadConfig(&common, config.Config{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		return ExitInvalidArgs
	}

	records, err := loadRecords(flags.Args()[1:], cfg.StrictNames)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading inputs: %v\n", err)
		return ExitInputError
	}

	ctx, cancel := signalContext(nil)
	defer cancel()

	st, err := openStore(ctx, cfg, outputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening storage: %v\n", err)
		return ExitStorageError
	}
	defer st.Close()

	results, err := checkRecords(ctx, st, records, cfg.Workers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitStorageError
	}

	expected := 0
	var problems []string
	for i, r := range records {
		if !r.HasResource() {
			continue
		}
		expected++
		if results[i].problem != "" {
			problems = append(problems, results[i].problem)
		}
	}

	fmt.Printf("Output: %s\n", outputDir)
	fmt.Printf("Records: %d\n", len(records))
	fmt.Printf("Sprites expected: %d\n", expected)

	if len(problems) == 0 {
		fmt.Println("Status: VALID")
		return ExitSuccess
	}

	fmt.Println("Status: INVALID")
	fmt.Println("\nErrors:")
	for _, p := range problems {
		fmt.Printf("  - %s\n", p)
	}

	return ExitValidationFailed
}

// checkRecords looks up the stored size of every record with a sprite,
// running up to workers lookups at once.
func checkRecords(ctx context.Context, st store.Store, records []record.Record, workers int) ([]checkResult, error) {
	results := make([]checkResult, len(records))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, r := range records {
		if !r.HasResource() {
			continue
		}
		g.Go(func() error {
			size, err := st.Size(ctx, r)
			switch {
			case errors.Is(err, fs.ErrNotExist):
				results[i].problem = fmt.Sprintf("%s: missing %s", r, st.Location(r))
			case err != nil:
				return fmt.Errorf("check %s: %w", r, err)
			case size == 0:
				results[i].problem = fmt.Sprintf("%s: empty %s", r, st.Location(r))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
