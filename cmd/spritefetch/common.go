package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"

	"github.com/ligustah/spritefetch/internal/config"
	"github.com/ligustah/spritefetch/internal/progress"
	"github.com/ligustah/spritefetch/internal/record"
	"github.com/ligustah/spritefetch/internal/store"
)

// cliFlags holds the flags shared by every command. Values left at zero do
// not override the config file or environment.
type cliFlags struct {
	configFile  string
	workers     int
	limit       int
	bucket      string
	strictNames bool
}

func (f *cliFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.configFile, "config", "", "YAML config file")
	fs.IntVar(&f.workers, "workers", 0, "Number of pool workers (default 10)")
	fs.IntVar(&f.limit, "limit", 0, "Max in-flight fetches for async, 0 for unbounded")
	fs.StringVar(&f.bucket, "bucket", "", "Bucket URL to store sprites in; output_dir becomes the key prefix")
	fs.BoolVar(&f.strictNames, "strict-names", false, "Reject records whose name or category is not a single path segment")
}

// loadConfig layers defaults, the config file, the environment and flags.
func loadConfig(f *cliFlags, override config.Config) (config.Config, error) {
	cfg := config.Default()
	if f.configFile != "" {
		var err error
		cfg, err = config.LoadFromFile(f.configFile)
		if err != nil {
			return config.Config{}, err
		}
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return config.Config{}, err
	}

	override.Workers = f.workers
	override.Limit = f.limit
	override.Bucket = f.bucket
	override.StrictNames = f.strictNames
	cfg = cfg.Merge(override)

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(onSignal func()) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			if onSignal != nil {
				onSignal()
			}
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// loadRecords reads the inputs and optionally checks every record's names.
func loadRecords(inputs []string, strictNames bool) ([]record.Record, error) {
	records, err := record.Load(inputs...)
	if err != nil {
		return nil, err
	}
	if strictNames {
		for i, r := range records {
			if err := record.Validate(r); err != nil {
				return nil, fmt.Errorf("record %d: %w", i+1, err)
			}
		}
	}
	return records, nil
}

func openStore(ctx context.Context, cfg config.Config, outputDir string) (store.Store, error) {
	if cfg.Bucket != "" {
		return store.OpenBucket(ctx, cfg.Bucket, outputDir)
	}
	return store.NewDir(outputDir), nil
}

func parseSize(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	return progress.ParseBytes(s)
}
