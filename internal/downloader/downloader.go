package downloader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	spritehttp "github.com/ligustah/spritefetch/internal/http"
	"github.com/ligustah/spritefetch/internal/progress"
	"github.com/ligustah/spritefetch/internal/record"
	"github.com/ligustah/spritefetch/internal/store"
)

// ErrNoStore is returned when Options.Store is nil.
var ErrNoStore = errors.New("downloader: no store configured")

// Options configures a batch run.
type Options struct {
	// Strategy schedules the records. Default: Pool with DefaultWorkers.
	Strategy Strategy

	// Store persists fetched sprites. Required.
	Store store.Store

	// Reset clears the store before the first fetch. A failed reset aborts
	// the run.
	Reset bool

	// Fetcher overrides the HTTP session. When nil, a client is created from
	// HTTPOptions and closed when Run returns.
	Fetcher Fetcher

	// HTTPOptions configures the client created when Fetcher is nil. Zero
	// Timeout and MaxIdleConnsPerHost take their defaults.
	HTTPOptions spritehttp.Options

	// Deadline bounds the whole run. Zero means no deadline.
	Deadline time.Duration

	// Progress is an optional progress reporter.
	Progress *progress.Reporter
}

// Run processes every record and returns a report with one outcome per
// record. The returned error is reserved for setup failures; per-record
// failures only show up in the report.
func Run(ctx context.Context, records []record.Record, opts Options) (*Report, error) {
	if opts.Store == nil {
		return nil, ErrNoStore
	}
	if opts.Strategy == nil {
		opts.Strategy = Pool{Workers: DefaultWorkers}
	}

	report := &Report{
		RunID:     uuid.New(),
		Strategy:  opts.Strategy.Name(),
		StartedAt: time.Now().UTC(),
		Outcomes:  make([]Outcome, len(records)),
	}

	logger := log.Ctx(ctx).With().
		Str("run", report.RunID.String()).
		Str("strategy", report.Strategy).
		Logger()
	ctx = logger.WithContext(ctx)

	if opts.Reset {
		if err := opts.Store.Reset(ctx); err != nil {
			return nil, fmt.Errorf("reset output: %w", err)
		}
	}

	if opts.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Deadline)
		defer cancel()
	}

	fetcher := opts.Fetcher
	if fetcher == nil {
		httpOpts := opts.HTTPOptions
		if httpOpts.Timeout == 0 {
			httpOpts.Timeout = spritehttp.DefaultOptions().Timeout
		}
		client := spritehttp.NewClient(httpOpts)
		defer client.Close()
		fetcher = client
	}

	proc := &Processor{
		Fetcher:  fetcher,
		Store:    opts.Store,
		Progress: opts.Progress,
	}

	logger.Info().Int("records", len(records)).Msg("starting batch")

	attempted := make([]bool, len(records))
	opts.Strategy.Run(ctx, len(records), func(ctx context.Context, i int) {
		attempted[i] = true
		if err := ctx.Err(); err != nil {
			report.Outcomes[i] = errored(records[i], err)
			if opts.Progress != nil {
				opts.Progress.ItemStarted()
				opts.Progress.ItemFailed()
			}
			return
		}
		report.Outcomes[i] = proc.Process(ctx, records[i])
	})

	for i, ok := range attempted {
		if !ok {
			report.Outcomes[i] = errored(records[i], ErrNotAttempted)
		}
	}

	report.FinishedAt = time.Now().UTC()
	report.Finalize()

	logger.Info().
		Int("saved", report.Summary.Saved).
		Int("skipped", report.Summary.Skipped).
		Int("errored", report.Summary.Errored).
		Int64("bytes", report.Summary.Bytes).
		Dur("elapsed", report.Elapsed()).
		Msg("batch finished")

	return report, nil
}
