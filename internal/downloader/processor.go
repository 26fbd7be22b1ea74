package downloader

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	spritehttp "github.com/ligustah/spritefetch/internal/http"
	"github.com/ligustah/spritefetch/internal/progress"
	"github.com/ligustah/spritefetch/internal/record"
	"github.com/ligustah/spritefetch/internal/store"
)

// Fetcher retrieves the content behind a resource locator.
// *spritehttp.Client is the production implementation.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) spritehttp.Result
}

// Processor is the unit of work for one record. It is safe for concurrent
// use as long as its Fetcher and Store are.
type Processor struct {
	Fetcher  Fetcher
	Store    store.Store
	Progress *progress.Reporter // optional
}

// Process fetches r and persists it. It always returns an Outcome; panics
// from the fetcher or store are recovered into an errored outcome.
func (p *Processor) Process(ctx context.Context, r record.Record) (out Outcome) {
	started := time.Now()
	if p.Progress != nil {
		p.Progress.ItemStarted()
	}

	defer func() {
		if v := recover(); v != nil {
			out = errored(r, fmt.Errorf("panic: %v", v))
		}
		out.Duration = time.Since(started)
		p.finish(ctx, out)
	}()

	res := p.Fetcher.Fetch(ctx, r.ResourceRef)
	switch res.Kind {
	case spritehttp.ResultAbsent:
		return skipped(r)
	case spritehttp.ResultFailed:
		return errored(r, &FetchError{Ref: r.ResourceRef, Err: res.Err})
	}

	// The bytes are in hand; persist them even if the run is being cancelled.
	wctx := context.WithoutCancel(ctx)
	location := p.Store.Location(r)

	if err := p.Store.Prepare(wctx, r); err != nil {
		return errored(r, &PersistError{Op: "prepare", Path: location, Err: err})
	}
	if err := p.Store.Put(wctx, r, res.Body); err != nil {
		return errored(r, &PersistError{Op: "write", Path: location, Err: err})
	}
	return saved(r, location, int64(len(res.Body)))
}

func (p *Processor) finish(ctx context.Context, out Outcome) {
	logger := log.Ctx(ctx)
	switch out.Status {
	case StatusSaved:
		if p.Progress != nil {
			p.Progress.ItemSaved(out.Bytes)
		}
		logger.Debug().
			Str("record", out.Record.String()).
			Str("location", out.Location).
			Int64("bytes", out.Bytes).
			Dur("took", out.Duration).
			Msg("saved")
	case StatusSkipped:
		if p.Progress != nil {
			p.Progress.ItemSkipped()
		}
		logger.Debug().
			Str("record", out.Record.String()).
			Msg("no resource, skipped")
	default:
		if p.Progress != nil {
			p.Progress.ItemFailed()
		}
		logger.Warn().
			Err(out.Err).
			Str("record", out.Record.String()).
			Str("ref", out.Record.ResourceRef).
			Msg("record failed")
	}
}
