// Package downloader fetches a batch of sprites and persists them.
//
// Each record goes through a single [Processor]: fetch the resource, skip
// it if there is none, otherwise create the category location and write the
// bytes. The result is an [Outcome] value; no per-record failure escapes as
// an error or aborts the batch.
//
// # Usage
//
//	report, err := downloader.Run(ctx, records, downloader.Options{
//	    Strategy: downloader.Pool{Workers: 10},
//	    Store:    store.NewDir("out"),
//	    Reset:    true,
//	})
//	// err is only set for setup failures; report.Outcomes has one entry per record.
//
// # Strategies
//
// The scheduler is pluggable and every strategy writes the same files:
//   - [Sequential]: one record at a time, in input order
//   - [Pool]: a fixed number of workers pulling from a shared queue
//   - [Cooperative]: one goroutine per record, optionally capped by Limit
//
// # Cancellation
//
// Cancelling the context (or hitting Options.Deadline) aborts in-flight
// fetches and marks records that have not started as errored. Writes that
// already have their bytes run to completion.
package downloader
