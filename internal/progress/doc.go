// Package progress provides progress reporting for sprite batches.
//
// This package outputs human-readable progress information, including
// completion percentage, per-status counts and bytes written.
//
// # Usage
//
//	reporter := progress.NewReporter(Options{
//	    TotalItems: len(records),
//	    Workers:    10,
//	    Strategy:   "pool",
//	    Output:     os.Stderr,
//	})
//
//	reporter.Start()
//	defer reporter.Stop()
//
//	reporter.ItemStarted()
//	reporter.ItemSaved(len(content))
//
// # Output Format
//
//	[spritefetch] Fetching 151 sprites | Strategy: pool | Workers: 10
//	[spritefetch] Progress: 45.0% | 60 saved | 5 skipped | 3 errored | 10 in-flight | 1.21 MB
//	[spritefetch] Total time: 4s | 151 items | Average speed: 310.22 KB/s
package progress
