// Package http provides the shared HTTP session used to fetch sprites.
//
// This package handles:
//   - Connection pooling shared by every fetch of a run
//   - Classifying a locator as absent, fetched or failed
//   - Mapping non-success status codes to sentinel errors
//   - Capping response size
//
// Requests are never retried here; a failed fetch is reported once and the
// caller decides what to do with it.
//
// # Usage
//
//	client := http.NewClient(http.Options{
//	    MaxIdleConnsPerHost: 20,
//	    Timeout:             30 * time.Second,
//	})
//	defer client.Close()
//
//	res := client.Fetch(ctx, "https://example.com/pikachu.png")
//	switch res.Kind {
//	case http.ResultBytes:   // res.Body holds the content
//	case http.ResultAbsent:  // no locator, nothing was requested
//	case http.ResultFailed:  // res.Err holds the cause
//	}
package http
