package downloader

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ligustah/spritefetch/internal/record"
)

// Status is the terminal state of one record.
type Status string

const (
	// StatusSaved means the resource was fetched and written.
	StatusSaved Status = "saved"
	// StatusSkipped means the record had no resource to fetch.
	StatusSkipped Status = "skipped"
	// StatusErrored means fetching or persisting failed.
	StatusErrored Status = "errored"
)

// ErrNotAttempted is the cause recorded for records a strategy never ran.
var ErrNotAttempted = errors.New("downloader: record was not attempted")

// FetchError is a network failure or non-success status for one record.
type FetchError struct {
	Ref string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Ref, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// PersistError is a failure to create the location or write the file.
type PersistError struct {
	Op   string // "prepare" or "write"
	Path string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// Outcome is the result of processing one record.
type Outcome struct {
	Record   record.Record `json:"record"`
	Status   Status        `json:"status"`
	Err      error         `json:"-"`
	Detail   string        `json:"detail,omitempty"`
	Location string        `json:"location,omitempty"`
	Bytes    int64         `json:"bytes,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

func saved(r record.Record, location string, n int64) Outcome {
	return Outcome{Record: r, Status: StatusSaved, Location: location, Bytes: n}
}

func skipped(r record.Record) Outcome {
	return Outcome{Record: r, Status: StatusSkipped}
}

func errored(r record.Record, err error) Outcome {
	return Outcome{Record: r, Status: StatusErrored, Err: err, Detail: err.Error()}
}

// Summary counts outcomes by status.
type Summary struct {
	Total   int   `json:"total"`
	Saved   int   `json:"saved"`
	Skipped int   `json:"skipped"`
	Errored int   `json:"errored"`
	Bytes   int64 `json:"bytes"`
}

// Report is the result of one batch run. Outcomes[i] belongs to the i-th
// input record regardless of the order in which records completed.
type Report struct {
	RunID      uuid.UUID `json:"run_id"`
	Strategy   string    `json:"strategy"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Outcomes   []Outcome `json:"outcomes"`
	Summary    Summary   `json:"summary"`
}

// Finalize recomputes the summary from the outcomes.
func (r *Report) Finalize() {
	s := Summary{Total: len(r.Outcomes)}
	for _, o := range r.Outcomes {
		switch o.Status {
		case StatusSaved:
			s.Saved++
			s.Bytes += o.Bytes
		case StatusSkipped:
			s.Skipped++
		case StatusErrored:
			s.Errored++
		}
	}
	r.Summary = s
}

// Failed reports whether any record errored.
func (r *Report) Failed() bool {
	return r.Summary.Errored > 0
}

// Elapsed is the wall-clock duration of the run.
func (r *Report) Elapsed() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
