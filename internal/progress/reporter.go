package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Options configures the progress reporter.
type Options struct {
	// TotalItems is the number of records in the batch.
	TotalItems int

	// Workers is the concurrency shown in the header. Zero hides it.
	Workers int

	// Strategy names the scheduling strategy (for display).
	Strategy string

	// Output is where to write progress output.
	// Default: os.Stderr
	Output io.Writer

	// UpdateInterval is how often to update the progress display.
	// Default: 500ms
	UpdateInterval time.Duration
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Saved      int
	Skipped    int
	Errored    int
	InProgress int
	Bytes      int64
}

// Done returns the number of items that reached a terminal status.
func (s Snapshot) Done() int {
	return s.Saved + s.Skipped + s.Errored
}

// Reporter outputs human-readable progress information. The Item* methods
// are safe for concurrent use and may be called on a Reporter that was
// never started.
type Reporter struct {
	opts Options

	mu         sync.Mutex
	saved      atomic.Int32
	skipped    atomic.Int32
	errored    atomic.Int32
	inProgress atomic.Int32
	bytes      atomic.Int64
	startTime  time.Time
	started    bool
	stopped    bool
	stopCh     chan struct{}
	doneCh     chan struct{}
}

// NewReporter creates a new progress reporter.
func NewReporter(opts Options) *Reporter {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	if opts.UpdateInterval == 0 {
		opts.UpdateInterval = 500 * time.Millisecond
	}

	return &Reporter{
		opts:   opts,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Start prints the header and begins periodic updates.
func (r *Reporter) Start() {
	r.mu.Lock()
	if r.started || r.stopped {
		r.mu.Unlock()
		return
	}
	r.started = true
	r.startTime = time.Now()
	r.mu.Unlock()

	header := fmt.Sprintf("[spritefetch] Fetching %d sprites", r.opts.TotalItems)
	if r.opts.Strategy != "" {
		header += " | Strategy: " + r.opts.Strategy
	}
	if r.opts.Workers > 0 {
		header += fmt.Sprintf(" | Workers: %d", r.opts.Workers)
	}
	fmt.Fprintln(r.opts.Output, header)

	go r.updateLoop()
}

// Stop prints the final status and stops updates. It returns once the
// final status has been written.
func (r *Reporter) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	started := r.started
	r.mu.Unlock()

	close(r.stopCh)
	if started {
		<-r.doneCh
	}
}

// ItemStarted marks an item as in flight.
func (r *Reporter) ItemStarted() {
	r.inProgress.Add(1)
}

// ItemSaved marks an in-flight item as saved with n bytes written.
func (r *Reporter) ItemSaved(n int64) {
	r.bytes.Add(n)
	r.saved.Add(1)
	r.inProgress.Add(-1)
}

// ItemSkipped marks an in-flight item as skipped.
func (r *Reporter) ItemSkipped() {
	r.skipped.Add(1)
	r.inProgress.Add(-1)
}

// ItemFailed marks an in-flight item as errored.
func (r *Reporter) ItemFailed() {
	r.errored.Add(1)
	r.inProgress.Add(-1)
}

// Snapshot returns the current counters.
func (r *Reporter) Snapshot() Snapshot {
	return Snapshot{
		Saved:      int(r.saved.Load()),
		Skipped:    int(r.skipped.Load()),
		Errored:    int(r.errored.Load()),
		InProgress: int(r.inProgress.Load()),
		Bytes:      r.bytes.Load(),
	}
}

// updateLoop periodically updates the progress display.
func (r *Reporter) updateLoop() {
	defer close(r.doneCh)

	ticker := time.NewTicker(r.opts.UpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			r.printFinalStatus()
			return
		case <-ticker.C:
			r.printProgress()
		}
	}
}

func (r *Reporter) percent(done int) float64 {
	if r.opts.TotalItems <= 0 {
		return 100
	}
	return float64(done) / float64(r.opts.TotalItems) * 100
}

// printProgress outputs the current progress on a single rewritten line.
func (r *Reporter) printProgress() {
	s := r.Snapshot()
	fmt.Fprintf(r.opts.Output, "\r[spritefetch] Progress: %.1f%% | %d saved | %d skipped | %d errored | %d in-flight | %s    ",
		r.percent(s.Done()),
		s.Saved,
		s.Skipped,
		s.Errored,
		s.InProgress,
		formatBytes(s.Bytes),
	)
}

// printFinalStatus outputs the final status.
func (r *Reporter) printFinalStatus() {
	s := r.Snapshot()
	duration := time.Since(r.startTime)
	avgSpeed := float64(s.Bytes) / max(duration.Seconds(), 0.001)

	fmt.Fprintf(r.opts.Output, "\r[spritefetch] Progress: %.1f%% | %d saved | %d skipped | %d errored | %s%s\n",
		r.percent(s.Done()),
		s.Saved,
		s.Skipped,
		s.Errored,
		formatBytes(s.Bytes),
		strings.Repeat(" ", 16),
	)
	fmt.Fprintf(r.opts.Output, "[spritefetch] Total time: %s | %d items | Average speed: %s/s\n",
		FormatDuration(duration),
		s.Done(),
		formatBytes(int64(avgSpeed)),
	)
}

// formatBytes formats bytes as a human-readable string.
func formatBytes(b int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
		TB = GB * 1024
	)

	switch {
	case b >= TB:
		return fmt.Sprintf("%.2f TB", float64(b)/float64(TB))
	case b >= GB:
		return fmt.Sprintf("%.2f GB", float64(b)/float64(GB))
	case b >= MB:
		return fmt.Sprintf("%.2f MB", float64(b)/float64(MB))
	case b >= KB:
		return fmt.Sprintf("%.2f KB", float64(b)/float64(KB))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// FormatDuration formats a duration as a human-readable string.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}

// FormatBytes is exported for use by other packages.
func FormatBytes(b int64) string {
	return formatBytes(b)
}

// ParseBytes parses a human-readable byte string (e.g., "10MB").
// Both KB and KiB style suffixes are binary multiples.
func ParseBytes(s string) (int64, error) {
	var multiplier int64 = 1
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(strings.ToUpper(s), "IB")
	if !strings.HasSuffix(s, "B") && len(s) > 0 && strings.ContainsRune("KMGT", rune(s[len(s)-1])) {
		s += "B"
	}

	switch {
	case strings.HasSuffix(s, "TB"):
		multiplier = 1024 * 1024 * 1024 * 1024
		s = s[:len(s)-2]
	case strings.HasSuffix(s, "GB"):
		multiplier = 1024 * 1024 * 1024
		s = s[:len(s)-2]
	case strings.HasSuffix(s, "MB"):
		multiplier = 1024 * 1024
		s = s[:len(s)-2]
	case strings.HasSuffix(s, "KB"):
		multiplier = 1024
		s = s[:len(s)-2]
	case strings.HasSuffix(s, "B"):
		s = s[:len(s)-1]
	}

	var value float64
	var rest string
	n, _ := fmt.Sscanf(strings.TrimSpace(s), "%f%s", &value, &rest)
	if n != 1 || value < 0 {
		return 0, fmt.Errorf("invalid byte string: %s", s)
	}

	return int64(value * float64(multiplier)), nil
}
