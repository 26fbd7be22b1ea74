package downloader

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"
)

// DefaultWorkers is the Pool size used when Workers is not set.
const DefaultWorkers = 10

// Strategy schedules n tasks. Run must call task exactly once for every
// index in [0, n) and return only after all calls have returned. Tasks
// handle cancellation themselves, so strategies keep dispatching after ctx
// is done.
type Strategy interface {
	Name() string
	Run(ctx context.Context, n int, task func(ctx context.Context, i int))
}

// Sequential runs tasks one after another in index order.
type Sequential struct{}

func (Sequential) Name() string { return "sequential" }

func (Sequential) Run(ctx context.Context, n int, task func(ctx context.Context, i int)) {
	for i := 0; i < n; i++ {
		task(ctx, i)
	}
}

// Pool runs tasks on a fixed set of workers pulling from a shared queue.
// At most Workers tasks are in flight at any time.
type Pool struct {
	Workers int
}

func (p Pool) Name() string { return "pool" }

func (p Pool) size(n int) int {
	w := p.Workers
	if w <= 0 {
		w = DefaultWorkers
	}
	if w > n {
		w = n
	}
	return w
}

func (p Pool) Run(ctx context.Context, n int, task func(ctx context.Context, i int)) {
	if n <= 0 {
		return
	}
	workers := p.size(n)

	jobs := make(chan int, workers)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				task(ctx, i)
			}
		}()
	}

	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
}

// Cooperative starts one goroutine per task and lets the runtime multiplex
// them, parking each at its network waits. With Limit == 0 the fan-out is
// unbounded; a positive Limit caps in-flight tasks with a shared semaphore.
type Cooperative struct {
	Limit int
}

func (c Cooperative) Name() string { return "cooperative" }

func (c Cooperative) Run(ctx context.Context, n int, task func(ctx context.Context, i int)) {
	var sem *semaphore.Weighted
	if c.Limit > 0 {
		sem = semaphore.NewWeighted(int64(c.Limit))
	}

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if sem != nil {
				if err := sem.Acquire(ctx, 1); err != nil {
					// ctx is done; the task records the cancellation.
					task(ctx, i)
					return
				}
				defer sem.Release(1)
			}
			task(ctx, i)
		}(i)
	}
	wg.Wait()
}

// ParseStrategy builds a strategy from its CLI name.
func ParseStrategy(name string, workers, limit int) (Strategy, error) {
	switch name {
	case "sequential", "seq":
		return Sequential{}, nil
	case "pool", "threads", "threading":
		return Pool{Workers: workers}, nil
	case "cooperative", "async", "asyncio":
		return Cooperative{Limit: limit}, nil
	default:
		return nil, fmt.Errorf("downloader: unknown strategy %q", name)
	}
}
