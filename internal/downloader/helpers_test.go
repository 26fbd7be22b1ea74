package downloader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	spritehttp "github.com/ligustah/spritefetch/internal/http"
	"github.com/ligustah/spritefetch/internal/record"
)

var errBrokenSprite = errors.New("sprite server on fire")

// fakeFetcher serves canned bodies keyed by ref. Refs listed in failing
// always fail.
type fakeFetcher struct {
	bodies  map[string][]byte
	failing map[string]bool

	mu    sync.Mutex
	calls map[string]int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		bodies:  make(map[string][]byte),
		failing: make(map[string]bool),
		calls:   make(map[string]int),
	}
}

func (f *fakeFetcher) Fetch(ctx context.Context, ref string) spritehttp.Result {
	if ref == "" {
		return spritehttp.Absent()
	}
	f.mu.Lock()
	f.calls[ref]++
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return spritehttp.Failed(err)
	}
	if f.failing[ref] {
		return spritehttp.Failed(errBrokenSprite)
	}
	body, ok := f.bodies[ref]
	if !ok {
		return spritehttp.Failed(spritehttp.ErrNotFound)
	}
	return spritehttp.Bytes(body)
}

func (f *fakeFetcher) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

// blockingFetcher holds every fetch until release is closed or ctx ends,
// tracking how many fetches are in flight.
type blockingFetcher struct {
	release  chan struct{}
	started  chan struct{}
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func newBlockingFetcher(n int) *blockingFetcher {
	return &blockingFetcher{
		release: make(chan struct{}),
		started: make(chan struct{}, n),
	}
}

func (b *blockingFetcher) Fetch(ctx context.Context, ref string) spritehttp.Result {
	cur := b.inFlight.Add(1)
	defer b.inFlight.Add(-1)
	for {
		seen := b.maxSeen.Load()
		if cur <= seen || b.maxSeen.CompareAndSwap(seen, cur) {
			break
		}
	}
	b.started <- struct{}{}

	select {
	case <-b.release:
		return spritehttp.Bytes([]byte(ref))
	case <-ctx.Done():
		return spritehttp.Failed(ctx.Err())
	}
}

// pokedex builds n records spread over a few categories. Every seventh
// record has no sprite.
func pokedex(n int, f *fakeFetcher) []record.Record {
	categories := []string{"Electric", "Rock", "Water", "Fire", "Grass"}
	recs := make([]record.Record, n)
	for i := range recs {
		r := record.Record{
			Name:     fmt.Sprintf("Mon%03d", i),
			Category: categories[i%len(categories)],
		}
		if i%7 != 3 {
			r.ResourceRef = fmt.Sprintf("http://sprites.test/%03d.png", i)
			if f != nil {
				f.bodies[r.ResourceRef] = []byte(fmt.Sprintf("png-%03d-%s", i, r.Category))
			}
		}
		recs[i] = r
	}
	return recs
}

// readTree returns every regular file below root keyed by slash path.
func readTree(t *testing.T, root string) map[string]string {
	t.Helper()
	tree := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		tree[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", root, err)
	}
	return tree
}

func allStrategies() []Strategy {
	return []Strategy{
		Sequential{},
		Pool{Workers: 10},
		Cooperative{},
		Cooperative{Limit: 3},
	}
}
