package store

import (
	"context"
	"fmt"
	"path"
	"path/filepath"

	"github.com/ligustah/spritefetch/internal/record"
)

// Ext is the extension every persisted sprite gets.
const Ext = ".png"

// Store persists fetched content for a record.
type Store interface {
	// Reset clears any previous output and leaves an empty root behind.
	Reset(ctx context.Context) error

	// Prepare makes the record's location writable. It succeeds when the
	// location already exists and is safe to call concurrently.
	Prepare(ctx context.Context, r record.Record) error

	// Put writes content for the record, replacing anything already there.
	Put(ctx context.Context, r record.Record, content []byte) error

	// Size returns the stored size for the record. A missing object yields
	// an error wrapping fs.ErrNotExist.
	Size(ctx context.Context, r record.Record) (int64, error)

	// Location describes where the record is stored, for logs and reports.
	Location(r record.Record) string

	Close() error
}

// Resolve returns the directory and file path of r under root.
func Resolve(root string, r record.Record) (dir, file string) {
	dir = filepath.Join(root, r.Category)
	return dir, filepath.Join(dir, r.Name+Ext)
}

// Key returns the slash-separated object key of r, relative to a store root.
func Key(r record.Record) string {
	return path.Join(r.Category, r.Name+Ext)
}

// PathTypeConflictError means something other than a directory occupies a
// path that has to be a directory.
type PathTypeConflictError struct {
	Path string
	Got  string
}

func (e *PathTypeConflictError) Error() string {
	return fmt.Sprintf("store: %s exists and is a %s, not a directory", e.Path, e.Got)
}
