package store

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ligustah/spritefetch/internal/record"
)

// Dir stores sprites on the local filesystem below Root.
type Dir struct {
	Root string
}

// NewDir returns a Dir rooted at root.
func NewDir(root string) *Dir {
	return &Dir{Root: root}
}

// Reset removes Root and everything below it, then recreates it.
func (d *Dir) Reset(ctx context.Context) error {
	if d.Root == "" {
		return errors.New("store: empty root")
	}
	if err := os.RemoveAll(d.Root); err != nil {
		return fmt.Errorf("store: remove %s: %w", d.Root, err)
	}
	if err := os.MkdirAll(d.Root, 0o755); err != nil {
		return fmt.Errorf("store: create %s: %w", d.Root, err)
	}
	return nil
}

// Prepare creates the category directory. MkdirAll already treats an
// existing directory as success, which covers racing workers.
func (d *Dir) Prepare(ctx context.Context, r record.Record) error {
	dir, _ := Resolve(d.Root, r)
	err := os.MkdirAll(dir, 0o755)
	if err == nil {
		return nil
	}
	if fi, statErr := os.Lstat(dir); statErr == nil && !fi.IsDir() {
		got := "file"
		if !fi.Mode().IsRegular() {
			got = fi.Mode().Type().String()
		}
		return &PathTypeConflictError{Path: dir, Got: got}
	}
	return err
}

// Put writes content to the record's file, truncating any existing file.
// It does not observe ctx: once started, a write runs to completion.
func (d *Dir) Put(ctx context.Context, r record.Record, content []byte) error {
	_, file := Resolve(d.Root, r)
	return os.WriteFile(file, content, 0o644)
}

func (d *Dir) Size(ctx context.Context, r record.Record) (int64, error) {
	_, file := Resolve(d.Root, r)
	fi, err := os.Stat(file)
	if err != nil {
		return 0, err
	}
	if !fi.Mode().IsRegular() {
		return 0, fmt.Errorf("store: %s is not a regular file", file)
	}
	return fi.Size(), nil
}

func (d *Dir) Location(r record.Record) string {
	_, file := Resolve(d.Root, r)
	return file
}

func (d *Dir) Close() error { return nil }
