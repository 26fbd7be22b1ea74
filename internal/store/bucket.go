package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	"github.com/ligustah/spritefetch/internal/record"
)

// Bucket stores sprites as objects below Prefix in a gocloud bucket.
type Bucket struct {
	bucket *blob.Bucket
	prefix string
	owned  bool
}

// OpenBucket opens the bucket at url. The returned store owns the bucket
// and closes it on Close.
func OpenBucket(ctx context.Context, url, prefix string) (*Bucket, error) {
	b, err := blob.OpenBucket(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("store: open bucket: %w", err)
	}
	s := NewBucket(b, prefix)
	s.owned = true
	return s, nil
}

// NewBucket wraps an already open bucket. Close leaves b open.
func NewBucket(b *blob.Bucket, prefix string) *Bucket {
	return &Bucket{
		bucket: b,
		prefix: strings.Trim(path.Clean("/"+prefix), "/"),
	}
}

func (s *Bucket) key(r record.Record) string {
	return path.Join(s.prefix, Key(r))
}

func (s *Bucket) listPrefix() string {
	if s.prefix == "" {
		return ""
	}
	return s.prefix + "/"
}

// ErrEmptyPrefix is returned by Reset when the prefix would cover the whole
// bucket.
var ErrEmptyPrefix = errors.New("store: refusing to reset bucket without a prefix")

// Reset deletes every object below the prefix. An empty prefix is rejected.
func (s *Bucket) Reset(ctx context.Context) error {
	if s.prefix == "" {
		return ErrEmptyPrefix
	}
	iter := s.bucket.List(&blob.ListOptions{Prefix: s.listPrefix()})
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("store: list %s: %w", s.listPrefix(), err)
		}
		if obj.IsDir {
			continue
		}
		if err := s.bucket.Delete(ctx, obj.Key); err != nil && !isNotExist(err) {
			return fmt.Errorf("store: delete %s: %w", obj.Key, err)
		}
	}
}

// Prepare is a no-op: object keys need no parent directories.
func (s *Bucket) Prepare(ctx context.Context, r record.Record) error {
	return nil
}

// Put uploads content. The upload is detached from ctx cancellation so a
// started write is never left half-done.
func (s *Bucket) Put(ctx context.Context, r record.Record, content []byte) error {
	return s.bucket.WriteAll(context.WithoutCancel(ctx), s.key(r), content, &blob.WriterOptions{
		ContentType: "image/png",
	})
}

func (s *Bucket) Size(ctx context.Context, r record.Record) (int64, error) {
	attrs, err := s.bucket.Attributes(ctx, s.key(r))
	if err != nil {
		if isNotExist(err) {
			return 0, fmt.Errorf("store: %s: %w", s.key(r), fs.ErrNotExist)
		}
		return 0, err
	}
	return attrs.Size, nil
}

func (s *Bucket) Location(r record.Record) string {
	return s.key(r)
}

func (s *Bucket) Close() error {
	if !s.owned {
		return nil
	}
	return s.bucket.Close()
}

func isNotExist(err error) bool {
	return gcerrors.Code(err) == gcerrors.NotFound
}
