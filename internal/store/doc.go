// Package store resolves where a record is persisted and writes it there.
//
// [Resolve] is the path function: a record lands at
//
//	{root}/{category}/{name}.png
//
// It performs no sanitization; [record.Validate] is the opt-in guard for
// untrusted metadata.
//
// Two [Store] implementations are provided:
//   - [Dir] writes to the local filesystem
//   - [Bucket] writes to any gocloud.dev/blob bucket (mem://, file://, s3://, gs://)
//
// Both overwrite existing objects, so running the same batch twice leaves
// the same set of files behind.
package store
