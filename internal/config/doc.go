// Package config defines configuration for the spritefetch CLI.
//
// Configuration can be provided via:
//   - Command-line flags
//   - Environment variables (SPRITEFETCH_ prefix)
//   - YAML configuration file
//
// Flags override the environment, which overrides the file.
//
// # File Format
//
//	workers: 10          # worker-pool size
//	limit: 0             # cooperative in-flight cap, 0 = unbounded
//	timeout: 30s         # per request
//	deadline: 5m         # whole run, 0 = none
//	max_size: 10MB       # largest accepted sprite, 0 = no cap
//	bucket: s3://sprites # persist to object storage instead of disk
//	progress: true
//	strict: false        # non-zero exit when any record errored
//	strict_names: false  # reject categories/names that are not single path segments
//	user_agent: spritefetch/1.0
package config
