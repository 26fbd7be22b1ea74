package record

import (
	"errors"
	"fmt"
	"strings"
)

// Record is one entry of the batch. It is never modified after loading.
type Record struct {
	Name        string `yaml:"name" json:"name"`
	Category    string `yaml:"category" json:"category"`
	ResourceRef string `yaml:"resource" json:"resource"`
}

// HasResource reports whether the record points at something to fetch.
func (r Record) HasResource() bool {
	return strings.TrimSpace(r.ResourceRef) != ""
}

func (r Record) String() string {
	return r.Category + "/" + r.Name
}

// ErrUnsafeName is returned by Validate for names that would escape their directory.
var ErrUnsafeName = errors.New("record: unsafe path segment")

// Validate checks that Name and Category can be used as single path segments.
// Loading does not call it; metadata is trusted unless the caller opts in.
func Validate(r Record) error {
	if err := checkSegment(r.Category); err != nil {
		return fmt.Errorf("category %q: %w", r.Category, err)
	}
	if err := checkSegment(r.Name); err != nil {
		return fmt.Errorf("name %q: %w", r.Name, err)
	}
	return nil
}

func checkSegment(s string) error {
	switch {
	case s == "", s == ".", s == "..":
		return ErrUnsafeName
	case strings.ContainsAny(s, `/\`), strings.ContainsRune(s, 0):
		return ErrUnsafeName
	}
	return nil
}
