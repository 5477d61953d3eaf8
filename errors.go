package memfs

import (
	"errors"
	"fmt"
)

// Sentinel failure kinds. Callers match with errors.Is; the concrete error
// value carries the offending path.
var (
	ErrNotFound      = errors.New("entry not found")
	ErrExists        = errors.New("entry exists")
	ErrNotADirectory = errors.New("entry is not a directory")
)

// Error is a structured filesystem error: a failure kind plus the path the
// operation was resolving when it failed.
type Error struct {
	Kind error
	Path string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Path)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// NotFound reports that a path segment or target was absent
func NotFound(path string) error {
	return &Error{Kind: ErrNotFound, Path: path}
}

// Exists reports an exclusive-create conflict
func Exists(path string) error {
	return &Error{Kind: ErrExists, Path: path}
}

// NotADirectory reports that traversal or a directory-only operation hit a file
func NotADirectory(path string) error {
	return &Error{Kind: ErrNotADirectory, Path: path}
}
