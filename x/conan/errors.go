package conan

import (
	"errors"
	"strings"
	"unicode/utf8"
)

var (
	// ErrProgramNotFound is returned when no conan executable can be resolved.
	ErrProgramNotFound = errors.New("conan program not found")
	// ErrProcessFailed is returned when conan cannot be started or exits non-zero.
	ErrProcessFailed = errors.New("conan process failed")
	// ErrInvalidPathEncoding is returned when a path cannot be passed as text.
	ErrInvalidPathEncoding = errors.New("path is not valid UTF-8 text")
	// ErrMissingRequiredPath is returned when a required path is empty.
	ErrMissingRequiredPath = errors.New("missing required path")
)

// Error records a failed conan operation and the path it concerns.
type Error struct {
	Op   string // "install", "build", "package", "version", ...
	Path string // may be empty
	Err  error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("conan ")
	b.WriteString(e.Op)
	if e.Path != "" {
		b.WriteString(" ")
		b.WriteString(e.Path)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// checkPath reports ErrInvalidPathEncoding for paths that are not valid
// UTF-8 or contain a NUL byte.
func checkPath(op, path string) error {
	if !utf8.ValidString(path) || strings.IndexByte(path, 0) >= 0 {
		return &Error{Op: op, Path: strings.ToValidUTF8(path, "�"), Err: ErrInvalidPathEncoding}
	}
	return nil
}
