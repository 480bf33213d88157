package jpathcache

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrorCode identifies the category of a jpathcache error.
type ErrorCode int

const (
	// ErrNotFound indicates the backing file did not exist at registry open time.
	ErrNotFound ErrorCode = iota + 1
	// ErrIOError indicates an I/O or mmap failure while opening a document.
	ErrIOError
	// ErrInvalidPath indicates a malformed JSONPath expression.
	ErrInvalidPath
)

// Error is the structured error type returned by construction-time
// operations (opening a document, mapping a file). Query-time failures
// never surface this way — see the package doc comment.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode
	// Message is a human-readable description.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("jpathcache: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("jpathcache: %s", e.Message)
}

// Unwrap returns the underlying cause, supporting errors.Is and errors.As chains.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsNotFound returns true if err indicates the backing file was missing.
func IsNotFound(err error) bool {
	if e, ok := err.(*Error); ok {
		return e.Code == ErrNotFound
	}
	return false
}

// IsIOError returns true if err indicates a mapping or I/O failure.
func IsIOError(err error) bool {
	if e, ok := err.(*Error); ok {
		return e.Code == ErrIOError
	}
	return false
}

// IsInvalidPath returns true if err indicates a malformed JSONPath expression.
func IsInvalidPath(err error) bool {
	if e, ok := err.(*Error); ok {
		return e.Code == ErrInvalidPath
	}
	return false
}

var (
	logMu  sync.RWMutex
	logger = logrus.New()
)

// SetLogger overrides the logger used to report absorbed query-time and
// parse-time failures (QueryFailure, ParseFailure — see §7 of the design
// notes). Passing nil restores a default logrus.Logger writing to stderr.
func SetLogger(l *logrus.Logger) {
	logMu.Lock()
	defer logMu.Unlock()
	if l == nil {
		l = logrus.New()
	}
	logger = l
}

func log() *logrus.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	return logger
}
