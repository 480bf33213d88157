package jpathcache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessageFormatting(t *testing.T) {
	withCause := &Error{Code: ErrIOError, Message: "open x", Cause: errors.New("permission denied")}
	assert.Equal(t, "jpathcache: open x: permission denied", withCause.Error())

	withoutCause := &Error{Code: ErrNotFound, Message: "file not found"}
	assert.Equal(t, "jpathcache: file not found", withoutCause.Error())
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &Error{Code: ErrIOError, Message: "x", Cause: cause}
	assert.Same(t, cause, errors.Unwrap(err))
}

func TestIsXxxHelpersDiscriminateByCode(t *testing.T) {
	notFound := &Error{Code: ErrNotFound}
	ioErr := &Error{Code: ErrIOError}
	invalid := &Error{Code: ErrInvalidPath}

	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsNotFound(ioErr))
	assert.True(t, IsIOError(ioErr))
	assert.True(t, IsInvalidPath(invalid))
	assert.False(t, IsInvalidPath(notFound))
}

func TestIsXxxHelpersFalseForForeignErrors(t *testing.T) {
	foreign := errors.New("not ours")
	assert.False(t, IsNotFound(foreign))
	assert.False(t, IsIOError(foreign))
	assert.False(t, IsInvalidPath(foreign))
}
