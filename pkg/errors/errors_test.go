package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHoardError_Error(t *testing.T) {
	err := New(ErrIndecision, "cannot choose between candidates")
	assert.Equal(t, "[INDECISION] cannot choose between candidates", err.Error())

	wrapped := Wrap(errors.New("boom"), ErrIO, "reading log")
	assert.Equal(t, "[IO] reading log: boom", wrapped.Error())
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrIO, "nope"))
	assert.Nil(t, Wrapf(nil, ErrIO, "nope %d", 1))
}

func TestIsErrorCode(t *testing.T) {
	err := Newf(ErrOutOfDate, "file %q changed remotely", "x")
	assert.True(t, IsErrorCode(err, ErrOutOfDate))
	assert.False(t, IsErrorCode(err, ErrIndecision))
	assert.False(t, IsErrorCode(errors.New("plain"), ErrOutOfDate))
}

func TestErrorCode_SurvivesWrapping(t *testing.T) {
	inner := New(ErrCyclicPreference, "cycle detected")
	outer := fmt.Errorf("building trie: %w", inner)
	assert.True(t, IsErrorCode(outer, ErrCyclicPreference))
	assert.Equal(t, ErrCyclicPreference, GetErrorCode(outer))
}

func TestWithDetail(t *testing.T) {
	err := New(ErrOutOfDate, "diverged").WithDetail("path", "some/file")
	details := GetErrorDetails(err)
	require.NotNil(t, details)
	assert.Equal(t, "some/file", details["path"])
}

func TestIs(t *testing.T) {
	err := New(ErrIndecision, "one message")
	target := New(ErrIndecision, "another message")
	assert.ErrorIs(t, err, target)
}
