package rexcrawl_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/rexcrawl"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := rexcrawl.Errorf(rexcrawl.ENOTFOUND, "entry %q not found", "test")

	assert.Equal(t, rexcrawl.ENOTFOUND, rexcrawl.ErrorCode(err))
	assert.Equal(t, "entry \"test\" not found", rexcrawl.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, rexcrawl.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, rexcrawl.ErrorMessage(nil))
}

func TestErrorCode_PlainError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, rexcrawl.EINTERNAL, rexcrawl.ErrorCode(errors.New("boom")))
}

func TestWrapError(t *testing.T) {
	t.Parallel()

	t.Run("keeps cause reachable", func(t *testing.T) {
		t.Parallel()

		err := rexcrawl.WrapError(rexcrawl.EFETCH, context.Canceled, "fetch %s", "https://example.com/a.html")

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, rexcrawl.EFETCH, rexcrawl.ErrorCode(err))
		assert.Equal(t, "fetch https://example.com/a.html: context canceled", err.Error())
	})

	t.Run("code survives fmt wrapping", func(t *testing.T) {
		t.Parallel()

		err := fmt.Errorf("load index: %w", rexcrawl.Errorf(rexcrawl.EFATAL, "index unreachable"))

		assert.Equal(t, rexcrawl.EFATAL, rexcrawl.ErrorCode(err))
		assert.Equal(t, "index unreachable", rexcrawl.ErrorMessage(err))
	})
}
