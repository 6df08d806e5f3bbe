//go:build unit

package errs_test

import (
	"errors"
	"testing"

	"book-custody/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
)

func TestMark(t *testing.T) {
	t.Run("marked error matches its category", func(t *testing.T) {
		base := errors.New("book 42 is reserved")
		err := errs.Mark(base, errs.ErrInventoryUnavailable)

		assert.True(t, errs.Is(err, errs.ErrInventoryUnavailable))
		assert.True(t, errs.Is(err, base))
		assert.False(t, errs.Is(err, errs.ErrNotFound))
	})

	t.Run("wrapping keeps the mark", func(t *testing.T) {
		err := errs.Wrap(errs.Mark(errors.New("gone"), errs.ErrNotFound), "load book")

		assert.True(t, errs.Is(err, errs.ErrNotFound))
		assert.Contains(t, err.Error(), "load book")
	})

	t.Run("nil error returns the mark itself", func(t *testing.T) {
		assert.Equal(t, errs.ErrValidation, errs.Mark(nil, errs.ErrValidation))
	})

	t.Run("IsAny matches any listed category", func(t *testing.T) {
		err := errs.Mark(errors.New("timeout"), errs.ErrStoreUnavailable)
		assert.True(t, errs.IsAny(err, errs.ErrNotFound, errs.ErrStoreUnavailable))
	})
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, errs.Wrap(nil, "nothing"))
	assert.NoError(t, errs.Wrapf(nil, "nothing %d", 1))
}

func TestFromPanic(t *testing.T) {
	t.Run("error values keep their identity", func(t *testing.T) {
		base := errors.New("nil map write")
		err := errs.FromPanic(base)
		assert.True(t, errs.Is(err, base))
	})

	t.Run("other values become the message", func(t *testing.T) {
		err := errs.FromPanic(42)
		assert.Equal(t, "panic: 42", err.Error())
	})

	t.Run("stack lines are capped", func(t *testing.T) {
		lines := errs.ExtractStackLines(errs.FromPanic("boom"), 3)
		assert.Len(t, lines, 3)
		assert.Contains(t, lines[0], "boom")
		assert.Nil(t, errs.ExtractStackLines(nil, 3))
	})
}
