package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	assert.True(t, IsNotFoundError(ErrNotFound))
	assert.True(t, IsNotFoundError(ErrCollectionNotFound))
	assert.True(t, IsNotFoundError(ErrCardStateNotFound))
	assert.True(t, IsNotFoundError(fmt.Errorf("lookup: %w", ErrCardStateNotFound)))

	assert.False(t, IsNotFoundError(ErrDuplicate))
	assert.False(t, IsNotFoundError(errors.New("boom")))
	assert.False(t, IsNotFoundError(nil))
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	inner := errors.New("unique constraint violated")
	err := NewStoreError("card_state", "create", "insert failed", inner)

	assert.Contains(t, err.Error(), "create operation on card_state failed")
	assert.Contains(t, err.Error(), "unique constraint violated")
	assert.ErrorIs(t, err, inner)

	bare := NewStoreError("collection", "get", "no row", nil)
	assert.Equal(t, "get operation on collection failed: no row", bare.Error())
}
