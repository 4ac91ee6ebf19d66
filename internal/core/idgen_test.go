package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdGenerator_FormatAndReset(t *testing.T) {
	fixed := time.Date(2026, 3, 5, 9, 30, 15, 0, time.UTC)
	gen, err := NewIdGenerator("O", "t1", "s1", func() time.Time { return fixed })
	require.NoError(t, err)

	assert.Equal(t, "O-20260305-093015-t1-s1-0", gen.Next())
	assert.Equal(t, "O-20260305-093015-t1-s1-1", gen.Next())

	gen.Reset()
	assert.Equal(t, "O-20260305-093015-t1-s1-0", gen.Next())
}

func TestIdGenerator_RequiresNonEmptyFields(t *testing.T) {
	_, err := NewIdGenerator("", "t1", "s1", nil)
	assert.Error(t, err)
}
