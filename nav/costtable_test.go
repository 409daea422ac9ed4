package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCostTableIndexOfOrInsert(t *testing.T) {
	ct := NewCostTable()
	require.Equal(t, 0, ct.Count())

	i0 := ct.IndexOfOrInsert(5)
	assert.Equal(t, 0, i0)
	assert.True(t, ct.Changed())
	ct.ResetChanged()

	i1 := ct.IndexOfOrInsert(7)
	assert.Equal(t, 1, i1)
	ct.ResetChanged()

	// re-inserting an existing type number returns the same index and
	// doesn't flip Changed again.
	again := ct.IndexOfOrInsert(5)
	assert.Equal(t, i0, again)
	assert.False(t, ct.Changed())

	assert.Equal(t, int32(5), ct.TypeAt(0))
	assert.Equal(t, int32(7), ct.TypeAt(1))
	assert.Equal(t, 2, ct.Count())
}

func TestCostTableIndexOfMissingReturnsDefault(t *testing.T) {
	ct := NewCostTable()
	ct.IndexOfOrInsert(1)
	assert.Equal(t, -1, ct.IndexOf(99, -1))
	assert.Equal(t, 0, ct.IndexOf(1, -1))
}

func TestCostTableClearInvalidatesIndices(t *testing.T) {
	ct := NewCostTable()
	ct.IndexOfOrInsert(1)
	ct.IndexOfOrInsert(2)
	ct.ResetChanged()

	ct.Clear()
	assert.Equal(t, 0, ct.Count())
	assert.False(t, ct.Changed())

	// indices are handed out fresh after Clear, starting again from 0.
	i := ct.IndexOfOrInsert(2)
	assert.Equal(t, 0, i)
	assert.True(t, ct.Changed())
}
