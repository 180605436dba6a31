package patchtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderAppliesEditsInOffsetOrder(t *testing.T) {
	b := New("hello brave world")

	// Register out of order; rendering sorts by offset.
	require.NoError(t, b.Replace(12, 17, "there"))
	require.NoError(t, b.Remove(6, 12))

	assert.Equal(t, "hello there", b.Render())
}

func TestRenderWithoutEdits(t *testing.T) {
	b := New("untouched")

	assert.Equal(t, "untouched", b.Render())
	assert.Equal(t, 9, b.Len())
}

func TestAppendFollowsEditedSource(t *testing.T) {
	b := New("body")

	b.Append("\ntail one")
	b.Append("\ntail two")

	assert.Equal(t, "body\ntail one\ntail two", b.Render())
}

func TestReplaceRejectsOutOfRange(t *testing.T) {
	b := New("abc")

	assert.Error(t, b.Replace(-1, 2, "x"))
	assert.Error(t, b.Replace(0, 4, "x"))
	assert.Error(t, b.Replace(2, 1, "x"))
}

func TestReplaceRejectsOverlap(t *testing.T) {
	b := New("0123456789")

	require.NoError(t, b.Replace(2, 6, "x"))

	assert.Error(t, b.Replace(4, 8, "y"))
	assert.Error(t, b.Remove(5, 6))
	assert.NoError(t, b.Replace(6, 8, "z"))
}

func TestInsertionsAtSharedBoundary(t *testing.T) {
	b := New("ab")

	require.NoError(t, b.Remove(0, 1))
	require.NoError(t, b.Replace(1, 1, "-"))
	require.NoError(t, b.Replace(2, 2, "!"))

	assert.Equal(t, "-b!", b.Render())
}

func TestDuplicateInsertionRejected(t *testing.T) {
	b := New("ab")

	require.NoError(t, b.Replace(1, 1, "-"))
	assert.Error(t, b.Replace(1, 1, "+"))
}

func TestSliceOriginalIgnoresEdits(t *testing.T) {
	b := New("const x = 1;")

	require.NoError(t, b.Replace(6, 7, "(locals.x)"))

	text, err := b.SliceOriginal(6, 7)
	require.NoError(t, err)
	assert.Equal(t, "x", text)

	_, err = b.SliceOriginal(5, 99)
	assert.Error(t, err)
}
