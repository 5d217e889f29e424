package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeComposition(t *testing.T) {
	t.Run("sorts entries by product ID", func(t *testing.T) {
		normalized, err := NormalizeComposition([]CompositionEntry{
			{ProductID: 12, Quantity: 2},
			{ProductID: 5, Quantity: 1},
		})
		require.NoError(t, err)

		require.Len(t, normalized, 2)
		assert.Equal(t, uint(5), normalized[0].ProductID)
		assert.Equal(t, uint(12), normalized[1].ProductID)
	})

	t.Run("defaults omitted quantity to 1", func(t *testing.T) {
		normalized, err := NormalizeComposition([]CompositionEntry{
			{ProductID: 3},
		})
		require.NoError(t, err)

		require.Len(t, normalized, 1)
		assert.Equal(t, 1, normalized[0].Quantity)
	})

	t.Run("discards negative quantities", func(t *testing.T) {
		normalized, err := NormalizeComposition([]CompositionEntry{
			{ProductID: 1, Quantity: -3},
			{ProductID: 2, Quantity: 2},
		})
		require.NoError(t, err)

		require.Len(t, normalized, 1)
		assert.Equal(t, uint(2), normalized[0].ProductID)
	})

	t.Run("keeps duplicate product entries in submission order", func(t *testing.T) {
		normalized, err := NormalizeComposition([]CompositionEntry{
			{ProductID: 7, Quantity: 1},
			{ProductID: 2, Quantity: 1},
			{ProductID: 7, Quantity: 2},
		})
		require.NoError(t, err)

		require.Len(t, normalized, 3)
		assert.Equal(t, uint(2), normalized[0].ProductID)
		assert.Equal(t, 1, normalized[1].Quantity)
		assert.Equal(t, 2, normalized[2].Quantity)
	})

	t.Run("discards entries with a zero product ID", func(t *testing.T) {
		normalized, err := NormalizeComposition([]CompositionEntry{
			{ProductID: 0, Quantity: 2},
			{ProductID: 3, Quantity: 1},
		})
		require.NoError(t, err)

		require.Len(t, normalized, 1)
		assert.Equal(t, uint(3), normalized[0].ProductID)
	})

	t.Run("rejects empty composition", func(t *testing.T) {
		_, err := NormalizeComposition([]CompositionEntry{})
		assert.ErrorIs(t, err, ErrEmptyComposition)
	})

	t.Run("rejects composition that becomes empty after filtering", func(t *testing.T) {
		_, err := NormalizeComposition([]CompositionEntry{
			{ProductID: 1, Quantity: -1},
		})
		assert.ErrorIs(t, err, ErrEmptyComposition)
	})
}

func TestCompositionUniqueID(t *testing.T) {
	t.Run("encodes zero-padded product and quantity pairs", func(t *testing.T) {
		normalized, err := NormalizeComposition([]CompositionEntry{
			{ProductID: 12, Quantity: 2},
			{ProductID: 5, Quantity: 1},
		})
		require.NoError(t, err)

		assert.Equal(t, "000501001202", CompositionUniqueID(normalized))
	})

	t.Run("is order independent", func(t *testing.T) {
		a, err := NormalizeComposition([]CompositionEntry{
			{ProductID: 1, Quantity: 1},
			{ProductID: 9, Quantity: 3},
			{ProductID: 4, Quantity: 2},
		})
		require.NoError(t, err)

		b, err := NormalizeComposition([]CompositionEntry{
			{ProductID: 4, Quantity: 2},
			{ProductID: 1, Quantity: 1},
			{ProductID: 9, Quantity: 3},
		})
		require.NoError(t, err)

		assert.Equal(t, CompositionUniqueID(a), CompositionUniqueID(b))
	})

	t.Run("different quantities produce different identifiers", func(t *testing.T) {
		a, err := NormalizeComposition([]CompositionEntry{{ProductID: 5, Quantity: 1}})
		require.NoError(t, err)
		b, err := NormalizeComposition([]CompositionEntry{{ProductID: 5, Quantity: 2}})
		require.NoError(t, err)

		assert.NotEqual(t, CompositionUniqueID(a), CompositionUniqueID(b))
	})
}
