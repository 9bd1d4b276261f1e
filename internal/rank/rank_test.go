package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRank_OrdersByDescendingScore(t *testing.T) {
	vectors := [][]float64{
		{0, 1, 0},
		{1, 0, 0},
		{0.5, 0.5, 0},
	}
	query := []float64{1, 0, 0}

	got := Rank(vectors, query, 3)
	require.Len(t, got, 3)
	assert.Equal(t, 1, got[0].Index)
	assert.Equal(t, 2, got[1].Index)
	assert.Equal(t, 0, got[2].Index)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i].Score, got[i-1].Score)
	}
}

func TestRank_TiesKeepCorpusOrder(t *testing.T) {
	// All rows identical: every score ties, so the ranking must preserve the
	// original order.
	vectors := [][]float64{
		{1, 1},
		{1, 1},
		{1, 1},
		{1, 1},
	}
	got := Rank(vectors, []float64{1, 1}, 4)
	require.Len(t, got, 4)
	for i, sc := range got {
		assert.Equal(t, i, sc.Index)
	}
}

func TestRank_TopKClampedToCorpusSize(t *testing.T) {
	vectors := [][]float64{{1, 0}}
	got := Rank(vectors, []float64{1, 0}, 10)
	require.Len(t, got, 1)
	assert.InDelta(t, 1.0, got[0].Score, 1e-9)
}

func TestRank_NonPositiveTopK(t *testing.T) {
	vectors := [][]float64{{1, 0}, {0, 1}}
	assert.Empty(t, Rank(vectors, []float64{1, 0}, 0))
	assert.Empty(t, Rank(vectors, []float64{1, 0}, -3))
}

func TestCosine_SelfSimilarityIsOne(t *testing.T) {
	v := []float64{0.3, -1.2, 4.5}
	assert.InDelta(t, 1.0, Cosine(v, v), 1e-9)
}

func TestCosine_ZeroNormScoresZero(t *testing.T) {
	zero := []float64{0, 0, 0}
	other := []float64{1, 2, 3}
	assert.Equal(t, 0.0, Cosine(zero, other))
	assert.Equal(t, 0.0, Cosine(other, zero))
	assert.Equal(t, 0.0, Cosine(zero, zero))

	// A zero query vector must rank without NaN scores.
	got := Rank([][]float64{other, zero}, zero, 2)
	require.Len(t, got, 2)
	assert.Equal(t, 0.0, got[0].Score)
	assert.Equal(t, 0.0, got[1].Score)
}
