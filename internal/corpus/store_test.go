package corpus

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courseqa/internal/domain"
)

func testCorpus() *domain.Corpus {
	return &domain.Corpus{
		Family:    "tfidf",
		Dimension: 2,
		Chunks: []domain.Chunk{
			{ChunkID: 0, Number: "1", Title: "Intro", Start: 0, End: 5, Text: "HTML basics", Embedding: []float64{1, 0}},
			{ChunkID: 1, Number: "1", Title: "Intro", Start: 5, End: 9, Text: "CSS basics", Embedding: []float64{0, 1}},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "embeddings.gob")
	require.NoError(t, Save(path, testCorpus()))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, testCorpus(), got)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.gob"))
	assert.ErrorIs(t, err, ErrMissing)
}

func TestLoad_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "embeddings.gob")
	require.NoError(t, Save(path, &domain.Corpus{Family: "tfidf"}))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestLoad_RejectsMixedDimensions(t *testing.T) {
	c := testCorpus()
	c.Chunks[1].Embedding = []float64{0, 1, 0}
	path := filepath.Join(t.TempDir(), "embeddings.gob")
	require.NoError(t, Save(path, c))

	_, err := Load(path)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMissing)
	assert.NotErrorIs(t, err, ErrEmpty)
}
