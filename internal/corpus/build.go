package corpus

import (
	"context"
	"errors"
	"fmt"

	"courseqa/internal/domain"
	"courseqa/internal/embedding"
	"courseqa/internal/embedding/tfidf"
)

// Build embeds the chunk texts and assembles a corpus sharing one embedding
// space. The remote provider is tried first; if it is unreachable the chunks
// are embedded with a freshly fit TF-IDF vectorizer, which is persisted to
// vectorizerPath for reuse at query time. The two families are never mixed
// within one corpus.
func Build(ctx context.Context, chunks []domain.Chunk, remote domain.Embedder, vectorizerPath string) (*domain.Corpus, error) {
	if len(chunks) == 0 {
		return nil, errors.New("no transcript chunks to build a corpus from")
	}
	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Text
	}

	family := ""
	var vectors [][]float64
	if remote != nil {
		remoteVectors, err := remote.Embed(ctx, texts)
		switch {
		case err == nil:
			// Reject a ragged batch here rather than at load time, when the
			// broken artifact is already on disk.
			for i := range remoteVectors {
				if len(remoteVectors[i]) != len(remoteVectors[0]) {
					return nil, fmt.Errorf("remote embedding for chunk %d has dimension %d, expected %d",
						chunks[i].ChunkID, len(remoteVectors[i]), len(remoteVectors[0]))
				}
			}
			family = remote.Family()
			vectors = remoteVectors
		case errors.Is(err, embedding.ErrUnavailable):
			// fall through to the local variant
		default:
			return nil, err
		}
	}
	if family == "" {
		vectorizer := tfidf.NewVectorizer()
		if err := vectorizer.Fit(texts); err != nil {
			return nil, err
		}
		localVectors, err := vectorizer.Embed(ctx, texts)
		if err != nil {
			return nil, err
		}
		if vectorizerPath != "" {
			if err := vectorizer.Save(vectorizerPath); err != nil {
				return nil, fmt.Errorf("persist vectorizer: %w", err)
			}
		}
		family = vectorizer.Family()
		vectors = localVectors
	}

	built := &domain.Corpus{
		Family:    family,
		Dimension: len(vectors[0]),
		Chunks:    make([]domain.Chunk, len(chunks)),
	}
	for i := range chunks {
		built.Chunks[i] = chunks[i]
		built.Chunks[i].Embedding = vectors[i]
	}
	return built, nil
}
