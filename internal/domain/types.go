package domain

// Chunk is one timestamped slice of transcript text tied to a source video.
type Chunk struct {
	ChunkID   int
	Number    string
	Title     string
	Start     float64
	End       float64
	Text      string
	Embedding []float64
}

// Corpus is the full set of chunks sharing one embedding space. All embeddings
// have the same dimensionality; changing the embedding model means rebuilding
// the whole artifact.
type Corpus struct {
	Family    string // embedding family tag, e.g. "ollama/bge-m3" or "tfidf"
	Dimension int
	Chunks    []Chunk
}

// Texts returns the chunk texts in corpus order.
func (c *Corpus) Texts() []string {
	texts := make([]string, len(c.Chunks))
	for i := range c.Chunks {
		texts[i] = c.Chunks[i].Text
	}
	return texts
}

// Vectors returns the chunk embeddings in corpus order.
func (c *Corpus) Vectors() [][]float64 {
	vectors := make([][]float64, len(c.Chunks))
	for i := range c.Chunks {
		vectors[i] = c.Chunks[i].Embedding
	}
	return vectors
}

// RankedResult is a matching chunk with its similarity score and an optional
// link to the source video. Link is empty when nothing matched.
type RankedResult struct {
	Chunk Chunk
	Score float64
	Link  string
}
