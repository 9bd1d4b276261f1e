package domain

import "context"

// Embedder converts texts into numeric vector representations, one vector per
// input text, in input order. Vectors from different embedder families must
// never be compared against each other.
type Embedder interface {
	Family() string
	Dimension() int
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// LinkResolver maps a chunk's video number and title to a watchable link.
// Resolution is best-effort; an empty string means nothing matched.
type LinkResolver interface {
	Resolve(number, title string) string
}

// Composer turns ranked results into a user-facing answer. It must not fail:
// when the remote generation path is unavailable it degrades to a local
// template.
type Composer interface {
	Compose(ctx context.Context, question string, results []RankedResult) string
}

// QuestionAnswerer is the retrieval surface shared by the web endpoint and the
// CLI tool.
type QuestionAnswerer interface {
	Answer(ctx context.Context, question string, topK int) (string, []RankedResult, error)
}
