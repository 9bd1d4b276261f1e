// Package embedding defines the shared vocabulary of the embedding variants.
// The remote variant lives in the ollama subpackage, the local fallback in the
// tfidf subpackage; both satisfy domain.Embedder.
package embedding

import "errors"

// ErrUnavailable means the remote embedding service could not produce vectors:
// unreachable, timed out, non-2xx, or a malformed body. Callers switch to the
// local fallback variant for the rest of the session.
var ErrUnavailable = errors.New("embedding service unavailable")

// Families for the two embedding variants. A corpus records the family it was
// built with; query vectors must come from the same family.
const (
	FamilyTFIDF        = "tfidf"
	FamilyOllamaPrefix = "ollama/"
)
