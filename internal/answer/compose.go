package answer

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"courseqa/internal/domain"
)

// NoRelevantAnswer is the fixed reply when retrieval produced no results.
const NoRelevantAnswer = "I couldn't find relevant snippets in the course materials."

// snippetLen is how much chunk text a local-template answer line quotes.
const snippetLen = 140

// Composer synthesizes user-facing answers from ranked results. It prefers the
// remote generator; once a remote call fails it stays on the local template
// for the rest of the session. Compose never fails.
type Composer struct {
	generator *Generator
	latched   atomic.Bool
}

// NewComposer creates a composer. A nil generator means local-only.
func NewComposer(generator *Generator) *Composer {
	return &Composer{generator: generator}
}

// Compose returns the answer text for the given question and results.
func (c *Composer) Compose(ctx context.Context, question string, results []domain.RankedResult) string {
	if len(results) == 0 {
		return NoRelevantAnswer
	}
	if c.generator != nil && !c.latched.Load() {
		text, err := c.generator.Generate(ctx, BuildPrompt(question, results))
		if err == nil {
			return text
		}
		// A caller-canceled context is not a service failure; fall back for
		// this request only.
		if ctx.Err() == nil {
			c.latched.Store(true)
		}
	}
	return ComposeLocal(results)
}

// ComposeLocal builds the deterministic fallback answer: one line per distinct
// (number, title) pair, first occurrence kept, pointing at the video and
// timestamp to check.
func ComposeLocal(results []domain.RankedResult) string {
	if len(results) == 0 {
		return NoRelevantAnswer
	}
	var parts []string
	seen := make(map[[2]string]struct{})
	for _, r := range results {
		key := [2]string{r.Chunk.Number, r.Chunk.Title}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		text := r.Chunk.Text
		if runes := []rune(text); len(runes) > snippetLen {
			text = string(runes[:snippetLen])
		}
		parts = append(parts, fmt.Sprintf("Video %s – %s (around %ds): %s...",
			r.Chunk.Number, r.Chunk.Title, int(r.Chunk.Start), text))
	}
	return strings.Join(parts, "\n\n")
}
