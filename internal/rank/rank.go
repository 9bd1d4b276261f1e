// Package rank scores corpus vectors against a query vector by cosine
// similarity and returns the best-matching indices.
package rank

import (
	"math"
	"sort"
)

// Scored is one ranked corpus entry.
type Scored struct {
	Index int
	Score float64
}

// Rank orders every corpus vector by descending cosine similarity to query.
// Ties keep original corpus order. topK is clamped to the corpus size;
// topK <= 0 returns nothing.
func Rank(vectors [][]float64, query []float64, topK int) []Scored {
	if topK <= 0 || len(vectors) == 0 {
		return nil
	}
	scored := make([]Scored, len(vectors))
	for i, v := range vectors {
		scored[i] = Scored{Index: i, Score: Cosine(v, query)}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if topK > len(scored) {
		topK = len(scored)
	}
	return scored[:topK]
}

// Cosine returns the cosine similarity of a and b. A zero-norm vector scores
// 0 against anything, never NaN.
func Cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
	}
	for _, x := range a {
		na += x * x
	}
	for _, x := range b {
		nb += x * x
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
