// Package tfidf implements the local fallback embedding variant: a smoothed
// TF-IDF bag-of-words vectorizer fit once over the corpus texts. It is
// deterministic and fully offline, and its fitted state can be persisted for
// reuse across runs.
package tfidf

import (
	"context"
	"encoding/gob"
	"errors"
	"math"
	"os"
	"regexp"
	"sort"
	"strings"

	"courseqa/internal/embedding"
)

// Vectorizer builds a vocabulary from the corpus and computes IDF values.
type Vectorizer struct {
	vocabulary   map[string]int
	idf          []float64
	dimension    int
	fitted       bool
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

// NewVectorizer creates an unfitted TF-IDF vectorizer.
func NewVectorizer() *Vectorizer {
	return &Vectorizer{
		vocabulary:   make(map[string]int),
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
		stopwords:    defaultStopwords(),
	}
}

// Family returns the embedding family tag recorded in corpus artifacts.
func (v *Vectorizer) Family() string { return embedding.FamilyTFIDF }

// Dimension returns the vocabulary size after fitting.
func (v *Vectorizer) Dimension() int { return v.dimension }

// Fit builds the vocabulary and IDF values from the corpus texts.
func (v *Vectorizer) Fit(corpus []string) error {
	if len(corpus) == 0 {
		return errors.New("empty corpus for TF-IDF fit")
	}
	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range v.tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	// Stable vocabulary ordering keeps vectors reproducible across runs.
	sort.Strings(terms)
	if len(terms) == 0 {
		return errors.New("no tokens found in corpus")
	}
	v.vocabulary = make(map[string]int, len(terms))
	v.idf = make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		v.vocabulary[term] = i
		// Smoothed IDF
		v.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	v.dimension = len(terms)
	v.fitted = true
	return nil
}

// Embed computes L2-normalized TF-IDF vectors, one per input text, in input
// order. A text with no in-vocabulary tokens yields the zero vector.
func (v *Vectorizer) Embed(_ context.Context, texts []string) ([][]float64, error) {
	if !v.fitted {
		return nil, errors.New("tfidf vectorizer not fitted")
	}
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		vectors[i] = v.embedOne(text)
	}
	return vectors, nil
}

func (v *Vectorizer) embedOne(text string) []float64 {
	vec := make([]float64, v.dimension)
	tf := make(map[int]int)
	total := 0
	for _, tok := range v.tokenize(text) {
		if idx, ok := v.vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}
	if total == 0 {
		return vec
	}
	for idx, count := range tf {
		vec[idx] = float64(count) / float64(total) * v.idf[idx]
	}
	norm := 0.0
	for _, x := range vec {
		norm += x * x
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

func (v *Vectorizer) tokenize(text string) []string {
	raw := v.tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := v.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}

// model is the persisted form of a fitted vectorizer. Terms are stored in
// vocabulary-index order.
type model struct {
	Terms []string
	IDF   []float64
}

// Save persists the fitted state so later runs can reuse the same vocabulary.
func (v *Vectorizer) Save(path string) error {
	if !v.fitted {
		return errors.New("tfidf vectorizer not fitted")
	}
	terms := make([]string, v.dimension)
	for term, idx := range v.vocabulary {
		terms[idx] = term
	}
	f, err := os.Create(path + ".tmp")
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(f).Encode(model{Terms: terms, IDF: v.idf}); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(path+".tmp", path)
}

// Load restores a fitted vectorizer from a persisted artifact.
func Load(path string) (*Vectorizer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var m model
	if err := gob.NewDecoder(f).Decode(&m); err != nil {
		return nil, err
	}
	if len(m.Terms) == 0 || len(m.Terms) != len(m.IDF) {
		return nil, errors.New("malformed tfidf vectorizer artifact")
	}
	v := NewVectorizer()
	v.vocabulary = make(map[string]int, len(m.Terms))
	for i, term := range m.Terms {
		v.vocabulary[term] = i
	}
	v.idf = m.IDF
	v.dimension = len(m.Terms)
	v.fitted = true
	return v, nil
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
