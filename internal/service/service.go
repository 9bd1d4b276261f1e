// Package service orchestrates retrieval: embed the question, rank the corpus,
// resolve links, and compose the answer. The web endpoint and the CLI tool
// call the same Answer contract.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"courseqa/internal/domain"
	"courseqa/internal/embedding"
	"courseqa/internal/embedding/tfidf"
	"courseqa/internal/rank"
)

var (
	// ErrInvalidQuery means the question was empty or missing.
	ErrInvalidQuery = errors.New("missing question")
	// ErrEmbeddingMismatch means a query vector and the corpus come from
	// different embedding families or dimensions. Comparing them would produce
	// silently meaningless scores, so it is a hard error.
	ErrEmbeddingMismatch = errors.New("query embedding incompatible with corpus")
)

// Service answers free-text questions against a loaded transcript corpus.
// The corpus is read-only for the process lifetime; Answer is safe for
// concurrent use.
type Service struct {
	corpus          *domain.Corpus
	vectors         [][]float64
	remote          domain.Embedder
	fallback        *tfidf.Vectorizer
	fallbackVectors [][]float64
	resolver        domain.LinkResolver
	composer        domain.Composer
	latched         atomic.Bool
}

// New wires a service from an already-loaded corpus and its collaborators.
//
// remote may be nil; when set, its family must match the corpus. fallback may
// be nil, in which case a TF-IDF vectorizer is fit over the corpus texts. The
// fallback path ranks against a TF-IDF projection of the corpus texts, so
// query and corpus vectors always share one family regardless of which variant
// produced the corpus artifact.
func New(c *domain.Corpus, remote domain.Embedder, fallback *tfidf.Vectorizer, resolver domain.LinkResolver, composer domain.Composer) (*Service, error) {
	if c == nil || len(c.Chunks) == 0 {
		return nil, errors.New("service requires a non-empty corpus")
	}
	if composer == nil {
		return nil, errors.New("service requires a composer")
	}
	if c.Family == embedding.FamilyTFIDF {
		remote = nil
	} else if remote != nil && remote.Family() != c.Family {
		return nil, fmt.Errorf("%w: provider family %q, corpus family %q",
			ErrEmbeddingMismatch, remote.Family(), c.Family)
	}
	if fallback == nil {
		fallback = tfidf.NewVectorizer()
		if err := fallback.Fit(c.Texts()); err != nil {
			return nil, fmt.Errorf("fit fallback vectorizer: %w", err)
		}
	}

	s := &Service{
		corpus:   c,
		vectors:  c.Vectors(),
		remote:   remote,
		fallback: fallback,
		resolver: resolver,
		composer: composer,
	}
	if c.Family == embedding.FamilyTFIDF {
		if fallback.Dimension() != c.Dimension {
			return nil, fmt.Errorf("%w: vectorizer dimension %d, corpus dimension %d",
				ErrEmbeddingMismatch, fallback.Dimension(), c.Dimension)
		}
		s.fallbackVectors = s.vectors
	} else {
		projected, err := fallback.Embed(context.Background(), c.Texts())
		if err != nil {
			return nil, fmt.Errorf("project corpus texts: %w", err)
		}
		s.fallbackVectors = projected
	}
	return s, nil
}

// Size returns the number of chunks in the loaded corpus.
func (s *Service) Size() int { return len(s.corpus.Chunks) }

// Answer embeds the question, ranks the corpus, resolves links for the top
// matches, and composes the answer text. The answer and the result list are
// mutually consistent. Unreachable external services degrade to the local
// fallback; they never surface as errors. A canceled or expired ctx does
// surface, without degrading later requests.
func (s *Service) Answer(ctx context.Context, question string, topK int) (string, []domain.RankedResult, error) {
	if strings.TrimSpace(question) == "" {
		return "", nil, ErrInvalidQuery
	}

	var ranked []rank.Scored
	if topK > 0 {
		useFallback := s.remote == nil || s.latched.Load()
		if !useFallback {
			vectors, err := s.remote.Embed(ctx, []string{question})
			if err != nil {
				// A failed embed because the caller's own context ended says
				// nothing about the remote service. Surface it and leave the
				// latch alone.
				if ctx.Err() != nil {
					return "", nil, ctx.Err()
				}
				// Malformed responses and timeouts alike: switch to the local
				// variant for the rest of the session.
				s.latched.Store(true)
				useFallback = true
			} else {
				query := vectors[0]
				if len(query) != s.corpus.Dimension {
					return "", nil, fmt.Errorf("%w: query dimension %d, corpus dimension %d",
						ErrEmbeddingMismatch, len(query), s.corpus.Dimension)
				}
				ranked = rank.Rank(s.vectors, query, topK)
			}
		}
		if useFallback {
			vectors, err := s.fallback.Embed(ctx, []string{question})
			if err != nil {
				return "", nil, err
			}
			ranked = rank.Rank(s.fallbackVectors, vectors[0], topK)
		}
	}

	results := make([]domain.RankedResult, 0, len(ranked))
	for _, sc := range ranked {
		chunk := s.corpus.Chunks[sc.Index]
		link := ""
		if s.resolver != nil {
			link = s.resolver.Resolve(chunk.Number, chunk.Title)
		}
		results = append(results, domain.RankedResult{Chunk: chunk, Score: sc.Score, Link: link})
	}

	text := s.composer.Compose(ctx, question, results)
	return text, results, nil
}
