package answer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courseqa/internal/domain"
)

func result(number, title, text string, start float64) domain.RankedResult {
	return domain.RankedResult{Chunk: domain.Chunk{Number: number, Title: title, Text: text, Start: start}}
}

func TestComposeLocal_Format(t *testing.T) {
	got := ComposeLocal([]domain.RankedResult{result("1", "Intro", "HTML basics", 42.9)})
	assert.Equal(t, "Video 1 – Intro (around 42s): HTML basics...", got)
}

func TestComposeLocal_DeduplicatesByVideo(t *testing.T) {
	results := []domain.RankedResult{
		result("1", "Intro", "HTML basics", 10),
		result("1", "Intro", "more html", 99),
		result("2", "CSS", "CSS basics", 5),
	}
	got := ComposeLocal(results)
	lines := strings.Split(got, "\n\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "HTML basics")
	assert.NotContains(t, got, "more html")
	assert.Contains(t, lines[1], "Video 2 – CSS")
}

func TestComposeLocal_TruncatesLongText(t *testing.T) {
	long := strings.Repeat("x", 200)
	got := ComposeLocal([]domain.RankedResult{result("1", "Intro", long, 0)})
	assert.Contains(t, got, strings.Repeat("x", 140)+"...")
	assert.NotContains(t, got, strings.Repeat("x", 141))
}

func TestComposeLocal_NoResults(t *testing.T) {
	assert.Equal(t, NoRelevantAnswer, ComposeLocal(nil))
}

func TestComposer_PrefersRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"response": "remote answer"})
	}))
	defer srv.Close()

	c := NewComposer(NewGenerator(GeneratorConfig{BaseURL: srv.URL}))
	got := c.Compose(context.Background(), "q", []domain.RankedResult{result("1", "Intro", "HTML", 0)})
	assert.Equal(t, "remote answer", got)
}

func TestComposer_EmptyResultsSkipRemote(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	c := NewComposer(NewGenerator(GeneratorConfig{BaseURL: srv.URL}))
	assert.Equal(t, NoRelevantAnswer, c.Compose(context.Background(), "q", nil))
	assert.Zero(t, calls.Load())
}

func TestComposer_FallsBackAndLatches(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewComposer(NewGenerator(GeneratorConfig{BaseURL: srv.URL}))
	results := []domain.RankedResult{result("1", "Intro", "HTML basics", 3)}

	got := c.Compose(context.Background(), "q", results)
	assert.Equal(t, ComposeLocal(results), got)
	assert.Equal(t, int32(1), calls.Load())

	// Latched: the second call must not retry the remote service.
	got = c.Compose(context.Background(), "q", results)
	assert.Equal(t, ComposeLocal(results), got)
	assert.Equal(t, int32(1), calls.Load())
}

func TestComposer_CanceledContextDoesNotLatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"response": "remote answer"})
	}))
	defer srv.Close()

	c := NewComposer(NewGenerator(GeneratorConfig{BaseURL: srv.URL}))
	results := []domain.RankedResult{result("1", "Intro", "HTML basics", 3)}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, ComposeLocal(results), c.Compose(ctx, "q", results))

	// Not latched: a request with a live context still reaches the remote
	// service.
	assert.Equal(t, "remote answer", c.Compose(context.Background(), "q", results))
}

func TestComposer_NilGeneratorIsLocalOnly(t *testing.T) {
	c := NewComposer(nil)
	results := []domain.RankedResult{result("1", "Intro", "HTML basics", 3)}
	assert.Equal(t, ComposeLocal(results), c.Compose(context.Background(), "q", results))
}
