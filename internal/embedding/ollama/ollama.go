package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"courseqa/internal/embedding"
)

// Client is an embeddings client for Ollama's native /api/embed endpoint.
// Every failure mode maps to embedding.ErrUnavailable so callers can fall back
// to the local variant without inspecting transport details. Embed is safe for
// concurrent use.
type Client struct {
	baseURL   string
	model     string
	dimension atomic.Int64
	client    *http.Client
}

// Config configures the Ollama embeddings client.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// NewClient creates a client with short bounded timeouts so an unreachable
// service cannot hang a request.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	if cfg.Model == "" {
		cfg.Model = "bge-m3"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 3 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		client:  &http.Client{Timeout: t},
	}
}

// Family returns the embedding family tag recorded in corpus artifacts.
func (c *Client) Family() string { return embedding.FamilyOllamaPrefix + c.model }

// Dimension returns the vector dimensionality, known after the first embed.
func (c *Client) Dimension() int { return int(c.dimension.Load()) }

// Embed returns one vector per input text, in input order.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	body := struct {
		Model string   `json:"model"`
		Input []string `json:"input"`
	}{Model: c.model, Input: texts}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/embed", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", embedding.ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s", embedding.ErrUnavailable, resp.Status)
	}

	var out struct {
		Embeddings [][]float64 `json:"embeddings"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", embedding.ErrUnavailable, err)
	}
	if len(out.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d inputs", embedding.ErrUnavailable, len(out.Embeddings), len(texts))
	}
	if len(out.Embeddings) > 0 {
		if len(out.Embeddings[0]) == 0 {
			return nil, fmt.Errorf("%w: empty embedding", embedding.ErrUnavailable)
		}
		c.dimension.CompareAndSwap(0, int64(len(out.Embeddings[0])))
	}
	return out.Embeddings, nil
}
