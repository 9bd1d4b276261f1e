package answer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"courseqa/internal/domain"
)

// ErrUnavailable means the remote generation service could not produce an
// answer. Callers fall back to the local template; this never reaches the
// retrieval surface.
var ErrUnavailable = errors.New("generation service unavailable")

// Generator calls an Ollama-compatible /api/generate endpoint with a prompt
// built from the ranked transcript chunks.
type Generator struct {
	baseURL string
	model   string
	client  *http.Client
}

// GeneratorConfig configures the generation client.
type GeneratorConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// NewGenerator creates a generation client with a short bounded timeout.
func NewGenerator(cfg GeneratorConfig) *Generator {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	if cfg.Model == "" {
		cfg.Model = "llama3.2"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 5 * time.Second
	}
	return &Generator{
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		client:  &http.Client{Timeout: t},
	}
}

// Generate sends the prompt and normalizes the response envelope: a bare
// "response" field, then choices[0].content; any other shape is returned
// stringified rather than treated as a failure.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	body := struct {
		Model  string `json:"model"`
		Prompt string `json:"prompt"`
		Stream bool   `json:"stream"`
	}{Model: g.model, Prompt: prompt, Stream: false}
	data, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/generate", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: %s", ErrUnavailable, resp.Status)
	}
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var envelope struct {
		Response string `json:"response"`
		Choices  []struct {
			Content string `json:"content"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	if envelope.Response != "" {
		return envelope.Response, nil
	}
	if len(envelope.Choices) > 0 && envelope.Choices[0].Content != "" {
		return envelope.Choices[0].Content, nil
	}
	return string(payload), nil
}

type promptChunk struct {
	Title  string  `json:"title"`
	Number string  `json:"number"`
	Start  float64 `json:"start"`
	End    float64 `json:"end"`
	Text   string  `json:"text"`
}

// BuildPrompt embeds the ranked chunks as structured context plus the literal
// question and the fixed instruction that the response must point at specific
// videos and timestamps and must decline unrelated questions.
func BuildPrompt(question string, results []domain.RankedResult) string {
	records := make([]promptChunk, len(results))
	for i, r := range results {
		records[i] = promptChunk{
			Title:  r.Chunk.Title,
			Number: r.Chunk.Number,
			Start:  r.Chunk.Start,
			End:    r.Chunk.End,
			Text:   r.Chunk.Text,
		}
	}
	context, _ := json.Marshal(records)

	var b strings.Builder
	b.WriteString("I am teaching a video course. Here are video subtitle chunks containing video title, video number, start time in seconds, end time in seconds, the text at that time:\n\n")
	b.Write(context)
	b.WriteString("\n---------------------------------\n")
	fmt.Fprintf(&b, "%q\n", question)
	b.WriteString("User asked this question related to the video chunks, you have to answer in a human way (dont mention the above format, its just for you) where and how much content is taught in which video (in which video and at what timestamp) and guide the user to go to that particular video. If user asks unrelated question, tell him that you can only answer questions related to the course")
	return b.String()
}
