// Package server exposes the retrieval service over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"courseqa/internal/domain"
	"courseqa/internal/service"
)

type askRequest struct {
	Question string `json:"question"`
}

type resultPayload struct {
	Title  string  `json:"title"`
	Number string  `json:"number"`
	Start  float64 `json:"start"`
	End    float64 `json:"end"`
	Text   string  `json:"text"`
	Score  float64 `json:"score"`
	Link   *string `json:"link"`
}

type askResponse struct {
	Answer  string          `json:"answer"`
	Results []resultPayload `json:"results"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Chunks    int    `json:"chunks"`
	Timestamp string `json:"timestamp"`
}

// New builds the HTTP handler: POST /ask and GET /health.
func New(svc domain.QuestionAnswerer, chunks, topK int) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ask", handleAsk(svc, topK))
	mux.HandleFunc("/health", handleHealth(chunks))
	return mux
}

func handleAsk(svc domain.QuestionAnswerer, topK int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
			return
		}
		var req askRequest
		// An unreadable or absent body is the same as a missing question.
		_ = json.NewDecoder(r.Body).Decode(&req)

		answer, results, err := svc.Answer(r.Context(), req.Question, topK)
		if err != nil {
			if errors.Is(err, service.ErrInvalidQuery) {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing question"})
				return
			}
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}

		payload := askResponse{Answer: answer, Results: make([]resultPayload, 0, len(results))}
		for _, res := range results {
			p := resultPayload{
				Title:  res.Chunk.Title,
				Number: res.Chunk.Number,
				Start:  res.Chunk.Start,
				End:    res.Chunk.End,
				Text:   res.Chunk.Text,
				Score:  res.Score,
			}
			if res.Link != "" {
				link := res.Link
				p.Link = &link
			}
			payload.Results = append(payload.Results, p)
		}
		writeJSON(w, http.StatusOK, payload)
	}
}

func handleHealth(chunks int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{
			Status:    "healthy",
			Chunks:    chunks,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
