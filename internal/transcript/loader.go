// Package transcript reads the output of the speech-to-text step: one JSON
// file per source video holding timestamped subtitle segments.
package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"courseqa/internal/domain"
)

// Segment is one timestamped subtitle span as produced by transcription.
type Segment struct {
	Number string  `json:"number"`
	Title  string  `json:"title"`
	Start  float64 `json:"start"`
	End    float64 `json:"end"`
	Text   string  `json:"text"`
}

// File is the transcription output for one source video.
type File struct {
	Chunks []Segment `json:"chunks"`
	Text   string    `json:"text"`
}

// LoadDir reads every .json transcript in dir (sorted by filename) and returns
// chunks with corpus-wide sequential IDs. Embeddings are left unset; the
// corpus builder fills them in.
func LoadDir(dir string) ([]domain.Chunk, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var chunks []domain.Chunk
	id := 0
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		var f File
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse transcript %s: %w", name, err)
		}
		for _, seg := range f.Chunks {
			chunks = append(chunks, domain.Chunk{
				ChunkID: id,
				Number:  seg.Number,
				Title:   seg.Title,
				Start:   seg.Start,
				End:     seg.End,
				Text:    seg.Text,
			})
			id++
		}
	}
	return chunks, nil
}
