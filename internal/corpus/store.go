package corpus

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"courseqa/internal/domain"
)

var (
	// ErrMissing means no corpus artifact exists at the configured path.
	ErrMissing = errors.New("corpus artifact not found")
	// ErrEmpty means the artifact exists but contains no chunks.
	ErrEmpty = errors.New("corpus artifact contains no chunks")
)

// Load reads a corpus artifact wholesale. There are no partial loads: any
// decode or consistency failure rejects the whole artifact.
func Load(path string) (*domain.Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissing, path)
		}
		return nil, err
	}
	defer f.Close()

	var c domain.Corpus
	if err := gob.NewDecoder(f).Decode(&c); err != nil {
		return nil, fmt.Errorf("decode corpus %s: %w", path, err)
	}
	if len(c.Chunks) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmpty, path)
	}
	if c.Dimension == 0 {
		c.Dimension = len(c.Chunks[0].Embedding)
	}
	for i := range c.Chunks {
		if len(c.Chunks[i].Embedding) != c.Dimension {
			return nil, fmt.Errorf("corpus %s: chunk %d has dimension %d, corpus dimension is %d",
				path, c.Chunks[i].ChunkID, len(c.Chunks[i].Embedding), c.Dimension)
		}
	}
	return &c, nil
}

// Save writes the corpus artifact atomically (tmp file, then rename).
func Save(path string, c *domain.Corpus) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path + ".tmp")
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(path+".tmp", path)
}
