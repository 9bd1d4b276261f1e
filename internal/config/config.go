package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// CorpusConfig locates the persisted retrieval artifacts.
type CorpusConfig struct {
	Path           string `yaml:"path"`
	VectorizerPath string `yaml:"vectorizer_path"`
	TranscriptsDir string `yaml:"transcripts_dir"`
}

// MediaConfig locates the media directory scanned for video links.
type MediaConfig struct {
	Dir string `yaml:"dir"`
}

// OllamaConfig holds connection details for the embedding/generation service.
type OllamaConfig struct {
	BaseURL       string `yaml:"base_url"`
	EmbedModel    string `yaml:"embed_model"`
	GenerateModel string `yaml:"generate_model"`
	TimeoutSecs   int    `yaml:"timeout_secs"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	TopK int    `yaml:"top_k"`
}

// AskConfig configures the CLI surface.
type AskConfig struct {
	TopK         int    `yaml:"top_k"`
	ResponsePath string `yaml:"response_path"`
	PromptPath   string `yaml:"prompt_path"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Corpus CorpusConfig `yaml:"corpus"`
	Media  MediaConfig  `yaml:"media"`
	Ollama OllamaConfig `yaml:"ollama"`
	Server ServerConfig `yaml:"server"`
	Ask    AskConfig    `yaml:"ask"`
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/courseqa/config.yaml.
// If neither exists, it writes defaults to the user path and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "courseqa", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Corpus: CorpusConfig{
			Path:           "embeddings.gob",
			VectorizerPath: "tfidf_vectorizer.gob",
			TranscriptsDir: "jsons",
		},
		Media: MediaConfig{Dir: "videos"},
		Ollama: OllamaConfig{
			BaseURL:       "http://localhost:11434",
			EmbedModel:    "bge-m3",
			GenerateModel: "llama3.2",
			TimeoutSecs:   3,
		},
		Server: ServerConfig{Addr: ":5000", TopK: 6},
		Ask:    AskConfig{TopK: 5, ResponsePath: "response.txt", PromptPath: "prompt.txt"},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	def := defaultConfig()
	if cfg.Corpus.Path == "" {
		cfg.Corpus.Path = def.Corpus.Path
	}
	if cfg.Corpus.VectorizerPath == "" {
		cfg.Corpus.VectorizerPath = def.Corpus.VectorizerPath
	}
	if cfg.Corpus.TranscriptsDir == "" {
		cfg.Corpus.TranscriptsDir = def.Corpus.TranscriptsDir
	}
	if cfg.Ollama.BaseURL == "" {
		cfg.Ollama.BaseURL = def.Ollama.BaseURL
	}
	if cfg.Ollama.EmbedModel == "" {
		cfg.Ollama.EmbedModel = def.Ollama.EmbedModel
	}
	if cfg.Ollama.GenerateModel == "" {
		cfg.Ollama.GenerateModel = def.Ollama.GenerateModel
	}
	if cfg.Ollama.TimeoutSecs == 0 {
		cfg.Ollama.TimeoutSecs = def.Ollama.TimeoutSecs
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = def.Server.Addr
	}
	if cfg.Server.TopK == 0 {
		cfg.Server.TopK = def.Server.TopK
	}
	if cfg.Ask.TopK == 0 {
		cfg.Ask.TopK = def.Ask.TopK
	}
	if cfg.Ask.ResponsePath == "" {
		cfg.Ask.ResponsePath = def.Ask.ResponsePath
	}
	if cfg.Ask.PromptPath == "" {
		cfg.Ask.PromptPath = def.Ask.PromptPath
	}
}
