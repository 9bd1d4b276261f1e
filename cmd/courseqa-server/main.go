package main

import (
	"flag"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"courseqa/internal/answer"
	"courseqa/internal/config"
	"courseqa/internal/corpus"
	"courseqa/internal/domain"
	"courseqa/internal/embedding"
	"courseqa/internal/embedding/ollama"
	"courseqa/internal/embedding/tfidf"
	"courseqa/internal/server"
	"courseqa/internal/service"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/courseqa/config.yaml if not provided)")
	flag.Parse()

	cfg := loadConfig(cfgPath)

	c, err := corpus.Load(cfg.Corpus.Path)
	if err != nil {
		log.Fatalf("failed to load corpus: %v", err)
	}

	svc := assembleService(cfg, c)

	handler := server.New(svc, svc.Size(), cfg.Server.TopK)
	log.Printf("serving %d chunks (embedding family %s) on %s", svc.Size(), c.Family, cfg.Server.Addr)
	if err := http.ListenAndServe(cfg.Server.Addr, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func loadConfig(path string) *config.AppConfig {
	var cfg *config.AppConfig
	var err error
	if path == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(path)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func assembleService(cfg *config.AppConfig, c *domain.Corpus) *service.Service {
	timeout := time.Duration(cfg.Ollama.TimeoutSecs) * time.Second

	// The corpus records which embedding model built it; queries must use the
	// same one. A tfidf-family corpus needs no remote provider at all.
	var remote domain.Embedder
	if model, ok := strings.CutPrefix(c.Family, embedding.FamilyOllamaPrefix); ok {
		remote = ollama.NewClient(ollama.Config{BaseURL: cfg.Ollama.BaseURL, Model: model, Timeout: timeout})
	}

	vectorizer, err := tfidf.Load(cfg.Corpus.VectorizerPath)
	if err != nil {
		vectorizer = nil // service refits over the corpus texts
	}

	composer := answer.NewComposer(answer.NewGenerator(answer.GeneratorConfig{
		BaseURL: cfg.Ollama.BaseURL,
		Model:   cfg.Ollama.GenerateModel,
		Timeout: timeout,
	}))
	resolver := answer.NewMediaResolver(cfg.Media.Dir)

	svc, err := service.New(c, remote, vectorizer, resolver, composer)
	if err != nil {
		log.Fatalf("failed to assemble retrieval service: %v", err)
	}
	return svc
}
