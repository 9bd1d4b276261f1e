package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"courseqa/internal/answer"
	"courseqa/internal/config"
	"courseqa/internal/corpus"
	"courseqa/internal/domain"
	"courseqa/internal/embedding"
	"courseqa/internal/embedding/ollama"
	"courseqa/internal/embedding/tfidf"
	"courseqa/internal/service"
	"courseqa/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	var useTUI bool
	var topK int
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/courseqa/config.yaml if not provided)")
	flag.BoolVar(&useTUI, "tui", false, "Run the interactive terminal interface")
	flag.IntVar(&topK, "top-k", 0, "Number of chunks to retrieve (defaults to the config value)")
	flag.Parse()

	cfg := loadConfig(cfgPath)

	c, err := corpus.Load(cfg.Corpus.Path)
	if err != nil {
		log.Fatalf("failed to load corpus: %v", err)
	}
	svc := assembleService(cfg, c)
	if topK <= 0 {
		topK = cfg.Ask.TopK
	}

	if useTUI {
		if _, err := tea.NewProgram(tui.New(svc, topK)).Run(); err != nil {
			log.Fatal(err)
		}
		return
	}

	fmt.Print("Ask a Question: ")
	question, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		log.Fatalf("failed to read question: %v", err)
	}
	question = strings.TrimSpace(question)

	text, results, err := svc.Answer(context.Background(), question, topK)
	if err != nil {
		if errors.Is(err, service.ErrInvalidQuery) {
			fmt.Fprintln(os.Stderr, "Error: missing question")
			os.Exit(1)
		}
		log.Fatalf("failed to answer: %v", err)
	}

	if cfg.Ask.PromptPath != "" {
		_ = os.WriteFile(cfg.Ask.PromptPath, []byte(answer.BuildPrompt(question, results)), 0o644)
	}
	fmt.Println(text)
	if cfg.Ask.ResponsePath != "" {
		if err := os.WriteFile(cfg.Ask.ResponsePath, []byte(text), 0o644); err != nil {
			log.Printf("failed to write %s: %v", cfg.Ask.ResponsePath, err)
		}
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

	var remote domain.Embedder
	if model, ok := strings.CutPrefix(c.Family, embedding.FamilyOllamaPrefix); ok {
		remote = ollama.NewClient(ollama.Config{BaseURL: cfg.Ollama.BaseURL, Model: model, Timeout: timeout})
	}

	vectorizer, err := tfidf.Load(cfg.Corpus.VectorizerPath)
	if err != nil {
		vectorizer = nil
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
