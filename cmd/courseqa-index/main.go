// Package main provides the offline corpus builder and environment checks.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"courseqa/internal/config"
	"courseqa/internal/corpus"
	"courseqa/internal/embedding/ollama"
	"courseqa/internal/transcript"
)

var (
	cfgPath string
	force   bool
)

var rootCmd = &cobra.Command{
	Use:   "courseqa-index",
	Short: "Course transcript corpus builder",
	Long:  "CLI tool for building the transcript corpus artifact consumed by courseqa-server and courseqa-ask",
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the corpus artifact from transcript JSON files",
	Long: `Reads transcript JSON files, embeds every chunk, and writes the corpus artifact.

This command:
1. Loads every transcript JSON from the configured transcripts directory
2. Embeds the chunk texts via the configured embedding service
3. Falls back to a local TF-IDF vectorizer (persisted for query-time reuse)
   when the embedding service is unreachable
4. Writes the corpus artifact atomically

A corpus is built in exactly one embedding family; rebuilding replaces the
whole artifact.`,
	RunE: runBuild,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check external tooling and service availability",
	RunE:  runCheck,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config file")
	buildCmd.Flags().BoolVar(&force, "force", false, "rebuild even if the corpus artifact exists")
	rootCmd.AddCommand(buildCmd, checkCmd)
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runBuild(cmd *cobra.Command, args []string) error {
	start := time.Now()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(cfg.Corpus.Path); err == nil {
			fmt.Printf("%s already exists, pass --force to regenerate\n", cfg.Corpus.Path)
			return nil
		}
	}

	chunks, err := transcript.LoadDir(cfg.Corpus.TranscriptsDir)
	if err != nil {
		return fmt.Errorf("load transcripts from %s: %w", cfg.Corpus.TranscriptsDir, err)
	}
	if len(chunks) == 0 {
		return fmt.Errorf("no transcript chunks found in %s", cfg.Corpus.TranscriptsDir)
	}
	fmt.Printf("Loaded %d chunks from %s\n", len(chunks), cfg.Corpus.TranscriptsDir)

	// The offline batch gets a generous timeout; the short query-time bound
	// does not apply here.
	remote := ollama.NewClient(ollama.Config{
		BaseURL: cfg.Ollama.BaseURL,
		Model:   cfg.Ollama.EmbedModel,
		Timeout: 5 * time.Minute,
	})

	fmt.Println("Embedding chunk texts...")
	built, err := corpus.Build(context.Background(), chunks, remote, cfg.Corpus.VectorizerPath)
	if err != nil {
		return err
	}
	if err := corpus.Save(cfg.Corpus.Path, built); err != nil {
		return fmt.Errorf("write corpus artifact: %w", err)
	}

	fmt.Println()
	fmt.Printf("Wrote %s: %d chunks, family %s, dimension %d (%.1fs)\n",
		cfg.Corpus.Path, len(built.Chunks), built.Family, built.Dimension, time.Since(start).Seconds())
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	_, ffmpegErr := exec.LookPath("ffmpeg")
	fmt.Printf("ffmpeg installed: %v\n", ffmpegErr == nil)

	for _, dir := range []string{cfg.Corpus.TranscriptsDir, cfg.Media.Dir} {
		info, statErr := os.Stat(dir)
		fmt.Printf("directory %s: %v\n", dir, statErr == nil && info.IsDir())
	}

	client := &http.Client{Timeout: time.Second}
	resp, reqErr := client.Get(cfg.Ollama.BaseURL + "/")
	reachable := reqErr == nil && resp.StatusCode < 500
	if resp != nil {
		resp.Body.Close()
	}
	fmt.Printf("ollama reachable at %s: %v\n", cfg.Ollama.BaseURL, reachable)
	return nil
}

func loadConfig() (*config.AppConfig, error) {
	if cfgPath == "" {
		cfg, _, err := config.LoadDefault()
		return cfg, err
	}
	return config.Load(cfgPath)
}
