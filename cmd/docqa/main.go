// Command docqa ingests documents and answers questions about them.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/docqa/internal/adapters/driven/ai"
	"github.com/custodia-labs/docqa/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docqa/internal/adapters/driven/index"
	"github.com/custodia-labs/docqa/internal/adapters/driven/tokens"
	"github.com/custodia-labs/docqa/internal/adapters/driving/cli"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/services"
	"github.com/custodia-labs/docqa/internal/extractors/docx"
	"github.com/custodia-labs/docqa/internal/extractors/pdf"
	"github.com/custodia-labs/docqa/internal/extractors/plaintext"
	"github.com/custodia-labs/docqa/internal/logger"
	"github.com/custodia-labs/docqa/internal/postprocessors/chunker"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	if err := setup(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return cli.Execute(ctx)
}

// setup installs the settings service and the builder for everything else.
func setup() error {
	configDir, err := file.ResolveDir(os.Getenv(file.EnvPrefix + "HOME"))
	if err != nil {
		return err
	}
	if err := file.LoadEnvFiles(".env", filepath.Join(configDir, ".env")); err != nil {
		return err
	}

	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(store)
	cli.SetSettingsService(settingsService)

	cli.SetBuilder(func(ctx context.Context, opts cli.Options) (*cli.Services, error) {
		if opts.DataDir == "" {
			opts.DataDir = filepath.Join(configDir, "data")
		}
		return build(ctx, settingsService, configDir, opts)
	})
	return nil
}

// build wires the adapters into a pipeline.
func build(
	ctx context.Context, settingsService *services.SettingsService, configDir string, opts cli.Options,
) (*cli.Services, error) {
	defer logger.Timed("startup")()

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	embedder, err := ai.CreateAndValidateEmbeddingService(ctx, &settings.Embedding)
	if err != nil {
		return nil, fmt.Errorf("embedding provider: %w", err)
	}
	llm, err := ai.CreateAndValidateLLMService(ctx, &settings.LLM)
	if err != nil {
		_ = embedder.Close()
		return nil, fmt.Errorf("llm provider: %w", err)
	}

	backend, err := index.Open(ctx, settings.Index, embedder, index.OpenOptions{
		DataDir:   opts.DataDir,
		Ephemeral: opts.Ephemeral,
	})
	if err != nil {
		return nil, errors.Join(err, embedder.Close(), llm.Close())
	}

	prompts, err := file.NewPromptStore(filepath.Join(configDir, "prompts"))
	if err != nil {
		return nil, errors.Join(err, backend.Close(), llm.Close())
	}

	pipeline := services.NewPipeline(*settings, services.PipelineDeps{
		Extractors: []driven.Extractor{pdf.New(), docx.New(), plaintext.New()},
		Chunker: chunker.New(
			chunker.WithChunkSize(settings.Ingest.ChunkSize),
			chunker.WithOverlap(settings.Ingest.ChunkOverlap),
		),
		LLM:      llm,
		Prompts:  prompts,
		Tokens:   tokens.New(),
		Index:    backend.Index,
		DocStore: backend.Documents,
		History:  backend.History,
	})
	logger.Debug("llm %s, embeddings %s, index %s", settings.LLM.Model, settings.Embedding.Model, settings.Index.Backend)

	return &cli.Services{
		Documents: pipeline.Documents,
		QA:        pipeline.QA,
		Challenge: pipeline.Challenge,
		Formats:   settings.Ingest.SupportedFormats,
		Close: func() error {
			return errors.Join(backend.Close(), llm.Close())
		},
	}, nil
}
