package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kailas-cloud/unidex/internal/config"
	"github.com/kailas-cloud/unidex/internal/dataset"
	logpkg "github.com/kailas-cloud/unidex/internal/logger"
	openaiEmb "github.com/kailas-cloud/unidex/internal/transport/openai"
	"github.com/kailas-cloud/unidex/internal/unify"
	embeddinguc "github.com/kailas-cloud/unidex/internal/usecase/embedding"
	"github.com/kailas-cloud/unidex/internal/usecase/embedjob"
	"github.com/kailas-cloud/unidex/internal/vectorstore"
)

func main() {
	var (
		domainFlag = flag.String("domain", "", "restrict the run to one dataset domain (atlas, navigate, cpc-internal)")
		force      = flag.Bool("force", false, "re-embed entities even when content is unchanged")
		dryRun     = flag.Bool("dry-run", false, "report pending work without calling the provider")
	)
	flag.Parse()

	if err := run(*domainFlag, *force, *dryRun); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(domainFilter string, force, dryRun bool) error {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ds, err := dataset.Load(cfg.Data.Dir)
	if err != nil {
		return fmt.Errorf("load datasets: %w", err)
	}

	index, err := unify.Build(ds, time.Now().UTC(), cfg.Search.SimilarityThreshold)
	if err != nil {
		return fmt.Errorf("build unified index: %w", err)
	}
	fmt.Printf("Unified index: %d entities, %d relationships\n",
		len(index.Entities()), len(index.Relationships()))

	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})
	embedder := embeddinguc.NewInstrumentedEmbedder(
		base, cfg.Embedding.Provider, cfg.Embedding.Model, logger,
	)

	store := vectorstore.New(
		cfg.Store.Path, cfg.Embedding.Model, index, embedder, logger,
		vectorstore.WithEmbedRate(cfg.Store.EmbedRatePerSec),
		vectorstore.WithEmbedTimeout(time.Duration(cfg.Store.EmbedTimeoutSec)*time.Second),
	)
	if err := store.Load(); err != nil {
		return fmt.Errorf("load vector store: %w", err)
	}

	// Ctrl-C stops between entities; progress made so far is persisted.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	job := embedjob.New(index, store, logger)
	summary, err := job.Run(ctx, embedjob.Options{
		Domain: domainFilter,
		Force:  force,
		DryRun: dryRun,
		OnProgress: func(current, total int) {
			fmt.Printf("Embedded %d/%d\n", current, total)
		},
	})
	if err != nil {
		return fmt.Errorf("embed batch: %w", err)
	}

	if dryRun {
		fmt.Printf("Dry run: %d entities pending, %d up to date\n", summary.Total, summary.Skipped)
		return nil
	}

	if summary.NothingToDo() {
		fmt.Printf("Nothing to do: %d entities up to date\n", summary.Skipped)
		return nil
	}

	fmt.Printf("Done: %d embedded, %d skipped, %d failed\n",
		summary.Embedded, summary.Skipped, len(summary.Failures))
	for _, f := range summary.Failures {
		fmt.Fprintf(os.Stderr, "  failed %s: %v\n", f.EntityID, f.Err)
	}
	if len(summary.Failures) > 0 {
		return fmt.Errorf("%d entities failed to embed", len(summary.Failures))
	}
	return nil
}
