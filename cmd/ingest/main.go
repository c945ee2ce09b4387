package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/adithya/forensiq-synth/internal/config"
	"github.com/adithya/forensiq-synth/internal/generator"
	"github.com/adithya/forensiq-synth/internal/graph"
	"github.com/adithya/forensiq-synth/internal/ingest"
	"github.com/adithya/forensiq-synth/internal/logging"
	"github.com/adithya/forensiq-synth/internal/repository"
)

func main() {
	var (
		datasetDir  = flag.String("dataset-dir", "data", "directory containing transactions.csv")
		datasetPath = flag.String("dataset", "", "path to transactions.csv (overrides dataset-dir)")
		workers     = flag.Int("workers", 4, "number of concurrent workers for graph loading")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging).With("component", "ingest")

	csvPath := *datasetPath
	if csvPath == "" {
		csvPath = filepath.Join(*datasetDir, generator.TransactionsFile)
	}
	txs, err := generator.ReadTransactionsFile(csvPath)
	if err != nil {
		logger.Error("failed to load dataset", "error", err, "path", csvPath)
		os.Exit(1)
	}
	if len(txs) == 0 {
		logger.Error("dataset is empty", "path", csvPath)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client, err := buildGraphClient(ctx, logger, cfg)
	if err != nil {
		logger.Error("failed to create graph client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := client.Close(context.Background()); err != nil {
			logger.Warn("closing graph client failed", "error", err)
		}
	}()

	loader := ingest.NewLoader(repository.New(client), *workers)

	start := time.Now()
	logger.Info("loading transactions into graph", "count", len(txs), "workers", *workers)
	if err := loader.Load(ctx, txs); err != nil {
		logger.Error("graph load failed", "error", err)
		os.Exit(1)
	}
	logger.Info("graph load complete", "duration", time.Since(start).String(), "transactions", len(txs))
}

func buildGraphClient(ctx context.Context, logger *slog.Logger, cfg config.Config) (graph.Client, error) {
	if cfg.Graph.URI == "" {
		return nil, graph.ErrMissingURI
	}
	opts := graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	}
	client, err := graph.NewNeo4jClient(ctx, opts)
	if err != nil {
		return nil, err
	}
	logger.Info("connected to graph", "uri", cfg.Graph.URI, "database", cfg.Graph.Database)
	return client, nil
}
