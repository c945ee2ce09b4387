package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/adithya/forensiq-synth/internal/config"
	"github.com/adithya/forensiq-synth/internal/generator"
	"github.com/adithya/forensiq-synth/internal/logging"
)

func main() {
	var (
		seed        = flag.Int64("seed", generator.DefaultSeed, "random seed for deterministic generation")
		outputDir   = flag.String("output-dir", "data", "directory to write transactions.csv, manifest.txt and manifest.json")
		noise       = flag.Int("noise", 200, "number of background noise transactions")
		writeStdout = flag.Bool("stdout", false, "write the CSV to stdout instead of files")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging).With("component", "datagen")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	svc := generator.NewServices(*seed)
	catalog := generator.DefaultCatalog()
	if *noise != 200 {
		catalog[len(catalog)-1] = generator.BackgroundNoise(*noise)
	}

	composer := generator.NewComposer(svc, logger, catalog...)
	dataset, err := composer.Compose(ctx)
	if err != nil {
		logger.Error("generation failed", "error", err)
		os.Exit(1)
	}

	if *writeStdout {
		if err := generator.WriteTransactionsCSV(os.Stdout, dataset.Transactions); err != nil {
			logger.Error("failed to write dataset to stdout", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := generator.WriteDataset(dataset, *outputDir); err != nil {
		logger.Error("failed to write dataset", "error", err)
		os.Exit(1)
	}

	logger.Info("dataset written",
		"dir", *outputDir,
		"seed", *seed,
		"transactions", len(dataset.Transactions),
		"scenarios", len(dataset.Manifest.Expectations))
}
