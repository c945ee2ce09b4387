package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adithya/forensiq-synth/internal/config"
	"github.com/adithya/forensiq-synth/internal/detector"
	"github.com/adithya/forensiq-synth/internal/generator"
	"github.com/adithya/forensiq-synth/internal/logging"
	"github.com/adithya/forensiq-synth/internal/verify"
)

// Exit codes: 1 means the detector's flags diverged from the manifest;
// 2 means the run was inconclusive (transport or parse failure).
const (
	exitMismatch       = 1
	exitInfrastructure = 2
)

func main() {
	var (
		datasetDir   = flag.String("dataset-dir", "data", "directory containing transactions.csv and manifest.json")
		datasetPath  = flag.String("dataset", "", "path to transactions.csv (overrides dataset-dir)")
		manifestPath = flag.String("manifest", "", "path to manifest.json (overrides dataset-dir)")
		detectorURL  = flag.String("detector-url", "", "detector base URL (overrides DETECTOR_URL)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(exitInfrastructure)
	}
	if *detectorURL != "" {
		cfg.Detector.URL = *detectorURL
	}

	logger := logging.New(cfg.Logging).With("component", "verify")

	csvPath := *datasetPath
	if csvPath == "" {
		csvPath = filepath.Join(*datasetDir, generator.TransactionsFile)
	}
	expectationsPath := *manifestPath
	if expectationsPath == "" {
		expectationsPath = filepath.Join(*datasetDir, generator.ManifestJSONFile)
	}

	manifest, err := generator.ReadManifestFile(expectationsPath)
	if err != nil {
		logger.Error("failed to load manifest", "error", err, "path", expectationsPath)
		os.Exit(exitInfrastructure)
	}

	client, err := detector.NewClient(cfg.Detector.URL, cfg.Detector.Timeout, logger)
	if err != nil {
		logger.Error("detector client misconfigured", "error", err)
		os.Exit(exitInfrastructure)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Detector.Timeout)
	defer cancel()

	results, err := client.Analyze(ctx, csvPath)
	if err != nil {
		logger.Error("analysis request failed; run is inconclusive", "error", err)
		os.Exit(exitInfrastructure)
	}

	report := verify.Evaluate(manifest, results)
	if err := report.WriteText(os.Stdout); err != nil {
		logger.Error("failed to write report", "error", err)
		os.Exit(exitInfrastructure)
	}

	if report.Failed > 0 {
		logger.Error("expectation mismatches found", "failed", report.Failed, "passed", report.Passed)
		os.Exit(exitMismatch)
	}
	logger.Info("all expectations satisfied", "passed", report.Passed, "undetermined", report.Undetermined)
}
