package detector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// ErrMissingURL indicates the detector endpoint is not configured.
var ErrMissingURL = errors.New("detector URL is required")

// Client uploads a transaction dataset to the external Forensiq analysis
// endpoint and parses its structured response. Every error it returns is an
// infrastructure failure, never a detection mismatch; the harness keeps the
// two categories separate.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient configures a detector client with a hard request timeout.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	if baseURL == "" {
		return nil, ErrMissingURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// Analyze submits the CSV at datasetPath as a multipart file upload and
// returns the parsed analysis results.
func (c *Client) Analyze(ctx context.Context, datasetPath string) (*Results, error) {
	file, err := os.Open(datasetPath)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", datasetPath, err)
	}
	defer file.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(datasetPath))
	if err != nil {
		return nil, fmt.Errorf("create multipart field: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("copy dataset into request: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart body: %w", err)
	}

	url := c.baseURL + "/api/analyze"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	c.logger.Info("submitting dataset to detector", "url", url, "dataset", datasetPath)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submit dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("detector returned status %d: %s", resp.StatusCode, snippet)
	}

	var envelope analysisEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode detector response: %w", err)
	}

	c.logger.Info("analysis received",
		"duration", time.Since(start).String(),
		"rings", len(envelope.Results.FraudRings),
		"suspicious_accounts", len(envelope.Results.SuspiciousAccounts))
	return &envelope.Results, nil
}

type analysisEnvelope struct {
	Results Results `json:"results"`
}

// Results is the detector's structured verdict over one dataset.
type Results struct {
	Summary            map[string]any      `json:"summary"`
	FraudRings         []FraudRing         `json:"fraud_rings"`
	SuspiciousAccounts []SuspiciousAccount `json:"suspicious_accounts"`
}

// FraudRing groups accounts the detector considers one pattern instance.
type FraudRing struct {
	RingID         string   `json:"ring_id"`
	PatternType    string   `json:"pattern_type"`
	MemberAccounts []string `json:"member_accounts"`
	RiskScore      float64  `json:"risk_score"`
}

// SuspiciousAccount is one flagged account with its per-account signals.
type SuspiciousAccount struct {
	AccountID        string   `json:"account_id"`
	RiskScore        float64  `json:"risk_score"`
	DetectedPatterns []string `json:"detected_patterns"`
}

// FlaggedAccounts returns the set of account identifiers present in the
// suspicious list. Any presence counts as "flagged".
func (r *Results) FlaggedAccounts() map[string]bool {
	flagged := make(map[string]bool, len(r.SuspiciousAccounts))
	for _, a := range r.SuspiciousAccounts {
		flagged[a.AccountID] = true
	}
	return flagged
}
