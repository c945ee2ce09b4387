package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func composeDefault(t *testing.T) *Dataset {
	t.Helper()
	c := NewComposer(NewServices(DefaultSeed), discardLogger())
	ds, err := c.Compose(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	return ds
}

func TestComposeIsByteDeterministic(t *testing.T) {
	var first, second bytes.Buffer
	if err := WriteTransactionsCSV(&first, composeDefault(t).Transactions); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := WriteTransactionsCSV(&second, composeDefault(t).Transactions); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Fatal("two runs with the same seed produced different bytes")
	}
}

func TestComposeChangesWithSeed(t *testing.T) {
	other := NewComposer(NewServices(7), discardLogger())
	ds, err := other.Compose(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var a, b bytes.Buffer
	if err := WriteTransactionsCSV(&a, composeDefault(t).Transactions); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := WriteTransactionsCSV(&b, ds.Transactions); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatal("different seeds produced identical bytes")
	}
}

func TestComposedIdentifiersAreContinuous(t *testing.T) {
	ds := composeDefault(t)
	for i, tx := range ds.Transactions {
		want := fmt.Sprintf("TXN_%05d", i+1)
		if tx.ID != want {
			t.Fatalf("transaction %d has id %s, want %s", i, tx.ID, want)
		}
	}
}

func TestComposedDatasetHasNoSelfLoops(t *testing.T) {
	for _, tx := range composeDefault(t).Transactions {
		if tx.Sender == tx.Receiver {
			t.Fatalf("%s is a self-loop on %s", tx.ID, tx.Sender)
		}
		if !tx.Amount.IsPositive() {
			t.Fatalf("%s has non-positive amount %s", tx.ID, tx.Amount)
		}
	}
}

func TestFlagSetsNeverOverlap(t *testing.T) {
	ds := composeDefault(t)
	mustFlag := make(map[string]string)
	for _, e := range ds.Manifest.Expectations {
		for _, acc := range e.MustFlag {
			mustFlag[acc] = e.Scenario
		}
	}
	for _, e := range ds.Manifest.Expectations {
		for _, acc := range e.MustNotFlag {
			if owner, ok := mustFlag[acc]; ok {
				t.Errorf("%s is must-not-flag in %s but must-flag in %s", acc, e.Scenario, owner)
			}
		}
	}
}

func TestComposeRejectsUndeclaredReuse(t *testing.T) {
	shared := AccountID("SHARED", 1)
	first := func(svc *Services) (Scenario, error) {
		e := newEmitter(svc)
		if err := e.send(shared, AccountID("FIRST", 1), decimal.NewFromInt(100), svc.Clock.Epoch()); err != nil {
			return Scenario{}, err
		}
		return Scenario{
			Name:         "first",
			Pattern:      PatternNoise,
			Transactions: e.txs,
			Expectation:  Expectation{Scenario: "first", Pattern: PatternNoise, Verdict: VerdictMustNotFlag},
		}, nil
	}
	second := func(svc *Services) (Scenario, error) {
		e := newEmitter(svc)
		if err := e.send(shared, AccountID("SECOND", 1), decimal.NewFromInt(100), svc.Clock.Epoch()); err != nil {
			return Scenario{}, err
		}
		return Scenario{
			Name:         "second",
			Pattern:      PatternNoise,
			Transactions: e.txs,
			Expectation:  Expectation{Scenario: "second", Pattern: PatternNoise, Verdict: VerdictMustNotFlag},
		}, nil
	}

	c := NewComposer(NewServices(DefaultSeed), discardLogger(), first, second)
	_, err := c.Compose(context.Background())
	if !errors.Is(err, ErrAccountCollision) {
		t.Fatalf("expected ErrAccountCollision, got %v", err)
	}
}

func TestComposeAllowsDeclaredReuse(t *testing.T) {
	shared := AccountID("SHARED", 1)
	first := func(svc *Services) (Scenario, error) {
		e := newEmitter(svc)
		if err := e.send(shared, AccountID("FIRST", 1), decimal.NewFromInt(100), svc.Clock.Epoch()); err != nil {
			return Scenario{}, err
		}
		return Scenario{
			Name:         "first",
			Pattern:      PatternNoise,
			Transactions: e.txs,
			Expectation:  Expectation{Scenario: "first", Pattern: PatternNoise, Verdict: VerdictMustNotFlag},
		}, nil
	}
	second := func(svc *Services) (Scenario, error) {
		e := newEmitter(svc)
		if err := e.send(shared, AccountID("SECOND", 1), decimal.NewFromInt(100), svc.Clock.Epoch()); err != nil {
			return Scenario{}, err
		}
		return Scenario{
			Name:         "second",
			Pattern:      PatternNoise,
			Reuses:       []string{shared},
			Transactions: e.txs,
			Expectation:  Expectation{Scenario: "second", Pattern: PatternNoise, Verdict: VerdictMustNotFlag},
		}, nil
	}

	c := NewComposer(NewServices(DefaultSeed), discardLogger(), first, second)
	if _, err := c.Compose(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestComposeRejectsVerdictConflict(t *testing.T) {
	target := AccountID("TARGET", 1)
	conflicted := func(svc *Services) (Scenario, error) {
		e := newEmitter(svc)
		if err := e.send(target, AccountID("AWAY", 1), decimal.NewFromInt(100), svc.Clock.Epoch()); err != nil {
			return Scenario{}, err
		}
		return Scenario{
			Name:         "conflicted",
			Pattern:      PatternNoise,
			Transactions: e.txs,
			Expectation: Expectation{
				Scenario: "conflicted", Pattern: PatternNoise,
				Verdict:     VerdictMustFlag,
				MustFlag:    []string{target},
				MustNotFlag: []string{target},
			},
		}, nil
	}

	c := NewComposer(NewServices(DefaultSeed), discardLogger(), conflicted)
	_, err := c.Compose(context.Background())
	if !errors.Is(err, ErrVerdictConflict) {
		t.Fatalf("expected ErrVerdictConflict, got %v", err)
	}
}

func TestComposeHonoursContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewComposer(NewServices(DefaultSeed), discardLogger())
	if _, err := c.Compose(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDatasetRoundTripsThroughCSV(t *testing.T) {
	ds := composeDefault(t)

	var buf bytes.Buffer
	if err := WriteTransactionsCSV(&buf, ds.Transactions); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	parsed, err := ReadTransactionsCSV(&buf)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(parsed) != len(ds.Transactions) {
		t.Fatalf("parsed %d transactions, wrote %d", len(parsed), len(ds.Transactions))
	}
	for i := range parsed {
		want, got := ds.Transactions[i], parsed[i]
		if got.ID != want.ID || got.Sender != want.Sender || got.Receiver != want.Receiver {
			t.Fatalf("row %d identity mismatch: %+v vs %+v", i, got, want)
		}
		if !got.Amount.Equal(want.Amount) {
			t.Fatalf("row %d amount %s, want %s", i, got.Amount, want.Amount)
		}
		if !got.Timestamp.Equal(want.Timestamp) {
			t.Fatalf("row %d timestamp %s, want %s", i, got.Timestamp, want.Timestamp)
		}
	}
}

func TestManifestTextSummarisesBothDirections(t *testing.T) {
	ds := composeDefault(t)

	var buf bytes.Buffer
	if err := WriteManifestText(&buf, ds); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	text := buf.String()

	for _, want := range []string{"MUST DETECT:", "MUST NOT FLAG:", "cycle_length_3", "merchant_trap"} {
		if !strings.Contains(text, want) {
			t.Errorf("manifest text missing %q", want)
		}
	}
}

func TestManifestJSONRoundTrips(t *testing.T) {
	ds := composeDefault(t)

	var buf bytes.Buffer
	if err := WriteManifestJSON(&buf, ds.Manifest); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	dir := t.TempDir()
	path := dir + "/manifest.json"
	if err := writeFile(path, func(w io.Writer) error {
		_, err := w.Write(buf.Bytes())
		return err
	}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	m, err := ReadManifestFile(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(m.Expectations) != len(ds.Manifest.Expectations) {
		t.Fatalf("round-trip lost expectations: %d vs %d", len(m.Expectations), len(ds.Manifest.Expectations))
	}
	if m.Expectations[0].Scenario != ds.Manifest.Expectations[0].Scenario {
		t.Fatalf("first scenario %s, want %s", m.Expectations[0].Scenario, ds.Manifest.Expectations[0].Scenario)
	}
}

func TestNoiseStaysOutOfScenarioAccounts(t *testing.T) {
	ds := composeDefault(t)

	var noise *Expectation
	for i := range ds.Manifest.Expectations {
		if ds.Manifest.Expectations[i].Pattern == PatternNoise {
			noise = &ds.Manifest.Expectations[i]
		}
	}
	if noise == nil {
		t.Fatal("no noise scenario in the default catalog")
	}
	for _, acc := range noise.Accounts {
		if !strings.HasPrefix(acc, "ACC_NORM_") {
			t.Fatalf("noise account %s outside the NORM namespace", acc)
		}
	}
}

func TestNoTransactionPredatesTheEpoch(t *testing.T) {
	ds := composeDefault(t)
	epoch := time.Date(2025, time.January, 15, 8, 0, 0, 0, time.UTC)

	for _, tx := range ds.Transactions {
		if tx.Timestamp.Before(epoch) {
			t.Fatalf("%s predates the dataset epoch: %s", tx.ID, tx.Timestamp)
		}
	}
}
