package generator

import (
	"testing"
	"time"
)

func TestThresholdDirectionality(t *testing.T) {
	svc := NewServices(DefaultSeed)

	at, err := FanInAtThreshold(svc)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	below, err := FanInBelowThreshold(svc)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(at.Transactions) != 10 {
		t.Fatalf("at-threshold probe has %d senders, want 10", len(at.Transactions))
	}
	if len(below.Transactions) != 9 {
		t.Fatalf("below-threshold probe has %d senders, want 9", len(below.Transactions))
	}

	if at.Expectation.Verdict != VerdictMustFlag {
		t.Fatalf("ten senders: verdict %s, want %s", at.Expectation.Verdict, VerdictMustFlag)
	}
	if below.Expectation.Verdict != VerdictMustNotFlag {
		t.Fatalf("nine senders: verdict %s, want %s", below.Expectation.Verdict, VerdictMustNotFlag)
	}

	if got := at.Expectation.MustFlag; len(got) != 1 || got[0] != "ACC_BOUND10_AGG_0001" {
		t.Fatalf("at-threshold must-flag set = %v, want only ACC_BOUND10_AGG_0001", got)
	}
	if got := below.Expectation.MustNotFlag; len(got) != 1 || got[0] != "ACC_BOUND9_AGG_0001" {
		t.Fatalf("below-threshold must-not-flag set = %v, want only ACC_BOUND9_AGG_0001", got)
	}

	// Both probes use the same per-sender amount band and spacing; only the
	// count differs.
	atGap := at.Transactions[1].Timestamp.Sub(at.Transactions[0].Timestamp)
	belowGap := below.Transactions[1].Timestamp.Sub(below.Transactions[0].Timestamp)
	if atGap != belowGap {
		t.Fatalf("probe spacings differ: %s vs %s", atGap, belowGap)
	}
}

func TestWindowBoundarySpans(t *testing.T) {
	svc := NewServices(DefaultSeed)

	inside, err := WindowExactly72h(svc)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	outside, err := WindowJustOutside72h(svc)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if span := inside.Expectation.Window.End.Sub(inside.Expectation.Window.Start); span != 72*time.Hour {
		t.Fatalf("inside probe spans %s, want exactly 72h", span)
	}
	if span := outside.Expectation.Window.End.Sub(outside.Expectation.Window.Start); span != 73*time.Hour {
		t.Fatalf("outside probe spans %s, want 73h", span)
	}

	if inside.Expectation.Verdict != VerdictMustFlag {
		t.Fatalf("72h window: verdict %s, want %s", inside.Expectation.Verdict, VerdictMustFlag)
	}
	if outside.Expectation.Verdict != VerdictMustNotFlag {
		t.Fatalf("73h window: verdict %s, want %s", outside.Expectation.Verdict, VerdictMustNotFlag)
	}
}

func TestWindowJustOutsideNeverClustersTen(t *testing.T) {
	svc := NewServices(DefaultSeed)

	s, err := WindowJustOutside72h(svc)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Slide a 72-hour window across the transfers: no position may hold ten.
	for i := range s.Transactions {
		count := 0
		windowEnd := s.Transactions[i].Timestamp.Add(clusterWindow)
		for _, tx := range s.Transactions {
			if !tx.Timestamp.Before(s.Transactions[i].Timestamp) && !tx.Timestamp.After(windowEnd) {
				count++
			}
		}
		if count >= fanInSenderThreshold {
			t.Fatalf("window starting at transfer %d holds %d senders", i, count)
		}
	}
}

func TestIdenticalTimestampsAreSimultaneous(t *testing.T) {
	svc := NewServices(DefaultSeed)

	s, err := IdenticalTimestamps(svc)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	first := s.Transactions[0].Timestamp
	for _, tx := range s.Transactions {
		if !tx.Timestamp.Equal(first) {
			t.Fatalf("expected identical timestamps, got %s and %s", first, tx.Timestamp)
		}
	}
	if w := s.Expectation.Window; !w.Start.Equal(w.End) {
		t.Fatalf("expected a zero-width window, got %s .. %s", w.Start, w.End)
	}
}

func TestSingleUsePassThroughIsUndetermined(t *testing.T) {
	svc := NewServices(DefaultSeed)

	s, err := SingleUsePassThrough(svc)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(s.Transactions) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(s.Transactions))
	}
	if s.Expectation.Verdict != VerdictUndetermined {
		t.Fatalf("verdict %s, want %s", s.Expectation.Verdict, VerdictUndetermined)
	}
}

func TestIsolatedPairsAreDisconnected(t *testing.T) {
	svc := NewServices(DefaultSeed)

	s, err := IsolatedPairs(svc)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	seen := make(map[string]int)
	for _, tx := range s.Transactions {
		seen[tx.Sender]++
		seen[tx.Receiver]++
	}
	for acc, n := range seen {
		if n != 1 {
			t.Fatalf("account %s participates in %d transactions, want 1", acc, n)
		}
	}
}
