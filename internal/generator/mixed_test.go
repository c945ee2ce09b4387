package generator

import (
	"testing"
)

func TestCycleWithFanInFlagsOnlyTheRing(t *testing.T) {
	svc := NewServices(DefaultSeed)

	s, err := CycleWithFanIn(svc)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(s.Transactions) != 15 {
		t.Fatalf("expected 15 transactions, got %d", len(s.Transactions))
	}
	if s.Expectation.RingSize != 3 {
		t.Fatalf("ring size %d, want 3", s.Expectation.RingSize)
	}

	ring := map[string]bool{}
	for _, acc := range s.Expectation.MustFlag {
		ring[acc] = true
	}
	if len(ring) != 3 {
		t.Fatalf("must-flag set has %d accounts, want the 3 ring members", len(ring))
	}

	// The pivot closes the cycle and absorbs the fan-in.
	pivot := AccountID("MIXED", 1)
	if !ring[pivot] {
		t.Fatalf("pivot %s missing from the must-flag set", pivot)
	}
	inbound := 0
	for _, tx := range s.Transactions {
		if tx.Receiver == pivot {
			inbound++
		}
	}
	if inbound != 13 {
		t.Fatalf("pivot receives %d transfers, want 13 (one ring edge plus twelve spokes)", inbound)
	}
}

func TestShellChainIntoCycleFlagsShellsAndRing(t *testing.T) {
	svc := NewServices(DefaultSeed)

	s, err := ShellChainIntoCycle(svc)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	flagged := map[string]bool{}
	for _, acc := range s.Expectation.MustFlag {
		flagged[acc] = true
	}
	for _, acc := range []string{
		AccountID("SCFEED_SHELL", 1),
		AccountID("SCFEED_SHELL", 2),
		AccountID("SCFEED_CYC", 1),
		AccountID("SCFEED_CYC", 2),
		AccountID("SCFEED_CYC", 3),
	} {
		if !flagged[acc] {
			t.Errorf("%s missing from the must-flag set", acc)
		}
	}
	if src := AccountID("SCFEED_SRC", 1); flagged[src] {
		t.Errorf("source %s must not be in the must-flag set", src)
	}

	// The shells keep the one-in-one-out signature even with the padding
	// traffic present.
	for _, shell := range []string{AccountID("SCFEED_SHELL", 1), AccountID("SCFEED_SHELL", 2)} {
		in, out := 0, 0
		for _, tx := range s.Transactions {
			if tx.Receiver == shell {
				in++
			}
			if tx.Sender == shell {
				out++
			}
		}
		if in != 1 || out != 1 {
			t.Errorf("shell %s has %d in / %d out, want 1/1", shell, in, out)
		}
	}
}

func TestDiamondIsUndetermined(t *testing.T) {
	svc := NewServices(DefaultSeed)

	s, err := Diamond(svc)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(s.Transactions) != 4 {
		t.Fatalf("expected 4 transactions, got %d", len(s.Transactions))
	}
	if s.Expectation.Verdict != VerdictUndetermined {
		t.Fatalf("verdict %s, want %s", s.Expectation.Verdict, VerdictUndetermined)
	}
	if len(s.Expectation.MustFlag) != 0 || len(s.Expectation.MustNotFlag) != 0 {
		t.Fatalf("undetermined scenario must not constrain the detector")
	}

	sink := AccountID("DIAMOND_D", 1)
	converging := 0
	for _, tx := range s.Transactions {
		if tx.Receiver == sink {
			converging++
		}
	}
	if converging != 2 {
		t.Fatalf("sink receives %d transfers, want 2", converging)
	}
}
