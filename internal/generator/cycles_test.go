package generator

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestCycleLength3Exact(t *testing.T) {
	svc := NewServices(DefaultSeed)

	s, err := CycleLength3(svc)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(s.Transactions) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(s.Transactions))
	}

	wantAmounts := []string{"5000.00", "4950.00", "4900.00"}
	wantEdges := [][2]string{
		{"ACC_CYCLE3_0001", "ACC_CYCLE3_0002"},
		{"ACC_CYCLE3_0002", "ACC_CYCLE3_0003"},
		{"ACC_CYCLE3_0003", "ACC_CYCLE3_0001"},
	}
	epoch := svc.Clock.Epoch()
	for i, tx := range s.Transactions {
		if tx.Sender != wantEdges[i][0] || tx.Receiver != wantEdges[i][1] {
			t.Errorf("edge %d: %s -> %s, want %s -> %s", i, tx.Sender, tx.Receiver, wantEdges[i][0], wantEdges[i][1])
		}
		if tx.Amount.StringFixed(2) != wantAmounts[i] {
			t.Errorf("amount %d: %s, want %s", i, tx.Amount.StringFixed(2), wantAmounts[i])
		}
		want := epoch.Add(time.Duration(i) * 2 * time.Hour)
		if !tx.Timestamp.Equal(want) {
			t.Errorf("timestamp %d: %s, want %s", i, tx.Timestamp, want)
		}
	}

	exp := s.Expectation
	if exp.Verdict != VerdictMustFlag {
		t.Fatalf("expected must_flag verdict, got %s", exp.Verdict)
	}
	if exp.RingSize != 3 {
		t.Fatalf("expected ring size 3, got %d", exp.RingSize)
	}
	if len(exp.MustFlag) != 3 {
		t.Fatalf("expected all 3 accounts in must-flag set, got %d", len(exp.MustFlag))
	}

	// Every member appears once as sender and once as receiver.
	senders := make(map[string]int)
	receivers := make(map[string]int)
	for _, tx := range s.Transactions {
		senders[tx.Sender]++
		receivers[tx.Receiver]++
	}
	for _, acc := range exp.MustFlag {
		if senders[acc] != 1 || receivers[acc] != 1 {
			t.Errorf("%s: %d sends, %d receives, want 1 and 1", acc, senders[acc], receivers[acc])
		}
	}
}

func TestCycleClosure(t *testing.T) {
	svc := NewServices(DefaultSeed)

	for name, build := range map[string]Builder{
		"cycle4": CycleLength4,
		"cycle5": CycleLength5,
	} {
		s, err := build(svc)
		if err != nil {
			t.Fatalf("%s: expected no error, got %v", name, err)
		}

		next := make(map[string]string, len(s.Transactions))
		for _, tx := range s.Transactions {
			if _, dup := next[tx.Sender]; dup {
				t.Fatalf("%s: %s sends twice inside the cycle", name, tx.Sender)
			}
			next[tx.Sender] = tx.Receiver
		}

		start := s.Transactions[0].Sender
		current := start
		for hop := 0; hop < len(s.Transactions); hop++ {
			current = next[current]
		}
		if current != start {
			t.Fatalf("%s: following %d hops from %s landed on %s, not back at the start",
				name, len(s.Transactions), start, current)
		}
	}
}

func TestCycleAmountsStrictlyDecrease(t *testing.T) {
	svc := NewServices(DefaultSeed)

	s, err := CycleLength5(svc)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	for i := 1; i < len(s.Transactions); i++ {
		prev := s.Transactions[i-1].Amount
		cur := s.Transactions[i].Amount
		if !cur.LessThan(prev) {
			t.Fatalf("hop %d amount %s does not decrease from %s", i, cur, prev)
		}
	}
}

func TestCycleTimestampsStrictlyIncrease(t *testing.T) {
	svc := NewServices(DefaultSeed)

	s, err := RapidFireCycle(svc)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	for i := 1; i < len(s.Transactions); i++ {
		if !s.Transactions[i].Timestamp.After(s.Transactions[i-1].Timestamp) {
			t.Fatalf("timestamp %d not strictly after its predecessor", i)
		}
	}
	span := s.Transactions[len(s.Transactions)-1].Timestamp.Sub(s.Transactions[0].Timestamp)
	if span > 30*time.Minute {
		t.Fatalf("rapid cycle spans %s, want at most 30m", span)
	}
}

func TestCycleValidation(t *testing.T) {
	svc := NewServices(DefaultSeed)
	base := svc.Clock.At(0, 0, 0)

	cases := []struct {
		name    string
		params  CycleParams
		wantErr error
	}{
		{
			name:    "self loop length 1",
			params:  CycleParams{Name: "bad", Prefix: "BAD", Length: 1, Start: decimal.NewFromInt(100), Skim: 0.01, Base: base, Spacing: time.Hour},
			wantErr: ErrCycleTooShort,
		},
		{
			name:    "length 2",
			params:  CycleParams{Name: "bad", Prefix: "BAD", Length: 2, Start: decimal.NewFromInt(100), Skim: 0.01, Base: base, Spacing: time.Hour},
			wantErr: ErrCycleTooShort,
		},
		{
			name:    "zero skim",
			params:  CycleParams{Name: "bad", Prefix: "BAD", Length: 3, Start: decimal.NewFromInt(100), Skim: 0, Base: base, Spacing: time.Hour},
			wantErr: ErrSkimRate,
		},
		{
			name:    "skim drains the amount",
			params:  CycleParams{Name: "bad", Prefix: "BAD", Length: 5, Start: decimal.NewFromInt(100), Skim: 0.25, Base: base, Spacing: time.Hour},
			wantErr: ErrSkimRate,
		},
		{
			name:    "non-positive spacing",
			params:  CycleParams{Name: "bad", Prefix: "BAD", Length: 3, Start: decimal.NewFromInt(100), Skim: 0.01, Base: base, Spacing: 0},
			wantErr: ErrScheduling,
		},
	}

	for _, c := range cases {
		_, err := buildCycle(svc, c.params)
		if !errors.Is(err, c.wantErr) {
			t.Errorf("%s: got %v, want %v", c.name, err, c.wantErr)
		}
	}
}

func TestOverlappingCyclesSharePivot(t *testing.T) {
	svc := NewServices(DefaultSeed)

	s, err := OverlappingCycles(svc)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(s.Transactions) != 6 {
		t.Fatalf("expected 6 transactions, got %d", len(s.Transactions))
	}

	pivot := AccountID("OVERLAP", 1)
	sends, receives := 0, 0
	for _, tx := range s.Transactions {
		if tx.Sender == pivot {
			sends++
		}
		if tx.Receiver == pivot {
			receives++
		}
	}
	if sends != 2 || receives != 2 {
		t.Fatalf("pivot has %d sends and %d receives, want 2 and 2", sends, receives)
	}
	if len(s.Expectation.MustFlag) != 5 {
		t.Fatalf("expected 5 accounts in must-flag set, got %d", len(s.Expectation.MustFlag))
	}
}

func TestPennyCycleHoldsAtFloor(t *testing.T) {
	svc := NewServices(DefaultSeed)

	s, err := PennyCycle(svc)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	penny := decimal.RequireFromString("0.01")
	for _, tx := range s.Transactions {
		if !tx.Amount.Equal(penny) {
			t.Fatalf("expected every amount to be 0.01, got %s", tx.Amount)
		}
	}
	if s.Expectation.Verdict != VerdictMustFlag {
		t.Fatalf("penny cycle must still be flagged, got %s", s.Expectation.Verdict)
	}
}
