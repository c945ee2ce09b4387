package generator

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CycleParams parameterizes a circular fund-routing topology of L accounts
// A1 -> A2 -> ... -> AL -> A1. Amounts strictly decrease hop to hop by a fixed
// fraction of the starting amount, modelling the skim taken at each mule.
type CycleParams struct {
	Name    string
	Prefix  string
	Length  int
	Start   decimal.Decimal
	Skim    float64 // fraction of Start removed per hop
	Base    time.Time
	Spacing time.Duration
}

// buildCycle emits one closed cycle and an expectation that every member is
// flagged as part of a single ring of the given length.
func buildCycle(svc *Services, p CycleParams) (Scenario, error) {
	if p.Length < 3 {
		return Scenario{}, fmt.Errorf("%w: got %d for %s", ErrCycleTooShort, p.Length, p.Name)
	}
	if p.Skim <= 0 || float64(p.Length)*p.Skim >= 1 {
		return Scenario{}, fmt.Errorf("%w: skim %.4f over %d hops in %s", ErrSkimRate, p.Skim, p.Length, p.Name)
	}
	if p.Spacing <= 0 {
		return Scenario{}, fmt.Errorf("%w: non-positive spacing in %s", ErrScheduling, p.Name)
	}

	accounts := make([]string, p.Length)
	for i := range accounts {
		accounts[i] = AccountID(p.Prefix, i+1)
	}

	e := newEmitter(svc)
	hop := p.Start.Mul(decimal.NewFromFloat(p.Skim)).Round(2)
	for i := 0; i < p.Length; i++ {
		amount := p.Start.Sub(hop.Mul(decimal.NewFromInt(int64(i))))
		ts := p.Base.Add(time.Duration(i) * p.Spacing)
		if err := e.send(accounts[i], accounts[(i+1)%p.Length], amount, ts); err != nil {
			return Scenario{}, err
		}
	}

	return Scenario{
		Name:         p.Name,
		Pattern:      PatternCycle,
		Transactions: e.txs,
		Expectation: Expectation{
			Scenario:  p.Name,
			Pattern:   PatternCycle,
			Verdict:   VerdictMustFlag,
			Accounts:  accounts,
			MustFlag:  accounts,
			RingSize:  p.Length,
			Window:    e.window(),
			Rationale: fmt.Sprintf("closed length-%d cycle with hop-to-hop skim; all members belong to one ring", p.Length),
		},
	}, nil
}

// CycleLength3 embeds the canonical A->B->C->A cycle with exact amounts
// 5000.00, 4950.00, 4900.00 at two-hour spacing.
func CycleLength3(svc *Services) (Scenario, error) {
	return buildCycle(svc, CycleParams{
		Name:    "cycle_length_3",
		Prefix:  "CYCLE3",
		Length:  3,
		Start:   decimal.NewFromInt(5000),
		Skim:    0.01,
		Base:    svc.Clock.At(0, 0, 0),
		Spacing: 2 * time.Hour,
	})
}

// CycleLength4 embeds a four-account cycle spanning twelve hours.
func CycleLength4(svc *Services) (Scenario, error) {
	return buildCycle(svc, CycleParams{
		Name:    "cycle_length_4",
		Prefix:  "CYCLE4",
		Length:  4,
		Start:   decimal.NewFromInt(3400),
		Skim:    0.02,
		Base:    svc.Clock.At(0, 10, 0),
		Spacing: 3 * time.Hour,
	})
}

// CycleLength5 embeds the longest detectable cycle, spanning a day.
func CycleLength5(svc *Services) (Scenario, error) {
	return buildCycle(svc, CycleParams{
		Name:    "cycle_length_5",
		Prefix:  "CYCLE5",
		Length:  5,
		Start:   decimal.NewFromInt(7500),
		Skim:    0.015,
		Base:    svc.Clock.At(0, 30, 0),
		Spacing: 4 * time.Hour,
	})
}

// RapidFireCycle compresses a three-account cycle into thirty minutes to
// exercise velocity scoring.
func RapidFireCycle(svc *Services) (Scenario, error) {
	s, err := buildCycle(svc, CycleParams{
		Name:    "rapid_fire_cycle",
		Prefix:  "RAPID",
		Length:  3,
		Start:   decimal.NewFromInt(9500),
		Skim:    0.01,
		Base:    svc.Clock.At(0, 80, 0),
		Spacing: 10 * time.Minute,
	})
	if err != nil {
		return Scenario{}, err
	}
	s.Expectation.Rationale = "three hops inside thirty minutes; temporal proximity should raise suspicion"
	return s, nil
}

// HighValueCycle repeats the cycle topology with eight-figure amounts; scale
// alone must not hide the structure.
func HighValueCycle(svc *Services) (Scenario, error) {
	return buildCycle(svc, CycleParams{
		Name:    "high_value_cycle",
		Prefix:  "LARGE",
		Length:  3,
		Start:   decimal.NewFromInt(10_000_000),
		Skim:    0.05,
		Base:    svc.Clock.At(133, 0, 0),
		Spacing: 2 * time.Hour,
	})
}

// PennyCycle routes one cent around a three-account loop. The amounts sit at
// the two-decimal floor, so the cycle is hand-assembled with a constant amount
// instead of a skim.
func PennyCycle(svc *Services) (Scenario, error) {
	accounts := []string{
		AccountID("TINY", 1),
		AccountID("TINY", 2),
		AccountID("TINY", 3),
	}
	base := svc.Clock.At(135, 0, 0)
	penny := decimal.RequireFromString("0.01")

	e := newEmitter(svc)
	for i := range accounts {
		ts := base.Add(time.Duration(i) * time.Hour)
		if err := e.send(accounts[i], accounts[(i+1)%len(accounts)], penny, ts); err != nil {
			return Scenario{}, err
		}
	}

	return Scenario{
		Name:         "penny_cycle",
		Pattern:      PatternCycle,
		Transactions: e.txs,
		Expectation: Expectation{
			Scenario:  "penny_cycle",
			Pattern:   PatternCycle,
			Verdict:   VerdictMustFlag,
			Accounts:  accounts,
			MustFlag:  accounts,
			RingSize:  3,
			Window:    e.window(),
			Rationale: "cycle structure must be detected regardless of amount; one-cent transfers",
		},
	}, nil
}

// OverlappingCycles runs two three-account cycles through one shared pivot
// account. The pivot belongs to two rings at once and is expected to carry
// the highest suspicion signal of the set.
func OverlappingCycles(svc *Services) (Scenario, error) {
	pivot := AccountID("OVERLAP", 1)
	ringA := []string{pivot, AccountID("OVERLAP", 2), AccountID("OVERLAP", 3)}
	ringB := []string{pivot, AccountID("OVERLAP", 4), AccountID("OVERLAP", 5)}
	base := svc.Clock.At(0, 60, 0)

	e := newEmitter(svc)
	amountsA := []string{"2000.00", "1950.00", "1900.00"}
	for i := range ringA {
		ts := base.Add(time.Duration(i) * time.Hour)
		if err := e.send(ringA[i], ringA[(i+1)%len(ringA)], decimal.RequireFromString(amountsA[i]), ts); err != nil {
			return Scenario{}, err
		}
	}
	amountsB := []string{"2500.00", "2450.00", "2400.00"}
	for i := range ringB {
		ts := base.Add(time.Duration(5+i) * time.Hour)
		if err := e.send(ringB[i], ringB[(i+1)%len(ringB)], decimal.RequireFromString(amountsB[i]), ts); err != nil {
			return Scenario{}, err
		}
	}

	all := []string{pivot, ringA[1], ringA[2], ringB[1], ringB[2]}
	return Scenario{
		Name:         "overlapping_cycles",
		Pattern:      PatternCycle,
		Transactions: e.txs,
		Expectation: Expectation{
			Scenario:  "overlapping_cycles",
			Pattern:   PatternCycle,
			Verdict:   VerdictMustFlag,
			Accounts:  all,
			MustFlag:  all,
			RingSize:  3,
			Window:    e.window(),
			Rationale: fmt.Sprintf("two cycles share %s; the pivot sits in both rings and should score highest", pivot),
		},
	}, nil
}
