package generator

import (
	"time"

	"github.com/shopspring/decimal"
)

// Mixed scenarios compose two primitive topologies on one shared account.
// Their expectation is the union of the constituents': detecting one pattern
// must not suppress detection of the other.

// CycleWithFanIn makes one account both a cycle member and the aggregator of
// a twelve-sender fan-in.
func CycleWithFanIn(svc *Services) (Scenario, error) {
	pivot := AccountID("MIXED", 1)
	ring := []string{pivot, AccountID("MIXED", 2), AccountID("MIXED", 3)}
	base := svc.Clock.At(145, 0, 0)

	e := newEmitter(svc)
	amounts := []string{"3000.00", "2900.00", "2800.00"}
	for i := range ring {
		ts := base.Add(time.Duration(i*3) * time.Hour)
		if err := e.send(ring[i], ring[(i+1)%len(ring)], decimal.RequireFromString(amounts[i]), ts); err != nil {
			return Scenario{}, err
		}
	}

	accounts := append([]string{}, ring...)
	for i := 1; i <= 12; i++ {
		spoke := AccountID("MIXED_FI", i)
		accounts = append(accounts, spoke)
		ts := base.Add(time.Duration(10+i*4) * time.Hour)
		if err := e.send(spoke, pivot, svc.Rand.Amount(400, 600), ts); err != nil {
			return Scenario{}, err
		}
	}

	return Scenario{
		Name:         "cycle_with_fan_in",
		Pattern:      PatternMixed,
		Transactions: e.txs,
		Expectation: Expectation{
			Scenario:  "cycle_with_fan_in",
			Pattern:   PatternMixed,
			Verdict:   VerdictMustFlag,
			Accounts:  accounts,
			MustFlag:  ring,
			RingSize:  3,
			Window:    e.window(),
			Rationale: "pivot is a cycle member and a fan-in aggregator; both patterns must surface independently",
		},
	}, nil
}

// ShellChainIntoCycle routes funds through two shell intermediaries into an
// account that then participates in a three-cycle.
func ShellChainIntoCycle(svc *Services) (Scenario, error) {
	src := AccountID("SCFEED_SRC", 1)
	shells := []string{AccountID("SCFEED_SHELL", 1), AccountID("SCFEED_SHELL", 2)}
	ring := []string{AccountID("SCFEED_CYC", 1), AccountID("SCFEED_CYC", 2), AccountID("SCFEED_CYC", 3)}
	base := svc.Clock.At(150, 0, 0)

	e := newEmitter(svc)
	chain := append(append([]string{src}, shells...), ring[0])
	amount := decimal.NewFromInt(8000)
	step := decimal.NewFromInt(200)
	for i := 0; i < len(chain)-1; i++ {
		ts := base.Add(time.Duration(i*4) * time.Hour)
		if err := e.send(chain[i], chain[i+1], amount, ts); err != nil {
			return Scenario{}, err
		}
		amount = amount.Sub(step)
	}
	for i := range ring {
		ts := base.Add(time.Duration(12+i*4) * time.Hour)
		if err := e.send(ring[i], ring[(i+1)%len(ring)], amount, ts); err != nil {
			return Scenario{}, err
		}
		amount = amount.Sub(step)
	}

	// Extra outbound traffic keeps the source from looking shell-like.
	accounts := append(append([]string{src}, shells...), ring...)
	for i := 1; i <= 5; i++ {
		partner := AccountID("SCFEED_LG", i)
		accounts = append(accounts, partner)
		ts := base.Add(time.Duration(i) * 24 * time.Hour)
		if err := e.send(src, partner, svc.Rand.Amount(100, 500), ts); err != nil {
			return Scenario{}, err
		}
	}

	if err := verifyShellSignature(e.txs, shells); err != nil {
		return Scenario{}, err
	}

	return Scenario{
		Name:         "shell_chain_into_cycle",
		Pattern:      PatternMixed,
		Transactions: e.txs,
		Expectation: Expectation{
			Scenario:  "shell_chain_into_cycle",
			Pattern:   PatternMixed,
			Verdict:   VerdictMustFlag,
			Accounts:  accounts,
			MustFlag:  append(append([]string{}, shells...), ring...),
			RingSize:  3,
			Window:    e.window(),
			Rationale: "layered chain terminates in a cycle; shell and cycle detections must not mask each other",
		},
	}, nil
}

// Diamond splits funds A->B and A->C, then reconverges B->D and C->D.
// Legitimate settlement flows produce the same shape, so the verdict is
// undetermined.
func Diamond(svc *Services) (Scenario, error) {
	a := AccountID("DIAMOND_A", 1)
	b := AccountID("DIAMOND_B", 1)
	c := AccountID("DIAMOND_C", 1)
	d := AccountID("DIAMOND_D", 1)
	base := svc.Clock.At(155, 0, 0)

	e := newEmitter(svc)
	half := decimal.NewFromInt(5000)
	merged := decimal.NewFromInt(4800)
	if err := e.send(a, b, half, base); err != nil {
		return Scenario{}, err
	}
	if err := e.send(a, c, half, base.Add(1*time.Hour)); err != nil {
		return Scenario{}, err
	}
	if err := e.send(b, d, merged, base.Add(3*time.Hour)); err != nil {
		return Scenario{}, err
	}
	if err := e.send(c, d, merged, base.Add(4*time.Hour)); err != nil {
		return Scenario{}, err
	}

	return Scenario{
		Name:         "diamond",
		Pattern:      PatternMixed,
		Transactions: e.txs,
		Expectation: Expectation{
			Scenario:  "diamond",
			Pattern:   PatternMixed,
			Verdict:   VerdictUndetermined,
			Accounts:  []string{a, b, c, d},
			Window:    e.window(),
			Rationale: "split-and-reconverge shape; ambiguous by design, either verdict is acceptable",
		},
	}, nil
}
