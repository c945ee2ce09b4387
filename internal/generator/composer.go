package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrAccountCollision marks an account identifier that leaked between two
// unrelated scenarios. Sharing is legal only when the later scenario declares
// the exact identifier in its Reuses list.
var ErrAccountCollision = errors.New("account reused across scenarios without declaration")

// ErrVerdictConflict marks two scenarios registering opposite expectations
// for the same account.
var ErrVerdictConflict = errors.New("conflicting verdicts for account")

// Dataset is the complete output of one composition run.
type Dataset struct {
	Transactions []Transaction
	Manifest     Manifest
}

// DefaultCatalog returns every scenario builder in the fixed execution order.
// The order is part of the deterministic contract: the transaction counter
// and the randomness stream advance in builder order, so reordering the
// catalog changes the dataset bytes.
func DefaultCatalog() []Builder {
	return []Builder{
		CycleLength3,
		CycleLength4,
		CycleLength5,
		OverlappingCycles,
		RapidFireCycle,
		FanIn15,
		FanOut15,
		PassThroughHub,
		Structuring,
		IdenticalAmountSmurfing,
		ShellChain3,
		ShellChain5,
		MerchantTrap,
		PayrollTrap,
		CharityTrap,
		ExchangeHubTrap,
		B2BTrap,
		FanInAtThreshold,
		FanInBelowThreshold,
		WindowExactly72h,
		WindowJustOutside72h,
		HighValueCycle,
		PennyCycle,
		IdenticalTimestamps,
		SingleUsePassThrough,
		IsolatedPairs,
		CycleWithFanIn,
		ShellChainIntoCycle,
		Diamond,
		BackgroundNoise(noiseCount),
	}
}

// Composer executes a catalog of scenario builders exactly once each, in
// order, concatenating their transactions and accumulating their
// expectations. It enforces the cross-scenario invariants the individual
// builders cannot see: undeclared account reuse, verdict conflicts, and
// identifier continuity.
type Composer struct {
	svc      *Services
	logger   *slog.Logger
	builders []Builder
}

// NewComposer wires a Composer over the shared services. With no explicit
// builders it runs the default catalog.
func NewComposer(svc *Services, logger *slog.Logger, builders ...Builder) *Composer {
	if len(builders) == 0 {
		builders = DefaultCatalog()
	}
	return &Composer{svc: svc, logger: logger, builders: builders}
}

// Compose runs the catalog to completion or fails fast on the first contract
// violation. The returned dataset is fully deterministic for a given seed.
func (c *Composer) Compose(ctx context.Context) (*Dataset, error) {
	ds := &Dataset{}
	owner := make(map[string]string)   // account -> first owning scenario
	verdicts := make(map[string]accountVerdict)

	for _, build := range c.builders {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		scenario, err := build(c.svc)
		if err != nil {
			return nil, fmt.Errorf("build scenario: %w", err)
		}
		if scenario.Name == "" {
			return nil, errors.New("scenario has no name")
		}

		if err := c.checkOwnership(scenario, owner); err != nil {
			return nil, err
		}
		if err := checkVerdicts(scenario, verdicts); err != nil {
			return nil, err
		}

		ds.Transactions = append(ds.Transactions, scenario.Transactions...)
		if err := ds.Manifest.add(scenario.Expectation); err != nil {
			return nil, err
		}
		if issued := c.svc.IDs.Issued(); issued != len(ds.Transactions) {
			return nil, fmt.Errorf("allocator issued %d identifiers for %d transactions after %s", issued, len(ds.Transactions), scenario.Name)
		}

		c.logger.Info("scenario composed",
			"name", scenario.Name,
			"pattern", scenario.Pattern,
			"transactions", len(scenario.Transactions),
			"verdict", scenario.Expectation.Verdict)
	}

	c.logger.Info("composition complete",
		"scenarios", len(ds.Manifest.Expectations),
		"transactions", len(ds.Transactions),
		"accounts", len(owner))
	return ds, nil
}

type accountVerdict struct {
	scenario string
	mustFlag bool
}

// checkOwnership records which scenario first touched each account and
// rejects undeclared reuse by a later one.
func (c *Composer) checkOwnership(s Scenario, owner map[string]string) error {
	declared := make(map[string]bool, len(s.Reuses))
	for _, acc := range s.Reuses {
		declared[acc] = true
	}
	for _, tx := range s.Transactions {
		for _, acc := range []string{tx.Sender, tx.Receiver} {
			prev, taken := owner[acc]
			switch {
			case !taken:
				owner[acc] = s.Name
			case prev != s.Name && !declared[acc]:
				return fmt.Errorf("%w: %s belongs to %s, touched by %s", ErrAccountCollision, acc, prev, s.Name)
			}
		}
	}
	return nil
}

// checkVerdicts rejects one scenario asserting must-flag and another
// must-not-flag for the same account, unless the later declared the reuse.
func checkVerdicts(s Scenario, verdicts map[string]accountVerdict) error {
	declared := make(map[string]bool, len(s.Reuses))
	for _, acc := range s.Reuses {
		declared[acc] = true
	}

	inMust := make(map[string]bool, len(s.Expectation.MustFlag))
	for _, acc := range s.Expectation.MustFlag {
		inMust[acc] = true
	}
	for _, acc := range s.Expectation.MustNotFlag {
		if inMust[acc] {
			return fmt.Errorf("%w: %s is in both sets of %s", ErrVerdictConflict, acc, s.Name)
		}
	}

	record := func(acc string, mustFlag bool) error {
		prev, seen := verdicts[acc]
		if seen && prev.mustFlag != mustFlag && !declared[acc] {
			return fmt.Errorf("%w: %s must-flag in %s, must-not-flag in %s",
				ErrVerdictConflict, acc, pickScenario(prev, mustFlag, s.Name), pickScenario(prev, !mustFlag, s.Name))
		}
		if !seen {
			verdicts[acc] = accountVerdict{scenario: s.Name, mustFlag: mustFlag}
		}
		return nil
	}
	for _, acc := range s.Expectation.MustFlag {
		if err := record(acc, true); err != nil {
			return err
		}
	}
	for _, acc := range s.Expectation.MustNotFlag {
		if err := record(acc, false); err != nil {
			return err
		}
	}
	return nil
}

func pickScenario(prev accountVerdict, wantMustFlag bool, current string) string {
	if prev.mustFlag == wantMustFlag {
		return prev.scenario
	}
	return current
}
