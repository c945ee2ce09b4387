package generator

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Boundary probes pin one parameter exactly at, or one unit beyond, the
// constants the external detector is believed to use (ten senders, a 72-hour
// clustering window). The verdicts are strict directional assertions so the
// harness fails loudly on off-by-one regressions. The detector's real
// thresholds are its own; these constants mirror them, they do not define
// them.
const (
	fanInSenderThreshold = 10
	clusterWindow        = 72 * time.Hour
)

// FanInAtThreshold aggregates exactly ten senders: must trigger.
func FanInAtThreshold(svc *Services) (Scenario, error) {
	return buildFan(svc, FanParams{
		Name:        "fan_in_at_threshold",
		Pattern:     PatternBoundary,
		Verdict:     VerdictMustFlag,
		SpokePrefix: "BOUND10_S",
		Hub:         AccountID("BOUND10_AGG", 1),
		Count:       fanInSenderThreshold,
		Low:         500,
		High:        1500,
		Base:        svc.Clock.At(120, 0, 0),
		Spacing:     5 * time.Hour,
		Rationale:   "exactly ten senders; detection must trigger at the threshold, not above it",
	})
}

// FanInBelowThreshold aggregates nine senders with the same amounts and
// spacing: must NOT trigger.
func FanInBelowThreshold(svc *Services) (Scenario, error) {
	return buildFan(svc, FanParams{
		Name:        "fan_in_below_threshold",
		Pattern:     PatternBoundary,
		Verdict:     VerdictMustNotFlag,
		SpokePrefix: "BOUND9_S",
		Hub:         AccountID("BOUND9_AGG", 1),
		Count:       fanInSenderThreshold - 1,
		Low:         500,
		High:        1500,
		Base:        svc.Clock.At(123, 0, 0),
		Spacing:     5 * time.Hour,
		Rationale:   "nine senders, one short of the threshold; flagging this is an off-by-one defect",
	})
}

// WindowExactly72h spreads thirteen senders across a span of exactly 72
// hours, first to last: still inside the clustering window, must trigger.
func WindowExactly72h(svc *Services) (Scenario, error) {
	hub := AccountID("72H_AGG", 1)
	base := svc.Clock.At(126, 0, 0)
	const senders = 13
	const spacing = 6 * time.Hour // 12 gaps * 6h = exactly the 72h window

	e := newEmitter(svc)
	accounts := []string{hub}
	for i := 0; i < senders; i++ {
		spoke := AccountID("72H_S", i+1)
		accounts = append(accounts, spoke)
		if err := e.send(spoke, hub, svc.Rand.Amount(700, 900), base.Add(time.Duration(i)*spacing)); err != nil {
			return Scenario{}, err
		}
	}
	if span := e.window().End.Sub(e.window().Start); span != clusterWindow {
		return Scenario{}, fmt.Errorf("%w: 72h probe spans %s", ErrScheduling, span)
	}

	return Scenario{
		Name:         "window_exactly_72h",
		Pattern:      PatternBoundary,
		Transactions: e.txs,
		Expectation: Expectation{
			Scenario:  "window_exactly_72h",
			Pattern:   PatternBoundary,
			Verdict:   VerdictMustFlag,
			Accounts:  accounts,
			MustFlag:  []string{hub},
			Window:    e.window(),
			Rationale: "thirteen senders spanning exactly 72 hours; the window boundary is inclusive",
		},
	}, nil
}

// WindowJustOutside72h places ten senders across 73 hours so no 72-hour
// window contains ten of them: must NOT trigger.
func WindowJustOutside72h(svc *Services) (Scenario, error) {
	hub := AccountID("73H_AGG", 1)
	base := svc.Clock.At(130, 0, 0)

	e := newEmitter(svc)
	accounts := []string{hub}
	// Nine senders across 64 hours, then the tenth at 73 hours. Any 72-hour
	// window holds at most nine.
	offsets := []time.Duration{0, 8, 16, 24, 32, 40, 48, 56, 64, 73}
	for i, h := range offsets {
		spoke := AccountID("73H_S", i+1)
		accounts = append(accounts, spoke)
		if err := e.send(spoke, hub, svc.Rand.Amount(700, 900), base.Add(h*time.Hour)); err != nil {
			return Scenario{}, err
		}
	}
	if span := e.window().End.Sub(e.window().Start); span <= clusterWindow {
		return Scenario{}, fmt.Errorf("%w: 73h probe spans only %s", ErrScheduling, span)
	}

	return Scenario{
		Name:         "window_just_outside_72h",
		Pattern:      PatternBoundary,
		Transactions: e.txs,
		Expectation: Expectation{
			Scenario:    "window_just_outside_72h",
			Pattern:     PatternBoundary,
			Verdict:     VerdictMustNotFlag,
			Accounts:    accounts,
			MustNotFlag: []string{hub},
			Window:      e.window(),
			Rationale:   "ten senders stretched one hour past the 72-hour window; temporal clustering must not fire",
		},
	}, nil
}

// IdenticalTimestamps lands five transfers on the exact same instant. The
// detector must process them without error; five senders stay below the
// fan-in threshold.
func IdenticalTimestamps(svc *Services) (Scenario, error) {
	hub := AccountID("SIMULT_AGG", 1)
	ts := svc.Clock.At(137, 0, 0)

	e := newEmitter(svc)
	accounts := []string{hub}
	for i := 1; i <= 5; i++ {
		spoke := AccountID("SIMULT_S", i)
		accounts = append(accounts, spoke)
		if err := e.send(spoke, hub, svc.Rand.Amount(100, 500), ts); err != nil {
			return Scenario{}, err
		}
	}

	return Scenario{
		Name:         "identical_timestamps",
		Pattern:      PatternBoundary,
		Transactions: e.txs,
		Expectation: Expectation{
			Scenario:    "identical_timestamps",
			Pattern:     PatternBoundary,
			Verdict:     VerdictMustNotFlag,
			Accounts:    accounts,
			MustNotFlag: []string{hub},
			Window:      Window{Start: ts, End: ts},
			Rationale:   "five simultaneous transfers; below the sender threshold, and zero-width windows must not break parsing",
		},
	}, nil
}

// SingleUsePassThrough is one account with a single inbound and a single
// outbound transfer. Whether a lone one-in-one-out account counts as a shell
// is detector policy, so the verdict is left undetermined.
func SingleUsePassThrough(svc *Services) (Scenario, error) {
	source := AccountID("SINGLE_IN", 1)
	middle := AccountID("SINGLE", 1)
	sink := AccountID("SINGLE_OUT", 1)
	base := svc.Clock.At(139, 0, 0)

	e := newEmitter(svc)
	if err := e.send(source, middle, decimal.NewFromInt(2500), base); err != nil {
		return Scenario{}, err
	}
	if err := e.send(middle, sink, decimal.NewFromInt(2450), base.Add(6*time.Hour)); err != nil {
		return Scenario{}, err
	}

	accounts := []string{source, middle, sink}
	return Scenario{
		Name:         "single_use_pass_through",
		Pattern:      PatternBoundary,
		Transactions: e.txs,
		Expectation: Expectation{
			Scenario:  "single_use_pass_through",
			Pattern:   PatternBoundary,
			Verdict:   VerdictUndetermined,
			Accounts:  accounts,
			Window:    e.window(),
			Rationale: "one account used exactly once in each direction; too short for a chain, either verdict is acceptable",
		},
	}, nil
}

// IsolatedPairs emits five disconnected account pairs with one transfer each.
func IsolatedPairs(svc *Services) (Scenario, error) {
	base := svc.Clock.At(140, 0, 0)

	e := newEmitter(svc)
	var accounts []string
	for i := 1; i <= 5; i++ {
		a := AccountID("ISO_A", i)
		b := AccountID("ISO_B", i)
		accounts = append(accounts, a, b)
		ts := base.Add(time.Duration(i-1) * 24 * time.Hour)
		if err := e.send(a, b, svc.Rand.Amount(100, 5000), ts); err != nil {
			return Scenario{}, err
		}
	}

	return Scenario{
		Name:         "isolated_pairs",
		Pattern:      PatternBoundary,
		Transactions: e.txs,
		Expectation: Expectation{
			Scenario:    "isolated_pairs",
			Pattern:     PatternBoundary,
			Verdict:     VerdictMustNotFlag,
			Accounts:    accounts,
			MustNotFlag: accounts,
			Window:      e.window(),
			Rationale:   "disconnected single-transfer components; nothing to pattern-match",
		},
	}, nil
}
