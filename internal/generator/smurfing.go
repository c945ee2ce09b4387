package generator

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// reportingThreshold is the regulatory reporting line structuring scenarios
// stay just below.
const reportingThreshold = 10_000

// FanParams parameterizes a fan-in (N senders -> one aggregator) or its
// mirror fan-out. Fixed, when set, overrides the uniform band and makes every
// amount identical (uniform-amount smurfing).
type FanParams struct {
	Name        string
	Pattern     Pattern
	Verdict     Verdict
	SpokePrefix string
	Hub         string
	Count       int
	Low, High   float64
	Fixed       decimal.Decimal
	Base        time.Time
	Spacing     time.Duration
	Rationale   string
	out         bool // hub disperses instead of aggregating
}

func buildFan(svc *Services, p FanParams) (Scenario, error) {
	if p.Count <= 0 {
		return Scenario{}, fmt.Errorf("%w: got %d for %s", ErrFanCount, p.Count, p.Name)
	}
	if p.Fixed.IsZero() && (p.Low <= 0 || p.High < p.Low) {
		return Scenario{}, fmt.Errorf("%w: [%v, %v] in %s", ErrAmountBand, p.Low, p.High, p.Name)
	}

	e := newEmitter(svc)
	spokes := make([]string, p.Count)
	for i := 0; i < p.Count; i++ {
		spokes[i] = AccountID(p.SpokePrefix, i+1)
		amount := p.Fixed
		if amount.IsZero() {
			amount = svc.Rand.Amount(p.Low, p.High)
		}
		ts := p.Base.Add(time.Duration(i+1) * p.Spacing)
		var err error
		if p.out {
			err = e.send(p.Hub, spokes[i], amount, ts)
		} else {
			err = e.send(spokes[i], p.Hub, amount, ts)
		}
		if err != nil {
			return Scenario{}, err
		}
	}

	exp := Expectation{
		Scenario:  p.Name,
		Pattern:   p.Pattern,
		Verdict:   p.Verdict,
		Accounts:  append([]string{p.Hub}, spokes...),
		Window:    e.window(),
		Rationale: p.Rationale,
	}
	switch p.Verdict {
	case VerdictMustFlag:
		exp.MustFlag = []string{p.Hub}
	case VerdictMustNotFlag:
		exp.MustNotFlag = []string{p.Hub}
	}

	return Scenario{
		Name:         p.Name,
		Pattern:      p.Pattern,
		Transactions: e.txs,
		Expectation:  exp,
	}, nil
}

// FanIn15 aggregates fifteen senders into one account inside a 48-hour window.
func FanIn15(svc *Services) (Scenario, error) {
	return buildFan(svc, FanParams{
		Name:        "fan_in_15",
		Pattern:     PatternFanIn,
		Verdict:     VerdictMustFlag,
		SpokePrefix: "FANIN_S",
		Hub:         AccountID("FANIN_AGG", 1),
		Count:       15,
		Low:         800,
		High:        1200,
		Base:        svc.Clock.At(5, 0, 0),
		Spacing:     3 * time.Hour,
		Rationale:   "fifteen distinct senders converge on one aggregator within the clustering window",
	})
}

// FanOut15 disperses one account into fifteen receivers, the mirror topology.
func FanOut15(svc *Services) (Scenario, error) {
	return buildFan(svc, FanParams{
		Name:        "fan_out_15",
		Pattern:     PatternFanOut,
		Verdict:     VerdictMustFlag,
		SpokePrefix: "FANOUT_R",
		Hub:         AccountID("FANOUT_DISP", 1),
		Count:       15,
		Low:         500,
		High:        700,
		Base:        svc.Clock.At(7, 0, 0),
		Spacing:     2 * time.Hour,
		Rationale:   "one disperser pushes funds to fifteen receivers within the clustering window",
		out:         true,
	})
}

// Structuring layers an amount-distribution property onto the fan-in
// topology: every transfer sits just beneath the reporting threshold.
func Structuring(svc *Services) (Scenario, error) {
	s, err := buildFan(svc, FanParams{
		Name:        "structuring_below_threshold",
		Pattern:     PatternFanIn,
		Verdict:     VerdictMustFlag,
		SpokePrefix: "STRUCT_S",
		Hub:         AccountID("STRUCT_AGG", 1),
		Count:       12,
		Low:         9500,
		High:        9999,
		Base:        svc.Clock.At(13, 0, 0),
		Spacing:     5 * time.Hour,
		Rationale:   "twelve transfers each just under the $10,000 reporting threshold",
	})
	if err != nil {
		return Scenario{}, err
	}
	for _, tx := range s.Transactions {
		if tx.Amount.GreaterThanOrEqual(decimal.NewFromInt(reportingThreshold)) {
			return Scenario{}, fmt.Errorf("structuring amount %s at or above reporting threshold", tx.Amount)
		}
	}
	return s, nil
}

// IdenticalAmountSmurfing sends the exact same amount from every spoke.
func IdenticalAmountSmurfing(svc *Services) (Scenario, error) {
	return buildFan(svc, FanParams{
		Name:        "identical_amount_smurfing",
		Pattern:     PatternFanIn,
		Verdict:     VerdictMustFlag,
		SpokePrefix: "IDENT_S",
		Hub:         AccountID("IDENT_AGG", 1),
		Count:       11,
		Fixed:       decimal.RequireFromString("999.99"),
		Base:        svc.Clock.At(15, 0, 0),
		Spacing:     4 * time.Hour,
		Rationale:   "eleven senders move an identical $999.99; uniformity is the signal",
	})
}

// PassThroughHub makes one account the aggregator of a fan-in and the
// disperser of a fan-out, with the out-phase scheduled strictly after the
// in-phase ends.
func PassThroughHub(svc *Services) (Scenario, error) {
	hub := AccountID("COMBO_HUB", 1)
	base := svc.Clock.At(10, 0, 0)
	const senders, receivers = 12, 12

	e := newEmitter(svc)
	accounts := []string{hub}
	var lastIn time.Time
	for i := 1; i <= senders; i++ {
		spoke := AccountID("COMBO_IN", i)
		accounts = append(accounts, spoke)
		lastIn = base.Add(time.Duration(i*3) * time.Hour)
		if err := e.send(spoke, hub, svc.Rand.Amount(900, 1100), lastIn); err != nil {
			return Scenario{}, err
		}
	}
	outStart := base.Add(36 * time.Hour)
	for i := 1; i <= receivers; i++ {
		spoke := AccountID("COMBO_OUT", i)
		accounts = append(accounts, spoke)
		ts := outStart.Add(time.Duration(i*2) * time.Hour)
		if !ts.After(lastIn) {
			return Scenario{}, fmt.Errorf("%w: fan-out transfer at %s precedes last fan-in at %s", ErrScheduling, ts, lastIn)
		}
		if err := e.send(hub, spoke, svc.Rand.Amount(800, 1000), ts); err != nil {
			return Scenario{}, err
		}
	}

	return Scenario{
		Name:         "pass_through_hub",
		Pattern:      PatternCombined,
		Transactions: e.txs,
		Expectation: Expectation{
			Scenario:  "pass_through_hub",
			Pattern:   PatternCombined,
			Verdict:   VerdictMustFlag,
			Accounts:  accounts,
			MustFlag:  []string{hub},
			Window:    e.window(),
			Rationale: "hub aggregates twelve senders then disperses to twelve receivers; classic pass-through laundering",
		},
	}, nil
}
