package generator

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ShellChainParams parameterizes a layered chain SRC -> MID_1 -> ... -> DST.
// Hops is the number of edges in the chain, so a 3-hop chain passes through
// two shell intermediaries. Each interior account must end the scenario with
// exactly one inbound and one outbound transaction; that is the defining
// shell signature. Endpoints receive extra unrelated traffic so they do not
// also look shell-like.
type ShellChainParams struct {
	Name    string
	Prefix  string
	Hops    int
	Start   decimal.Decimal
	Decay   float64 // multiplicative per-hop retention, e.g. 0.95
	Base    time.Time
	Spacing time.Duration
	// PadCount unrelated transactions are attached to each endpoint.
	PadCount int
	PadLow   float64
	PadHigh  float64
}

func buildShellChain(svc *Services, p ShellChainParams) (Scenario, error) {
	if p.Hops < 2 {
		return Scenario{}, fmt.Errorf("%w: got %d for %s", ErrHopCount, p.Hops, p.Name)
	}
	if p.Decay <= 0 || p.Decay >= 1 {
		return Scenario{}, fmt.Errorf("%w: got %.4f for %s", ErrDecayRate, p.Decay, p.Name)
	}

	src := AccountID(p.Prefix+"_SRC", 1)
	dst := AccountID(p.Prefix+"_DST", 1)
	mids := make([]string, p.Hops-1)
	for i := range mids {
		mids[i] = AccountID(p.Prefix+"_MID", i+1)
	}
	chain := append(append([]string{src}, mids...), dst)

	e := newEmitter(svc)
	amount := p.Start
	for i := 0; i < len(chain)-1; i++ {
		ts := p.Base.Add(time.Duration(i) * p.Spacing)
		if err := e.send(chain[i], chain[i+1], amount.Round(2), ts); err != nil {
			return Scenario{}, err
		}
		amount = amount.Mul(decimal.NewFromFloat(p.Decay))
	}

	// Pad the endpoints with unrelated low-value traffic. Touching an
	// interior account here would break the exactly-two-transactions
	// signature, so pad partners get their own prefixes.
	padOut := make([]string, 0, p.PadCount)
	padIn := make([]string, 0, p.PadCount)
	for i := 1; i <= p.PadCount; i++ {
		partner := AccountID(p.Prefix+"_PAYEE", i)
		padOut = append(padOut, partner)
		ts := p.Base.Add(time.Duration(i) * 24 * time.Hour)
		if err := e.send(src, partner, svc.Rand.Amount(p.PadLow, p.PadHigh), ts); err != nil {
			return Scenario{}, err
		}
	}
	for i := 1; i <= p.PadCount; i++ {
		partner := AccountID(p.Prefix+"_PAYER", i)
		padIn = append(padIn, partner)
		ts := p.Base.Add(time.Duration(i)*24*time.Hour + 6*time.Hour)
		if err := e.send(partner, dst, svc.Rand.Amount(p.PadLow, p.PadHigh), ts); err != nil {
			return Scenario{}, err
		}
	}

	if err := verifyShellSignature(e.txs, mids); err != nil {
		return Scenario{}, fmt.Errorf("%s: %w", p.Name, err)
	}

	accounts := append(append(append([]string{}, chain...), padOut...), padIn...)
	return Scenario{
		Name:         p.Name,
		Pattern:      PatternShellChain,
		Transactions: e.txs,
		Expectation: Expectation{
			Scenario:    p.Name,
			Pattern:     PatternShellChain,
			Verdict:     VerdictMustFlag,
			Accounts:    accounts,
			MustFlag:    mids,
			MustNotFlag: append(append([]string{}, padOut...), padIn...),
			Window:      e.window(),
			Rationale:   fmt.Sprintf("%d-hop chain with %.0f%% per-hop decay; interior accounts carry exactly one in and one out", p.Hops, (1-p.Decay)*100),
		},
	}, nil
}

// verifyShellSignature aborts generation if any designated shell intermediary
// does not have exactly one inbound and one outbound transaction.
func verifyShellSignature(txs []Transaction, mids []string) error {
	in := make(map[string]int, len(mids))
	out := make(map[string]int, len(mids))
	for _, tx := range txs {
		in[tx.Receiver]++
		out[tx.Sender]++
	}
	for _, mid := range mids {
		if in[mid] != 1 || out[mid] != 1 {
			return fmt.Errorf("shell intermediary %s has %d inbound and %d outbound transactions, want exactly 1 and 1", mid, in[mid], out[mid])
		}
	}
	return nil
}

// ShellChain3 routes funds through two shell intermediaries over three hops.
func ShellChain3(svc *Services) (Scenario, error) {
	return buildShellChain(svc, ShellChainParams{
		Name:     "shell_chain_3_hop",
		Prefix:   "SHELL3",
		Hops:     3,
		Start:    decimal.NewFromInt(15000),
		Decay:    0.985,
		Base:     svc.Clock.At(18, 0, 0),
		Spacing:  6 * time.Hour,
		PadCount: 5,
		PadLow:   100,
		PadHigh:  500,
	})
}

// ShellChain5 is the deeper five-hop variant with stronger decay.
func ShellChain5(svc *Services) (Scenario, error) {
	return buildShellChain(svc, ShellChainParams{
		Name:     "shell_chain_5_hop",
		Prefix:   "SHELL5",
		Hops:     5,
		Start:    decimal.NewFromInt(20000),
		Decay:    0.95,
		Base:     svc.Clock.At(22, 0, 0),
		Spacing:  4 * time.Hour,
		PadCount: 6,
		PadLow:   200,
		PadHigh:  800,
	})
}
