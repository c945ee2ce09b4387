package generator

import (
	"time"

	"github.com/shopspring/decimal"
)

// False-positive traps: topologies that resemble fraud by volume or degree
// but fail on a distinguishing property. Every participant must stay clean.

func trapExpectation(name string, accounts []string, w Window, rationale string) Expectation {
	return Expectation{
		Scenario:    name,
		Pattern:     PatternFalsePositive,
		Verdict:     VerdictMustNotFlag,
		Accounts:    accounts,
		MustNotFlag: accounts,
		Window:      w,
		Rationale:   rationale,
	}
}

// MerchantTrap is a high fan-in account with highly varied small amounts and
// no back-flow to its customers; it only pays two suppliers.
func MerchantTrap(svc *Services) (Scenario, error) {
	merchant := AccountID("MERCHANT", 1)
	base := svc.Clock.At(25, 0, 0)

	e := newEmitter(svc)
	accounts := []string{merchant}
	for i := 1; i <= 55; i++ {
		customer := AccountID("CUST", i)
		accounts = append(accounts, customer)
		ts := base.Add(time.Duration(i*4) * time.Hour)
		if err := e.send(customer, merchant, svc.Rand.Amount(5, 500), ts); err != nil {
			return Scenario{}, err
		}
	}
	suppliers := []struct {
		account string
		amount  decimal.Decimal
		at      time.Time
	}{
		{AccountID("SUPPLIER", 1), decimal.NewFromInt(8000), base.Add(10 * 24 * time.Hour)},
		{AccountID("SUPPLIER", 2), decimal.NewFromInt(6000), base.Add(15 * 24 * time.Hour)},
	}
	for _, s := range suppliers {
		accounts = append(accounts, s.account)
		if err := e.send(merchant, s.account, s.amount, s.at); err != nil {
			return Scenario{}, err
		}
	}

	return Scenario{
		Name:         "merchant_trap",
		Pattern:      PatternFalsePositive,
		Transactions: e.txs,
		Expectation: trapExpectation("merchant_trap", accounts, e.window(),
			"55 unique customers pay varied amounts with zero back-flow; a legitimate merchant, not an aggregator"),
	}, nil
}

// PayrollTrap sends a narrow salary band to 25 employees on three regular
// monthly runs, funded by a corporate account.
func PayrollTrap(svc *Services) (Scenario, error) {
	payroll := AccountID("PAYROLL", 1)
	hq := AccountID("CORPORATE_HQ", 1)
	base := svc.Clock.At(40, 0, 0)

	e := newEmitter(svc)
	accounts := []string{payroll, hq}
	for cycle := 0; cycle < 3; cycle++ {
		funding := base.Add(time.Duration(cycle*30-1) * 24 * time.Hour)
		if err := e.send(hq, payroll, decimal.NewFromInt(100000), funding); err != nil {
			return Scenario{}, err
		}
		for emp := 1; emp <= 25; emp++ {
			employee := AccountID("EMP", emp)
			if cycle == 0 {
				accounts = append(accounts, employee)
			}
			ts := base.Add(time.Duration(cycle*30)*24*time.Hour + time.Duration(emp)*time.Hour)
			if err := e.send(payroll, employee, svc.Rand.Amount(3900, 4100), ts); err != nil {
				return Scenario{}, err
			}
		}
	}

	return Scenario{
		Name:         "payroll_trap",
		Pattern:      PatternFalsePositive,
		Transactions: e.txs,
		Expectation: trapExpectation("payroll_trap", accounts, e.window(),
			"high fan-out at a fixed monthly interval within a narrow amount band and no back-flow; payroll, not dispersal"),
	}, nil
}

// CharityTrap collects many small donations and pays out a handful of large
// grants, the inverse amount profile of a pass-through hub.
func CharityTrap(svc *Services) (Scenario, error) {
	charity := AccountID("CHARITY", 1)
	base := svc.Clock.At(55, 0, 0)

	e := newEmitter(svc)
	accounts := []string{charity}
	for i := 1; i <= 40; i++ {
		donor := AccountID("DONOR", i)
		accounts = append(accounts, donor)
		ts := base.Add(time.Duration(i*2) * time.Hour)
		if err := e.send(donor, charity, svc.Rand.Amount(10, 200), ts); err != nil {
			return Scenario{}, err
		}
	}
	for i := 1; i <= 3; i++ {
		grantee := AccountID("GRANTEE", i)
		accounts = append(accounts, grantee)
		ts := base.Add(time.Duration(15+i*5) * 24 * time.Hour)
		if err := e.send(charity, grantee, svc.Rand.Amount(5000, 15000), ts); err != nil {
			return Scenario{}, err
		}
	}

	return Scenario{
		Name:         "charity_trap",
		Pattern:      PatternFalsePositive,
		Transactions: e.txs,
		Expectation: trapExpectation("charity_trap", accounts, e.window(),
			"many small donations in, three large grants out weeks later; no pass-through timing or amount symmetry"),
	}, nil
}

// ExchangeHubTrap has high in-degree and high out-degree but near-zero
// identity overlap between depositors and withdrawers.
func ExchangeHubTrap(svc *Services) (Scenario, error) {
	exchange := AccountID("EXCHANGE", 1)
	base := svc.Clock.At(80, 0, 0)

	e := newEmitter(svc)
	accounts := []string{exchange}
	for i := 1; i <= 64; i++ {
		depositor := AccountID("DEPOSITOR", i)
		accounts = append(accounts, depositor)
		ts := base.Add(time.Duration(i*2) * time.Hour)
		if err := e.send(depositor, exchange, svc.Rand.Amount(100, 50000), ts); err != nil {
			return Scenario{}, err
		}
	}
	for i := 1; i <= 64; i++ {
		withdrawer := AccountID("WITHDRAWER", i)
		accounts = append(accounts, withdrawer)
		ts := base.Add(time.Duration(128+i*2) * time.Hour)
		if err := e.send(exchange, withdrawer, svc.Rand.Amount(100, 50000), ts); err != nil {
			return Scenario{}, err
		}
	}

	return Scenario{
		Name:         "exchange_hub_trap",
		Pattern:      PatternFalsePositive,
		Transactions: e.txs,
		Expectation: trapExpectation("exchange_hub_trap", accounts, e.window(),
			"64 depositors and 64 withdrawers with disjoint identities; a platform hub, not a mule"),
	}, nil
}

// B2BTrap is two corporate accounts exchanging large transfers at regular
// monthly intervals. High value alone must not imply suspicion.
func B2BTrap(svc *Services) (Scenario, error) {
	corpA := AccountID("CORP_A", 1)
	corpB := AccountID("CORP_B", 1)
	base := svc.Clock.At(100, 0, 0)

	e := newEmitter(svc)
	for i := 0; i < 12; i++ {
		forward := base.Add(time.Duration(i*30) * 24 * time.Hour)
		if err := e.send(corpA, corpB, svc.Rand.Amount(50000, 80000), forward); err != nil {
			return Scenario{}, err
		}
		back := base.Add(time.Duration(i*30+15) * 24 * time.Hour)
		if err := e.send(corpB, corpA, svc.Rand.Amount(40000, 70000), back); err != nil {
			return Scenario{}, err
		}
	}

	accounts := []string{corpA, corpB}
	return Scenario{
		Name:         "b2b_trap",
		Pattern:      PatternFalsePositive,
		Transactions: e.txs,
		Expectation: trapExpectation("b2b_trap", accounts, e.window(),
			"only two parties trading large bidirectional transfers on a regular schedule; settlement, not layering"),
	}, nil
}
