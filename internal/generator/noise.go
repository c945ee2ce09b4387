package generator

import "fmt"

// noiseCount is the default number of background transactions.
const noiseCount = 200

// BackgroundNoise emits unrelated one-off transfers between NORM accounts.
// Senders draw from indices 1-100 and receivers from 101-200, so a sender can
// never pair with itself and the noise population stays disjoint from every
// pattern scenario. This is the negative baseline the dataset's
// signal-to-noise ratio is judged against.
func BackgroundNoise(count int) Builder {
	return func(svc *Services) (Scenario, error) {
		if count <= 0 {
			return Scenario{}, fmt.Errorf("noise count must be positive, got %d", count)
		}

		e := newEmitter(svc)
		seen := make(map[string]bool)
		var accounts []string
		for i := 0; i < count; i++ {
			sender := AccountID("NORM", svc.Rand.IntBetween(1, 100))
			receiver := AccountID("NORM", svc.Rand.IntBetween(101, 200))
			amount := svc.Rand.Amount(10, 8000)
			ts := svc.Clock.At(svc.Rand.IntBetween(0, 180), svc.Rand.IntBetween(0, 23), svc.Rand.IntBetween(0, 59))
			if err := e.send(sender, receiver, amount, ts); err != nil {
				return Scenario{}, err
			}
			for _, acc := range []string{sender, receiver} {
				if !seen[acc] {
					seen[acc] = true
					accounts = append(accounts, acc)
				}
			}
		}

		return Scenario{
			Name:         "background_noise",
			Pattern:      PatternNoise,
			Transactions: e.txs,
			Expectation: Expectation{
				Scenario:    "background_noise",
				Pattern:     PatternNoise,
				Verdict:     VerdictMustNotFlag,
				Accounts:    accounts,
				MustNotFlag: accounts,
				Window:      e.window(),
				Rationale:   fmt.Sprintf("%d unrelated one-off transfers; the negative baseline, nothing may be flagged", count),
			},
		}, nil
	}
}
