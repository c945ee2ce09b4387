package generator

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Contract violations inside a builder are generator defects: the run aborts
// rather than emitting data whose ground truth cannot be trusted.
var (
	ErrSelfLoop      = errors.New("self-loop transaction")
	ErrCycleTooShort = errors.New("cycle length must be at least 3")
	ErrFanCount      = errors.New("fan participant count must be positive")
	ErrDecayRate     = errors.New("decay rate must be in (0, 1)")
	ErrSkimRate      = errors.New("skim rate must be positive and keep amounts positive")
	ErrHopCount      = errors.New("shell chain needs at least two hops")
	ErrAmountBand    = errors.New("amount band is inverted or non-positive")
	ErrScheduling    = errors.New("scenario phases overlap out of order")
)

// Services bundles the shared mutable state injected into every scenario
// builder: the identifier allocator, the single randomness stream, and the
// time cursor. They are explicit parameters, never package globals, so each
// scenario can be exercised in isolation with fixed inputs.
type Services struct {
	IDs   *Allocator
	Rand  *RandomSource
	Clock *Clock
}

// NewServices wires a fresh service bundle for one generation run.
func NewServices(seed int64) *Services {
	return &Services{
		IDs:   NewAllocator(),
		Rand:  NewRandomSource(seed),
		Clock: NewClock(),
	}
}

// Scenario is one executed topology: its emitted transactions plus the
// expectation that outlives it.
type Scenario struct {
	Name    string
	Pattern Pattern
	// Reuses lists account identifiers deliberately shared with an earlier
	// scenario. Any undeclared cross-scenario account reuse aborts the run.
	Reuses       []string
	Transactions []Transaction
	Expectation  Expectation
}

// Builder constructs a single self-contained scenario from the shared
// services. Builders run exactly once, in catalog order.
type Builder func(svc *Services) (Scenario, error)

// emitter collects transactions for one scenario, allocating identifiers in
// call order and rejecting self-loops at the point of emission.
type emitter struct {
	svc *Services
	txs []Transaction
}

func newEmitter(svc *Services) *emitter {
	return &emitter{svc: svc}
}

func (e *emitter) send(sender, receiver string, amount decimal.Decimal, ts time.Time) error {
	if sender == receiver {
		return fmt.Errorf("%w: %s at %s", ErrSelfLoop, sender, ts.Format(time.RFC3339))
	}
	if !amount.IsPositive() {
		return fmt.Errorf("non-positive amount %s from %s", amount.String(), sender)
	}
	e.txs = append(e.txs, Transaction{
		ID:        e.svc.IDs.NextTransactionID(),
		Sender:    sender,
		Receiver:  receiver,
		Amount:    amount,
		Timestamp: ts,
	})
	return nil
}

// window derives the temporal extent of everything emitted so far.
func (e *emitter) window() Window {
	if len(e.txs) == 0 {
		return Window{}
	}
	w := Window{Start: e.txs[0].Timestamp, End: e.txs[0].Timestamp}
	for _, tx := range e.txs[1:] {
		if tx.Timestamp.Before(w.Start) {
			w.Start = tx.Timestamp
		}
		if tx.Timestamp.After(w.End) {
			w.End = tx.Timestamp
		}
	}
	return w
}
