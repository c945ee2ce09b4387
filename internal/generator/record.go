package generator

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is an immutable generated transfer fact. It is created once by a
// scenario builder, appended to the global sequence, and never mutated.
// Invariant: Sender != Receiver; self-loops are excluded at emission time.
type Transaction struct {
	ID        string
	Sender    string
	Receiver  string
	Amount    decimal.Decimal
	Timestamp time.Time
}
