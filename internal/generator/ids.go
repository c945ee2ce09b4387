package generator

import "fmt"

// Allocator issues globally unique transaction identifiers. The counter is
// strictly monotonic across the whole run, so the position of a transaction in
// the output file reflects generation order rather than timestamp order.
type Allocator struct {
	counter int
}

// NewAllocator returns an Allocator whose first issued identifier is TXN_00001.
func NewAllocator() *Allocator {
	return &Allocator{}
}

// NextTransactionID returns the next transaction identifier, incrementing the
// global counter by exactly one.
func (a *Allocator) NextTransactionID() string {
	a.counter++
	return fmt.Sprintf("TXN_%05d", a.counter)
}

// Issued reports how many identifiers have been handed out so far.
func (a *Allocator) Issued() int {
	return a.counter
}

// AccountID derives an account identifier from a semantic scenario prefix and
// an index, e.g. ("CYCLE3", 1) -> "ACC_CYCLE3_0001". It is a pure function:
// callers choose indices, which allows deliberate reuse of the exact same
// identifier across scenarios when an overlap is intended.
func AccountID(prefix string, index int) string {
	return fmt.Sprintf("ACC_%s_%04d", prefix, index)
}
