package generator

import "time"

// Clock maps logical scenario offsets to absolute instants. All scenarios
// share one fixed epoch; each scenario picks a base offset for itself and
// expresses internal event timing relative to that base, which keeps
// unrelated scenarios in disjoint time windows.
type Clock struct {
	epoch time.Time
}

// NewClock returns a Clock anchored at the fixed run epoch,
// 2025-01-15 08:00:00 UTC.
func NewClock() *Clock {
	return &Clock{epoch: time.Date(2025, time.January, 15, 8, 0, 0, 0, time.UTC)}
}

// Epoch returns the shared base instant of the run.
func (c *Clock) Epoch() time.Time {
	return c.epoch
}

// At computes epoch + days + hours + minutes. Offsets are whole minutes so
// every generated timestamp is exact at second resolution.
func (c *Clock) At(days, hours, minutes int) time.Time {
	d := time.Duration(days)*24*time.Hour +
		time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute
	return c.epoch.Add(d)
}
