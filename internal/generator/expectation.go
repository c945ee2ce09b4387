package generator

import (
	"fmt"
	"time"
)

// Pattern classifies the topology a scenario embeds.
type Pattern string

const (
	PatternCycle         Pattern = "cycle"
	PatternFanIn         Pattern = "fan_in"
	PatternFanOut        Pattern = "fan_out"
	PatternCombined      Pattern = "combined_fan_in_out"
	PatternShellChain    Pattern = "shell_chain"
	PatternFalsePositive Pattern = "false_positive_trap"
	PatternBoundary      Pattern = "boundary"
	PatternMixed         Pattern = "mixed"
	PatternNoise         Pattern = "noise"
)

// Verdict states what the external detector is expected to do with a scenario.
type Verdict string

const (
	// VerdictMustFlag requires every account in MustFlag to appear in the
	// detector's suspicious set.
	VerdictMustFlag Verdict = "must_flag"
	// VerdictMustNotFlag requires that no account in MustNotFlag is reported.
	VerdictMustNotFlag Verdict = "must_not_flag"
	// VerdictUndetermined marks topologies where either outcome is acceptable,
	// such as the diamond pattern.
	VerdictUndetermined Verdict = "undetermined"
)

// Window is the temporal extent a scenario occupies.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Expectation is the machine-checkable verdict a scenario registers for the
// verification harness. It is the only part of a scenario that outlives
// composition.
type Expectation struct {
	Scenario    string   `json:"scenario"`
	Pattern     Pattern  `json:"pattern"`
	Verdict     Verdict  `json:"verdict"`
	Accounts    []string `json:"accounts"`
	MustFlag    []string `json:"must_flag,omitempty"`
	MustNotFlag []string `json:"must_not_flag,omitempty"`
	RingSize    int      `json:"ring_size,omitempty"`
	Window      Window   `json:"window"`
	Rationale   string   `json:"rationale"`
}

// Manifest accumulates expectations in composition order. It is read-only once
// the Composer finishes.
type Manifest struct {
	Expectations []Expectation `json:"expectations"`
}

func (m *Manifest) add(e Expectation) error {
	for _, existing := range m.Expectations {
		if existing.Scenario == e.Scenario {
			return fmt.Errorf("duplicate scenario name %q in manifest", e.Scenario)
		}
	}
	m.Expectations = append(m.Expectations, e)
	return nil
}

// ByScenario looks up the expectation registered under the given name.
func (m *Manifest) ByScenario(name string) (Expectation, bool) {
	for _, e := range m.Expectations {
		if e.Scenario == name {
			return e, true
		}
	}
	return Expectation{}, false
}

// MustDetect lists scenario names whose verdict requires detection.
func (m *Manifest) MustDetect() []string {
	var names []string
	for _, e := range m.Expectations {
		if e.Verdict == VerdictMustFlag {
			names = append(names, e.Scenario)
		}
	}
	return names
}

// MustNotFlagged lists scenario names whose participants must stay clean.
func (m *Manifest) MustNotFlagged() []string {
	var names []string
	for _, e := range m.Expectations {
		if e.Verdict == VerdictMustNotFlag {
			names = append(names, e.Scenario)
		}
	}
	return names
}
