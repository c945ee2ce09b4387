package verify

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/adithya/forensiq-synth/internal/detector"
	"github.com/adithya/forensiq-synth/internal/generator"
)

// ScenarioResult records the comparison of one scenario's expectation against
// the detector's observed flags.
type ScenarioResult struct {
	Scenario     string
	Pattern      generator.Pattern
	Verdict      generator.Verdict
	Passed       bool
	Undetermined bool
	// MissingFlags are must-flag accounts the detector did not report.
	MissingFlags []string
	// UnexpectedFlags are must-not-flag accounts the detector reported anyway.
	UnexpectedFlags []string
}

// Report is the full outcome of one verification run.
type Report struct {
	RunID        string
	Total        int
	Passed       int
	Failed       int
	Undetermined int
	Scenarios    []ScenarioResult
}

// Evaluate diffs the manifest against the detector results. It is a pure
// comparison: transport problems never reach this function.
func Evaluate(m generator.Manifest, res *detector.Results) Report {
	flagged := res.FlaggedAccounts()
	report := Report{RunID: uuid.NewString()}

	for _, exp := range m.Expectations {
		result := ScenarioResult{
			Scenario: exp.Scenario,
			Pattern:  exp.Pattern,
			Verdict:  exp.Verdict,
		}
		if exp.Verdict == generator.VerdictUndetermined {
			result.Undetermined = true
			result.Passed = true
			report.Undetermined++
		} else {
			for _, acc := range exp.MustFlag {
				if !flagged[acc] {
					result.MissingFlags = append(result.MissingFlags, acc)
				}
			}
			for _, acc := range exp.MustNotFlag {
				if flagged[acc] {
					result.UnexpectedFlags = append(result.UnexpectedFlags, acc)
				}
			}
			result.Passed = len(result.MissingFlags) == 0 && len(result.UnexpectedFlags) == 0
			if result.Passed {
				report.Passed++
			} else {
				report.Failed++
			}
		}

		report.Total++
		report.Scenarios = append(report.Scenarios, result)
	}
	return report
}

// WriteText renders the report as a per-scenario pass/fail listing with an
// aggregate footer.
func (r Report) WriteText(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "VERIFICATION RUN %s\n%s\n", r.RunID, strings.Repeat("-", 70))
	for _, s := range r.Scenarios {
		switch {
		case s.Undetermined:
			fmt.Fprintf(&b, "[SKIP] %s (%s): undetermined by design\n", s.Scenario, s.Pattern)
		case s.Passed:
			fmt.Fprintf(&b, "[PASS] %s (%s)\n", s.Scenario, s.Pattern)
		default:
			fmt.Fprintf(&b, "[FAIL] %s (%s)\n", s.Scenario, s.Pattern)
			for _, acc := range s.MissingFlags {
				fmt.Fprintf(&b, "         missing flag: %s\n", acc)
			}
			for _, acc := range s.UnexpectedFlags {
				fmt.Fprintf(&b, "         unexpected flag: %s\n", acc)
			}
		}
	}
	fmt.Fprintf(&b, "%s\n%d scenarios: %d passed, %d failed, %d undetermined\n",
		strings.Repeat("-", 70), r.Total, r.Passed, r.Failed, r.Undetermined)

	_, err := io.WriteString(w, b.String())
	return err
}
