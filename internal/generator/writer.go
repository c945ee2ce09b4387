package generator

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// TimeLayout is the canonical timestamp form of the tabular dataset: second
// resolution, no timezone. All generated instants are UTC.
const TimeLayout = "2006-01-02 15:04:05"

// Output file names inside the dataset directory.
const (
	TransactionsFile = "transactions.csv"
	ManifestTextFile = "manifest.txt"
	ManifestJSONFile = "manifest.json"
)

var csvHeader = []string{"transaction_id", "sender_id", "receiver_id", "amount", "timestamp"}

// WriteDataset renders the dataset into transactions.csv, manifest.txt and
// manifest.json under the provided directory.
func WriteDataset(ds *Dataset, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if err := writeFile(filepath.Join(dir, TransactionsFile), func(w io.Writer) error {
		return WriteTransactionsCSV(w, ds.Transactions)
	}); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(dir, ManifestTextFile), func(w io.Writer) error {
		return WriteManifestText(w, ds)
	}); err != nil {
		return err
	}
	return writeFile(filepath.Join(dir, ManifestJSONFile), func(w io.Writer) error {
		return WriteManifestJSON(w, ds.Manifest)
	})
}

func writeFile(path string, render func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	if err := render(file); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriteTransactionsCSV emits the header row plus one row per transaction in
// generation order. Amounts carry exactly two fraction digits.
func WriteTransactionsCSV(w io.Writer, txs []Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, tx := range txs {
		row := []string{
			tx.ID,
			tx.Sender,
			tx.Receiver,
			tx.Amount.StringFixed(2),
			tx.Timestamp.UTC().Format(TimeLayout),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %s: %w", tx.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteManifestJSON emits the machine-checkable expectation manifest.
func WriteManifestJSON(w io.Writer, m Manifest) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

// WriteManifestText renders the human-readable expectation report: one
// section per scenario plus a closing summary of must-detect versus
// must-not-flag scenarios.
func WriteManifestText(w io.Writer, ds *Dataset) error {
	rule := strings.Repeat("-", 70)
	accounts := make(map[string]bool)
	for _, tx := range ds.Transactions {
		accounts[tx.Sender] = true
		accounts[tx.Receiver] = true
	}

	var b strings.Builder
	fmt.Fprintf(&b, "FORENSIQ TEST DATASET - EXPECTATION MANIFEST\n%s\n", rule)
	fmt.Fprintf(&b, "Scenarios: %d\nTransactions: %d\nUnique accounts: %d\n%s\n\n",
		len(ds.Manifest.Expectations), len(ds.Transactions), len(accounts), rule)

	for _, e := range ds.Manifest.Expectations {
		fmt.Fprintf(&b, "SCENARIO: %s\n", e.Scenario)
		fmt.Fprintf(&b, "  Pattern:  %s\n", e.Pattern)
		fmt.Fprintf(&b, "  Verdict:  %s\n", e.Verdict)
		fmt.Fprintf(&b, "  Window:   %s .. %s\n", e.Window.Start.Format(TimeLayout), e.Window.End.Format(TimeLayout))
		fmt.Fprintf(&b, "  Accounts: %s\n", joinCapped(e.Accounts, 8))
		if e.RingSize > 0 {
			fmt.Fprintf(&b, "  Ring size: %d\n", e.RingSize)
		}
		if len(e.MustFlag) > 0 {
			fmt.Fprintf(&b, "  Must flag: %s\n", joinCapped(e.MustFlag, 8))
		}
		if len(e.MustNotFlag) > 0 {
			fmt.Fprintf(&b, "  Must not flag: %s\n", joinCapped(e.MustNotFlag, 8))
		}
		fmt.Fprintf(&b, "  Rationale: %s\n%s\n\n", e.Rationale, rule)
	}

	fmt.Fprintf(&b, "SUMMARY\n%s\n", rule)
	fmt.Fprintf(&b, "MUST DETECT:\n")
	for _, name := range ds.Manifest.MustDetect() {
		fmt.Fprintf(&b, "  + %s\n", name)
	}
	fmt.Fprintf(&b, "MUST NOT FLAG:\n")
	for _, name := range ds.Manifest.MustNotFlagged() {
		fmt.Fprintf(&b, "  - %s\n", name)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func joinCapped(items []string, max int) string {
	if len(items) <= max {
		return strings.Join(items, ", ")
	}
	return fmt.Sprintf("%s, ... (%d total)", strings.Join(items[:max], ", "), len(items))
}
