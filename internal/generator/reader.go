package generator

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shopspring/decimal"
)

// ReadTransactionsCSV parses a dataset file back into transaction records.
// It is the round-trip counterpart of WriteTransactionsCSV and is also used
// by the graph loader.
func ReadTransactionsCSV(r io.Reader) ([]Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i, want := range csvHeader {
		if header[i] != want {
			return nil, fmt.Errorf("unexpected csv header column %d: got %q, want %q", i, header[i], want)
		}
	}

	var txs []Transaction
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}

		amount, err := decimal.NewFromString(row[3])
		if err != nil {
			return nil, fmt.Errorf("parse amount %q in %s: %w", row[3], row[0], err)
		}
		ts, err := time.ParseInLocation(TimeLayout, row[4], time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp %q in %s: %w", row[4], row[0], err)
		}

		txs = append(txs, Transaction{
			ID:        row[0],
			Sender:    row[1],
			Receiver:  row[2],
			Amount:    amount,
			Timestamp: ts,
		})
	}
	return txs, nil
}

// ReadTransactionsFile opens and parses a dataset CSV from disk.
func ReadTransactionsFile(path string) ([]Transaction, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	return ReadTransactionsCSV(file)
}

// ReadManifestFile loads a machine-checkable manifest written by
// WriteManifestJSON.
func ReadManifestFile(path string) (Manifest, error) {
	file, err := os.Open(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	var m Manifest
	if err := json.NewDecoder(file).Decode(&m); err != nil {
		return Manifest{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return m, nil
}
