package ingest

import (
	"context"
	"errors"
	"sync"

	"github.com/adithya/forensiq-synth/internal/generator"
	"github.com/adithya/forensiq-synth/internal/repository"
)

// LoadError accumulates the individual failures of a bulk load.
type LoadError struct {
	Errors []error
}

func (e *LoadError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := "multiple errors:"
	for _, err := range e.Errors {
		msg += " " + err.Error() + ";"
	}
	return msg
}

func (e *LoadError) append(err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, err)
}

func (e *LoadError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// Loader pushes a generated transaction sequence into the graph database
// using a bounded worker pool. Load order does not matter here: the graph is
// for inspection, determinism is a property of the CSV.
type Loader struct {
	repo    *repository.Repository
	workers int
}

// NewLoader creates a Loader with the provided concurrency.
func NewLoader(repo *repository.Repository, workers int) *Loader {
	if workers <= 0 {
		workers = 4
	}
	return &Loader{repo: repo, workers: workers}
}

// Load upserts every transaction, honoring context cancellation.
func (l *Loader) Load(ctx context.Context, txs []generator.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	indexCh := make(chan int)
	errCh := make(chan error, len(txs))
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for idx := range indexCh {
			if err := l.repo.UpsertTransaction(ctx, txs[idx]); err != nil {
				select {
				case errCh <- err:
				case <-ctx.Done():
					return
				}
			}
		}
	}

	for i := 0; i < l.workers; i++ {
		wg.Add(1)
		go worker()
	}

Loop:
	for i := range txs {
		select {
		case indexCh <- i:
		case <-ctx.Done():
			break Loop
		}
	}
	close(indexCh)
	wg.Wait()
	close(errCh)

	var loadErr LoadError
	for err := range errCh {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		loadErr.append(err)
	}
	return loadErr.asError()
}
