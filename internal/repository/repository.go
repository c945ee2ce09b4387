package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/adithya/forensiq-synth/internal/generator"
	"github.com/adithya/forensiq-synth/internal/graph"
)

const upsertTransactionCypher = `
MERGE (s:Account {accountId: $senderId})
MERGE (r:Account {accountId: $receiverId})
MERGE (t:Transaction {transactionId: $transactionId})
SET t.amount = $amount,
    t.timestamp = $timestamp
MERGE (s)-[:SENT]->(t)
MERGE (t)-[:RECEIVED_BY]->(r)
`

// Repository persists generated transactions into the graph so embedded
// topologies can be inspected visually.
type Repository struct {
	client graph.Client
}

// New instantiates a Repository backed by the supplied graph client.
func New(client graph.Client) *Repository {
	return &Repository{client: client}
}

// UpsertTransaction ensures both account nodes exist and links them through a
// transaction node.
func (r *Repository) UpsertTransaction(ctx context.Context, tx generator.Transaction) error {
	if tx.ID == "" {
		return errors.New("transaction id is required")
	}
	if tx.Sender == "" || tx.Receiver == "" {
		return errors.New("both sender and receiver account IDs are required")
	}

	params := map[string]any{
		"transactionId": tx.ID,
		"senderId":      tx.Sender,
		"receiverId":    tx.Receiver,
		"amount":        tx.Amount.StringFixed(2),
		"timestamp":     tx.Timestamp.UTC().Format(time.RFC3339),
	}

	if err := r.client.ExecuteWrite(ctx, upsertTransactionCypher, params); err != nil {
		return fmt.Errorf("upsert transaction %s: %w", tx.ID, err)
	}
	return nil
}
