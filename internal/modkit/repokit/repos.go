// Package repokit holds the seams SQL repositories are written against
package repokit

import (
	"context"

	"addrcheck/internal/platform/store"
)

// Queryer is the read and write surface repos bind to
type Queryer = store.RowQuerier

// TxRunner runs a function inside a transaction
type TxRunner = store.TxRunner

type (
	// Rows is a result set
	Rows = store.Rows

	// Row is a single row
	Row = store.Row

	// CommandTag is the result of a write
	CommandTag = store.CommandTag
)

// WithTx runs fn inside a transaction on tx
func WithTx(ctx context.Context, tx TxRunner, fn func(q Queryer) error) error {
	return tx.Tx(ctx, fn)
}
