package database

import "context"

// Transactor runs fn with a context that carries an open transaction. Repositories
// pick the transaction up from the context, so every call made through that context
// joins it. Nested calls reuse the outer transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
	// WithinSnapshotTx is WithinTx with every read seeing the same point-in-time view.
	WithinSnapshotTx(ctx context.Context, fn func(ctx context.Context) error) error
}
