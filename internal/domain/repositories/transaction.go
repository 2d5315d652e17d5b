package repositories

import "context"

// TxFn is a function that runs within a transaction.
// Returning an error rolls the whole function back.
type TxFn func(ctx context.Context) error

// TransactionManager runs document mutations all-or-nothing
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}
