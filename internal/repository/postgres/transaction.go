package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cinedesk/internal/domain/repositories"

	"github.com/jackc/pgx/v5"
)

// TransactionManager implements the TransactionManager interface
type TransactionManager struct {
	pool   repositories.Pool
	logger *slog.Logger
}

// NewTransactionManager creates a new transaction manager
func NewTransactionManager(pool repositories.Pool, logger *slog.Logger) repositories.TransactionManager {
	return &TransactionManager{pool: pool, logger: logger}
}

// ExecTx runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back otherwise (including on panic).
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if repositories.GetTx(ctx) != nil {
		// Already inside a transaction: join it
		return fn(ctx)
	}

	tx, err := tm.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tm.rollback(ctx, tx)
			panic(p)
		}
	}()

	if err := fn(repositories.SetTx(ctx, tx)); err != nil {
		tm.rollback(ctx, tx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func (tm *TransactionManager) rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		tm.logger.Error("rollback failed", "error", err)
	}
}
