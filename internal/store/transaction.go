package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	"github.com/adboard/adboard-api/internal/platform/logger"
)

// TxFn is a function that executes within a database transaction.
// The transaction is committed if the function returns nil, or rolled back if it returns an error.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// HookFn is a side effect bound to the outcome of a transaction.
type HookFn func(ctx context.Context) error

// txHooks collects side effects registered by stores while a TxFn runs.
// Object bucket writes are not covered by the database transaction, so the
// image store uses these to undo uploads on rollback and to delay object
// deletion until the rows referencing them are gone for good.
type txHooks struct {
	mu         sync.Mutex
	onCommit   []HookFn
	onRollback []HookFn
}

type txHooksKey struct{}

func hooksFromContext(ctx context.Context) *txHooks {
	h, _ := ctx.Value(txHooksKey{}).(*txHooks)
	return h
}

// OnCommit registers fn to run after the enclosing RunInTransaction commits.
// Outside a transaction fn runs immediately and its error is returned.
func OnCommit(ctx context.Context, fn HookFn) error {
	h := hooksFromContext(ctx)
	if h == nil {
		return fn(ctx)
	}

	h.mu.Lock()
	h.onCommit = append(h.onCommit, fn)
	h.mu.Unlock()
	return nil
}

// OnRollback registers fn to run if the enclosing RunInTransaction rolls
// back, fails to commit, or panics. Outside a transaction it is a no-op.
func OnRollback(ctx context.Context, fn HookFn) {
	h := hooksFromContext(ctx)
	if h == nil {
		return
	}

	h.mu.Lock()
	h.onRollback = append(h.onRollback, fn)
	h.mu.Unlock()
}

// run executes hooks in registration order. Failures are logged and do not
// stop later hooks; the transaction outcome is already final.
func (h *txHooks) run(ctx context.Context, log *slog.Logger, phase string, hooks []HookFn) {
	for i, fn := range hooks {
		if err := fn(ctx); err != nil {
			log.Error("transaction hook failed",
				slog.String("phase", phase),
				slog.Int("hook", i),
				slog.String("error", err.Error()))
		}
	}
}

func (h *txHooks) committed(ctx context.Context, log *slog.Logger) {
	h.mu.Lock()
	hooks := h.onCommit
	h.mu.Unlock()
	h.run(ctx, log, "commit", hooks)
}

func (h *txHooks) rolledBack(ctx context.Context, log *slog.Logger) {
	h.mu.Lock()
	hooks := h.onRollback
	h.mu.Unlock()
	h.run(ctx, log, "rollback", hooks)
}

// RunInTransaction executes the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// Otherwise, the transaction is committed.
// The function handles rollbacks in case of panic and logs appropriate information.
//
// Hooks registered through OnCommit and OnRollback with the context passed
// to fn run after the outcome is known, using a context that is not
// cancelled with the request so cleanup still happens on client disconnect.
func RunInTransaction(ctx context.Context, db *sql.DB, fn TxFn) error {
	log := logger.FromContext(ctx)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction",
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: failed to begin transaction: %w", ErrTransactionFailed, err)
	}

	hooks := &txHooks{}
	txCtx := context.WithValue(ctx, txHooksKey{}, hooks)
	cleanupCtx := context.WithoutCancel(ctx)

	defer func() {
		if p := recover(); p != nil {
			txErr := tx.Rollback()
			if txErr != nil {
				log.Error("failed to roll back transaction after panic",
					slog.String("error", txErr.Error()),
					slog.Any("panic", p))
			} else {
				log.Error("rolled back transaction after panic",
					slog.Any("panic", p))
			}
			hooks.rolledBack(cleanupCtx, log)
			// ALLOW-PANIC: Propagating caught panic from transaction
			panic(p)
		}
	}()

	err = fn(txCtx, tx)
	if err != nil {
		rollbackErr := tx.Rollback()
		hooks.rolledBack(cleanupCtx, log)
		if rollbackErr != nil {
			log.Error("failed to roll back transaction",
				slog.String("rollback_error", rollbackErr.Error()),
				slog.String("original_error", err.Error()))
			return fmt.Errorf(
				"error rolling back transaction: %v (original error: %w)",
				rollbackErr,
				err,
			)
		}
		log.Debug("rolled back transaction due to error",
			slog.String("error", err.Error()))
		return err
	}

	if err = tx.Commit(); err != nil {
		log.Error("failed to commit transaction",
			slog.String("error", err.Error()))
		hooks.rolledBack(cleanupCtx, log)
		return fmt.Errorf("%w: failed to commit transaction: %w", ErrTransactionFailed, err)
	}

	log.Debug("transaction committed successfully")
	hooks.committed(cleanupCtx, log)
	return nil
}
