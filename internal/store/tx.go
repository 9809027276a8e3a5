package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/simonvc/lbcoa/internal/logger"
)

var tracer = otel.Tracer("lbcoa/store")

type txKey struct{}

// querier is the subset of *sql.DB and *sql.Tx the repository methods use.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// RunInTransaction executes fn inside a write transaction carried in the context.
// Nested calls reuse the transaction already in ctx. An error from fn rolls back.
func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, span := tracer.Start(ctx, "transaction")
	defer span.End()

	if txFrom(ctx) != nil {
		span.SetAttributes(attribute.Bool("tx.nested", true))
		return fn(ctx)
	}

	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.FromContext(ctx).Errorw("rollback failed", "error", rbErr, "original_error", err)
		}
		span.RecordError(err)
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Savepoint runs fn inside a savepoint of the transaction carried by ctx, so a failure
// undoes only fn's writes and leaves the enclosing transaction usable. Without an open
// transaction it behaves like RunInTransaction.
func (s *Store) Savepoint(ctx context.Context, fn func(ctx context.Context) error) error {
	tx := txFrom(ctx)
	if tx == nil {
		return s.RunInTransaction(ctx, fn)
	}

	name := fmt.Sprintf("sp_%d", savepointSeq.Add(1))
	if _, err := tx.ExecContext(ctx, "SAVEPOINT "+name); err != nil {
		return fmt.Errorf("create savepoint: %w", err)
	}
	if err := fn(ctx); err != nil {
		if _, rbErr := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+name); rbErr != nil {
			logger.FromContext(ctx).Errorw("rollback to savepoint failed", "savepoint", name, "error", rbErr)
		}
		if _, relErr := tx.ExecContext(ctx, "RELEASE SAVEPOINT "+name); relErr != nil {
			logger.FromContext(ctx).Errorw("release savepoint failed", "savepoint", name, "error", relErr)
		}
		return err
	}
	if _, err := tx.ExecContext(ctx, "RELEASE SAVEPOINT "+name); err != nil {
		return fmt.Errorf("release savepoint: %w", err)
	}
	return nil
}

var savepointSeq atomic.Uint64

// InTransaction reports whether ctx carries an open transaction.
func InTransaction(ctx context.Context) bool {
	return txFrom(ctx) != nil
}

func txFrom(ctx context.Context) *sql.Tx {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return nil
}

// reads returns the open transaction or the reader pool. Reads inside a transaction
// must see its uncommitted writes and must not wait on the single writer connection.
func (s *Store) reads(ctx context.Context) querier {
	if tx := txFrom(ctx); tx != nil {
		return tx
	}
	return s.reader
}

func (s *Store) writes(ctx context.Context) querier {
	if tx := txFrom(ctx); tx != nil {
		return tx
	}
	return s.writer
}

// spanFor starts a child span tagged with the company being provisioned.
func spanFor(ctx context.Context, name, company string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attribute.String("company", company)))
}
