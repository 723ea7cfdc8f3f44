package repository

import (
	"context"
	"errors"
	"fmt"

	"mercator-hq/quarry/pkg/datasource"
)

// ErrNestedTransaction is returned by BeginTx on a repository that is already
// bound to a transaction.
var ErrNestedTransaction = errors.New("repository: transactions cannot be nested")

// Transaction is an open transaction together with a Repository whose calls
// run inside it.
type Transaction struct {
	repo *Repository
	tx   *datasource.Tx
}

// BeginTx starts a transaction on the repository's data source.
func (r *Repository) BeginTx(ctx context.Context, opts datasource.TxOptions) (*Transaction, error) {
	if r.inTx {
		return nil, ErrNestedTransaction
	}
	tx, err := r.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}

	repo := r.withSource(tx.Source())
	repo.inTx = true
	return &Transaction{repo: repo, tx: tx}, nil
}

// Repository returns the repository bound to the transaction.
func (t *Transaction) Repository() *Repository {
	return t.repo
}

// Commit commits the transaction.
func (t *Transaction) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction. It is a no-op after Commit.
func (t *Transaction) Rollback() error {
	return t.tx.Rollback()
}

// InTx runs fn inside a transaction. The transaction commits when fn returns
// nil and rolls back otherwise; fn's error is returned unchanged.
func (r *Repository) InTx(ctx context.Context, opts datasource.TxOptions, fn func(*Repository) error) error {
	tx, err := r.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx.Repository()); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			r.logger.Warn("Rollback failed", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
