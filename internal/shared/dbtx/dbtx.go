package dbtx

import (
	"context"
	"database/sql"
)

// TxBinder is a repository that can rebind itself to a transaction.
type TxBinder[R any] interface {
	WithTx(tx *sql.Tx) R
}

// Run executes fn inside a transaction on db, committing when fn succeeds.
// A nil db (document store backend) runs fn directly with a nil tx and the
// unbound repository.
func Run[R TxBinder[R]](ctx context.Context, db *sql.DB, repo R, fn func(tx *sql.Tx, repo R) error) error {
	if db == nil {
		return fn(nil, repo)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx, repo.WithTx(tx)); err != nil {
		return err
	}
	return tx.Commit()
}
