package store

import (
	"context"
	"database/sql"
	"fmt"
)

// inTx begins a transaction, runs fn and commits. Any error from fn rolls
// the transaction back and is returned unchanged.
func inTx(ctx context.Context, db *DB, fn func(tx *sql.Tx) error) error {
	log := db.logger

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "inTx").Msg("error during opening transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "inTx").Msg("error committing transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}
