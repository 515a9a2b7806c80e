// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-e2ee-keeper/internal/logger"
	"github.com/MKhiriev/go-e2ee-keeper/models"
)

// keyMaterialRepository is the SQL implementation of [KeyMaterialRepository].
// It runs unchanged against PostgreSQL (server) and SQLite (client cache).
//
// Every public method obtains a context-scoped logger via
// [logger.FromContext]. Only account ids and method names are logged, never
// blobs.
type keyMaterialRepository struct {
	*DB
}

// NewKeyMaterialRepository constructs a [KeyMaterialRepository] backed by db.
func NewKeyMaterialRepository(db *DB) KeyMaterialRepository {
	return &keyMaterialRepository{DB: db}
}

// GetKeyMaterial loads the account row together with all wrapped keys.
// Returns [ErrKeyMaterialNotFound] when the account was never set up.
func (r *keyMaterialRepository) GetKeyMaterial(ctx context.Context, accountID string) (models.KeyMaterial, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectKeyMaterialQuery(r.builder, accountID)
	if err != nil {
		return models.KeyMaterial{}, err
	}

	var km models.KeyMaterial
	row := r.DB.QueryRowContext(ctx, query, args...)
	err = row.Scan(&km.AccountID, &km.Verifier, &km.RecoveryEscrow, &km.PhraseConfirmed, &km.SetupCompleted, &km.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.KeyMaterial{}, ErrKeyMaterialNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "keyMaterialRepository.GetKeyMaterial").
			Str("account_id", accountID).
			Msg("failed to scan key material row")
		return models.KeyMaterial{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	km.Methods, err = r.getWrappedKeys(ctx, accountID)
	if err != nil {
		return models.KeyMaterial{}, err
	}

	return km, nil
}

func (r *keyMaterialRepository) getWrappedKeys(ctx context.Context, accountID string) ([]models.WrappedKey, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectWrappedKeysQuery(r.builder, accountID)
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "keyMaterialRepository.getWrappedKeys").
			Str("account_id", accountID).
			Msg("failed to execute query for wrapped keys")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	keys := make([]models.WrappedKey, 0, 2)
	for rows.Next() {
		wk, scanErr := scanWrappedKey(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "keyMaterialRepository.getWrappedKeys").
				Str("account_id", accountID).
				Msg("failed to scan wrapped key row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		keys = append(keys, wk)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "keyMaterialRepository.getWrappedKeys").
			Str("account_id", accountID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return keys, nil
}

// CreateKeyMaterial inserts a freshly set-up account with its initial
// methods in one transaction. An existing row yields [ErrKeyMaterialExists].
func (r *keyMaterialRepository) CreateKeyMaterial(ctx context.Context, km models.KeyMaterial) error {
	log := logger.FromContext(ctx)

	query, args, err := buildInsertKeyMaterialQuery(r.builder, km)
	if err != nil {
		return err
	}

	return inTx(ctx, r.DB, func(tx *sql.Tx) error {
		if _, execErr := tx.ExecContext(ctx, query, args...); execErr != nil {
			if r.errorClassificator.IsUniqueViolation(execErr) {
				return ErrKeyMaterialExists
			}
			log.Err(execErr).
				Str("func", "keyMaterialRepository.CreateKeyMaterial").
				Str("account_id", km.AccountID).
				Msg("failed to insert key material")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
		}

		return r.putWrappedKeys(ctx, tx, km.AccountID, km.Methods)
	})
}

// UpdateKeyMaterial rewrites the mutable account flags and the recovery
// escrow. Wrapped keys are managed by [SaveWrappedKey] and [DeleteWrappedKey].
func (r *keyMaterialRepository) UpdateKeyMaterial(ctx context.Context, km models.KeyMaterial) error {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateKeyMaterialQuery(r.builder, km)
	if err != nil {
		return err
	}

	var result sql.Result
	err = r.execWithRetry(ctx, func() error {
		var execErr error
		result, execErr = r.DB.ExecContext(ctx, query, args...)
		return execErr
	})
	if err != nil {
		log.Err(err).
			Str("func", "keyMaterialRepository.UpdateKeyMaterial").
			Str("account_id", km.AccountID).
			Msg("failed to update key material")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrKeyMaterialNotFound
	}

	return nil
}

// SaveKeyMaterial replaces everything stored for the account with km.
// The client uses it to mirror the server copy.
func (r *keyMaterialRepository) SaveKeyMaterial(ctx context.Context, km models.KeyMaterial) error {
	log := logger.FromContext(ctx)

	upsertQuery, upsertArgs, err := buildUpsertKeyMaterialQuery(r.builder, km)
	if err != nil {
		return err
	}
	deleteQuery, deleteArgs, err := buildDeleteAllWrappedKeysQuery(r.builder, km.AccountID)
	if err != nil {
		return err
	}

	return inTx(ctx, r.DB, func(tx *sql.Tx) error {
		if _, execErr := tx.ExecContext(ctx, upsertQuery, upsertArgs...); execErr != nil {
			log.Err(execErr).
				Str("func", "keyMaterialRepository.SaveKeyMaterial").
				Str("account_id", km.AccountID).
				Msg("failed to upsert key material")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
		}

		if _, execErr := tx.ExecContext(ctx, deleteQuery, deleteArgs...); execErr != nil {
			log.Err(execErr).
				Str("func", "keyMaterialRepository.SaveKeyMaterial").
				Str("account_id", km.AccountID).
				Msg("failed to clear wrapped keys")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
		}

		return r.putWrappedKeys(ctx, tx, km.AccountID, km.Methods)
	})
}

// SaveWrappedKey adds or replaces the wrapped key of wk.Method. The account
// must already have key material.
func (r *keyMaterialRepository) SaveWrappedKey(ctx context.Context, accountID string, wk models.WrappedKey) error {
	if _, err := r.GetKeyMaterial(ctx, accountID); err != nil {
		return err
	}

	return inTx(ctx, r.DB, func(tx *sql.Tx) error {
		return r.putWrappedKeys(ctx, tx, accountID, []models.WrappedKey{wk})
	})
}

// DeleteWrappedKey removes one unlock method. Returns [ErrWrappedKeyNotFound]
// if it was not registered.
func (r *keyMaterialRepository) DeleteWrappedKey(ctx context.Context, accountID string, method models.UnlockMethod) error {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteWrappedKeyQuery(r.builder, accountID, method)
	if err != nil {
		return err
	}

	var result sql.Result
	err = r.execWithRetry(ctx, func() error {
		var execErr error
		result, execErr = r.DB.ExecContext(ctx, query, args...)
		return execErr
	})
	if err != nil {
		log.Err(err).
			Str("func", "keyMaterialRepository.DeleteWrappedKey").
			Str("account_id", accountID).
			Str("method", method.String()).
			Msg("failed to delete wrapped key")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrWrappedKeyNotFound
	}

	return nil
}

func (r *keyMaterialRepository) putWrappedKeys(ctx context.Context, tx *sql.Tx, accountID string, keys []models.WrappedKey) error {
	log := logger.FromContext(ctx)

	for idx, wk := range keys {
		query, args, err := buildUpsertWrappedKeyQuery(r.builder, accountID, wk)
		if err != nil {
			return err
		}

		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			log.Err(err).
				Str("func", "keyMaterialRepository.putWrappedKeys").
				Str("account_id", accountID).
				Str("method", wk.Method.String()).
				Int("iteration", idx).
				Msg("failed to upsert wrapped key")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWrappedKey(row rowScanner) (models.WrappedKey, error) {
	var (
		wk                                        models.WrappedKey
		method                                    string
		kdfTime, kdfMemory, kdfThreads, kdfKeyLen sql.NullInt64
	)

	err := row.Scan(&method, &wk.Salt, &kdfTime, &kdfMemory, &kdfThreads, &kdfKeyLen, &wk.CredentialID, &wk.Blob, &wk.CreatedAt)
	if err != nil {
		return models.WrappedKey{}, err
	}

	wk.Method, err = models.ParseUnlockMethod(method)
	if err != nil {
		return models.WrappedKey{}, err
	}

	if kdfTime.Valid {
		wk.KDF = &models.KDFParams{
			Time:      uint32(kdfTime.Int64),
			MemoryKiB: uint32(kdfMemory.Int64),
			Threads:   uint8(kdfThreads.Int64),
			KeyLen:    uint32(kdfKeyLen.Int64),
		}
	}

	return wk, nil
}
