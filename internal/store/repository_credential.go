package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MKhiriev/go-e2ee-keeper/internal/logger"
	"github.com/MKhiriev/go-e2ee-keeper/models"
)

// credentialRepository stores encrypted provider API keys in the client's
// local database.
type credentialRepository struct {
	*DB
}

func NewCredentialRepository(db *DB) CredentialRepository {
	return &credentialRepository{DB: db}
}

func (r *credentialRepository) SaveCredential(ctx context.Context, c models.Credential) error {
	log := logger.FromContext(ctx)

	query, args, err := buildInsertCredentialQuery(r.builder, c)
	if err != nil {
		return err
	}

	err = r.execWithRetry(ctx, func() error {
		_, execErr := r.DB.ExecContext(ctx, query, args...)
		return execErr
	})
	if err != nil {
		log.Err(err).
			Str("func", "credentialRepository.SaveCredential").
			Str("account_id", c.AccountID).
			Str("id", c.ID).
			Msg("failed to insert credential")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (r *credentialRepository) GetCredential(ctx context.Context, accountID, id string) (models.Credential, error) {
	found, err := r.listCredentials(ctx, accountID, id)
	if err != nil {
		return models.Credential{}, err
	}
	if len(found) == 0 {
		return models.Credential{}, ErrCredentialNotFound
	}
	return found[0], nil
}

func (r *credentialRepository) ListCredentials(ctx context.Context, accountID string) ([]models.Credential, error) {
	return r.listCredentials(ctx, accountID)
}

func (r *credentialRepository) listCredentials(ctx context.Context, accountID string, ids ...string) ([]models.Credential, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectCredentialsQuery(r.builder, accountID, ids...)
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "credentialRepository.listCredentials").
			Str("account_id", accountID).
			Msg("failed to execute query for credentials")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	results := make([]models.Credential, 0, 8)
	for rows.Next() {
		var (
			c       models.Credential
			baseURL sql.NullString
		)

		scanErr := rows.Scan(&c.ID, &c.AccountID, &c.Provider, &c.DisplayName, &c.APIKey, &baseURL, &c.CreatedAt, &c.UpdatedAt)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "credentialRepository.listCredentials").
				Str("account_id", accountID).
				Msg("failed to scan credential row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		if baseURL.Valid {
			c.BaseURL = &baseURL.String
		}

		results = append(results, c)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "credentialRepository.listCredentials").
			Str("account_id", accountID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return results, nil
}

func (r *credentialRepository) DeleteCredential(ctx context.Context, accountID, id string) error {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteCredentialQuery(r.builder, accountID, id)
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
			Str("func", "credentialRepository.DeleteCredential").
			Str("account_id", accountID).
			Str("id", id).
			Msg("failed to delete credential")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrCredentialNotFound
	}

	return nil
}
