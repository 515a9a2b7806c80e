package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-e2ee-keeper/models"
)

const (
	keyMaterialTable = "key_material"
	wrappedKeysTable = "wrapped_keys"
	credentialsTable = "credentials"
)

var (
	keyMaterialColumns = []string{
		"account_id",
		"verifier",
		"recovery_escrow",
		"phrase_confirmed",
		"setup_completed",
		"updated_at",
	}

	wrappedKeyColumns = []string{
		"method",
		"salt",
		"kdf_time",
		"kdf_memory_kib",
		"kdf_threads",
		"kdf_key_len",
		"credential_id",
		"blob",
		"created_at",
	}

	credentialColumns = []string{
		"id",
		"account_id",
		"provider",
		"display_name",
		"api_key",
		"base_url",
		"created_at",
		"updated_at",
	}
)

func buildSelectKeyMaterialQuery(b sq.StatementBuilderType, accountID string) (string, []any, error) {
	query, args, err := b.Select(keyMaterialColumns...).
		From(keyMaterialTable).
		Where(sq.Eq{"account_id": accountID}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildSelectWrappedKeysQuery(b sq.StatementBuilderType, accountID string) (string, []any, error) {
	query, args, err := b.Select(wrappedKeyColumns...).
		From(wrappedKeysTable).
		Where(sq.Eq{"account_id": accountID}).
		OrderBy("method").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildInsertKeyMaterialQuery(b sq.StatementBuilderType, km models.KeyMaterial) (string, []any, error) {
	query, args, err := b.Insert(keyMaterialTable).
		Columns(keyMaterialColumns...).
		Values(km.AccountID, km.Verifier, km.RecoveryEscrow, km.PhraseConfirmed, km.SetupCompleted, km.UpdatedAt).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildUpsertKeyMaterialQuery is used by the client cache, which mirrors
// whatever the server returned.
func buildUpsertKeyMaterialQuery(b sq.StatementBuilderType, km models.KeyMaterial) (string, []any, error) {
	query, args, err := b.Insert(keyMaterialTable).
		Columns(keyMaterialColumns...).
		Values(km.AccountID, km.Verifier, km.RecoveryEscrow, km.PhraseConfirmed, km.SetupCompleted, km.UpdatedAt).
		Suffix(`ON CONFLICT (account_id) DO UPDATE SET
			verifier = excluded.verifier,
			recovery_escrow = excluded.recovery_escrow,
			phrase_confirmed = excluded.phrase_confirmed,
			setup_completed = excluded.setup_completed,
			updated_at = excluded.updated_at`).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildUpdateKeyMaterialQuery updates the mutable flags. The verifier is
// fixed for the lifetime of the master key and is never rewritten.
func buildUpdateKeyMaterialQuery(b sq.StatementBuilderType, km models.KeyMaterial) (string, []any, error) {
	query, args, err := b.Update(keyMaterialTable).
		Set("recovery_escrow", km.RecoveryEscrow).
		Set("phrase_confirmed", km.PhraseConfirmed).
		Set("setup_completed", km.SetupCompleted).
		Set("updated_at", km.UpdatedAt).
		Where(sq.Eq{"account_id": km.AccountID}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildUpsertWrappedKeyQuery(b sq.StatementBuilderType, accountID string, wk models.WrappedKey) (string, []any, error) {
	var kdfTime, kdfMemory, kdfThreads, kdfKeyLen any
	if wk.KDF != nil {
		kdfTime = int64(wk.KDF.Time)
		kdfMemory = int64(wk.KDF.MemoryKiB)
		kdfThreads = int64(wk.KDF.Threads)
		kdfKeyLen = int64(wk.KDF.KeyLen)
	}

	query, args, err := b.Insert(wrappedKeysTable).
		Columns(append([]string{"account_id"}, wrappedKeyColumns...)...).
		Values(accountID, wk.Method.String(), wk.Salt, kdfTime, kdfMemory, kdfThreads, kdfKeyLen, wk.CredentialID, wk.Blob, wk.CreatedAt).
		Suffix(`ON CONFLICT (account_id, method) DO UPDATE SET
			salt = excluded.salt,
			kdf_time = excluded.kdf_time,
			kdf_memory_kib = excluded.kdf_memory_kib,
			kdf_threads = excluded.kdf_threads,
			kdf_key_len = excluded.kdf_key_len,
			credential_id = excluded.credential_id,
			blob = excluded.blob,
			created_at = excluded.created_at`).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildDeleteWrappedKeyQuery(b sq.StatementBuilderType, accountID string, method models.UnlockMethod) (string, []any, error) {
	query, args, err := b.Delete(wrappedKeysTable).
		Where(sq.Eq{"account_id": accountID, "method": method.String()}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildDeleteAllWrappedKeysQuery drops every method of an account before the
// client cache is replaced.
func buildDeleteAllWrappedKeysQuery(b sq.StatementBuilderType, accountID string) (string, []any, error) {
	query, args, err := b.Delete(wrappedKeysTable).
		Where(sq.Eq{"account_id": accountID}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildInsertCredentialQuery(b sq.StatementBuilderType, c models.Credential) (string, []any, error) {
	query, args, err := b.Insert(credentialsTable).
		Columns(credentialColumns...).
		Values(c.ID, c.AccountID, c.Provider, c.DisplayName, c.APIKey, c.BaseURL, c.CreatedAt, c.UpdatedAt).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildSelectCredentialsQuery(b sq.StatementBuilderType, accountID string, ids ...string) (string, []any, error) {
	where := sq.Eq{"account_id": accountID}
	if len(ids) > 0 {
		where["id"] = ids
	}

	query, args, err := b.Select(credentialColumns...).
		From(credentialsTable).
		Where(where).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildDeleteCredentialQuery(b sq.StatementBuilderType, accountID, id string) (string, []any, error) {
	query, args, err := b.Delete(credentialsTable).
		Where(sq.Eq{"account_id": accountID, "id": id}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}
