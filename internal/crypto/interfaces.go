package crypto

import "github.com/MKhiriev/go-e2ee-keeper/models"

//go:generate mockgen -source=interfaces.go -destination=../mock/keychain_service_mock.go -package=mock

// KeyChainService отвечает за всю клиентскую криптографию сквозного шифрования.
// Он не знает ничего о сети, базе данных или сессии.
// Его единственная задача — выводить ключи и защищать ими данные.
//
// Схема работы:
//
//	Seed      = mnemonic.Validate(phrase)                  (Шаг 1)
//	MasterKey = MasterKeyFromSeed(seed)                    (Шаг 2)
//	KEK       = PasswordKEK(password, salt) | PasskeyKEK   (Шаг 3)
//	Wrapped   = WrapMasterKey(MasterKey, KEK, method)      (Шаг 4)
//	Blob      = Seal(MasterKey, plaintext, aad)            (Шаг 5)
type KeyChainService interface {
	// GenerateSalt генерирует случайную соль (16 байт).
	// Соль не является секретом и хранится рядом с обёрнутым ключом.
	GenerateSalt() ([]byte, error)

	// DefaultKDFParams возвращает параметры Argon2id для новых паролей.
	DefaultKDFParams() models.KDFParams

	// MasterKeyFromSeed детерминированно выводит мастер-ключ из seed
	// фразы восстановления через HKDF-SHA256.
	// Шаг 2.
	MasterKeyFromSeed(seed []byte) (*MasterKey, error)

	// PasswordKEK выводит ключ шифрования ключа из пароля через Argon2id.
	// KEK существует только в памяти и никогда не покидает клиента.
	// Шаг 3.
	PasswordKEK(password, salt []byte, params models.KDFParams) ([]byte, error)

	// PasskeyKEK выводит KEK из PRF-секрета аутентификатора через HKDF.
	// Шаг 3.
	PasskeyKEK(secret, salt []byte) ([]byte, error)

	// WrapMasterKey шифрует мастер-ключ под KEK. Имя метода входит в
	// associated data, поэтому обёртку одного метода нельзя открыть
	// как обёртку другого.
	// Шаг 4.
	WrapMasterKey(key *MasterKey, kek []byte, method models.UnlockMethod) (models.EncryptedBlob, error)

	// UnwrapMasterKey — обратная операция. Неверный KEK или испорченный
	// блоб дают ErrAuthenticationFailed.
	UnwrapMasterKey(blob models.EncryptedBlob, kek []byte, method models.UnlockMethod) (*MasterKey, error)

	// NewVerifier шифрует фиксированную строку под мастер-ключом.
	NewVerifier(key *MasterKey) (models.EncryptedBlob, error)

	// CheckVerifier проверяет, что ключ принадлежит этому аккаунту.
	CheckVerifier(key *MasterKey, verifier models.EncryptedBlob) error

	// Seal шифрует данные под мастер-ключом алгоритмом из настроек.
	// Шаг 5.
	Seal(key *MasterKey, plaintext, aad []byte) (models.EncryptedBlob, error)

	// Open расшифровывает блоб любого поддерживаемого алгоритма.
	// Любая ошибка — ErrAuthenticationFailed.
	Open(key *MasterKey, blob models.EncryptedBlob, aad []byte) ([]byte, error)
}
