// Package vault keeps the console's connection string and query text at
// rest, encrypted with a key derived from a passphrase.
//
// The default passphrase is the installation directory. That is not a
// secret: it keeps credentials away from casual inspection of the
// preferences store and nothing more. Callers that need real confidentiality
// must supply a user secret as the passphrase.
package vault

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

var (
	// ErrCorrupt means the blob is not base64 or too short to hold a header.
	ErrCorrupt = errors.New("stored configuration is corrupt")
	// ErrAuth means the MAC did not verify: wrong passphrase or a modified blob.
	ErrAuth = errors.New("stored configuration failed authentication")
	// ErrPadding means the decrypted plaintext was not PKCS7 padded.
	ErrPadding = errors.New("stored configuration has invalid padding")
	// ErrDecode means the plaintext was not the expected JSON document.
	ErrDecode = errors.New("stored configuration is not valid JSON")
)

// DecryptError is returned for every failure to turn a stored blob back into
// a Config.
type DecryptError struct {
	Err    error
	Reason string
}

func (e *DecryptError) Error() string {
	if e.Reason == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v: %s", e.Err, e.Reason)
}

func (e *DecryptError) Unwrap() error { return e.Err }

// Config is the user-edited pair the console persists.
type Config struct {
	ConnectionString string `json:"connectionString"`
	QueryText        string `json:"queryText"`
}

// Defaults returns the configuration used on first start.
func Defaults() Config {
	return Config{
		ConnectionString: "Server=localhost; Port=3306; UserID=root; AllowUserVariables=true;",
		QueryText:        "SHOW DATABASES;",
	}
}

// Seal encrypts cfg into a base64 blob. Every call uses a fresh salt and IV.
func Seal(cfg Config, passphrase string) (string, error) {
	plain, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("encode configuration: %w", err)
	}

	blob, err := Encrypt(plain, passphrase)
	if err != nil {
		return "", fmt.Errorf("encrypt configuration: %w", err)
	}
	return base64.StdEncoding.EncodeToString(blob), nil
}

// Unseal decrypts a blob produced by Seal. Fields absent from the stored
// document keep their value from fallback. On any failure fallback is
// returned untouched together with a *DecryptError.
func Unseal(stored, passphrase string, fallback Config) (Config, error) {
	blob, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		return fallback, &DecryptError{Err: ErrCorrupt, Reason: err.Error()}
	}

	plain, err := Decrypt(blob, passphrase)
	if err != nil {
		return fallback, err
	}

	cfg := fallback
	if err := json.Unmarshal(plain, &cfg); err != nil {
		return fallback, &DecryptError{Err: ErrDecode, Reason: err.Error()}
	}
	return cfg, nil
}

// Store is the key-value collaborator the vault persists through.
type Store interface {
	GetString(key, def string) string
	SetString(key, value string) error
	Delete(key string) error
}

// Vault binds Seal and Unseal to one key of a Store.
type Vault struct {
	store      Store
	key        string
	passphrase string
	logger     logrus.FieldLogger
}

// New returns a Vault storing its blob under key.
func New(store Store, key, passphrase string, logger logrus.FieldLogger) *Vault {
	if logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		logger = l
	}
	return &Vault{
		store:      store,
		key:        key,
		passphrase: passphrase,
		logger:     logger.WithField("key", key),
	}
}

// Save seals cfg and overwrites the stored blob. The blob is returned for
// callers that want to show or export it.
func (v *Vault) Save(cfg Config) (string, error) {
	blob, err := Seal(cfg, v.passphrase)
	if err != nil {
		return "", err
	}

	if err := v.store.SetString(v.key, blob); err != nil {
		return "", fmt.Errorf("store configuration: %w", err)
	}

	v.logger.Debug("Saved configuration")
	return blob, nil
}

// Load returns the stored configuration, or Defaults when nothing is stored
// or the blob cannot be decrypted. Decryption failures are logged, never
// returned: a bad blob must not keep the console from starting.
func (v *Vault) Load() Config {
	return v.LoadOr(Defaults())
}

// LoadOr is Load with an explicit fallback.
func (v *Vault) LoadOr(fallback Config) Config {
	stored := v.store.GetString(v.key, "")
	if stored == "" {
		return fallback
	}

	cfg, err := Unseal(stored, v.passphrase, fallback)
	if err != nil {
		v.logger.WithError(err).Warn("Ignoring unreadable stored configuration")
		return fallback
	}
	return cfg
}

// Clear removes the stored blob.
func (v *Vault) Clear() error {
	if err := v.store.Delete(v.key); err != nil {
		return fmt.Errorf("delete configuration: %w", err)
	}
	return nil
}
