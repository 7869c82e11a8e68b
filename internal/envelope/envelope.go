// Package envelope orchestrates the paste encryption scheme: a random
// primary key encrypts the plaintext, an optional password-derived key
// re-encrypts the result, and the primary key is exported for the share
// URL's fragment.
package envelope

import (
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"pastaa/internal/crypto"
	"pastaa/internal/domain"
	"pastaa/internal/util/memzero"
)

// Options control a Seal call.
type Options struct {
	// Password enables the second encryption pass when non-empty.
	Password string
	// BurnAfterReading marks the paste for deletion on first read.
	BurnAfterReading bool
	// ExpiresIn is the storage TTL; zero means no expiry.
	ExpiresIn time.Duration
}

// Sealed is the result of encrypting a paste locally. Create goes to
// the storage collaborator; FragmentKey goes only into the share URL's
// fragment and must never appear in any request.
type Sealed struct {
	Create      domain.CreatePaste
	FragmentKey string
}

// Seal encrypts plaintext under a fresh primary key and, when a
// password is given, re-encrypts the ciphertext under a password-derived
// key. This is double encryption, not key wrapping: the password layer
// treats the already-encrypted blob as opaque bytes.
func Seal(plaintext string, opts Options) (Sealed, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return Sealed{}, err
	}
	defer memzero.Zero(key)

	mainEncrypted, mainIV, err := crypto.EncryptGCM(plaintext, key)
	if err != nil {
		return Sealed{}, err
	}

	create := domain.CreatePaste{
		EncryptedContent: mainEncrypted,
		IV:               mainIV,
		BurnAfterReading: opts.BurnAfterReading,
	}
	if opts.ExpiresIn > 0 {
		create.ExpiresIn = int64(opts.ExpiresIn / time.Second)
	}

	if opts.Password != "" {
		salt, err := crypto.GenerateSalt()
		if err != nil {
			return Sealed{}, err
		}
		passwordKey := crypto.DeriveFromPassword(opts.Password, salt)
		defer memzero.Zero(passwordKey)

		finalEncrypted, passwordIV, err := crypto.EncryptGCM(mainEncrypted, passwordKey)
		if err != nil {
			return Sealed{}, err
		}
		create.EncryptedContent = finalEncrypted
		create.PasswordIV = passwordIV
		create.Salt = hex.EncodeToString(salt)
		create.HasPassword = true
	}

	return Sealed{Create: create, FragmentKey: crypto.ExportKey(key)}, nil
}

// Open reverses Seal: the password layer first (when present), then the
// primary key from the URL fragment. Every cryptographic failure at
// either stage collapses to domain.ErrDecryptionFailure so the caller
// cannot tell a wrong password from a tampered record or a wrong key.
func Open(rec domain.PasteRecord, fragmentKey, password string) (string, error) {
	if fragmentKey == "" {
		return "", fmt.Errorf("%w: missing fragment key", domain.ErrInvalidRequest)
	}
	key, err := crypto.ImportKey(fragmentKey)
	if err != nil {
		return "", err
	}
	defer memzero.Zero(key)

	mainEncrypted := rec.EncryptedContent
	if rec.HasPassword {
		salt, err := hex.DecodeString(rec.Salt)
		if err != nil || len(salt) != crypto.SaltBytes {
			return "", domain.ErrDecryptionFailure
		}
		passwordKey := crypto.DeriveFromPassword(password, salt)
		defer memzero.Zero(passwordKey)

		mainEncrypted, err = crypto.DecryptGCM(rec.EncryptedContent, rec.PasswordIV, passwordKey)
		if err != nil {
			return "", collapse(err)
		}
	}

	plaintext, err := crypto.DecryptGCM(mainEncrypted, rec.IV, key)
	if err != nil {
		return "", collapse(err)
	}
	return plaintext, nil
}

// collapse folds malformed-input errors from the inner layers into the
// single decryption failure the user may see.
func collapse(err error) error {
	if errors.Is(err, domain.ErrInvalidRequest) {
		return domain.ErrDecryptionFailure
	}
	return err
}
