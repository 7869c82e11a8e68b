package crypto

import (
	"crypto/rand"
	"errors"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"

	"pastaa/internal/util/memzero"
)

// DeriveKEK derives a key-encryption key from a passphrase and salt
// using Argon2id. Used only for local at-rest secrets (the CLI
// keychain), never for interoperable wire material.
func DeriveKEK(passphrase string, salt []byte) []byte {
	return argon2.IDKey([]byte(passphrase), salt, 1<<16, 8, 1, KeyBytes)
}

// SealSecret encrypts plaintext under a passphrase-derived KEK.
func SealSecret(passphrase string, plaintext, salt []byte) (nonce, ciphertext []byte, err error) {
	if len(salt) != SaltBytes {
		return nil, nil, errors.New("invalid salt size")
	}
	kek := DeriveKEK(passphrase, salt)
	defer memzero.Zero(kek)

	aead, err := chacha20poly1305.New(kek)
	if err != nil {
		return nil, nil, err
	}
	nonce = make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, err
	}
	return nonce, aead.Seal(nil, nonce, plaintext, nil), nil
}

// OpenSecret decrypts a SealSecret blob.
func OpenSecret(passphrase string, salt, nonce, ciphertext []byte) ([]byte, error) {
	if len(salt) != SaltBytes {
		return nil, errors.New("invalid salt size")
	}
	kek := DeriveKEK(passphrase, salt)
	defer memzero.Zero(kek)

	aead, err := chacha20poly1305.New(kek)
	if err != nil {
		return nil, err
	}
	return aead.Open(nil, nonce, ciphertext, nil)
}
