package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	"pastaa/internal/domain"
)

const (
	// KeyBytes is the symmetric key size for both AEADs.
	KeyBytes = 32
	// NonceBytes is the 96-bit nonce size shared by GCM and
	// ChaCha20-Poly1305.
	NonceBytes = chacha20poly1305.NonceSize
	// SaltBytes is the per-paste password salt size.
	SaltBytes = 16
)

// EncryptGCM encrypts plaintext with AES-256-GCM under a freshly drawn
// nonce and returns hex ciphertext and nonce. Callers never supply a
// nonce.
func EncryptGCM(plaintext string, key []byte) (ciphertext, iv string, err error) {
	aead, err := newGCM(key)
	if err != nil {
		return "", "", err
	}
	return seal(aead, plaintext)
}

// DecryptGCM decrypts hex AES-256-GCM output. Any authentication
// failure is reported as domain.ErrDecryptionFailure without further
// distinction.
func DecryptGCM(ciphertext, iv string, key []byte) (string, error) {
	aead, err := newGCM(key)
	if err != nil {
		return "", err
	}
	return open(aead, ciphertext, iv)
}

// EncryptChaCha encrypts plaintext with ChaCha20-Poly1305 under a
// freshly drawn nonce and returns hex ciphertext and nonce.
func EncryptChaCha(plaintext string, key []byte) (ciphertext, nonce string, err error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return "", "", fmt.Errorf("chacha20poly1305: %w", err)
	}
	return seal(aead, plaintext)
}

// DecryptChaCha decrypts hex ChaCha20-Poly1305 output, failing closed
// with domain.ErrDecryptionFailure.
func DecryptChaCha(ciphertext, nonce string, key []byte) (string, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return "", fmt.Errorf("chacha20poly1305: %w", err)
	}
	return open(aead, ciphertext, nonce)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeyBytes {
		return nil, fmt.Errorf("aes-gcm: key must be %d bytes", KeyBytes)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes-gcm: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("aes-gcm: %w", err)
	}
	return aead, nil
}

func seal(aead cipher.AEAD, plaintext string) (ct, n string, err error) {
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", "", err
	}
	out := aead.Seal(nil, nonce, []byte(plaintext), nil)
	return hex.EncodeToString(out), hex.EncodeToString(nonce), nil
}

func open(aead cipher.AEAD, ciphertext, nonce string) (string, error) {
	ct, err := hex.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: ciphertext is not hex", domain.ErrInvalidRequest)
	}
	n, err := hex.DecodeString(nonce)
	if err != nil {
		return "", fmt.Errorf("%w: nonce is not hex", domain.ErrInvalidRequest)
	}
	if len(n) != aead.NonceSize() {
		return "", fmt.Errorf("%w: bad nonce size", domain.ErrInvalidRequest)
	}
	pt, err := aead.Open(nil, n, ct, nil)
	if err != nil {
		// Wrong key, wrong password, or tampering. Never say which.
		return "", domain.ErrDecryptionFailure
	}
	return string(pt), nil
}
