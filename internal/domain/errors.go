package domain

import "errors"

var (
	// ErrDecryptionFailure covers every AEAD open failure: wrong key,
	// wrong password, or tampered ciphertext. Callers must not
	// distinguish further in user-visible messaging.
	ErrDecryptionFailure = errors.New("decryption failed")

	// ErrNotFound covers missing, expired, and burned pastes alike.
	ErrNotFound = errors.New("not found")

	// ErrInvalidRequest is returned for malformed input before any
	// cryptographic work is attempted.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrHandshakeUnavailable means the Layer 2 handshake failed or
	// timed out. Chat continues without Layer 2.
	ErrHandshakeUnavailable = errors.New("handshake unavailable")

	// ErrStorageUnavailable is a recoverable storage collaborator failure.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrDeliveryUnavailable is a recoverable pub/sub collaborator failure.
	ErrDeliveryUnavailable = errors.New("delivery unavailable")
)
