package session

import (
	"crypto/ecdh"
	"crypto/ed25519"
	"encoding/hex"
	"fmt"

	"pastaa/internal/crypto"
	"pastaa/internal/domain"
)

// ServerKeys holds the server's ephemeral Layer 2 material: one P-384
// pair per process instance plus the Ed25519 pair that signs it. It is
// constructed explicitly at startup, injected into the HTTP server
// rather than package-level lazy-init, and regenerated on restart, so all
// clients of one instance share one server public key.
type ServerKeys struct {
	priv     *ecdh.PrivateKey
	signPriv ed25519.PrivateKey
	signPub  ed25519.PublicKey
}

// NewServerKeys generates fresh server-side handshake material.
func NewServerKeys() (*ServerKeys, error) {
	priv, err := crypto.GenerateP384()
	if err != nil {
		return nil, fmt.Errorf("generate server handshake keys: %w", err)
	}
	signPub, signPriv, err := crypto.GenerateEd25519()
	if err != nil {
		return nil, fmt.Errorf("generate server signing keys: %w", err)
	}
	return &ServerKeys{priv: priv, signPriv: signPriv, signPub: signPub}, nil
}

// SigningPublicKey returns the Ed25519 key clients may pin.
func (k *ServerKeys) SigningPublicKey() ed25519.PublicKey { return k.signPub }

// SigningPublicKeyHex returns the pinnable key in hex for display.
func (k *ServerKeys) SigningPublicKeyHex() string { return hex.EncodeToString(k.signPub) }

// Handshake validates the client's public key and returns the server's
// signed public key. The client key must parse as a P-384 point even
// though the server derives nothing from it here; a garbage key would
// otherwise surface later as an opaque unwrap failure.
func (k *ServerKeys) Handshake(req domain.HandshakeRequest) (domain.HandshakeResponse, error) {
	if req.ClientPublicKey == "" {
		return domain.HandshakeResponse{}, fmt.Errorf("%w: missing client public key", domain.ErrInvalidRequest)
	}
	if _, err := crypto.ParseP384Public(req.ClientPublicKey); err != nil {
		return domain.HandshakeResponse{}, err
	}
	pub := k.priv.PublicKey().Bytes()
	return domain.HandshakeResponse{
		ServerPublicKey: hex.EncodeToString(pub),
		Signature:       crypto.SignHex(k.signPriv, pub),
	}, nil
}

// Unwrap opens a Layer 2 envelope from a client, deriving the session
// key from the envelope's client public key.
func (k *ServerKeys) Unwrap(env domain.Layer2Envelope) (string, error) {
	clientPub, err := crypto.ParseP384Public(env.ClientPublicKey)
	if err != nil {
		return "", err
	}
	key, err := crypto.DeriveLayer2Key(k.priv, clientPub)
	if err != nil {
		return "", err
	}
	return crypto.DecryptGCM(env.Ciphertext, env.IV, key)
}
