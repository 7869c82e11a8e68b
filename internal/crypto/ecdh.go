package crypto

import (
	"crypto/ecdh"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"pastaa/internal/domain"
)

// GenerateP384 returns a fresh ephemeral P-384 key pair for the Layer 2
// transport session.
func GenerateP384() (*ecdh.PrivateKey, error) {
	return ecdh.P384().GenerateKey(rand.Reader)
}

// EncodeP384Public encodes a P-384 public key as hex for the handshake
// wire format.
func EncodeP384Public(pub *ecdh.PublicKey) string {
	return hex.EncodeToString(pub.Bytes())
}

// ParseP384Public decodes a hex P-384 public key, rejecting points not
// on the curve.
func ParseP384Public(s string) (*ecdh.PublicKey, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed public key", domain.ErrInvalidRequest)
	}
	pub, err := ecdh.P384().NewPublicKey(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: not a P-384 point", domain.ErrInvalidRequest)
	}
	return pub, nil
}

// DeriveLayer2Key computes the P-384 shared secret and takes its first
// 32 bytes as the AES-256 session key. No channel password enters this
// derivation; the server has no channel password.
func DeriveLayer2Key(priv *ecdh.PrivateKey, peerPub *ecdh.PublicKey) ([]byte, error) {
	secret, err := priv.ECDH(peerPub)
	if err != nil {
		return nil, fmt.Errorf("p384 ecdh: %w", err)
	}
	return secret[:KeyBytes], nil
}
