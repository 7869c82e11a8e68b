package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/curve25519"

	"pastaa/internal/domain"
)

// GenerateKey draws a fresh 256-bit symmetric key from the CSPRNG. This
// is the paste scheme's primary key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeyBytes)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}

// ExportKey encodes a key for embedding in a URL fragment. The fragment
// never travels in HTTP requests by browser contract; that boundary is
// what the paste scheme relies on.
func ExportKey(key []byte) string {
	return base64.RawURLEncoding.EncodeToString(key)
}

// ImportKey reverses ExportKey.
func ImportKey(s string) ([]byte, error) {
	key, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed key", domain.ErrInvalidRequest)
	}
	if len(key) != KeyBytes {
		return nil, fmt.Errorf("%w: key must be %d bytes", domain.ErrInvalidRequest, KeyBytes)
	}
	return key, nil
}

// GenerateSalt draws a fresh random password salt. The salt is not
// secret and is stored alongside the ciphertext.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltBytes)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// GenerateX25519 returns a fresh Curve25519 key pair for chat Layer 3.
// The private key is clamped per RFC 7748 and never leaves the client.
func GenerateX25519() (priv domain.X25519Private, pub domain.X25519Public, err error) {
	if _, err = rand.Read(priv[:]); err != nil {
		return
	}
	clamp(&priv)
	pb, err := curve25519.X25519(priv.Slice(), curve25519.Basepoint)
	if err != nil {
		return
	}
	copy(pub[:], pb)
	return
}

// DH computes the X25519 shared secret. ECDH is symmetric:
// DH(aPriv, bPub) == DH(bPriv, aPub).
func DH(priv domain.X25519Private, pub domain.X25519Public) (out [32]byte, err error) {
	secret, err := curve25519.X25519(priv.Slice(), pub.Slice())
	if err != nil {
		return out, err
	}
	copy(out[:], secret)
	return out, nil
}

// ParseX25519Public decodes a hex public key as carried in chat events.
func ParseX25519Public(s string) (domain.X25519Public, error) {
	var pub domain.X25519Public
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != len(pub) {
		return pub, fmt.Errorf("%w: malformed public key", domain.ErrInvalidRequest)
	}
	copy(pub[:], raw)
	return pub, nil
}

// Fingerprint returns a short hex fingerprint of a public key for
// roster display.
func Fingerprint(pub []byte) string {
	sum := sha256.Sum256(pub)
	return hex.EncodeToString(sum[:10])
}

func clamp(k *domain.X25519Private) {
	k[0] &= 248
	k[31] &= 127
	k[31] |= 64
}
