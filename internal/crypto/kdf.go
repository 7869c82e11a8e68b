package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/pbkdf2"

	"pastaa/internal/domain"
	"pastaa/internal/util/memzero"
)

// pbkdf2Iterations is fixed for interoperability: both parties must
// derive bit-identical keys from the same password and salt.
const pbkdf2Iterations = 600_000

// groupKeySuffix is the domain-separation suffix for channel group
// keys. Changing it breaks decryption for every existing channel.
const groupKeySuffix = "-pastaa-chat-key"

// pairwiseInfo labels the HKDF expansion of pairwise chat keys.
var pairwiseInfo = []byte("pastaa-pairwise-v1")

// DeriveFromPassword derives the paste password key with PBKDF2-SHA256.
// Deterministic: same password and salt always yield the same key.
func DeriveFromPassword(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, KeyBytes, sha256.New)
}

// DeriveGroupKey derives the shared channel message key from the
// channel password alone. Every member holding the password computes
// the same key independently; no key exchange round trip is needed.
func DeriveGroupKey(channelPassword string) []byte {
	sum := sha256.Sum256([]byte(channelPassword + groupKeySuffix))
	return sum[:]
}

// HashChannelName maps a channel name to the hex digest used on the
// wire. The server only ever sees this hash, never the name.
func HashChannelName(channelName string) string {
	sum := sha256.Sum256([]byte(channelName))
	return hex.EncodeToString(sum[:])
}

// DerivePairwiseKey binds an X25519 shared secret to channel membership
// by mixing it with the channel password through HKDF-SHA256. Both the
// ECDH secret and the password are required to reconstruct the key.
//
// A sender derives its own broadcast key with its own public key; ECDH
// symmetry makes that equal to what any peer derives against the
// sender's public key.
func DerivePairwiseKey(priv domain.X25519Private, pub domain.X25519Public, channelPassword string) ([]byte, error) {
	secret, err := DH(priv, pub)
	if err != nil {
		return nil, err
	}
	pwHash := sha256.Sum256([]byte(channelPassword))

	ikm := make([]byte, 0, len(secret)+len(pwHash))
	ikm = append(ikm, secret[:]...)
	ikm = append(ikm, pwHash[:]...)
	defer memzero.Zero(ikm)
	memzero.Zero(secret[:])

	key := make([]byte, KeyBytes)
	if _, err := io.ReadFull(hkdf.New(sha256.New, ikm, nil, pairwiseInfo), key); err != nil {
		return nil, err
	}
	return key, nil
}
