package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
)

// GenerateEd25519 returns a new signing key pair. The server signs its
// Layer 2 handshake key with it so clients holding a pinned signing key
// can reject a substituted ECDH key.
func GenerateEd25519() (ed25519.PublicKey, ed25519.PrivateKey, error) {
	return ed25519.GenerateKey(rand.Reader)
}

// SignHex signs msg and returns the hex signature.
func SignHex(priv ed25519.PrivateKey, msg []byte) string {
	return hex.EncodeToString(ed25519.Sign(priv, msg))
}

// VerifyHex verifies a hex signature over msg.
func VerifyHex(pub ed25519.PublicKey, msg []byte, sigHex string) bool {
	sig, err := hex.DecodeString(sigHex)
	if err != nil {
		return false
	}
	return ed25519.Verify(pub, msg, sig)
}
