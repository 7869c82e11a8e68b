// Package session implements the chat Layer 2 transport session: an
// ephemeral P-384 exchange between client and server yielding an
// AES-256-GCM key used to optionally wrap payloads in transit. Layer 2
// is defense in depth under TLS, never a hard dependency; every failure
// path degrades to pass-through.
package session

import (
	"crypto/ecdh"
	"crypto/ed25519"
	"encoding/hex"
	"fmt"

	"pastaa/internal/crypto"
	"pastaa/internal/domain"
	"pastaa/internal/util/memzero"
)

// State is the client handshake progression.
type State int

const (
	Uninitialized State = iota
	KeysGenerated
	HandshakeSent
	Established
	// Degraded means the handshake failed. The session stays usable;
	// Wrap passes through and Layer 3 plus TLS carry the traffic.
	Degraded
)

// Client is one browser-tab-equivalent Layer 2 session. Not safe for
// concurrent use; it belongs to a single chat session's event flow.
type Client struct {
	state     State
	priv      *ecdh.PrivateKey
	sharedKey []byte
	serverPub string
}

// NewClient returns a session in Uninitialized state.
func NewClient() *Client { return &Client{} }

// State reports the handshake progression.
func (c *Client) State() State { return c.state }

// Established reports whether wrapped payloads can be produced.
func (c *Client) Established() bool { return c.state == Established }

// Start generates the ephemeral key pair and returns the hex client
// public key to post to the handshake endpoint.
func (c *Client) Start() (clientPublicKey string, err error) {
	priv, err := crypto.GenerateP384()
	if err != nil {
		c.state = Degraded
		return "", fmt.Errorf("%w: %v", domain.ErrHandshakeUnavailable, err)
	}
	c.priv = priv
	c.state = KeysGenerated
	pub := crypto.EncodeP384Public(priv.PublicKey())
	c.state = HandshakeSent
	return pub, nil
}

// Complete derives the session key from the server's reply. When
// serverSigningKey is non-nil the server's signature over its ECDH key
// must verify; a pinned key turns a swapped handshake into a failure.
func (c *Client) Complete(resp domain.HandshakeResponse, serverSigningKey ed25519.PublicKey) error {
	if c.state != HandshakeSent {
		return fmt.Errorf("%w: handshake not in flight", domain.ErrHandshakeUnavailable)
	}
	if serverSigningKey != nil {
		raw, err := hex.DecodeString(resp.ServerPublicKey)
		if err != nil || !crypto.VerifyHex(serverSigningKey, raw, resp.Signature) {
			c.state = Degraded
			return fmt.Errorf("%w: server key signature rejected", domain.ErrHandshakeUnavailable)
		}
	}
	serverPub, err := crypto.ParseP384Public(resp.ServerPublicKey)
	if err != nil {
		c.state = Degraded
		return fmt.Errorf("%w: %v", domain.ErrHandshakeUnavailable, err)
	}
	key, err := crypto.DeriveLayer2Key(c.priv, serverPub)
	if err != nil {
		c.state = Degraded
		return fmt.Errorf("%w: %v", domain.ErrHandshakeUnavailable, err)
	}
	c.sharedKey = key
	c.serverPub = resp.ServerPublicKey
	c.state = Established
	return nil
}

// Fail records a handshake failure; the session continues degraded.
func (c *Client) Fail() {
	if c.state != Established {
		c.state = Degraded
	}
}

// Wrap encrypts a payload under the session key. ok is false when the
// session is not established; callers then send the payload bare.
func (c *Client) Wrap(payload string) (env domain.Layer2Envelope, ok bool) {
	if c.state != Established {
		return domain.Layer2Envelope{}, false
	}
	ct, iv, err := crypto.EncryptGCM(payload, c.sharedKey)
	if err != nil {
		return domain.Layer2Envelope{}, false
	}
	return domain.Layer2Envelope{
		ClientPublicKey: crypto.EncodeP384Public(c.priv.PublicKey()),
		Ciphertext:      ct,
		IV:              iv,
	}, true
}

// Unwrap decrypts a payload wrapped under the session key.
func (c *Client) Unwrap(ciphertext, iv string) (string, error) {
	if c.state != Established {
		return "", domain.ErrHandshakeUnavailable
	}
	return crypto.DecryptGCM(ciphertext, iv, c.sharedKey)
}

// Destroy wipes the session key. The session is unusable afterwards.
func (c *Client) Destroy() {
	memzero.Zero(c.sharedKey)
	c.sharedKey = nil
	c.priv = nil
	c.state = Uninitialized
}
