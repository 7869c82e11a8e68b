package domain

import (
	"encoding/json"
	"fmt"
)

// Event types carried over the pub/sub channel.
const (
	EventMemberJoin  = "member-join"
	EventMemberLeave = "member-leave"
	EventMemberSync  = "member-sync"
	EventMessage     = "message"
)

// Event is the envelope delivered to channel subscribers. Data holds the
// JSON of the type-specific event struct.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// NewEvent wraps v into an Event of the given type.
func NewEvent(typ string, v any) (Event, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return Event{}, fmt.Errorf("encode %s event: %w", typ, err)
	}
	return Event{Type: typ, Data: raw}, nil
}

// Decode unmarshals the event payload into out.
func (e Event) Decode(out any) error {
	if err := json.Unmarshal(e.Data, out); err != nil {
		return fmt.Errorf("decode %s event: %w", e.Type, err)
	}
	return nil
}

// JoinEvent announces a new member. PublicKey is the member's hex X25519
// public key, used for roster display and pairwise derivation.
type JoinEvent struct {
	ChannelHash string `json:"channelHash"`
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	PublicKey   string `json:"publicKey"`
}

// LeaveEvent announces a departure.
type LeaveEvent struct {
	ChannelHash string `json:"channelHash"`
	UserID      string `json:"userId"`
}

// SyncEvent is an existing member's reply to a join, addressed to the
// joiner via ReplyTo so the joiner learns the roster without an O(n^2)
// broadcast storm.
type SyncEvent struct {
	ChannelHash string `json:"channelHash"`
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	PublicKey   string `json:"publicKey"`
	ReplyTo     string `json:"replyTo"`
}

// MessageEvent is a broadcast chat message. EncryptedContent and Nonce
// are hex; the content is ChaCha20-Poly1305 under the channel group key.
type MessageEvent struct {
	ChannelHash      string `json:"channelHash"`
	MessageID        string `json:"messageId"`
	FromUserID       string `json:"fromUserId"`
	FromUsername     string `json:"fromUsername"`
	EncryptedContent string `json:"encryptedContent"`
	Nonce            string `json:"nonce"`
	SenderPublicKey  string `json:"senderPublicKey"`
	Timestamp        int64  `json:"timestamp"`
}

// Layer2Envelope optionally wraps a send payload in transit between
// client and server (defense in depth under TLS). Ciphertext and IV are
// hex AES-256-GCM output under the handshake-derived session key.
type Layer2Envelope struct {
	ClientPublicKey string `json:"clientPublicKey"`
	Ciphertext      string `json:"ciphertext"`
	IV              string `json:"iv"`
}

// SendRequest is the body of POST /api/chat/send. Either Message is set,
// or Layer2 carries the wrapped MessageEvent JSON.
type SendRequest struct {
	Message *MessageEvent   `json:"message,omitempty"`
	Layer2  *Layer2Envelope `json:"layer2,omitempty"`
}

// HandshakeRequest starts the Layer 2 key exchange. ClientPublicKey is
// the hex uncompressed P-384 point.
type HandshakeRequest struct {
	ClientPublicKey string `json:"clientPublicKey"`
}

// HandshakeResponse returns the server's ephemeral P-384 public key and
// an Ed25519 signature over it, hex-encoded.
type HandshakeResponse struct {
	ServerPublicKey string `json:"serverPublicKey"`
	Signature       string `json:"signature,omitempty"`
}

// ChatMember is one connected peer, keyed by its ephemeral session id.
type ChatMember struct {
	ID        string
	Username  string
	PublicKey X25519Public
}
