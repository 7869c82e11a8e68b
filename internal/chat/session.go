// Package chat implements the Layer 3 group end-to-end scheme: every
// member derives one shared message key from the channel password, so
// no key exchange round trip is needed for decryption. Member key pairs
// exist for roster display and pairwise derivation; private keys never
// leave the client.
package chat

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sort"
	"sync"
	"time"

	"pastaa/internal/crypto"
	"pastaa/internal/domain"
	"pastaa/internal/session"
	"pastaa/internal/util/memzero"
)

// seenLimit bounds the per-session duplicate-suppression set.
const seenLimit = 4096

// Message is a decrypted incoming or locally sent chat message.
type Message struct {
	ID           string
	FromUserID   string
	FromUsername string
	Text         string
	Timestamp    time.Time
	// Own marks the local echo of a message this session sent.
	Own bool
}

// Session owns everything scoped to one joined channel: the member key
// pair, the group key, the roster, and the seen-id set. One goroutine
// may deliver events through Handle while another calls Send; the
// session is destroyed entirely on Leave.
type Session struct {
	api domain.ChatAPI

	channelHash string
	userID      string
	username    string
	pub         domain.X25519Public

	// mu guards the mutable state below against the event goroutine
	// and the sending caller running at once.
	mu       sync.Mutex
	groupKey []byte
	priv     domain.X25519Private
	members  map[string]domain.ChatMember
	seen     *seenSet

	// layer2 optionally wraps outgoing payloads; nil or unestablished
	// sessions send bare.
	layer2 *session.Client
}

// NewSession derives the channel hash and group key and generates the
// member key pair. The channel name and password never leave this
// process; only the hash travels.
func NewSession(api domain.ChatAPI, channelName, channelPassword, username string) (*Session, error) {
	if channelName == "" || channelPassword == "" {
		return nil, fmt.Errorf("%w: channel name and password required", domain.ErrInvalidRequest)
	}
	priv, pub, err := crypto.GenerateX25519()
	if err != nil {
		return nil, err
	}
	userID, err := randomID()
	if err != nil {
		return nil, err
	}
	if username == "" {
		username = "Anonymous"
	}
	return &Session{
		api:         api,
		channelHash: crypto.HashChannelName(channelName),
		groupKey:    crypto.DeriveGroupKey(channelPassword),
		userID:      userID,
		username:    username,
		priv:        priv,
		pub:         pub,
		members:     make(map[string]domain.ChatMember),
		seen:        newSeenSet(seenLimit),
	}, nil
}

// ChannelHash is the only channel identifier the server ever sees.
func (s *Session) ChannelHash() string { return s.channelHash }

// UserID is this session's ephemeral id.
func (s *Session) UserID() string { return s.userID }

// EstablishLayer2 attempts the transport handshake. Failure is
// recoverable: the session continues with Layer 3 and TLS only, and the
// returned error wraps domain.ErrHandshakeUnavailable for logging.
func (s *Session) EstablishLayer2(ctx context.Context, serverSigningKey []byte) error {
	client := session.NewClient()
	clientPub, err := client.Start()
	if err != nil {
		return err
	}
	resp, err := s.api.Handshake(ctx, domain.HandshakeRequest{ClientPublicKey: clientPub})
	if err != nil {
		client.Fail()
		return fmt.Errorf("%w: %v", domain.ErrHandshakeUnavailable, err)
	}
	var pin []byte
	if len(serverSigningKey) > 0 {
		pin = serverSigningKey
	}
	if err := client.Complete(resp, pin); err != nil {
		return err
	}
	s.mu.Lock()
	s.layer2 = client
	s.mu.Unlock()
	return nil
}

// Layer2Established reports whether outgoing payloads are wrapped.
func (s *Session) Layer2Established() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layer2 != nil && s.layer2.Established()
}

// Join announces this member to the channel.
func (s *Session) Join(ctx context.Context) error {
	return s.api.Join(ctx, domain.JoinEvent{
		ChannelHash: s.channelHash,
		UserID:      s.userID,
		Username:    s.username,
		PublicKey:   hex.EncodeToString(s.pub.Slice()),
	})
}

// Leave announces departure and destroys all session state. The roster
// and keys do not outlive the channel membership.
func (s *Session) Leave(ctx context.Context) error {
	err := s.api.Leave(ctx, domain.LeaveEvent{
		ChannelHash: s.channelHash,
		UserID:      s.userID,
	})
	s.mu.Lock()
	defer s.mu.Unlock()
	memzero.Zero(s.groupKey)
	memzero.Zero(s.priv[:])
	s.members = make(map[string]domain.ChatMember)
	if s.layer2 != nil {
		s.layer2.Destroy()
		s.layer2 = nil
	}
	return err
}

// Send encrypts text under the group key and broadcasts it. The message
// id is client-generated and recorded as seen before the round trip, so
// the broadcast echo is discarded; the returned Message is the local
// append.
func (s *Session) Send(ctx context.Context, text string) (Message, error) {
	id, err := randomID()
	if err != nil {
		return Message{}, err
	}

	s.mu.Lock()
	ct, nonce, err := crypto.EncryptChaCha(text, s.groupKey)
	if err != nil {
		s.mu.Unlock()
		return Message{}, err
	}
	now := time.Now()
	ev := domain.MessageEvent{
		ChannelHash:      s.channelHash,
		MessageID:        id,
		FromUserID:       s.userID,
		FromUsername:     s.username,
		EncryptedContent: ct,
		Nonce:            nonce,
		SenderPublicKey:  hex.EncodeToString(s.pub.Slice()),
		Timestamp:        now.UnixMilli(),
	}
	s.seen.Add(id)

	req := domain.SendRequest{Message: &ev}
	if s.layer2 != nil && s.layer2.Established() {
		raw, err := marshalMessage(ev)
		if err != nil {
			s.mu.Unlock()
			return Message{}, err
		}
		if env, ok := s.layer2.Wrap(raw); ok {
			req = domain.SendRequest{Layer2: &env}
		}
	}
	s.mu.Unlock()

	if err := s.api.Send(ctx, req); err != nil {
		return Message{}, fmt.Errorf("%w: %v", domain.ErrDeliveryUnavailable, err)
	}
	return Message{
		ID:           id,
		FromUserID:   s.userID,
		FromUsername: s.username,
		Text:         text,
		Timestamp:    now,
		Own:          true,
	}, nil
}

// Handle dispatches one delivered event. It returns a non-nil Message
// for a decrypted chat message; roster events return (nil, nil).
// Handlers are idempotent under re-delivery and ignore self-originated
// events.
func (s *Session) Handle(ctx context.Context, ev domain.Event) (*Message, error) {
	switch ev.Type {
	case domain.EventMemberJoin:
		var join domain.JoinEvent
		if err := ev.Decode(&join); err != nil {
			return nil, err
		}
		return nil, s.handleJoin(ctx, join)
	case domain.EventMemberSync:
		var sync domain.SyncEvent
		if err := ev.Decode(&sync); err != nil {
			return nil, err
		}
		s.handleSync(sync)
		return nil, nil
	case domain.EventMemberLeave:
		var leave domain.LeaveEvent
		if err := ev.Decode(&leave); err != nil {
			return nil, err
		}
		s.mu.Lock()
		delete(s.members, leave.UserID)
		s.mu.Unlock()
		return nil, nil
	case domain.EventMessage:
		var msg domain.MessageEvent
		if err := ev.Decode(&msg); err != nil {
			return nil, err
		}
		return s.handleMessage(msg)
	default:
		// Unknown event types are ignored, not errors; the channel may
		// outlive this client version.
		return nil, nil
	}
}

func (s *Session) handleJoin(ctx context.Context, join domain.JoinEvent) error {
	if join.UserID == s.userID {
		return nil
	}
	s.addMember(join.UserID, join.Username, join.PublicKey)
	// Reply addressed to the joiner so it learns the roster without a
	// broadcast storm.
	return s.api.Sync(ctx, domain.SyncEvent{
		ChannelHash: s.channelHash,
		UserID:      s.userID,
		Username:    s.username,
		PublicKey:   hex.EncodeToString(s.pub.Slice()),
		ReplyTo:     join.UserID,
	})
}

func (s *Session) handleSync(sync domain.SyncEvent) {
	if sync.UserID == s.userID || sync.ReplyTo != s.userID {
		return
	}
	s.addMember(sync.UserID, sync.Username, sync.PublicKey)
}

func (s *Session) handleMessage(msg domain.MessageEvent) (*Message, error) {
	if msg.FromUserID == s.userID {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen.Add(msg.MessageID) {
		return nil, nil
	}
	text, err := crypto.DecryptChaCha(msg.EncryptedContent, msg.Nonce, s.groupKey)
	if err != nil {
		// Wrong channel password or tampering; the caller renders a
		// placeholder but the roster and stream continue.
		return nil, domain.ErrDecryptionFailure
	}
	return &Message{
		ID:           msg.MessageID,
		FromUserID:   msg.FromUserID,
		FromUsername: msg.FromUsername,
		Text:         text,
		Timestamp:    time.UnixMilli(msg.Timestamp),
	}, nil
}

func (s *Session) addMember(id, username, publicKey string) {
	pub, err := crypto.ParseX25519Public(publicKey)
	if err != nil {
		// A member with a malformed key still appears in the roster;
		// group-key mode never needs the key to decrypt.
		pub = domain.X25519Public{}
	}
	if username == "" {
		username = "Anonymous"
	}
	// Duplicate joins overwrite in place rather than duplicating.
	s.mu.Lock()
	s.members[id] = domain.ChatMember{ID: id, Username: username, PublicKey: pub}
	s.mu.Unlock()
}

// Members returns the roster sorted by username for display.
func (s *Session) Members() []domain.ChatMember {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ChatMember, 0, len(s.members))
	for _, m := range s.members {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Username != out[j].Username {
			return out[i].Username < out[j].Username
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// PairwiseKey derives the password-bound pairwise key against a roster
// member. Not on the message path in group-key mode; exposed for key
// verification between peers.
func (s *Session) PairwiseKey(peer domain.ChatMember, channelPassword string) ([]byte, error) {
	s.mu.Lock()
	priv := s.priv
	s.mu.Unlock()
	return crypto.DerivePairwiseKey(priv, peer.PublicKey, channelPassword)
}

func randomID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func marshalMessage(ev domain.MessageEvent) (string, error) {
	raw, err := domain.NewEvent(domain.EventMessage, ev)
	if err != nil {
		return "", err
	}
	return string(raw.Data), nil
}
