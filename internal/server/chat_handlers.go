package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"pastaa/internal/domain"
)

func (s *Server) handleHandshake(w http.ResponseWriter, r *http.Request) {
	var req domain.HandshakeRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeErr(w, err)
		return
	}
	resp, err := s.keys.Handshake(req)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	var ev domain.JoinEvent
	if err := decodeBody(r, &ev); err != nil {
		s.writeErr(w, err)
		return
	}
	if !validChannelHash(ev.ChannelHash) || ev.UserID == "" || ev.PublicKey == "" {
		s.writeErr(w, domain.ErrInvalidRequest)
		return
	}
	if ev.Username == "" {
		ev.Username = "Anonymous"
	}
	s.publish(w, r, ev.ChannelHash, domain.EventMemberJoin, ev)
}

func (s *Server) handleLeave(w http.ResponseWriter, r *http.Request) {
	var ev domain.LeaveEvent
	if err := decodeBody(r, &ev); err != nil {
		s.writeErr(w, err)
		return
	}
	if !validChannelHash(ev.ChannelHash) || ev.UserID == "" {
		s.writeErr(w, domain.ErrInvalidRequest)
		return
	}
	s.publish(w, r, ev.ChannelHash, domain.EventMemberLeave, ev)
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	var ev domain.SyncEvent
	if err := decodeBody(r, &ev); err != nil {
		s.writeErr(w, err)
		return
	}
	if !validChannelHash(ev.ChannelHash) || ev.UserID == "" || ev.PublicKey == "" || ev.ReplyTo == "" {
		s.writeErr(w, domain.ErrInvalidRequest)
		return
	}
	if ev.Username == "" {
		ev.Username = "Anonymous"
	}
	s.publish(w, r, ev.ChannelHash, domain.EventMemberSync, ev)
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	var req domain.SendRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeErr(w, err)
		return
	}

	msg := req.Message
	if req.Layer2 != nil {
		// Transport-wrapped payload: unwrap with the session key derived
		// from the envelope's client public key. The content inside is
		// still Layer 3 ciphertext.
		raw, err := s.keys.Unwrap(*req.Layer2)
		if err != nil {
			s.writeErr(w, fmt.Errorf("%w: layer2 unwrap failed", domain.ErrInvalidRequest))
			return
		}
		msg = &domain.MessageEvent{}
		if err := json.Unmarshal([]byte(raw), msg); err != nil {
			s.writeErr(w, domain.ErrInvalidRequest)
			return
		}
	}
	if msg == nil || !validChannelHash(msg.ChannelHash) || msg.FromUserID == "" || msg.EncryptedContent == "" {
		s.writeErr(w, domain.ErrInvalidRequest)
		return
	}
	if msg.MessageID == "" {
		msg.MessageID = fmt.Sprintf("msg-%d", time.Now().UnixMilli())
	}
	if msg.FromUsername == "" {
		msg.FromUsername = "Anonymous"
	}
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().UnixMilli()
	}

	ev, err := domain.NewEvent(domain.EventMessage, msg)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	if err := s.hub.Publish(chatChannel(msg.ChannelHash), ev); err != nil {
		s.writeErr(w, fmt.Errorf("%w: %v", domain.ErrDeliveryUnavailable, err))
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"success": true, "messageId": msg.MessageID})
}

// handleEvents streams the channel feed as newline-delimited JSON until
// the client disconnects.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	channelHash := r.PathValue("channelHash")
	if !validChannelHash(channelHash) {
		s.writeErr(w, domain.ErrInvalidRequest)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeErr(w, fmt.Errorf("%w: streaming unsupported", domain.ErrDeliveryUnavailable))
		return
	}

	sub, err := s.hub.Subscribe(chatChannel(channelHash))
	if err != nil {
		s.writeErr(w, fmt.Errorf("%w: %v", domain.ErrDeliveryUnavailable, err))
		return
	}
	defer sub.Close()

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	enc := json.NewEncoder(w)
	for {
		select {
		case <-r.Context().Done():
			return
		case ev, open := <-sub.Events():
			if !open {
				return
			}
			if err := enc.Encode(ev); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func (s *Server) publish(w http.ResponseWriter, r *http.Request, channelHash, typ string, v any) {
	ev, err := domain.NewEvent(typ, v)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	if err := s.hub.Publish(chatChannel(channelHash), ev); err != nil {
		s.writeErr(w, fmt.Errorf("%w: %v", domain.ErrDeliveryUnavailable, err))
		return
	}
	s.log.WithFields(logrus.Fields{"channel": channelHash, "event": typ}).Info("event published")
	s.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// chatChannel prefixes the channel hash so chat traffic can never
// collide with any other hub use.
func chatChannel(channelHash string) string { return "private-chat-" + channelHash }

// validChannelHash requires a full SHA-256 hex digest: the server
// refuses to carry anything that could be a plaintext channel name.
func validChannelHash(h string) bool {
	if len(h) != 64 {
		return false
	}
	return isHex(h)
}
