// Package server exposes the paste and chat HTTP API. It only ever
// handles ciphertext, channel hashes, and public keys; plaintext,
// channel names, and symmetric keys never reach it.
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"pastaa/internal/domain"
	"pastaa/internal/session"
)

// Server routes the API. Construct with New and mount as an
// http.Handler.
type Server struct {
	mux   *http.ServeMux
	store domain.PasteStore
	hub   domain.PubSub
	keys  *session.ServerKeys
	log   *logrus.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger injects the process logger.
func WithLogger(log *logrus.Logger) Option {
	return func(s *Server) { s.log = log }
}

// New wires the handler. keys is the process-lifetime Layer 2 material,
// constructed by the caller and injected here.
func New(store domain.PasteStore, hub domain.PubSub, keys *session.ServerKeys, opts ...Option) *Server {
	s := &Server{
		mux:   http.NewServeMux(),
		store: store,
		hub:   hub,
		keys:  keys,
		log:   logrus.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /api/paste", s.handleCreatePaste)
	s.mux.HandleFunc("GET /api/paste/{id}", s.handleGetPaste)
	s.mux.HandleFunc("GET /api/paste/short/{shortId}", s.handleGetPasteShort)
	s.mux.HandleFunc("DELETE /api/paste/{id}", s.handleDeletePaste)

	s.mux.HandleFunc("POST /api/chat/handshake", s.handleHandshake)
	s.mux.HandleFunc("POST /api/chat/join", s.handleJoin)
	s.mux.HandleFunc("POST /api/chat/leave", s.handleLeave)
	s.mux.HandleFunc("POST /api/chat/sync", s.handleSync)
	s.mux.HandleFunc("POST /api/chat/send", s.handleSend)
	s.mux.HandleFunc("GET /api/chat/events/{channelHash}", s.handleEvents)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.WithError(err).Warn("write response")
	}
}

// writeErr maps domain errors onto the API's deliberately flat error
// surface: not-found stays indistinguishable from expired and burned,
// and collaborator failures become a generic retry hint.
func (s *Server) writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, domain.ErrInvalidRequest):
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
	default:
		s.log.WithError(err).Error("collaborator failure")
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "temporarily unavailable, try again"})
	}
}

func decodeBody(r *http.Request, out any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		return domain.ErrInvalidRequest
	}
	return nil
}
