package server

import (
	"encoding/hex"
	"net/http"

	"pastaa/internal/domain"
)

// maxPasteBytes bounds the encrypted content field.
const maxPasteBytes = 1 << 20

func (s *Server) handleCreatePaste(w http.ResponseWriter, r *http.Request) {
	var in domain.CreatePaste
	if err := decodeBody(r, &in); err != nil {
		s.writeErr(w, err)
		return
	}
	if err := validateCreate(in); err != nil {
		s.writeErr(w, err)
		return
	}
	created, err := s.store.Create(r.Context(), in)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetPaste(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleGetPasteShort(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.GetByShortID(r.Context(), r.PathValue("shortId"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeletePaste(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// validateCreate rejects malformed submissions before any storage work.
func validateCreate(in domain.CreatePaste) error {
	if in.EncryptedContent == "" || in.IV == "" {
		return domain.ErrInvalidRequest
	}
	if len(in.EncryptedContent) > maxPasteBytes {
		return domain.ErrInvalidRequest
	}
	if !isHex(in.EncryptedContent) || !isHex(in.IV) {
		return domain.ErrInvalidRequest
	}
	if in.HasPassword {
		if !isHex(in.PasswordIV) || !isHex(in.Salt) || in.PasswordIV == "" || in.Salt == "" {
			return domain.ErrInvalidRequest
		}
	}
	if in.ExpiresIn < 0 {
		return domain.ErrInvalidRequest
	}
	return nil
}

func isHex(s string) bool {
	_, err := hex.DecodeString(s)
	return err == nil
}
