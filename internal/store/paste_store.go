// Package store persists encrypted paste records in badger. The store
// only ever sees ciphertext; key material never reaches it.
package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mr-tron/base58"
	"github.com/sirupsen/logrus"

	"pastaa/internal/domain"
)

const (
	pastePrefix = "paste:"
	shortPrefix = "short:"

	idBytes      = 16
	shortIDBytes = 6
)

// Config configures a PasteStore.
type Config struct {
	// Dir is the badger data directory; ignored when InMemory is set.
	Dir string
	// InMemory runs badger without touching disk (tests).
	InMemory bool
	Logger   *logrus.Logger
}

// PasteStore is a badger-backed domain.PasteStore. Expiry rides on
// badger's native entry TTL, so expired records vanish without a
// sweeper and read as plain not-found.
type PasteStore struct {
	db  *badger.DB
	log *logrus.Logger
}

// New opens the badger database.
func New(cfg Config) (*PasteStore, error) {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	opts := badger.DefaultOptions(cfg.Dir)
	if cfg.InMemory {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open paste store: %w", err)
	}
	return &PasteStore{db: db, log: cfg.Logger}, nil
}

// Close releases the database.
func (s *PasteStore) Close() error { return s.db.Close() }

// Create assigns an id and short id, stamps the expiry, and persists
// the record with a matching badger TTL.
func (s *PasteStore) Create(_ context.Context, in domain.CreatePaste) (domain.CreatedPaste, error) {
	id, err := randomHex(idBytes)
	if err != nil {
		return domain.CreatedPaste{}, err
	}
	shortID, err := randomBase58(shortIDBytes)
	if err != nil {
		return domain.CreatedPaste{}, err
	}

	rec := domain.PasteRecord{
		ID:               id,
		ShortID:          shortID,
		EncryptedContent: in.EncryptedContent,
		IV:               in.IV,
		PasswordIV:       in.PasswordIV,
		Salt:             in.Salt,
		HasPassword:      in.HasPassword,
		BurnAfterReading: in.BurnAfterReading,
		CreatedAt:        time.Now().UTC(),
	}
	var ttl time.Duration
	if in.ExpiresIn > 0 {
		ttl = time.Duration(in.ExpiresIn) * time.Second
		expiresAt := rec.CreatedAt.Add(ttl)
		rec.ExpiresAt = &expiresAt
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return domain.CreatedPaste{}, err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		main := badger.NewEntry([]byte(pastePrefix+id), data)
		short := badger.NewEntry([]byte(shortPrefix+shortID), []byte(id))
		if ttl > 0 {
			main = main.WithTTL(ttl)
			short = short.WithTTL(ttl)
		}
		if err := txn.SetEntry(main); err != nil {
			return err
		}
		return txn.SetEntry(short)
	})
	if err != nil {
		return domain.CreatedPaste{}, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}

	s.log.WithFields(logrus.Fields{
		"id":   id,
		"burn": rec.BurnAfterReading,
		"ttl":  ttl,
	}).Info("paste created")
	return domain.CreatedPaste{ID: id, ShortID: shortID}, nil
}

// Get returns the record for id. Burn-after-reading records are deleted
// inside the same transaction as the read, so a second Get reports
// ErrNotFound regardless of what the first reader's UI did.
func (s *PasteStore) Get(_ context.Context, id string) (domain.PasteRecord, error) {
	return s.consume(pastePrefix + id)
}

// GetByShortID resolves the short id and consumes like Get.
func (s *PasteStore) GetByShortID(_ context.Context, shortID string) (domain.PasteRecord, error) {
	var id string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(shortPrefix + shortID))
		if err != nil {
			return err
		}
		return item.Value(func(v []byte) error {
			id = string(v)
			return nil
		})
	})
	if err != nil {
		return domain.PasteRecord{}, mapBadgerErr(err)
	}
	return s.consume(pastePrefix + id)
}

// Delete removes a record and its short id index. Deleting a missing
// record is not an error; the burn reveal may double-fire.
func (s *PasteStore) Delete(_ context.Context, id string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		rec, err := readRecord(txn, pastePrefix+id)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		if err := txn.Delete([]byte(shortPrefix + rec.ShortID)); err != nil {
			return err
		}
		return txn.Delete([]byte(pastePrefix + id))
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *PasteStore) consume(key string) (domain.PasteRecord, error) {
	var rec domain.PasteRecord
	err := s.db.Update(func(txn *badger.Txn) error {
		r, err := readRecord(txn, key)
		if err != nil {
			return err
		}
		if r.BurnAfterReading {
			if err := txn.Delete([]byte(key)); err != nil {
				return err
			}
			if err := txn.Delete([]byte(shortPrefix + r.ShortID)); err != nil {
				return err
			}
			s.log.WithField("id", r.ID).Info("paste burned on read")
		} else {
			r.Views++
			data, err := json.Marshal(r)
			if err != nil {
				return err
			}
			entry := badger.NewEntry([]byte(key), data)
			if r.ExpiresAt != nil {
				remaining := time.Until(*r.ExpiresAt)
				if remaining <= 0 {
					return badger.ErrKeyNotFound
				}
				entry = entry.WithTTL(remaining)
			}
			if err := txn.SetEntry(entry); err != nil {
				return err
			}
		}
		rec = r
		return nil
	})
	if err != nil {
		return domain.PasteRecord{}, mapBadgerErr(err)
	}
	return rec, nil
}

func readRecord(txn *badger.Txn, key string) (domain.PasteRecord, error) {
	var rec domain.PasteRecord
	item, err := txn.Get([]byte(key))
	if err != nil {
		return rec, err
	}
	err = item.Value(func(v []byte) error {
		return json.Unmarshal(v, &rec)
	})
	return rec, err
}

// mapBadgerErr keeps missing, expired, and burned records
// indistinguishable from each other.
func mapBadgerErr(err error) error {
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func randomBase58(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base58.Encode(b), nil
}

var _ domain.PasteStore = (*PasteStore)(nil)
