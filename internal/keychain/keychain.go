// Package keychain stores the CLI user's chat profile on disk,
// encrypted under a passphrase-derived key. The profile carries the
// display name and the pinned server signing key so repeat sessions can
// verify the transport handshake without re-trusting on first use.
package keychain

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"pastaa/internal/crypto"
	"pastaa/internal/domain"
)

const fileName = "profile.enc"

// Profile is the decrypted keychain payload.
type Profile struct {
	Username         string `json:"username"`
	ServerSigningKey string `json:"serverSigningKey,omitempty"` // hex Ed25519 public key
}

type fileBlob struct {
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	Ciphertext string `json:"ciphertext"`
}

// Keychain persists a single Profile under home.
type Keychain struct {
	home string
}

func New(home string) *Keychain { return &Keychain{home: home} }

func (k *Keychain) path() string { return filepath.Join(k.home, fileName) }

// Exists reports whether a profile has been saved.
func (k *Keychain) Exists() bool {
	_, err := os.Stat(k.path())
	return err == nil
}

// Save encrypts and writes the profile, creating home if needed.
func (k *Keychain) Save(passphrase string, p Profile) error {
	if passphrase == "" {
		return fmt.Errorf("%w: empty passphrase", domain.ErrInvalidRequest)
	}
	plain, err := json.Marshal(p)
	if err != nil {
		return err
	}
	salt, err := crypto.GenerateSalt()
	if err != nil {
		return err
	}
	nonce, ct, err := crypto.SealSecret(passphrase, plain, salt)
	if err != nil {
		return err
	}
	blob, err := json.Marshal(fileBlob{
		Salt:       hex.EncodeToString(salt),
		Nonce:      hex.EncodeToString(nonce),
		Ciphertext: hex.EncodeToString(ct),
	})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(k.home, 0o700); err != nil {
		return err
	}
	return os.WriteFile(k.path(), blob, 0o600)
}

// Load decrypts the stored profile. A wrong passphrase and a corrupted
// file are reported identically.
func (k *Keychain) Load(passphrase string) (Profile, error) {
	raw, err := os.ReadFile(k.path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Profile{}, domain.ErrNotFound
		}
		return Profile{}, err
	}
	var blob fileBlob
	if err := json.Unmarshal(raw, &blob); err != nil {
		return Profile{}, domain.ErrDecryptionFailure
	}
	salt, err1 := hex.DecodeString(blob.Salt)
	nonce, err2 := hex.DecodeString(blob.Nonce)
	ct, err3 := hex.DecodeString(blob.Ciphertext)
	if err1 != nil || err2 != nil || err3 != nil {
		return Profile{}, domain.ErrDecryptionFailure
	}
	plain, err := crypto.OpenSecret(passphrase, salt, nonce, ct)
	if err != nil {
		return Profile{}, domain.ErrDecryptionFailure
	}
	var p Profile
	if err := json.Unmarshal(plain, &p); err != nil {
		return Profile{}, domain.ErrDecryptionFailure
	}
	return p, nil
}
