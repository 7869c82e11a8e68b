package crypto_test

import (
	"bytes"
	"testing"

	"pastaa/internal/crypto"
)

func TestSealOpenSecret(t *testing.T) {
	salt, err := crypto.GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt: %v", err)
	}
	nonce, ct, err := crypto.SealSecret("correct horse", []byte("pinned key material"), salt)
	if err != nil {
		t.Fatalf("SealSecret: %v", err)
	}
	pt, err := crypto.OpenSecret("correct horse", salt, nonce, ct)
	if err != nil {
		t.Fatalf("OpenSecret: %v", err)
	}
	if !bytes.Equal(pt, []byte("pinned key material")) {
		t.Fatalf("got %q", pt)
	}
	if _, err := crypto.OpenSecret("wrong", salt, nonce, ct); err == nil {
		t.Fatal("wrong passphrase accepted")
	}
}
