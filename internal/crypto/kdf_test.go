package crypto_test

import (
	"bytes"
	"encoding/hex"
	"testing"

	"pastaa/internal/crypto"
)

func TestDeriveFromPassword_Deterministic(t *testing.T) {
	salt, err := crypto.GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt: %v", err)
	}
	// Two independent parties with the same password and salt must
	// obtain bit-identical keys.
	a := crypto.DeriveFromPassword("pw1", salt)
	b := crypto.DeriveFromPassword("pw1", salt)
	if !bytes.Equal(a, b) {
		t.Fatal("same password+salt produced different keys")
	}
	if bytes.Equal(a, crypto.DeriveFromPassword("pw2", salt)) {
		t.Fatal("different passwords produced the same key")
	}
}

func TestDeriveGroupKey_Deterministic(t *testing.T) {
	a := crypto.DeriveGroupKey("room-pw-42")
	b := crypto.DeriveGroupKey("room-pw-42")
	if !bytes.Equal(a, b) {
		t.Fatal("group key derivation is not deterministic")
	}
	if bytes.Equal(crypto.DeriveGroupKey("pw1"), crypto.DeriveGroupKey("pw2")) {
		t.Fatal("different passwords produced the same group key")
	}
	if len(a) != crypto.KeyBytes {
		t.Fatalf("group key is %d bytes, want %d", len(a), crypto.KeyBytes)
	}
}

func TestHashChannelName(t *testing.T) {
	if crypto.HashChannelName("alpha") != crypto.HashChannelName("alpha") {
		t.Fatal("channel hash is not deterministic")
	}
	if crypto.HashChannelName("alpha") == crypto.HashChannelName("beta") {
		t.Fatal("distinct channels hash identically")
	}
	if got := len(crypto.HashChannelName("alpha")); got != 64 {
		t.Fatalf("channel hash length %d, want 64 hex chars", got)
	}
}

func TestDH_Symmetry(t *testing.T) {
	aPriv, aPub, err := crypto.GenerateX25519()
	if err != nil {
		t.Fatalf("GenerateX25519: %v", err)
	}
	bPriv, bPub, err := crypto.GenerateX25519()
	if err != nil {
		t.Fatalf("GenerateX25519: %v", err)
	}
	ab, err := crypto.DH(aPriv, bPub)
	if err != nil {
		t.Fatalf("DH: %v", err)
	}
	ba, err := crypto.DH(bPriv, aPub)
	if err != nil {
		t.Fatalf("DH: %v", err)
	}
	if ab != ba {
		t.Fatal("DH(aPriv,bPub) != DH(bPriv,aPub)")
	}
}

// The pairwise key requires both the ECDH secret and the channel
// password; varying either changes the key.
func TestDerivePairwiseKey(t *testing.T) {
	aPriv, aPub, _ := crypto.GenerateX25519()
	bPriv, bPub, err := crypto.GenerateX25519()
	if err != nil {
		t.Fatalf("GenerateX25519: %v", err)
	}

	ab, err := crypto.DerivePairwiseKey(aPriv, bPub, "room-pw")
	if err != nil {
		t.Fatalf("DerivePairwiseKey: %v", err)
	}
	ba, err := crypto.DerivePairwiseKey(bPriv, aPub, "room-pw")
	if err != nil {
		t.Fatalf("DerivePairwiseKey: %v", err)
	}
	if !bytes.Equal(ab, ba) {
		t.Fatal("pairwise keys disagree across the pair")
	}

	otherPw, err := crypto.DerivePairwiseKey(aPriv, bPub, "other-pw")
	if err != nil {
		t.Fatalf("DerivePairwiseKey: %v", err)
	}
	if bytes.Equal(ab, otherPw) {
		t.Fatal("password does not enter the pairwise key")
	}

	_, cPub, _ := crypto.GenerateX25519()
	otherPeer, err := crypto.DerivePairwiseKey(aPriv, cPub, "room-pw")
	if err != nil {
		t.Fatalf("DerivePairwiseKey: %v", err)
	}
	if bytes.Equal(ab, otherPeer) {
		t.Fatal("ECDH secret does not enter the pairwise key")
	}
}

// A sender deriving against its own public key gets the same key any
// peer derives against the sender's public key.
func TestDerivePairwiseKey_SelfBroadcast(t *testing.T) {
	sPriv, sPub, _ := crypto.GenerateX25519()

	self, err := crypto.DerivePairwiseKey(sPriv, sPub, "room-pw")
	if err != nil {
		t.Fatalf("DerivePairwiseKey: %v", err)
	}
	again, err := crypto.DerivePairwiseKey(sPriv, sPub, "room-pw")
	if err != nil {
		t.Fatalf("DerivePairwiseKey: %v", err)
	}
	if !bytes.Equal(self, again) {
		t.Fatal("self-derivation is not deterministic")
	}
}

func TestExportImportKey(t *testing.T) {
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	out, err := crypto.ImportKey(crypto.ExportKey(key))
	if err != nil {
		t.Fatalf("ImportKey: %v", err)
	}
	if !bytes.Equal(key, out) {
		t.Fatal("export/import did not round-trip")
	}
}

func TestImportKey_Malformed(t *testing.T) {
	for _, in := range []string{"", "@@@@", "c2hvcnQ"} {
		if _, err := crypto.ImportKey(in); err == nil {
			t.Fatalf("ImportKey(%q): want error", in)
		}
	}
}

func TestParseX25519Public(t *testing.T) {
	_, pub, err := crypto.GenerateX25519()
	if err != nil {
		t.Fatalf("GenerateX25519: %v", err)
	}
	got, err := crypto.ParseX25519Public(hex.EncodeToString(pub.Slice()))
	if err != nil {
		t.Fatalf("ParseX25519Public: %v", err)
	}
	if got != pub {
		t.Fatal("public key did not round-trip")
	}
	if _, err := crypto.ParseX25519Public("abc"); err == nil {
		t.Fatal("short key accepted")
	}
}

func TestFingerprint(t *testing.T) {
	_, pub, err := crypto.GenerateX25519()
	if err != nil {
		t.Fatalf("GenerateX25519: %v", err)
	}
	fp := crypto.Fingerprint(pub.Slice())
	if len(fp) != 20 {
		t.Fatalf("fingerprint length = %d, want 20", len(fp))
	}
	if _, err := hex.DecodeString(fp); err != nil {
		t.Fatalf("fingerprint not hex: %v", err)
	}
	if fp != crypto.Fingerprint(pub.Slice()) {
		t.Fatal("fingerprint not stable for the same key")
	}

	_, other, err := crypto.GenerateX25519()
	if err != nil {
		t.Fatalf("GenerateX25519: %v", err)
	}
	if fp == crypto.Fingerprint(other.Slice()) {
		t.Fatal("distinct keys share a fingerprint")
	}
}
