package envelope_test

import (
	"errors"
	"testing"
	"time"

	"pastaa/internal/domain"
	"pastaa/internal/envelope"
)

// record builds the PasteRecord the storage collaborator would return
// for a sealed paste.
func record(s envelope.Sealed) domain.PasteRecord {
	return domain.PasteRecord{
		ID:               "p1",
		ShortID:          "s1",
		EncryptedContent: s.Create.EncryptedContent,
		IV:               s.Create.IV,
		PasswordIV:       s.Create.PasswordIV,
		Salt:             s.Create.Salt,
		HasPassword:      s.Create.HasPassword,
		BurnAfterReading: s.Create.BurnAfterReading,
	}
}

func TestSealOpen_NoPassword(t *testing.T) {
	sealed, err := envelope.Seal("hello world", envelope.Options{})
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if sealed.Create.HasPassword || sealed.Create.Salt != "" || sealed.Create.PasswordIV != "" {
		t.Fatal("password fields set without a password")
	}

	pt, err := envelope.Open(record(sealed), sealed.FragmentKey, "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if pt != "hello world" {
		t.Fatalf("got %q, want %q", pt, "hello world")
	}
}

// Any other freshly generated key must fail, not yield garbage.
func TestOpen_WrongKey(t *testing.T) {
	sealed, err := envelope.Seal("hello world", envelope.Options{})
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	other, err := envelope.Seal("decoy", envelope.Options{})
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if _, err := envelope.Open(record(sealed), other.FragmentKey, ""); !errors.Is(err, domain.ErrDecryptionFailure) {
		t.Fatalf("want ErrDecryptionFailure, got %v", err)
	}
}

func TestSealOpen_Password(t *testing.T) {
	sealed, err := envelope.Seal("secret", envelope.Options{Password: "pw1"})
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if !sealed.Create.HasPassword || sealed.Create.Salt == "" || sealed.Create.PasswordIV == "" {
		t.Fatal("password fields missing")
	}

	pt, err := envelope.Open(record(sealed), sealed.FragmentKey, "pw1")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if pt != "secret" {
		t.Fatalf("got %q, want %q", pt, "secret")
	}
}

// A wrong password must fail at the outer layer, never silently
// producing plausible-looking plaintext.
func TestOpen_WrongPassword(t *testing.T) {
	sealed, err := envelope.Seal("secret", envelope.Options{Password: "pw1"})
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if _, err := envelope.Open(record(sealed), sealed.FragmentKey, "pw2"); !errors.Is(err, domain.ErrDecryptionFailure) {
		t.Fatalf("want ErrDecryptionFailure, got %v", err)
	}
}

// Wrong password and tampered record are indistinguishable to the
// caller.
func TestOpen_FailureIndistinguishable(t *testing.T) {
	sealed, err := envelope.Seal("secret", envelope.Options{Password: "pw1"})
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}

	wrongPw := func() error {
		_, err := envelope.Open(record(sealed), sealed.FragmentKey, "pw2")
		return err
	}()
	tampered := func() error {
		rec := record(sealed)
		rec.EncryptedContent = rec.EncryptedContent[:len(rec.EncryptedContent)-2] + "00"
		_, err := envelope.Open(rec, sealed.FragmentKey, "pw1")
		return err
	}()
	if !errors.Is(wrongPw, domain.ErrDecryptionFailure) || !errors.Is(tampered, domain.ErrDecryptionFailure) {
		t.Fatalf("want ErrDecryptionFailure for both, got %v and %v", wrongPw, tampered)
	}
	if wrongPw.Error() != tampered.Error() {
		t.Fatalf("failure modes distinguishable: %q vs %q", wrongPw, tampered)
	}
}

func TestOpen_MissingFragmentKey(t *testing.T) {
	sealed, err := envelope.Seal("x", envelope.Options{})
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if _, err := envelope.Open(record(sealed), "", ""); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("want ErrInvalidRequest, got %v", err)
	}
}

func TestSeal_ExpirySeconds(t *testing.T) {
	sealed, err := envelope.Seal("x", envelope.Options{ExpiresIn: 2 * time.Hour})
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if sealed.Create.ExpiresIn != 7200 {
		t.Fatalf("ExpiresIn = %d, want 7200", sealed.Create.ExpiresIn)
	}
}
