package commands

import (
	"strings"
	"testing"

	"pastaa/internal/reveal"
)

func TestParseShareURL(t *testing.T) {
	shortID, key, err := parseShareURL("https://paste.example/v/abc123#kEy_-9")
	if err != nil {
		t.Fatalf("parseShareURL: %v", err)
	}
	if shortID != "abc123" || key != "kEy_-9" {
		t.Fatalf("got %q %q", shortID, key)
	}

	shortID, key, err = parseShareURL("abc123#kEy_-9")
	if err != nil {
		t.Fatalf("bare form: %v", err)
	}
	if shortID != "abc123" || key != "kEy_-9" {
		t.Fatalf("bare form got %q %q", shortID, key)
	}

	for _, bad := range []string{
		"https://paste.example/v/abc123",        // no fragment
		"https://paste.example/x/abc123#k",      // wrong path
		"https://paste.example/v/#k",            // empty id
		"abc123",                                // no key
		"#k",                                    // no id
	} {
		if _, _, err := parseShareURL(bad); err == nil {
			t.Fatalf("parseShareURL(%q) accepted", bad)
		}
	}
}

// Completing the scratch gesture fires the completion callback exactly
// once, no matter how much extra input follows.
func TestScratchReveal_SingleCompletion(t *testing.T) {
	fired := 0
	r := reveal.New(func() { fired++ })

	if err := scratchReveal(strings.NewReader("\n\n\n\n\n\n"), r); err != nil {
		t.Fatalf("scratchReveal: %v", err)
	}
	if fired != 1 {
		t.Fatalf("completion fired %d times, want 1", fired)
	}
	if !r.Done() {
		t.Fatal("reveal not done after full scratch")
	}
}

// Input ending before the reveal completes must not fire the callback.
func TestScratchReveal_Partial(t *testing.T) {
	fired := 0
	r := reveal.New(func() { fired++ })

	if err := scratchReveal(strings.NewReader("\n"), r); err == nil {
		t.Fatal("want error on exhausted input")
	}
	if fired != 0 {
		t.Fatalf("completion fired %d times, want 0", fired)
	}
}
