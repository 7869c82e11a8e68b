package app

import (
	"net/http"

	"pastaa/internal/domain"
	"pastaa/internal/keychain"
	"pastaa/internal/relay"
)

// Wire bundles the clients and stores the CLI commands use.
type Wire struct {
	Pastes   domain.PasteAPI
	Chat     domain.ChatAPI
	Keychain *keychain.Keychain
	HTTP     *http.Client
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	rc := relay.NewHTTP(cfg.ServerURL)
	rc.HTTP = httpClient

	return &Wire{
		Pastes:   rc,
		Chat:     rc,
		Keychain: keychain.New(cfg.Home),
		HTTP:     httpClient,
	}, nil
}
