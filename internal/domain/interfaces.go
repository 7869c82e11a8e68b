package domain

import "context"

// PasteStore persists encrypted paste records. Get and GetByShortID
// consume burn-after-reading records: the first successful read deletes
// the record in the same transaction, so a second read reports
// ErrNotFound even if no client-side reveal ever completed.
type PasteStore interface {
	Create(ctx context.Context, in CreatePaste) (CreatedPaste, error)
	Get(ctx context.Context, id string) (PasteRecord, error)
	GetByShortID(ctx context.Context, shortID string) (PasteRecord, error)
	// Delete is idempotent; deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error
	Close() error
}

// Subscription is a live feed of channel events.
type Subscription interface {
	Events() <-chan Event
	Close()
}

// PubSub is the opaque delivery collaborator for chat channels. Delivery
// is at-most-once; clients deduplicate by message id.
type PubSub interface {
	Publish(channel string, ev Event) error
	Subscribe(channel string) (Subscription, error)
}

// PasteAPI is the client view of the paste endpoints.
type PasteAPI interface {
	CreatePaste(ctx context.Context, in CreatePaste) (CreatedPaste, error)
	GetPaste(ctx context.Context, id string) (PasteRecord, error)
	GetPasteByShortID(ctx context.Context, shortID string) (PasteRecord, error)
	DeletePaste(ctx context.Context, id string) error
}

// ChatAPI is the client view of the chat endpoints. Events streams the
// channel's event feed until ctx is cancelled.
type ChatAPI interface {
	Handshake(ctx context.Context, req HandshakeRequest) (HandshakeResponse, error)
	Join(ctx context.Context, ev JoinEvent) error
	Leave(ctx context.Context, ev LeaveEvent) error
	Sync(ctx context.Context, ev SyncEvent) error
	Send(ctx context.Context, req SendRequest) error
	Events(ctx context.Context, channelHash string) (<-chan Event, error)
}
