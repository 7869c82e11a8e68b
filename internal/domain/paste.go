package domain

import "time"

// PasteRecord is the persisted shape of an encrypted paste. All byte
// fields are hex-encoded. The primary key never appears here; it lives
// only in the share URL's fragment.
type PasteRecord struct {
	ID               string     `json:"id"`
	ShortID          string     `json:"shortId"`
	EncryptedContent string     `json:"encryptedContent"`
	IV               string     `json:"iv"`
	PasswordIV       string     `json:"passwordIv,omitempty"`
	Salt             string     `json:"salt,omitempty"`
	HasPassword      bool       `json:"hasPassword"`
	BurnAfterReading bool       `json:"burnAfterReading"`
	Views            int        `json:"views"`
	CreatedAt        time.Time  `json:"createdAt"`
	ExpiresAt        *time.Time `json:"expiresAt,omitempty"`
}

// CreatePaste is the submission payload for a new paste. ExpiresIn is
// in seconds; zero means no expiry.
type CreatePaste struct {
	EncryptedContent string `json:"encryptedContent"`
	IV               string `json:"iv"`
	PasswordIV       string `json:"passwordIv,omitempty"`
	Salt             string `json:"salt,omitempty"`
	HasPassword      bool   `json:"hasPassword"`
	BurnAfterReading bool   `json:"burnAfterReading"`
	ExpiresIn        int64  `json:"expiresIn,omitempty"`
}

// CreatedPaste is the storage collaborator's reply to a submission.
type CreatedPaste struct {
	ID      string `json:"id"`
	ShortID string `json:"shortId"`
}
