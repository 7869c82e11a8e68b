// Package relay is the HTTP client for the pastaa server. It speaks the
// JSON API and maps HTTP statuses back onto domain errors, so callers
// never see transport detail.
package relay

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"pastaa/internal/domain"
)

type HTTP struct {
	Base string
	HTTP *http.Client
}

func NewHTTP(base string) *HTTP { return &HTTP{Base: base, HTTP: http.DefaultClient} }

var (
	_ domain.PasteAPI = (*HTTP)(nil)
	_ domain.ChatAPI  = (*HTTP)(nil)
)

func (c *HTTP) CreatePaste(ctx context.Context, in domain.CreatePaste) (domain.CreatedPaste, error) {
	var out domain.CreatedPaste
	if err := c.post(ctx, "/api/paste", in, &out); err != nil {
		return domain.CreatedPaste{}, err
	}
	return out, nil
}

func (c *HTTP) GetPaste(ctx context.Context, id string) (domain.PasteRecord, error) {
	var out domain.PasteRecord
	if err := c.getJSON(ctx, "/api/paste/"+url.PathEscape(id), &out); err != nil {
		return domain.PasteRecord{}, err
	}
	return out, nil
}

func (c *HTTP) GetPasteByShortID(ctx context.Context, shortID string) (domain.PasteRecord, error) {
	var out domain.PasteRecord
	if err := c.getJSON(ctx, "/api/paste/short/"+url.PathEscape(shortID), &out); err != nil {
		return domain.PasteRecord{}, err
	}
	return out, nil
}

func (c *HTTP) DeletePaste(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.Base+"/api/paste/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	defer resp.Body.Close()
	return statusErr(resp.StatusCode)
}

func (c *HTTP) Handshake(ctx context.Context, in domain.HandshakeRequest) (domain.HandshakeResponse, error) {
	var out domain.HandshakeResponse
	if err := c.post(ctx, "/api/chat/handshake", in, &out); err != nil {
		return domain.HandshakeResponse{}, err
	}
	return out, nil
}

func (c *HTTP) Join(ctx context.Context, ev domain.JoinEvent) error {
	return c.post(ctx, "/api/chat/join", ev, nil)
}

func (c *HTTP) Leave(ctx context.Context, ev domain.LeaveEvent) error {
	return c.post(ctx, "/api/chat/leave", ev, nil)
}

func (c *HTTP) Sync(ctx context.Context, ev domain.SyncEvent) error {
	return c.post(ctx, "/api/chat/sync", ev, nil)
}

func (c *HTTP) Send(ctx context.Context, req domain.SendRequest) error {
	return c.post(ctx, "/api/chat/send", req, nil)
}

// Events opens the NDJSON stream for a channel and decodes it line by
// line. The channel closes when ctx is cancelled or the server hangs up.
func (c *HTTP) Events(ctx context.Context, channelHash string) (<-chan domain.Event, error) {
	u := c.Base + "/api/chat/events/" + url.PathEscape(channelHash)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDeliveryUnavailable, err)
	}
	if err := statusErr(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}

	out := make(chan domain.Event, 16)
	go func() {
		defer close(out)
		defer resp.Body.Close()
		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
		for scanner.Scan() {
			line := scanner.Bytes()
			if len(bytes.TrimSpace(line)) == 0 {
				continue
			}
			var ev domain.Event
			if err := json.Unmarshal(line, &ev); err != nil {
				continue
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (c *HTTP) post(ctx context.Context, path string, in, out any) error {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+path, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	defer resp.Body.Close()
	if err := statusErr(resp.StatusCode); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *HTTP) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Base+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	defer resp.Body.Close()
	if err := statusErr(resp.StatusCode); err != nil {
		return err
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func statusErr(code int) error {
	switch {
	case code/100 == 2:
		return nil
	case code == http.StatusNotFound:
		return domain.ErrNotFound
	case code == http.StatusBadRequest:
		return domain.ErrInvalidRequest
	default:
		return fmt.Errorf("%w: server returned %d", domain.ErrStorageUnavailable, code)
	}
}
