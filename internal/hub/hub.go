// Package hub is the in-process delivery collaborator for chat
// channels. Delivery is at-most-once: a subscriber that falls behind
// loses its oldest queued events, and clients deduplicate by message id.
package hub

import (
	"sync"

	"github.com/sirupsen/logrus"

	"pastaa/internal/domain"
)

// queueSize bounds each subscriber's backlog.
const queueSize = 256

// Hub fans events out to channel subscribers.
type Hub struct {
	mu       sync.Mutex
	channels map[string]map[*subscription]struct{}
	log      *logrus.Logger
}

// New returns an empty hub.
func New(log *logrus.Logger) *Hub {
	if log == nil {
		log = logrus.New()
	}
	return &Hub{
		channels: make(map[string]map[*subscription]struct{}),
		log:      log,
	}
}

type subscription struct {
	hub     *Hub
	channel string
	events  chan domain.Event
	once    sync.Once
}

// Events returns the subscriber's feed. The channel closes when the
// subscription does.
func (s *subscription) Events() <-chan domain.Event { return s.events }

// Close detaches the subscriber and closes its feed.
func (s *subscription) Close() {
	s.once.Do(func() {
		h := s.hub
		h.mu.Lock()
		if subs, ok := h.channels[s.channel]; ok {
			delete(subs, s)
			if len(subs) == 0 {
				delete(h.channels, s.channel)
			}
		}
		h.mu.Unlock()
		close(s.events)
	})
}

// Subscribe attaches a new subscriber to a channel.
func (h *Hub) Subscribe(channel string) (domain.Subscription, error) {
	sub := &subscription{
		hub:     h,
		channel: channel,
		events:  make(chan domain.Event, queueSize),
	}
	h.mu.Lock()
	subs, ok := h.channels[channel]
	if !ok {
		subs = make(map[*subscription]struct{})
		h.channels[channel] = subs
	}
	subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub, nil
}

// Publish delivers ev to every current subscriber of the channel
// without blocking: a full queue drops its oldest event to make room.
func (h *Hub) Publish(channel string, ev domain.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.channels[channel] {
		select {
		case sub.events <- ev:
		default:
			select {
			case <-sub.events:
				h.log.WithField("channel", channel).Warn("subscriber backlog full, dropping oldest event")
			default:
			}
			select {
			case sub.events <- ev:
			default:
			}
		}
	}
	return nil
}

// Subscribers reports the current subscriber count for a channel.
func (h *Hub) Subscribers(channel string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.channels[channel])
}

var _ domain.PubSub = (*Hub)(nil)
