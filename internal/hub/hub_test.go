package hub_test

import (
	"fmt"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pastaa/internal/domain"
	"pastaa/internal/hub"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func event(t *testing.T, id string) domain.Event {
	t.Helper()
	ev, err := domain.NewEvent(domain.EventMessage, domain.MessageEvent{MessageID: id})
	require.NoError(t, err)
	return ev
}

func TestPublishSubscribe(t *testing.T) {
	h := hub.New(quietLogger())

	sub, err := h.Subscribe("chan-a")
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, h.Publish("chan-a", event(t, "m1")))
	require.NoError(t, h.Publish("chan-b", event(t, "m2")))

	got := <-sub.Events()
	var msg domain.MessageEvent
	require.NoError(t, got.Decode(&msg))
	assert.Equal(t, "m1", msg.MessageID)

	select {
	case ev := <-sub.Events():
		t.Fatalf("received event from another channel: %+v", ev)
	default:
	}
}

func TestFanOut(t *testing.T) {
	h := hub.New(quietLogger())

	a, _ := h.Subscribe("c")
	b, _ := h.Subscribe("c")
	defer a.Close()
	defer b.Close()
	assert.Equal(t, 2, h.Subscribers("c"))

	require.NoError(t, h.Publish("c", event(t, "m1")))
	for _, sub := range []domain.Subscription{a, b} {
		ev := <-sub.Events()
		var msg domain.MessageEvent
		require.NoError(t, ev.Decode(&msg))
		assert.Equal(t, "m1", msg.MessageID)
	}
}

// A slow subscriber loses its oldest events, never blocks the
// publisher.
func TestOverflow_DropsOldest(t *testing.T) {
	h := hub.New(quietLogger())

	sub, err := h.Subscribe("c")
	require.NoError(t, err)
	defer sub.Close()

	const extra = 10
	total := 256 + extra
	for i := 0; i < total; i++ {
		require.NoError(t, h.Publish("c", event(t, fmt.Sprintf("m%d", i))))
	}

	first := <-sub.Events()
	var msg domain.MessageEvent
	require.NoError(t, first.Decode(&msg))
	assert.Equal(t, fmt.Sprintf("m%d", extra), msg.MessageID, "oldest events should have been dropped")
}

func TestClose_DetachesAndEndsFeed(t *testing.T) {
	h := hub.New(quietLogger())

	sub, err := h.Subscribe("c")
	require.NoError(t, err)
	sub.Close()
	sub.Close() // idempotent

	assert.Equal(t, 0, h.Subscribers("c"))
	_, open := <-sub.Events()
	assert.False(t, open)

	// Publishing to a channel with no subscribers is fine.
	require.NoError(t, h.Publish("c", event(t, "m1")))
}
