package store_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pastaa/internal/domain"
	"pastaa/internal/store"
)

func newStore(t *testing.T) *store.PasteStore {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	s, err := store.New(store.Config{InMemory: true, Logger: log})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func submission() domain.CreatePaste {
	return domain.CreatePaste{
		EncryptedContent: "deadbeef",
		IV:               "00112233445566778899aabb",
	}
}

func TestCreateGet_RoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, submission())
	require.NoError(t, err)
	assert.Len(t, created.ID, 32)
	assert.NotEmpty(t, created.ShortID)

	rec, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", rec.EncryptedContent)
	assert.Equal(t, created.ShortID, rec.ShortID)
	assert.Equal(t, 1, rec.Views)

	byShort, err := s.GetByShortID(ctx, created.ShortID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, byShort.ID)
	assert.Equal(t, 2, byShort.Views)
}

func TestGet_Missing(t *testing.T) {
	s := newStore(t)
	_, err := s.Get(context.Background(), "0000000000000000000000000000dead")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBurnAfterReading_SingleConsumption(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	in := submission()
	in.BurnAfterReading = true
	created, err := s.Create(ctx, in)
	require.NoError(t, err)

	rec, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, rec.BurnAfterReading)

	// Second read must fail even though no UI reveal completed.
	_, err = s.Get(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.GetByShortID(ctx, created.ShortID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBurnAfterReading_ShortIDConsumes(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	in := submission()
	in.BurnAfterReading = true
	created, err := s.Create(ctx, in)
	require.NoError(t, err)

	_, err = s.GetByShortID(ctx, created.ShortID)
	require.NoError(t, err)
	_, err = s.Get(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_Idempotent(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, submission())
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, created.ID))
	// Double-fire from the reveal state machine must not error.
	require.NoError(t, s.Delete(ctx, created.ID))

	_, err = s.Get(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.GetByShortID(ctx, created.ShortID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExpiry(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	in := submission()
	in.ExpiresIn = 1
	created, err := s.Create(ctx, in)
	require.NoError(t, err)

	rec, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, rec.ExpiresAt)

	time.Sleep(1100 * time.Millisecond)

	// Expired reads as plain not-found, indistinguishable from missing.
	_, err = s.Get(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
