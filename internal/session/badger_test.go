package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *BadgerStore {
	t.Helper()
	s, err := OpenBadger(InMemory, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestBadgerStore_SetGetDel(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "auth_abc", "42", time.Hour))

	v, err := s.Get(ctx, "auth_abc")
	require.NoError(t, err)
	assert.Equal(t, "42", v)

	require.NoError(t, s.Del(ctx, "auth_abc"))

	_, err = s.Get(ctx, "auth_abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBadgerStore_GetMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(context.Background(), "auth_nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBadgerStore_TTLIsApplied(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	before := time.Now()
	require.NoError(t, s.Set(ctx, "auth_ttl", "1", 24*time.Hour))

	exp, err := s.ExpiresAt("auth_ttl")
	require.NoError(t, err)
	assert.WithinDuration(t, before.Add(24*time.Hour), exp, 2*time.Second)
}

func TestBadgerStore_Expired(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for a ttl to lapse")
	}
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "auth_short", "1", time.Second))
	time.Sleep(2100 * time.Millisecond)

	_, err := s.Get(ctx, "auth_short")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBadgerStore_MultipleTokensSameUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "auth_a", "7", time.Hour))
	require.NoError(t, s.Set(ctx, "auth_b", "7", time.Hour))

	a, err := s.Get(ctx, "auth_a")
	require.NoError(t, err)
	b, err := s.Get(ctx, "auth_b")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestBadgerStore_PingAfterClose(t *testing.T) {
	s, err := OpenBadger(InMemory, zap.NewNop())
	require.NoError(t, err)

	assert.NoError(t, s.Ping(context.Background()))
	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Ping(context.Background()), ErrClosed)
}
