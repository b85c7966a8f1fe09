package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rollshouse/storefront/internal/storage"
)

func newTestKV(t *testing.T) *storage.GormStore {
	t.Helper()
	kv, err := storage.Open(context.Background(), "", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })
	return kv
}

func TestRestoreWithoutRecord(t *testing.T) {
	s := NewStore(newTestKV(t))

	require.False(t, s.IsReady())
	s.Restore(context.Background())

	require.True(t, s.IsReady(), "readiness is reported even with nothing stored")
	require.False(t, s.IsAuthenticated())
	require.Empty(t, s.User().Email)
}

func TestRestoreWithRecord(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, "authUser", []byte(`{"email":"ivan@example.com","name":"Иван"}`)))

	s := NewStore(kv)
	s.Restore(ctx)

	require.True(t, s.IsReady())
	require.True(t, s.IsAuthenticated())
	require.Equal(t, "ivan@example.com", s.User().Email)
	require.Equal(t, "Иван", s.User().Name)
}

func TestRestoreRejectsPartialRecord(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, "authUser", []byte(`{"email":"ivan@example.com"}`)))

	s := NewStore(kv)
	s.Restore(ctx)

	require.True(t, s.IsReady())
	require.False(t, s.IsAuthenticated(), "authenticated requires both email and name")
}

func TestRestoreToleratesCorruptRecord(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, "authUser", []byte("{broken")))

	s := NewStore(kv)
	s.Restore(ctx)

	require.True(t, s.IsReady())
	require.False(t, s.IsAuthenticated())
}

func TestRestoreRunsOnce(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	s := NewStore(kv)
	s.Restore(ctx)
	s.Login(ctx, "ivan@example.com", "Иван")

	// a later record change must not leak into the live session
	require.NoError(t, kv.Set(ctx, "authUser", []byte(`{"email":"other@example.com","name":"Другой"}`)))
	s.Restore(ctx)

	require.Equal(t, "ivan@example.com", s.User().Email)
}

func TestLoginPersists(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	s := NewStore(kv)
	s.Restore(ctx)
	s.Login(ctx, "ivan@example.com", "Иван")

	require.True(t, s.IsAuthenticated())

	restored := NewStore(kv)
	restored.Restore(ctx)
	require.True(t, restored.IsAuthenticated())
	require.Equal(t, "Иван", restored.User().Name)
}

func TestLogoutClearsEverything(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	s := NewStore(kv)
	s.Restore(ctx)
	s.Login(ctx, "ivan@example.com", "Иван")
	s.Logout(ctx)

	require.False(t, s.IsAuthenticated())
	require.Empty(t, s.User().Email)
	require.Empty(t, s.User().Name)

	_, err := kv.Get(ctx, "authUser")
	require.ErrorIs(t, err, storage.ErrNotFound)
}
