package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookshop/internal/domain/session"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

func newTestSessionStore() (*SessionStore, *time.Time) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewSessionStore()
	s.now = func() time.Time { return now }
	return s, &now
}

func TestSessionStore_SessionLifecycle(t *testing.T) {
	ctx := context.Background()
	s, now := newTestSessionStore()

	info := session.Info{UserID: "1", Email: "admin@books.com", LoginAt: *now, ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, s.SaveSession(ctx, info, time.Hour))

	got, err := s.GetSession(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, info, *got)

	require.NoError(t, s.DeleteSession(ctx, "1"))
	_, err = s.GetSession(ctx, "1")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestSessionStore_SessionExpires(t *testing.T) {
	ctx := context.Background()
	s, now := newTestSessionStore()

	require.NoError(t, s.SaveSession(ctx, session.Info{UserID: "1"}, time.Minute))

	*now = now.Add(time.Minute)
	_, err := s.GetSession(ctx, "1")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestSessionStore_Blacklist(t *testing.T) {
	ctx := context.Background()
	s, now := newTestSessionStore()

	revoked, err := s.IsInBlacklist(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, s.AddToBlacklist(ctx, "tok", time.Hour))
	revoked, err = s.IsInBlacklist(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, revoked)

	// 过期后自动失效
	*now = now.Add(2 * time.Hour)
	revoked, err = s.IsInBlacklist(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, revoked)

	// 已过期的Token无需加入黑名单
	require.NoError(t, s.AddToBlacklist(ctx, "old", 0))
	revoked, err = s.IsInBlacklist(ctx, "old")
	require.NoError(t, err)
	assert.False(t, revoked)
}
