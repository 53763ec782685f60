package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

func TestManager_RoundTrip(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, err := m.GenerateToken("1", "admin@books.com", "Admin User")
	require.NoError(t, err)
	require.NotEmpty(t, token.Value)
	assert.WithinDuration(t, time.Now().Add(time.Hour), token.ExpiresAt, 5*time.Second)

	claims, err := m.ParseToken(token.Value)
	require.NoError(t, err)
	assert.Equal(t, "1", claims.UserID)
	assert.Equal(t, "admin@books.com", claims.Email)
	assert.Equal(t, "Admin User", claims.Name)
}

func TestManager_TokensAreUnique(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	a, err := m.GenerateToken("1", "admin@books.com", "Admin User")
	require.NoError(t, err)
	b, err := m.GenerateToken("1", "admin@books.com", "Admin User")
	require.NoError(t, err)
	assert.NotEqual(t, a.Value, b.Value)
}

func TestManager_ParseToken_Errors(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	t.Run("签名不匹配", func(t *testing.T) {
		other := NewManager("other-secret", time.Hour)
		token, err := other.GenerateToken("1", "a@b.com", "A")
		require.NoError(t, err)

		_, err = m.ParseToken(token.Value)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("已过期", func(t *testing.T) {
		expired := NewManager("test-secret", -time.Minute)
		token, err := expired.GenerateToken("1", "a@b.com", "A")
		require.NoError(t, err)

		_, err = m.ParseToken(token.Value)
		assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
	})

	t.Run("格式错误", func(t *testing.T) {
		_, err := m.ParseToken("not-a-token")
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})
}
