package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/bookshop/internal/domain/session"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// SessionStore 会话存储
// 设计说明：
// 1. 使用Redis存储用户登录会话
// 2. 支持JWT黑名单（用户登出）
// 3. Key设计：session:{user_id}、blacklist:{token}
type SessionStore struct {
	client *redis.Client
	prefix string
}

var _ session.Store = (*SessionStore)(nil)

// NewSessionStore 创建会话存储，prefix用于隔离多个应用共用同一个库
func NewSessionStore(client *redis.Client, prefix string) *SessionStore {
	return &SessionStore{client: client, prefix: prefix}
}

func (s *SessionStore) sessionKey(userID string) string {
	return fmt.Sprintf("%ssession:%s", s.prefix, userID)
}

func (s *SessionStore) blacklistKey(token string) string {
	return fmt.Sprintf("%sblacklist:%s", s.prefix, token)
}

// SaveSession 保存用户会话
// 使用Pipeline把HSet和Expire合并为一次网络往返
func (s *SessionStore) SaveSession(ctx context.Context, info session.Info, ttl time.Duration) error {
	key := s.sessionKey(info.UserID)

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"user_id":    info.UserID,
		"email":      info.Email,
		"login_at":   info.LoginAt.UTC().Format(time.RFC3339Nano),
		"expires_at": info.ExpiresAt.UTC().Format(time.RFC3339Nano),
	})
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperrors.Wrap(err, "save session")
	}

	return nil
}

// GetSession 获取用户会话
func (s *SessionStore) GetSession(ctx context.Context, userID string) (*session.Info, error) {
	result, err := s.client.HGetAll(ctx, s.sessionKey(userID)).Result()
	if err != nil {
		return nil, apperrors.Wrap(err, "get session")
	}

	if len(result) == 0 {
		return nil, apperrors.ErrUnauthorized
	}

	info := &session.Info{UserID: result["user_id"], Email: result["email"]}
	info.LoginAt, _ = time.Parse(time.RFC3339Nano, result["login_at"])
	info.ExpiresAt, _ = time.Parse(time.RFC3339Nano, result["expires_at"])
	return info, nil
}

// DeleteSession 删除用户会话（用于登出）
func (s *SessionStore) DeleteSession(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, s.sessionKey(userID)).Err(); err != nil {
		return apperrors.Wrap(err, "delete session")
	}
	return nil
}

// AddToBlacklist 将Token加入黑名单
// ttl取Token剩余有效期，过期后Key自动删除，无需手动清理
func (s *SessionStore) AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, s.blacklistKey(token), "revoked", ttl).Err(); err != nil {
		return apperrors.Wrap(err, "blacklist token")
	}
	return nil
}

// IsInBlacklist 检查Token是否在黑名单中
func (s *SessionStore) IsInBlacklist(ctx context.Context, token string) (bool, error) {
	exists, err := s.client.Exists(ctx, s.blacklistKey(token)).Result()
	if err != nil {
		return false, apperrors.Wrap(err, "check blacklist")
	}
	return exists > 0, nil
}
