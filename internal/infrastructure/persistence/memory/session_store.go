package memory

import (
	"context"
	"sync"
	"time"

	"github.com/xiebiao/bookshop/internal/domain/session"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// SessionStore 会话存储（内存实现）
// 未启用Redis或Redis不可用时使用，语义与Redis实现一致：
// 条目带过期时间，读取时惰性清理
type SessionStore struct {
	mu        sync.Mutex
	sessions  map[string]sessionEntry
	blacklist map[string]time.Time
	now       func() time.Time
}

type sessionEntry struct {
	info     session.Info
	expireAt time.Time
}

var _ session.Store = (*SessionStore)(nil)

// NewSessionStore 创建内存会话存储
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions:  make(map[string]sessionEntry),
		blacklist: make(map[string]time.Time),
		now:       time.Now,
	}
}

// SaveSession 保存会话
func (s *SessionStore) SaveSession(ctx context.Context, info session.Info, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Wrap(err, "save session")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[info.UserID] = sessionEntry{info: info, expireAt: s.now().Add(ttl)}
	return nil
}

// GetSession 获取会话
func (s *SessionStore) GetSession(ctx context.Context, userID string) (*session.Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(err, "get session")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[userID]
	if !ok {
		return nil, apperrors.ErrUnauthorized
	}
	if !s.now().Before(e.expireAt) {
		delete(s.sessions, userID)
		return nil, apperrors.ErrUnauthorized
	}
	info := e.info
	return &info, nil
}

// DeleteSession 删除会话
func (s *SessionStore) DeleteSession(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Wrap(err, "delete session")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}

// AddToBlacklist 吊销Token
func (s *SessionStore) AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Wrap(err, "blacklist token")
	}
	if ttl <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.blacklist[token] = now.Add(ttl)

	// 顺带清理已过期条目，防止黑名单无限增长
	for k, exp := range s.blacklist {
		if !now.Before(exp) {
			delete(s.blacklist, k)
		}
	}
	return nil
}

// IsInBlacklist 检查Token是否已吊销
func (s *SessionStore) IsInBlacklist(ctx context.Context, token string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, apperrors.Wrap(err, "check blacklist")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.blacklist[token]
	if !ok {
		return false, nil
	}
	if !s.now().Before(exp) {
		delete(s.blacklist, token)
		return false, nil
	}
	return true, nil
}
