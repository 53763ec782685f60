package session

import (
	"context"
	"time"
)

//go:generate mockgen -source=store.go -destination=mock_store.go -package=session

// Info 登录会话信息
type Info struct {
	UserID    string
	Email     string
	LoginAt   time.Time
	ExpiresAt time.Time
}

// Store 会话存储接口
// 设计说明：
// 1. JWT本身无状态，服务端靠黑名单让已登出的Token失效
// 2. 会话记录用于user-info接口展示登录时间，也可用于强制下线
// 3. 实现：Redis（多实例共享）或内存（单机/测试）
type Store interface {
	// SaveSession 保存会话，ttl与Token有效期一致
	SaveSession(ctx context.Context, info Info, ttl time.Duration) error

	// GetSession 获取会话，不存在返回ErrUnauthorized
	GetSession(ctx context.Context, userID string) (*Info, error)

	// DeleteSession 删除会话（登出）
	DeleteSession(ctx context.Context, userID string) error

	// AddToBlacklist 将Token加入黑名单，ttl为Token剩余有效期
	AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error

	// IsInBlacklist 检查Token是否已被吊销
	IsInBlacklist(ctx context.Context, token string) (bool, error)
}
