package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/xiebiao/bookshop/internal/domain/user"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// UserRepository 用户仓储实现(内存)
// 邮箱按小写比较,保证唯一
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*user.User
	seed  []*user.User
}

// NewUserRepository 创建用户仓储
func NewUserRepository(seed []*user.User) *UserRepository {
	r := &UserRepository{}
	for _, u := range seed {
		r.seed = append(r.seed, u.Clone())
	}
	r.Reset()
	return r
}

// Reset 恢复到种子数据(测试用)
func (r *UserRepository) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users = make(map[string]*user.User, len(r.seed))
	for _, u := range r.seed {
		r.users[u.ID] = u.Clone()
	}
}

// Create 创建用户
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Wrap(err, "create user")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTakenLocked(u.Email, u.ID) {
		return apperrors.ErrEmailDuplicate
	}
	if _, exists := r.users[u.ID]; exists {
		return apperrors.New(apperrors.ErrCodeBusinessError, "User already exists")
	}
	r.users[u.ID] = u.Clone()
	return nil
}

// FindByID 根据ID查找用户
func (r *UserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(err, "find user")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return u.Clone(), nil
}

// FindByEmail 根据邮箱查找用户
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(err, "find user")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u.Clone(), nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

// Update 更新用户信息
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Wrap(err, "update user")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[u.ID]; !ok {
		return apperrors.ErrUserNotFound
	}
	if r.emailTakenLocked(u.Email, u.ID) {
		return apperrors.ErrEmailDuplicate
	}
	r.users[u.ID] = u.Clone()
	return nil
}

func (r *UserRepository) emailTakenLocked(email, exceptID string) bool {
	for id, u := range r.users {
		if id != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}
