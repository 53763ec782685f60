package bookclient

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrDeleteInProgress 同一本书的删除请求已在途
var ErrDeleteInProgress = errors.New("bookclient: delete already in progress")

// Session 客户端会话
// 设计说明：
// 1. 写操作成功后失效books/myBooks/book三类缓存，并刷新所有已注册的View
// 2. 删除在途期间Deleting(id)为true（界面据此禁用按钮），完成或失败后清除
// 3. 每个写操作都推送成功或失败提示
type Session struct {
	client *Client
	cache  *Cache
	toasts *Toasts

	debounceDelay time.Duration
	pageSize      int

	mu       sync.Mutex
	deleting map[string]struct{}
	views    []*View
}

// SessionOption 会话选项
type SessionOption func(*Session)

// WithDebounce 筛选条件防抖间隔（默认250ms）
func WithDebounce(d time.Duration) SessionOption {
	return func(s *Session) { s.debounceDelay = d }
}

// WithPageSize 列表每页条数（默认12）
func WithPageSize(n int) SessionOption {
	return func(s *Session) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithToastLimit 提示队列上限（默认20）
func WithToastLimit(n int) SessionOption {
	return func(s *Session) { s.toasts = NewToasts(n) }
}

// NewSession 创建会话
func NewSession(client *Client, opts ...SessionOption) *Session {
	s := &Session{
		client:        client,
		cache:         NewCache(),
		toasts:        NewToasts(20),
		debounceDelay: 250 * time.Millisecond,
		pageSize:      12,
		deleting:      make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Client 底层API客户端
func (s *Session) Client() *Client { return s.client }

// Cache 查询缓存
func (s *Session) Cache() *Cache { return s.cache }

// Toasts 提示队列
func (s *Session) Toasts() *Toasts { return s.toasts }

// View 创建并注册一个列表视图
func (s *Session) View(scope Scope) *View {
	v := newView(scope, s)
	s.mu.Lock()
	s.views = append(s.views, v)
	s.mu.Unlock()
	return v
}

// Close 关闭所有视图
func (s *Session) Close() {
	s.mu.Lock()
	views := append([]*View(nil), s.views...)
	s.views = nil
	s.mu.Unlock()
	for _, v := range views {
		v.Close()
	}
}

func (s *Session) unregister(v *View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, w := range s.views {
		if w == v {
			s.views = append(s.views[:i], s.views[i+1:]...)
			return
		}
	}
}

// Views 已注册的视图数
func (s *Session) Views() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.views)
}

// Deleting 该图书是否正在删除
func (s *Session) Deleting(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.deleting[id]
	return ok
}

// Login 登录，切换用户后“我的图书”缓存失效
func (s *Session) Login(ctx context.Context, email, password string) (*User, error) {
	u, err := s.client.Login(ctx, email, password)
	if err != nil {
		s.toasts.Push(SeverityError, "Login failed", describe(err, "Failed to sign in"))
		return nil, err
	}
	s.cache.Invalidate(TagMyBooks)
	return u, nil
}

// Logout 登出
func (s *Session) Logout(ctx context.Context) error {
	if err := s.client.Logout(ctx); err != nil {
		s.toasts.Push(SeverityError, "Logout failed", describe(err, "Failed to sign out"))
		return err
	}
	s.cache.Invalidate(TagMyBooks)
	return nil
}

// Book 图书详情（带缓存）
func (s *Session) Book(ctx context.Context, id string) (*Book, error) {
	key := "book:" + id
	if b, ok := getTyped[*Book](s.cache, key); ok {
		return b, nil
	}
	b, err := s.client.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, b, TagBook)
	return b, nil
}

// CreateBook 发布图书
func (s *Session) CreateBook(ctx context.Context, in NewBook) (*Book, error) {
	b, err := s.client.CreateBook(ctx, in)
	if err != nil {
		s.toasts.Push(SeverityError, "Creation failed", describe(err, "Failed to create book"))
		return nil, err
	}

	s.afterMutation(ctx)
	s.toasts.Push(SeveritySuccess, "Book created", fmt.Sprintf("%q has been created successfully.", b.Title))
	return b, nil
}

// UpdateBook 修改图书
func (s *Session) UpdateBook(ctx context.Context, id string, p BookPatch) (*Book, error) {
	b, err := s.client.UpdateBook(ctx, id, p)
	if err != nil {
		s.toasts.Push(SeverityError, "Update failed", describe(err, "Failed to update book"))
		return nil, err
	}

	s.afterMutation(ctx)
	s.toasts.Push(SeveritySuccess, "Book updated", "Your book has been updated successfully.")
	return b, nil
}

// DeleteBook 删除图书
func (s *Session) DeleteBook(ctx context.Context, id string) error {
	// 1. 标记删除中
	s.mu.Lock()
	if _, busy := s.deleting[id]; busy {
		s.mu.Unlock()
		return ErrDeleteInProgress
	}
	s.deleting[id] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.deleting, id)
		s.mu.Unlock()
	}()

	// 2. 调用API
	if err := s.client.DeleteBook(ctx, id); err != nil {
		s.toasts.Push(SeverityError, "Delete failed", describe(err, "Failed to delete book"))
		return err
	}

	// 3. 失效缓存并刷新列表
	s.afterMutation(ctx)
	s.toasts.Push(SeveritySuccess, "Book deleted", "The book has been deleted successfully.")
	return nil
}

// UpdateProfile 修改资料
// 图书的作者名在发布时确定，改名不影响已有图书，无需失效图书缓存
func (s *Session) UpdateProfile(ctx context.Context, p Profile) (*User, error) {
	u, err := s.client.UpdateProfile(ctx, p)
	if err != nil {
		s.toasts.Push(SeverityError, "Update failed", describe(err, "Failed to update profile"))
		return nil, err
	}
	s.toasts.Push(SeveritySuccess, "Profile updated", "Your profile has been updated successfully.")
	return u, nil
}

// afterMutation 失效缓存并刷新所有视图
// 刷新失败由View自己推送提示，不影响写操作的结果
func (s *Session) afterMutation(ctx context.Context) {
	s.cache.Invalidate(TagBooks, TagMyBooks, TagBook)

	s.mu.Lock()
	views := append([]*View(nil), s.views...)
	s.mu.Unlock()

	for _, v := range views {
		_ = v.Refresh(ctx)
	}
}
