package book

import (
	"context"
	"time"

	"github.com/xiebiao/bookshop/pkg/logger"
)

// Service 图书领域服务接口
// 设计说明:
// 1. 封装图书的业务规则:字段校验、所有权校验、时间戳维护
// 2. 所有权在服务内部校验,不依赖调用方
// 3. 不依赖具体的Repository实现(依赖倒置)
type Service interface {
	// PublishBook 发布图书
	// 业务规则:
	// - 全部字段校验通过才会保存,失败时返回所有违规字段
	// - 作者取创建者显示名,所有者为创建者
	PublishBook(ctx context.Context, owner Owner, draft Draft) (*Book, error)

	// GetBook 根据ID获取图书详情
	GetBook(ctx context.Context, id string) (*Book, error)

	// UpdateBook 部分更新图书
	// 业务规则:只有创建者本人可以修改,ID和所有者不可修改
	UpdateBook(ctx context.Context, actorID, id string, patch Patch) (*Book, error)

	// DeleteBook 删除图书
	// 业务规则:只有创建者本人可以删除
	DeleteBook(ctx context.Context, actorID, id string) error

	// ListBooks 查询图书列表(公开接口,不需要权限校验)
	ListBooks(ctx context.Context, q Query) (Page, error)
}

// Option 服务选项
type Option func(*service)

// WithClock 替换时间源(测试用)
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

// WithPublisher 设置事件发布者
func WithPublisher(p EventPublisher) Option {
	return func(s *service) { s.events = p }
}

// service 领域服务实现
type service struct {
	repo   Repository
	events EventPublisher
	now    func() time.Time
}

// NewService 创建图书领域服务
func NewService(repo Repository, opts ...Option) Service {
	s := &service{
		repo:   repo,
		events: NopPublisher{},
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PublishBook 发布图书
func (s *service) PublishBook(ctx context.Context, owner Owner, draft Draft) (*Book, error) {
	// 1. 字段校验
	if err := ValidateDraft(draft); err != nil {
		return nil, err
	}

	// 2. 创建实体
	book := NewBook(draft, owner, s.now())

	// 3. 持久化
	if err := s.repo.Create(ctx, book); err != nil {
		return nil, err
	}

	// 4. 发布事件
	s.publish(ctx, EventCreated, owner.ID, book)
	return book, nil
}

// GetBook 根据ID获取图书
func (s *service) GetBook(ctx context.Context, id string) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateBook 更新图书
func (s *service) UpdateBook(ctx context.Context, actorID, id string, patch Patch) (*Book, error) {
	// 1. 查询图书
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 2. 权限检查:只有创建者可以修改
	if !book.IsOwnedBy(actorID) {
		return nil, ErrUnauthorized
	}

	// 3. 字段校验
	if err := ValidatePatch(patch); err != nil {
		return nil, err
	}

	// 4. 合并字段
	book.Apply(patch, s.now())

	// 5. 持久化
	if err := s.repo.Update(ctx, book); err != nil {
		return nil, err
	}

	s.publish(ctx, EventUpdated, actorID, book)
	return book, nil
}

// DeleteBook 删除图书
func (s *service) DeleteBook(ctx context.Context, actorID, id string) error {
	// 1. 查询图书
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	// 2. 权限检查
	if !book.IsOwnedBy(actorID) {
		return ErrUnauthorized
	}

	// 3. 执行删除
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, EventDeleted, actorID, book)
	return nil
}

// ListBooks 查询图书列表
func (s *service) ListBooks(ctx context.Context, q Query) (Page, error) {
	books, err := s.repo.List(ctx)
	if err != nil {
		return Page{}, err
	}
	return ApplyQuery(books, q), nil
}

// publish 发布失败只记录日志,不影响已完成的变更
func (s *service) publish(ctx context.Context, typ, actorID string, b *Book) {
	event := Event{
		Type:       typ,
		BookID:     b.ID,
		ActorID:    actorID,
		Title:      b.Title,
		OccurredAt: s.now(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		logger.Log.Warnw("publish book event failed", "type", typ, "book_id", b.ID, "error", err)
	}
}
