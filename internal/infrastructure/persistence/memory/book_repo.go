package memory

import (
	"context"
	"sync"

	"github.com/xiebiao/bookshop/internal/domain/book"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// BookRepository 图书仓储实现(内存)
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. map按ID索引,order切片保持插入顺序(列表返回顺序稳定)
// 3. 读写锁保护,存取一律复制实体,调用方拿到的指针不会影响仓储内部状态
// 4. 进程重启后数据回到种子状态
type BookRepository struct {
	mu    sync.RWMutex
	books map[string]*book.Book
	order []string
	seed  []*book.Book
}

// NewBookRepository 创建图书仓储,seed为初始数据(可为空)
func NewBookRepository(seed []*book.Book) *BookRepository {
	r := &BookRepository{seed: cloneBooks(seed)}
	r.Reset()
	return r
}

// Reset 恢复到种子数据(测试用)
func (r *BookRepository) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.books = make(map[string]*book.Book, len(r.seed))
	r.order = make([]string, 0, len(r.seed))
	for _, b := range r.seed {
		r.books[b.ID] = b.Clone()
		r.order = append(r.order, b.ID)
	}
}

// Create 保存新图书
func (r *BookRepository) Create(ctx context.Context, b *book.Book) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Wrap(err, "create book")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.books[b.ID]; exists {
		return apperrors.New(apperrors.ErrCodeBusinessError, "Book already exists")
	}
	r.books[b.ID] = b.Clone()
	r.order = append(r.order, b.ID)
	return nil
}

// FindByID 根据ID查找图书
func (r *BookRepository) FindByID(ctx context.Context, id string) (*book.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(err, "find book")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.books[id]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	return b.Clone(), nil
}

// Update 覆盖已有图书(last write wins)
func (r *BookRepository) Update(ctx context.Context, b *book.Book) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Wrap(err, "update book")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.books[b.ID]; !ok {
		return book.ErrBookNotFound
	}
	r.books[b.ID] = b.Clone()
	return nil
}

// Delete 删除图书
func (r *BookRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Wrap(err, "delete book")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.books[id]; !ok {
		return book.ErrBookNotFound
	}
	delete(r.books, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// List 按插入顺序返回全部图书快照
func (r *BookRepository) List(ctx context.Context) ([]*book.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(err, "list books")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*book.Book, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.books[id].Clone())
	}
	return out, nil
}

// Len 当前图书数量
func (r *BookRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.books)
}

func cloneBooks(in []*book.Book) []*book.Book {
	out := make([]*book.Book, 0, len(in))
	for _, b := range in {
		out = append(out, b.Clone())
	}
	return out
}
