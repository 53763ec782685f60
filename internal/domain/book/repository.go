package book

import (
	"context"
)

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=book

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现(当前为内存实现)
// 2. 返回的实体均为副本,调用方修改后需调用Update写回
// 3. 便于Mock测试
type Repository interface {
	// Create 保存新图书
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书,不存在返回ErrBookNotFound
	FindByID(ctx context.Context, id string) (*Book, error)

	// Update 整体覆盖已有图书,不存在返回ErrBookNotFound
	Update(ctx context.Context, book *Book) error

	// Delete 删除图书(物理删除),不存在返回ErrBookNotFound
	Delete(ctx context.Context, id string) error

	// List 按插入顺序返回全部图书快照
	// 过滤、排序、分页由ApplyQuery在内存中完成
	List(ctx context.Context) ([]*Book, error)
}
