package book

import (
	"time"

	"github.com/google/uuid"
)

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. ID是不透明字符串,新建时生成UUID,种子数据使用"1""2""3"
// 2. OwnerID记录创建者,创建后不可修改,用于更新/删除的权限判断
// 3. UpdatedAt只增不减,且始终>=CreatedAt
type Book struct {
	ID          string
	Title       string
	Author      string  // 作者显示名
	Price       float64 // 价格(美元)
	Category    string
	Description string
	Thumbnail   string // 封面图URL
	OwnerID     string // 创建者用户ID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Owner 执行创建操作的用户
type Owner struct {
	ID   string
	Name string
}

// Draft 新建图书的输入
type Draft struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Price       float64 `json:"price" validate:"gt=0,lte=10000"`
	Category    string  `json:"category" validate:"required,oneof=Technology Science History Fantasy Biography"`
	Description string  `json:"description" validate:"max=2000"`
	Thumbnail   string  `json:"thumbnail" validate:"required,url"`
}

// Patch 部分更新,nil表示不修改该字段
// 请求体中的id/createdBy不会映射到Patch,从而保证ID和所有者不变
type Patch struct {
	Title       *string
	Author      *string
	Price       *float64
	Category    *string
	Description *string
	Thumbnail   *string
}

// IsEmpty 是否没有任何字段需要更新
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Author == nil && p.Price == nil &&
		p.Category == nil && p.Description == nil && p.Thumbnail == nil
}

// NewBook 创建新图书(工厂方法)
// 作者取创建者的显示名,创建时间与更新时间相同
func NewBook(d Draft, owner Owner, now time.Time) *Book {
	return &Book{
		ID:          uuid.NewString(),
		Title:       d.Title,
		Author:      owner.Name,
		Price:       d.Price,
		Category:    d.Category,
		Description: d.Description,
		Thumbnail:   d.Thumbnail,
		OwnerID:     owner.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Apply 合并Patch中提供的字段并刷新更新时间
func (b *Book) Apply(p Patch, now time.Time) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.Price != nil {
		b.Price = *p.Price
	}
	if p.Category != nil {
		b.Category = *p.Category
	}
	if p.Description != nil {
		b.Description = *p.Description
	}
	if p.Thumbnail != nil {
		b.Thumbnail = *p.Thumbnail
	}
	b.touch(now)
}

// touch 刷新UpdatedAt,时钟回拨时保持原值
func (b *Book) touch(now time.Time) {
	if now.Before(b.UpdatedAt) {
		return
	}
	b.UpdatedAt = now
}

// IsOwnedBy 检查图书是否由指定用户创建
func (b *Book) IsOwnedBy(userID string) bool {
	return userID != "" && b.OwnerID == userID
}

// Clone 返回副本,仓储内外不共享指针
func (b *Book) Clone() *Book {
	if b == nil {
		return nil
	}
	cp := *b
	return &cp
}
