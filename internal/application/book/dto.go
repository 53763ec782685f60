package book

import (
	"time"

	"github.com/xiebiao/bookshop/internal/domain/book"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

const tracerName = "bookshop/application/book"

// BookDTO 图书响应DTO(JSON字段为camelCase)
type BookDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	Thumbnail   string    `json:"thumbnail"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ToDTO 实体转DTO
func ToDTO(b *book.Book) BookDTO {
	return BookDTO{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Price:       b.Price,
		Category:    b.Category,
		Description: b.Description,
		Thumbnail:   b.Thumbnail,
		CreatedBy:   b.OwnerID,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// isRejected 业务拒绝(校验失败/无权限/不存在),区别于系统故障
func isRejected(err error) bool {
	return err != nil && apperrors.GetAppError(err).HTTPStatus() < 500
}
