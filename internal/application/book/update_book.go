package book

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/pkg/metrics"
	"github.com/xiebiao/bookshop/pkg/tracing"
)

// UpdateBookUseCase 图书修改用例
type UpdateBookUseCase struct {
	bookService book.Service
}

// NewUpdateBookUseCase 创建修改用例
func NewUpdateBookUseCase(bookService book.Service) *UpdateBookUseCase {
	return &UpdateBookUseCase{bookService: bookService}
}

// UpdateBookRequest 修改请求DTO
// 只有非nil字段会被修改;ID和所有者不在可修改范围内
type UpdateBookRequest struct {
	ID          string
	ActorID     string // 从认证中间件获取
	Title       *string
	Author      *string
	Price       *float64
	Category    *string
	Description *string
	Thumbnail   *string
}

// Execute 执行修改
func (uc *UpdateBookUseCase) Execute(ctx context.Context, req UpdateBookRequest) (dto *BookDTO, err error) {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, tracerName, "book.Update")
	defer func() {
		metrics.ObserveBookMutation(metrics.OpUpdate, err, isRejected(err), time.Since(start))
		tracing.EndSpan(span, err)
	}()

	patch := book.Patch{
		Title:       req.Title,
		Author:      req.Author,
		Price:       req.Price,
		Category:    req.Category,
		Description: req.Description,
		Thumbnail:   req.Thumbnail,
	}
	span.SetAttributes(
		attribute.String("book.id", req.ID),
		attribute.String("user.id", req.ActorID),
		attribute.Bool("book.patch_empty", patch.IsEmpty()),
	)

	b, err := uc.bookService.UpdateBook(ctx, req.ActorID, req.ID, patch)
	if err != nil {
		return nil, err
	}

	out := ToDTO(b)
	return &out, nil
}
