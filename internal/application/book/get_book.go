package book

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/pkg/tracing"
)

// GetBookUseCase 图书详情用例
type GetBookUseCase struct {
	bookService book.Service
}

// NewGetBookUseCase 创建详情用例
func NewGetBookUseCase(bookService book.Service) *GetBookUseCase {
	return &GetBookUseCase{bookService: bookService}
}

// Execute 执行查询,不存在返回ErrBookNotFound
func (uc *GetBookUseCase) Execute(ctx context.Context, id string) (dto *BookDTO, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "book.Get")
	defer func() { tracing.EndSpan(span, err) }()
	span.SetAttributes(attribute.String("book.id", id))

	b, err := uc.bookService.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}
	out := ToDTO(b)
	return &out, nil
}
