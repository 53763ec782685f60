package book

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/pkg/metrics"
	"github.com/xiebiao/bookshop/pkg/tracing"
)

// DeleteBookUseCase 图书删除用例
type DeleteBookUseCase struct {
	bookService book.Service
}

// NewDeleteBookUseCase 创建删除用例
func NewDeleteBookUseCase(bookService book.Service) *DeleteBookUseCase {
	return &DeleteBookUseCase{bookService: bookService}
}

// Execute 执行删除,只有创建者本人可以删除
func (uc *DeleteBookUseCase) Execute(ctx context.Context, actorID, id string) (err error) {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, tracerName, "book.Delete")
	defer func() {
		metrics.ObserveBookMutation(metrics.OpDelete, err, isRejected(err), time.Since(start))
		tracing.EndSpan(span, err)
	}()
	span.SetAttributes(
		attribute.String("book.id", id),
		attribute.String("user.id", actorID),
	)

	if err := uc.bookService.DeleteBook(ctx, actorID, id); err != nil {
		return err
	}

	metrics.InitMetrics()
	metrics.DecGauge(metrics.BooksStored)
	return nil
}
