package book

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/user"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/metrics"
	"github.com/xiebiao/bookshop/pkg/tracing"
)

// PublishBookUseCase 图书发布用例
// 设计说明:
// 1. 应用层负责用例编排,业务规则(字段校验、作者取显示名)在领域服务中
// 2. 输入输出使用DTO,与HTTP层解耦
// 3. 发布者ID由认证中间件提供,不信任请求体
// 4. 作者名在发布时按用户当前资料读取,Token里的名称可能已过时
type PublishBookUseCase struct {
	bookService book.Service
	userService user.Service
}

// NewPublishBookUseCase 创建发布用例
func NewPublishBookUseCase(bookService book.Service, userService user.Service) *PublishBookUseCase {
	return &PublishBookUseCase{bookService: bookService, userService: userService}
}

// PublishBookRequest 发布请求DTO
type PublishBookRequest struct {
	Title       string
	Price       float64
	Category    string
	Description string
	Thumbnail   string
	OwnerID     string // 从认证中间件获取
}

// Execute 执行发布
func (uc *PublishBookUseCase) Execute(ctx context.Context, req PublishBookRequest) (dto *BookDTO, err error) {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, tracerName, "book.Publish")
	defer func() {
		metrics.ObserveBookMutation(metrics.OpCreate, err, isRejected(err), time.Since(start))
		tracing.EndSpan(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", req.OwnerID))

	// 1. 读取发布者当前资料，账号已不存在按未登录处理
	owner, err := uc.userService.GetProfile(ctx, req.OwnerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}

	// 2. 发布
	b, err := uc.bookService.PublishBook(ctx,
		book.Owner{ID: owner.ID, Name: owner.Name},
		book.Draft{
			Title:       req.Title,
			Price:       req.Price,
			Category:    req.Category,
			Description: req.Description,
			Thumbnail:   req.Thumbnail,
		},
	)
	if err != nil {
		return nil, err
	}

	metrics.InitMetrics()
	metrics.IncGauge(metrics.BooksStored)
	span.SetAttributes(attribute.String("book.id", b.ID))

	out := ToDTO(b)
	return &out, nil
}
