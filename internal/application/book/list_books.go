package book

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/pkg/metrics"
	"github.com/xiebiao/bookshop/pkg/tracing"
)

// PageLimits 分页参数限制(来自配置query段)
type PageLimits struct {
	DefaultPageSize int
	MaxPageSize     int
}

// ListBooksUseCase 图书列表查询用例
// 设计说明:
// 1. 全部图书和"我的图书"共用一个用例,区别只是OwnerID
// 2. 过滤/搜索/排序/分页全部由领域层ApplyQuery完成
// 3. 应用层只负责默认值、追踪和指标
type ListBooksUseCase struct {
	bookService book.Service
	limits      PageLimits
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookService book.Service, limits PageLimits) *ListBooksUseCase {
	if limits.DefaultPageSize < 1 {
		limits.DefaultPageSize = book.DefaultPageSize
	}
	if limits.MaxPageSize < 1 || limits.MaxPageSize > book.MaxPageSize {
		limits.MaxPageSize = book.MaxPageSize
	}
	return &ListBooksUseCase{
		bookService: bookService,
		limits:      limits,
	}
}

// ListBooksRequest 列表查询请求DTO
type ListBooksRequest struct {
	Page     int
	PageSize *int // nil表示未提供或不是数字
	Search   string
	Sort     string
	Category string
	MinPrice *float64
	MaxPrice *float64
	OwnerID  string // 非空时只查该用户发布的图书
}

// ListBooksResponse 列表查询响应DTO
type ListBooksResponse struct {
	Items    []BookDTO `json:"items"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"pageSize"`
}

// Execute 执行列表查询
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (resp *ListBooksResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "book.List")
	defer func() { tracing.EndSpan(span, err) }()

	// 1. 参数默认值与范围限制：未提供取默认值，小于1提升为1
	pageSize := uc.limits.DefaultPageSize
	if req.PageSize != nil {
		pageSize = max(*req.PageSize, 1)
	}
	pageSize = min(pageSize, uc.limits.MaxPageSize)

	q := book.Query{
		Page:     req.Page,
		PageSize: pageSize,
		Search:   req.Search,
		Sort:     book.ParseSortOrder(req.Sort),
		Category: req.Category,
		MinPrice: req.MinPrice,
		MaxPrice: req.MaxPrice,
		OwnerID:  req.OwnerID,
	}.Normalize()

	scope := "all"
	if q.OwnerID != "" {
		scope = "mine"
	}
	span.SetAttributes(
		attribute.String("query.scope", scope),
		attribute.Int("query.page", q.Page),
		attribute.Int("query.page_size", q.PageSize),
		attribute.Bool("query.search", q.Search != ""),
	)

	// 2. 调用领域服务
	page, err := uc.bookService.ListBooks(ctx, q)
	if err != nil {
		return nil, err
	}
	metrics.ObserveBookQuery(scope, page.Total)
	span.SetAttributes(attribute.Int("query.total", page.Total))

	// 3. 转换为DTO
	items := make([]BookDTO, len(page.Items))
	for i, b := range page.Items {
		items[i] = ToDTO(b)
	}

	return &ListBooksResponse{
		Items:    items,
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
	}, nil
}
