package bookclient

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Book 图书（API返回结构）
type Book struct {
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

// User 当前用户
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// Page 分页结果
type Page struct {
	Items    []Book `json:"items"`
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
}

// TotalPages 总页数
func (p Page) TotalPages() int {
	if p.PageSize <= 0 {
		return 0
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}

// NewBook 发布图书请求
type NewBook struct {
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Description string  `json:"description,omitempty"`
	Thumbnail   string  `json:"thumbnail"`
}

// BookPatch 修改图书请求，nil字段不修改
type BookPatch struct {
	Title       *string  `json:"title,omitempty"`
	Author      *string  `json:"author,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Description *string  `json:"description,omitempty"`
	Thumbnail   *string  `json:"thumbnail,omitempty"`
}

// Profile 资料编辑请求
type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SortOrder 标题排序方向
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Filters 列表筛选条件（不含分页）
type Filters struct {
	Search   string
	Sort     SortOrder
	Category string
	MinPrice *float64
	MaxPrice *float64
}

// Query 列表查询参数
type Query struct {
	Filters
	Page     int
	PageSize int
}

// Params 转成URL查询参数，空值不发送
func (q Query) Params() map[string]string {
	params := map[string]string{
		"page":     strconv.Itoa(q.Page),
		"pageSize": strconv.Itoa(q.PageSize),
	}
	sort := q.Sort
	if sort == "" {
		sort = SortAsc
	}
	params["sort"] = string(sort)
	if q.Search != "" {
		params["search"] = q.Search
	}
	if q.Category != "" {
		params["category"] = q.Category
	}
	if q.MinPrice != nil {
		params["minPrice"] = strconv.FormatFloat(*q.MinPrice, 'f', -1, 64)
	}
	if q.MaxPrice != nil {
		params["maxPrice"] = strconv.FormatFloat(*q.MaxPrice, 'f', -1, 64)
	}
	return params
}

// Key 缓存键，同样的查询得到同样的键
func (q Query) Key() string {
	var b strings.Builder
	fmt.Fprintf(&b, "page=%d&pageSize=%d&sort=%s&search=%s&category=%s", q.Page, q.PageSize, q.Sort, q.Search, q.Category)
	if q.MinPrice != nil {
		fmt.Fprintf(&b, "&minPrice=%g", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		fmt.Fprintf(&b, "&maxPrice=%g", *q.MaxPrice)
	}
	return b.String()
}

// FieldError 字段校验错误
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError 服务端返回的错误
type APIError struct {
	Status  int          `json:"-"`
	Message string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("%d: %s", e.Status, e.Message)
	}
	parts := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		parts = append(parts, d.Field+": "+d.Message)
	}
	return fmt.Sprintf("%d: %s (%s)", e.Status, e.Message, strings.Join(parts, "; "))
}

// IsClientError 4xx错误（业务错误，不计入熔断）
func (e *APIError) IsClientError() bool {
	return e.Status >= 400 && e.Status < 500
}
