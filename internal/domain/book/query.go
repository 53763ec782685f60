package book

import (
	"math"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 12
	MaxPageSize     = 100
)

// SortOrder 标题排序方向
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder 只有"desc"表示降序,其余一律升序
func ParseSortOrder(s string) SortOrder {
	if s == string(SortDesc) {
		return SortDesc
	}
	return SortAsc
}

// Query 列表查询条件
// MinPrice/MaxPrice为nil表示未提供该边界
type Query struct {
	Page     int
	PageSize int
	Search   string // 标题子串,不区分大小写
	Sort     SortOrder
	Category string // 精确匹配,空表示不过滤
	MinPrice *float64
	MaxPrice *float64
	OwnerID  string // 精确匹配,"我的图书"使用
}

// Normalize 修正分页参数
// page小于1取1;pageSize为0表示未提供,取默认值,负数提升为1;pageSize上限为MaxPageSize
func (q Query) Normalize() Query {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.PageSize == 0 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize < 1 {
		q.PageSize = 1
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	q.Sort = ParseSortOrder(string(q.Sort))
	return q
}

// hasPriceFilter 至少提供了一个价格边界时才启用价格过滤
func (q Query) hasPriceFilter() bool {
	return q.MinPrice != nil || q.MaxPrice != nil
}

// priceRange 缺省边界分别为0和+Inf
func (q Query) priceRange() (float64, float64) {
	lo, hi := 0.0, math.Inf(1)
	if q.MinPrice != nil {
		lo = *q.MinPrice
	}
	if q.MaxPrice != nil {
		hi = *q.MaxPrice
	}
	return lo, hi
}

// Page 一页查询结果
type Page struct {
	Items    []*Book
	Total    int // 过滤后、分页前的记录数
	Page     int
	PageSize int
}

// ApplyQuery 对图书集合执行 过滤→搜索→排序→分页
//
// 执行顺序固定:
// 1. 所有者过滤
// 2. 分类过滤
// 3. 价格区间过滤(闭区间)
// 4. 标题搜索
// 5. 按标题稳定排序(英文区域规则)
// 6. 统计总数后截取当前页
//
// 不修改传入的切片;页码超出范围时返回空列表,Total仍为过滤后的总数
func ApplyQuery(books []*Book, q Query) Page {
	q = q.Normalize()

	// 1-4. 过滤
	needle := strings.ToLower(q.Search)
	lo, hi := q.priceRange()
	filtered := make([]*Book, 0, len(books))
	for _, b := range books {
		if q.OwnerID != "" && b.OwnerID != q.OwnerID {
			continue
		}
		if q.Category != "" && b.Category != q.Category {
			continue
		}
		if q.hasPriceFilter() && (b.Price < lo || b.Price > hi) {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(b.Title), needle) {
			continue
		}
		filtered = append(filtered, b)
	}

	// 5. 排序(Collator非并发安全,每次调用单独创建)
	col := collate.New(language.English)
	cmp := func(a, b *Book) int {
		return col.CompareString(a.Title, b.Title)
	}
	if q.Sort == SortDesc {
		asc := cmp
		cmp = func(a, b *Book) int { return -asc(a, b) }
	}
	slices.SortStableFunc(filtered, cmp)

	// 6. 分页
	total := len(filtered)
	pages := (total + q.PageSize - 1) / q.PageSize
	items := []*Book{}
	if q.Page <= pages {
		start := (q.Page - 1) * q.PageSize
		end := min(start+q.PageSize, total)
		items = filtered[start:end]
	}

	return Page{
		Items:    items,
		Total:    total,
		Page:     q.Page,
		PageSize: q.PageSize,
	}
}
