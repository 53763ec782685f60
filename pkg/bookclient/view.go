package bookclient

import (
	"context"
	"errors"
	"sync"

	"github.com/xiebiao/bookshop/pkg/circuitbreaker"
	"github.com/xiebiao/bookshop/pkg/debounce"
)

// Scope 列表范围
type Scope string

const (
	ScopeAll  Scope = "all"  // GET /api/books
	ScopeMine Scope = "mine" // GET /api/books/my-books
)

// ErrSuperseded 请求已被更新的请求取代，结果被丢弃
var ErrSuperseded = errors.New("bookclient: superseded by a newer request")

// ErrViewClosed 视图已关闭
var ErrViewClosed = errors.New("bookclient: view closed")

// View 列表页状态
// 设计说明：
// 1. 修改筛选条件会把页码重置为1，并在防抖间隔后刷新
// 2. 翻页立即刷新
// 3. 同一时刻只认最新发出的请求：新请求会取消旧请求的ctx，旧响应即使返回也被丢弃
// 4. 请求失败时保留上一页数据和筛选条件，并推送错误提示
// 5. 关闭后从会话注销，不再随写操作刷新
type View struct {
	scope    Scope
	session  *Session
	client   *Client
	cache    *Cache
	toasts   *Toasts
	debounce *debounce.Debouncer

	mu       sync.Mutex
	filters  Filters
	page     int
	pageSize int
	current  *Page
	lastErr  error
	loading  bool
	seq      uint64
	cancel   context.CancelFunc
	onChange func(Page)
	closed   bool
}

func newView(scope Scope, s *Session) *View {
	return &View{
		scope:    scope,
		session:  s,
		client:   s.client,
		cache:    s.cache,
		toasts:   s.toasts,
		debounce: debounce.New(s.debounceDelay),
		filters:  Filters{Sort: SortAsc},
		page:     1,
		pageSize: s.pageSize,
	}
}

// Scope 列表范围
func (v *View) Scope() Scope {
	return v.scope
}

// OnChange 注册数据变化回调（每次成功刷新后调用）
func (v *View) OnChange(fn func(Page)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onChange = fn
}

// Filters 当前筛选条件
func (v *View) Filters() Filters {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filters
}

// Query 当前完整查询参数
func (v *View) Query() Query {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.queryLocked()
}

func (v *View) queryLocked() Query {
	return Query{Filters: v.filters, Page: v.page, PageSize: v.pageSize}
}

// Current 最近一次成功加载的数据
func (v *View) Current() (Page, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.current == nil {
		return Page{}, false
	}
	return *v.current, true
}

// Err 最近一次加载的错误，成功后清空
func (v *View) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastErr
}

// Loading 是否有请求在途
func (v *View) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

// SetSearch 修改搜索词
func (v *View) SetSearch(search string) {
	v.updateFilters(func(f *Filters) { f.Search = search })
}

// SetSort 修改排序方向
func (v *View) SetSort(sort SortOrder) {
	v.updateFilters(func(f *Filters) { f.Sort = sort })
}

// SetCategory 修改分类，空串表示全部
func (v *View) SetCategory(category string) {
	v.updateFilters(func(f *Filters) { f.Category = category })
}

// SetPriceRange 修改价格区间，nil表示不限
func (v *View) SetPriceRange(lo, hi *float64) {
	v.updateFilters(func(f *Filters) {
		f.MinPrice = lo
		f.MaxPrice = hi
	})
}

// SetFilters 一次替换全部筛选条件
func (v *View) SetFilters(filters Filters) {
	v.updateFilters(func(f *Filters) { *f = filters })
}

func (v *View) updateFilters(mutate func(*Filters)) {
	v.mu.Lock()
	mutate(&v.filters)
	v.page = 1
	v.mu.Unlock()

	v.debounce.Trigger(func() { _ = v.Refresh(context.Background()) })
}

// SetPage 翻页并立即刷新，p<1按1处理
func (v *View) SetPage(ctx context.Context, p int) error {
	if p < 1 {
		p = 1
	}
	v.mu.Lock()
	v.page = p
	v.mu.Unlock()

	// 立即刷新已包含最新筛选条件，待执行的防抖刷新不再需要
	v.debounce.Cancel()
	return v.Refresh(ctx)
}

// Flush 立即执行待执行的防抖刷新，返回是否执行
func (v *View) Flush() bool {
	return v.debounce.Flush()
}

// Close 取消待执行刷新和在途请求，并从会话注销
func (v *View) Close() {
	v.debounce.Cancel()
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.seq++
	v.loading = false
	v.mu.Unlock()

	v.session.unregister(v)
}

// Closed 是否已关闭
func (v *View) Closed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}

func (v *View) cacheKey(q Query) string {
	return string(v.scope) + "?" + q.Key()
}

func (v *View) tag() string {
	if v.scope == ScopeMine {
		return TagMyBooks
	}
	return TagBooks
}

// Refresh 按当前状态加载数据，优先使用缓存
// 被更新的请求取代时返回ErrSuperseded且不修改状态，已关闭时返回ErrViewClosed
func (v *View) Refresh(ctx context.Context) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrViewClosed
	}
	q := v.queryLocked()
	key := v.cacheKey(q)

	// 1. 取消在途的旧请求
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.seq++
	seq := v.seq

	// 2. 命中缓存直接使用
	if page, ok := getTyped[*Page](v.cache, key); ok {
		v.current = page
		v.lastErr = nil
		v.loading = false
		fn := v.onChange
		v.mu.Unlock()
		if fn != nil {
			fn(*page)
		}
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	v.cancel = cancel
	v.loading = true
	v.mu.Unlock()

	// 3. 请求API
	var (
		page *Page
		err  error
	)
	if v.scope == ScopeMine {
		page, err = v.client.MyBooks(ctx, q)
	} else {
		page, err = v.client.ListBooks(ctx, q)
	}

	// 4. 只接受最新请求的结果
	v.mu.Lock()
	if seq != v.seq {
		v.mu.Unlock()
		return ErrSuperseded
	}
	v.cancel = nil
	v.loading = false

	if err != nil {
		v.lastErr = err
		v.mu.Unlock()
		v.toasts.Push(SeverityError, v.loadFailedTitle(), describe(err, "Please try again."))
		return err
	}

	v.cache.Set(key, page, v.tag())
	v.current = page
	v.lastErr = nil
	fn := v.onChange
	v.mu.Unlock()

	if fn != nil {
		fn(*page)
	}
	return nil
}

func (v *View) loadFailedTitle() string {
	if v.scope == ScopeMine {
		return "Failed to load your books"
	}
	return "Failed to load books"
}

// describe 提取给用户看的错误描述
func describe(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.Is(err, circuitbreaker.ErrOpenState) || errors.Is(err, circuitbreaker.ErrTooManyRequests) {
		return "Service temporarily unavailable"
	}
	return fallback
}
