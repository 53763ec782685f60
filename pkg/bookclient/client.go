// Package bookclient 图书API的Go客户端
//
// 分层：
//   - Client：HTTP传输（resty），Cookie保存登录态，熔断器保护
//   - Cache：按tag失效的查询缓存
//   - View：列表页状态（筛选、分页、防抖刷新、只保留最新请求的结果）
//   - Session：写操作编排（缓存失效、删除中状态、提示消息）
package bookclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/xiebiao/bookshop/pkg/circuitbreaker"
)

// Client 图书API客户端
type Client struct {
	http    *resty.Client
	breaker *circuitbreaker.CircuitBreaker
}

// ClientOption 客户端选项
type ClientOption func(*clientOptions)

type clientOptions struct {
	timeout    time.Duration
	httpClient *http.Client
	breaker    circuitbreaker.Config
}

// WithTimeout 单次请求超时
func WithTimeout(d time.Duration) ClientOption {
	return func(o *clientOptions) { o.timeout = d }
}

// WithHTTPClient 使用自定义http.Client（测试时传httptest.Server.Client()）
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(o *clientOptions) { o.httpClient = hc }
}

// WithBreaker 自定义熔断配置
func WithBreaker(cfg circuitbreaker.Config) ClientOption {
	return func(o *clientOptions) { o.breaker = cfg }
}

// NewClient 创建客户端，baseURL如http://localhost:8080
// 设计说明：
// 1. resty默认带Cookie Jar，登录返回的auth-token Cookie会自动附带在后续请求上
// 2. 所有请求经过熔断器，4xx不计入失败
func NewClient(baseURL string, opts ...ClientOption) *Client {
	o := clientOptions{
		timeout: 10 * time.Second,
		breaker: circuitbreaker.Config{
			MaxRequests: 1,
			Timeout:     10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.breaker.IsSuccessful == nil {
		o.breaker.IsSuccessful = isSuccessful
	}

	var rc *resty.Client
	if o.httpClient != nil {
		rc = resty.NewWithClient(o.httpClient)
		if rc.GetClient().Jar == nil {
			rc.SetCookieJar(newCookieJar())
		}
	} else {
		rc = resty.New()
	}
	rc.SetBaseURL(baseURL).
		SetTimeout(o.timeout).
		SetHeader("Accept", "application/json")

	return &Client{
		http:    rc,
		breaker: circuitbreaker.NewCircuitBreaker("book-api", o.breaker),
	}
}

func newCookieJar() http.CookieJar {
	// Options为nil时不会返回错误
	jar, _ := cookiejar.New(nil)
	return jar
}

// isSuccessful 熔断统计口径：成功或业务错误都不算下游故障，调用方主动取消也不算
func isSuccessful(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsClientError()
}

// Breaker 返回熔断器（观察状态用）
func (c *Client) Breaker() *circuitbreaker.CircuitBreaker {
	return c.breaker
}

// bookPath 单本图书路径，id由resty转义后填入
const bookPath = "/api/books/{id}"

// reqParams 路径参数与查询参数
type reqParams struct {
	path  map[string]string
	query map[string]string
}

func bookID(id string) reqParams {
	return reqParams{path: map[string]string{"id": id}}
}

// do 发送请求并解析结果
// 2xx解析到result，其余状态解析为*APIError
func (c *Client) do(ctx context.Context, method, path string, p reqParams, body, result interface{}) error {
	return c.breaker.Execute(func() error {
		apiErr := &APIError{}
		req := c.http.R().
			SetContext(ctx).
			SetError(apiErr)
		if result != nil {
			req.SetResult(result)
		}
		if body != nil {
			req.SetHeader("Content-Type", "application/json").SetBody(body)
		}
		if len(p.path) > 0 {
			req.SetPathParams(p.path)
		}
		if len(p.query) > 0 {
			req.SetQueryParams(p.query)
		}

		resp, err := req.Execute(method, path)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return err
		}

		if resp.IsError() {
			apiErr.Status = resp.StatusCode()
			if apiErr.Message == "" {
				apiErr.Message = http.StatusText(resp.StatusCode())
			}
			return apiErr
		}
		return nil
	})
}

// Login 登录，成功后Cookie Jar保存auth-token
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", reqParams{}, body, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Logout 登出
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", reqParams{}, nil, nil)
}

// UserInfo 当前登录用户
func (c *Client) UserInfo(ctx context.Context) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/user-info", reqParams{}, nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// GetProfile 获取资料
func (c *Client) GetProfile(ctx context.Context) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/profile", reqParams{}, nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// UpdateProfile 修改资料
func (c *Client) UpdateProfile(ctx context.Context, p Profile) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/profile", reqParams{}, p, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// ListBooks 全部图书列表
func (c *Client) ListBooks(ctx context.Context, q Query) (*Page, error) {
	var out Page
	if err := c.do(ctx, http.MethodGet, "/api/books", reqParams{query: q.Params()}, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyBooks 当前用户发布的图书
func (c *Client) MyBooks(ctx context.Context, q Query) (*Page, error) {
	var out Page
	if err := c.do(ctx, http.MethodGet, "/api/books/my-books", reqParams{query: q.Params()}, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetBook 图书详情
func (c *Client) GetBook(ctx context.Context, id string) (*Book, error) {
	var out struct {
		Book Book `json:"book"`
	}
	if err := c.do(ctx, http.MethodGet, bookPath, bookID(id), nil, &out); err != nil {
		return nil, err
	}
	return &out.Book, nil
}

// CreateBook 发布图书
func (c *Client) CreateBook(ctx context.Context, in NewBook) (*Book, error) {
	var out struct {
		Book Book `json:"book"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/books", reqParams{}, in, &out); err != nil {
		return nil, err
	}
	return &out.Book, nil
}

// UpdateBook 修改图书
func (c *Client) UpdateBook(ctx context.Context, id string, p BookPatch) (*Book, error) {
	var out struct {
		Book Book `json:"book"`
	}
	if err := c.do(ctx, http.MethodPut, bookPath, bookID(id), p, &out); err != nil {
		return nil, err
	}
	return &out.Book, nil
}

// DeleteBook 删除图书
func (c *Client) DeleteBook(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, bookPath, bookID(id), nil, nil)
}
