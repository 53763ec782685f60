package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/bookshop/internal/app"
	"github.com/xiebiao/bookshop/internal/domain/user"
	"github.com/xiebiao/bookshop/internal/infrastructure/config"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/memory"
)

type bookJSON struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Thumbnail   string  `json:"thumbnail"`
	CreatedBy   string  `json:"createdBy"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

type pageJSON struct {
	Items    []bookJSON `json:"items"`
	Total    int        `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"pageSize"`
}

type errorJSON struct {
	Error   string `json:"error"`
	Details []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"details"`
}

type testServer struct {
	t   *testing.T
	app *app.App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Server.Mode = "test"
	cfg.Auth.BcryptCost = bcrypt.MinCost

	a, err := app.New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return &testServer{t: t, app: a}
}

// do 发送请求，cookie非空时携带认证Cookie
func (s *testServer) do(method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	s.app.Engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(email, password string) *http.Cookie {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": password}, nil)
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	for _, c := range w.Result().Cookies() {
		if c.Name == s.app.Config.Auth.CookieName {
			return c
		}
	}
	s.t.Fatal("auth cookie not set")
	return nil
}

func (s *testServer) addUser(id, name, email, password string) {
	s.t.Helper()
	hash, err := user.HashPassword(password, bcrypt.MinCost)
	require.NoError(s.t, err)
	require.NoError(s.t, s.app.Users.Create(context.Background(), user.NewUser(id, name, email, hash, time.Now().UTC())))
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func validBook() map[string]interface{} {
	return map[string]interface{}{
		"title":       "Clean Code",
		"price":       29.99,
		"category":    "Technology",
		"description": "A handbook of agile software craftsmanship",
		"thumbnail":   "https://via.placeholder.com/150",
	}
}

func TestOperationalEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/ping", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = s.do(http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bookshop_books_stored")

	w = s.do(http.MethodGet, "/swagger/doc.json", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/books/my-books")

	w = s.do(http.MethodGet, "/api/nowhere", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListBooks(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name    string
		path    string
		wantIDs []string
		total   int
	}{
		{name: "默认参数", path: "/api/books", wantIDs: []string{"3", "1", "2"}, total: 3},
		{name: "降序", path: "/api/books?sort=desc", wantIDs: []string{"2", "1", "3"}, total: 3},
		{name: "分页", path: "/api/books?page=2&pageSize=2", wantIDs: []string{"2"}, total: 3},
		{name: "搜索", path: "/api/books?search=GATSBY", wantIDs: []string{"1"}, total: 1},
		{name: "分类加价格", path: "/api/books?category=Fiction&minPrice=13", wantIDs: []string{"2"}, total: 1},
		{name: "只有上限", path: "/api/books?maxPrice=13", wantIDs: []string{"1"}, total: 1},
		{name: "非法数字按未传处理", path: "/api/books?page=abc&minPrice=x", wantIDs: []string{"3", "1", "2"}, total: 3},
		{name: "pageSize为0提升为1", path: "/api/books?pageSize=0", wantIDs: []string{"3"}, total: 3},
		{name: "pageSize为负数提升为1", path: "/api/books?page=2&pageSize=-4", wantIDs: []string{"1"}, total: 3},
		{name: "pageSize非数字取默认值", path: "/api/books?pageSize=abc", wantIDs: []string{"3", "1", "2"}, total: 3},
		{name: "没有匹配", path: "/api/books?search=zzz", wantIDs: []string{}, total: 0},
		{name: "空格按字面匹配", path: "/api/books?search=%20", wantIDs: []string{"1", "2"}, total: 2},
		{name: "首尾空格保留", path: "/api/books?search=%20great%20", wantIDs: []string{"1"}, total: 1},
		{name: "尾部空格不匹配结尾", path: "/api/books?search=1984%20", wantIDs: []string{}, total: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodGet, tt.path, nil, nil)
			require.Equal(t, http.StatusOK, w.Code)
			page := decode[pageJSON](t, w)
			assert.Equal(t, tt.total, page.Total)

			ids := make([]string, 0, len(page.Items))
			for _, b := range page.Items {
				ids = append(ids, b.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}

	// items为空时输出[]
	w := s.do(http.MethodGet, "/api/books?search=zzz", nil, nil)
	assert.Contains(t, w.Body.String(), `"items":[]`)
}

func TestGetBook_NotFound(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/books/missing", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Book not found"}`, w.Body.String())
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/auth/login", map[string]string{"email": memory.DemoUserEmail, "password": "nope"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Invalid credentials"}`, w.Body.String())

	w = s.do(http.MethodPost, "/api/auth/login", map[string]string{"email": memory.DemoUserEmail, "password": memory.DemoUserPassword}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "token")

	out := decode[struct {
		User struct {
			ID    string `json:"id"`
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"user"`
	}](t, w)
	assert.Equal(t, memory.DemoUserID, out.User.ID)
	assert.Equal(t, memory.DemoUserName, out.User.Name)

	setCookie := w.Header().Get("Set-Cookie")
	assert.True(t, strings.HasPrefix(setCookie, "auth-token="))
	assert.Contains(t, setCookie, "HttpOnly")
}

func TestRequireAuth(t *testing.T) {
	s := newTestServer(t)

	for _, r := range []struct{ method, path string }{
		{http.MethodPost, "/api/books"},
		{http.MethodPut, "/api/books/1"},
		{http.MethodDelete, "/api/books/1"},
		{http.MethodGet, "/api/books/my-books"},
		{http.MethodGet, "/api/profile"},
		{http.MethodGet, "/api/auth/user-info"},
	} {
		w := s.do(r.method, r.path, validBook(), nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", r.method, r.path)
	}

	// 伪造Cookie
	w := s.do(http.MethodGet, "/api/profile", nil, &http.Cookie{Name: "auth-token", Value: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateBook(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(memory.DemoUserEmail, memory.DemoUserPassword)

	w := s.do(http.MethodPost, "/api/books", validBook(), cookie)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[struct {
		Book bookJSON `json:"book"`
	}](t, w).Book
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, memory.DemoUserName, created.Author)
	assert.Equal(t, memory.DemoUserID, created.CreatedBy)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	// 创建后立即查询，字段一致
	w = s.do(http.MethodGet, "/api/books/"+created.ID, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	fetched := decode[struct {
		Book bookJSON `json:"book"`
	}](t, w).Book
	assert.Equal(t, created, fetched)

	w = s.do(http.MethodGet, "/api/books/my-books", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 4, decode[pageJSON](t, w).Total)
}

func TestCreateBook_AuthorAfterRename(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(memory.DemoUserEmail, memory.DemoUserPassword)

	w := s.do(http.MethodPut, "/api/profile", map[string]string{"name": "Jane Reader", "email": memory.DemoUserEmail}, cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// 改名后沿用原Cookie发布，作者取最新名称
	w = s.do(http.MethodPost, "/api/books", validBook(), cookie)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[struct {
		Book bookJSON `json:"book"`
	}](t, w).Book
	assert.Equal(t, "Jane Reader", created.Author)
	assert.Equal(t, memory.DemoUserID, created.CreatedBy)
}

func TestCreateBook_Validation(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(memory.DemoUserEmail, memory.DemoUserPassword)

	body := validBook()
	delete(body, "title")
	body["category"] = "Cooking"

	w := s.do(http.MethodPost, "/api/books", body, cookie)
	require.Equal(t, http.StatusBadRequest, w.Code)
	out := decode[errorJSON](t, w)
	assert.Equal(t, "Validation failed", out.Error)

	fields := map[string]string{}
	for _, d := range out.Details {
		fields[d.Field] = d.Message
	}
	assert.Equal(t, "Title is required", fields["title"])
	assert.Contains(t, fields, "category")
	assert.Equal(t, 3, s.app.Books.Len())

	// 请求体不是JSON
	req := httptest.NewRequest(http.MethodPost, "/api/books", strings.NewReader("{"))
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	s.app.Engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateBook(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(memory.DemoUserEmail, memory.DemoUserPassword)

	body := map[string]interface{}{
		"title":     "The Great Gatsby (Annotated)",
		"id":        "hijacked",
		"createdBy": "someone-else",
	}
	w := s.do(http.MethodPut, "/api/books/1", body, cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[struct {
		Book bookJSON `json:"book"`
	}](t, w).Book
	assert.Equal(t, "1", updated.ID)
	assert.Equal(t, memory.DemoUserID, updated.CreatedBy)
	assert.Equal(t, "The Great Gatsby (Annotated)", updated.Title)
	assert.Equal(t, 12.99, updated.Price)

	w = s.do(http.MethodPut, "/api/books/missing", body, cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPut, "/api/books/1", map[string]interface{}{"price": -5}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOwnership(t *testing.T) {
	s := newTestServer(t)
	s.addUser("2", "Reader", "reader@books.com", "reader123")
	other := s.login("reader@books.com", "reader123")

	w := s.do(http.MethodPut, "/api/books/1", map[string]interface{}{"title": "Mine now"}, other)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"You can only modify your own books"}`, w.Body.String())

	w = s.do(http.MethodDelete, "/api/books/1", nil, other)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, 3, s.app.Books.Len())

	w = s.do(http.MethodGet, "/api/books/my-books", nil, other)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decode[pageJSON](t, w).Total)
}

func TestDeleteBook(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(memory.DemoUserEmail, memory.DemoUserPassword)

	w := s.do(http.MethodDelete, "/api/books/missing", nil, cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Book not found"}`, w.Body.String())
	assert.Equal(t, 3, s.app.Books.Len())

	w = s.do(http.MethodDelete, "/api/books/2", nil, cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
	assert.Equal(t, 2, s.app.Books.Len())

	w = s.do(http.MethodGet, "/api/books/2", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProfile(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(memory.DemoUserEmail, memory.DemoUserPassword)

	w := s.do(http.MethodGet, "/api/profile", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), memory.DemoUserEmail)

	w = s.do(http.MethodPut, "/api/profile", map[string]string{"name": "J", "email": "nope"}, cookie)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, decode[errorJSON](t, w).Details, 2)

	w = s.do(http.MethodPut, "/api/profile", map[string]string{"name": "Jane Reader", "email": "jane@books.com"}, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Jane Reader"`)

	w = s.do(http.MethodGet, "/api/auth/user-info", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "jane@books.com")
	assert.Contains(t, w.Body.String(), "loginAt")
}

func TestLogout(t *testing.T) {
	s := newTestServer(t)

	// 未登录也可以登出
	w := s.do(http.MethodPost, "/api/auth/logout", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	cookie := s.login(memory.DemoUserEmail, memory.DemoUserPassword)
	w = s.do(http.MethodPost, "/api/auth/logout", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")

	// 旧Token已吊销
	w = s.do(http.MethodGet, "/api/profile", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBearerTokenFallback(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(memory.DemoUserEmail, memory.DemoUserPassword)

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer "+cookie.Value)
	w := httptest.NewRecorder()
	s.app.Engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
