package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
		wantDetails int
	}{
		{
			name:        "图书不存在",
			err:         apperrors.ErrBookNotFound,
			wantStatus:  http.StatusNotFound,
			wantMessage: "Book not found",
		},
		{
			name:        "非所有者",
			err:         apperrors.ErrForbidden,
			wantStatus:  http.StatusForbidden,
			wantMessage: "Forbidden",
		},
		{
			name: "校验失败携带details",
			err: apperrors.Validation([]apperrors.FieldError{
				{Field: "title", Message: "Title is required"},
				{Field: "price", Message: "Price must be greater than 0"},
			}),
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Validation failed",
			wantDetails: 2,
		},
		{
			name:        "未知错误隐藏内部信息",
			err:         errors.New("dial tcp 127.0.0.1:6379: connection refused"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newContext()
			Error(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)

			var body ErrorBody
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantMessage, body.Error)
			assert.Len(t, body.Details, tt.wantDetails)
			assert.NotContains(t, w.Body.String(), "connection refused")
		})
	}
}

func TestOK(t *testing.T) {
	c, w := newContext()
	OK(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
}

func TestCreated(t *testing.T) {
	c, w := newContext()
	Created(c, gin.H{"book": gin.H{"id": "abc"}})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"book":{"id":"abc"}}`, w.Body.String())
}

func TestNewPageData_EmptyItems(t *testing.T) {
	page := NewPageData[string](nil, 3, 5, 2)

	raw, err := json.Marshal(page)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"total":3,"page":5,"pageSize":2}`, string(raw))
}
