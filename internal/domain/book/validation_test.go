package book

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

func validDraft() Draft {
	return Draft{
		Title:       "Clean Architecture",
		Price:       29.99,
		Category:    "Technology",
		Description: "A craftsman's guide",
		Thumbnail:   "https://via.placeholder.com/150",
	}
}

func detailFields(t *testing.T, err error) map[string]string {
	t.Helper()
	appErr := apperrors.GetAppError(err)
	require.Equal(t, apperrors.ErrCodeInvalidParams, appErr.Code)
	out := make(map[string]string, len(appErr.Details))
	for _, d := range appErr.Details {
		out[d.Field] = d.Message
	}
	return out
}

func TestValidateDraft(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *Draft)
		want   map[string]string
	}{
		{"合法输入", func(d *Draft) {}, nil},
		{"描述可选", func(d *Draft) { d.Description = "" }, nil},
		{"缺少标题", func(d *Draft) { d.Title = "" }, map[string]string{"title": "Title is required"}},
		{"标题过长", func(d *Draft) { d.Title = strings.Repeat("a", 201) }, map[string]string{"title": "Title must be less than 200 characters"}},
		{"价格为0", func(d *Draft) { d.Price = 0 }, map[string]string{"price": "Price must be greater than 0"}},
		{"价格超上限", func(d *Draft) { d.Price = 10000.01 }, map[string]string{"price": "Price must be less than $10,000"}},
		{"非法分类", func(d *Draft) { d.Category = "Fiction" }, map[string]string{"category": "Category must be one of: Technology, Science, History, Fantasy, Biography"}},
		{"描述过长", func(d *Draft) { d.Description = strings.Repeat("x", 2001) }, map[string]string{"description": "Description must be less than 2000 characters"}},
		{"非法URL", func(d *Draft) { d.Thumbnail = "not a url" }, map[string]string{"thumbnail": "Thumbnail must be a valid URL"}},
		{
			name: "列出全部违规字段",
			mutate: func(d *Draft) {
				*d = Draft{}
			},
			want: map[string]string{
				"title":     "Title is required",
				"price":     "Price must be greater than 0",
				"category":  "Category is required",
				"thumbnail": "Thumbnail must be a valid URL",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)

			err := ValidateDraft(d)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.want, detailFields(t, err))
		})
	}
}

func TestValidateDraft_BoundaryPrice(t *testing.T) {
	d := validDraft()
	d.Price = 10000
	assert.NoError(t, ValidateDraft(d))

	d.Title = strings.Repeat("书", 200)
	assert.NoError(t, ValidateDraft(d), "长度按字符计算")
}

func TestValidatePatch(t *testing.T) {
	tests := []struct {
		name  string
		patch Patch
		want  map[string]string
	}{
		{"空Patch", Patch{}, nil},
		{"更新时分类为自由文本", Patch{Category: ptr("Fiction")}, nil},
		{"作者可编辑", Patch{Author: ptr("Someone Else")}, nil},
		{"空标题", Patch{Title: ptr("")}, map[string]string{"title": "Title is required"}},
		{"空作者", Patch{Author: ptr("")}, map[string]string{"author": "Author is required"}},
		{"作者过长", Patch{Author: ptr(strings.Repeat("a", 101))}, map[string]string{"author": "Author must be less than 100 characters"}},
		{"分类过长", Patch{Category: ptr(strings.Repeat("c", 51))}, map[string]string{"category": "Category must be less than 50 characters"}},
		{"负价格", Patch{Price: ptr(-1.0)}, map[string]string{"price": "Price must be greater than 0"}},
		{
			name:  "多个字段同时违规",
			patch: Patch{Title: ptr(""), Price: ptr(20000.0), Thumbnail: ptr("ftp")},
			want: map[string]string{
				"title":     "Title is required",
				"price":     "Price must be less than $10,000",
				"thumbnail": "Thumbnail must be a valid URL",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePatch(tt.patch)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.want, detailFields(t, err))
		})
	}
}
