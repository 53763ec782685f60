package book

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// Categories 新建图书时允许的分类
var Categories = []string{"Technology", "Science", "History", "Fantasy", "Biography"}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// 错误中的字段名使用json tag,与请求体保持一致
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// 字段+规则 → 提示信息
var messages = map[string]string{
	"title.required":     "Title is required",
	"title.min":          "Title is required",
	"title.max":          "Title must be less than 200 characters",
	"author.min":         "Author is required",
	"author.max":         "Author must be less than 100 characters",
	"price.gt":           "Price must be greater than 0",
	"price.lte":          "Price must be less than $10,000",
	"category.required":  "Category is required",
	"category.min":       "Category is required",
	"category.max":       "Category must be less than 50 characters",
	"category.oneof":     "Category must be one of: " + strings.Join(Categories, ", "),
	"description.max":    "Description must be less than 2000 characters",
	"thumbnail.required": "Thumbnail must be a valid URL",
	"thumbnail.url":      "Thumbnail must be a valid URL",
}

func message(field, tag string) string {
	if msg, ok := messages[field+"."+tag]; ok {
		return msg
	}
	return "Invalid " + field
}

// ValidateDraft 校验新建输入,返回全部违规字段
func ValidateDraft(d Draft) error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.Wrap(err, "validate book")
	}

	details := make([]apperrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, apperrors.FieldError{
			Field:   fe.Field(),
			Message: message(fe.Field(), fe.Tag()),
		})
	}
	return apperrors.Validation(details)
}

// patchRules 部分更新时每个字段的规则
// 分类在更新时是自由文本,作者可编辑
var patchRules = []struct {
	field string
	rule  string
	value func(Patch) (interface{}, bool)
}{
	{"title", "min=1,max=200", func(p Patch) (interface{}, bool) { return deref(p.Title) }},
	{"author", "min=1,max=100", func(p Patch) (interface{}, bool) { return deref(p.Author) }},
	{"price", "gt=0,lte=10000", func(p Patch) (interface{}, bool) { return deref(p.Price) }},
	{"category", "min=1,max=50", func(p Patch) (interface{}, bool) { return deref(p.Category) }},
	{"description", "max=2000", func(p Patch) (interface{}, bool) { return deref(p.Description) }},
	{"thumbnail", "url", func(p Patch) (interface{}, bool) { return deref(p.Thumbnail) }},
}

func deref[T any](p *T) (interface{}, bool) {
	if p == nil {
		return nil, false
	}
	return *p, true
}

// ValidatePatch 只校验提供了的字段,返回全部违规字段
func ValidatePatch(p Patch) error {
	var details []apperrors.FieldError
	for _, r := range patchRules {
		val, ok := r.value(p)
		if !ok {
			continue
		}
		err := validate.Var(val, r.rule)
		if err == nil {
			continue
		}
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return apperrors.Wrap(err, "validate book")
		}
		// 每个字段只报告第一条违规
		details = append(details, apperrors.FieldError{
			Field:   r.field,
			Message: message(r.field, verrs[0].Tag()),
		})
	}

	if len(details) > 0 {
		return apperrors.Validation(details)
	}
	return nil
}
