package book

import (
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.ErrBookNotFound

	// ErrUnauthorized 非创建者无权修改或删除此图书
	ErrUnauthorized = apperrors.New(apperrors.ErrCodeForbidden, "You can only modify your own books")
)
