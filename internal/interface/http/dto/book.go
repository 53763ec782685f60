package dto

import (
	appbook "github.com/xiebiao/bookshop/internal/application/book"
)

// CreateBookRequest 发布图书请求
// 字段规则在领域层校验，这里只负责JSON绑定，便于返回逐字段的错误信息
type CreateBookRequest struct {
	Title       string  `json:"title" example:"Clean Code"`
	Price       float64 `json:"price" example:"29.99"`
	Category    string  `json:"category" example:"Technology"`
	Description string  `json:"description" example:"A handbook of agile software craftsmanship"`
	Thumbnail   string  `json:"thumbnail" example:"https://via.placeholder.com/150"`
}

// UpdateBookRequest 修改图书请求
// 只有出现在请求体中的字段会被修改；id/createdBy不在结构体中，传了也会被忽略
type UpdateBookRequest struct {
	Title       *string  `json:"title,omitempty"`
	Author      *string  `json:"author,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Description *string  `json:"description,omitempty"`
	Thumbnail   *string  `json:"thumbnail,omitempty"`
}

// BookResponse 单本图书响应
type BookResponse struct {
	Book appbook.BookDTO `json:"book"`
}

// BookListResponse 图书列表响应
type BookListResponse struct {
	Items    []appbook.BookDTO `json:"items"`
	Total    int               `json:"total" example:"3"`
	Page     int               `json:"page" example:"1"`
	PageSize int               `json:"pageSize" example:"12"`
}
