package dto

import (
	appuser "github.com/xiebiao/bookshop/internal/application/user"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" example:"admin@books.com"`
	Password string `json:"password" example:"admin123"`
}

// UpdateProfileRequest 资料修改请求
type UpdateProfileRequest struct {
	Name  string `json:"name" example:"Admin User"`
	Email string `json:"email" example:"admin@books.com"`
}

// UserResponse 用户响应
type UserResponse struct {
	User appuser.UserDTO `json:"user"`
}
