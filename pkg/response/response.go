package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/logger"
)

// ErrorBody 统一错误响应结构
// 设计说明：
// 1. 使用真实的HTTP状态码（由AppError.HTTPStatus推导）
// 2. Error是用户可读的提示信息
// 3. Details仅在参数校验失败时返回，逐字段说明
type ErrorBody struct {
	Error   string                 `json:"error" example:"Book not found"`
	Details []apperrors.FieldError `json:"details,omitempty"`
}

// SuccessBody 无数据的成功响应
type SuccessBody struct {
	Success bool `json:"success" example:"true"`
}

// Success 成功响应（200）
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 创建成功响应（201）
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// OK 返回{"success": true}
func OK(c *gin.Context) {
	c.JSON(http.StatusOK, SuccessBody{Success: true})
}

// Error 错误响应（自动处理AppError）
// 用法：
//
//	book, err := h.getBookUseCase.Execute(...)
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	// 提取AppError
	appErr := apperrors.GetAppError(err)
	status := appErr.HTTPStatus()

	// 记录详细错误到日志（包含内部错误）
	if appErr.Err != nil || status >= http.StatusInternalServerError {
		logger.Log.Errorw("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"code", appErr.Code,
			"error", appErr.Error(),
		)
	}
	_ = c.Error(appErr)

	// 5xx只返回通用提示，不泄露内部信息
	message := appErr.Message
	if status >= http.StatusInternalServerError {
		message = "Internal server error"
	}

	c.JSON(status, ErrorBody{
		Error:   message,
		Details: appErr.Details,
	})
}

// ErrorWithStatus 自定义状态码和消息
func ErrorWithStatus(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorBody{Error: message})
}

// =========================================
// 分页响应结构
// =========================================

// PageData 分页数据封装
type PageData[T any] struct {
	Items    []T `json:"items"`    // 数据列表
	Total    int `json:"total"`    // 过滤后的总记录数
	Page     int `json:"page"`     // 当前页码
	PageSize int `json:"pageSize"` // 每页大小
}

// NewPageData 创建分页数据（Items为nil时输出[]而不是null）
func NewPageData[T any](items []T, total, page, pageSize int) *PageData[T] {
	if items == nil {
		items = []T{}
	}
	return &PageData[T]{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
}
