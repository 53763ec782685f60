package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code用于区分错误类型，HTTP状态码由Code所在区间推导（见HTTPStatus）
// 2. Message是返回给客户端的提示信息
// 3. Details只在参数校验失败时携带，逐字段列出违规项
// 4. Err是内部错误，仅记录到日志，不返回给客户端
type AppError struct {
	Code    int          `json:"code"`              // 业务错误码
	Message string       `json:"message"`           // 用户友好的错误提示
	Details []FieldError `json:"details,omitempty"` // 字段级校验错误
	Err     error        `json:"-"`                 // 内部错误（不序列化）
}

// FieldError 单个字段的校验错误
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	if len(e.Details) > 0 {
		parts := make([]string, 0, len(e.Details))
		for _, d := range e.Details {
			parts = append(parts, d.Field+": "+d.Message)
		}
		return fmt.Sprintf("[%d] %s (%s)", e.Code, e.Message, strings.Join(parts, "; "))
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码判等，预定义错误与带Details的副本视为同一类
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// HTTPStatus 根据错误码区间推导HTTP状态码
// 规则：
// - 40104        → 403（非资源所有者）
// - 401xx        → 401
// - 404xx        → 404
// - 400xx/409xx  → 400
// - 其他         → 500
func (e *AppError) HTTPStatus() int {
	switch {
	case e.Code == ErrCodeForbidden:
		return http.StatusForbidden
	case e.Code >= 40100 && e.Code < 40200:
		return http.StatusUnauthorized
	case e.Code >= 40400 && e.Code < 40500:
		return http.StatusNotFound
	case e.Code >= 40000 && e.Code < 40100, e.Code >= 40900 && e.Code < 41000:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Validation 创建参数校验错误，details列出全部违规字段
func Validation(details []FieldError) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidParams,
		Message: "Validation failed",
		Details: details,
	}
}

// Wrap 包装系统错误（如Redis错误、网络错误）
// 用途：将底层错误转换为业务错误，隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：
// - 4xxxx: 客户端错误（参数错误、鉴权失败、资源不存在）
// - 5xxxx: 服务端错误（缓存异常、消息发布失败）

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal   = 50000 // 内部错误
	ErrCodeRedisError = 50002 // Redis错误

	// 认证授权错误（40100-40199）
	ErrCodeUnauthorized       = 40100 // 未登录
	ErrCodeInvalidToken       = 40101 // Token无效
	ErrCodeTokenExpired       = 40102 // Token过期
	ErrCodeInvalidCredentials = 40103 // 邮箱或密码错误
	ErrCodeForbidden          = 40104 // 无权限

	// 资源错误（40400-40499）
	ErrCodeNotFound     = 40400 // 资源不存在(通用)
	ErrCodeUserNotFound = 40401 // 用户不存在
	ErrCodeBookNotFound = 40402 // 图书不存在

	// 业务规则错误（40000-40099）
	ErrCodeBusinessError  = 40000 // 业务错误(通用)
	ErrCodeEmailDuplicate = 40003 // 邮箱已存在

	// 参数错误（40900-40999）
	ErrCodeInvalidParams = 40900 // 参数错误
	ErrCodeBindError     = 40901 // 参数绑定失败
)

// =========================================
// 预定义错误（避免每次都New）
// =========================================

var (
	// 系统错误
	ErrInternal   = New(ErrCodeInternal, "Internal server error")
	ErrRedisError = New(ErrCodeRedisError, "Session store unavailable")

	// 认证授权
	ErrUnauthorized       = New(ErrCodeUnauthorized, "Unauthorized")
	ErrInvalidToken       = New(ErrCodeInvalidToken, "Invalid token")
	ErrTokenExpired       = New(ErrCodeTokenExpired, "Token expired")
	ErrInvalidCredentials = New(ErrCodeInvalidCredentials, "Invalid credentials")
	ErrForbidden          = New(ErrCodeForbidden, "Forbidden")

	// 资源不存在
	ErrNotFound     = New(ErrCodeNotFound, "Not found")
	ErrUserNotFound = New(ErrCodeUserNotFound, "User not found")
	ErrBookNotFound = New(ErrCodeBookNotFound, "Book not found")

	// 业务规则
	ErrEmailDuplicate = New(ErrCodeEmailDuplicate, "Email already in use")

	// 参数错误
	ErrInvalidParams = New(ErrCodeInvalidParams, "Invalid parameters")
	ErrBindError     = New(ErrCodeBindError, "Invalid request body")
)

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "Internal server error")
}
