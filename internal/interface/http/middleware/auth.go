package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookshop/internal/domain/session"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/jwt"
	"github.com/xiebiao/bookshop/pkg/logger"
	"github.com/xiebiao/bookshop/pkg/response"
)

// Context键
const (
	ctxKeyUserID   = "user_id"
	ctxKeyEmail    = "email"
	ctxKeyToken    = "token"
	ctxKeyTokenExp = "token_exp"
)

// AuthMiddleware 认证中间件
// 设计说明：
// 1. 优先从auth-token Cookie提取Token，其次是Authorization: Bearer头
// 2. 验证Token签名和有效期
// 3. 检查Token黑名单（已登出的Token）
// 4. 将用户身份注入Context，领域服务据此做所有权校验
type AuthMiddleware struct {
	jwtManager   *jwt.Manager
	sessionStore session.Store
	cookieName   string
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwtManager *jwt.Manager, sessionStore session.Store, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
		cookieName:   cookieName,
	}
}

// CookieName 认证Cookie名
func (m *AuthMiddleware) CookieName() string {
	return m.cookieName
}

// RequireAuth 要求登录
// 使用方式：
//
//	authorized := r.Group("/api")
//	authorized.Use(authMiddleware.RequireAuth())
//	authorized.GET("/profile", handler.GetProfile)
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := m.authenticate(c); err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalAuth 可选登录
// 有合法Token则注入身份，没有或无效则作为匿名用户继续
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := m.authenticate(c); err != nil && !errors.Is(err, apperrors.ErrUnauthorized) {
			logger.Log.Debugw("optional auth ignored invalid token", "path", c.FullPath(), "error", err)
		}
		c.Next()
	}
}

// authenticate 校验Token并注入身份
func (m *AuthMiddleware) authenticate(c *gin.Context) error {
	// 1. 提取Token
	token := m.extractToken(c)
	if token == "" {
		return apperrors.ErrUnauthorized
	}

	// 2. 验证Token并解析Claims（自动区分过期和无效）
	claims, err := m.jwtManager.ParseToken(token)
	if err != nil {
		return err
	}

	// 3. 检查黑名单（用户已登出）
	revoked, err := m.sessionStore.IsInBlacklist(c.Request.Context(), token)
	if err != nil {
		return err
	}
	if revoked {
		return apperrors.ErrTokenExpired
	}

	// 4. 注入Context
	c.Set(ctxKeyUserID, claims.UserID)
	c.Set(ctxKeyEmail, claims.Email)
	c.Set(ctxKeyToken, token)
	if claims.ExpiresAt != nil {
		c.Set(ctxKeyTokenExp, claims.ExpiresAt.Time)
	}
	return nil
}

func (m *AuthMiddleware) extractToken(c *gin.Context) string {
	if v, err := c.Cookie(m.cookieName); err == nil && v != "" {
		return v
	}

	// 格式：Authorization: Bearer <token>
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// =========================================
// Context辅助函数（供Handler使用）
// =========================================

// GetUserID 从Context获取当前登录用户ID，未登录返回空串
func GetUserID(c *gin.Context) string {
	return c.GetString(ctxKeyUserID)
}

// GetEmail 从Context获取当前登录用户邮箱
func GetEmail(c *gin.Context) string {
	return c.GetString(ctxKeyEmail)
}

// GetToken 当前请求使用的Token及其过期时间
func GetToken(c *gin.Context) (string, time.Time) {
	return c.GetString(ctxKeyToken), c.GetTime(ctxKeyTokenExp)
}

// MustGetUserID 从Context获取用户ID（如果不存在则panic）
// 说明：用于已经通过RequireAuth中间件的Handler
func MustGetUserID(c *gin.Context) string {
	userID := GetUserID(c)
	if userID == "" {
		panic("user_id not found in context")
	}
	return userID
}
