package user

import (
	"context"
	"errors"
	"time"

	"github.com/xiebiao/bookshop/internal/domain/session"
	"github.com/xiebiao/bookshop/internal/domain/user"
	"github.com/xiebiao/bookshop/pkg/jwt"
	"github.com/xiebiao/bookshop/pkg/logger"
	"github.com/xiebiao/bookshop/pkg/metrics"
	"github.com/xiebiao/bookshop/pkg/tracing"
)

// LoginUseCase 用户登录用例
// 设计说明：
// 1. 验证邮箱密码
// 2. 签发JWT，由HTTP层写入auth-token Cookie
// 3. 保存会话（Redis或内存）
type LoginUseCase struct {
	userService  user.Service
	jwtManager   *jwt.Manager
	sessionStore session.Store
}

// NewLoginUseCase 创建登录用例
func NewLoginUseCase(
	userService user.Service,
	jwtManager *jwt.Manager,
	sessionStore session.Store,
) *LoginUseCase {
	return &LoginUseCase{
		userService:  userService,
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
	}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string
	Password string
}

// LoginResponse 登录响应，Token不进入响应体
type LoginResponse struct {
	User      UserDTO
	Token     string
	ExpiresAt time.Time
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (resp *LoginResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "user.Login")
	defer func() {
		metrics.ObserveLogin(err == nil)
		tracing.EndSpan(span, err)
	}()

	// 1. 验证邮箱密码（调用领域服务）
	u, err := uc.userService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	// 2. 签发Token
	token, err := uc.jwtManager.GenerateToken(u.ID, u.Email, u.Name)
	if err != nil {
		return nil, err
	}

	// 3. 保存会话，会话有效期与Token一致
	info := session.Info{
		UserID:    u.ID,
		Email:     u.Email,
		LoginAt:   time.Now().UTC(),
		ExpiresAt: token.ExpiresAt,
	}
	if err := uc.sessionStore.SaveSession(ctx, info, uc.jwtManager.Expire()); err != nil {
		// 会话保存失败不影响登录
		logger.Log.Warnw("save session failed", "user_id", u.ID, "error", err)
	}

	return &LoginResponse{
		User:      ToDTO(u),
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt,
	}, nil
}

// LogoutUseCase 用户登出用例
type LogoutUseCase struct {
	sessionStore session.Store
	now          func() time.Time
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(sessionStore session.Store) *LogoutUseCase {
	return &LogoutUseCase{
		sessionStore: sessionStore,
		now:          time.Now,
	}
}

// LogoutRequest 登出请求，未登录时字段为空
type LogoutRequest struct {
	UserID    string
	Token     string
	ExpiresAt time.Time // Token过期时间，决定黑名单TTL
}

// Execute 执行登出
// 未登录也返回成功，Cookie由HTTP层清除
func (uc *LogoutUseCase) Execute(ctx context.Context, req LogoutRequest) (err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "user.Logout")
	defer func() { tracing.EndSpan(span, err) }()

	if req.UserID == "" {
		return nil
	}

	// 1. 删除会话
	delErr := uc.sessionStore.DeleteSession(ctx, req.UserID)

	// 2. 将Token加入黑名单，会话删除失败也要执行，否则Token在过期前仍可使用
	var blErr error
	if req.Token != "" {
		ttl := req.ExpiresAt.Sub(uc.now())
		blErr = uc.sessionStore.AddToBlacklist(ctx, req.Token, ttl)
	}

	return errors.Join(delErr, blErr)
}
