package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appuser "github.com/xiebiao/bookshop/internal/application/user"
	"github.com/xiebiao/bookshop/internal/interface/http/dto"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/logger"
	"github.com/xiebiao/bookshop/pkg/response"
)

// CookieConfig 认证Cookie属性
type CookieConfig struct {
	Name   string
	MaxAge int // 秒
	Secure bool
}

// UserHandler 用户HTTP处理器
// 设计说明：
// 1. Handler只负责HTTP相关的事情：解析请求、读写Cookie、调用应用层、返回响应
// 2. 不包含业务逻辑（业务逻辑在domain和application层）
// 3. 使用依赖注入，便于测试
type UserHandler struct {
	loginUseCase         *appuser.LoginUseCase
	logoutUseCase        *appuser.LogoutUseCase
	userInfoUseCase      *appuser.UserInfoUseCase
	getProfileUseCase    *appuser.GetProfileUseCase
	updateProfileUseCase *appuser.UpdateProfileUseCase
	cookie               CookieConfig
}

// NewUserHandler 创建用户处理器
func NewUserHandler(
	loginUseCase *appuser.LoginUseCase,
	logoutUseCase *appuser.LogoutUseCase,
	userInfoUseCase *appuser.UserInfoUseCase,
	getProfileUseCase *appuser.GetProfileUseCase,
	updateProfileUseCase *appuser.UpdateProfileUseCase,
	cookie CookieConfig,
) *UserHandler {
	return &UserHandler{
		loginUseCase:         loginUseCase,
		logoutUseCase:        logoutUseCase,
		userInfoUseCase:      userInfoUseCase,
		getProfileUseCase:    getProfileUseCase,
		updateProfileUseCase: updateProfileUseCase,
		cookie:               cookie,
	}
}

// Login 用户登录
// @Summary      用户登录
// @Description  验证邮箱密码，成功后写入HttpOnly的auth-token Cookie
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} dto.UserResponse
// @Failure      401 {object} response.ErrorBody "邮箱或密码错误"
// @Router       /api/auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	// 1. 参数绑定
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.ErrBindError)
		return
	}

	// 2. 调用应用层用例
	result, err := h.loginUseCase.Execute(c.Request.Context(), appuser.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	// 3. 写Cookie，Token不出现在响应体中
	h.setCookie(c, result.Token, h.cookie.MaxAge)

	response.Success(c, dto.UserResponse{User: result.User})
}

// Logout 用户登出
// @Summary      用户登出
// @Description  清除认证Cookie并吊销当前Token，未登录也返回成功
// @Tags         认证
// @Produce      json
// @Success      200 {object} response.SuccessBody
// @Router       /api/auth/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	token, expiresAt := middleware.GetToken(c)
	err := h.logoutUseCase.Execute(c.Request.Context(), appuser.LogoutRequest{
		UserID:    middleware.GetUserID(c),
		Token:     token,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		// 会话存储故障不阻止客户端登出
		logger.Log.Warnw("logout cleanup failed", "user_id", middleware.GetUserID(c), "error", err)
	}

	h.setCookie(c, "", -1)
	response.OK(c)
}

// UserInfo 当前登录用户
// @Summary      当前登录用户
// @Tags         认证
// @Produce      json
// @Security     CookieAuth
// @Success      200 {object} appuser.UserInfoResponse
// @Failure      401 {object} response.ErrorBody "未登录"
// @Router       /api/auth/user-info [get]
func (h *UserHandler) UserInfo(c *gin.Context) {
	result, err := h.userInfoUseCase.Execute(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetProfile 查看个人资料
// @Summary      查看个人资料
// @Tags         个人资料
// @Produce      json
// @Security     CookieAuth
// @Success      200 {object} dto.UserResponse
// @Failure      401 {object} response.ErrorBody "未登录"
// @Router       /api/profile [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	result, err := h.getProfileUseCase.Execute(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.UserResponse{User: *result})
}

// UpdateProfile 修改个人资料
// @Summary      修改个人资料
// @Description  名称2-50个字符，邮箱格式合法
// @Tags         个人资料
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        request body dto.UpdateProfileRequest true "资料"
// @Success      200 {object} dto.UserResponse
// @Failure      400 {object} response.ErrorBody "参数错误"
// @Failure      401 {object} response.ErrorBody "未登录"
// @Router       /api/profile [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.ErrBindError)
		return
	}

	result, err := h.updateProfileUseCase.Execute(c.Request.Context(), appuser.UpdateProfileRequest{
		UserID: middleware.MustGetUserID(c),
		Name:   req.Name,
		Email:  req.Email,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.UserResponse{User: *result})
}

// setCookie 写入或清除认证Cookie（maxAge<0表示清除）
func (h *UserHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", "", h.cookie.Secure, true)
}
