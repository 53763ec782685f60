package user

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookshop/internal/domain/session"
	"github.com/xiebiao/bookshop/internal/domain/user"
	"github.com/xiebiao/bookshop/pkg/tracing"
)

// UserInfoUseCase 当前登录用户信息
// 会话被删除（强制下线）时即使Token未过期也返回未登录
type UserInfoUseCase struct {
	userService  user.Service
	sessionStore session.Store
}

// NewUserInfoUseCase 创建用例
func NewUserInfoUseCase(userService user.Service, sessionStore session.Store) *UserInfoUseCase {
	return &UserInfoUseCase{
		userService:  userService,
		sessionStore: sessionStore,
	}
}

// UserInfoResponse 用户信息和登录时间
type UserInfoResponse struct {
	User    UserDTO   `json:"user"`
	LoginAt time.Time `json:"loginAt"`
}

// Execute 执行查询
func (uc *UserInfoUseCase) Execute(ctx context.Context, userID string) (resp *UserInfoResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "user.Info")
	defer func() { tracing.EndSpan(span, err) }()
	span.SetAttributes(attribute.String("user.id", userID))

	info, err := uc.sessionStore.GetSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	u, err := uc.userService.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &UserInfoResponse{User: ToDTO(u), LoginAt: info.LoginAt}, nil
}

// GetProfileUseCase 查看个人资料
type GetProfileUseCase struct {
	userService user.Service
}

// NewGetProfileUseCase 创建用例
func NewGetProfileUseCase(userService user.Service) *GetProfileUseCase {
	return &GetProfileUseCase{userService: userService}
}

// Execute 执行查询
func (uc *GetProfileUseCase) Execute(ctx context.Context, userID string) (*UserDTO, error) {
	u, err := uc.userService.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := ToDTO(u)
	return &out, nil
}

// UpdateProfileUseCase 修改个人资料
// 已发布图书的作者名在创建时确定，改名不影响已有图书
type UpdateProfileUseCase struct {
	userService user.Service
}

// NewUpdateProfileUseCase 创建用例
func NewUpdateProfileUseCase(userService user.Service) *UpdateProfileUseCase {
	return &UpdateProfileUseCase{userService: userService}
}

// UpdateProfileRequest 资料修改请求
type UpdateProfileRequest struct {
	UserID string
	Name   string
	Email  string
}

// Execute 执行修改
func (uc *UpdateProfileUseCase) Execute(ctx context.Context, req UpdateProfileRequest) (dto *UserDTO, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "user.UpdateProfile")
	defer func() { tracing.EndSpan(span, err) }()
	span.SetAttributes(attribute.String("user.id", req.UserID))

	u, err := uc.userService.UpdateProfile(ctx, req.UserID, user.ProfileInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		return nil, err
	}

	out := ToDTO(u)
	return &out, nil
}
