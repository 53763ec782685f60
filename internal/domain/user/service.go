package user

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// Service 用户领域服务
// 设计说明：
// 1. 登录校验（bcrypt比对）与资料编辑规则都在这里
// 2. Service依赖Repository接口，不依赖具体实现（依赖倒置）
// 3. Service不处理HTTP请求和Cookie，只处理业务逻辑
type Service interface {
	// Login 用户登录，邮箱不存在或密码错误统一返回ErrInvalidCredentials
	Login(ctx context.Context, email, password string) (*User, error)

	// GetProfile 获取用户资料
	GetProfile(ctx context.Context, id string) (*User, error)

	// UpdateProfile 修改名称和邮箱
	UpdateProfile(ctx context.Context, id string, in ProfileInput) (*User, error)
}

// ProfileInput 资料编辑输入
type ProfileInput struct {
	Name  string `json:"name" validate:"min=2,max=50"`
	Email string `json:"email" validate:"required,email"`
}

var profileMessages = map[string]string{
	"name.min":       "Name must be at least 2 characters",
	"name.max":       "Name must be at most 50 characters",
	"email.required": "Please enter a valid email",
	"email.email":    "Please enter a valid email",
}

type service struct {
	repo     Repository
	validate *validator.Validate
	now      func() time.Time
}

// NewService 创建用户服务
func NewService(repo Repository) Service {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})
	return &service{
		repo:     repo,
		validate: v,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// HashPassword bcrypt加密密码
// cost每+1耗时翻倍，测试环境可以用bcrypt.MinCost
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", apperrors.Wrap(err, "hash password")
	}
	return string(hashed), nil
}

// Login 用户登录
// 业务规则：
// 1. 邮箱必须存在
// 2. 密码必须正确
// 两种失败返回同一个错误，避免暴露邮箱是否注册
func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	// 1. 根据邮箱查找用户
	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	// 2. 验证密码
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(err, "verify password")
	}

	return user, nil
}

// GetProfile 获取用户资料
func (s *service) GetProfile(ctx context.Context, id string) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateProfile 修改资料
// 业务规则：
// 1. 名称2-50个字符
// 2. 邮箱格式合法，且不能与其他用户重复
func (s *service) UpdateProfile(ctx context.Context, id string, in ProfileInput) (*User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	// 1. 参数校验
	if err := s.validateProfile(in); err != nil {
		return nil, err
	}

	// 2. 查询用户
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 3. 更新并持久化（邮箱唯一性由Repository保证）
	user.UpdateProfile(in.Name, in.Email, s.now())
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *service) validateProfile(in ProfileInput) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.Wrap(err, "validate profile")
	}

	details := make([]apperrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := profileMessages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = "Invalid " + fe.Field()
		}
		details = append(details, apperrors.FieldError{Field: fe.Field(), Message: msg})
	}
	return apperrors.Validation(details)
}
