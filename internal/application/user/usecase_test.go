package user_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	appuser "github.com/xiebiao/bookshop/internal/application/user"
	"github.com/xiebiao/bookshop/internal/domain/session"
	"github.com/xiebiao/bookshop/internal/domain/user"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/memory"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/jwt"
)

func newUserService(t *testing.T) user.Service {
	t.Helper()
	users, err := memory.SeedUsers(bcrypt.MinCost)
	require.NoError(t, err)
	return user.NewService(memory.NewUserRepository(users))
}

func TestLogin_Success(t *testing.T) {
	store := memory.NewSessionStore()
	jwtManager := jwt.NewManager("test-secret", time.Hour)
	uc := appuser.NewLoginUseCase(newUserService(t), jwtManager, store)
	ctx := context.Background()

	resp, err := uc.Execute(ctx, appuser.LoginRequest{
		Email:    memory.DemoUserEmail,
		Password: memory.DemoUserPassword,
	})
	require.NoError(t, err)
	assert.Equal(t, memory.DemoUserID, resp.User.ID)
	assert.Equal(t, memory.DemoUserName, resp.User.Name)
	assert.NotEmpty(t, resp.Token)

	// Token可解析出用户身份
	claims, err := jwtManager.ParseToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, memory.DemoUserID, claims.UserID)

	// 会话已保存
	info, err := store.GetSession(ctx, memory.DemoUserID)
	require.NoError(t, err)
	assert.Equal(t, memory.DemoUserEmail, info.Email)
	assert.Equal(t, resp.ExpiresAt.Unix(), info.ExpiresAt.Unix())
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := session.NewMockStore(ctrl)
	// 登录失败不写会话
	store.EXPECT().SaveSession(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	uc := appuser.NewLoginUseCase(newUserService(t), jwt.NewManager("test-secret", time.Hour), store)
	_, err := uc.Execute(context.Background(), appuser.LoginRequest{
		Email:    memory.DemoUserEmail,
		Password: "wrong",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	assert.Equal(t, "Invalid credentials", apperrors.GetAppError(err).Message)
}

func TestLogin_SessionStoreFailureDoesNotBlock(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := session.NewMockStore(ctrl)
	store.EXPECT().
		SaveSession(gomock.Any(), gomock.Any(), time.Hour).
		Return(apperrors.Wrap(errors.New("connection refused"), "save session"))

	uc := appuser.NewLoginUseCase(newUserService(t), jwt.NewManager("test-secret", time.Hour), store)
	resp, err := uc.Execute(context.Background(), appuser.LoginRequest{
		Email:    memory.DemoUserEmail,
		Password: memory.DemoUserPassword,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}

func TestLogout(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := session.NewMockStore(ctrl)
	expiresAt := time.Now().Add(30 * time.Minute)

	gomock.InOrder(
		store.EXPECT().DeleteSession(gomock.Any(), "1").Return(nil),
		store.EXPECT().AddToBlacklist(gomock.Any(), "token-value", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, ttl time.Duration) error {
				assert.Greater(t, ttl, 29*time.Minute)
				assert.LessOrEqual(t, ttl, 30*time.Minute)
				return nil
			}),
	)

	uc := appuser.NewLogoutUseCase(store)
	err := uc.Execute(context.Background(), appuser.LogoutRequest{
		UserID:    "1",
		Token:     "token-value",
		ExpiresAt: expiresAt,
	})
	assert.NoError(t, err)
}

func TestLogout_SessionStoreFailureStillRevokesToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := session.NewMockStore(ctrl)

	gomock.InOrder(
		store.EXPECT().DeleteSession(gomock.Any(), "1").Return(apperrors.ErrRedisError),
		store.EXPECT().AddToBlacklist(gomock.Any(), "token-value", gomock.Any()).Return(nil),
	)

	uc := appuser.NewLogoutUseCase(store)
	err := uc.Execute(context.Background(), appuser.LogoutRequest{
		UserID:    "1",
		Token:     "token-value",
		ExpiresAt: time.Now().Add(30 * time.Minute),
	})
	assert.ErrorIs(t, err, apperrors.ErrRedisError)
}

func TestLogout_JoinsBothFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := session.NewMockStore(ctrl)
	blacklistErr := errors.New("blacklist unavailable")

	store.EXPECT().DeleteSession(gomock.Any(), "1").Return(apperrors.ErrRedisError)
	store.EXPECT().AddToBlacklist(gomock.Any(), "token-value", gomock.Any()).Return(blacklistErr)

	uc := appuser.NewLogoutUseCase(store)
	err := uc.Execute(context.Background(), appuser.LogoutRequest{
		UserID:    "1",
		Token:     "token-value",
		ExpiresAt: time.Now().Add(30 * time.Minute),
	})
	assert.ErrorIs(t, err, apperrors.ErrRedisError)
	assert.ErrorIs(t, err, blacklistErr)
}

func TestLogout_Anonymous(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := session.NewMockStore(ctrl)

	// 未登录直接成功，不访问存储
	uc := appuser.NewLogoutUseCase(store)
	assert.NoError(t, uc.Execute(context.Background(), appuser.LogoutRequest{}))
}

func TestLogout_RevokesToken(t *testing.T) {
	store := memory.NewSessionStore()
	jwtManager := jwt.NewManager("test-secret", time.Hour)
	ctx := context.Background()

	login := appuser.NewLoginUseCase(newUserService(t), jwtManager, store)
	resp, err := login.Execute(ctx, appuser.LoginRequest{Email: memory.DemoUserEmail, Password: memory.DemoUserPassword})
	require.NoError(t, err)

	logout := appuser.NewLogoutUseCase(store)
	require.NoError(t, logout.Execute(ctx, appuser.LogoutRequest{
		UserID:    resp.User.ID,
		Token:     resp.Token,
		ExpiresAt: resp.ExpiresAt,
	}))

	revoked, err := store.IsInBlacklist(ctx, resp.Token)
	require.NoError(t, err)
	assert.True(t, revoked)

	_, err = store.GetSession(ctx, resp.User.ID)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestUserInfo(t *testing.T) {
	store := memory.NewSessionStore()
	svc := newUserService(t)
	ctx := context.Background()
	uc := appuser.NewUserInfoUseCase(svc, store)

	// 没有会话视为未登录
	_, err := uc.Execute(ctx, memory.DemoUserID)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	loginAt := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveSession(ctx, session.Info{
		UserID:    memory.DemoUserID,
		Email:     memory.DemoUserEmail,
		LoginAt:   loginAt,
		ExpiresAt: time.Now().Add(time.Hour),
	}, time.Hour))

	resp, err := uc.Execute(ctx, memory.DemoUserID)
	require.NoError(t, err)
	assert.Equal(t, memory.DemoUserEmail, resp.User.Email)
	assert.True(t, loginAt.Equal(resp.LoginAt))
}

func TestProfile(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()
	get := appuser.NewGetProfileUseCase(svc)
	update := appuser.NewUpdateProfileUseCase(svc)

	dto, err := get.Execute(ctx, memory.DemoUserID)
	require.NoError(t, err)
	assert.Equal(t, memory.DemoUserName, dto.Name)

	dto, err = update.Execute(ctx, appuser.UpdateProfileRequest{
		UserID: memory.DemoUserID,
		Name:   "Jane Reader",
		Email:  "jane@books.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane Reader", dto.Name)
	assert.Equal(t, "jane@books.com", dto.Email)

	_, err = update.Execute(ctx, appuser.UpdateProfileRequest{UserID: memory.DemoUserID, Name: "J", Email: "bad"})
	appErr := apperrors.GetAppError(err)
	assert.Equal(t, apperrors.ErrCodeInvalidParams, appErr.Code)
	assert.Len(t, appErr.Details, 2)

	_, err = get.Execute(ctx, "404")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
