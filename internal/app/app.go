// Package app 组装整个HTTP服务
//
// 依赖链：Repository ← Service ← UseCase ← Handler ← Router
// cmd/api直接调用New；cmd/api/wire.go用同一组Provider声明了Wire注入器
package app

import (
	"context"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookshop/internal/application/book"
	appuser "github.com/xiebiao/bookshop/internal/application/user"
	"github.com/xiebiao/bookshop/internal/domain/session"
	"github.com/xiebiao/bookshop/internal/infrastructure/config"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/bookshop/internal/interface/http/handler"
)

// App 组装完成的服务
type App struct {
	Config   *config.Config
	Engine   *gin.Engine
	Books    *memory.BookRepository
	Users    *memory.UserRepository
	Sessions session.Store

	cleanups []func()
}

// New 手动依赖注入
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	// 1. 基础设施层
	a.Books = ProvideBookRepository(cfg)
	users, err := ProvideUserRepository(cfg)
	if err != nil {
		return nil, err
	}
	a.Users = users

	sessions, closeSessions, err := ProvideSessionStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.Sessions = sessions
	a.cleanups = append(a.cleanups, closeSessions)

	publisher, closePublisher, err := ProvideEventPublisher(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.cleanups = append(a.cleanups, closePublisher)

	jwtManager := ProvideJWTManager(cfg)

	// 2. 领域层
	bookService := ProvideBookService(a.Books, publisher)
	userService := ProvideUserService(a.Users)

	// 3. 应用层
	limits := ProvidePageLimits(cfg)
	bookHandler := handler.NewBookHandler(
		appbook.NewListBooksUseCase(bookService, limits),
		appbook.NewGetBookUseCase(bookService),
		appbook.NewPublishBookUseCase(bookService, userService),
		appbook.NewUpdateBookUseCase(bookService),
		appbook.NewDeleteBookUseCase(bookService),
	)
	userHandler := handler.NewUserHandler(
		appuser.NewLoginUseCase(userService, jwtManager, sessions),
		appuser.NewLogoutUseCase(sessions),
		appuser.NewUserInfoUseCase(userService, sessions),
		appuser.NewGetProfileUseCase(userService),
		appuser.NewUpdateProfileUseCase(userService),
		ProvideCookieConfig(cfg),
	)

	// 4. 接口层
	authMiddleware := ProvideAuthMiddleware(cfg, jwtManager, sessions)
	a.Engine = ProvideEngine(cfg, bookHandler, userHandler, authMiddleware)

	return a, nil
}

// Close 按创建的逆序释放资源
func (a *App) Close() {
	for i := len(a.cleanups) - 1; i >= 0; i-- {
		a.cleanups[i]()
	}
	a.cleanups = nil
}
