//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 运行 `wire gen ./cmd/api` 生成wire_gen.go
// Provider全部定义在internal/app，main.go中的app.New是同一依赖图的手写版本

package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/wire"

	appbook "github.com/xiebiao/bookshop/internal/application/book"
	appuser "github.com/xiebiao/bookshop/internal/application/user"
	"github.com/xiebiao/bookshop/internal/app"
	"github.com/xiebiao/bookshop/internal/infrastructure/config"
	"github.com/xiebiao/bookshop/internal/interface/http/handler"
)

// infrastructureSet 基础设施层依赖
var infrastructureSet = wire.NewSet(
	app.ProvideBookRepository,
	app.ProvideUserRepository,
	app.ProvideSessionStore,
	app.ProvideEventPublisher,
	app.ProvideJWTManager,
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	app.ProvideBookService,
	app.ProvideUserService,
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	app.ProvidePageLimits,
	appbook.NewListBooksUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewPublishBookUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewDeleteBookUseCase,
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewUserInfoUseCase,
	appuser.NewGetProfileUseCase,
	appuser.NewUpdateProfileUseCase,
)

// interfaceSet HTTP层依赖
var interfaceSet = wire.NewSet(
	app.ProvideCookieConfig,
	app.ProvideAuthMiddleware,
	handler.NewBookHandler,
	handler.NewUserHandler,
	app.ProvideEngine,
)

// InitializeEngine 初始化Gin引擎
// 返回的cleanup关闭Redis和RabbitMQ连接
func InitializeEngine(ctx context.Context, cfg *config.Config) (*gin.Engine, func(), error) {
	wire.Build(
		infrastructureSet,
		domainSet,
		applicationSet,
		interfaceSet,
	)
	return nil, nil, nil
}
