package app

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookshop/internal/application/book"
	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/session"
	"github.com/xiebiao/bookshop/internal/domain/user"
	"github.com/xiebiao/bookshop/internal/infrastructure/config"
	"github.com/xiebiao/bookshop/internal/infrastructure/messaging"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookshop/internal/interface/http/handler"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	"github.com/xiebiao/bookshop/internal/interface/http/router"
	"github.com/xiebiao/bookshop/pkg/jwt"
	"github.com/xiebiao/bookshop/pkg/logger"
	"github.com/xiebiao/bookshop/pkg/metrics"
	"github.com/xiebiao/bookshop/pkg/mq"
)

const (
	redisKeyPrefix    = "bookshop:"
	eventPublishLimit = 2 * time.Second
)

// ProvideBookRepository 内存图书仓储，按配置决定是否写入种子数据
func ProvideBookRepository(cfg *config.Config) *memory.BookRepository {
	var seed []*book.Book
	if cfg.Store.Seed {
		seed = memory.SeedBooks()
	}
	repo := memory.NewBookRepository(seed)

	metrics.InitMetrics()
	metrics.SetGauge(metrics.BooksStored, float64(repo.Len()))
	return repo
}

// ProvideUserRepository 内存用户仓储（演示账号）
func ProvideUserRepository(cfg *config.Config) (*memory.UserRepository, error) {
	var seed []*user.User
	if cfg.Store.Seed {
		users, err := memory.SeedUsers(cfg.Auth.BcryptCost)
		if err != nil {
			return nil, err
		}
		seed = users
	}
	return memory.NewUserRepository(seed), nil
}

// ProvideSessionStore 会话存储
// Redis未启用或连接失败时退回内存实现，单实例部署不受影响
func ProvideSessionStore(ctx context.Context, cfg *config.Config) (session.Store, func(), error) {
	if !cfg.Redis.Enabled {
		logger.Log.Infow("session store: memory")
		return memory.NewSessionStore(), func() {}, nil
	}

	client, err := redis.NewClient(ctx, cfg.Redis)
	if err != nil {
		logger.Log.Warnw("redis unavailable, falling back to memory session store", "addr", cfg.Redis.Addr(), "error", err)
		return memory.NewSessionStore(), func() {}, nil
	}

	cleanup := func() {
		if err := client.Close(); err != nil {
			logger.Log.Warnw("close redis client failed", "error", err)
		}
	}
	return redis.NewSessionStore(client, redisKeyPrefix), cleanup, nil
}

// ProvideEventPublisher 图书事件发布者
// 未配置MQ地址或连接失败时不发布事件
func ProvideEventPublisher(cfg *config.Config) (book.EventPublisher, func(), error) {
	if cfg.MQ.URL == "" {
		return book.NopPublisher{}, func() {}, nil
	}

	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, mq.ExchangeTopic)
	if err != nil {
		logger.Log.Warnw("rabbitmq unavailable, book events disabled", "exchange", cfg.MQ.Exchange, "error", err)
		return book.NopPublisher{}, func() {}, nil
	}

	cleanup := func() {
		if err := publisher.Close(); err != nil {
			logger.Log.Warnw("close rabbitmq publisher failed", "error", err)
		}
	}
	return messaging.NewBookEventPublisher(publisher, eventPublishLimit), cleanup, nil
}

// ProvideJWTManager 从配置创建JWT管理器
func ProvideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expire)
}

// ProvideBookService 图书领域服务
func ProvideBookService(repo *memory.BookRepository, publisher book.EventPublisher) book.Service {
	return book.NewService(repo, book.WithPublisher(publisher))
}

// ProvideUserService 用户领域服务
func ProvideUserService(repo *memory.UserRepository) user.Service {
	return user.NewService(repo)
}

// ProvidePageLimits 分页限制
func ProvidePageLimits(cfg *config.Config) appbook.PageLimits {
	return appbook.PageLimits{
		DefaultPageSize: cfg.Query.DefaultPageSize,
		MaxPageSize:     cfg.Query.MaxPageSize,
	}
}

// ProvideCookieConfig 认证Cookie属性
func ProvideCookieConfig(cfg *config.Config) handler.CookieConfig {
	return handler.CookieConfig{
		Name:   cfg.Auth.CookieName,
		MaxAge: int(cfg.Auth.CookieMaxAge.Seconds()),
		Secure: cfg.Auth.CookieSecure,
	}
}

// ProvideAuthMiddleware 认证中间件
func ProvideAuthMiddleware(cfg *config.Config, jwtManager *jwt.Manager, store session.Store) *middleware.AuthMiddleware {
	return middleware.NewAuthMiddleware(jwtManager, store, cfg.Auth.CookieName)
}

// ProvideEngine 创建Gin引擎
func ProvideEngine(
	cfg *config.Config,
	bookHandler *handler.BookHandler,
	userHandler *handler.UserHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	return router.New(router.Options{
		Mode:    cfg.Server.Mode,
		Swagger: cfg.Server.Mode != gin.ReleaseMode,
		CORS:    cfg.CORS,
	}, bookHandler, userHandler, authMiddleware)
}
