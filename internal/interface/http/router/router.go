package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/xiebiao/bookshop/docs" // 注册Swagger文档
	"github.com/xiebiao/bookshop/internal/infrastructure/config"
	"github.com/xiebiao/bookshop/internal/interface/http/handler"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/response"
)

// Options 路由选项
type Options struct {
	Mode    string            // gin运行模式：debug | release | test
	Swagger bool              // 是否挂载/swagger
	CORS    config.CORSConfig // Enabled=false时不挂载
}

// New 创建Gin引擎并注册全部路由
//
// 中间件顺序：
// 1. Recovery（最外层，兜住所有panic）
// 2. Tracing（后续中间件和用例都能拿到Span）
// 3. Logger（日志带trace_id）
// 4. Metrics
// 5. CORS（开启时，预检请求在这里返回）
func New(
	opts Options,
	bookHandler *handler.BookHandler,
	userHandler *handler.UserHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}

	r := gin.New()
	r.Use(
		middleware.Recovery(),
		middleware.Tracing(),
		middleware.Logger(),
		middleware.Metrics(),
	)
	if opts.CORS.Enabled {
		r.Use(middleware.CORS(opts.CORS))
	}

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档：http://localhost:8080/swagger/index.html
	if opts.Swagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group("/api")
	{
		// 认证
		auth := api.Group("/auth")
		{
			auth.POST("/login", userHandler.Login)
			auth.POST("/logout", authMiddleware.OptionalAuth(), userHandler.Logout)
			auth.GET("/user-info", authMiddleware.RequireAuth(), userHandler.UserInfo)
		}

		// 图书
		books := api.Group("/books")
		{
			// 公开接口
			books.GET("", bookHandler.ListBooks)

			books.GET("/my-books", authMiddleware.RequireAuth(), bookHandler.MyBooks)
			books.GET("/:id", bookHandler.GetBook)

			// 需要登录
			books.POST("", authMiddleware.RequireAuth(), bookHandler.PublishBook)
			books.PUT("/:id", authMiddleware.RequireAuth(), bookHandler.UpdateBook)
			books.DELETE("/:id", authMiddleware.RequireAuth(), bookHandler.DeleteBook)
		}

		// 个人资料
		profile := api.Group("/profile")
		profile.Use(authMiddleware.RequireAuth())
		{
			profile.GET("", userHandler.GetProfile)
			profile.PUT("", userHandler.UpdateProfile)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, apperrors.ErrNotFound)
	})

	return r
}
