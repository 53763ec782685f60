package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/xiebiao/bookshop/internal/app"
	"github.com/xiebiao/bookshop/internal/infrastructure/config"
	"github.com/xiebiao/bookshop/pkg/logger"
	"github.com/xiebiao/bookshop/pkg/metrics"
	"github.com/xiebiao/bookshop/pkg/tracing"
)

// @title           Bookshop API
// @version         1.0
// @description     图书商城：图书浏览/搜索/分页、作者维护自己的图书、Cookie登录和个人资料
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey CookieAuth
// @in              cookie
// @name            auth-token
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 初始化日志
	if err := logger.New(cfg.Log.Level, cfg.Log.Format); err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Log.Infow("配置加载成功",
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"redis", cfg.Redis.Enabled,
		"mq", cfg.MQ.URL != "",
		"tracing", cfg.Tracing.Enabled,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. 初始化追踪（可选）
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(ctx, tracing.Config{
			ServiceName: cfg.Tracing.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
			Insecure:    true,
		})
		if err != nil {
			logger.Log.Warnw("初始化追踪失败，继续运行", "error", err)
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Log.Warnw("关闭追踪失败", "error", err)
				}
			}()
		}
	}

	// 4. 指标
	metrics.InitMetrics()

	// 5. 依赖注入
	a, err := app.New(ctx, cfg)
	if err != nil {
		logger.Log.Errorw("初始化服务失败", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	// 6. 启动HTTP服务
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      a.Engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Infow("服务启动成功",
			"addr", srv.Addr,
			"health", "/ping",
			"metrics", "/metrics",
			"swagger", "/swagger/index.html",
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// 7. 等待退出信号
	select {
	case <-ctx.Done():
		logger.Log.Infow("收到退出信号，开始优雅关闭")
	case err := <-errCh:
		if err != nil {
			logger.Log.Errorw("HTTP服务异常退出", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("优雅关闭失败", "error", err)
	}
	logger.Log.Infow("服务已停止")
}
