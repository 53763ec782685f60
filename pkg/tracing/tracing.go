// Package tracing 提供基于OpenTelemetry的追踪封装
//
// # 核心概念
//
// 1. **Trace（追踪）**：一个完整的请求链路，如一次"发布图书"请求
// 2. **Span（跨度）**：一个操作单元，如"book.Publish"用例、仓储写入
// 3. **SpanContext**：TraceID标识整条链路，SpanID标识当前操作
//
// # 追踪示例
//
//	Trace: PUT /api/books/:id（TraceID=abc123）
//	├─ Span1: HTTP请求处理（gin中间件）
//	│  └─ Span2: book.Update用例
//	│     └─ Span3: 发布book.updated事件
//
// # 使用示例
//
//	shutdown, err := tracing.InitTracer(ctx, tracing.Config{
//	    ServiceName: "bookshop-api",
//	    Endpoint:    "localhost:4317",
//	})
//	if err != nil {
//	    return err
//	}
//	defer shutdown(context.Background())
//
//	func (uc *UpdateBookUseCase) Execute(ctx context.Context, ...) (err error) {
//	    ctx, span := tracing.StartSpan(ctx, "book", "book.Update")
//	    defer func() { tracing.EndSpan(span, err) }()
//	    ...
//	}
//
// 未调用InitTracer时otel使用全局noop Provider，StartSpan仍可安全调用
//
// # 最佳实践
//
// 1. Span名使用操作名（book.Update），动态值放属性（book.id）
// 2. 不要把密码、Token等敏感信息写入属性
// 3. 程序退出时调用shutdown()刷新未发送的Span
package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

// Config 追踪配置
type Config struct {
	ServiceName string
	Endpoint    string  // OTLP gRPC端点，如localhost:4317
	SampleRatio float64 // 采样率，<=0或>=1表示全采样
	Insecure    bool
}

// InitTracer 初始化全局Tracer Provider
//
// 设计要点：
// 1. 使用OTLP gRPC协议，厂商中立（Jaeger、Tempo都支持）
// 2. 采样：开发环境全采样，生产环境按SampleRatio采样
// 3. 资源属性service.name用于在UI中分组
//
// 返回的shutdown必须在程序退出前调用，否则可能丢失最后一批Span
func InitTracer(ctx context.Context, cfg Config) (func(context.Context) error, error) {
	// 1. 创建OTLP gRPC Exporter
	// 连接是异步建立的，Collector不可用不会阻塞启动
	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	initCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	exporter, err := otlptracegrpc.New(initCtx, opts...)
	if err != nil {
		return nil, fmt.Errorf("创建OTLP exporter失败: %w", err)
	}

	// 2. 创建Resource（资源属性）
	res, err := resource.New(
		initCtx,
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("创建资源属性失败: %w", err)
	}

	// 3. 创建Tracer Provider
	// BatchSpanProcessor批量发送Span，性能优于SimpleSpanProcessor
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sampler(cfg.SampleRatio)),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	// 4. 设置全局TracerProvider和Propagator
	// W3C Trace Context（traceparent头）+ Baggage
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)

	// 5. 返回关闭函数
	shutdown := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tp.Shutdown(ctx)
	}

	return shutdown, nil
}

func sampler(ratio float64) sdktrace.Sampler {
	if ratio <= 0 || ratio >= 1 {
		return sdktrace.AlwaysSample()
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
}

// StartSpan 创建一个新的Span（便捷函数）
// 必须使用返回的ctx调用下游函数，否则无法构建调用树
func StartSpan(ctx context.Context, tracerName, spanName string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, spanName)
}

// EndSpan 按err设置Span状态并结束Span
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// ExtractTraceID 从Context提取TraceID（用于关联日志）
// 返回32位十六进制字符串，ctx中没有有效Span时返回空串
func ExtractTraceID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return ""
	}
	return span.SpanContext().TraceID().String()
}

// ExtractSpanID 从Context提取SpanID
func ExtractSpanID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return ""
	}
	return span.SpanContext().SpanID().String()
}
