package tracing

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// useRecorder 安装内存SpanRecorder作为全局Provider
func useRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

// TestInitTracer 测试Tracer初始化（Collector不可用也能成功，连接是异步的）
func TestInitTracer(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	shutdown, err := InitTracer(context.Background(), Config{
		ServiceName: "test-service",
		Endpoint:    "localhost:4317",
		Insecure:    true,
	})
	if err != nil {
		t.Fatalf("初始化Tracer失败: %v", err)
	}

	_, span := StartSpan(context.Background(), "test", "Op")
	if !span.SpanContext().IsValid() {
		t.Error("初始化后Span应有效")
	}
	span.End()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}

// TestStartSpan 测试父子Span关系
func TestStartSpan(t *testing.T) {
	sr := useRecorder(t)

	ctx, root := StartSpan(context.Background(), "test-service", "RootOperation")
	_, child := StartSpan(ctx, "test-service", "ChildOperation")
	child.End()
	root.End()

	spans := sr.Ended()
	if len(spans) != 2 {
		t.Fatalf("Span数量错误: expected=2, got=%d", len(spans))
	}

	childSpan, rootSpan := spans[0], spans[1]
	if childSpan.SpanContext().TraceID() != rootSpan.SpanContext().TraceID() {
		t.Error("子Span的TraceID应与父Span相同")
	}
	if childSpan.Parent().SpanID() != rootSpan.SpanContext().SpanID() {
		t.Error("子Span的父SpanID错误")
	}
}

// TestEndSpan 测试Span状态
func TestEndSpan(t *testing.T) {
	sr := useRecorder(t)

	_, okSpan := StartSpan(context.Background(), "test", "ok")
	okSpan.SetAttributes(attribute.String("book.id", "1"))
	EndSpan(okSpan, nil)

	_, failSpan := StartSpan(context.Background(), "test", "fail")
	EndSpan(failSpan, errors.New("book not found"))

	spans := sr.Ended()
	if len(spans) != 2 {
		t.Fatalf("Span数量错误: expected=2, got=%d", len(spans))
	}

	if spans[0].Status().Code != codes.Ok {
		t.Errorf("成功Span状态错误: %v", spans[0].Status())
	}
	if spans[1].Status().Code != codes.Error || spans[1].Status().Description != "book not found" {
		t.Errorf("失败Span状态错误: %v", spans[1].Status())
	}
	if len(spans[1].Events()) == 0 {
		t.Error("失败Span应记录error事件")
	}
}

// TestExtractIDs 测试TraceID/SpanID提取
func TestExtractIDs(t *testing.T) {
	useRecorder(t)

	if id := ExtractTraceID(context.Background()); id != "" {
		t.Errorf("无Span时应返回空串, got=%s", id)
	}
	if id := ExtractSpanID(context.Background()); id != "" {
		t.Errorf("无Span时应返回空串, got=%s", id)
	}

	ctx, span := StartSpan(context.Background(), "test", "op")
	defer span.End()

	if got := ExtractTraceID(ctx); len(got) != 32 {
		t.Errorf("TraceID长度错误: %q", got)
	}
	if got := ExtractSpanID(ctx); got != span.SpanContext().SpanID().String() {
		t.Errorf("SpanID不匹配: %q", got)
	}
}

// TestSampler 测试采样策略选择
func TestSampler(t *testing.T) {
	if got := sampler(0).Description(); got != sdktrace.AlwaysSample().Description() {
		t.Errorf("ratio=0应全采样, got=%s", got)
	}
	if got := sampler(1).Description(); got != sdktrace.AlwaysSample().Description() {
		t.Errorf("ratio=1应全采样, got=%s", got)
	}
	if got := sampler(0.1).Description(); got == sdktrace.AlwaysSample().Description() {
		t.Error("ratio=0.1不应全采样")
	}
}
