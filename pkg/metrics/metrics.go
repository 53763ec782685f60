// Package metrics 提供基于Prometheus的指标收集
//
// # 指标类型
//
// **1. Counter（计数器）**：只增不减的累计值
//   - 示例：HTTP请求总数、图书发布总数、登录失败次数
//
// **2. Gauge（仪表盘）**：可增可减的瞬时值
//   - 示例：当前图书数量、正在处理的请求数
//
// **3. Histogram（直方图）**：观测值的分布
//   - 示例：HTTP请求耗时、列表查询命中条数
//
// # 使用示例
//
//	// 1. 初始化Metrics（重复调用安全）
//	metrics.InitMetrics()
//
//	// 2. 路由上暴露/metrics端点
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
//	// 3. 业务代码中记录指标
//	start := time.Now()
//	b, err := svc.PublishBook(ctx, owner, draft)
//	metrics.ObserveBookMutation(metrics.OpCreate, err, false, time.Since(start))
//
// # 命名规范
//
// 1. Counter以`_total`结尾：`bookshop_book_mutations_total`
// 2. Histogram以单位结尾：`http_request_duration_seconds`
// 3. 标签只用有限取值（method、operation、result），不要用book_id、user_id
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 图书写操作类型（operation标签取值）
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// result标签取值
const (
	ResultSuccess  = "success"
	ResultFailure  = "failure"
	ResultRejected = "rejected"
)

var (
	initOnce sync.Once

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数（Counter）
	// 标签：method（GET/POST）、path（路由模板，如/api/books/:id）、status（200/404）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时（Histogram）
	// 桶设置：1ms、10ms、100ms、500ms、1s、5s、10s
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数（Gauge）
	HTTPRequestsInProgress prometheus.Gauge

	// 业务指标

	// BookMutationsTotal 图书写操作总数（Counter）
	// 标签：operation（create/update/delete）、result（success/failure/rejected）
	// rejected表示校验失败或非本人操作
	BookMutationsTotal *prometheus.CounterVec

	// BookMutationDuration 图书写操作耗时（Histogram）
	BookMutationDuration *prometheus.HistogramVec

	// BookQueriesTotal 列表查询总数（Counter）
	// 标签：scope（all/mine）
	BookQueriesTotal *prometheus.CounterVec

	// BookQueryMatches 列表查询过滤后的命中条数（Histogram）
	BookQueryMatches prometheus.Histogram

	// BooksStored 当前图书数量（Gauge）
	BooksStored prometheus.Gauge

	// LoginsTotal 登录次数（Counter）
	// 标签：result（success/failure）
	LoginsTotal *prometheus.CounterVec

	// 熔断器指标

	// CircuitBreakerState 熔断器状态（Gauge）
	// 0=CLOSED, 1=OPEN, 2=HALF_OPEN
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 熔断器请求总数（Counter）
	// 标签：name（熔断器名称）、result（success/failure/rejected）
	CircuitBreakerRequests *prometheus.CounterVec

	// 消息队列指标

	// MessagesPublishedTotal 消息发布总数（Counter）
	// 标签：exchange（交换机）、routing_key（路由键）、result（success/failure）
	MessagesPublishedTotal *prometheus.CounterVec
)

// InitMetrics 初始化所有Prometheus指标
//
// 设计要点：
// 1. 使用promauto.New*自动注册到默认Registry
// 2. sync.Once保证只注册一次（重复注册会panic）
// 3. Histogram的Buckets根据业务场景定制
func InitMetrics() {
	initOnce.Do(register)
}

func register() {
	// HTTP请求指标
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	// 图书业务指标
	BookMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookshop_book_mutations_total",
			Help: "图书写操作总数",
		},
		[]string{"operation", "result"},
	)

	BookMutationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "bookshop_book_mutation_duration_seconds",
			Help: "图书写操作耗时（秒）",
			// 内存存储，操作通常在毫秒以内
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
		[]string{"operation"},
	)

	BookQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookshop_book_queries_total",
			Help: "图书列表查询总数",
		},
		[]string{"scope"},
	)

	BookQueryMatches = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bookshop_book_query_matches",
			Help:    "列表查询过滤后的命中条数",
			Buckets: []float64{0, 1, 5, 12, 25, 50, 100, 500},
		},
	)

	BooksStored = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bookshop_books_stored",
			Help: "当前图书数量",
		},
	)

	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookshop_logins_total",
			Help: "登录次数",
		},
		[]string{"result"},
	)

	// 熔断器指标
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "熔断器请求总数",
		},
		[]string{"name", "result"},
	)

	// 消息队列指标
	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"exchange", "routing_key", "result"},
	)
}

// ObserveBookMutation 记录一次图书写操作
// rejected传true表示业务拒绝（校验失败、无权限、不存在），不算系统故障
func ObserveBookMutation(operation string, err error, rejected bool, elapsed time.Duration) {
	InitMetrics()

	result := ResultSuccess
	switch {
	case err != nil && rejected:
		result = ResultRejected
	case err != nil:
		result = ResultFailure
	}

	BookMutationsTotal.WithLabelValues(operation, result).Inc()
	BookMutationDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveBookQuery 记录一次列表查询
func ObserveBookQuery(scope string, matches int) {
	InitMetrics()
	BookQueriesTotal.WithLabelValues(scope).Inc()
	BookQueryMatches.Observe(float64(matches))
}

// ObserveLogin 记录一次登录结果
func ObserveLogin(ok bool) {
	InitMetrics()
	result := ResultSuccess
	if !ok {
		result = ResultFailure
	}
	LoginsTotal.WithLabelValues(result).Inc()
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	gauge.Dec()
}

// SetGauge 设置Gauge值
func SetGauge(gauge prometheus.Gauge, value float64) {
	gauge.Set(value)
}

// SetGaugeVec 设置GaugeVec值（带标签）
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	gauge.With(labels).Set(value)
}

// ObserveHistogramVec 记录HistogramVec观测值（带标签）
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}
