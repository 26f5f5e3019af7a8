package gateway

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metricsNamespace はPrometheusメトリクスの名前空間。
const metricsNamespace = "cosmos_gateway"

// gatewayMetrics はGatewayのPrometheusメトリクス。
// テストごとに独立させるため、デフォルトレジストリではなく専用レジストリに登録する。
type gatewayMetrics struct {
	registry *prometheus.Registry
	// requests はルートとステータスコードごとのリクエスト数。
	requests *prometheus.CounterVec
	// upstreamDuration は上流APIごとの呼び出し時間。
	upstreamDuration *prometheus.HistogramVec
	// failures はエラー種別ごとの失敗数。
	failures *prometheus.CounterVec
}

// エラー種別ラベル。
const (
	failureMissingCredential = "missing_credential"
	failureUpstream          = "upstream"
	failureValidation        = "validation"
	failureNotFound          = "not_found"
)

func newGatewayMetrics() *gatewayMetrics {
	registry := prometheus.NewRegistry()
	m := &gatewayMetrics{
		registry: registry,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests handled by route and status.",
		}, []string{"route", "method", "status"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Duration of outbound upstream API calls.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"upstream", "outcome"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "failures_total",
			Help:      "Total number of handled failures by route and kind.",
		}, []string{"route", "kind"}),
	}
	registry.MustRegister(m.requests, m.upstreamDuration, m.failures)
	return m
}

// instrument はリクエスト数を記録するGinミドルウェアを返す。
// 未登録のパスはラベル数を抑えるため"unmatched"として集計する。
func (m *gatewayMetrics) instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// observeUpstream は上流API呼び出しの所要時間を記録する。
func (m *gatewayMetrics) observeUpstream(upstream string, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.upstreamDuration.WithLabelValues(upstream, outcome).Observe(time.Since(start).Seconds())
}

// recordFailure はハンドリングした失敗を記録する。
func (m *gatewayMetrics) recordFailure(c *gin.Context, kind string) {
	m.failures.WithLabelValues(c.FullPath(), kind).Inc()
}

// handler は/metricsエンドポイントのハンドラを返す。
func (m *gatewayMetrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}
