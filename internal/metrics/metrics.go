// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ゲートウェイやセッション層から利用する。
type MetricsCollector interface {
	RecordAPIRequest(method string, statusCode int, duration time.Duration)
	RecordAPIError(code string)
	RecordSignUp(role string)
	RecordSignIn()
	RecordSessionTimeout()
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	apiRequests     *prometheus.CounterVec
	apiLatency      prometheus.Histogram
	apiErrors       *prometheus.CounterVec
	signUps         *prometheus.CounterVec
	signIns         prometheus.Counter
	sessionTimeouts prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dapup_api_requests_total",
			Help: "APIリクエストの合計数（メソッド・ステータスコード別）",
		}, []string{"method", "status_code"}),
		apiLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dapup_api_latency_seconds",
			Help:    "APIリクエストのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		apiErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dapup_api_errors_total",
			Help: "APIエラーの合計数（エラーコード別）",
		}, []string{"code"}),
		signUps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dapup_signups_total",
			Help: "サインアップの合計数（ロール別）",
		}, []string{"role"}),
		signIns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dapup_signins_total",
			Help: "サインインの合計数",
		}),
		sessionTimeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dapup_session_timeouts_total",
			Help: "無操作タイムアウトによる強制サインアウトの合計数",
		}),
	}

	reg.MustRegister(
		c.apiRequests,
		c.apiLatency,
		c.apiErrors,
		c.signUps,
		c.signIns,
		c.sessionTimeouts,
	)

	return c
}

// RecordAPIRequest はAPIリクエストの完了を記録する。
func (c *Collector) RecordAPIRequest(method string, statusCode int, duration time.Duration) {
	c.apiRequests.WithLabelValues(method, strconv.Itoa(statusCode)).Inc()
	c.apiLatency.Observe(duration.Seconds())
}

// RecordAPIError はAPIエラーをエラーコード別に記録する。
func (c *Collector) RecordAPIError(code string) {
	c.apiErrors.WithLabelValues(code).Inc()
}

// RecordSignUp はサインアップをロール別に記録する。
func (c *Collector) RecordSignUp(role string) {
	c.signUps.WithLabelValues(role).Inc()
}

// RecordSignIn はサインインを記録する。
func (c *Collector) RecordSignIn() {
	c.signIns.Inc()
}

// RecordSessionTimeout は無操作タイムアウトによる強制サインアウトを記録する。
func (c *Collector) RecordSessionTimeout() {
	c.sessionTimeouts.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
