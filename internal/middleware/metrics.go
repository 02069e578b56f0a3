package middleware

import (
	"net/http"
	"time"
)

// RequestRecorder はHTTPリクエストのメトリクス記録を抽象化する。
// metrics.Collectorが実装する。
type RequestRecorder interface {
	RecordAPIRequest(method string, statusCode int, duration time.Duration)
}

// NewMetricsMiddleware はリクエストのメソッド・ステータス・所要時間を
// 記録するミドルウェアを返す。
func NewMetricsMiddleware(recorder RequestRecorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rec := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rec, r)

			recorder.RecordAPIRequest(r.Method, rec.statusCode, time.Since(start))
		})
	}
}
