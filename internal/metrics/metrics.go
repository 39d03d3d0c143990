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
// サービス層およびHTTPミドルウェアから利用する。
type MetricsCollector interface {
	RecordReservationCreated()
	RecordReservationRejected(code string)
	RecordDateBlocked()
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	reservationsCreated  prometheus.Counter
	reservationsRejected *prometheus.CounterVec
	datesBlocked         prometheus.Counter
	httpStatus           *prometheus.CounterVec
	requestLatency       prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		reservationsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reservatie_reservations_created_total",
			Help: "作成された予約の合計数",
		}),
		reservationsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reservatie_reservations_rejected_total",
			Help: "拒否理由別の予約拒否の合計数",
		}, []string{"reason"}),
		datesBlocked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reservatie_dates_blocked_total",
			Help: "ブロックされた日付の合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reservatie_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "reservatie_request_latency_seconds",
			Help:    "HTTPリクエストのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.reservationsCreated,
		c.reservationsRejected,
		c.datesBlocked,
		c.httpStatus,
		c.requestLatency,
	)

	return c
}

// RecordReservationCreated は予約作成を記録する。
func (c *Collector) RecordReservationCreated() {
	c.reservationsCreated.Inc()
}

// RecordReservationRejected は予約拒否を拒否理由コード付きで記録する。
func (c *Collector) RecordReservationRejected(code string) {
	c.reservationsRejected.WithLabelValues(code).Inc()
}

// RecordDateBlocked は日付ブロックの作成を記録する。
func (c *Collector) RecordDateBlocked() {
	c.datesBlocked.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はHTTPリクエストのレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
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
