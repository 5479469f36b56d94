// Package metrics イベント操作と記録状態の Prometheus メトリクス
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics リポジトリ操作の件数・所要時間と記録中かどうかを公開する
type Metrics struct {
	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	Recording         prometheus.Gauge
}

// New reg にメトリクスを登録して返す
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		OperationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "timely_event_operations_total",
			Help: "Total number of event repository operations by result",
		}, []string{"op", "result"}),
		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "timely_event_operation_duration_seconds",
			Help:    "Duration of event repository operations (read-modify-write on the blob)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"op"}),
		Recording: factory.NewGauge(prometheus.GaugeOpts{
			Name: "timely_recording",
			Help: "1 while a recording session is running",
		}),
	}
}

// ObserveOperation 操作 1 回分の結果と所要時間を記録
// start には操作開始時の time.Now() を渡す。
func (m *Metrics) ObserveOperation(op string, start time.Time, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.OperationsTotal.WithLabelValues(op, result).Inc()
	m.OperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// SetRecording 記録状態を反映
func (m *Metrics) SetRecording(recording bool) {
	if recording {
		m.Recording.Set(1)
		return
	}
	m.Recording.Set(0)
}
