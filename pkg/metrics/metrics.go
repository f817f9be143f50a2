package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP 请求延迟（秒）
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// 数据库查询延迟（秒）
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"operation", "table"},
	)

	// 任务状态流转计数
	StatusTransitionCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_status_transition_count",
			Help: "Total number of task status transitions applied",
		},
		[]string{"status"},
	)

	// 级联删除计数
	CascadeDeleteCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cascade_delete_count",
			Help: "Total number of cascade deletions",
		},
		[]string{"entity", "result"}, // result: success, incomplete
	)
)

// RecordHTTPRequestDuration 记录 HTTP 请求延迟
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordDBQueryDuration 记录数据库查询延迟
func RecordDBQueryDuration(operation, table string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

// IncrementStatusTransition 增加状态流转计数
func IncrementStatusTransition(status string) {
	StatusTransitionCount.WithLabelValues(status).Inc()
}

// IncrementCascadeDelete 增加级联删除计数
func IncrementCascadeDelete(entity, result string) {
	CascadeDeleteCount.WithLabelValues(entity, result).Inc()
}
