package utils

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ReqCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ReqDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "app_request_duration_seconds",
			Help: "Request duration seconds",
		},
		[]string{"method", "path"},
	)

	ErrorCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_errors_total",
			Help: "Total app errors",
		},
		[]string{"handler", "type"},
	)

	// Domain counters
	TasksCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_tasks_completed_total",
			Help: "Completed daily tasks by task type",
		},
		[]string{"task_type"},
	)

	RewardsClaimed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "app_rewards_claimed_total",
			Help: "Rewards claimed with points",
		},
	)

	ChatTurns = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "app_chat_turns_total",
			Help: "Chat messages proxied to the companion model",
		},
	)
)

func InitMetrics() {
	prometheus.MustRegister(ReqCount, ReqDuration, ErrorCount, TasksCompleted, RewardsClaimed, ChatTurns)
}
