// Package metrics exposes Prometheus instrumentation for the bot.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	botCommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_commands_total",
			Help: "Total number of bot commands received labeled by command and status",
		},
		[]string{"command", "status"},
	)
	commandDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "command_duration_seconds",
			Help:    "Duration of bot commands in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)
	contentFetchDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "content_fetch_duration_seconds",
			Help:    "Duration of upstream content fetches in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)
	contentFetchErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_fetch_errors_total",
			Help: "Total number of failed upstream content fetches",
		},
		[]string{"provider", "reason"},
	)
	requestsServedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "requests_served_total",
			Help: "Total number of requests counted since process start",
		},
	)
	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors split by type and severity",
		},
		[]string{"type", "severity"},
	)
)

// RecordCommand increments command counters and records duration.
func RecordCommand(command, status string, duration time.Duration) {
	if command == "" {
		command = "unknown"
	}
	if status == "" {
		status = "unknown"
	}

	botCommandsTotal.WithLabelValues(command, status).Inc()
	commandDurationSeconds.WithLabelValues(command).Observe(duration.Seconds())
}

// RecordFetch records the duration of an upstream content fetch.
func RecordFetch(provider string, duration time.Duration) {
	if provider == "" {
		provider = "unknown"
	}

	contentFetchDurationSeconds.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordFetchError counts a failed upstream content fetch.
func RecordFetchError(provider, reason string) {
	if provider == "" {
		provider = "unknown"
	}
	if reason == "" {
		reason = "unknown"
	}

	contentFetchErrorsTotal.WithLabelValues(provider, reason).Inc()
}

// RecordRequestServed counts one actioned request.
func RecordRequestServed() {
	requestsServedTotal.Inc()
}

// RecordError increments error counters with metadata.
func RecordError(errType, severity string) {
	if errType == "" {
		errType = "unknown"
	}
	if severity == "" {
		severity = "unknown"
	}

	errorsTotal.WithLabelValues(errType, severity).Inc()
}
