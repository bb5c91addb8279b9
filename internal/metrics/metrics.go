// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "smartrecipe",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "smartrecipe",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	recognitionResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "smartrecipe",
		Name:      "recognition_results_total",
		Help:      "Image lookups by the stage that produced the answer.",
	}, []string{"source"})

	chatbotRateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "smartrecipe",
		Name:      "chatbot_rate_limited_total",
		Help:      "Chatbot requests rejected by the per-user rate limit.",
	})
)

// Middleware records request count and latency per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the Prometheus exposition format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

func RecognitionResult(source string) {
	recognitionResults.WithLabelValues(source).Inc()
}

func ChatbotRateLimited() {
	chatbotRateLimited.Inc()
}
