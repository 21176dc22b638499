// Package middleware provides authentication, logging, metrics, and tracing
// middleware for the application.
package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts Redis command errors by operation type. It is fed by the
// cache package's client hook.
var RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "devconnector_redis_errors_total",
	Help: "Total number of Redis errors by operation type",
}, []string{"operation"})

// GithubProxyRequests counts outbound GitHub proxy calls by result.
var GithubProxyRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "devconnector_github_proxy_requests_total",
	Help: "Total number of GitHub repo proxy requests by result",
}, []string{"result"})

// InitMetrics creates the Prometheus middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the Fiber handler that records request metrics.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
