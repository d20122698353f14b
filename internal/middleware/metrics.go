package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts Redis command failures by command name.
var RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "ripple_redis_errors_total",
	Help: "Total number of Redis command errors",
}, []string{"command"})

// TokensIssued counts issued tokens by type (access/refresh).
var TokensIssued = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "ripple_tokens_issued_total",
	Help: "Total number of JWT tokens issued",
}, []string{"type"})

// TokensBlacklisted counts tokens revoked via logout and logout-all.
var TokensBlacklisted = promauto.NewCounter(prometheus.CounterOpts{
	Name: "ripple_tokens_blacklisted_total",
	Help: "Total number of tokens added to the blacklist",
})

// InitMetrics creates the Prometheus middleware for HTTP request metrics.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware wraps the fiberprometheus handler as a Fiber middleware.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
