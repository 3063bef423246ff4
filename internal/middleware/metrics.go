package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis command failures by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vibella_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"operation"})

	// CacheHits counts cache-aside hits by entity key prefix.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vibella_cache_hits_total",
		Help: "Total number of cache hits by entity",
	}, []string{"entity"})

	// CacheMisses counts cache-aside misses by entity key prefix.
	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vibella_cache_misses_total",
		Help: "Total number of cache misses by entity",
	}, []string{"entity"})
)

// InitMetrics creates the fiberprometheus middleware for HTTP request metrics.
// The returned instance must be registered on the app and given a route via
// RegisterAt before requests are served.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware wraps the fiberprometheus handler for use in the
// app's middleware chain.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
