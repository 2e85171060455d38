package middleware

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetricsOptions 指标配置
type HTTPMetricsOptions struct {
	Registerer prometheus.Registerer
	Namespace  string
	Buckets    []float64
}

// HTTPMetrics HTTP 请求指标
type HTTPMetrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
	InFlight prometheus.Gauge
	Denied   *prometheus.CounterVec
}

// NewHTTPMetrics 创建并注册指标，重复注册时复用已存在的 collector
func NewHTTPMetrics(opts HTTPMetricsOptions) (*HTTPMetrics, error) {
	namespace := opts.Namespace
	if namespace == "" {
		namespace = "mall"
	}
	reg := opts.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	buckets := opts.Buckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	requests, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests partitioned by method, route, and status code.",
	}, []string{"method", "route", "status"}))
	if err != nil {
		return nil, err
	}

	duration, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Histogram of HTTP request latencies in seconds.",
		Buckets:   buckets,
	}, []string{"method", "route", "status"}))
	if err != nil {
		return nil, err
	}

	inFlight, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "in_flight_requests",
		Help:      "Current number of in-flight HTTP requests.",
	}))
	if err != nil {
		return nil, err
	}

	denied, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "denied_total",
		Help:      "Requests rejected by the authorization gate partitioned by reason.",
	}, []string{"route", "reason"}))
	if err != nil {
		return nil, err
	}

	return &HTTPMetrics{
		Requests: requests,
		Duration: duration,
		InFlight: inFlight,
		Denied:   denied,
	}, nil
}

// register 注册 collector，已注册时返回已存在的实例
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing, nil
			}
			return c, fmt.Errorf("existing collector has unexpected type %T", already.ExistingCollector)
		}
		return c, fmt.Errorf("register collector: %w", err)
	}
	return c, nil
}

// Handler 记录请求指标
func (m *HTTPMetrics) Handler() gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		start := time.Now()
		m.InFlight.Inc()
		defer m.InFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		labels := prometheus.Labels{
			"method": c.Request.Method,
			"route":  route,
			"status": strconv.Itoa(c.Writer.Status()),
		}
		m.Requests.With(labels).Inc()
		m.Duration.With(labels).Observe(time.Since(start).Seconds())

		// 鉴权拒绝按原因统计
		for _, e := range c.Errors {
			switch {
			case errors.Is(e.Err, ErrMissingCredential):
				m.Denied.WithLabelValues(route, "missing_credential").Inc()
			case errors.Is(e.Err, ErrInvalidCredential):
				m.Denied.WithLabelValues(route, "invalid_credential").Inc()
			case errors.Is(e.Err, ErrInsufficientPermission):
				m.Denied.WithLabelValues(route, "insufficient_permission").Inc()
			}
		}
	}
}
