package app

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/taoyao-code/sphero-wire/internal/api/middleware"
	cfgpkg "github.com/taoyao-code/sphero-wire/internal/config"
	"github.com/taoyao-code/sphero-wire/internal/httpserver"
)

// NewHTTPServer 根据配置创建 HTTP 服务器
func NewHTTPServer(cfg cfgpkg.HTTPConfig, metricsPath string, metricsHandler http.Handler, readyFn func() bool, log *zap.Logger) *httpserver.Server {
	return httpserver.New(cfg, metricsPath, metricsHandler, readyFn, log)
}

// RegisterRateLimiterMetrics 导出限流器放行数与配置速率；拒绝数由 EncoderMetrics.RateLimited 计数
func RegisterRateLimiterMetrics(reg prometheus.Registerer, l *middleware.RateLimiter) {
	if l == nil {
		return
	}
	reg.MustRegister(
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "sphero_http_rate_limit_allowed_total",
			Help: "Encode requests admitted by the rate limiter.",
		}, func() float64 { return float64(l.Stats().AllowedTotal) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "sphero_http_rate_limit_rps",
			Help: "Configured encode rate limit (requests per second).",
		}, func() float64 { return float64(l.Stats().RatePerSecond) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "sphero_http_rate_limit_burst",
			Help: "Configured encode rate limit burst.",
		}, func() float64 { return float64(l.Stats().Burst) }),
	)
}

// NewRateLimiter 未启用时返回 nil
func NewRateLimiter(cfg cfgpkg.RateLimitConfig) *middleware.RateLimiter {
	if !cfg.Enabled {
		return nil
	}
	return middleware.NewRateLimiter(cfg.RPS, cfg.Burst)
}
