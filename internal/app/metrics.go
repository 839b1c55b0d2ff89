package app

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/taoyao-code/sphero-wire/internal/metrics"
)

// NewMetrics 初始化注册表与编码器指标
func NewMetrics() (*prometheus.Registry, *metrics.EncoderMetrics) {
	reg := metrics.NewRegistry()
	return reg, metrics.NewEncoderMetrics(reg)
}
