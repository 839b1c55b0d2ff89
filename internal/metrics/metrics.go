package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRegistry 创建自定义 Prometheus Registry，并注册常用采集器
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler 返回 Prometheus 指标 HTTP 处理器
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// EncoderMetrics 编码器指标，实现 sphero.Observer
type EncoderMetrics struct {
	FramesTotal   *prometheus.CounterVec // labels: command
	RejectedTotal *prometheus.CounterVec // labels: command, reason
	AdvisoryTotal *prometheus.CounterVec // labels: command
	PayloadBytes  prometheus.Histogram
	RateLimited   prometheus.Counter
}

// NewEncoderMetrics 注册并返回编码器指标
func NewEncoderMetrics(reg prometheus.Registerer) *EncoderMetrics {
	m := &EncoderMetrics{
		FramesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sphero_frames_encoded_total",
			Help: "Frames built by command.",
		}, []string{"command"}),
		RejectedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sphero_encode_rejected_total",
			Help: "Encode requests rejected by command and reason.",
		}, []string{"command", "reason"}),
		AdvisoryTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sphero_advisory_commands_total",
			Help: "Frames encoded for commands the device will not honour.",
		}, []string{"command"}),
		PayloadBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sphero_payload_bytes",
			Help:    "Payload length of encoded frames.",
			Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 64, 128, 254},
		}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sphero_http_rate_limited_total",
			Help: "Encode requests rejected by the rate limiter.",
		}),
	}
	reg.MustRegister(m.FramesTotal, m.RejectedTotal, m.AdvisoryTotal, m.PayloadBytes, m.RateLimited)
	return m
}

func (m *EncoderMetrics) FrameEncoded(command string, payloadLen int) {
	m.FramesTotal.WithLabelValues(command).Inc()
	m.PayloadBytes.Observe(float64(payloadLen))
}

func (m *EncoderMetrics) EncodeRejected(command, reason string) {
	m.RejectedTotal.WithLabelValues(command, reason).Inc()
}

func (m *EncoderMetrics) AdvisoryCommand(command string) {
	m.AdvisoryTotal.WithLabelValues(command).Inc()
}
