package health

import (
	"context"
	"time"

	"github.com/taoyao-code/sphero-wire/internal/sequence"
)

// BreakerSource 带熔断的序列号来源
type BreakerSource interface {
	State() sequence.State
	Trips() int64
}

// SequenceChecker 报告共享序列号来源的熔断状态
type SequenceChecker struct {
	breaker BreakerSource
}

// NewSequenceChecker 创建序列号熔断检查器
func NewSequenceChecker(b BreakerSource) *SequenceChecker {
	return &SequenceChecker{breaker: b}
}

func (c *SequenceChecker) Name() string { return "sequence" }

// Check 熔断打开时编码接口返回503，但不影响字典查询，视为降级
func (c *SequenceChecker) Check(context.Context) CheckResult {
	start := time.Now()
	state := c.breaker.State()
	result := CheckResult{
		Status:  StatusHealthy,
		Message: "ok",
		Details: map[string]interface{}{
			"breaker_state": state.String(),
			"breaker_trips": c.breaker.Trips(),
		},
	}
	switch state {
	case sequence.StateOpen:
		result.Status = StatusDegraded
		result.Message = "sequence source circuit open"
	case sequence.StateHalfOpen:
		result.Status = StatusDegraded
		result.Message = "sequence source recovering"
	}
	result.Latency = time.Since(start)
	return result
}
