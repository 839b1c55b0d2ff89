package health

import (
	"context"
	"time"

	"github.com/taoyao-code/sphero-wire/internal/protocol/sphero"
)

// DictionaryChecker 报告编码器加载的命令字典
type DictionaryChecker struct {
	enc *sphero.Encoder
}

// NewDictionaryChecker 创建命令字典检查器
func NewDictionaryChecker(enc *sphero.Encoder) *DictionaryChecker {
	return &DictionaryChecker{enc: enc}
}

func (c *DictionaryChecker) Name() string { return "encoder" }

// Check 字典为空视为不健康
func (c *DictionaryChecker) Check(context.Context) CheckResult {
	start := time.Now()
	n := c.enc.Dictionary().Len()
	if n == 0 {
		return CheckResult{Status: StatusUnhealthy, Message: "empty command dictionary", Latency: time.Since(start)}
	}
	return CheckResult{
		Status:  StatusHealthy,
		Message: "ok",
		Details: map[string]interface{}{
			"commands":     n,
			"frame_layout": c.enc.FrameLayout().String(),
		},
		Latency: time.Since(start),
	}
}
