package health

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	redisstorage "github.com/taoyao-code/sphero-wire/internal/storage/redis"
)

// RedisChecker 序列号 Redis 健康检查器
type RedisChecker struct {
	client *redisstorage.Client
	seqKey string
}

// NewRedisChecker 创建Redis健康检查器，seqKey 为序列号计数器键
func NewRedisChecker(client *redisstorage.Client, seqKey string) *RedisChecker {
	return &RedisChecker{client: client, seqKey: seqKey}
}

// Name 返回检查器名称
func (c *RedisChecker) Name() string {
	return "redis"
}

// Check 执行健康检查
func (c *RedisChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()

	// 1. Ping测试
	if err := c.client.HealthCheck(ctx); err != nil {
		return CheckResult{
			Status:  StatusUnhealthy,
			Message: fmt.Sprintf("ping failed: %v", err),
			Latency: time.Since(start),
		}
	}

	// 2. 获取连接池统计
	stats := c.client.Stats()

	// 3. 计算连接池利用率
	utilization := 0.0
	if stats.TotalConns > 0 {
		utilization = float64(stats.TotalConns-stats.IdleConns) / float64(stats.TotalConns)
	}

	// 4. 判断健康状态
	status := StatusHealthy
	message := "ok"

	if utilization > 0.9 {
		status = StatusDegraded
		message = "connection pool near limit"
	}

	details := map[string]interface{}{
		"total_conns": stats.TotalConns,
		"idle_conns":  stats.IdleConns,
		"timeouts":    stats.Timeouts,
		"utilization": fmt.Sprintf("%.1f%%", utilization*100),
	}

	// 5. 当前序列号计数（只读，不消耗序列号）
	if c.seqKey != "" {
		n, err := c.client.Get(ctx, c.seqKey).Int64()
		switch {
		case err == nil:
			details["sequence_counter"] = n
		case errors.Is(err, redis.Nil):
			details["sequence_counter"] = 0
		default:
			status = StatusDegraded
			message = fmt.Sprintf("read sequence key: %v", err)
		}
	}

	return CheckResult{
		Status:  status,
		Message: message,
		Details: details,
		Latency: time.Since(start),
	}
}
