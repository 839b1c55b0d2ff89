package sequence

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey 默认计数器键
const DefaultRedisKey = "sphero:seq"

// Incrementer Redis INCR 能力（*redis.Client 满足）
type Incrementer interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
}

// Redis 基于 INCR 的序列号，多个进程共享同一设备链路时保证唯一
type Redis struct {
	client Incrementer
	key    string
}

// NewRedis 创建 Redis 序列号来源，key 为空时使用 DefaultRedisKey
func NewRedis(client Incrementer, key string) *Redis {
	if key == "" {
		key = DefaultRedisKey
	}
	return &Redis{client: client, key: key}
}

// Next 返回 INCR 结果的低8位
func (r *Redis) Next(ctx context.Context) (uint8, error) {
	n, err := r.client.Incr(ctx, r.key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incr %s: %w", r.key, err)
	}
	return uint8(n), nil
}
