package app

import (
	"go.uber.org/zap"

	cfgpkg "github.com/taoyao-code/sphero-wire/internal/config"
	"github.com/taoyao-code/sphero-wire/internal/health"
	"github.com/taoyao-code/sphero-wire/internal/protocol/sphero"
	"github.com/taoyao-code/sphero-wire/internal/sequence"
	redisstorage "github.com/taoyao-code/sphero-wire/internal/storage/redis"
)

// NewRedisClient 创建Redis客户端，未启用时返回 nil
func NewRedisClient(cfg cfgpkg.RedisConfig, logger *zap.Logger) (*redisstorage.Client, error) {
	if !cfg.Enabled {
		logger.Info("redis is disabled, using in-process sequence counter")
		return nil, nil
	}

	client, err := redisstorage.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	logger.Info("redis client initialized",
		zap.String("addr", cfg.Addr),
		zap.Int("pool_size", cfg.PoolSize))

	return client, nil
}

// NewSequencer 有 Redis 时多实例共享序列号（带熔断），否则进程内计数
func NewSequencer(cfg cfgpkg.RedisConfig, client *redisstorage.Client, logger *zap.Logger) sphero.Sequencer {
	if client == nil {
		return sequence.NewMemory(0)
	}
	b := sequence.NewBreaker(sequence.NewRedis(client, cfg.SequenceKey), cfg.BreakerThreshold, cfg.BreakerCooldown)
	b.OnStateChange(func(from, to sequence.State) {
		logger.Warn("sequence breaker state changed",
			zap.String("from", from.String()),
			zap.String("to", to.String()),
			zap.String("key", cfg.SequenceKey))
	})
	return b
}

// AddSequenceChecker 序列号来源带熔断时报告其状态
func AddSequenceChecker(aggregator *health.Aggregator, seq sphero.Sequencer) {
	if b, ok := seq.(*sequence.Breaker); ok {
		aggregator.AddChecker(health.NewSequenceChecker(b))
	}
}

// AddRedisChecker 添加Redis检查器到聚合器
func AddRedisChecker(aggregator *health.Aggregator, client *redisstorage.Client, seqKey string) {
	if client != nil {
		aggregator.AddChecker(health.NewRedisChecker(client, seqKey))
	}
}
