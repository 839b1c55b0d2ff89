package app

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taoyao-code/sphero-wire/internal/health"
	"github.com/taoyao-code/sphero-wire/internal/protocol/sphero"
)

// NewHealthAggregator 创建健康检查聚合器，dbpool 为空时不检查数据库
func NewHealthAggregator(enc *sphero.Encoder, dbpool *pgxpool.Pool) *health.Aggregator {
	agg := health.NewAggregator(health.NewDictionaryChecker(enc))
	if dbpool != nil {
		agg.AddChecker(health.NewDatabaseChecker(dbpool))
	}
	return agg
}

// RegisterHealthRoutes 注册健康检查HTTP路由
func RegisterHealthRoutes(r *gin.Engine, aggregator *health.Aggregator) {
	health.RegisterHTTPRoutes(r, aggregator)
}
