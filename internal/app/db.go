package app

import (
	"context"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	cfgpkg "github.com/taoyao-code/sphero-wire/internal/config"
	"github.com/taoyao-code/sphero-wire/internal/storage"
	"github.com/taoyao-code/sphero-wire/internal/storage/gormrepo"
	pgstorage "github.com/taoyao-code/sphero-wire/internal/storage/pg"
)

// ConnectDBAndMigrate 建立数据库连接并按需执行迁移；未启用时返回 nil
func ConnectDBAndMigrate(ctx context.Context, cfg cfgpkg.DatabaseConfig, log *zap.Logger) (*pgxpool.Pool, error) {
	if !cfg.Enabled {
		log.Info("frame journal database disabled")
		return nil, nil
	}

	dbpool, err := pgstorage.NewPool(ctx, cfg, log)
	if err != nil {
		log.Error("db connect error", zap.Error(err))
		return nil, err
	}
	if cfg.AutoMigrate {
		runner := pgstorage.Runner{}
		// 目录存在时优先使用外部迁移文件，否则使用内置迁移
		if cfg.MigrationsDir != "" {
			if st, statErr := os.Stat(cfg.MigrationsDir); statErr == nil && st.IsDir() {
				runner.FS = os.DirFS(cfg.MigrationsDir)
			}
		}
		applied, err := runner.Up(ctx, dbpool)
		if err != nil {
			log.Error("db migrate error", zap.Error(err))
			return dbpool, err
		}
		log.Info("db migrations applied", zap.Int64s("versions", applied))
	}
	return dbpool, nil
}

// NewFrameJournal 在连接池上创建帧日志仓库；pool 为空时返回 nil
func NewFrameJournal(pool *pgxpool.Pool) (storage.FrameJournal, error) {
	if pool == nil {
		return nil, nil
	}
	db, err := gormrepo.Open(pool)
	if err != nil {
		return nil, err
	}
	return gormrepo.New(db), nil
}
