package gormrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/taoyao-code/sphero-wire/internal/storage"
	"github.com/taoyao-code/sphero-wire/internal/storage/models"
)

const maxRecent = 500

// Open 在现有 pgx 连接池上打开 GORM
func Open(pool *pgxpool.Pool) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		Conn: stdlib.OpenDBFromPool(pool),
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

// Repository 基于 GORM 的 FrameJournal 实现。
type Repository struct {
	db *gorm.DB
}

// New 返回一个使用给定 *gorm.DB 的 FrameJournal 实例。
func New(db *gorm.DB) storage.FrameJournal {
	return &Repository{db: db}
}

// Record 插入帧记录。
func (r *Repository) Record(ctx context.Context, rec *models.FrameRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

// LatestBySequence 序列号回绕后取最近一条。
func (r *Repository) LatestBySequence(ctx context.Context, seq uint8) (*models.FrameRecord, error) {
	var rec models.FrameRecord
	err := r.db.WithContext(ctx).
		Where("sequence = ?", int16(seq)).
		Order("created_at DESC").
		Order("id DESC").
		Take(&rec).Error
	return wrapNotFound(&rec, err)
}

// GetByFrameID 按帧ID查询。
func (r *Repository) GetByFrameID(ctx context.Context, frameID string) (*models.FrameRecord, error) {
	var rec models.FrameRecord
	err := r.db.WithContext(ctx).Where("frame_id = ?", frameID).Take(&rec).Error
	return wrapNotFound(&rec, err)
}

// GetByRequestID 同一请求ID取最近一条。
func (r *Repository) GetByRequestID(ctx context.Context, requestID string) (*models.FrameRecord, error) {
	var rec models.FrameRecord
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("created_at DESC").
		Order("id DESC").
		Take(&rec).Error
	return wrapNotFound(&rec, err)
}

// Recent 最近的记录，limit 超出范围时取默认值。
func (r *Repository) Recent(ctx context.Context, limit int) ([]models.FrameRecord, error) {
	if limit <= 0 || limit > maxRecent {
		limit = 50
	}
	var out []models.FrameRecord
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func wrapNotFound(rec *models.FrameRecord, err error) (*models.FrameRecord, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}
