package storage

import (
	"context"
	"errors"

	"github.com/taoyao-code/sphero-wire/internal/storage/models"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("record not found")

// FrameJournal 已编码帧的存储抽象。
// 约束：
// - 上层不直接写 SQL，统一通过本接口访问
// - 序列号只有8位会回绕，按序列号查询总是返回最近一条
type FrameJournal interface {
	// Record 写入一条帧记录，成功后回填 ID 与 CreatedAt
	Record(ctx context.Context, rec *models.FrameRecord) error
	// LatestBySequence 返回指定序列号最近的一条记录，不存在返回 ErrNotFound
	LatestBySequence(ctx context.Context, seq uint8) (*models.FrameRecord, error)
	// GetByFrameID 按帧ID查询
	GetByFrameID(ctx context.Context, frameID string) (*models.FrameRecord, error)
	// GetByRequestID 请求ID可被客户端复用，返回最近一条
	GetByRequestID(ctx context.Context, requestID string) (*models.FrameRecord, error)
	// Recent 按时间倒序列出最近的记录
	Recent(ctx context.Context, limit int) ([]models.FrameRecord, error)
}
