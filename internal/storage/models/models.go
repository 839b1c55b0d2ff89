package models

import (
	"time"
)

// 注意：
// - 保持与 internal/storage/pg/migrations 完全对齐
// - 不使用 gorm.Model，显式声明每个字段，避免隐式 DeletedAt

// FrameRecord 映射 sphero_frames 表：每个已编码帧一条，用于按序列号关联设备应答
type FrameRecord struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	FrameID    string    `gorm:"column:frame_id;type:uuid;not null;uniqueIndex"`
	RequestID  string    `gorm:"column:request_id;type:uuid;not null;index"` // 客户端可复用，不唯一
	Command    string    `gorm:"column:command;type:text;not null"`
	Variant    string    `gorm:"column:variant;type:text;not null;default:''"`
	DeviceID   int16     `gorm:"column:device_id;not null"`
	CommandID  int16     `gorm:"column:command_id;not null"`
	Sequence   int16     `gorm:"column:sequence;not null"`
	Marker     int16     `gorm:"column:marker;not null"`
	PayloadLen int16     `gorm:"column:payload_len;not null"`
	FrameHex   string    `gorm:"column:frame_hex;type:text;not null"`
	Advisory   string    `gorm:"column:advisory;type:text;not null;default:''"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (FrameRecord) TableName() string { return "sphero_frames" }
