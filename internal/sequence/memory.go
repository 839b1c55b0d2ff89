// Package sequence 提供命令帧序列号来源
// 序列号为计数器对256取模，仅用于关联设备应答
package sequence

import (
	"context"
	"sync/atomic"
)

// Memory 进程内原子计数器
type Memory struct {
	next atomic.Uint32
}

// NewMemory 创建从 start 开始的计数器
func NewMemory(start uint8) *Memory {
	m := &Memory{}
	m.next.Store(uint32(start))
	return m
}

// Next 返回下一个序列号（并发安全）
func (m *Memory) Next(context.Context) (uint8, error) {
	return uint8(m.next.Add(1) - 1), nil
}
