package sphero

import (
	"context"
	"fmt"
)

// Envelope 编码前由外部分配的帧元数据
type Envelope struct {
	DeviceID  uint8
	CommandID uint8
	Sequence  uint8
	Options   Options
}

// Frame 用载荷补全为待构造的帧
func (e Envelope) Frame(payload []byte) Frame {
	return Frame{
		DeviceID:  e.DeviceID,
		CommandID: e.CommandID,
		Sequence:  e.Sequence,
		Options:   e.Options,
		Payload:   payload,
	}
}

// Enveloper 为每次编码分配序列号并解析帧选项
// 并发调用时必须保证序列号互不相同
type Enveloper interface {
	Envelope(ctx context.Context, did, cid uint8, opts Options) (Envelope, error)
}

// Sequencer 序列号来源
type Sequencer interface {
	Next(ctx context.Context) (uint8, error)
}

// SequenceEnveloper 用 Sequencer 实现 Enveloper
type SequenceEnveloper struct {
	Seq Sequencer
}

// Envelope 实现 Enveloper
func (s SequenceEnveloper) Envelope(ctx context.Context, did, cid uint8, opts Options) (Envelope, error) {
	seq, err := s.Seq.Next(ctx)
	if err != nil {
		return Envelope{}, fmt.Errorf("allocate sequence: %w", err)
	}
	return Envelope{DeviceID: did, CommandID: cid, Sequence: seq, Options: opts}, nil
}
