// Package sphero 实现 Sphero 串口/蓝牙协议的命令编码与组帧
package sphero

import (
	"fmt"
	"strings"
)

// 帧格式常量
const (
	SOP1 = 0xFF // 包头第一字节，固定

	markerBase         = 0xFC // SOP2 高6位固定为1
	markerAnswer       = 0x01 // bit0: 要求设备应答
	markerResetTimeout = 0x02 // bit1: 重置设备空闲计时

	// MaxPayloadLen 载荷最大长度（DLEN 为1字节且包含校验和）
	MaxPayloadLen = 254
)

// FrameLayout 帧头布局（是否在帧内携带序列号）
type FrameLayout uint8

const (
	// FrameSequenced SOP1 SOP2 DID CID SEQ DLEN DATA CHK
	FrameSequenced FrameLayout = iota
	// FrameCompact SOP1 SOP2 DID CID DLEN DATA CHK，序列号仅在带外传递
	FrameCompact
)

func (l FrameLayout) String() string {
	switch l {
	case FrameSequenced:
		return "sequenced"
	case FrameCompact:
		return "compact"
	default:
		return fmt.Sprintf("FrameLayout(%d)", uint8(l))
	}
}

// Overhead 除载荷外的帧字节数
func (l FrameLayout) Overhead() int {
	if l == FrameCompact {
		return 6
	}
	return 7
}

// ParseFrameLayout 解析配置中的帧布局名称
func ParseFrameLayout(s string) (FrameLayout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sequenced":
		return FrameSequenced, nil
	case "compact":
		return FrameCompact, nil
	default:
		return 0, fmt.Errorf("unknown frame layout %q", s)
	}
}

// Options 调用方的帧选项，映射到 SOP2 的标志位
type Options struct {
	Ack          bool // 设备需回复应答
	ResetTimeout bool // 重置设备空闲计时
}

// DefaultOptions 不要求应答，重置空闲计时（SOP2=0xFE）
func DefaultOptions() Options {
	return Options{ResetTimeout: true}
}

// Marker 计算 SOP2
func (o Options) Marker() byte {
	m := byte(markerBase)
	if o.Ack {
		m |= markerAnswer
	}
	if o.ResetTimeout {
		m |= markerResetTimeout
	}
	return m
}

// Frame 一个待发送的命令帧
type Frame struct {
	DeviceID  uint8
	CommandID uint8
	Sequence  uint8
	Options   Options
	Payload   []byte
}

// Build 构造下行命令帧
// 总长度：len(payload) + layout.Overhead()
func Build(f Frame, layout FrameLayout) ([]byte, error) {
	if len(f.Payload) > MaxPayloadLen {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrPayloadTooLarge, len(f.Payload), MaxPayloadLen)
	}

	buf := make([]byte, 0, len(f.Payload)+layout.Overhead())

	// 包头
	buf = append(buf, SOP1, f.Options.Marker())

	// 设备号与命令号
	buf = append(buf, f.DeviceID, f.CommandID)

	if layout != FrameCompact {
		buf = append(buf, f.Sequence)
	}

	// DLEN 包含校验和字节
	buf = append(buf, byte(len(f.Payload)+1))

	buf = append(buf, f.Payload...)

	// 校验和从 DID 开始计算
	buf = append(buf, Checksum(buf[2:]))

	return buf, nil
}

// VerifyFrame 校验已构造帧的包头、长度与校验和
func VerifyFrame(frame []byte, layout FrameLayout) error {
	overhead := layout.Overhead()
	if len(frame) < overhead {
		return fmt.Errorf("%w: %d bytes", ErrShortFrame, len(frame))
	}
	if frame[0] != SOP1 || frame[1]&markerBase != markerBase {
		return fmt.Errorf("%w: %02X %02X", ErrBadMarker, frame[0], frame[1])
	}

	dlen := int(frame[overhead-2])
	if dlen != len(frame)-overhead+1 {
		return fmt.Errorf("%w: dlen=%d, frame=%d bytes", ErrLengthMismatch, dlen, len(frame))
	}

	last := len(frame) - 1
	if Checksum(frame[2:last]) != frame[last] {
		return ErrChecksumMismatch
	}
	return nil
}
