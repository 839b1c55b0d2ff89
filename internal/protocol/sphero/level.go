package sphero

// LevelOptions 自平衡例程的选项位
type LevelOptions struct {
	Start         bool // bit0: true=开始，false=中止
	Rotate        bool // bit1: 完成后转回初始朝向
	Sleep         bool // bit2: 完成后休眠
	ControlSystem bool // bit3: 完成后保持控制系统开启
}

// DefaultLevelOptions 常用预设：开始、转回朝向、保持唤醒、控制系统开启
func DefaultLevelOptions() LevelOptions {
	return LevelOptions{Start: true, Rotate: true, ControlSystem: true}
}

// Bits 打包为选项字节
func (o LevelOptions) Bits() uint8 {
	var b uint8
	if o.Start {
		b |= 0x01
	}
	if o.Rotate {
		b |= 0x02
	}
	if o.Sleep {
		b |= 0x04
	}
	if o.ControlSystem {
		b |= 0x08
	}
	return b
}

// Streaming setDataStreaming 的参数形态，只能是 StreamingBase 或 StreamingWithSecondMask
type Streaming interface {
	variant() (string, []Value)
}

// StreamingBase 9字节载荷
type StreamingBase struct {
	Divisor uint16 // 采样率分频
	Frames  uint16 // 每包帧数
	Mask    uint32
	Count   uint8 // 包数，0 表示持续
}

func (s StreamingBase) values() []Value {
	return []Value{Uint(uint64(s.Divisor)), Uint(uint64(s.Frames)), Uint(uint64(s.Mask)), Uint(uint64(s.Count))}
}

func (s StreamingBase) variant() (string, []Value) {
	return VariantStreamingBase, s.values()
}

// StreamingWithSecondMask 13字节载荷，Mask2 追加在偏移9
type StreamingWithSecondMask struct {
	StreamingBase
	Mask2 uint32
}

func (s StreamingWithSecondMask) variant() (string, []Value) {
	return VariantStreamingSecondMask, append(s.StreamingBase.values(), Uint(uint64(s.Mask2)))
}

// MacroParameterVariant 参数 0、1 为16位值，其余为8位值加保留字节
func MacroParameterVariant(parameter uint8) string {
	if parameter > 0x01 {
		return VariantMacroParamNarrow
	}
	return VariantMacroParamWide
}
