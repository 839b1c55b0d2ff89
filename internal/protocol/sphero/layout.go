package sphero

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// FieldKind 载荷字段类型
type FieldKind uint8

const (
	KindUint8 FieldKind = iota + 1
	KindUint16
	KindUint24 // 3字节，如 0xRRGGBB 颜色
	KindUint32
	KindInt16
	KindInt32
	KindBool
	KindFlags // 位域，Bits[i] 对应 bit i
	KindPad   // 固定填0，不消耗参数
	KindBlock // 定长块，不足补0
	KindBlob  // 变长字节串，Size 为上限
)

var kindNames = map[FieldKind]string{
	KindUint8:  "uint8",
	KindUint16: "uint16",
	KindUint24: "uint24",
	KindUint32: "uint32",
	KindInt16:  "int16",
	KindInt32:  "int32",
	KindBool:   "bool",
	KindFlags:  "flags",
	KindPad:    "pad",
	KindBlock:  "block",
	KindBlob:   "blob",
}

func (k FieldKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("FieldKind(%d)", uint8(k))
}

// IsBytes 字段是否接收字节串参数
func (k FieldKind) IsBytes() bool {
	return k == KindBlock || k == KindBlob
}

// Field 载荷中的一个字段
type Field struct {
	Name string
	Kind FieldKind
	Size int      // KindBlock: 块长度；KindBlob: 最大字节数
	Bits []string // KindFlags: 从 bit0 起的位名称
}

func U8(name string) Field  { return Field{Name: name, Kind: KindUint8} }
func U16(name string) Field { return Field{Name: name, Kind: KindUint16} }
func U24(name string) Field { return Field{Name: name, Kind: KindUint24} }
func U32(name string) Field { return Field{Name: name, Kind: KindUint32} }
func I16(name string) Field { return Field{Name: name, Kind: KindInt16} }
func I32(name string) Field { return Field{Name: name, Kind: KindInt32} }

// Flag 布尔字段，写为 0x00/0x01
func Flag(name string) Field { return Field{Name: name, Kind: KindBool} }

// Bitfield 位域字段
func Bitfield(name string, bits ...string) Field {
	return Field{Name: name, Kind: KindFlags, Bits: bits}
}

// Pad 保留字节
func Pad() Field { return Field{Name: "reserved", Kind: KindPad} }

// Block 定长块
func Block(name string, size int) Field { return Field{Name: name, Kind: KindBlock, Size: size} }

// Blob 有上限的变长字节串
func Blob(name string, limit int) Field { return Field{Name: name, Kind: KindBlob, Size: limit} }

// Width 字段的固定宽度；KindBlob 返回0
func (f Field) Width() int {
	switch f.Kind {
	case KindUint8, KindBool, KindFlags, KindPad:
		return 1
	case KindUint16, KindInt16:
		return 2
	case KindUint24:
		return 3
	case KindUint32, KindInt32:
		return 4
	case KindBlock:
		return f.Size
	default:
		return 0
	}
}

// bounds 数值字段的取值范围
func (f Field) bounds() (lo int64, hi uint64) {
	switch f.Kind {
	case KindUint8:
		return 0, math.MaxUint8
	case KindUint16:
		return 0, math.MaxUint16
	case KindUint24:
		return 0, 1<<24 - 1
	case KindUint32:
		return 0, math.MaxUint32
	case KindInt16:
		return math.MinInt16, math.MaxInt16
	case KindInt32:
		return math.MinInt32, math.MaxInt32
	case KindBool:
		return 0, 1
	case KindFlags:
		return 0, 1<<uint(len(f.Bits)) - 1
	default:
		return 0, 0
	}
}

// OverflowPolicy 数值超出字段位宽时的处理策略
type OverflowPolicy uint8

const (
	// OverflowStrict 拒绝越界数值
	OverflowStrict OverflowPolicy = iota
	// OverflowWrap 按字段位宽截断（兼容旧实现）
	OverflowWrap
)

func (p OverflowPolicy) String() string {
	if p == OverflowWrap {
		return "wrap"
	}
	return "strict"
}

// ParseOverflowPolicy 解析配置中的策略名称
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return OverflowStrict, nil
	case "wrap":
		return OverflowWrap, nil
	default:
		return 0, fmt.Errorf("unknown overflow policy %q", s)
	}
}

// Value 一个字段参数：数值或字节串
type Value struct {
	raw      uint64
	negative bool
	data     []byte
	isBytes  bool
}

// Uint 无符号数值参数
func Uint(v uint64) Value { return Value{raw: v} }

// Int 有符号数值参数
func Int(v int64) Value { return Value{raw: uint64(v), negative: v < 0} }

// Bool 布尔参数
func Bool(b bool) Value {
	if b {
		return Value{raw: 1}
	}
	return Value{}
}

// Bytes 字节串参数
func Bytes(b []byte) Value { return Value{data: b, isBytes: true} }

// IsBytes 是否为字节串参数
func (v Value) IsBytes() bool { return v.isBytes }

func (v Value) String() string {
	if v.isBytes {
		return fmt.Sprintf("%d bytes", len(v.data))
	}
	if v.negative {
		return fmt.Sprintf("%d", int64(v.raw))
	}
	return fmt.Sprintf("%d", v.raw)
}

func (v Value) inRange(lo int64, hi uint64) bool {
	if v.negative {
		return int64(v.raw) >= lo
	}
	return v.raw <= hi
}

// Shape 布局形态
type Shape uint8

const (
	ShapeEmpty Shape = iota
	ShapeFixed
	ShapeBitfield
	ShapeBlock
	ShapeBlob
	ShapePrefixedBlob
)

var shapeNames = [...]string{"empty", "fixed", "bitfield", "block", "blob", "prefixed-blob"}

func (s Shape) String() string {
	if int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return fmt.Sprintf("Shape(%d)", uint8(s))
}

// Layout 一个命令载荷的布局变体
type Layout struct {
	Variant string
	Fields  []Field
}

// Shape 根据字段推导布局形态
func (l Layout) Shape() Shape {
	if len(l.Fields) == 0 {
		return ShapeEmpty
	}
	last := l.Fields[len(l.Fields)-1]
	switch {
	case last.Kind == KindBlob && len(l.Fields) > 1:
		return ShapePrefixedBlob
	case last.Kind == KindBlob:
		return ShapeBlob
	case last.Kind == KindBlock:
		return ShapeBlock
	}
	for _, f := range l.Fields {
		if f.Kind == KindFlags {
			return ShapeBitfield
		}
	}
	return ShapeFixed
}

// Arity 需要的参数个数（保留字节不计）
func (l Layout) Arity() int {
	n := 0
	for _, f := range l.Fields {
		if f.Kind != KindPad {
			n++
		}
	}
	return n
}

// MaxLen 载荷可能的最大长度
func (l Layout) MaxLen() int {
	n := 0
	for _, f := range l.Fields {
		if f.Kind == KindBlob {
			n += f.Size
			continue
		}
		n += f.Width()
	}
	return n
}

// Encode 按布局将参数写入新分配的载荷
// 变长字节串超过上限时在分配前返回 ErrPayloadTooLarge
func (l Layout) Encode(values []Value, policy OverflowPolicy) ([]byte, error) {
	if len(values) != l.Arity() {
		return nil, fmt.Errorf("%w: want %d, got %d", ErrArgumentCount, l.Arity(), len(values))
	}

	// 先校验全部参数并计算长度
	size := 0
	vi := 0
	for _, f := range l.Fields {
		if f.Kind == KindPad {
			size++
			continue
		}
		v := values[vi]
		vi++
		if f.Kind.IsBytes() != v.isBytes {
			return nil, fmt.Errorf("%w: field %s expects %s", ErrArgumentType, f.Name, f.Kind)
		}
		switch f.Kind {
		case KindBlob:
			if len(v.data) > f.Size {
				return nil, fmt.Errorf("%w: %s is %d bytes (max %d)", ErrPayloadTooLarge, f.Name, len(v.data), f.Size)
			}
			size += len(v.data)
		case KindBlock:
			if len(v.data) > f.Size && policy == OverflowStrict {
				return nil, fmt.Errorf("%w: %s is %d bytes (block %d)", ErrPayloadTooLarge, f.Name, len(v.data), f.Size)
			}
			size += f.Size
		default:
			if policy == OverflowStrict {
				lo, hi := f.bounds()
				if !v.inRange(lo, hi) {
					return nil, fmt.Errorf("%w: %s=%s not in [%d, %d]", ErrValueOutOfRange, f.Name, v, lo, hi)
				}
			}
			size += f.Width()
		}
	}
	if size > MaxPayloadLen {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrPayloadTooLarge, size, MaxPayloadLen)
	}

	buf := make([]byte, size)
	off := 0
	vi = 0
	for _, f := range l.Fields {
		if f.Kind == KindPad {
			off++
			continue
		}
		v := values[vi]
		vi++
		switch f.Kind {
		case KindBlob:
			off += copy(buf[off:], v.data)
		case KindBlock:
			// copy 仅写入块长度以内的数据，超出部分在截断模式下丢弃
			copy(buf[off:off+f.Size], v.data)
			off += f.Size
		case KindUint16, KindInt16:
			binary.BigEndian.PutUint16(buf[off:], uint16(v.raw))
			off += 2
		case KindUint24:
			buf[off] = byte(v.raw >> 16)
			buf[off+1] = byte(v.raw >> 8)
			buf[off+2] = byte(v.raw)
			off += 3
		case KindUint32, KindInt32:
			binary.BigEndian.PutUint32(buf[off:], uint32(v.raw))
			off += 4
		default:
			buf[off] = byte(v.raw)
			off++
		}
	}
	return buf, nil
}
