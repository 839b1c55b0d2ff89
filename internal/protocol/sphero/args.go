package sphero

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ValuesFromMap 按字段名从松散参数（JSON/YAML 解码结果）构造参数列表
// 数值字段接受整数、json.Number 或 "0x.." / 十进制字符串；字节字段接受十六进制字符串
func (l Layout) ValuesFromMap(args map[string]any) ([]Value, error) {
	values := make([]Value, 0, l.Arity())
	used := 0
	for _, f := range l.Fields {
		if f.Kind == KindPad {
			continue
		}
		raw, ok := args[f.Name]
		if !ok {
			return nil, fmt.Errorf("%w: missing field %s", ErrArgumentCount, f.Name)
		}
		used++
		v, err := ParseArg(f, raw)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	if used != len(args) {
		return nil, fmt.Errorf("%w: unexpected fields %v", ErrArgumentCount, l.unknownKeys(args))
	}
	return values, nil
}

// ArgsFromMap 按命令解析松散参数，variant 为空时由参数推断变体，返回实际使用的变体
func (d *Descriptor) ArgsFromMap(variant string, args map[string]any) (string, []Value, error) {
	if variant == "" {
		variant = d.inferVariant(args)
	}
	l, err := d.Layout(variant)
	if err != nil {
		return "", nil, err
	}
	values, err := l.ValuesFromMap(args)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", d.Name, err)
	}
	return l.Variant, values, nil
}

// inferVariant setMacroParameter 按参数号选宽度，其余取字段名完全匹配的第一个变体
func (d *Descriptor) inferVariant(args map[string]any) string {
	if len(d.Variants) < 2 {
		return ""
	}
	if d.Name == "setMacroParameter" {
		if raw, ok := args["parameter"]; ok {
			if v, err := ParseArg(U8("parameter"), raw); err == nil && !v.negative && v.raw <= 0xFF {
				return MacroParameterVariant(uint8(v.raw))
			}
		}
		return ""
	}
	for _, l := range d.Variants {
		if l.Arity() == len(args) && len(l.unknownKeys(args)) == 0 {
			return l.Variant
		}
	}
	return ""
}

func (l Layout) unknownKeys(args map[string]any) []string {
	known := make(map[string]bool, len(l.Fields))
	for _, f := range l.Fields {
		known[f.Name] = true
	}
	var out []string
	for k := range args {
		if !known[k] || k == "reserved" {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// ParseArg 将单个松散参数转换为字段参数
func ParseArg(f Field, raw any) (Value, error) {
	if f.Kind.IsBytes() {
		switch x := raw.(type) {
		case []byte:
			return Bytes(x), nil
		case string:
			b, err := parseHex(x)
			if err != nil {
				return Value{}, fmt.Errorf("%w: %s: %v", ErrArgumentType, f.Name, err)
			}
			return Bytes(b), nil
		default:
			return Value{}, fmt.Errorf("%w: %s expects hex bytes, got %T", ErrArgumentType, f.Name, raw)
		}
	}

	if f.Kind == KindFlags {
		if named, ok := raw.(map[string]any); ok {
			return parseNamedBits(f, named)
		}
	}

	switch x := raw.(type) {
	case bool:
		return Bool(x), nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint:
		return Uint(uint64(x)), nil
	case uint8:
		return Uint(uint64(x)), nil
	case uint16:
		return Uint(uint64(x)), nil
	case uint32:
		return Uint(uint64(x)), nil
	case uint64:
		return Uint(x), nil
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) || x >= 1<<64 || x < math.MinInt64 {
			return Value{}, fmt.Errorf("%w: %s=%v is not an integer", ErrArgumentType, f.Name, x)
		}
		if x < 0 {
			return Int(int64(x)), nil
		}
		return Uint(uint64(x)), nil
	case json.Number:
		return parseInteger(f, x.String())
	case string:
		return parseInteger(f, x)
	default:
		return Value{}, fmt.Errorf("%w: %s expects a number, got %T", ErrArgumentType, f.Name, raw)
	}
}

// parseNamedBits 位域也可按位名给出，如 {"start": true, "sleep": false}
func parseNamedBits(f Field, named map[string]any) (Value, error) {
	var mask uint64
	for name, raw := range named {
		bit := -1
		for i, b := range f.Bits {
			if b == name {
				bit = i
				break
			}
		}
		if bit < 0 {
			return Value{}, fmt.Errorf("%w: %s has no bit %q", ErrArgumentType, f.Name, name)
		}
		on, ok := raw.(bool)
		if !ok {
			return Value{}, fmt.Errorf("%w: %s.%s expects bool, got %T", ErrArgumentType, f.Name, name, raw)
		}
		if on {
			mask |= 1 << bit
		}
	}
	return Uint(mask), nil
}

func parseInteger(f Field, s string) (Value, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "-") {
		n, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %s=%q: %v", ErrArgumentType, f.Name, s, err)
		}
		return Int(n), nil
	}
	n, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %s=%q: %v", ErrArgumentType, f.Name, s, err)
	}
	return Uint(n), nil
}

func parseHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	s = strings.NewReplacer(" ", "", ":", "", "-", "").Replace(s)
	return hex.DecodeString(s)
}
