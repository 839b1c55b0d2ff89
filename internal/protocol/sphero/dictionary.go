package sphero

import (
	"errors"
	"fmt"
)

// Descriptor 命令描述：设备号、命令号与载荷布局
type Descriptor struct {
	Name      string
	DeviceID  uint8
	CommandID uint8
	Variants  []Layout // 第一个为默认变体
	Advisory  string   // 非空表示设备不会执行（固件不支持/仅工厂可用）
}

// Layout 返回指定变体；variant 为空时返回默认变体
func (d *Descriptor) Layout(variant string) (Layout, error) {
	if len(d.Variants) == 0 {
		// 无参数命令只接受默认变体
		if variant != "" {
			return Layout{}, fmt.Errorf("%w: %s/%s", ErrUnknownVariant, d.Name, variant)
		}
		return Layout{}, nil
	}
	if variant == "" {
		return d.Variants[0], nil
	}
	for _, l := range d.Variants {
		if l.Variant == variant {
			return l, nil
		}
	}
	return Layout{}, fmt.Errorf("%w: %s/%s", ErrUnknownVariant, d.Name, variant)
}

// EncodePayload 按描述与变体编码载荷，不涉及序列号与帧头
func EncodePayload(d *Descriptor, variant string, values []Value, policy OverflowPolicy) ([]byte, error) {
	l, err := d.Layout(variant)
	if err != nil {
		return nil, err
	}
	payload, err := l.Encode(values, policy)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d.Name, err)
	}
	return payload, nil
}

// Dictionary 命令字典（只读，可并发访问）
type Dictionary struct {
	byName map[string]*Descriptor
	order  []*Descriptor
}

// NewDictionary 构建并校验命令字典
func NewDictionary(descs ...Descriptor) (*Dictionary, error) {
	d := &Dictionary{byName: make(map[string]*Descriptor, len(descs))}
	ids := make(map[[2]uint8]string, len(descs))

	var errs []error
	for i := range descs {
		desc := &descs[i]
		if desc.Name == "" {
			errs = append(errs, fmt.Errorf("descriptor %d: empty name", i))
			continue
		}
		if _, dup := d.byName[desc.Name]; dup {
			errs = append(errs, fmt.Errorf("%s: duplicate name", desc.Name))
			continue
		}
		key := [2]uint8{desc.DeviceID, desc.CommandID}
		if other, dup := ids[key]; dup {
			errs = append(errs, fmt.Errorf("%s: did=0x%02X cid=0x%02X already used by %s", desc.Name, desc.DeviceID, desc.CommandID, other))
			continue
		}
		if err := validateDescriptor(desc); err != nil {
			errs = append(errs, err)
			continue
		}
		ids[key] = desc.Name
		d.byName[desc.Name] = desc
		d.order = append(d.order, desc)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return d, nil
}

func validateDescriptor(desc *Descriptor) error {
	seen := make(map[string]bool, len(desc.Variants))
	for _, l := range desc.Variants {
		if len(desc.Variants) > 1 && l.Variant == "" {
			return fmt.Errorf("%s: unnamed variant", desc.Name)
		}
		if seen[l.Variant] {
			return fmt.Errorf("%s: duplicate variant %q", desc.Name, l.Variant)
		}
		seen[l.Variant] = true

		for i, f := range l.Fields {
			if f.Name == "" {
				return fmt.Errorf("%s: field %d has no name", desc.Name, i)
			}
			switch f.Kind {
			case KindBlob:
				if i != len(l.Fields)-1 {
					return fmt.Errorf("%s: blob %s must be the last field", desc.Name, f.Name)
				}
				fallthrough
			case KindBlock:
				if f.Size < 1 || f.Size > MaxPayloadLen {
					return fmt.Errorf("%s: %s size %d out of range", desc.Name, f.Name, f.Size)
				}
			case KindFlags:
				if len(f.Bits) == 0 || len(f.Bits) > 8 {
					return fmt.Errorf("%s: %s has %d bits", desc.Name, f.Name, len(f.Bits))
				}
			}
		}
		if n := l.MaxLen(); n > MaxPayloadLen {
			return fmt.Errorf("%s: payload may reach %d bytes (max %d)", desc.Name, n, MaxPayloadLen)
		}
	}
	return nil
}

// Lookup 按名称查找命令
func (d *Dictionary) Lookup(name string) (*Descriptor, error) {
	desc, ok := d.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	return desc, nil
}

// All 按注册顺序返回全部命令
func (d *Dictionary) All() []*Descriptor {
	out := make([]*Descriptor, len(d.order))
	copy(out, d.order)
	return out
}

// Len 命令数量
func (d *Dictionary) Len() int { return len(d.order) }

var defaultDictionary = mustDictionary(append(coreCommands(), apiCommands()...)...)

func mustDictionary(descs ...Descriptor) *Dictionary {
	d, err := NewDictionary(descs...)
	if err != nil {
		panic(fmt.Sprintf("sphero: invalid command dictionary: %v", err))
	}
	return d
}

// Commands 返回内置命令字典
func Commands() *Dictionary { return defaultDictionary }
