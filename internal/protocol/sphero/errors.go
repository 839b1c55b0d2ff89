package sphero

import "errors"

var (
	// ErrPayloadTooLarge 载荷超过命令上限或帧长度上限
	ErrPayloadTooLarge = errors.New("payload too large")
	// ErrValueOutOfRange 数值超出字段位宽（仅严格模式）
	ErrValueOutOfRange = errors.New("value out of range")
	// ErrUnknownCommand 命令字典中不存在该命令
	ErrUnknownCommand = errors.New("unknown command")
	// ErrUnknownVariant 命令不存在该布局变体
	ErrUnknownVariant = errors.New("unknown layout variant")
	// ErrArgumentCount 参数个数与布局不符
	ErrArgumentCount = errors.New("argument count mismatch")
	// ErrArgumentType 参数类型与字段不符（数值/字节串）
	ErrArgumentType = errors.New("argument type mismatch")

	// ErrShortFrame 帧长度不足
	ErrShortFrame = errors.New("frame too short")
	// ErrBadMarker 包头标记非法
	ErrBadMarker = errors.New("invalid start-of-packet marker")
	// ErrLengthMismatch DLEN 与实际长度不符
	ErrLengthMismatch = errors.New("length field mismatch")
	// ErrChecksumMismatch checksum校验失败
	ErrChecksumMismatch = errors.New("checksum mismatch")
)
