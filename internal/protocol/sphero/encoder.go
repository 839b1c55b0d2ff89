package sphero

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Observer 编码结果观测（指标）
type Observer interface {
	FrameEncoded(command string, payloadLen int)
	EncodeRejected(command, reason string)
	AdvisoryCommand(command string)
}

type nopObserver struct{}

func (nopObserver) FrameEncoded(string, int)      {}
func (nopObserver) EncodeRejected(string, string) {}
func (nopObserver) AdvisoryCommand(string)        {}

// Result 一次编码的结果
type Result struct {
	Command  string
	Envelope Envelope
	Frame    []byte
	Advisory string // 非空时设备不会执行该命令
}

// Encoder 命令编码器：校验参数、布局载荷、分配序列号并组帧
// 除 Enveloper 外无共享状态，可并发使用
type Encoder struct {
	dict   *Dictionary
	env    Enveloper
	layout FrameLayout
	policy OverflowPolicy
	level  LevelOptions
	logger *zap.Logger
	obs    Observer
}

// EncoderOption 编码器选项
type EncoderOption func(*Encoder)

// WithLogger 设置日志器
func WithLogger(l *zap.Logger) EncoderOption {
	return func(e *Encoder) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithObserver 设置指标观测
func WithObserver(o Observer) EncoderOption {
	return func(e *Encoder) {
		if o != nil {
			e.obs = o
		}
	}
}

// WithFrameLayout 设置帧头布局
func WithFrameLayout(l FrameLayout) EncoderOption {
	return func(e *Encoder) { e.layout = l }
}

// WithOverflowPolicy 设置数值越界策略
func WithOverflowPolicy(p OverflowPolicy) EncoderOption {
	return func(e *Encoder) { e.policy = p }
}

// WithLevelOptions 设置调用方未指定时使用的自平衡预设
func WithLevelOptions(o LevelOptions) EncoderOption {
	return func(e *Encoder) { e.level = o }
}

// WithDictionary 替换命令字典
func WithDictionary(d *Dictionary) EncoderOption {
	return func(e *Encoder) {
		if d != nil {
			e.dict = d
		}
	}
}

// NewEncoder 创建编码器
func NewEncoder(env Enveloper, opts ...EncoderOption) *Encoder {
	e := &Encoder{
		dict:   Commands(),
		env:    env,
		layout: FrameSequenced,
		policy: OverflowStrict,
		level:  DefaultLevelOptions(),
		logger: zap.NewNop(),
		obs:    nopObserver{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Dictionary 编码器使用的命令字典
func (e *Encoder) Dictionary() *Dictionary { return e.dict }

// FrameLayout 编码器使用的帧头布局
func (e *Encoder) FrameLayout() FrameLayout { return e.layout }

// LevelDefaults 配置的自平衡预设
func (e *Encoder) LevelDefaults() LevelOptions { return e.level }

// Encode 按命令名编码，variant 为空时使用默认变体
func (e *Encoder) Encode(ctx context.Context, name, variant string, values []Value, opts Options) (*Result, error) {
	desc, err := e.dict.Lookup(name)
	if err != nil {
		e.reject(name, err)
		return nil, err
	}

	// 先校验载荷再分配序列号，被拒绝的请求不消耗序列号
	payload, err := EncodePayload(desc, variant, values, e.policy)
	if err != nil {
		e.reject(name, err)
		return nil, err
	}

	env, err := e.env.Envelope(ctx, desc.DeviceID, desc.CommandID, opts)
	if err != nil {
		e.reject(name, err)
		return nil, err
	}

	frame, err := Build(env.Frame(payload), e.layout)
	if err != nil {
		e.reject(name, err)
		return nil, err
	}

	if desc.Advisory != "" {
		e.logger.Warn("sphero command will not be honoured by device",
			zap.String("command", name),
			zap.String("advisory", desc.Advisory),
		)
		e.obs.AdvisoryCommand(name)
	}

	e.logger.Debug("sphero frame encoded",
		zap.String("command", name),
		zap.Uint8("did", env.DeviceID),
		zap.Uint8("cid", env.CommandID),
		zap.Uint8("seq", env.Sequence),
		zap.Int("payload_len", len(payload)),
		zap.Binary("frame", frame),
	)
	e.obs.FrameEncoded(name, len(payload))

	return &Result{Command: name, Envelope: env, Frame: frame, Advisory: desc.Advisory}, nil
}

func (e *Encoder) reject(name string, err error) {
	reason := RejectReason(err)
	e.logger.Info("sphero encode rejected",
		zap.String("command", name),
		zap.String("reason", reason),
		zap.Error(err),
	)
	e.obs.EncodeRejected(name, reason)
}

// RejectReason 将编码错误归类为指标标签
func RejectReason(err error) string {
	switch {
	case errors.Is(err, ErrPayloadTooLarge):
		return "payload_too_large"
	case errors.Is(err, ErrValueOutOfRange):
		return "value_out_of_range"
	case errors.Is(err, ErrUnknownCommand):
		return "unknown_command"
	case errors.Is(err, ErrUnknownVariant):
		return "unknown_variant"
	case errors.Is(err, ErrArgumentCount), errors.Is(err, ErrArgumentType):
		return "bad_argument"
	default:
		return "envelope"
	}
}

func (e *Encoder) frame(ctx context.Context, name string, opts Options, values ...Value) ([]byte, error) {
	return e.variantFrame(ctx, name, "", opts, values...)
}

func (e *Encoder) variantFrame(ctx context.Context, name, variant string, opts Options, values ...Value) ([]byte, error) {
	res, err := e.Encode(ctx, name, variant, values, opts)
	if err != nil {
		return nil, err
	}
	return res.Frame, nil
}

func u(v uint64) Value { return Uint(v) }
