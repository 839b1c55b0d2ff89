package sphero

import "context"

// 通用 API 命令（DID 0x02）

// SetHeading 调整当前朝向为0度参考，单位度
func (e *Encoder) SetHeading(ctx context.Context, heading uint16, opts Options) ([]byte, error) {
	return e.frame(ctx, "setHeading", opts, u(uint64(heading)))
}

func (e *Encoder) SetStabilization(ctx context.Context, enable bool, opts Options) ([]byte, error) {
	return e.frame(ctx, "setStabilization", opts, Bool(enable))
}

func (e *Encoder) SetRotationRate(ctx context.Context, rate uint8, opts Options) ([]byte, error) {
	return e.frame(ctx, "setRotationRate", opts, u(uint64(rate)))
}

// SetApplicationConfigurationBlock data 复制到32字节块，不足补0
func (e *Encoder) SetApplicationConfigurationBlock(ctx context.Context, data []byte, opts Options) ([]byte, error) {
	return e.frame(ctx, "setApplicationConfigurationBlock", opts, Bytes(data))
}

func (e *Encoder) GetApplicationConfigurationBlock(ctx context.Context, opts Options) ([]byte, error) {
	return e.frame(ctx, "getApplicationConfigurationBlock", opts)
}

func (e *Encoder) GetChassisID(ctx context.Context, opts Options) ([]byte, error) {
	return e.frame(ctx, "getChassisID", opts)
}

// SetChassisID 仅工厂固件有效；普通固件不会执行，告警见 Descriptor.Advisory
func (e *Encoder) SetChassisID(ctx context.Context, chassisID uint16, opts Options) ([]byte, error) {
	return e.frame(ctx, "setChassisID", opts, u(uint64(chassisID)))
}

// SelfLevel 启动自平衡；level 通常取 LevelDefaults()
func (e *Encoder) SelfLevel(ctx context.Context, level LevelOptions, angleLimit, timeout, trueTime uint8, opts Options) ([]byte, error) {
	return e.frame(ctx, "selfLevel", opts,
		u(uint64(level.Bits())), u(uint64(angleLimit)), u(uint64(timeout)), u(uint64(trueTime)))
}

// SetDataStreaming 载荷长度由参数形态决定：9字节或13字节
func (e *Encoder) SetDataStreaming(ctx context.Context, s Streaming, opts Options) ([]byte, error) {
	variant, values := s.variant()
	return e.variantFrame(ctx, "setDataStreaming", variant, opts, values...)
}

// CollisionConfig 碰撞检测参数
type CollisionConfig struct {
	Method     uint8 // 0 关闭
	ThresholdX uint8
	ThresholdY uint8
	SpeedX     uint8
	SpeedY     uint8
	DeadTime   uint8 // 单位 10ms
}

func (e *Encoder) ConfigureCollisionDetection(ctx context.Context, c CollisionConfig, opts Options) ([]byte, error) {
	return e.frame(ctx, "configureCollisionDetection", opts,
		u(uint64(c.Method)), u(uint64(c.ThresholdX)), u(uint64(c.ThresholdY)),
		u(uint64(c.SpeedX)), u(uint64(c.SpeedY)), u(uint64(c.DeadTime)))
}

// ConfigureLocator x、y 为有符号坐标（cm）
func (e *Encoder) ConfigureLocator(ctx context.Context, flags uint8, x, y int16, yawTare uint16, opts Options) ([]byte, error) {
	return e.frame(ctx, "configureLocator", opts, u(uint64(flags)), Int(int64(x)), Int(int64(y)), u(uint64(yawTare)))
}

func (e *Encoder) SetAccelerometerRange(ctx context.Context, rangeIndex uint8, opts Options) ([]byte, error) {
	return e.frame(ctx, "setAccelerometerRange", opts, u(uint64(rangeIndex)))
}

func (e *Encoder) ReadLocator(ctx context.Context, opts Options) ([]byte, error) {
	return e.frame(ctx, "readLocator", opts)
}

// SetRGB color 为 0xRRGGBB；严格模式下高字节非0返回 ErrValueOutOfRange
func (e *Encoder) SetRGB(ctx context.Context, color uint32, persist bool, opts Options) ([]byte, error) {
	return e.frame(ctx, "setRGB", opts, u(uint64(color)), Bool(persist))
}

func (e *Encoder) SetBackLED(ctx context.Context, intensity uint8, opts Options) ([]byte, error) {
	return e.frame(ctx, "setBackLED", opts, u(uint64(intensity)))
}

func (e *Encoder) GetRGB(ctx context.Context, opts Options) ([]byte, error) {
	return e.frame(ctx, "getRGB", opts)
}

func (e *Encoder) Roll(ctx context.Context, speed uint8, heading uint16, state uint8, opts Options) ([]byte, error) {
	return e.frame(ctx, "roll", opts, u(uint64(speed)), u(uint64(heading)), u(uint64(state)))
}

// SetBoostWithTime 当前固件不支持，帧照常返回。
// 类型化方法只返回帧，告警仅记日志与指标；调用方需要时检查 Descriptor.Advisory
func (e *Encoder) SetBoostWithTime(ctx context.Context, time uint8, heading uint16, opts Options) ([]byte, error) {
	return e.frame(ctx, "setBoostWithTime", opts, u(uint64(time)), u(uint64(heading)))
}

// MotorValue 单个电机的模式与功率
type MotorValue struct {
	Mode  uint8
	Power uint8
}

func (e *Encoder) SetRawMotorValues(ctx context.Context, left, right MotorValue, opts Options) ([]byte, error) {
	return e.frame(ctx, "setRawMotorValues", opts,
		u(uint64(left.Mode)), u(uint64(left.Power)), u(uint64(right.Mode)), u(uint64(right.Power)))
}

func (e *Encoder) SetMotionTimeout(ctx context.Context, ms uint16, opts Options) ([]byte, error) {
	return e.frame(ctx, "setMotionTimeout", opts, u(uint64(ms)))
}

func (e *Encoder) SetPermanentOptionFlags(ctx context.Context, flags uint32, opts Options) ([]byte, error) {
	return e.frame(ctx, "setPermanentOptionFlags", opts, u(uint64(flags)))
}

func (e *Encoder) GetPermanentOptionFlags(ctx context.Context, opts Options) ([]byte, error) {
	return e.frame(ctx, "getPermanentOptionFlags", opts)
}

func (e *Encoder) SetTemporaryOptionFlags(ctx context.Context, flags uint32, opts Options) ([]byte, error) {
	return e.frame(ctx, "setTemporaryOptionFlags", opts, u(uint64(flags)))
}

func (e *Encoder) GetTemporaryOptionFlags(ctx context.Context, opts Options) ([]byte, error) {
	return e.frame(ctx, "getTemporaryOptionFlags", opts)
}

func (e *Encoder) GetConfigurationBlock(ctx context.Context, blockID uint8, opts Options) ([]byte, error) {
	return e.frame(ctx, "getConfigurationBlock", opts, u(uint64(blockID)))
}

func (e *Encoder) SetDeviceMode(ctx context.Context, mode uint8, opts Options) ([]byte, error) {
	return e.frame(ctx, "setDeviceMode", opts, u(uint64(mode)))
}

// SetConfigurationBlock data 复制到254字节块，不足补0
func (e *Encoder) SetConfigurationBlock(ctx context.Context, data []byte, opts Options) ([]byte, error) {
	return e.frame(ctx, "setConfigurationBlock", opts, Bytes(data))
}

func (e *Encoder) GetDeviceMode(ctx context.Context, opts Options) ([]byte, error) {
	return e.frame(ctx, "getDeviceMode", opts)
}

func (e *Encoder) RunMacro(ctx context.Context, macroID uint8, opts Options) ([]byte, error) {
	return e.frame(ctx, "runMacro", opts, u(uint64(macroID)))
}

// SaveTemporaryMacro 超过254字节返回 ErrPayloadTooLarge
func (e *Encoder) SaveTemporaryMacro(ctx context.Context, macro []byte, opts Options) ([]byte, error) {
	return e.frame(ctx, "saveTemporaryMacro", opts, Bytes(macro))
}

// SaveMacro 超过254字节返回 ErrPayloadTooLarge
func (e *Encoder) SaveMacro(ctx context.Context, macro []byte, opts Options) ([]byte, error) {
	return e.frame(ctx, "saveMacro", opts, Bytes(macro))
}

func (e *Encoder) ReInitializeMacroExecutive(ctx context.Context, opts Options) ([]byte, error) {
	return e.frame(ctx, "reInitializeMacroExecutive", opts)
}

func (e *Encoder) AbortMacro(ctx context.Context, opts Options) ([]byte, error) {
	return e.frame(ctx, "abortMacro", opts)
}

func (e *Encoder) GetMacroStatus(ctx context.Context, opts Options) ([]byte, error) {
	return e.frame(ctx, "getMacroStatus", opts)
}

// SetMacroParameter 参数 0、1 写16位值，其余写8位值（严格模式下超过255被拒绝）
func (e *Encoder) SetMacroParameter(ctx context.Context, parameter uint8, value uint16, opts Options) ([]byte, error) {
	return e.variantFrame(ctx, "setMacroParameter", MacroParameterVariant(parameter), opts, u(uint64(parameter)), u(uint64(value)))
}

// AppendMacroChunk 超过254字节返回 ErrPayloadTooLarge
func (e *Encoder) AppendMacroChunk(ctx context.Context, chunk []byte, opts Options) ([]byte, error) {
	return e.frame(ctx, "appendMacroChunk", opts, Bytes(chunk))
}

func (e *Encoder) EraseOrbBasicStorage(ctx context.Context, area uint8, opts Options) ([]byte, error) {
	return e.frame(ctx, "eraseOrbBasicStorage", opts, u(uint64(area)))
}

// AppendOrbBasicFragment 片段超过253字节返回 ErrPayloadTooLarge
func (e *Encoder) AppendOrbBasicFragment(ctx context.Context, area uint8, fragment []byte, opts Options) ([]byte, error) {
	return e.frame(ctx, "appendOrbBasicFragment", opts, u(uint64(area)), Bytes(fragment))
}

func (e *Encoder) ExecuteOrbBasicProgram(ctx context.Context, area uint8, startLine uint16, opts Options) ([]byte, error) {
	return e.frame(ctx, "executeOrbBasicProgram", opts, u(uint64(area)), u(uint64(startLine)))
}

func (e *Encoder) AbortOrbBasicProgram(ctx context.Context, opts Options) ([]byte, error) {
	return e.frame(ctx, "abortOrbBasicProgram", opts)
}

func (e *Encoder) SubmitValueToInputStatement(ctx context.Context, value int32, opts Options) ([]byte, error) {
	return e.frame(ctx, "submitValueToInputStatement", opts, Int(int64(value)))
}
