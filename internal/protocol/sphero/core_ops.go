package sphero

import "context"

// 核心命令（DID 0x00）

func (e *Encoder) Ping(ctx context.Context, opts Options) ([]byte, error) {
	return e.frame(ctx, "ping", opts)
}

func (e *Encoder) GetVersioning(ctx context.Context, opts Options) ([]byte, error) {
	return e.frame(ctx, "getVersioning", opts)
}

// ControlUARTTxLine 内部命令。帧照常返回，设备不会执行；
// 需要告警内容时用 Encode 取 Result.Advisory，或查 Descriptor.Advisory
func (e *Encoder) ControlUARTTxLine(ctx context.Context, enable bool, opts Options) ([]byte, error) {
	return e.frame(ctx, "controlUARTTxLine", opts, Bool(enable))
}

// SetDeviceName 名称原样写入，最长254字节
func (e *Encoder) SetDeviceName(ctx context.Context, name string, opts Options) ([]byte, error) {
	return e.frame(ctx, "setDeviceName", opts, Bytes([]byte(name)))
}

func (e *Encoder) GetBluetoothInfo(ctx context.Context, opts Options) ([]byte, error) {
	return e.frame(ctx, "getBluetoothInfo", opts)
}

// SetAutoReconnect time 为启动后重连等待秒数
func (e *Encoder) SetAutoReconnect(ctx context.Context, enable bool, time uint8, opts Options) ([]byte, error) {
	return e.frame(ctx, "setAutoReconnect", opts, Bool(enable), u(uint64(time)))
}

func (e *Encoder) GetAutoReconnect(ctx context.Context, opts Options) ([]byte, error) {
	return e.frame(ctx, "getAutoReconnect", opts)
}

func (e *Encoder) GetPowerState(ctx context.Context, opts Options) ([]byte, error) {
	return e.frame(ctx, "getPowerState", opts)
}

func (e *Encoder) SetPowerNotification(ctx context.Context, enable bool, opts Options) ([]byte, error) {
	return e.frame(ctx, "setPowerNotification", opts, Bool(enable))
}

// Sleep wakeup 秒后唤醒，0 表示不自动唤醒
func (e *Encoder) Sleep(ctx context.Context, wakeup uint16, macro uint8, orbBasic uint16, opts Options) ([]byte, error) {
	return e.frame(ctx, "sleep", opts, u(uint64(wakeup)), u(uint64(macro)), u(uint64(orbBasic)))
}

func (e *Encoder) GetVoltageTripPoints(ctx context.Context, opts Options) ([]byte, error) {
	return e.frame(ctx, "getVoltageTripPoints", opts)
}

// SetVoltageTripPoints 内部命令，单位 0.01V；设备不会执行，告警见 Descriptor.Advisory
func (e *Encoder) SetVoltageTripPoints(ctx context.Context, low, critical uint16, opts Options) ([]byte, error) {
	return e.frame(ctx, "setVoltageTripPoints", opts, u(uint64(low)), u(uint64(critical)))
}

func (e *Encoder) SetInactivityTimeout(ctx context.Context, seconds uint16, opts Options) ([]byte, error) {
	return e.frame(ctx, "setInactivityTimeout", opts, u(uint64(seconds)))
}

// JumpToBootloader 内部命令；设备不会执行，告警见 Descriptor.Advisory
func (e *Encoder) JumpToBootloader(ctx context.Context, opts Options) ([]byte, error) {
	return e.frame(ctx, "jumpToBootloader", opts)
}

func (e *Encoder) PerformLevel1Diagnostics(ctx context.Context, opts Options) ([]byte, error) {
	return e.frame(ctx, "performLevel1Diagnostics", opts)
}

func (e *Encoder) PerformLevel2Diagnostics(ctx context.Context, opts Options) ([]byte, error) {
	return e.frame(ctx, "performLevel2Diagnostics", opts)
}

// ClearCounters 内部命令；设备不会执行，告警见 Descriptor.Advisory
func (e *Encoder) ClearCounters(ctx context.Context, opts Options) ([]byte, error) {
	return e.frame(ctx, "clearCounters", opts)
}

func (e *Encoder) AssignTimeValue(ctx context.Context, time uint32, opts Options) ([]byte, error) {
	return e.frame(ctx, "assignTimeValue", opts, u(uint64(time)))
}

func (e *Encoder) PollPacketTimes(ctx context.Context, time uint32, opts Options) ([]byte, error) {
	return e.frame(ctx, "pollPacketTimes", opts, u(uint64(time)))
}
