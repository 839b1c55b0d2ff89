package sphero

// 设备号（命令分组）
const (
	DeviceCore uint8 = 0x00 // 核心/系统命令
	DeviceAPI  uint8 = 0x02 // 通用 API 命令
)

// 变长数据上限
const (
	MacroChunkMax       = 254 // 宏上传/追加
	OrbBasicFragmentMax = 253 // orbBasic 片段，首字节为存储区号
	DeviceNameMax       = 254

	AppConfigBlockSize = 0x20
	ConfigBlockSize    = 0xFE
)

// 布局变体名称
const (
	VariantStreamingBase       = "base"
	VariantStreamingSecondMask = "second_mask"
	VariantMacroParamWide      = "wide"
	VariantMacroParamNarrow    = "narrow"
)

// 告警说明：命令可编码，但设备不会执行
const (
	advisoryInternal    = "internal command, not intended for application use"
	advisoryFactoryOnly = "only honoured by the factory firmware"
	advisoryUnsupported = "not currently supported by the device firmware"
)

func fixed(fields ...Field) []Layout {
	return []Layout{{Fields: fields}}
}

func coreCommands() []Descriptor {
	return []Descriptor{
		{Name: "ping", DeviceID: DeviceCore, CommandID: 0x01},
		{Name: "getVersioning", DeviceID: DeviceCore, CommandID: 0x02},
		{Name: "controlUARTTxLine", DeviceID: DeviceCore, CommandID: 0x03, Variants: fixed(Flag("enable")), Advisory: advisoryInternal},
		{Name: "setDeviceName", DeviceID: DeviceCore, CommandID: 0x10, Variants: fixed(Blob("name", DeviceNameMax))},
		{Name: "getBluetoothInfo", DeviceID: DeviceCore, CommandID: 0x11},
		{Name: "setAutoReconnect", DeviceID: DeviceCore, CommandID: 0x12, Variants: fixed(Flag("enable"), U8("time"))},
		{Name: "getAutoReconnect", DeviceID: DeviceCore, CommandID: 0x13},
		{Name: "getPowerState", DeviceID: DeviceCore, CommandID: 0x20},
		{Name: "setPowerNotification", DeviceID: DeviceCore, CommandID: 0x21, Variants: fixed(Flag("enable"))},
		{Name: "sleep", DeviceID: DeviceCore, CommandID: 0x22, Variants: fixed(U16("wakeup"), U8("macro"), U16("orbBasic"))},
		{Name: "getVoltageTripPoints", DeviceID: DeviceCore, CommandID: 0x23},
		{Name: "setVoltageTripPoints", DeviceID: DeviceCore, CommandID: 0x24, Variants: fixed(U16("low"), U16("critical")), Advisory: advisoryInternal},
		{Name: "setInactivityTimeout", DeviceID: DeviceCore, CommandID: 0x25, Variants: fixed(U16("time"))},
		{Name: "jumpToBootloader", DeviceID: DeviceCore, CommandID: 0x30, Advisory: advisoryInternal},
		{Name: "performLevel1Diagnostics", DeviceID: DeviceCore, CommandID: 0x40},
		{Name: "performLevel2Diagnostics", DeviceID: DeviceCore, CommandID: 0x41},
		{Name: "clearCounters", DeviceID: DeviceCore, CommandID: 0x42, Advisory: advisoryInternal},
		{Name: "assignTimeValue", DeviceID: DeviceCore, CommandID: 0x50, Variants: fixed(U32("time"))},
		{Name: "pollPacketTimes", DeviceID: DeviceCore, CommandID: 0x51, Variants: fixed(U32("time"))},
	}
}

func apiCommands() []Descriptor {
	return []Descriptor{
		{Name: "setHeading", DeviceID: DeviceAPI, CommandID: 0x01, Variants: fixed(U16("heading"))},
		{Name: "setStabilization", DeviceID: DeviceAPI, CommandID: 0x02, Variants: fixed(Flag("enable"))},
		{Name: "setRotationRate", DeviceID: DeviceAPI, CommandID: 0x03, Variants: fixed(U8("rate"))},
		{Name: "setApplicationConfigurationBlock", DeviceID: DeviceAPI, CommandID: 0x04, Variants: fixed(Block("data", AppConfigBlockSize))},
		{Name: "getApplicationConfigurationBlock", DeviceID: DeviceAPI, CommandID: 0x05},
		{Name: "getChassisID", DeviceID: DeviceAPI, CommandID: 0x07},
		{Name: "setChassisID", DeviceID: DeviceAPI, CommandID: 0x08, Variants: fixed(U16("chassisId")), Advisory: advisoryFactoryOnly},
		{Name: "selfLevel", DeviceID: DeviceAPI, CommandID: 0x09, Variants: fixed(
			Bitfield("options", "start", "rotate", "sleep", "controlSystem"),
			U8("angleLimit"), U8("timeout"), U8("trueTime"),
		)},
		{Name: "setDataStreaming", DeviceID: DeviceAPI, CommandID: 0x11, Variants: []Layout{
			{Variant: VariantStreamingBase, Fields: []Field{U16("divisor"), U16("frames"), U32("mask"), U8("count")}},
			{Variant: VariantStreamingSecondMask, Fields: []Field{U16("divisor"), U16("frames"), U32("mask"), U8("count"), U32("mask2")}},
		}},
		{Name: "configureCollisionDetection", DeviceID: DeviceAPI, CommandID: 0x12, Variants: fixed(
			U8("method"), U8("thresholdX"), U8("thresholdY"), U8("speedX"), U8("speedY"), U8("deadTime"),
		)},
		{Name: "configureLocator", DeviceID: DeviceAPI, CommandID: 0x13, Variants: fixed(U8("flags"), I16("x"), I16("y"), U16("yawTare"))},
		{Name: "setAccelerometerRange", DeviceID: DeviceAPI, CommandID: 0x14, Variants: fixed(U8("range"))},
		{Name: "readLocator", DeviceID: DeviceAPI, CommandID: 0x15},
		{Name: "setRGB", DeviceID: DeviceAPI, CommandID: 0x20, Variants: fixed(U24("color"), Flag("persist"))},
		{Name: "setBackLED", DeviceID: DeviceAPI, CommandID: 0x21, Variants: fixed(U8("intensity"))},
		{Name: "getRGB", DeviceID: DeviceAPI, CommandID: 0x22},
		{Name: "roll", DeviceID: DeviceAPI, CommandID: 0x30, Variants: fixed(U8("speed"), U16("heading"), U8("state"))},
		{Name: "setBoostWithTime", DeviceID: DeviceAPI, CommandID: 0x31, Variants: fixed(U8("time"), U16("heading")), Advisory: advisoryUnsupported},
		{Name: "setRawMotorValues", DeviceID: DeviceAPI, CommandID: 0x33, Variants: fixed(U8("leftMode"), U8("leftPower"), U8("rightMode"), U8("rightPower"))},
		{Name: "setMotionTimeout", DeviceID: DeviceAPI, CommandID: 0x34, Variants: fixed(U16("time"))},
		{Name: "setPermanentOptionFlags", DeviceID: DeviceAPI, CommandID: 0x35, Variants: fixed(U32("flags"))},
		{Name: "getPermanentOptionFlags", DeviceID: DeviceAPI, CommandID: 0x36},
		{Name: "setTemporaryOptionFlags", DeviceID: DeviceAPI, CommandID: 0x37, Variants: fixed(U32("flags"))},
		{Name: "getTemporaryOptionFlags", DeviceID: DeviceAPI, CommandID: 0x38},
		{Name: "getConfigurationBlock", DeviceID: DeviceAPI, CommandID: 0x40, Variants: fixed(U8("blockId"))},
		{Name: "setDeviceMode", DeviceID: DeviceAPI, CommandID: 0x42, Variants: fixed(U8("mode"))},
		{Name: "setConfigurationBlock", DeviceID: DeviceAPI, CommandID: 0x43, Variants: fixed(Block("data", ConfigBlockSize))},
		{Name: "getDeviceMode", DeviceID: DeviceAPI, CommandID: 0x44},
		{Name: "runMacro", DeviceID: DeviceAPI, CommandID: 0x50, Variants: fixed(U8("macroId"))},
		{Name: "saveTemporaryMacro", DeviceID: DeviceAPI, CommandID: 0x51, Variants: fixed(Blob("macro", MacroChunkMax))},
		{Name: "saveMacro", DeviceID: DeviceAPI, CommandID: 0x52, Variants: fixed(Blob("macro", MacroChunkMax))},
		{Name: "reInitializeMacroExecutive", DeviceID: DeviceAPI, CommandID: 0x54},
		{Name: "abortMacro", DeviceID: DeviceAPI, CommandID: 0x55},
		{Name: "getMacroStatus", DeviceID: DeviceAPI, CommandID: 0x56},
		{Name: "setMacroParameter", DeviceID: DeviceAPI, CommandID: 0x57, Variants: []Layout{
			{Variant: VariantMacroParamWide, Fields: []Field{U8("parameter"), U16("value")}},
			{Variant: VariantMacroParamNarrow, Fields: []Field{U8("parameter"), U8("value"), Pad()}},
		}},
		{Name: "appendMacroChunk", DeviceID: DeviceAPI, CommandID: 0x58, Variants: fixed(Blob("macro", MacroChunkMax))},
		{Name: "eraseOrbBasicStorage", DeviceID: DeviceAPI, CommandID: 0x60, Variants: fixed(U8("area"))},
		{Name: "appendOrbBasicFragment", DeviceID: DeviceAPI, CommandID: 0x61, Variants: fixed(U8("area"), Blob("fragment", OrbBasicFragmentMax))},
		{Name: "executeOrbBasicProgram", DeviceID: DeviceAPI, CommandID: 0x62, Variants: fixed(U8("area"), U16("startLine"))},
		{Name: "abortOrbBasicProgram", DeviceID: DeviceAPI, CommandID: 0x63},
		{Name: "submitValueToInputStatement", DeviceID: DeviceAPI, CommandID: 0x64, Variants: fixed(I32("value"))},
	}
}
