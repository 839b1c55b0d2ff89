package sphero

import (
	"context"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type typedCall func(ctx context.Context, e *Encoder, o Options) ([]byte, error)

// 每个类型化方法的设备号、命令号与载荷字节
func TestEncoder_EveryTypedMethod(t *testing.T) {
	tests := []struct {
		name     string
		command  string
		call     typedCall
		did      uint8
		cid      uint8
		payload  string
		advisory bool
	}{
		// DID 0x00
		{"ping", "ping", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.Ping(ctx, o)
		}, 0x00, 0x01, "", false},
		{"getVersioning", "getVersioning", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.GetVersioning(ctx, o)
		}, 0x00, 0x02, "", false},
		{"controlUARTTxLine", "controlUARTTxLine", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.ControlUARTTxLine(ctx, true, o)
		}, 0x00, 0x03, "01", true},
		{"setDeviceName", "setDeviceName", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.SetDeviceName(ctx, "bb8", o)
		}, 0x00, 0x10, "626238", false},
		{"getBluetoothInfo", "getBluetoothInfo", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.GetBluetoothInfo(ctx, o)
		}, 0x00, 0x11, "", false},
		{"setAutoReconnect", "setAutoReconnect", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.SetAutoReconnect(ctx, true, 7, o)
		}, 0x00, 0x12, "0107", false},
		{"getAutoReconnect", "getAutoReconnect", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.GetAutoReconnect(ctx, o)
		}, 0x00, 0x13, "", false},
		{"getPowerState", "getPowerState", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.GetPowerState(ctx, o)
		}, 0x00, 0x20, "", false},
		{"setPowerNotification", "setPowerNotification", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.SetPowerNotification(ctx, false, o)
		}, 0x00, 0x21, "00", false},
		{"sleep", "sleep", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.Sleep(ctx, 0x0102, 0x03, 0x0405, o)
		}, 0x00, 0x22, "0102030405", false},
		{"getVoltageTripPoints", "getVoltageTripPoints", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.GetVoltageTripPoints(ctx, o)
		}, 0x00, 0x23, "", false},
		{"setVoltageTripPoints", "setVoltageTripPoints", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.SetVoltageTripPoints(ctx, 700, 650, o)
		}, 0x00, 0x24, "02bc028a", true},
		{"setInactivityTimeout", "setInactivityTimeout", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.SetInactivityTimeout(ctx, 600, o)
		}, 0x00, 0x25, "0258", false},
		{"jumpToBootloader", "jumpToBootloader", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.JumpToBootloader(ctx, o)
		}, 0x00, 0x30, "", true},
		{"performLevel1Diagnostics", "performLevel1Diagnostics", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.PerformLevel1Diagnostics(ctx, o)
		}, 0x00, 0x40, "", false},
		{"performLevel2Diagnostics", "performLevel2Diagnostics", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.PerformLevel2Diagnostics(ctx, o)
		}, 0x00, 0x41, "", false},
		{"clearCounters", "clearCounters", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.ClearCounters(ctx, o)
		}, 0x00, 0x42, "", true},
		{"assignTimeValue", "assignTimeValue", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.AssignTimeValue(ctx, 0x01020304, o)
		}, 0x00, 0x50, "01020304", false},
		{"pollPacketTimes", "pollPacketTimes", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.PollPacketTimes(ctx, 0xA0B0C0D0, o)
		}, 0x00, 0x51, "a0b0c0d0", false},

		// DID 0x02
		{"setHeading", "setHeading", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.SetHeading(ctx, 270, o)
		}, 0x02, 0x01, "010e", false},
		{"setStabilization", "setStabilization", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.SetStabilization(ctx, false, o)
		}, 0x02, 0x02, "00", false},
		{"setRotationRate", "setRotationRate", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.SetRotationRate(ctx, 0xC8, o)
		}, 0x02, 0x03, "c8", false},
		{"setApplicationConfigurationBlock", "setApplicationConfigurationBlock", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.SetApplicationConfigurationBlock(ctx, []byte{0x01, 0x02, 0x03}, o)
		}, 0x02, 0x04, "010203" + strings.Repeat("00", AppConfigBlockSize-3), false},
		{"getApplicationConfigurationBlock", "getApplicationConfigurationBlock", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.GetApplicationConfigurationBlock(ctx, o)
		}, 0x02, 0x05, "", false},
		{"getChassisID", "getChassisID", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.GetChassisID(ctx, o)
		}, 0x02, 0x07, "", false},
		{"setChassisID", "setChassisID", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.SetChassisID(ctx, 0x1234, o)
		}, 0x02, 0x08, "1234", true},
		{"selfLevel", "selfLevel", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.SelfLevel(ctx, LevelOptions{Start: true, Sleep: true}, 5, 10, 3, o)
		}, 0x02, 0x09, "05050a03", false},
		{"setDataStreaming/base", "setDataStreaming", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.SetDataStreaming(ctx, StreamingBase{Divisor: 400, Frames: 1, Mask: 0x00E00000}, o)
		}, 0x02, 0x11, "0190000100e0000000", false},
		{"setDataStreaming/second_mask", "setDataStreaming", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			s := StreamingWithSecondMask{StreamingBase: StreamingBase{Divisor: 400, Frames: 1, Mask: 0x00E00000, Count: 2}, Mask2: 0xDEADBEEF}
			return e.SetDataStreaming(ctx, s, o)
		}, 0x02, 0x11, "0190000100e0000002deadbeef", false},
		{"configureCollisionDetection", "configureCollisionDetection", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			c := CollisionConfig{Method: 1, ThresholdX: 0x20, ThresholdY: 0x30, SpeedX: 0x40, SpeedY: 0x50, DeadTime: 0x0A}
			return e.ConfigureCollisionDetection(ctx, c, o)
		}, 0x02, 0x12, "01203040500a", false},
		{"configureLocator", "configureLocator", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.ConfigureLocator(ctx, 0x01, -1, 2, 90, o)
		}, 0x02, 0x13, "01ffff0002005a", false},
		{"setAccelerometerRange", "setAccelerometerRange", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.SetAccelerometerRange(ctx, 2, o)
		}, 0x02, 0x14, "02", false},
		{"readLocator", "readLocator", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.ReadLocator(ctx, o)
		}, 0x02, 0x15, "", false},
		{"setRGB", "setRGB", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.SetRGB(ctx, 0x112233, false, o)
		}, 0x02, 0x20, "11223300", false},
		{"setBackLED", "setBackLED", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.SetBackLED(ctx, 0xFF, o)
		}, 0x02, 0x21, "ff", false},
		{"getRGB", "getRGB", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.GetRGB(ctx, o)
		}, 0x02, 0x22, "", false},
		{"roll", "roll", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.Roll(ctx, 0x80, 90, 1, o)
		}, 0x02, 0x30, "80005a01", false},
		{"setBoostWithTime", "setBoostWithTime", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.SetBoostWithTime(ctx, 5, 180, o)
		}, 0x02, 0x31, "0500b4", true},
		{"setRawMotorValues", "setRawMotorValues", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.SetRawMotorValues(ctx, MotorValue{Mode: 1, Power: 0x80}, MotorValue{Mode: 2, Power: 0x40}, o)
		}, 0x02, 0x33, "01800240", false},
		{"setMotionTimeout", "setMotionTimeout", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.SetMotionTimeout(ctx, 2000, o)
		}, 0x02, 0x34, "07d0", false},
		{"setPermanentOptionFlags", "setPermanentOptionFlags", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.SetPermanentOptionFlags(ctx, 0x00000009, o)
		}, 0x02, 0x35, "00000009", false},
		{"getPermanentOptionFlags", "getPermanentOptionFlags", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.GetPermanentOptionFlags(ctx, o)
		}, 0x02, 0x36, "", false},
		{"setTemporaryOptionFlags", "setTemporaryOptionFlags", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.SetTemporaryOptionFlags(ctx, 0x00000001, o)
		}, 0x02, 0x37, "00000001", false},
		{"getTemporaryOptionFlags", "getTemporaryOptionFlags", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.GetTemporaryOptionFlags(ctx, o)
		}, 0x02, 0x38, "", false},
		{"getConfigurationBlock", "getConfigurationBlock", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.GetConfigurationBlock(ctx, 1, o)
		}, 0x02, 0x40, "01", false},
		{"setDeviceMode", "setDeviceMode", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.SetDeviceMode(ctx, 1, o)
		}, 0x02, 0x42, "01", false},
		{"setConfigurationBlock", "setConfigurationBlock", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.SetConfigurationBlock(ctx, []byte{0xAA}, o)
		}, 0x02, 0x43, "aa" + strings.Repeat("00", ConfigBlockSize-1), false},
		{"getDeviceMode", "getDeviceMode", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.GetDeviceMode(ctx, o)
		}, 0x02, 0x44, "", false},
		{"runMacro", "runMacro", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.RunMacro(ctx, 0x0A, o)
		}, 0x02, 0x50, "0a", false},
		{"saveTemporaryMacro", "saveTemporaryMacro", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.SaveTemporaryMacro(ctx, []byte{0x05, 0x00}, o)
		}, 0x02, 0x51, "0500", false},
		{"saveMacro", "saveMacro", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.SaveMacro(ctx, []byte{0x22, 0x00}, o)
		}, 0x02, 0x52, "2200", false},
		{"reInitializeMacroExecutive", "reInitializeMacroExecutive", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.ReInitializeMacroExecutive(ctx, o)
		}, 0x02, 0x54, "", false},
		{"abortMacro", "abortMacro", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.AbortMacro(ctx, o)
		}, 0x02, 0x55, "", false},
		{"getMacroStatus", "getMacroStatus", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.GetMacroStatus(ctx, o)
		}, 0x02, 0x56, "", false},
		{"setMacroParameter/wide", "setMacroParameter", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.SetMacroParameter(ctx, 1, 0x0102, o)
		}, 0x02, 0x57, "010102", false},
		{"setMacroParameter/narrow", "setMacroParameter", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.SetMacroParameter(ctx, 2, 9, o)
		}, 0x02, 0x57, "020900", false},
		{"appendMacroChunk", "appendMacroChunk", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.AppendMacroChunk(ctx, []byte{0x00}, o)
		}, 0x02, 0x58, "00", false},
		{"eraseOrbBasicStorage", "eraseOrbBasicStorage", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.EraseOrbBasicStorage(ctx, 0, o)
		}, 0x02, 0x60, "00", false},
		{"appendOrbBasicFragment", "appendOrbBasicFragment", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.AppendOrbBasicFragment(ctx, 1, []byte("10 PRINT"), o)
		}, 0x02, 0x61, "013130205052494e54", false},
		{"executeOrbBasicProgram", "executeOrbBasicProgram", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.ExecuteOrbBasicProgram(ctx, 0, 10, o)
		}, 0x02, 0x62, "00000a", false},
		{"abortOrbBasicProgram", "abortOrbBasicProgram", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.AbortOrbBasicProgram(ctx, o)
		}, 0x02, 0x63, "", false},
		{"submitValueToInputStatement", "submitValueToInputStatement", func(ctx context.Context, e *Encoder, o Options) ([]byte, error) {
			return e.SubmitValueToInputStatement(ctx, -1, o)
		}, 0x02, 0x64, "ffffffff", false},
	}

	ctx := context.Background()
	obs := &recordingObserver{}
	enc := newTestEncoder(&counterSeq{}, WithObserver(obs))

	covered := make(map[string]bool)
	var wantAdvisory []string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := tt.call(ctx, enc, DefaultOptions())
			require.NoError(t, err)
			require.NoError(t, VerifyFrame(frame, FrameSequenced))

			payload := frame[6 : len(frame)-1]
			assert.Equal(t, byte(SOP1), frame[0])
			assert.Equal(t, byte(0xFE), frame[1])
			assert.Equal(t, tt.did, frame[2], "did")
			assert.Equal(t, tt.cid, frame[3], "cid")
			assert.Equal(t, byte(len(payload)+1), frame[5], "dlen")
			assert.Equal(t, tt.payload, hex.EncodeToString(payload))

			desc, err := enc.Dictionary().Lookup(tt.command)
			require.NoError(t, err)
			assert.Equal(t, tt.did, desc.DeviceID)
			assert.Equal(t, tt.cid, desc.CommandID)
			assert.Equal(t, tt.advisory, desc.Advisory != "", "advisory")
		})
		covered[tt.command] = true
		if tt.advisory {
			wantAdvisory = append(wantAdvisory, tt.command)
		}
	}

	// 字典中每条命令都有类型化方法覆盖
	for _, desc := range enc.Dictionary().All() {
		assert.True(t, covered[desc.Name], "no typed call for %s", desc.Name)
	}
	assert.Len(t, covered, enc.Dictionary().Len())

	// 类型化方法同样上报告警命令
	assert.Equal(t, wantAdvisory, obs.advisory)
}

func TestEncoder_FieldlessCommandRejectsVariant(t *testing.T) {
	seq := &counterSeq{}
	enc := newTestEncoder(seq)
	ctx := context.Background()

	_, err := enc.Encode(ctx, "ping", "no_such_variant", nil, DefaultOptions())
	assert.ErrorIs(t, err, ErrUnknownVariant)

	_, err = enc.Encode(ctx, "roll", "no_such_variant", []Value{Uint(1), Uint(2), Uint(3)}, DefaultOptions())
	assert.ErrorIs(t, err, ErrUnknownVariant)
	assert.Zero(t, seq.calls.Load())

	res, err := enc.Encode(ctx, "ping", "", nil, DefaultOptions())
	require.NoError(t, err)
	assert.Len(t, res.Frame, 7)
}
