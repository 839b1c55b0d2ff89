package config

import (
	"errors"

	"github.com/taoyao-code/sphero-wire/internal/protocol/sphero"
)

// Validate 校验策略与布局名称
func (c EncoderConfig) Validate() error {
	var errs []error
	if _, err := c.Policy(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Layout(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Policy 数值越界策略
func (c EncoderConfig) Policy() (sphero.OverflowPolicy, error) {
	return sphero.ParseOverflowPolicy(c.Overflow)
}

// Layout 帧头布局
func (c EncoderConfig) Layout() (sphero.FrameLayout, error) {
	return sphero.ParseFrameLayout(c.FrameLayout)
}

// LevelOptions 自平衡默认选项
func (c EncoderConfig) LevelOptions() sphero.LevelOptions {
	return sphero.LevelOptions{
		Start:         c.Level.Start,
		Rotate:        c.Level.Rotate,
		Sleep:         c.Level.Sleep,
		ControlSystem: c.Level.ControlSystem,
	}
}

// Options 默认帧选项
func (c EncoderConfig) Options() sphero.Options {
	return sphero.Options{Ack: c.Ack, ResetTimeout: c.ResetTimeout}
}

// EncoderOptions 转换为编码器选项
func (c EncoderConfig) EncoderOptions() ([]sphero.EncoderOption, error) {
	policy, err := c.Policy()
	if err != nil {
		return nil, err
	}
	layout, err := c.Layout()
	if err != nil {
		return nil, err
	}
	return []sphero.EncoderOption{
		sphero.WithOverflowPolicy(policy),
		sphero.WithFrameLayout(layout),
		sphero.WithLevelOptions(c.LevelOptions()),
	}, nil
}
