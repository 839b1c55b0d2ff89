package app

import (
	"go.uber.org/zap"

	cfgpkg "github.com/taoyao-code/sphero-wire/internal/config"
	"github.com/taoyao-code/sphero-wire/internal/protocol/sphero"
)

// NewEncoder 按配置组装编码器，obs 可为空
func NewEncoder(cfg cfgpkg.EncoderConfig, seq sphero.Sequencer, obs sphero.Observer, log *zap.Logger) (*sphero.Encoder, error) {
	opts, err := cfg.EncoderOptions()
	if err != nil {
		return nil, err
	}
	opts = append(opts, sphero.WithLogger(log), sphero.WithObserver(obs))
	enc := sphero.NewEncoder(sphero.SequenceEnveloper{Seq: seq}, opts...)

	log.Info("sphero encoder ready",
		zap.Int("commands", enc.Dictionary().Len()),
		zap.String("frame_layout", enc.FrameLayout().String()),
		zap.String("overflow", cfg.Overflow),
	)
	return enc, nil
}
