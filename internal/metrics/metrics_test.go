package metrics

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taoyao-code/sphero-wire/internal/protocol/sphero"
)

type oneSeq struct{}

func (oneSeq) Next(context.Context) (uint8, error) { return 1, nil }

func TestEncoderMetrics_Observer(t *testing.T) {
	reg := NewRegistry()
	m := NewEncoderMetrics(reg)

	var _ sphero.Observer = m
	enc := sphero.NewEncoder(sphero.SequenceEnveloper{Seq: oneSeq{}}, sphero.WithObserver(m))
	ctx := context.Background()

	_, err := enc.Roll(ctx, 1, 2, 3, sphero.DefaultOptions())
	require.NoError(t, err)
	_, err = enc.SaveMacro(ctx, make([]byte, 300), sphero.DefaultOptions())
	require.Error(t, err)
	_, err = enc.SetBoostWithTime(ctx, 1, 2, sphero.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.FramesTotal.WithLabelValues("roll")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RejectedTotal.WithLabelValues("saveMacro", "payload_too_large")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AdvisoryTotal.WithLabelValues("setBoostWithTime")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.FramesTotal))
}
