package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *memWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *memWriter) Close() error {
	w.closed = true
	return nil
}

func TestProducerPublish(t *testing.T) {
	reg := prometheus.NewRegistry()
	w := &memWriter{}
	p := NewProducerWithWriter(w, "gzip", reg)

	require.NoError(t, p.Publish(context.Background(), "predictions", []byte("BTC/USDT:1h"), map[string]int{"a": 1}))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "predictions", w.msgs[0].Topic)
	assert.Equal(t, []byte("BTC/USDT:1h"), w.msgs[0].Key)
	assert.JSONEq(t, `{"a":1}`, string(w.msgs[0].Value))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.metrics.msgs.WithLabelValues("predictions", "gzip", "ok")))

	require.NoError(t, p.PublishBatch(context.Background(), "predictions", nil))
	assert.Len(t, w.msgs, 1)

	w.err = errors.New("broker down")
	assert.Error(t, p.Publish(context.Background(), "predictions", nil, "raw"))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.metrics.errs.WithLabelValues("predictions")))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestNewProducerRequiresBrokers(t *testing.T) {
	_, err := NewProducer()
	assert.Error(t, err)
}
