package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeReader serves queued messages and cancels the consume context once
// they are exhausted.
type fakeReader struct {
	mu        sync.Mutex
	pending   []kafkago.Message
	committed []int64
	cancel    context.CancelFunc
}

func (f *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.pending) == 0 {
		f.cancel()
		return kafkago.Message{}, ctx.Err()
	}
	msg := f.pending[0]
	f.pending = f.pending[1:]
	return msg, nil
}

func (f *fakeReader) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range msgs {
		f.committed = append(f.committed, m.Offset)
	}
	return nil
}

func (f *fakeReader) Close() error { return nil }

func quickBackOff() backoff.BackOff { return backoff.NewConstantBackOff(time.Millisecond) }

func TestConsumer_RetriesFailedMessageBeforeCommittingLater(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{
		pending: []kafkago.Message{{Offset: 5}, {Offset: 6}},
		cancel:  cancel,
	}
	c := newConsumer(reader, quickBackOff, zap.NewNop())

	var handled []int64
	failures := 2
	err := c.Consume(ctx, func(_ context.Context, msg kafkago.Message) error {
		handled = append(handled, msg.Offset)
		if msg.Offset == 5 && failures > 0 {
			failures--
			// nothing may be committed while offset 5 is still failing
			assert.Empty(t, reader.committed)
			return errors.New("database unavailable")
		}
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []int64{5, 5, 5, 6}, handled)
	assert.Equal(t, []int64{5, 6}, reader.committed)
}

func TestConsumer_StopsRetryingOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	reader := &fakeReader{pending: []kafkago.Message{{Offset: 9}}, cancel: cancel}
	c := newConsumer(reader, quickBackOff, zap.NewNop())

	attempts := 0
	err := c.Consume(ctx, func(context.Context, kafkago.Message) error {
		attempts++
		if attempts == 3 {
			cancel()
		}
		return errors.New("still failing")
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.GreaterOrEqual(t, attempts, 3)
	assert.Empty(t, reader.committed)
}
