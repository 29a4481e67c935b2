package kafka

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/CoverGap-Intelligence/internal/infrastructure/monitoring/logging"
)

// scriptedReader replays msgs then blocks until the context ends.
type scriptedReader struct {
	mu        sync.Mutex
	msgs      []kafka.Message
	fetchErrs []error
	committed []kafka.Message
}

func (r *scriptedReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.fetchErrs) > 0 {
		err := r.fetchErrs[0]
		r.fetchErrs = r.fetchErrs[1:]
		r.mu.Unlock()
		return kafka.Message{}, err
	}
	if len(r.msgs) > 0 {
		m := r.msgs[0]
		r.msgs = r.msgs[1:]
		r.mu.Unlock()
		return m, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *scriptedReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *scriptedReader) Close() error { return nil }

func (r *scriptedReader) commitCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.committed)
}

func envelopeMessage(t *testing.T, offset int64) kafka.Message {
	env, err := NewEventEnvelope(EventTypeCoverageAnalyzed, AnalyzedPayload{ReportID: "r", OverallScore: 50})
	require.NoError(t, err)
	raw, err := json.Marshal(env)
	require.NoError(t, err)
	return kafka.Message{Topic: TopicCoverageAnalyzed, Offset: offset, Value: raw}
}

func TestValidateConsumerConfig(t *testing.T) {
	valid := ConsumerConfig{Brokers: []string{"b"}, GroupID: "g", Topic: "t"}
	assert.NoError(t, ValidateConsumerConfig(valid))

	noGroup := valid
	noGroup.GroupID = ""
	assert.Error(t, ValidateConsumerConfig(noGroup))

	badReset := valid
	badReset.AutoOffsetReset = "middle"
	assert.Error(t, ValidateConsumerConfig(badReset))
}

func TestConsumer_RunHandlesAndCommits(t *testing.T) {
	reader := &scriptedReader{
		fetchErrs: []error{stderrors.New("transient")},
		msgs: []kafka.Message{
			envelopeMessage(t, 1),
			{Topic: TopicCoverageAnalyzed, Offset: 2, Value: []byte("not json")},
			envelopeMessage(t, 3),
		},
	}
	c := NewConsumerWithReader(reader, ConsumerConfig{Topic: TopicCoverageAnalyzed, ErrorBackoff: time.Millisecond}, logging.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var seen []int64
	done := make(chan error, 1)
	go func() {
		done <- c.Run(ctx, func(_ context.Context, env *EventEnvelope, m kafka.Message) error {
			var p AnalyzedPayload
			assert.NoError(t, env.DecodePayload(&p))
			mu.Lock()
			seen = append(seen, m.Offset)
			mu.Unlock()
			if m.Offset == 3 {
				return stderrors.New("handler failed")
			}
			return nil
		})
	}()

	require.Eventually(t, func() bool { return reader.commitCount() == 3 }, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	mu.Lock()
	assert.Equal(t, []int64{1, 3}, seen)
	mu.Unlock()
	assert.Equal(t, int64(3), c.Consumed())
	assert.Equal(t, int64(1), c.Malformed())
}

func TestConsumer_RunTwice(t *testing.T) {
	c := NewConsumerWithReader(&scriptedReader{}, ConsumerConfig{Topic: "t"}, logging.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())

	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		close(started)
		done <- c.Run(ctx, func(context.Context, *EventEnvelope, kafka.Message) error { return nil })
	}()
	<-started
	require.Eventually(t, func() bool { return c.running.Load() }, time.Second, time.Millisecond)

	assert.ErrorIs(t, c.Run(ctx, nil), ErrAlreadyRunning)
	cancel()
	assert.NoError(t, <-done)
}

//Personal.AI order the ending
