package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWriter struct {
	msgs []kafkago.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

// fakeReader serves msgs in order, then blocks until the context ends.
type fakeReader struct {
	msgs      []kafkago.Message
	committed []int64
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	if len(r.msgs) == 0 {
		<-ctx.Done()
		return kafkago.Message{}, ctx.Err()
	}
	msg := r.msgs[0]
	r.msgs = r.msgs[1:]
	return msg, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestCloudEventRoundTrip(t *testing.T) {
	ce, err := NewCloudEvent("routecache", "test.happened", payload{Name: "a", Count: 2})
	require.NoError(t, err)
	assert.Equal(t, SpecVersion, ce.SpecVersion)
	assert.NotEmpty(t, ce.ID)
	assert.Equal(t, "application/json", ce.DataContentType)

	w := &fakeWriter{}
	require.NoError(t, NewProducerWithWriter(w, zap.NewNop()).PublishEvent(context.Background(), "topic.a", "k1", ce))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "topic.a", w.msgs[0].Topic)
	assert.Equal(t, []byte("k1"), w.msgs[0].Key)

	parsed, err := ParseCloudEvent(w.msgs[0].Value)
	require.NoError(t, err)
	assert.Equal(t, ce.ID, parsed.ID)
	assert.Equal(t, "test.happened", parsed.Type)

	var got payload
	require.NoError(t, parsed.ParseData(&got))
	assert.Equal(t, payload{Name: "a", Count: 2}, got)
}

func TestParseCloudEvent_Invalid(t *testing.T) {
	_, err := ParseCloudEvent([]byte(`not json`))
	assert.Error(t, err)

	_, err = ParseCloudEvent([]byte(`{"id":"1"}`))
	assert.Error(t, err)

	ce, err := ParseCloudEvent([]byte(`{"id":"1","type":"x"}`))
	require.NoError(t, err)
	assert.Error(t, ce.ParseData(&payload{}))
}

func TestPublishEvent_WriterError(t *testing.T) {
	ce, err := NewCloudEvent("routecache", "x", payload{})
	require.NoError(t, err)

	p := NewProducerWithWriter(&fakeWriter{err: errors.New("no brokers")}, zap.NewNop())
	err = p.PublishEvent(context.Background(), "topic.a", "", ce)
	assert.ErrorContains(t, err, "no brokers")
}

func TestConsume_CommitsHandledMessages(t *testing.T) {
	reader := &fakeReader{msgs: []kafkago.Message{
		{Topic: "t", Offset: 1, Value: []byte("a")},
		{Topic: "t", Offset: 2, Value: []byte("b")},
	}}
	c := NewConsumerWithReader(reader, "t", zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	var seen []string
	err := c.Consume(ctx, func(_ context.Context, msg kafkago.Message) error {
		seen = append(seen, string(msg.Value))
		if len(seen) == 2 {
			cancel()
		}
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"a", "b"}, seen)
	assert.Equal(t, []int64{1, 2}, reader.committed)
}

func TestConsume_RetriesFailedMessageBeforeMovingOn(t *testing.T) {
	reader := &fakeReader{msgs: []kafkago.Message{
		{Topic: "t", Offset: 1, Value: []byte("a")},
		{Topic: "t", Offset: 2, Value: []byte("b")},
	}}
	c := NewConsumerWithReader(reader, "t", zap.NewNop())
	c.SetRetryBackoff(time.Millisecond, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	var handled []int64
	var committedBefore [][]int64
	failures := 2
	err := c.Consume(ctx, func(_ context.Context, msg kafkago.Message) error {
		handled = append(handled, msg.Offset)
		committedBefore = append(committedBefore, append([]int64(nil), reader.committed...))
		if msg.Offset == 1 && failures > 0 {
			failures--
			return errors.New("database is locked")
		}
		if msg.Offset == 2 {
			cancel()
		}
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []int64{1, 1, 1, 2}, handled)
	// Nothing is committed while offset 1 keeps failing.
	assert.Empty(t, committedBefore[2])
	assert.Equal(t, []int64{1}, committedBefore[3])
	assert.Equal(t, []int64{1, 2}, reader.committed)
}

func TestConsume_StopsRetryingWhenCancelled(t *testing.T) {
	reader := &fakeReader{msgs: []kafkago.Message{
		{Topic: "t", Offset: 1, Value: []byte("a")},
		{Topic: "t", Offset: 2, Value: []byte("b")},
	}}
	c := NewConsumerWithReader(reader, "t", zap.NewNop())
	c.SetRetryBackoff(time.Millisecond, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	err := c.Consume(ctx, func(_ context.Context, msg kafkago.Message) error {
		require.Equal(t, int64(1), msg.Offset)
		attempts++
		if attempts == 3 {
			cancel()
		}
		return errors.New("database is locked")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, attempts)
	assert.Empty(t, reader.committed)
}
