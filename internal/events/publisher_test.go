package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(payload []byte) (Event, error) {
	var evt Event
	err := json.Unmarshal(payload, &evt)
	return evt, err
}

type fakeSQS struct {
	inputs []*sqs.SendMessageInput
	err    error
}

func (f *fakeSQS) SendMessage(_ context.Context, in *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{}, nil
}

type fakeChannel struct {
	exchange, key string
	msg           amqp.Publishing
	closed        bool
}

func (f *fakeChannel) Publish(exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestSQSPublisherSendsEncodedEvent(t *testing.T) {
	fake := &fakeSQS{}
	p := &SQSPublisher{client: fake, queueURL: "https://sqs.test/queue"}

	err := p.Publish(context.Background(), Event{Type: TypeCreationCreated, CreationID: "c-1", UserID: "user-1", CreationType: "article"})
	require.NoError(t, err)
	require.Len(t, fake.inputs, 1)
	assert.Equal(t, "https://sqs.test/queue", *fake.inputs[0].QueueUrl)

	evt, err := decode([]byte(*fake.inputs[0].MessageBody))
	require.NoError(t, err)
	assert.Equal(t, "c-1", evt.CreationID)
	assert.Equal(t, 1, evt.Version)
	assert.NotEmpty(t, evt.OccurredAt)
	assert.Equal(t, TypeCreationCreated, *fake.inputs[0].MessageAttributes["type"].StringValue)
}

func TestSQSPublisherWrapsErrors(t *testing.T) {
	p := &SQSPublisher{client: &fakeSQS{err: errors.New("throttled")}, queueURL: "q"}
	err := p.Publish(context.Background(), Event{Type: TypeCreationCreated})
	assert.ErrorContains(t, err, "sqs send message")
}

func TestAMQPPublisherRoutesByType(t *testing.T) {
	ch := &fakeChannel{}
	p := &AMQPPublisher{ch: ch, exchange: "creations"}

	require.NoError(t, p.Publish(context.Background(), Event{Type: TypeCreationCreated, CreationID: "c-9", UserID: "user-1"}))
	assert.Equal(t, "creations", ch.exchange)
	assert.Equal(t, TypeCreationCreated, ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, "c-9", ch.msg.MessageId)

	evt, err := decode(ch.msg.Body)
	require.NoError(t, err)
	assert.Equal(t, "user-1", evt.UserID)

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestAMQPPublisherHonoursCancelledContext(t *testing.T) {
	ch := &fakeChannel{}
	p := &AMQPPublisher{ch: ch, exchange: "creations"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Publish(ctx, Event{Type: TypeCreationCreated}), context.Canceled)
	assert.Empty(t, ch.key)
}
