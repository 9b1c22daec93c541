package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	mu         sync.Mutex
	declared   []string
	sent       []published
	declareErr error
	publishErr error
	closed     int
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, durable, _, _, _ bool, _ amqp.Table) error {
	if f.declareErr != nil {
		return f.declareErr
	}
	f.declared = append(f.declared, name+"/"+kind)
	return nil
}

func (f *fakeChannel) Publish(exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publishErr != nil {
		return f.publishErr
	}
	f.sent = append(f.sent, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed++
	return nil
}

func TestAMQPPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p, err := NewAMQPPublisher(ch, "resume.events")
	require.NoError(t, err)
	assert.Equal(t, []string{"resume.events/topic"}, ch.declared)

	e := New(ResumeExported, uuid.New(), uuid.New())
	e.Format = "pdf"
	require.NoError(t, p.Publish(context.Background(), e))

	require.Len(t, ch.sent, 1)
	got := ch.sent[0]
	assert.Equal(t, "resume.events", got.exchange)
	assert.Equal(t, "resume.exported", got.key)
	assert.Equal(t, "application/json", got.msg.ContentType)
	assert.Equal(t, amqp.Persistent, got.msg.DeliveryMode)
	assert.Equal(t, e.ID.String(), got.msg.MessageId)

	var body Event
	require.NoError(t, json.Unmarshal(got.msg.Body, &body))
	assert.Equal(t, e.ResumeID, body.ResumeID)
	assert.Equal(t, "pdf", body.Format)
}

func TestAMQPPublisher_Errors(t *testing.T) {
	t.Run("declare failure closes the channel", func(t *testing.T) {
		ch := &fakeChannel{declareErr: errors.New("access refused")}
		_, err := NewAMQPPublisher(ch, "x")
		require.Error(t, err)
		assert.Equal(t, 1, ch.closed)
	})

	t.Run("publish failure is wrapped", func(t *testing.T) {
		ch := &fakeChannel{publishErr: amqp.ErrClosed}
		p, err := NewAMQPPublisher(ch, "x")
		require.NoError(t, err)

		err = p.Publish(context.Background(), New(ResumeCreated, uuid.New(), uuid.New()))
		require.ErrorIs(t, err, amqp.ErrClosed)
	})

	t.Run("publish after close", func(t *testing.T) {
		ch := &fakeChannel{}
		p, err := NewAMQPPublisher(ch, "x")
		require.NoError(t, err)
		require.NoError(t, p.Close())
		require.NoError(t, p.Close())
		assert.Equal(t, 1, ch.closed)

		err = p.Publish(context.Background(), New(ResumeDeleted, uuid.New(), uuid.New()))
		assert.ErrorIs(t, err, ErrClosed)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ch := &fakeChannel{}
		p, err := NewAMQPPublisher(ch, "x")
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, p.Publish(ctx, New(ResumeUpdated, uuid.New(), uuid.New())), context.Canceled)
		assert.Empty(t, ch.sent)
	})
}

func TestAMQPPublisher_ConcurrentPublish(t *testing.T) {
	ch := &fakeChannel{}
	p, err := NewAMQPPublisher(ch, "x")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = p.Publish(context.Background(), New(ResumeUpdated, uuid.New(), uuid.New()))
		}()
	}
	wg.Wait()
	assert.Len(t, ch.sent, 20)
}

func TestLogPublisher(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	p := LogPublisher{Logger: logger}

	owner, resume := uuid.New(), uuid.New()
	e := New(ResumeExported, owner, resume)
	e.Format = "txt"
	require.NoError(t, p.Publish(context.Background(), e))
	require.NoError(t, p.Close())

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, ResumeExported, entry.Data["event"])
	assert.Equal(t, resume, entry.Data["resume_id"])
	assert.Equal(t, "txt", entry.Data["format"])

	hook.Reset()
	require.NoError(t, p.Publish(context.Background(), New(UserRegistered, owner, uuid.Nil)))
	_, hasResume := hook.LastEntry().Data["resume_id"]
	assert.False(t, hasResume)
}
