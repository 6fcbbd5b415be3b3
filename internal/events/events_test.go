package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/victorgmp/SGPC-auth/internal/transport"
	"github.com/victorgmp/SGPC-auth/pkg/logging"
)

type published struct {
	Topic string
	Key   string
	Event any
}

type recordingPublisher struct {
	mu   sync.Mutex
	sent []published
}

func (p *recordingPublisher) Publish(_ context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, published{Topic: topic, Key: key, Event: event})
	return nil
}

type recordingDeleter struct {
	deleted []string
	err     error
}

func (d *recordingDeleter) DeleteByUserID(_ context.Context, userID string) error {
	d.deleted = append(d.deleted, userID)
	return d.err
}

func TestDispatcher_CheckHealthz(t *testing.T) {
	t.Parallel()

	pub := &recordingPublisher{}
	d := &Dispatcher{Service: "auth", Events: pub, Auth: &recordingDeleter{}}

	require.NoError(t, d.Dispatch(context.Background(), TopicCheckHealthz, []byte(`{}`)))

	require.Len(t, pub.sent, 1)
	assert.Equal(t, TopicHealthzChecked, pub.sent[0].Topic)
	assert.Equal(t, transport.HealthzEvent{Service: "auth"}, pub.sent[0].Event)
}

func TestDispatcher_UserDeleted(t *testing.T) {
	t.Parallel()

	del := &recordingDeleter{}
	d := &Dispatcher{Service: "auth", Events: &recordingPublisher{}, Auth: del}
	ctx := context.Background()

	require.NoError(t, d.Dispatch(ctx, TopicUserDeleted, []byte(`{"userId":"u-1"}`)))
	assert.Equal(t, []string{"u-1"}, del.deleted)

	assert.Error(t, d.Dispatch(ctx, TopicUserDeleted, []byte(`{"userId":""}`)))
	assert.Error(t, d.Dispatch(ctx, TopicUserDeleted, []byte(`not json`)))
	assert.Equal(t, []string{"u-1"}, del.deleted)

	del.err = errors.New("gone")
	assert.Error(t, d.Dispatch(ctx, TopicUserDeleted, []byte(`{"userId":"u-2"}`)))
}

func TestDispatcher_UnknownTopic(t *testing.T) {
	t.Parallel()

	d := &Dispatcher{Events: &recordingPublisher{}, Auth: &recordingDeleter{}}
	assert.Error(t, d.Dispatch(context.Background(), "cart.updated", nil))
}

func TestEncode(t *testing.T) {
	t.Parallel()

	msg, err := encode(TopicSignedUp, "u-1", transport.UserEvent{UserID: "u-1"})
	require.NoError(t, err)
	assert.Equal(t, TopicSignedUp, msg.Topic)
	assert.Equal(t, []byte("u-1"), msg.Key)

	var ev map[string]string
	require.NoError(t, json.Unmarshal(msg.Value, &ev))
	assert.Equal(t, map[string]string{"userId": "u-1"}, ev)

	_, err = encode(TopicSignedUp, "u-1", make(chan int))
	assert.Error(t, err)
}

func TestLogPublisher(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := LogPublisher{Logger: logging.NewWithWriter(&buf, "debug")}

	require.NoError(t, p.Publish(context.Background(), TopicSignedIn, "u-1", transport.UserEvent{UserID: "u-1"}))
	assert.Contains(t, buf.String(), `"topic":"auth.signed.in"`)
	assert.NoError(t, p.Close())
}
