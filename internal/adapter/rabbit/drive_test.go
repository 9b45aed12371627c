package rabbit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Temutjin2k/fastlane/internal/domain/models"
	"github.com/Temutjin2k/fastlane/internal/domain/types"
)

type fakeConn struct {
	ensureErr error
	declared  map[string]string
}

func (c *fakeConn) EnsureConnection(context.Context) error { return c.ensureErr }

func (c *fakeConn) DeclareExchange(name, kind string) error {
	if c.declared == nil {
		c.declared = map[string]string{}
	}
	c.declared[name] = kind
	return nil
}

type published struct {
	exchange, key string
	msg           amqp.Publishing
}

type fakeChannel struct {
	failures int
	calls    int
	got      []published
}

func (c *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	c.calls++
	if c.calls <= c.failures {
		return errors.New("channel closed")
	}
	c.got = append(c.got, published{exchange, key, msg})
	return nil
}

func newProducer(conn *fakeConn, ch *fakeChannel) *DriveProducer {
	return &DriveProducer{client: conn, channelFn: func() channel { return ch }}
}

func testEvent() models.DriveEventMessage {
	return models.DriveEventMessage{
		Event:     types.EventDriveArrived,
		TripID:    uuid.MustParse("9f0c3c1e-4b8a-4a44-9c1f-2f7f1e3f6a10"),
		DriveID:   uuid.New(),
		DriverID:  uuid.New(),
		Snapshot:  models.DriveSnapshot{State: types.DriveArrived, Progress: 1},
		Timestamp: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestRoutingKey(t *testing.T) {
	assert.Equal(t, "drive.arrived.9f0c3c1e-4b8a-4a44-9c1f-2f7f1e3f6a10", RoutingKey(testEvent()))
}

func TestPublishDriveEvent(t *testing.T) {
	ch := &fakeChannel{}
	p := newProducer(&fakeConn{}, ch)

	require.NoError(t, p.PublishDriveEvent(context.Background(), testEvent()))
	require.Len(t, ch.got, 1)

	got := ch.got[0]
	assert.Equal(t, ExchangeDriveTopic, got.exchange)
	assert.Equal(t, "drive.arrived.9f0c3c1e-4b8a-4a44-9c1f-2f7f1e3f6a10", got.key)
	assert.Equal(t, "application/json", got.msg.ContentType)

	var body models.DriveEventMessage
	require.NoError(t, json.Unmarshal(got.msg.Body, &body))
	assert.Equal(t, types.EventDriveArrived, body.Event)
	assert.Equal(t, types.DriveArrived, body.Snapshot.State)
}

func TestPublishDriveEvent_Retries(t *testing.T) {
	ch := &fakeChannel{failures: 2}
	p := newProducer(&fakeConn{}, ch)

	require.NoError(t, p.PublishDriveEvent(context.Background(), testEvent()))
	assert.Equal(t, 3, ch.calls)
	assert.Len(t, ch.got, 1)
}

func TestPublishDriveEvent_GivesUp(t *testing.T) {
	ch := &fakeChannel{}
	boom := errors.New("dial failed")
	p := newProducer(&fakeConn{ensureErr: boom}, ch)

	err := p.PublishDriveEvent(context.Background(), testEvent())
	require.ErrorIs(t, err, boom)
	assert.Zero(t, ch.calls)
}

func TestSetup(t *testing.T) {
	conn := &fakeConn{}
	require.NoError(t, newProducer(conn, &fakeChannel{}).Setup())
	assert.Equal(t, "topic", conn.declared[ExchangeDriveTopic])
}
