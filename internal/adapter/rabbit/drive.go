package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Temutjin2k/fastlane/internal/domain/models"
	"github.com/Temutjin2k/fastlane/internal/domain/types"
	wrap "github.com/Temutjin2k/fastlane/pkg/logger/wrapper"
	"github.com/Temutjin2k/fastlane/pkg/metrics"
	"github.com/Temutjin2k/fastlane/pkg/rabbit"
)

const (
	ExchangeDriveTopic = "drive_topic"

	publishRetries = 3
	retryDelay     = 500 * time.Millisecond
)

// channel is the part of *amqp.Channel the producer needs.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type connection interface {
	EnsureConnection(ctx context.Context) error
	DeclareExchange(name, kind string) error
}

type DriveProducer struct {
	client connection
	// channelFn is overridden in tests.
	channelFn func() channel
}

func NewDriveProducer(client *rabbit.RabbitMQ) *DriveProducer {
	return &DriveProducer{
		client: client,
		channelFn: func() channel {
			if ch := client.Channel(); ch != nil {
				return ch
			}
			return nil
		},
	}
}

// Setup declares the exchange the producer publishes to.
func (p *DriveProducer) Setup() error {
	return p.client.DeclareExchange(ExchangeDriveTopic, amqp.ExchangeTopic)
}

// RoutingKey is drive.{event}.{trip_id}.
func RoutingKey(msg models.DriveEventMessage) string {
	return fmt.Sprintf("drive.%s.%s", msg.Event.RoutingSegment(), msg.TripID)
}

// PublishDriveEvent publishes msg as JSON to the drive topic exchange.
func (p *DriveProducer) PublishDriveEvent(ctx context.Context, msg models.DriveEventMessage) (err error) {
	const op = "DriveProducer.PublishDriveEvent"
	ctx = wrap.WithAction(ctx, types.ActionPublishEvent)
	defer func() { metrics.RecordRabbitMQPublish(msg.Event, err) }()

	body, err := json.Marshal(msg)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: failed to marshal message: %w", op, err))
	}

	pub := amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		Body:          body,
		Timestamp:     msg.Timestamp,
		Type:          msg.Event.String(),
		CorrelationId: wrap.FromContext(ctx).RequestID,
	}
	key := RoutingKey(msg)

	err = retry(ctx, publishRetries, retryDelay, func() error {
		if err := p.client.EnsureConnection(ctx); err != nil {
			return err
		}
		ch := p.channelFn()
		if ch == nil {
			return rabbit.ErrClosed
		}
		return ch.PublishWithContext(ctx, ExchangeDriveTopic, key, false, false, pub)
	})
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: failed to publish %s: %w", op, key, err))
	}
	return nil
}
