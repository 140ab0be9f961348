package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"github.com/yieldlabs-io/yield-ledger/internal/config"
	"github.com/yieldlabs-io/yield-ledger/internal/observability/metrics"
	"github.com/yieldlabs-io/yield-ledger/internal/types"
	"github.com/yieldlabs-io/yield-ledger/pkg"
)

// QueueManager owns the AMQP connection: it consumes balance-change
// events emitted by the token ledger and publishes settlement outcomes
// for downstream consumers.
type QueueManager struct {
	cfg     *config.QueueConfig
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewQueueManager(cfg *config.QueueConfig) (*QueueManager, error) {
	conn, err := amqp.Dial(cfg.AmqpURI())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	for _, name := range []string{cfg.BalanceEventsQueue, cfg.SettlementEventsQueue} {
		if _, err := channel.QueueDeclare(
			name,
			true,  // durable
			false, // autoDelete
			false, // exclusive
			false, // noWait
			nil,
		); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to declare queue %s: %w", name, err)
		}
	}

	return &QueueManager{
		cfg:     cfg,
		conn:    conn,
		channel: channel,
	}, nil
}

// ConsumeBalanceEvents delivers balance-change events to handler, one at
// a time. A handler error leaves the message unacked so the broker
// redelivers it.
func (qm *QueueManager) ConsumeBalanceEvents(
	ctx context.Context,
	handler func(ctx context.Context, event types.BalanceChangeEvent) error,
) error {
	deliveries, err := qm.channel.Consume(
		qm.cfg.BalanceEventsQueue,
		fmt.Sprintf("yield-ledger-%s", pkg.RandString(8)),
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to consume %s: %w", qm.cfg.BalanceEventsQueue, err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case delivery, ok := <-deliveries:
				if !ok {
					log.Ctx(ctx).Warn().Msg("Balance event channel closed")
					return
				}
				qm.handleDelivery(ctx, delivery, handler)
			}
		}
	}()

	return nil
}

func (qm *QueueManager) handleDelivery(
	ctx context.Context,
	delivery amqp.Delivery,
	handler func(ctx context.Context, event types.BalanceChangeEvent) error,
) {
	handlerCtx, cancel := context.WithTimeout(ctx, qm.cfg.ProcessingTimeout)
	defer cancel()

	var event types.BalanceChangeEvent
	if err := json.Unmarshal(delivery.Body, &event); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Dropping malformed balance event")
		_ = delivery.Nack(false, false)
		return
	}

	if err := handler(handlerCtx, event); err != nil {
		log.Ctx(ctx).Error().Err(err).
			Str("from", event.From).
			Str("to", event.To).
			Msg("Failed to process balance event, requeueing")
		_ = delivery.Nack(false, true)
		return
	}

	_ = delivery.Ack(false)
}

// PublishSettlementEvent emits a settlement or claim outcome. Publish
// failures are recorded but do not fail the ledger operation that
// produced the event.
func (qm *QueueManager) PublishSettlementEvent(ctx context.Context, event types.SettlementEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal settlement event: %w", err)
	}

	err = qm.channel.PublishWithContext(
		ctx,
		"", // default exchange
		qm.cfg.SettlementEventsQueue,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		metrics.RecordQueueSendError()
		return fmt.Errorf("failed to publish settlement event: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the interaction with the queue, ensuring all resources are properly released.
func (qm *QueueManager) Shutdown() {
	log.Info().Msg("Shutting down queue manager")
	if qm.channel != nil {
		_ = qm.channel.Close()
	}
	if qm.conn != nil {
		_ = qm.conn.Close()
	}
}
