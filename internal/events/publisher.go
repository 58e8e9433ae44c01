// Package events publishes booking lifecycle events to RabbitMQ so other
// services (reminders, notifications) can react to them.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
)

// Message is the JSON body published for every booking event.
type Message struct {
	Event     string    `json:"event"`
	BookingID string    `json:"booking_id,omitempty"`
	ActorID   string    `json:"actor_id,omitempty"`
	Payload   any       `json:"payload,omitempty"`
	At        time.Time `json:"at"`
}

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher is an audit sink forwarding booking events to a topic exchange.
// Routing keys look like "booking.created".
type Publisher struct {
	conn     *amqp.Connection
	ch       channel
	exchange string
	log      zerolog.Logger
}

// Dial connects to the broker and declares the durable topic exchange.
func Dial(url, exchange string, log zerolog.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // autoDelete
		false,    // internal
		false,    // noWait
		nil,      // args
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq exchange declare: %w", err)
	}

	p := newPublisher(ch, exchange, log)
	p.conn = conn
	return p, nil
}

func newPublisher(ch channel, exchange string, log zerolog.Logger) *Publisher {
	return &Publisher{
		ch:       ch,
		exchange: exchange,
		log:      log.With().Str("component", "events").Logger(),
	}
}

// Write publishes booking events and ignores everything else.
func (p *Publisher) Write(ctx context.Context, ev audit.Event) error {
	if ev.Entity != "booking" {
		return nil
	}

	msg := Message{
		Event:   ev.Action,
		Payload: ev.Metadata,
		At:      ev.At.UTC(),
	}
	if ev.EntityID != nil {
		msg.BookingID = ev.EntityID.String()
	}
	if ev.ActorID != nil {
		msg.ActorID = ev.ActorID.String()
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	key := RoutingKey(ev.Action)
	if err := p.ch.PublishWithContext(ctx,
		p.exchange,
		key,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    msg.At,
			Body:         body,
		},
	); err != nil {
		return fmt.Errorf("publish %s: %w", key, err)
	}

	p.log.Debug().Str("routing_key", key).Str("booking_id", msg.BookingID).Msg("event published")
	return nil
}

// RoutingKey turns "booking_created" into "booking.created".
func RoutingKey(action string) string {
	return strings.Replace(action, "_", ".", 1)
}

func (p *Publisher) Close() error {
	if err := p.ch.Close(); err != nil {
		return err
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

var _ audit.Sink = (*Publisher)(nil)
