package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/streadway/amqp"
)

const Exchange = "jobboard.events"

// Routing keys.
const (
	ApplicationSubmitted         = "application.submitted"
	ApplicationStatusChanged     = "application.status_changed"
	ApplicationRescored          = "application.rescored"
	RecruiterVerificationChanged = "recruiter.verification_changed"
)

// Publisher emits domain events.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// NopPublisher drops every event. Used when RABBITMQ_URL is unset.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }

// AMQPPublisher publishes JSON events to a topic exchange.
type AMQPPublisher struct {
	conn *amqp.Connection

	mu sync.Mutex
	ch *amqp.Channel
}

func NewAMQPPublisher(url string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("error connecting to RabbitMQ: %w", err)
	}
	p := &AMQPPublisher{conn: conn}
	if _, err := p.channel(); err != nil {
		conn.Close()
		return nil, err
	}
	log.Printf("[Events] publishing to exchange %s", Exchange)
	return p, nil
}

// channel returns the open channel, reopening it after a channel-level error.
// Callers must hold p.mu or be the constructor.
func (p *AMQPPublisher) channel() (*amqp.Channel, error) {
	if p.ch != nil {
		return p.ch, nil
	}
	ch, err := p.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		Exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	p.ch = ch
	return ch, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return err
	}
	err = ch.Publish(
		Exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		p.ch.Close()
		p.ch = nil
		return fmt.Errorf("failed to publish %s: %w", routingKey, err)
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		p.ch.Close()
		p.ch = nil
	}
	return p.conn.Close()
}

// Emit publishes and logs failures instead of returning them, so events
// never fail the request that produced them.
func Emit(ctx context.Context, p Publisher, routingKey string, payload any) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := p.Publish(ctx, routingKey, payload); err != nil {
		log.Printf("[Events] failed to publish %s: %v", routingKey, err)
	}
}

// ApplicationEvent is the payload of the application.* events.
type ApplicationEvent struct {
	ApplicationID string    `json:"applicationId"`
	JobID         string    `json:"jobId"`
	UserID        string    `json:"userId"`
	Status        string    `json:"status"`
	Score         *float64  `json:"score,omitempty"`
	At            time.Time `json:"at"`
}

// RecruiterEvent is the payload of recruiter.verification_changed.
type RecruiterEvent struct {
	RecruiterID        string    `json:"recruiterId"`
	VerificationStatus string    `json:"verificationStatus"`
	At                 time.Time `json:"at"`
}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Event is one recorded publication.
type Event struct {
	RoutingKey string
	Payload    any
}

func (r *Recorder) Publish(_ context.Context, routingKey string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{RoutingKey: routingKey, Payload: payload})
	return nil
}

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Keys returns the routing keys published so far, in order.
func (r *Recorder) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, len(r.events))
	for i, e := range r.events {
		keys[i] = e.RoutingKey
	}
	return keys
}
