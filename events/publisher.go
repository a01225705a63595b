// Package events publishes time events to a fanout exchange for downstream
// consumers (reporting, notifications). Publishing is best-effort: the
// service runs fine without a broker and a failed publish never fails the
// request that triggered it.
package events

import (
	"encoding/json"
	"log"
	"time"

	"github.com/streadway/amqp"
)

// Publisher defines the interface for publishing messages
type Publisher interface {
	Publish(routingKey string, body []byte) error
	Close()
}

// TimeEventMessage is the payload published for every recorded clock event
type TimeEventMessage struct {
	UserID    uint      `json:"user_id"`
	CompanyID uint      `json:"company_id"`
	EventType string    `json:"event_type"`
	Source    string    `json:"source"`
	EventTime time.Time `json:"event_time"`
}

// ReviewFlagMessage is published when the sweep flags a session
type ReviewFlagMessage struct {
	SessionID    uint   `json:"session_id"`
	UserID       uint   `json:"user_id"`
	CompanyID    uint   `json:"company_id"`
	ReviewStatus string `json:"review_status"`
}

// AMQPPublisher publishes to a durable fanout exchange
type AMQPPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// NewAMQPPublisher connects to the broker and declares the exchange
func NewAMQPPublisher(amqpURL, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(exchange, "fanout", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &AMQPPublisher{conn: conn, channel: ch, exchange: exchange}, nil
}

// Publish publishes a message to the exchange
func (p *AMQPPublisher) Publish(routingKey string, body []byte) error {
	return p.channel.Publish(
		p.exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// Close closes the channel and connection
func (p *AMQPPublisher) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

// PublishJSON marshals v and publishes it through p. A nil publisher is a
// no-op; errors are logged and swallowed.
func PublishJSON(p Publisher, routingKey string, v interface{}) {
	if p == nil {
		return
	}
	body, err := json.Marshal(v)
	if err != nil {
		log.Printf("events: failed to marshal %s message: %v", routingKey, err)
		return
	}
	if err := p.Publish(routingKey, body); err != nil {
		log.Printf("events: failed to publish %s message: %v", routingKey, err)
	}
}
