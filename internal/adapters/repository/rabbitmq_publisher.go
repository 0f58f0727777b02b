package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/carebridge/wellness-service/internal/core/domain"
	"github.com/carebridge/wellness-service/internal/core/ports"
	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker"
)

// RabbitMQPublisher implements AlertPublisher for attention alerts.
// Published when a newly written observation carries critical clinical
// flags or a fall event, so the care team is notified without polling
// the dashboard. Includes retry logic and a circuit breaker.
type RabbitMQPublisher struct {
	conn          *amqp091.Connection
	channel       *amqp091.Channel
	queueName     string
	cb            *gobreaker.CircuitBreaker
	maxRetries    int
	retryDelay    time.Duration
	connMutex     sync.RWMutex
	reconnectCh   chan bool
	stopReconnect chan bool
}

// AttentionAlertEvent is the message published for a critical observation
type AttentionAlertEvent struct {
	ResidentID  uuid.UUID                `json:"resident_id"`
	Observation *domain.ShiftObservation `json:"observation"`
	Timestamp   time.Time                `json:"timestamp"`
	AlertType   string                   `json:"alert_type"`
	Severity    string                   `json:"severity"`
}

// NewRabbitMQPublisher creates a new RabbitMQ publisher with circuit breaker
func NewRabbitMQPublisher(rabbitMQURL string, queueName string) (*RabbitMQPublisher, error) {
	if queueName == "" {
		queueName = "resident_attention_alerts"
	}

	publisher := &RabbitMQPublisher{
		queueName:     queueName,
		maxRetries:    3,
		retryDelay:    1 * time.Second,
		reconnectCh:   make(chan bool, 1),
		stopReconnect: make(chan bool),
	}

	settings := gobreaker.Settings{
		Name:        "rabbitmq",
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	}
	publisher.cb = gobreaker.NewCircuitBreaker(settings)

	if err := publisher.connect(rabbitMQURL); err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	go publisher.handleReconnection(rabbitMQURL)

	return publisher, nil
}

// connect establishes connection to RabbitMQ
func (p *RabbitMQPublisher) connect(rabbitMQURL string) error {
	var err error
	for i := 0; i < p.maxRetries; i++ {
		p.conn, err = amqp091.Dial(rabbitMQURL)
		if err == nil {
			break
		}
		log.Printf("Failed to connect to RabbitMQ (attempt %d/%d): %v", i+1, p.maxRetries, err)
		if i < p.maxRetries-1 {
			time.Sleep(p.retryDelay)
		}
	}

	if err != nil {
		return err
	}

	p.channel, err = p.conn.Channel()
	if err != nil {
		p.conn.Close()
		return err
	}

	// Declare queue (idempotent)
	_, err = p.channel.QueueDeclare(
		p.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)

	if err != nil {
		p.channel.Close()
		p.conn.Close()
		return err
	}

	log.Println("Connected to RabbitMQ successfully")
	return nil
}

// handleReconnection handles automatic reconnection to RabbitMQ
func (p *RabbitMQPublisher) handleReconnection(rabbitMQURL string) {
	for {
		select {
		case <-p.reconnectCh:
			log.Println("Attempting to reconnect to RabbitMQ...")
			p.connMutex.Lock()
			if p.channel != nil {
				p.channel.Close()
			}
			if p.conn != nil {
				p.conn.Close()
			}
			p.connMutex.Unlock()

			if err := p.connect(rabbitMQURL); err != nil {
				log.Printf("Reconnection failed: %v", err)
			}
		case <-p.stopReconnect:
			return
		}
	}
}

// PublishAttentionAlert publishes an attention alert for a critical
// observation. Implements AlertPublisher.
func (p *RabbitMQPublisher) PublishAttentionAlert(ctx context.Context, residentID uuid.UUID, obs *domain.ShiftObservation) error {
	_, err := p.cb.Execute(func() (interface{}, error) {
		return nil, p.publishWithRetry(ctx, residentID, obs)
	})
	return err
}

// publishWithRetry publishes with retry logic
func (p *RabbitMQPublisher) publishWithRetry(ctx context.Context, residentID uuid.UUID, obs *domain.ShiftObservation) error {
	alertType := classifyAlert(obs)

	event := AttentionAlertEvent{
		ResidentID:  residentID,
		Observation: obs,
		Timestamp:   time.Now(),
		AlertType:   alertType,
		Severity:    "critical",
	}

	logEntry := map[string]interface{}{
		"event":          "alert_publish_attempt",
		"resident_id":    residentID.String(),
		"observation_id": obs.ID.String(),
		"alert_type":     alertType,
		"timestamp":      time.Now().Format(time.RFC3339),
	}
	jsonBytes, _ := json.Marshal(logEntry)
	log.Printf("%s", string(jsonBytes))

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal alert event: %w", err)
	}

	var lastErr error
	for i := 0; i < p.maxRetries; i++ {
		p.connMutex.RLock()
		ch := p.channel
		conn := p.conn
		p.connMutex.RUnlock()

		if ch == nil || conn == nil || conn.IsClosed() {
			// Trigger reconnection
			select {
			case p.reconnectCh <- true:
			default:
			}
			time.Sleep(p.retryDelay)
			continue
		}

		err = ch.PublishWithContext(
			ctx,
			"",          // exchange
			p.queueName, // routing key
			false,       // mandatory
			false,       // immediate
			amqp091.Publishing{
				ContentType:  "application/json",
				Body:         body,
				DeliveryMode: amqp091.Persistent,
				Timestamp:    time.Now(),
			},
		)

		if err == nil {
			return nil
		}

		lastErr = err
		log.Printf("Failed to publish alert (attempt %d/%d): %v", i+1, p.maxRetries, err)

		if i < p.maxRetries-1 {
			// Trigger reconnection on error
			select {
			case p.reconnectCh <- true:
			default:
			}
			time.Sleep(p.retryDelay)
		}
	}

	return fmt.Errorf("failed to publish alert after %d retries: %w", p.maxRetries, lastErr)
}

// classifyAlert picks the most specific alert type for the observation.
// Fall events outrank vitals; among vitals, hypoxia is the most urgent.
func classifyAlert(obs *domain.ShiftObservation) string {
	switch {
	case obs.HasFallEvent():
		return "fall_event"
	case obs.HypoxiaFlag:
		return "hypoxia"
	case obs.HypotensionFlag:
		return "hypotension"
	case obs.FeverFlag:
		return "fever"
	case obs.TachycardiaFlag:
		return "tachycardia"
	default:
		return "critical_observation"
	}
}

// Close closes the RabbitMQ connection
func (p *RabbitMQPublisher) Close() error {
	close(p.stopReconnect)
	p.connMutex.Lock()
	defer p.connMutex.Unlock()

	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// Ensure RabbitMQPublisher implements the interface
var _ ports.AlertPublisher = (*RabbitMQPublisher)(nil)
