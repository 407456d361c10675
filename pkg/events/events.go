package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/agendou/agendou-api/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type Subscriber interface {
	Subscribe(subject string, handler func(msg *Message)) error
	QueueSubscribe(subject, queue string, handler func(msg *Message)) error
	Close() error
}

type EventBus interface {
	Publisher
	Subscriber
}

type Message struct {
	Subject   string
	Data      []byte
	Timestamp time.Time
	ID        string
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Subscribe(subject string, handler func(msg *Message)) error {
	_, err := n.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
			ID:        fmt.Sprintf("%d", time.Now().UnixNano()),
		})
	})
	return err
}

func (n *NATSEventBus) QueueSubscribe(subject, queue string, handler func(msg *Message)) error {
	_, err := n.conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
			ID:        fmt.Sprintf("%d", time.Now().UnixNano()),
		})
	})
	return err
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// Event subjects
const (
	// Appointment events
	AppointmentCreated       = "appointment.created"
	AppointmentCanceled      = "appointment.canceled"
	AppointmentStatusChanged = "appointment.status_changed"

	// Business lifecycle events
	BusinessBlocked           = "business.blocked"
	BusinessUnblocked         = "business.unblocked"
	BusinessPaymentRegistered = "business.payment_registered"
	LeadCreated               = "lead.created"
)

// Event payloads
type AppointmentCreatedEvent struct {
	AppointmentID  int64     `json:"appointment_id"`
	BusinessID     int64     `json:"business_id"`
	ClientID       int64     `json:"client_id"`
	ProfessionalID int64     `json:"professional_id"`
	ServiceID      int64     `json:"service_id"`
	Date           string    `json:"date"`
	Time           string    `json:"time"`
	CreatedAt      time.Time `json:"created_at"`
}

type AppointmentCanceledEvent struct {
	AppointmentID int64     `json:"appointment_id"`
	BusinessID    int64     `json:"business_id"`
	CanceledBy    int64     `json:"canceled_by"`
	CanceledAt    time.Time `json:"canceled_at"`
}

type AppointmentStatusChangedEvent struct {
	AppointmentID int64     `json:"appointment_id"`
	BusinessID    int64     `json:"business_id"`
	OldStatus     string    `json:"old_status"`
	NewStatus     string    `json:"new_status"`
	ChangedAt     time.Time `json:"changed_at"`
}

type BusinessBlockedEvent struct {
	BusinessID  int64     `json:"business_id"`
	Reason      string    `json:"reason"`
	DaysOverdue int       `json:"days_overdue,omitempty"`
	BlockedAt   time.Time `json:"blocked_at"`
}

type BusinessPaymentRegisteredEvent struct {
	BusinessID int64     `json:"business_id"`
	PaidAt     time.Time `json:"paid_at"`
	NextDueAt  time.Time `json:"next_due_at"`
}

type LeadCreatedEvent struct {
	BusinessID int64  `json:"business_id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	Email      string `json:"email"`
}
