// Package events carries ticketing events over Kafka.
package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dharmasatrya/faredesk/internal/ticketing"
)

type Type string

const (
	TypeHoldCreated          Type = "hold_created"
	TypeEmailTicketRequested Type = "email_ticket_requested"
)

var ErrUnknownType = errors.New("unknown event type")

// Event is the envelope written to every topic.
type Event struct {
	ID         string          `json:"id"`
	Type       Type            `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

type HoldCreated struct {
	Carrier         string `json:"carrier"`
	Code            string `json:"code"`
	PaymentDeadline string `json:"payment_deadline,omitempty"`
	Passengers      int    `json:"passengers"`
}

type EmailTicketRequested struct {
	Request ticketing.EmailTicketRequest `json:"request"`
}

func New(t Type, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("encode %s payload: %w", t, err)
	}
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		OccurredAt: time.Now().UTC(),
		Payload:    data,
	}, nil
}

// Decode unmarshals a message value into an event.
func Decode(value []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(value, &e); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	switch e.Type {
	case TypeHoldCreated, TypeEmailTicketRequested:
	default:
		return Event{}, fmt.Errorf("%w %q", ErrUnknownType, e.Type)
	}
	return e, nil
}

// Unmarshal decodes the payload into out.
func (e Event) Unmarshal(out any) error {
	if err := json.Unmarshal(e.Payload, out); err != nil {
		return fmt.Errorf("decode %s payload: %w", e.Type, err)
	}
	return nil
}
