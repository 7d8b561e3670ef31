package messaging

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Publisher sends raw data to a subject.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// EventPublisher stamps, renders and publishes scheduler events.
type EventPublisher struct {
	pub       Publisher
	formatter *Formatter
}

func NewEventPublisher(pub Publisher, formatter *Formatter) *EventPublisher {
	return &EventPublisher{pub: pub, formatter: formatter}
}

// Emit publishes ev on its subject. A missing ID is generated and the text
// is rendered when empty.
func (p *EventPublisher) Emit(ev Event) error {
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	if ev.Text == "" && p.formatter != nil {
		text, err := p.formatter.Format(ev)
		if err != nil {
			return err
		}
		ev.Text = text
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshalling event: %w", err)
	}
	return p.pub.Publish(ev.Subject(), data)
}
