package messaging

import (
	"github.com/google/uuid"
	"github.com/pixil98/go-colony/internal/game"
)

const subjectPrefix = "colony."

// InspectSubject is where requests for a rendered view of the scheduler go.
const InspectSubject = subjectPrefix + "inspect"

type EventType string

const (
	EventTurn        EventType = "turn"
	EventAssigned    EventType = "assigned"
	EventTransferred EventType = "transferred"
	EventCompleted   EventType = "completed"
	EventReleased    EventType = "released"
)

// Event reports something the scheduler did.
type Event struct {
	ID   uuid.UUID `json:"id"`
	Type EventType `json:"type"`
	Time game.Time `json:"time"`

	Actor     game.ActorID `json:"actor"`
	ActorName string       `json:"actor_name,omitempty"`

	Task     uint64 `json:"task,omitempty"`
	Kind     string `json:"kind,omitempty"`
	Activity string `json:"activity,omitempty"`

	// From is the previous owner of a transferred task.
	From game.ActorID `json:"from,omitempty"`

	// Refund is what went back to the stockpile when a task was dropped.
	Refund string `json:"refund,omitempty"`

	Text string `json:"text,omitempty"`
}

// Subject returns the subject the event is published on.
func (e Event) Subject() string {
	return subjectPrefix + string(e.Type)
}
