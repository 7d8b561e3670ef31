package taskmap

import "github.com/pixil98/go-colony/internal/game"

type TaskMapOpt func(*TaskMap)

// WithTransferRadius sets how far away an actor may be from a task it takes
// over from another actor.
func WithTransferRadius(radius int) TaskMapOpt {
	return func(m *TaskMap) {
		m.transferRadius = radius
	}
}

// WithFreeTaskDelay sets how long a released task stays hidden from
// assignment.
func WithFreeTaskDelay(delay game.Interval) TaskMapOpt {
	return func(m *TaskMap) {
		m.freeTaskDelay = delay
	}
}
