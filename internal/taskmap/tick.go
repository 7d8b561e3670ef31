package taskmap

import (
	"slices"

	"github.com/pixil98/go-colony/internal/activity"
	"github.com/pixil98/go-colony/internal/game"
)

// Tick sweeps finished tasks and moves tasks between the assignable and
// unassignable sets depending on whether any actor in w could reach them.
// Owned tasks stay where they are. The ids of swept tasks are returned.
func (m *TaskMap) Tick(w World) []TaskID {
	var swept []TaskID
	for _, id := range m.IDs() {
		if m.tasks[id].Done {
			m.RemoveTask(id)
			swept = append(swept, id)
		}
	}

	for _, a := range activity.All() {
		if b, ok := m.searchable[a]; ok {
			for _, id := range slices.Clone(b.all) {
				if _, owned := m.owners[id]; owned || m.performable(id, w) {
					continue
				}
				m.searchable.move(m.hidden, a, id, m.priority[id])
				m.isHidden[id] = true
			}
		}
		if b, ok := m.hidden[a]; ok {
			for _, id := range slices.Clone(b.all) {
				if !m.performable(id, w) {
					continue
				}
				m.hidden.move(m.searchable, a, id, m.priority[id])
				delete(m.isHidden, id)
			}
		}
	}

	return swept
}

// performable reports whether at least one actor could get to the task.
// Tasks without a position are left alone.
func (m *TaskMap) performable(id TaskID, w World) bool {
	pos, ok := m.positions[id]
	if !ok {
		return true
	}
	found := false
	w.ForEachActor(func(actor game.ActorID, mv game.Movement) {
		if !found && w.CanReach(actor, pos, mv) {
			found = true
		}
	})
	return found
}

// IsAssignable reports whether the task is in the searchable set.
func (m *TaskMap) IsAssignable(id TaskID) bool {
	_, ok := m.tasks[id]
	return ok && !m.isHidden[id]
}
