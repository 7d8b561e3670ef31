package taskmap

import (
	"github.com/pixil98/go-colony/internal/activity"
	"github.com/pixil98/go-colony/internal/game"
)

// Performer is the actor a task is being looked up for.
type Performer interface {
	ActorID() game.ActorID
	Movement() game.Movement
	LocalTime() game.Time
}

// World answers the reachability questions task lookup depends on.
type World interface {
	CanReach(id game.ActorID, pos game.Position, m game.Movement) bool
	Distance(id game.ActorID, pos game.Position) (int, bool)
	Carrying(id game.ActorID) (game.StorageID, bool)
	ForEachActor(fn func(game.ActorID, game.Movement))
}

type candidate struct {
	id       TaskID
	priority bool
	dist     int
}

func (c candidate) better(o candidate) bool {
	if c.priority != o.priority {
		return c.priority
	}
	if c.dist != o.dist {
		return c.dist < o.dist
	}
	return c.id < o.id
}

// GetClosestTask finds the best task of activity a for the actor. Priority
// tasks beat all others; otherwise the nearest wins, then the lowest id.
// Only priority tasks are considered when priorityOnly is set.
//
// A task owned by someone else is only offered when it is transferable, the
// actor is strictly closer to it than the owner, and within the transfer
// radius. Tasks that are done, locked for the actor, cooling down after a
// release, out of reach, or bound for a different storage than what the
// actor carries are skipped.
func (m *TaskMap) GetClosestTask(p Performer, a activity.Activity, priorityOnly bool, w World) (TaskID, bool) {
	b, ok := m.searchable[a]
	if !ok {
		return 0, false
	}
	ids := b.all
	if priorityOnly {
		ids = b.priority
	}

	actor := p.ActorID()
	carried, carrying := w.Carrying(actor)

	var best candidate
	found := false
	for _, id := range ids {
		t := m.tasks[id]
		if t.Done || t.Cancelled {
			continue
		}
		pos, placed := m.positions[id]
		if !placed {
			continue
		}
		if m.IsLocked(actor, id) || m.IsDelayed(id, p.LocalTime()) {
			continue
		}
		if carrying && t.Storage != "" && t.Storage != carried {
			continue
		}
		if !w.CanReach(actor, pos, p.Movement()) {
			continue
		}
		dist, ok := w.Distance(actor, pos)
		if !ok {
			continue
		}
		if owner, owned := m.owners[id]; owned && owner != actor {
			if !m.canTransfer(t, owner, pos, dist, w) {
				continue
			}
		}

		c := candidate{id: id, priority: m.priority[id], dist: dist}
		if !found || c.better(best) {
			best = c
			found = true
		}
	}

	return best.id, found
}

func (m *TaskMap) canTransfer(t *Task, owner game.ActorID, pos game.Position, dist int, w World) bool {
	if !t.Transferable || dist > m.transferRadius {
		return false
	}
	ownerDist, ok := w.Distance(owner, pos)
	return !ok || dist < ownerDist
}
