package taskmap

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/pixil98/go-colony/internal/activity"
	"github.com/pixil98/go-colony/internal/game"
	"github.com/pixil98/go-errors"
)

// TaskState is the persisted form of one task and its index entries.
type TaskState struct {
	Task
	Pos          *game.Position `json:"pos,omitempty"`
	Owner        *game.ActorID  `json:"owner,omitempty"`
	Priority     bool           `json:"priority,omitempty"`
	Hidden       bool           `json:"hidden,omitempty"`
	DelayedUntil *game.Time     `json:"delayed_until,omitempty"`
}

type LockState struct {
	Actor game.ActorID `json:"actor"`
	Task  TaskID       `json:"task"`
}

type HighlightState struct {
	Pos       game.Position `json:"pos"`
	Highlight Highlight     `json:"highlight"`
}

// PlacementState lists the tasks at one position in the order they were
// placed there.
type PlacementState struct {
	Pos   game.Position `json:"pos"`
	Tasks []TaskID      `json:"tasks"`
}

// State is the persisted form of a TaskMap.
type State struct {
	NextID     TaskID           `json:"next_id"`
	Tasks      []TaskState      `json:"tasks"`
	Placements []PlacementState `json:"placements,omitempty"`
	Locks      []LockState      `json:"locks,omitempty"`
	Highlights []HighlightState `json:"highlights,omitempty"`
}

func comparePos(a, b game.Position) int {
	switch {
	case a.Less(b):
		return -1
	case b.Less(a):
		return 1
	default:
		return 0
	}
}

// State captures the task map for persistence. Tasks are listed by id.
func (m *TaskMap) State() State {
	st := State{NextID: m.nextID}

	for _, id := range m.IDs() {
		ts := TaskState{
			Task:     *m.tasks[id],
			Priority: m.priority[id],
			Hidden:   m.isHidden[id],
		}
		if pos, ok := m.positions[id]; ok {
			ts.Pos = &pos
		}
		if owner, ok := m.owners[id]; ok {
			ts.Owner = &owner
		}
		if until, ok := m.delayed[id]; ok {
			ts.DelayedUntil = &until
		}
		st.Tasks = append(st.Tasks, ts)
	}

	for pos, ids := range m.byPos {
		if len(ids) > 1 {
			st.Placements = append(st.Placements, PlacementState{Pos: pos, Tasks: slices.Clone(ids)})
		}
	}
	slices.SortFunc(st.Placements, func(a, b PlacementState) int {
		return comparePos(a.Pos, b.Pos)
	})

	for k := range m.locks {
		st.Locks = append(st.Locks, LockState{Actor: k.actor, Task: k.task})
	}
	slices.SortFunc(st.Locks, func(a, b LockState) int {
		if c := cmp.Compare(a.Actor, b.Actor); c != 0 {
			return c
		}
		return cmp.Compare(a.Task, b.Task)
	})

	for pos, h := range m.highlights {
		st.Highlights = append(st.Highlights, HighlightState{Pos: pos, Highlight: h})
	}
	slices.SortFunc(st.Highlights, func(a, b HighlightState) int {
		return comparePos(a.Pos, b.Pos)
	})

	return st
}

// Restore replaces the task map's contents with st. The map is left
// untouched when st is inconsistent.
func (m *TaskMap) Restore(st State) error {
	fresh := New(WithTransferRadius(m.transferRadius), WithFreeTaskDelay(m.freeTaskDelay))
	el := errors.NewErrorList()

	for _, ts := range st.Tasks {
		if ts.ID == 0 {
			el.Add(fmt.Errorf("task without id"))
			continue
		}
		if _, dup := fresh.tasks[ts.ID]; dup {
			el.Add(fmt.Errorf("%s listed twice", ts.ID))
			continue
		}
		if !ts.Kind.Valid() {
			el.Add(fmt.Errorf("%s: %w: %d", ts.ID, ErrUnknownKind, int(ts.Kind)))
			continue
		}
		if !ts.Activity.Valid() {
			el.Add(fmt.Errorf("%s: %w: %d", ts.ID, activity.ErrUnknownActivity, int(ts.Activity)))
			continue
		}
		if ts.Owner != nil {
			if cur, busy := fresh.owned[*ts.Owner]; busy {
				el.Add(fmt.Errorf("%s owns both %s and %s", *ts.Owner, cur, ts.ID))
				continue
			}
		}

		fresh.add(ts.Task, ts.Pos)
		if ts.Hidden && ts.Activity != activity.Idle {
			fresh.searchable.move(fresh.hidden, ts.Activity, ts.ID, false)
			fresh.isHidden[ts.ID] = true
		}
		if ts.Priority {
			fresh.SetPriority(ts.ID, true)
		}
		if ts.Owner != nil {
			fresh.assign(*ts.Owner, ts.ID)
		}
		if ts.DelayedUntil != nil {
			fresh.delayed[ts.ID] = *ts.DelayedUntil
		}
	}

	if st.NextID < fresh.nextID {
		el.Add(fmt.Errorf("next id %d is below highest task id %d", st.NextID, fresh.nextID))
	}
	fresh.nextID = max(st.NextID, fresh.nextID)

	// Shared positions go back to the order they were saved with.
	for _, p := range st.Placements {
		cur := fresh.byPos[p.Pos]
		if len(p.Tasks) == 0 {
			continue
		}
		if !slices.Equal(slices.Sorted(slices.Values(p.Tasks)), slices.Sorted(slices.Values(cur))) {
			el.Add(fmt.Errorf("placement at %s lists %v but tasks there are %v", p.Pos, p.Tasks, cur))
			continue
		}
		fresh.byPos[p.Pos] = slices.Clone(p.Tasks)
	}

	for _, l := range st.Locks {
		if _, ok := fresh.tasks[l.Task]; !ok {
			el.Add(fmt.Errorf("lock for %s on %s: %w", l.Actor, l.Task, ErrTaskNotFound))
			continue
		}
		fresh.Lock(l.Actor, l.Task)
	}
	for _, h := range st.Highlights {
		fresh.SetHighlightType(h.Pos, h.Highlight)
	}

	if err := el.Err(); err != nil {
		return fmt.Errorf("restoring task map: %w", err)
	}

	*m = *fresh
	return nil
}

// CheckConsistency verifies every index agrees with every other.
func (m *TaskMap) CheckConsistency() error {
	if len(m.owners) != len(m.owned) {
		return fmt.Errorf("%d owned tasks but %d owning actors", len(m.owners), len(m.owned))
	}
	for id, actor := range m.owners {
		if m.owned[actor] != id {
			return fmt.Errorf("%s owned by %s but %s owns %s", id, actor, actor, m.owned[actor])
		}
		if _, ok := m.tasks[id]; !ok {
			return fmt.Errorf("%s owned by %s: %w", id, actor, ErrTaskNotFound)
		}
	}

	placed := 0
	for pos, ids := range m.byPos {
		if len(ids) == 0 {
			return fmt.Errorf("empty position bucket at %s", pos)
		}
		for _, id := range ids {
			if m.positions[id] != pos {
				return fmt.Errorf("%s listed at %s but placed at %s", id, pos, m.positions[id])
			}
		}
		placed += len(ids)
	}
	if placed != len(m.positions) {
		return fmt.Errorf("%d tasks placed but %d listed by position", len(m.positions), placed)
	}

	seen := make(map[TaskID]bool, len(m.tasks))
	for _, pair := range []struct {
		ix     index
		hidden bool
	}{{m.searchable, false}, {m.hidden, true}} {
		for a, b := range pair.ix {
			for _, id := range b.all {
				t, ok := m.tasks[id]
				if !ok {
					return fmt.Errorf("%s bucketed under %s: %w", id, a, ErrTaskNotFound)
				}
				if t.Activity != a {
					return fmt.Errorf("%s of %s bucketed under %s", id, t.Activity, a)
				}
				if seen[id] {
					return fmt.Errorf("%s bucketed twice", id)
				}
				seen[id] = true
				if m.isHidden[id] != pair.hidden {
					return fmt.Errorf("%s in the wrong assignable set", id)
				}
				if m.priority[id] != slices.Contains(b.priority, id) {
					return fmt.Errorf("%s priority index out of step", id)
				}
			}
			for _, id := range b.priority {
				if !slices.Contains(b.all, id) {
					return fmt.Errorf("%s in priority index only", id)
				}
			}
		}
	}
	for id, t := range m.tasks {
		if t.Activity != activity.Idle && !seen[id] {
			return fmt.Errorf("%s of %s not bucketed", id, t.Activity)
		}
	}

	return nil
}
