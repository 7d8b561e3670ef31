package turnqueue

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/pixil98/go-colony/internal/game"
	"github.com/pixil98/go-errors"
)

// SlotState is the persisted form of one slot.
type SlotState struct {
	Slot
	Players    []game.ActorID `json:"players,omitempty"`
	NonPlayers []game.ActorID `json:"non_players,omitempty"`
}

// State is the persisted form of a Queue. Restoring it reproduces the same
// acting order.
type State struct {
	Slots []SlotState `json:"slots"`

	// Registration lists every actor in registration order.
	Registration []game.ActorID `json:"registration"`

	PendingExtra []game.ActorID `json:"pending_extra,omitempty"`
}

// State captures the queue for persistence.
func (q *Queue) State() State {
	st := State{}
	for _, s := range q.slots {
		sq := q.queues[s]
		st.Slots = append(st.Slots, SlotState{
			Slot:       s,
			Players:    slices.Clone(sq.players),
			NonPlayers: slices.Clone(sq.nonPlayers),
		})
	}

	st.Registration = make([]game.ActorID, 0, len(q.seq))
	for id := range q.seq {
		st.Registration = append(st.Registration, id)
	}
	slices.SortFunc(st.Registration, func(a, b game.ActorID) int {
		return cmp.Compare(q.seq[a], q.seq[b])
	})

	for id := range q.pendingExtra {
		st.PendingExtra = append(st.PendingExtra, id)
	}
	slices.Sort(st.PendingExtra)

	return st
}

// Restore replaces the queue's contents with st.
func (q *Queue) Restore(st State) error {
	fresh := New()
	el := errors.NewErrorList()

	for i, id := range st.Registration {
		if _, dup := fresh.seq[id]; dup {
			el.Add(fmt.Errorf("%s registered twice", id))
			continue
		}
		fresh.seq[id] = uint64(i)
	}
	fresh.nextSeq = uint64(len(st.Registration))

	for i, ss := range st.Slots {
		if i > 0 && st.Slots[i-1].Slot.Compare(ss.Slot) >= 0 {
			el.Add(fmt.Errorf("slot %s out of order", ss.Slot))
			continue
		}
		if len(ss.Players) == 0 && len(ss.NonPlayers) == 0 {
			el.Add(fmt.Errorf("slot %s is empty", ss.Slot))
			continue
		}
		sq := &slotQueue{}
		for _, part := range []struct {
			side Side
			ids  []game.ActorID
		}{{SidePlayer, ss.Players}, {SideNPC, ss.NonPlayers}} {
			for _, id := range part.ids {
				if _, ok := fresh.seq[id]; !ok {
					el.Add(fmt.Errorf("%s queued in %s but never registered", id, ss.Slot))
					continue
				}
				if _, dup := fresh.orderMap[id]; dup {
					el.Add(fmt.Errorf("%s queued twice", id))
					continue
				}
				fresh.orderMap[id] = ss.Slot
				fresh.sides[id] = part.side
				*sq.sub(part.side) = append(*sq.sub(part.side), id)
			}
		}
		fresh.slots = append(fresh.slots, ss.Slot)
		fresh.queues[ss.Slot] = sq
	}

	if len(fresh.orderMap) != len(fresh.seq) {
		el.Add(fmt.Errorf("%d actors registered but %d queued", len(fresh.seq), len(fresh.orderMap)))
	}

	for _, id := range st.PendingExtra {
		if _, ok := fresh.orderMap[id]; !ok {
			el.Add(fmt.Errorf("extra turn pending for unknown %s", id))
			continue
		}
		fresh.pendingExtra[id] = true
	}

	if err := el.Err(); err != nil {
		return fmt.Errorf("restoring turn queue: %w", err)
	}

	*q = *fresh
	return nil
}
