// Package turnqueue decides which actor acts next. Actors wait in extended
// time-slots; within a slot player actors go before non-player actors and
// ties break by registration order.
//
// A Queue is not safe for concurrent use.
package turnqueue

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/pixil98/go-colony/internal/game"
)

type placement int

const (
	placeByRegistration placement = iota
	placeFront
	placeBack
)

// Queue holds every active actor and produces the next one to act.
type Queue struct {
	slots  []Slot
	queues map[Slot]*slotQueue

	orderMap map[game.ActorID]Slot
	sides    map[game.ActorID]Side
	seq      map[game.ActorID]uint64
	nextSeq  uint64

	pendingExtra map[game.ActorID]bool
}

// New creates an empty Queue.
func New() *Queue {
	return &Queue{
		queues:       make(map[Slot]*slotQueue),
		orderMap:     make(map[game.ActorID]Slot),
		sides:        make(map[game.ActorID]Side),
		seq:          make(map[game.ActorID]uint64),
		pendingExtra: make(map[game.ActorID]bool),
	}
}

// Len returns the number of registered actors.
func (q *Queue) Len() int {
	return len(q.orderMap)
}

// Contains reports whether the actor is registered.
func (q *Queue) Contains(id game.ActorID) bool {
	_, ok := q.orderMap[id]
	return ok
}

// TimeOf returns the time of the slot the actor waits in.
func (q *Queue) TimeOf(id game.ActorID) (game.Time, bool) {
	s, ok := q.orderMap[id]
	return s.Time, ok
}

// SlotOf returns the slot the actor waits in.
func (q *Queue) SlotOf(id game.ActorID) (Slot, bool) {
	s, ok := q.orderMap[id]
	return s, ok
}

// SideOf returns the sub-queue the actor waits in.
func (q *Queue) SideOf(id game.ActorID) (Side, bool) {
	s, ok := q.sides[id]
	return s, ok
}

// Register schedules a new actor at start. Registering an actor twice is a
// programming error and panics.
func (q *Queue) Register(id game.ActorID, side Side, start game.Time) {
	if q.Contains(id) {
		panic(fmt.Sprintf("turnqueue: %s registered twice", id))
	}
	q.seq[id] = q.nextSeq
	q.nextSeq++
	q.sides[id] = side
	q.insert(id, Slot{Time: start}, placeByRegistration)
}

// Remove purges the actor from the queue. It is safe to call for an actor
// that is mid-turn or not registered at all.
func (q *Queue) Remove(id game.ActorID) {
	if !q.Contains(id) {
		return
	}
	q.detach(id)
	delete(q.sides, id)
	delete(q.seq, id)
	delete(q.pendingExtra, id)
}

// NextActor returns the actor in the earliest slot not after maxTime,
// players first, then by place in the slot. It does not advance time.
func (q *Queue) NextActor(maxTime game.Time) (game.ActorID, bool) {
	if len(q.slots) == 0 {
		return 0, false
	}
	first := q.slots[0]
	if first.Time > maxTime {
		return 0, false
	}
	return q.queues[first].front()
}

// IncreaseTime moves the actor to its current time plus interval. If an
// extra turn was granted, the actor instead moves to the extra slot of its
// current time and the grant is consumed. Calling it for an actor that is not
// registered, or with a non-positive interval, panics.
func (q *Queue) IncreaseTime(id game.ActorID, interval game.Interval) {
	cur, ok := q.orderMap[id]
	if !ok {
		panic(fmt.Sprintf("turnqueue: increasing time of unregistered %s", id))
	}
	if interval <= 0 {
		panic(fmt.Sprintf("turnqueue: non-positive interval %d for %s", interval, id))
	}

	target := Slot{Time: cur.Time.Add(interval)}
	if q.pendingExtra[id] {
		delete(q.pendingExtra, id)
		target = Slot{Time: cur.Time, Extra: true}
	}

	q.detach(id)
	q.insert(id, target, placeByRegistration)
}

// GrantExtraTurn gives the actor a bonus turn before its next regular one.
// It reports false if the actor is not registered.
func (q *Queue) GrantExtraTurn(id game.ActorID) bool {
	if !q.Contains(id) {
		return false
	}
	q.pendingExtra[id] = true
	return true
}

// HasExtraTurn reports whether a granted extra turn is still pending.
func (q *Queue) HasExtraTurn(id game.ActorID) bool {
	return q.pendingExtra[id]
}

// Postpone moves the actor behind every peer of its side in its current
// slot without changing its time.
func (q *Queue) Postpone(id game.ActorID) bool {
	s, ok := q.orderMap[id]
	if !ok {
		return false
	}
	q.detach(id)
	q.insert(id, s, placeBack)
	return true
}

// MoveNow puts the actor at the front of its side in the earliest slot so it
// acts before anyone else of its side.
func (q *Queue) MoveNow(id game.ActorID) bool {
	cur, ok := q.orderMap[id]
	if !ok {
		return false
	}
	q.detach(id)

	target := cur
	if len(q.slots) > 0 && q.slots[0].Compare(cur) < 0 {
		target = q.slots[0]
	}
	q.insert(id, target, placeFront)
	return true
}

// SetSide moves the actor to the other sub-queue of the same slot, for
// example when it comes under player control.
func (q *Queue) SetSide(id game.ActorID, side Side) bool {
	s, ok := q.orderMap[id]
	if !ok {
		return false
	}
	if q.sides[id] == side {
		return true
	}
	q.detach(id)
	q.sides[id] = side
	q.insert(id, s, placeByRegistration)
	return true
}

// WillActThisSlot reports whether the actor is scheduled to act no later
// than now.
func (q *Queue) WillActThisSlot(id game.ActorID, now game.Time) bool {
	s, ok := q.orderMap[id]
	return ok && s.Time <= now
}

// CompareOrder orders two actors exactly as NextActor would emit them.
// Unregistered actors sort after registered ones.
func (q *Queue) CompareOrder(a, b game.ActorID) int {
	sa, okA := q.orderMap[a]
	sb, okB := q.orderMap[b]
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return 1
	case !okB:
		return -1
	}

	if c := sa.Compare(sb); c != 0 {
		return c
	}
	if c := cmp.Compare(q.sides[a], q.sides[b]); c != 0 {
		return c
	}
	sq := q.queues[sa]
	return cmp.Compare(sq.indexOf(q.sides[a], a), sq.indexOf(q.sides[b], b))
}

// Actors returns every registered actor in acting order.
func (q *Queue) Actors() []game.ActorID {
	out := make([]game.ActorID, 0, len(q.orderMap))
	for _, s := range q.slots {
		sq := q.queues[s]
		out = append(out, sq.players...)
		out = append(out, sq.nonPlayers...)
	}
	return out
}

// CheckConsistency verifies the slot queues and the actor index agree.
func (q *Queue) CheckConsistency() error {
	total := 0
	for i, s := range q.slots {
		if i > 0 && q.slots[i-1].Compare(s) >= 0 {
			return fmt.Errorf("slots out of order at %s", s)
		}
		sq, ok := q.queues[s]
		if !ok || sq.empty() {
			return fmt.Errorf("slot %s listed without actors", s)
		}
		for _, side := range []Side{SidePlayer, SideNPC} {
			for _, id := range *sq.sub(side) {
				if q.orderMap[id] != s {
					return fmt.Errorf("%s waits in %s but is indexed at %s", id, s, q.orderMap[id])
				}
				if q.sides[id] != side {
					return fmt.Errorf("%s waits as %s but is indexed as %s", id, side, q.sides[id])
				}
			}
			total += len(*sq.sub(side))
		}
	}
	if len(q.queues) != len(q.slots) {
		return fmt.Errorf("%d slot queues for %d slots", len(q.queues), len(q.slots))
	}
	if total != len(q.orderMap) {
		return fmt.Errorf("%d actors queued but %d indexed", total, len(q.orderMap))
	}
	return nil
}

func (q *Queue) detach(id game.ActorID) {
	s := q.orderMap[id]
	sq := q.queues[s]
	if sq == nil || !sq.remove(q.sides[id], id) {
		panic(fmt.Sprintf("turnqueue: %s indexed at %s but not queued there", id, s))
	}
	delete(q.orderMap, id)
	if sq.empty() {
		delete(q.queues, s)
		i, _ := slices.BinarySearchFunc(q.slots, s, Slot.Compare)
		q.slots = slices.Delete(q.slots, i, i+1)
	}
}

func (q *Queue) insert(id game.ActorID, s Slot, where placement) {
	sq, ok := q.queues[s]
	if !ok {
		sq = &slotQueue{}
		q.queues[s] = sq
		i, _ := slices.BinarySearchFunc(q.slots, s, Slot.Compare)
		q.slots = slices.Insert(q.slots, i, s)
	}

	sub := sq.sub(q.sides[id])
	switch where {
	case placeFront:
		*sub = slices.Insert(*sub, 0, id)
	case placeBack:
		*sub = append(*sub, id)
	default:
		mine := q.seq[id]
		i := slices.IndexFunc(*sub, func(other game.ActorID) bool { return q.seq[other] > mine })
		if i < 0 {
			i = len(*sub)
		}
		*sub = slices.Insert(*sub, i, id)
	}
	q.orderMap[id] = s
}
