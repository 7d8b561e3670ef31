package activity

import (
	"slices"

	"github.com/pixil98/go-colony/internal/game"
)

type lockKey struct {
	actor    game.ActorID
	activity Activity
}

// LockSet records which activities each actor is forbidden from being
// assigned automatically. The zero value is not usable; use NewLockSet.
type LockSet struct {
	locked map[lockKey]struct{}
}

func NewLockSet() *LockSet {
	return &LockSet{locked: make(map[lockKey]struct{})}
}

func (l *LockSet) Lock(actor game.ActorID, a Activity) {
	l.locked[lockKey{actor, a}] = struct{}{}
}

func (l *LockSet) Unlock(actor game.ActorID, a Activity) {
	delete(l.locked, lockKey{actor, a})
}

// IsLocked is safe to call on a nil LockSet.
func (l *LockSet) IsLocked(actor game.ActorID, a Activity) bool {
	if l == nil {
		return false
	}
	_, ok := l.locked[lockKey{actor, a}]
	return ok
}

// Toggle flips the lock and returns the new state.
func (l *LockSet) Toggle(actor game.ActorID, a Activity) bool {
	if l.IsLocked(actor, a) {
		l.Unlock(actor, a)
		return false
	}
	l.Lock(actor, a)
	return true
}

// Clear drops every lock held for the actor.
func (l *LockSet) Clear(actor game.ActorID) {
	for k := range l.locked {
		if k.actor == actor {
			delete(l.locked, k)
		}
	}
}

// Locked returns the actor's locked activities in declaration order.
func (l *LockSet) Locked(actor game.ActorID) []Activity {
	var out []Activity
	for k := range l.locked {
		if k.actor == actor {
			out = append(out, k.activity)
		}
	}
	slices.Sort(out)
	return out
}
