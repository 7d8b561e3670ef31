package turnqueue

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/pixil98/go-colony/internal/game"
)

// Side identifies which sub-queue of a slot an actor waits in.
type Side int

const (
	SidePlayer Side = iota
	SideNPC
)

func (s Side) String() string {
	switch s {
	case SidePlayer:
		return "player"
	case SideNPC:
		return "npc"
	default:
		return fmt.Sprintf("side(%d)", int(s))
	}
}

// Slot is an extended time-slot. Extra slots hold bonus turns and sort
// after the regular slot of the same time.
type Slot struct {
	Time  game.Time `json:"time"`
	Extra bool      `json:"extra,omitempty"`
}

// Compare orders slots by time, then regular before extra.
func (s Slot) Compare(o Slot) int {
	if c := cmp.Compare(s.Time, o.Time); c != 0 {
		return c
	}
	switch {
	case s.Extra == o.Extra:
		return 0
	case o.Extra:
		return -1
	default:
		return 1
	}
}

func (s Slot) String() string {
	if s.Extra {
		return fmt.Sprintf("t%d+", s.Time)
	}
	return fmt.Sprintf("t%d", s.Time)
}

// slotQueue holds the actors waiting in one slot.
type slotQueue struct {
	players    []game.ActorID
	nonPlayers []game.ActorID
}

func (q *slotQueue) sub(side Side) *[]game.ActorID {
	if side == SidePlayer {
		return &q.players
	}
	return &q.nonPlayers
}

func (q *slotQueue) empty() bool {
	return len(q.players) == 0 && len(q.nonPlayers) == 0
}

func (q *slotQueue) front() (game.ActorID, bool) {
	if len(q.players) > 0 {
		return q.players[0], true
	}
	if len(q.nonPlayers) > 0 {
		return q.nonPlayers[0], true
	}
	return 0, false
}

func (q *slotQueue) remove(side Side, id game.ActorID) bool {
	s := q.sub(side)
	i := slices.Index(*s, id)
	if i < 0 {
		return false
	}
	*s = slices.Delete(*s, i, i+1)
	return true
}

func (q *slotQueue) indexOf(side Side, id game.ActorID) int {
	return slices.Index(*q.sub(side), id)
}
