package taskmap

import (
	"fmt"

	"github.com/pixil98/go-colony/internal/activity"
	"github.com/pixil98/go-colony/internal/game"
)

// TaskID identifies a task. IDs are handed out by the TaskMap and never reused.
type TaskID uint64

func (id TaskID) String() string {
	return fmt.Sprintf("task-%d", uint64(id))
}

// Kind is the closed set of work a task can represent. The driver performs a
// task by switching on its Kind.
type Kind int

const (
	KindDig Kind = iota
	KindBuild
	KindHaul
	KindCraft
	KindApply
	KindGuard
	KindExplore
	KindTrain

	numKinds
)

var kindNames = [numKinds]string{
	KindDig:     "dig",
	KindBuild:   "build",
	KindHaul:    "haul",
	KindCraft:   "craft",
	KindApply:   "apply",
	KindGuard:   "guard",
	KindExplore: "explore",
	KindTrain:   "train",
}

var kindWork = [numKinds]int{
	KindDig:     5,
	KindBuild:   4,
	KindHaul:    1,
	KindCraft:   3,
	KindApply:   1,
	KindGuard:   3,
	KindExplore: 1,
	KindTrain:   2,
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k >= 0 && k < numKinds
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// DefaultWork is the number of work units a task of this kind takes when
// none is given.
func (k Kind) DefaultWork() int {
	if !k.Valid() {
		return 1
	}
	return kindWork[k]
}

// ParseKind returns the kind with the given name.
func ParseKind(s string) (Kind, error) {
	for k, n := range kindNames {
		if n == s {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}
	return []byte(kindNames[k]), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Cost is the resource a task consumes when it completes. It goes back to
// the caller when the task is cancelled instead.
type Cost struct {
	Resource string `json:"resource,omitempty"`
	Amount   int    `json:"amount,omitempty"`
}

// IsZero reports whether the cost holds nothing.
func (c Cost) IsZero() bool {
	return c.Amount == 0
}

// Task is a unit of assignable work. Where a task sits and who owns it are
// kept by the TaskMap, not on the task.
type Task struct {
	ID   TaskID `json:"id"`
	Kind Kind   `json:"kind"`

	// Activity buckets the task for lookup. Idle leaves it unbucketed.
	Activity activity.Activity `json:"activity"`

	// Transferable tasks may be taken over by a closer actor and survive
	// their owner letting go of them.
	Transferable bool `json:"transferable,omitempty"`

	// Storage is the drop zone kind hauled goods are bound for.
	Storage game.StorageID `json:"storage,omitempty"`

	Cost Cost `json:"cost,omitzero"`

	// Work is the number of work units left.
	Work int `json:"work"`

	Done      bool `json:"done,omitempty"`
	Cancelled bool `json:"cancelled,omitempty"`
}

// At is shorthand for placing a task at x, y.
func At(x, y int) *game.Position {
	return &game.Position{X: x, Y: y}
}
