package game

import (
	"fmt"
	"strings"
)

// ActorID is the stable identifier of an actor. It never changes for the
// lifetime of the actor and is never reused.
type ActorID uint64

func (id ActorID) String() string {
	return fmt.Sprintf("actor-%d", uint64(id))
}

// Time is an actor's local simulation time, counted in turns.
type Time int64

// Interval is a span of simulation time.
type Interval int64

// Add returns t advanced by i.
func (t Time) Add(i Interval) Time {
	return t + Time(i)
}

// Position is a cell on the world grid.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Dist8 returns the chessboard distance between two positions.
func (p Position) Dist8(o Position) int {
	dx, dy := p.X-o.X, p.Y-o.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return max(dx, dy)
}

// Neighbors returns the eight surrounding positions in a fixed order.
func (p Position) Neighbors() []Position {
	return []Position{
		{p.X - 1, p.Y - 1}, {p.X, p.Y - 1}, {p.X + 1, p.Y - 1},
		{p.X - 1, p.Y}, {p.X + 1, p.Y},
		{p.X - 1, p.Y + 1}, {p.X, p.Y + 1}, {p.X + 1, p.Y + 1},
	}
}

// Less orders positions row by row.
func (p Position) Less(o Position) bool {
	if p.Y != o.Y {
		return p.Y < o.Y
	}
	return p.X < o.X
}

// Movement is the set of terrain kinds an actor can traverse.
type Movement uint8

const (
	MoveWalk Movement = 1 << iota
	MoveSwim
	MoveFly
)

// Has reports whether every capability in o is present in m.
func (m Movement) Has(o Movement) bool {
	return m&o == o
}

func (m Movement) String() string {
	var parts []string
	if m.Has(MoveWalk) {
		parts = append(parts, "walk")
	}
	if m.Has(MoveSwim) {
		parts = append(parts, "swim")
	}
	if m.Has(MoveFly) {
		parts = append(parts, "fly")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "+")
}

func (m *Movement) UnmarshalText(text []byte) error {
	var out Movement
	for _, part := range strings.Split(string(text), "+") {
		switch strings.TrimSpace(part) {
		case "walk":
			out |= MoveWalk
		case "swim":
			out |= MoveSwim
		case "fly":
			out |= MoveFly
		case "none", "":
		default:
			return fmt.Errorf("unknown movement: %s", part)
		}
	}
	*m = out
	return nil
}

func (m Movement) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// StorageID names a kind of storage zone that hauled goods are destined for.
type StorageID string

// FeatureType names a kind of world feature (furniture) that can host activities.
type FeatureType string

const (
	FeatureBed           FeatureType = "bed"
	FeatureTrainingDummy FeatureType = "training_dummy"
	FeatureWorkshop      FeatureType = "workshop"
	FeatureForge         FeatureType = "forge"
	FeatureLaboratory    FeatureType = "laboratory"
	FeatureLibrary       FeatureType = "library"
	FeatureAltar         FeatureType = "altar"
	FeatureTable         FeatureType = "table"
	FeatureThrone        FeatureType = "throne"
)
