package game

import (
	"fmt"
	"slices"
	"sync"
)

// Terrain is the kind of ground occupying a cell.
type Terrain uint8

const (
	TerrainFloor Terrain = iota
	TerrainWall
	TerrainWater
	TerrainChasm
)

// Passable reports whether an actor with the given movement can stand on t.
func (t Terrain) Passable(m Movement) bool {
	switch t {
	case TerrainFloor:
		return m.Has(MoveWalk) || m.Has(MoveFly)
	case TerrainWater:
		return m.Has(MoveSwim) || m.Has(MoveFly)
	case TerrainChasm:
		return m.Has(MoveFly)
	default:
		return false
	}
}

// WorldState is the single source of truth for the grid, its features and
// the actors standing on it. It answers the reachability and distance
// queries the scheduling core consumes.
type WorldState struct {
	mu sync.RWMutex

	width, height int
	terrain       []Terrain
	features      map[Position]FeatureType

	actors map[ActorID]*Actor
	order  []ActorID

	stockpile map[string]int
}

// NewWorldState creates an all-floor world of the given size.
func NewWorldState(width, height int) *WorldState {
	return &WorldState{
		width:     width,
		height:    height,
		terrain:   make([]Terrain, width*height),
		features:  make(map[Position]FeatureType),
		actors:    make(map[ActorID]*Actor),
		stockpile: make(map[string]int),
	}
}

// Size returns the world's width and height.
func (w *WorldState) Size() (int, int) {
	return w.width, w.height
}

func (w *WorldState) inBounds(p Position) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < w.width && p.Y < w.height
}

func (w *WorldState) terrainAt(p Position) Terrain {
	if !w.inBounds(p) {
		return TerrainWall
	}
	return w.terrain[p.Y*w.width+p.X]
}

// Terrain returns the terrain at p. Cells outside the world are walls.
func (w *WorldState) Terrain(p Position) Terrain {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.terrainAt(p)
}

// SetTerrain changes the terrain at p.
func (w *WorldState) SetTerrain(p Position, t Terrain) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.inBounds(p) {
		return fmt.Errorf("setting terrain at %s: %w", p, ErrOutOfBounds)
	}
	w.terrain[p.Y*w.width+p.X] = t
	return nil
}

// AddFeature places a feature at p, replacing any previous one.
func (w *WorldState) AddFeature(p Position, f FeatureType) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.inBounds(p) {
		return fmt.Errorf("adding %s at %s: %w", f, p, ErrOutOfBounds)
	}
	w.features[p] = f
	return nil
}

// FeatureAt returns the feature at p, if any.
func (w *WorldState) FeatureAt(p Position) (FeatureType, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	f, ok := w.features[p]
	return f, ok
}

// FeaturesOf returns the positions of every feature of the given types,
// ordered row by row.
func (w *WorldState) FeaturesOf(types ...FeatureType) []Position {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var out []Position
	for p, f := range w.features {
		if slices.Contains(types, f) {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b Position) int {
		if a.Less(b) {
			return -1
		}
		if b.Less(a) {
			return 1
		}
		return 0
	})
	return out
}

// AddActor places an actor in the world.
func (w *WorldState) AddActor(a *Actor) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.actors[a.Id]; exists {
		return ErrActorExists
	}
	w.actors[a.Id] = a
	w.order = append(w.order, a.Id)
	return nil
}

// RemoveActor takes an actor out of the world.
func (w *WorldState) RemoveActor(id ActorID) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.actors[id]; !exists {
		return ErrActorNotFound
	}
	delete(w.actors, id)
	w.order = slices.DeleteFunc(w.order, func(other ActorID) bool { return other == id })
	return nil
}

// GetActor returns the actor, or nil if it is not in the world.
func (w *WorldState) GetActor(id ActorID) *Actor {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.actors[id]
}

// Actors returns every actor in the order they were added.
func (w *WorldState) Actors() []*Actor {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]*Actor, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.actors[id])
	}
	return out
}

// ForEachActor calls fn for each actor in the order they were added.
func (w *WorldState) ForEachActor(fn func(ActorID, Movement)) {
	for _, a := range w.Actors() {
		fn(a.Id, a.Moves)
	}
}

// Carrying returns the storage kind of goods the actor is holding.
func (w *WorldState) Carrying(id ActorID) (StorageID, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	a, ok := w.actors[id]
	if !ok || a.Carrying == "" {
		return "", false
	}
	return a.Carrying, true
}

// Deposit adds resources to the shared stockpile.
func (w *WorldState) Deposit(resource string, amount int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stockpile[resource] += amount
}

// Withdraw removes resources from the stockpile. It reports false and
// leaves the stockpile untouched if there are not enough.
func (w *WorldState) Withdraw(resource string, amount int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stockpile[resource] < amount {
		return false
	}
	w.stockpile[resource] -= amount
	return true
}

// Stockpile returns a copy of the stockpile.
func (w *WorldState) Stockpile() map[string]int {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make(map[string]int, len(w.stockpile))
	for k, v := range w.stockpile {
		out[k] = v
	}
	return out
}

// SetStockpile replaces the stockpile with a copy of s.
func (w *WorldState) SetStockpile(s map[string]int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.stockpile = make(map[string]int, len(s))
	for k, v := range s {
		w.stockpile[k] = v
	}
}
