package game

// search runs a breadth-first search from start to goal over cells passable
// for m. The goal itself does not need to be passable, so walls and other
// solid targets are reached by standing next to them. It returns the path
// excluding start, or false when the goal cannot be reached.
func (w *WorldState) search(start, goal Position, m Movement) ([]Position, bool) {
	if start == goal {
		return nil, true
	}
	if !w.inBounds(goal) {
		return nil, false
	}

	prev := map[Position]Position{start: start}
	frontier := []Position{start}
	for len(frontier) > 0 {
		cur := frontier[0]
		frontier = frontier[1:]

		for _, n := range cur.Neighbors() {
			if _, seen := prev[n]; seen {
				continue
			}
			if n == goal {
				prev[n] = cur
				return unwind(prev, start, goal), true
			}
			if !w.terrainAt(n).Passable(m) {
				continue
			}
			prev[n] = cur
			frontier = append(frontier, n)
		}
	}
	return nil, false
}

func unwind(prev map[Position]Position, start, goal Position) []Position {
	var path []Position
	for p := goal; p != start; p = prev[p] {
		path = append(path, p)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// CanReach reports whether the actor could get to pos using movement m.
func (w *WorldState) CanReach(id ActorID, pos Position, m Movement) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	a, ok := w.actors[id]
	if !ok {
		return false
	}
	_, ok = w.search(a.Pos, pos, m)
	return ok
}

// Distance returns the path length from the actor to pos using the actor's
// own movement, or false when pos is unreachable.
func (w *WorldState) Distance(id ActorID, pos Position) (int, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	a, ok := w.actors[id]
	if !ok {
		return 0, false
	}
	path, ok := w.search(a.Pos, pos, a.Moves)
	if !ok {
		return 0, false
	}
	return len(path), true
}

// StepToward moves the actor one cell along the shortest path to pos. It
// reports false when the actor did not move, either because it is already
// at (or next to a solid) pos or because pos is unreachable.
func (w *WorldState) StepToward(id ActorID, pos Position) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	a, ok := w.actors[id]
	if !ok {
		return false
	}
	path, ok := w.search(a.Pos, pos, a.Moves)
	if !ok || len(path) == 0 {
		return false
	}
	next := path[0]
	if !w.terrainAt(next).Passable(a.Moves) {
		return false
	}
	a.Pos = next
	return true
}

// InReach reports whether the actor stands on pos, or next to it when pos
// cannot be stood on.
func (w *WorldState) InReach(id ActorID, pos Position) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	a, ok := w.actors[id]
	if !ok {
		return false
	}
	if a.Pos == pos {
		return true
	}
	return !w.terrainAt(pos).Passable(a.Moves) && a.Pos.Dist8(pos) <= 1
}
