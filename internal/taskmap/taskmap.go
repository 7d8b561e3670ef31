// Package taskmap owns every outstanding task. It indexes tasks by id,
// position, activity and owner, and finds actors the best task to work on.
//
// The TaskMap is the only writer of task ownership and task placement.
// Misuse that would corrupt those indices, like giving a task a second
// owner, panics. A TaskMap is not safe for concurrent use.
package taskmap

import (
	"fmt"
	"slices"

	"github.com/pixil98/go-colony/internal/activity"
	"github.com/pixil98/go-colony/internal/game"
)

const (
	DefaultTransferRadius = 4
	DefaultFreeTaskDelay  = game.Interval(20)
)

type lockKey struct {
	actor game.ActorID
	task  TaskID
}

type TaskMap struct {
	transferRadius int
	freeTaskDelay  game.Interval

	nextID TaskID
	tasks  map[TaskID]*Task

	positions map[TaskID]game.Position
	byPos     map[game.Position][]TaskID

	// Tasks no actor can currently perform live in hidden until Tick finds
	// them performable again.
	searchable index
	hidden     index
	isHidden   map[TaskID]bool
	priority   map[TaskID]bool

	owners map[TaskID]game.ActorID
	owned  map[game.ActorID]TaskID

	delayed    map[TaskID]game.Time
	locks      map[lockKey]struct{}
	highlights map[game.Position]Highlight
}

func New(opts ...TaskMapOpt) *TaskMap {
	m := &TaskMap{
		transferRadius: DefaultTransferRadius,
		freeTaskDelay:  DefaultFreeTaskDelay,
		tasks:          make(map[TaskID]*Task),
		positions:      make(map[TaskID]game.Position),
		byPos:          make(map[game.Position][]TaskID),
		searchable:     make(index),
		hidden:         make(index),
		isHidden:       make(map[TaskID]bool),
		priority:       make(map[TaskID]bool),
		owners:         make(map[TaskID]game.ActorID),
		owned:          make(map[game.ActorID]TaskID),
		delayed:        make(map[TaskID]game.Time),
		locks:          make(map[lockKey]struct{}),
		highlights:     make(map[game.Position]Highlight),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// TransferRadius returns the configured transfer radius.
func (m *TaskMap) TransferRadius() int {
	return m.transferRadius
}

// FreeTaskDelay returns the configured release cooldown.
func (m *TaskMap) FreeTaskDelay() game.Interval {
	return m.freeTaskDelay
}

// AddTask registers a new task at pos, or nowhere when pos is nil. A zero
// t.ID is replaced with a fresh one. The id the task was stored under is
// returned.
func (m *TaskMap) AddTask(t Task, pos *game.Position) TaskID {
	if t.ID != 0 {
		m.mustBeNew(t.ID)
	}
	return m.add(t, pos)
}

// AddTaskFor registers a new task and gives it to actor in one step. It
// panics if the actor already owns a task.
func (m *TaskMap) AddTaskFor(t Task, pos *game.Position, actor game.ActorID) TaskID {
	if cur, ok := m.owned[actor]; ok {
		panic(fmt.Sprintf("taskmap: %s already owns %s", actor, cur))
	}
	if t.ID != 0 {
		m.mustBeNew(t.ID)
	}
	id := m.add(t, pos)
	m.assign(actor, id)
	return id
}

func (m *TaskMap) mustBeNew(id TaskID) {
	if _, exists := m.tasks[id]; exists {
		panic(fmt.Sprintf("taskmap: %s added twice", id))
	}
}

func (m *TaskMap) add(t Task, pos *game.Position) TaskID {
	if t.ID == 0 {
		m.nextID++
		t.ID = m.nextID
	} else if t.ID > m.nextID {
		m.nextID = t.ID
	}
	if t.Work <= 0 && !t.Done {
		t.Work = t.Kind.DefaultWork()
	}

	task := t
	m.tasks[t.ID] = &task
	if pos != nil {
		m.place(t.ID, *pos)
	}
	if t.Activity != activity.Idle {
		m.searchable.get(t.Activity).add(t.ID, false)
	}
	return t.ID
}

// Assign gives an unowned task to actor. It panics if the task is unknown,
// already owned, or if the actor owns another task.
func (m *TaskMap) Assign(actor game.ActorID, id TaskID) {
	if _, ok := m.tasks[id]; !ok {
		panic(fmt.Sprintf("taskmap: assigning unknown %s", id))
	}
	if owner, ok := m.owners[id]; ok {
		panic(fmt.Sprintf("taskmap: %s already owned by %s", id, owner))
	}
	if cur, ok := m.owned[actor]; ok {
		panic(fmt.Sprintf("taskmap: %s already owns %s", actor, cur))
	}
	m.assign(actor, id)
}

// TakeTask gives the task to actor, taking it away from its current owner
// when there is one. It returns the previous owner. Taking over a task that
// is not transferable, or taking a task while owning another, panics.
func (m *TaskMap) TakeTask(actor game.ActorID, id TaskID) (game.ActorID, bool) {
	t, ok := m.tasks[id]
	if !ok {
		panic(fmt.Sprintf("taskmap: taking unknown %s", id))
	}
	if cur, ok := m.owned[actor]; ok && cur != id {
		panic(fmt.Sprintf("taskmap: %s already owns %s", actor, cur))
	}

	prev, owned := m.owners[id]
	if owned && prev == actor {
		return 0, false
	}
	if owned {
		if !t.Transferable {
			panic(fmt.Sprintf("taskmap: %s owned by %s is not transferable", id, prev))
		}
		m.unassign(id)
	}
	m.assign(actor, id)
	return prev, owned
}

func (m *TaskMap) assign(actor game.ActorID, id TaskID) {
	m.owners[id] = actor
	m.owned[actor] = id
	delete(m.delayed, id)
}

func (m *TaskMap) unassign(id TaskID) {
	actor, ok := m.owners[id]
	if !ok {
		return
	}
	if m.owned[actor] != id {
		panic(fmt.Sprintf("taskmap: %s owned by %s but %s owns %s", id, actor, actor, m.owned[actor]))
	}
	delete(m.owners, id)
	delete(m.owned, actor)
}

// RemoveTask cancels the task unless it already finished and drops it from
// every index. The task's cost is returned when it was never consumed. It is
// safe to call at any point in the task's life, including while its owner
// is working on it.
func (m *TaskMap) RemoveTask(id TaskID) (Cost, bool) {
	t, ok := m.tasks[id]
	if !ok {
		return Cost{}, false
	}

	var refund Cost
	if !t.Done {
		t.Cancelled = true
		refund = t.Cost
	}

	m.unassign(id)
	m.unplace(id)
	if t.Activity != activity.Idle {
		m.indexOf(id).remove(t.Activity, id)
	}
	for k := range m.locks {
		if k.task == id {
			delete(m.locks, k)
		}
	}
	delete(m.isHidden, id)
	delete(m.priority, id)
	delete(m.delayed, id)
	delete(m.tasks, id)

	return refund, true
}

// FreeFromTask releases actor from its task. Tasks nobody else could pick
// up are removed and their cost returned. The rest stay, hidden from
// assignment until the release cooldown counted from now has passed.
func (m *TaskMap) FreeFromTask(actor game.ActorID, now game.Time) Cost {
	id, ok := m.owned[actor]
	if !ok {
		return Cost{}
	}
	t := m.tasks[id]
	m.unassign(id)

	if !m.resumable(t) {
		refund, _ := m.RemoveTask(id)
		return refund
	}
	m.delayed[id] = now.Add(m.freeTaskDelay)
	return Cost{}
}

func (m *TaskMap) resumable(t *Task) bool {
	if t.Done || !t.Transferable || t.Activity == activity.Idle {
		return false
	}
	_, placed := m.positions[t.ID]
	return placed
}

// Progress applies work to the task and reports whether that finished it.
func (m *TaskMap) Progress(id TaskID, amount int) bool {
	t, ok := m.tasks[id]
	if !ok || t.Done {
		return false
	}
	t.Work -= amount
	if t.Work > 0 {
		return false
	}
	m.MarkDone(id)
	return true
}

// MarkDone flags the task as finished and frees its owner. The task stays
// indexed until the next Tick sweeps it.
func (m *TaskMap) MarkDone(id TaskID) bool {
	t, ok := m.tasks[id]
	if !ok {
		return false
	}
	t.Work = 0
	t.Done = true
	m.unassign(id)
	return true
}

// SetPosition moves the task to pos, or takes it off the grid when pos is nil.
func (m *TaskMap) SetPosition(id TaskID, pos *game.Position) bool {
	if _, ok := m.tasks[id]; !ok {
		return false
	}
	m.unplace(id)
	if pos != nil {
		m.place(id, *pos)
	}
	return true
}

func (m *TaskMap) place(id TaskID, pos game.Position) {
	m.positions[id] = pos
	m.byPos[pos] = append(m.byPos[pos], id)
}

func (m *TaskMap) unplace(id TaskID) {
	pos, ok := m.positions[id]
	if !ok {
		return
	}
	delete(m.positions, id)
	ids := slices.DeleteFunc(m.byPos[pos], func(other TaskID) bool { return other == id })
	if len(ids) == 0 {
		delete(m.byPos, pos)
		return
	}
	m.byPos[pos] = ids
}

// SetPriority adds or removes the task from the priority indices.
func (m *TaskMap) SetPriority(id TaskID, on bool) bool {
	t, ok := m.tasks[id]
	if !ok {
		return false
	}
	if m.priority[id] == on {
		return true
	}
	if on {
		m.priority[id] = true
	} else {
		delete(m.priority, id)
	}
	if t.Activity != activity.Idle {
		m.indexOf(id).get(t.Activity).setPriority(id, on)
	}
	return true
}

// MarkPriority promotes every task at pos and returns how many changed.
func (m *TaskMap) MarkPriority(pos game.Position) int {
	n := 0
	for _, id := range m.byPos[pos] {
		if !m.priority[id] {
			m.SetPriority(id, true)
			n++
		}
	}
	return n
}

// Lock keeps the task from being offered to actor again, for example after
// the actor failed at it.
func (m *TaskMap) Lock(actor game.ActorID, id TaskID) {
	if _, ok := m.tasks[id]; ok {
		m.locks[lockKey{actor, id}] = struct{}{}
	}
}

func (m *TaskMap) IsLocked(actor game.ActorID, id TaskID) bool {
	_, ok := m.locks[lockKey{actor, id}]
	return ok
}

// ClearLocks forgets every task lock held for actor.
func (m *TaskMap) ClearLocks(actor game.ActorID) {
	for k := range m.locks {
		if k.actor == actor {
			delete(m.locks, k)
		}
	}
}

// GetTask returns a copy of the task.
func (m *TaskMap) GetTask(id TaskID) (Task, bool) {
	t, ok := m.tasks[id]
	if !ok {
		return Task{}, false
	}
	return *t, true
}

// TaskOf returns the task actor owns.
func (m *TaskMap) TaskOf(actor game.ActorID) (Task, bool) {
	id, ok := m.owned[actor]
	if !ok {
		return Task{}, false
	}
	return m.GetTask(id)
}

// HasTask reports whether any task sits at pos.
func (m *TaskMap) HasTask(pos game.Position) bool {
	return len(m.byPos[pos]) > 0
}

// OwnerOf returns the actor owning the task.
func (m *TaskMap) OwnerOf(id TaskID) (game.ActorID, bool) {
	a, ok := m.owners[id]
	return a, ok
}

// PositionOf returns where the task sits.
func (m *TaskMap) PositionOf(id TaskID) (game.Position, bool) {
	p, ok := m.positions[id]
	return p, ok
}

// GetTasks returns the tasks at pos in the order they were placed.
func (m *TaskMap) GetTasks(pos game.Position) []TaskID {
	return slices.Clone(m.byPos[pos])
}

func (m *TaskMap) IsPriority(id TaskID) bool {
	return m.priority[id]
}

// HasPriorityTasks reports whether any task at pos is a priority task.
func (m *TaskMap) HasPriorityTasks(pos game.Position) bool {
	return slices.ContainsFunc(m.byPos[pos], m.IsPriority)
}

// IsDelayed reports whether the task is in its release cooldown as seen
// from now.
func (m *TaskMap) IsDelayed(id TaskID, now game.Time) bool {
	until, ok := m.delayed[id]
	return ok && now <= until
}

// TasksFor returns every task bucketed under a, assignable or not, by id.
func (m *TaskMap) TasksFor(a activity.Activity) []TaskID {
	var out []TaskID
	if b, ok := m.searchable[a]; ok {
		out = append(out, b.all...)
	}
	if b, ok := m.hidden[a]; ok {
		out = append(out, b.all...)
	}
	slices.Sort(out)
	return out
}

// IDs returns every task id in ascending order.
func (m *TaskMap) IDs() []TaskID {
	out := make([]TaskID, 0, len(m.tasks))
	for id := range m.tasks {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Count returns the number of tasks held.
func (m *TaskMap) Count() int {
	return len(m.tasks)
}

func (m *TaskMap) indexOf(id TaskID) index {
	if m.isHidden[id] {
		return m.hidden
	}
	return m.searchable
}
