package taskmap

import (
	"errors"
	"slices"
	"testing"

	"github.com/pixil98/go-colony/internal/activity"
	"github.com/pixil98/go-colony/internal/game"
	"github.com/pixil98/go-testutil"
)

const (
	actorA game.ActorID = iota + 1
	actorB
	actorC
)

type mockPerformer struct {
	id  game.ActorID
	mv  game.Movement
	now game.Time
}

func (p mockPerformer) ActorID() game.ActorID   { return p.id }
func (p mockPerformer) Movement() game.Movement { return p.mv }
func (p mockPerformer) LocalTime() game.Time    { return p.now }

// mockWorld answers distances from a table. Missing entries are unreachable.
type mockWorld struct {
	dist     map[game.ActorID]map[game.Position]int
	carrying map[game.ActorID]game.StorageID
}

func newMockWorld() *mockWorld {
	return &mockWorld{
		dist:     map[game.ActorID]map[game.Position]int{},
		carrying: map[game.ActorID]game.StorageID{},
	}
}

func (w *mockWorld) set(actor game.ActorID, pos *game.Position, d int) {
	if w.dist[actor] == nil {
		w.dist[actor] = map[game.Position]int{}
	}
	w.dist[actor][*pos] = d
}

func (w *mockWorld) CanReach(id game.ActorID, pos game.Position, _ game.Movement) bool {
	_, ok := w.dist[id][pos]
	return ok
}

func (w *mockWorld) Distance(id game.ActorID, pos game.Position) (int, bool) {
	d, ok := w.dist[id][pos]
	return d, ok
}

func (w *mockWorld) Carrying(id game.ActorID) (game.StorageID, bool) {
	s, ok := w.carrying[id]
	return s, ok
}

func (w *mockWorld) ForEachActor(fn func(game.ActorID, game.Movement)) {
	ids := make([]game.ActorID, 0, len(w.dist))
	for id := range w.dist {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		fn(id, game.MoveWalk)
	}
}

func performer(id game.ActorID, now game.Time) mockPerformer {
	return mockPerformer{id: id, mv: game.MoveWalk, now: now}
}

func assertConsistent(t *testing.T, m *TaskMap) {
	t.Helper()
	if err := m.CheckConsistency(); err != nil {
		t.Fatalf("task map inconsistent: %v", err)
	}
}

func assertPanics(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	fn()
}

func digTask() Task {
	return Task{Kind: KindDig, Activity: activity.Dig, Transferable: true}
}

func TestTaskMap_OwnershipStaysBidirectional(t *testing.T) {
	m := New()

	t1 := m.AddTaskFor(digTask(), At(1, 1), actorA)
	t2 := m.AddTask(digTask(), At(2, 2))
	t3 := m.AddTask(Task{Kind: KindGuard, Activity: activity.Guard}, At(3, 3))
	assertConsistent(t, m)

	m.Assign(actorB, t2)
	assertConsistent(t, m)

	m.FreeFromTask(actorA, 0)
	assertConsistent(t, m)
	m.Assign(actorA, t3)
	m.RemoveTask(t3)
	assertConsistent(t, m)

	prev, transferred := m.TakeTask(actorC, t2)
	testutil.AssertEqual(t, "transferred", transferred, true)
	testutil.AssertEqual(t, "previous owner", prev, actorB)
	assertConsistent(t, m)

	for _, tc := range []struct {
		actor  game.ActorID
		task   TaskID
		expOwn bool
	}{
		{actorA, t3, false},
		{actorB, t2, false},
		{actorC, t2, true},
	} {
		owned, ok := m.TaskOf(tc.actor)
		testutil.AssertEqual(t, tc.actor.String()+" owns", ok && owned.ID == tc.task, tc.expOwn)
	}

	owner, ok := m.OwnerOf(t1)
	testutil.AssertEqual(t, "released task unowned", ok, false)
	testutil.AssertEqual(t, "no owner id", owner, game.ActorID(0))
}

func TestTaskMap_NoDoubleAssignment(t *testing.T) {
	m := New()
	id := m.AddTask(digTask(), At(1, 1))

	m.Assign(actorA, id)
	assertPanics(t, "second actor", func() { m.Assign(actorB, id) })
	assertPanics(t, "second task for owner", func() { m.AddTaskFor(digTask(), At(2, 2), actorA) })
	assertPanics(t, "task added twice", func() { m.AddTask(Task{ID: id, Kind: KindDig}, nil) })

	owner, _ := m.OwnerOf(id)
	testutil.AssertEqual(t, "owner unchanged", owner, actorA)
	testutil.AssertEqual(t, "count", m.Count(), 1)
	_, ok := m.TaskOf(actorB)
	testutil.AssertEqual(t, "second actor has nothing", ok, false)
	assertConsistent(t, m)
}

func TestTaskMap_TakeTaskRefusesUntransferable(t *testing.T) {
	m := New()
	id := m.AddTaskFor(Task{Kind: KindBuild, Activity: activity.Build}, At(0, 0), actorA)

	assertPanics(t, "take untransferable", func() { m.TakeTask(actorB, id) })

	owner, _ := m.OwnerOf(id)
	testutil.AssertEqual(t, "owner unchanged", owner, actorA)
	assertConsistent(t, m)
}

func TestTaskMap_GetClosestTask_TransferLocality(t *testing.T) {
	tests := map[string]struct {
		transferable bool
		ownerDist    int
		ownerReach   bool
		takerDist    int
		expFound     bool
	}{
		"closer and within radius": {
			transferable: true,
			ownerDist:    4,
			ownerReach:   true,
			takerDist:    2,
			expFound:     true,
		},
		"closer but beyond radius": {
			transferable: true,
			ownerDist:    20,
			ownerReach:   true,
			takerDist:    5,
		},
		"equally close": {
			transferable: true,
			ownerDist:    3,
			ownerReach:   true,
			takerDist:    3,
		},
		"farther": {
			transferable: true,
			ownerDist:    1,
			ownerReach:   true,
			takerDist:    3,
		},
		"not transferable": {
			ownerDist:  4,
			ownerReach: true,
			takerDist:  1,
		},
		"owner cut off": {
			transferable: true,
			takerDist:    3,
			expFound:     true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			m := New(WithTransferRadius(4))
			w := newMockWorld()
			pos := At(5, 5)

			id := m.AddTaskFor(Task{Kind: KindDig, Activity: activity.Dig, Transferable: tt.transferable}, pos, actorA)
			if tt.ownerReach {
				w.set(actorA, pos, tt.ownerDist)
			}
			w.set(actorB, pos, tt.takerDist)

			got, ok := m.GetClosestTask(performer(actorB, 0), activity.Dig, false, w)
			testutil.AssertEqual(t, "found", ok, tt.expFound)
			if tt.expFound {
				testutil.AssertEqual(t, "task", got, id)
			}
		})
	}
}

func TestTaskMap_GetClosestTask_PriorityDominates(t *testing.T) {
	tests := map[string]struct {
		plainDist    int
		priorityDist int
	}{
		"priority at 20 against plain at 5": {plainDist: 5, priorityDist: 20},
		"priority at 10 against plain at 1": {plainDist: 1, priorityDist: 10},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			m := New()
			w := newMockWorld()

			plainPos, prioPos := At(1, 0), At(2, 0)
			m.AddTask(digTask(), plainPos)
			prio := m.AddTask(digTask(), prioPos)
			m.SetPriority(prio, true)
			w.set(actorA, plainPos, tt.plainDist)
			w.set(actorA, prioPos, tt.priorityDist)

			got, ok := m.GetClosestTask(performer(actorA, 0), activity.Dig, false, w)
			testutil.AssertEqual(t, "found", ok, true)
			testutil.AssertEqual(t, "task", got, prio)
			assertConsistent(t, m)
		})
	}
}

func TestTaskMap_GetClosestTask_Filters(t *testing.T) {
	tests := map[string]struct {
		setup    func(m *TaskMap, w *mockWorld) TaskID
		activity activity.Activity
		prioOnly bool
		expFound bool
	}{
		"nearest wins": {
			setup: func(m *TaskMap, w *mockWorld) TaskID {
				far, near := At(9, 9), At(1, 1)
				m.AddTask(digTask(), far)
				id := m.AddTask(digTask(), near)
				w.set(actorA, far, 9)
				w.set(actorA, near, 1)
				return id
			},
			activity: activity.Dig,
			expFound: true,
		},
		"equal distance goes to lowest id": {
			setup: func(m *TaskMap, w *mockWorld) TaskID {
				p1, p2 := At(1, 0), At(0, 1)
				id := m.AddTask(digTask(), p1)
				m.AddTask(digTask(), p2)
				w.set(actorA, p2, 1)
				w.set(actorA, p1, 1)
				return id
			},
			activity: activity.Dig,
			expFound: true,
		},
		"other activity": {
			setup: func(m *TaskMap, w *mockWorld) TaskID {
				pos := At(1, 1)
				w.set(actorA, pos, 1)
				return m.AddTask(digTask(), pos)
			},
			activity: activity.Haul,
		},
		"priority only skips plain tasks": {
			setup: func(m *TaskMap, w *mockWorld) TaskID {
				pos := At(1, 1)
				w.set(actorA, pos, 1)
				return m.AddTask(digTask(), pos)
			},
			activity: activity.Dig,
			prioOnly: true,
		},
		"unreachable": {
			setup: func(m *TaskMap, w *mockWorld) TaskID {
				return m.AddTask(digTask(), At(1, 1))
			},
			activity: activity.Dig,
		},
		"no position": {
			setup: func(m *TaskMap, w *mockWorld) TaskID {
				return m.AddTask(digTask(), nil)
			},
			activity: activity.Dig,
		},
		"done": {
			setup: func(m *TaskMap, w *mockWorld) TaskID {
				pos := At(1, 1)
				w.set(actorA, pos, 1)
				id := m.AddTask(digTask(), pos)
				m.MarkDone(id)
				return id
			},
			activity: activity.Dig,
		},
		"locked for the actor": {
			setup: func(m *TaskMap, w *mockWorld) TaskID {
				pos := At(1, 1)
				w.set(actorA, pos, 1)
				id := m.AddTask(digTask(), pos)
				m.Lock(actorA, id)
				return id
			},
			activity: activity.Dig,
		},
		"carrying goods for another storage": {
			setup: func(m *TaskMap, w *mockWorld) TaskID {
				pos := At(1, 1)
				w.set(actorA, pos, 1)
				w.carrying[actorA] = "granary"
				return m.AddTask(Task{Kind: KindHaul, Activity: activity.Haul, Storage: "armory"}, pos)
			},
			activity: activity.Haul,
		},
		"carrying goods for the same storage": {
			setup: func(m *TaskMap, w *mockWorld) TaskID {
				pos := At(1, 1)
				w.set(actorA, pos, 1)
				w.carrying[actorA] = "granary"
				return m.AddTask(Task{Kind: KindHaul, Activity: activity.Haul, Storage: "granary"}, pos)
			},
			activity: activity.Haul,
			expFound: true,
		},
		"carrying goods to a task without storage": {
			setup: func(m *TaskMap, w *mockWorld) TaskID {
				pos := At(1, 1)
				w.set(actorA, pos, 1)
				w.carrying[actorA] = "granary"
				return m.AddTask(Task{Kind: KindHaul, Activity: activity.Haul}, pos)
			},
			activity: activity.Haul,
			expFound: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			m := New()
			w := newMockWorld()
			exp := tt.setup(m, w)

			got, ok := m.GetClosestTask(performer(actorA, 0), tt.activity, tt.prioOnly, w)
			testutil.AssertEqual(t, "found", ok, tt.expFound)
			if tt.expFound {
				testutil.AssertEqual(t, "task", got, exp)
			}
		})
	}
}

func TestTaskMap_FreeFromTask_DelayRespected(t *testing.T) {
	m := New(WithFreeTaskDelay(20))
	w := newMockWorld()
	pos := At(3, 3)
	w.set(actorA, pos, 1)
	w.set(actorB, pos, 1)

	id := m.AddTaskFor(Task{Kind: KindDig, Activity: activity.Dig, Transferable: true, Cost: Cost{Resource: "stone", Amount: 2}}, pos, actorA)

	refund := m.FreeFromTask(actorA, 10)
	testutil.AssertEqual(t, "no refund while resumable", refund.IsZero(), true)
	testutil.AssertEqual(t, "still held", m.Count(), 1)
	testutil.AssertEqual(t, "delayed", m.IsDelayed(id, 30), true)
	assertConsistent(t, m)

	for _, tc := range []struct {
		actor game.ActorID
		now   game.Time
		exp   bool
	}{
		{actorA, 10, false},
		{actorB, 29, false},
		{actorB, 30, false},
		{actorB, 31, true},
		{actorA, 31, true},
	} {
		_, ok := m.GetClosestTask(performer(tc.actor, tc.now), activity.Dig, false, w)
		testutil.AssertEqual(t, tc.actor.String()+" visible", ok, tc.exp)
	}

	m.Assign(actorB, id)
	testutil.AssertEqual(t, "delay cleared on assignment", m.IsDelayed(id, 0), false)
}

func TestTaskMap_FreeFromTask_RemovesUnresumable(t *testing.T) {
	tests := map[string]struct {
		task Task
		pos  *game.Position
	}{
		"not transferable": {
			task: Task{Kind: KindBuild, Activity: activity.Build, Cost: Cost{Resource: "wood", Amount: 3}},
			pos:  At(1, 1),
		},
		"no position": {
			task: Task{Kind: KindBuild, Activity: activity.Build, Transferable: true, Cost: Cost{Resource: "wood", Amount: 3}},
		},
		"no activity": {
			task: Task{Kind: KindApply, Transferable: true, Cost: Cost{Resource: "wood", Amount: 3}},
			pos:  At(1, 1),
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			m := New()
			id := m.AddTaskFor(tt.task, tt.pos, actorA)

			refund := m.FreeFromTask(actorA, 5)

			testutil.AssertEqual(t, "refund", refund, Cost{Resource: "wood", Amount: 3})
			_, ok := m.GetTask(id)
			testutil.AssertEqual(t, "removed", ok, false)
			testutil.AssertEqual(t, "count", m.Count(), 0)
			testutil.AssertEqual(t, "free again", m.FreeFromTask(actorA, 5).IsZero(), true)
			assertConsistent(t, m)
		})
	}
}

func TestTaskMap_RemoveTask(t *testing.T) {
	m := New()
	pos := At(2, 2)
	cost := Cost{Resource: "iron", Amount: 1}

	id := m.AddTaskFor(Task{Kind: KindCraft, Activity: activity.Craft, Cost: cost}, pos, actorA)
	m.SetPriority(id, true)
	m.Lock(actorB, id)

	refund, ok := m.RemoveTask(id)
	testutil.AssertEqual(t, "removed", ok, true)
	testutil.AssertEqual(t, "refund", refund, cost)

	refund, ok = m.RemoveTask(id)
	testutil.AssertEqual(t, "second remove", ok, false)
	testutil.AssertEqual(t, "refunded once", refund.IsZero(), true)

	_, owns := m.TaskOf(actorA)
	testutil.AssertEqual(t, "owner sees no task", owns, false)
	testutil.AssertEqual(t, "position cleared", m.HasTask(*pos), false)
	testutil.AssertEqual(t, "lock cleared", m.IsLocked(actorB, id), false)
	testutil.AssertEqual(t, "bucket cleared", len(m.TasksFor(activity.Craft)), 0)
	testutil.AssertEqual(t, "no empty buckets", len(m.searchable)+len(m.hidden), 0)
	assertConsistent(t, m)

	done := m.AddTask(Task{Kind: KindCraft, Activity: activity.Craft, Cost: cost}, pos)
	m.MarkDone(done)
	refund, _ = m.RemoveTask(done)
	testutil.AssertEqual(t, "finished task refunds nothing", refund.IsZero(), true)
}

func TestTaskMap_Progress(t *testing.T) {
	m := New()
	id := m.AddTaskFor(Task{Kind: KindDig, Activity: activity.Dig, Work: 3}, At(0, 0), actorA)

	testutil.AssertEqual(t, "first", m.Progress(id, 2), false)
	task, _ := m.GetTask(id)
	testutil.AssertEqual(t, "work left", task.Work, 1)

	testutil.AssertEqual(t, "second", m.Progress(id, 2), true)
	task, _ = m.GetTask(id)
	testutil.AssertEqual(t, "done", task.Done, true)
	_, owns := m.TaskOf(actorA)
	testutil.AssertEqual(t, "owner freed", owns, false)
	testutil.AssertEqual(t, "no more progress", m.Progress(id, 1), false)

	defaulted := m.AddTask(Task{Kind: KindDig, Activity: activity.Dig}, nil)
	task, _ = m.GetTask(defaulted)
	testutil.AssertEqual(t, "default work", task.Work, KindDig.DefaultWork())
	assertConsistent(t, m)
}

func TestTaskMap_PositionlessTaskStaysAddressable(t *testing.T) {
	m := New()
	w := newMockWorld()

	id := m.AddTaskFor(Task{Kind: KindGuard, Activity: activity.Guard, Transferable: true}, nil, actorA)

	_, ok := m.GetClosestTask(performer(actorB, 100), activity.Guard, false, w)
	testutil.AssertEqual(t, "not offered", ok, false)

	task, ok := m.TaskOf(actorA)
	testutil.AssertEqual(t, "by owner", ok, true)
	testutil.AssertEqual(t, "id", task.ID, id)
	_, placed := m.PositionOf(id)
	testutil.AssertEqual(t, "unplaced", placed, false)

	m.SetPosition(id, At(4, 4))
	pos, _ := m.PositionOf(id)
	testutil.AssertEqual(t, "placed later", pos, game.Position{X: 4, Y: 4})
	testutil.AssertEqual(t, "indexed by position", slices.Equal(m.GetTasks(pos), []TaskID{id}), true)
	assertConsistent(t, m)
}

func TestTaskMap_Tick(t *testing.T) {
	m := New()
	w := newMockWorld()

	reachable, stranded, owned := At(1, 1), At(8, 8), At(9, 9)
	w.set(actorA, reachable, 1)

	ok1 := m.AddTask(digTask(), reachable)
	lost := m.AddTask(digTask(), stranded)
	m.SetPriority(lost, true)
	busy := m.AddTaskFor(digTask(), owned, actorB)
	done := m.AddTask(digTask(), reachable)
	m.MarkDone(done)

	swept := m.Tick(w)
	assertConsistent(t, m)

	testutil.AssertEqual(t, "swept", slices.Equal(swept, []TaskID{done}), true)
	testutil.AssertEqual(t, "reachable stays", m.IsAssignable(ok1), true)
	testutil.AssertEqual(t, "stranded hidden", m.IsAssignable(lost), false)
	testutil.AssertEqual(t, "owned untouched", m.IsAssignable(busy), true)
	testutil.AssertEqual(t, "hidden task still held", m.IsPriority(lost), true)
	testutil.AssertEqual(t, "hidden task still listed", slices.Contains(m.TasksFor(activity.Dig), lost), true)

	w.set(actorA, stranded, 30)
	m.Tick(w)
	assertConsistent(t, m)

	testutil.AssertEqual(t, "back in reach", m.IsAssignable(lost), true)
	got, _ := m.GetClosestTask(performer(actorA, 0), activity.Dig, true, w)
	testutil.AssertEqual(t, "priority kept through the move", got, lost)
}

func TestTaskMap_MarkPriorityAndHighlight(t *testing.T) {
	m := New()
	pos := At(3, 4)
	other := At(0, 0)

	testutil.AssertEqual(t, "empty cell", m.GetHighlightType(*pos), HighlightNone)

	a := m.AddTask(digTask(), pos)
	b := m.AddTask(Task{Kind: KindHaul, Activity: activity.Haul}, pos)
	m.AddTask(digTask(), other)
	testutil.AssertEqual(t, "plain task", m.GetHighlightType(*pos), HighlightTask)

	m.SetHighlightType(*pos, HighlightMarked)
	testutil.AssertEqual(t, "marked", m.GetHighlightType(*pos), HighlightMarked)

	testutil.AssertEqual(t, "promoted", m.MarkPriority(*pos), 2)
	testutil.AssertEqual(t, "promoted again", m.MarkPriority(*pos), 0)
	testutil.AssertEqual(t, "a", m.IsPriority(a), true)
	testutil.AssertEqual(t, "b", m.IsPriority(b), true)
	testutil.AssertEqual(t, "priority wins", m.GetHighlightType(*pos), HighlightPriority)
	testutil.AssertEqual(t, "other cell untouched", m.HasPriorityTasks(*other), false)
	assertConsistent(t, m)

	m.SetPriority(a, false)
	m.SetPriority(b, false)
	m.SetHighlightType(*pos, HighlightNone)
	testutil.AssertEqual(t, "back to plain", m.GetHighlightType(*pos), HighlightTask)
	assertConsistent(t, m)
}

func TestTaskMap_StateRestore(t *testing.T) {
	m := New(WithFreeTaskDelay(5))
	w := newMockWorld()

	p1, p2, p3 := At(1, 1), At(2, 2), At(7, 7)
	w.set(actorA, p1, 3)
	w.set(actorA, p2, 2)
	w.set(actorC, p1, 1)
	w.set(actorC, p2, 1)

	t1 := m.AddTask(digTask(), p1)
	t2 := m.AddTaskFor(digTask(), p2, actorB)
	t3 := m.AddTask(digTask(), p3)
	m.AddTask(Task{Kind: KindGuard, Activity: activity.Guard}, nil)
	m.SetPriority(t1, true)
	m.Lock(actorC, t1)
	m.SetHighlightType(*p3, HighlightMarked)
	m.Tick(w)
	m.FreeFromTask(actorB, 4)

	restored := New(WithFreeTaskDelay(5))
	if err := restored.Restore(m.State()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertConsistent(t, restored)

	testutil.AssertEqual(t, "count", restored.Count(), m.Count())
	testutil.AssertEqual(t, "hidden kept", restored.IsAssignable(t3), false)
	testutil.AssertEqual(t, "delay kept", restored.IsDelayed(t2, 9), true)
	testutil.AssertEqual(t, "lock kept", restored.IsLocked(actorC, t1), true)
	testutil.AssertEqual(t, "highlight kept", restored.GetHighlightType(*p3), HighlightMarked)

	for _, p := range []mockPerformer{performer(actorA, 0), performer(actorA, 20), performer(actorC, 20)} {
		want, wantOk := m.GetClosestTask(p, activity.Dig, false, w)
		got, gotOk := restored.GetClosestTask(p, activity.Dig, false, w)
		testutil.AssertEqual(t, p.id.String()+" found", gotOk, wantOk)
		testutil.AssertEqual(t, p.id.String()+" task", got, want)
	}

	next := restored.AddTask(digTask(), nil)
	testutil.AssertEqual(t, "ids continue", next, m.AddTask(digTask(), nil))
}

func TestTaskMap_RestoreKeepsPlacementOrder(t *testing.T) {
	m := New()
	shared := At(3, 3)

	first := m.AddTask(digTask(), At(0, 0))
	second := m.AddTask(digTask(), shared)
	m.SetPosition(first, shared)
	testutil.AssertEqual(t, "placed order", m.GetTasks(*shared), []TaskID{second, first})

	restored := New()
	if err := restored.Restore(m.State()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertConsistent(t, restored)
	testutil.AssertEqual(t, "restored order", restored.GetTasks(*shared), []TaskID{second, first})
}

func TestTaskMap_RestoreRejectsBadState(t *testing.T) {
	owner := actorA
	tests := map[string]State{
		"duplicate ids": {
			NextID: 1,
			Tasks:  []TaskState{{Task: Task{ID: 1, Kind: KindDig}}, {Task: Task{ID: 1, Kind: KindDig}}},
		},
		"actor owns two tasks": {
			NextID: 2,
			Tasks: []TaskState{
				{Task: Task{ID: 1, Kind: KindDig}, Owner: &owner},
				{Task: Task{ID: 2, Kind: KindDig}, Owner: &owner},
			},
		},
		"unknown kind": {
			NextID: 1,
			Tasks:  []TaskState{{Task: Task{ID: 1, Kind: Kind(42)}}},
		},
		"lock on missing task": {
			Locks: []LockState{{Actor: actorA, Task: 9}},
		},
		"placement lists a task placed elsewhere": {
			NextID: 2,
			Tasks: []TaskState{
				{Task: Task{ID: 1, Kind: KindDig}, Pos: At(1, 1)},
				{Task: Task{ID: 2, Kind: KindDig}, Pos: At(2, 2)},
			},
			Placements: []PlacementState{{Pos: game.Position{X: 1, Y: 1}, Tasks: []TaskID{2, 1}}},
		},
		"next id behind tasks": {
			NextID: 1,
			Tasks:  []TaskState{{Task: Task{ID: 3, Kind: KindDig}}},
		},
	}

	for name, st := range tests {
		t.Run(name, func(t *testing.T) {
			m := New()
			kept := m.AddTask(digTask(), nil)

			if err := m.Restore(st); err == nil {
				t.Fatalf("expected error")
			}
			_, ok := m.GetTask(kept)
			testutil.AssertEqual(t, "original kept", ok, true)
		})
	}
}

func TestParseKind(t *testing.T) {
	for k := KindDig; k < numKinds; k++ {
		got, err := ParseKind(k.String())
		if err != nil {
			t.Fatalf("parsing %s: %v", k, err)
		}
		testutil.AssertEqual(t, k.String(), got, k)
	}

	_, err := ParseKind("juggle")
	testutil.AssertEqual(t, "unknown", errors.Is(err, ErrUnknownKind), true)
}
