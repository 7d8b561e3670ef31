package driver

import (
	"context"
	"log/slog"

	"github.com/pixil98/go-colony/internal/activity"
	"github.com/pixil98/go-colony/internal/game"
	"github.com/pixil98/go-colony/internal/messaging"
	"github.com/pixil98/go-colony/internal/taskmap"
)

const (
	resourceStone = "stone"
	resourceGoods = "goods"
)

// takeTurn lets the actor act once and returns how long that took. An actor
// that is queued but gone from the world is dropped from the queue.
func (d *Driver) takeTurn(ctx context.Context, id game.ActorID) game.Interval {
	a := d.world.GetActor(id)
	if a == nil {
		slog.WarnContext(ctx, "queued actor missing from world", "actor", id)
		d.refund(d.tasks.FreeFromTask(id, d.now))
		d.queue.Remove(id)
		return 0
	}
	if t, ok := d.queue.TimeOf(id); ok {
		a.Clock = t
	}
	d.emit(ctx, messaging.Event{Type: messaging.EventTurn, Time: a.Clock, Actor: id})

	if t, ok := d.tasks.TaskOf(id); ok {
		return d.work(ctx, a, t)
	}
	if t, ok := d.findTask(ctx, a); ok {
		return d.work(ctx, a, t)
	}
	return d.defaultInterval()
}

// findTask picks an activity for an idle actor and gets it a task for it.
func (d *Driver) findTask(ctx context.Context, a *game.Actor) (taskmap.Task, bool) {
	assigned, err := activity.Parse(a.Activity)
	act := d.catalog.Choose(d.locks, a.Id, assigned, a.Activity != "" && err == nil, d.rnd)
	switch {
	case act == activity.Idle:
		return taskmap.Task{}, false
	case d.catalog.IsTaskDriven(act):
		return d.claimTask(ctx, a, act)
	default:
		return d.useFeature(ctx, a, act)
	}
}

// claimTask takes the closest task of act, looking at priority tasks first.
func (d *Driver) claimTask(ctx context.Context, a *game.Actor, act activity.Activity) (taskmap.Task, bool) {
	id, ok := d.tasks.GetClosestTask(a, act, true, d.world)
	if !ok {
		id, ok = d.tasks.GetClosestTask(a, act, false, d.world)
	}
	if !ok {
		return taskmap.Task{}, false
	}

	prev, transferred := d.tasks.TakeTask(a.Id, id)
	t, _ := d.tasks.GetTask(id)

	ev := taskEvent(messaging.EventAssigned, a, t)
	if transferred {
		ev.Type = messaging.EventTransferred
		ev.From = prev
		if p := d.world.GetActor(prev); p != nil && t.Kind == taskmap.KindHaul {
			p.Carrying = ""
		}
	}
	d.emit(ctx, ev)
	return t, true
}

// useFeature gives the actor a personal task at the nearest feature that
// hosts act.
func (d *Driver) useFeature(ctx context.Context, a *game.Actor, act activity.Activity) (taskmap.Task, bool) {
	var best game.Position
	bestDist, found := 0, false
	for _, pos := range d.world.FeaturesOf(d.catalog.Features(act)...) {
		dist, ok := d.world.Distance(a.Id, pos)
		if !ok {
			continue
		}
		if !found || dist < bestDist {
			best, bestDist, found = pos, dist, true
		}
	}
	if !found {
		return taskmap.Task{}, false
	}

	kind := taskmap.KindApply
	switch act {
	case activity.Train:
		kind = taskmap.KindTrain
	case activity.Craft:
		kind = taskmap.KindCraft
	}
	id := d.tasks.AddTaskFor(taskmap.Task{Kind: kind, Activity: act}, &best, a.Id)
	t, _ := d.tasks.GetTask(id)

	d.emit(ctx, taskEvent(messaging.EventAssigned, a, t))
	return t, true
}

// work moves the actor toward its task, or works on it once in reach. An
// actor that can no longer get to its task lets go of it and is not offered
// it again.
func (d *Driver) work(ctx context.Context, a *game.Actor, t taskmap.Task) game.Interval {
	pos, placed := d.tasks.PositionOf(t.ID)
	if placed && !d.world.InReach(a.Id, pos) {
		if d.world.StepToward(a.Id, pos) {
			return d.defaultInterval()
		}
		slog.DebugContext(ctx, "task out of reach", "actor", a.Id, "task", t.ID, "pos", pos)
		d.tasks.Lock(a.Id, t.ID)
		d.release(ctx, a)
		return d.defaultInterval()
	}

	interval := d.catalog.Duration(t.Activity, a)
	if d.perform(ctx, a, t, pos, placed) {
		d.emit(ctx, taskEvent(messaging.EventCompleted, a, t))
	}
	return interval
}

// perform applies one turn of work and reports whether it finished the task.
// What a finished task leaves behind depends on its kind.
func (d *Driver) perform(ctx context.Context, a *game.Actor, t taskmap.Task, pos game.Position, placed bool) bool {
	if t.Kind == taskmap.KindHaul {
		a.Carrying = t.Storage
	}
	if !d.tasks.Progress(t.ID, d.tuning.WorkPerTurn) {
		return false
	}

	switch t.Kind {
	case taskmap.KindDig:
		if placed && d.world.Terrain(pos) == game.TerrainWall {
			if err := d.world.SetTerrain(pos, game.TerrainFloor); err != nil {
				slog.WarnContext(ctx, "digging out wall", "pos", pos, "error", err)
				break
			}
			d.world.Deposit(resourceStone, 1)
		}
	case taskmap.KindHaul:
		a.Carrying = ""
		if t.Storage != "" {
			d.world.Deposit(string(t.Storage), 1)
		}
	case taskmap.KindCraft:
		d.world.Deposit(resourceGoods, 1)
	case taskmap.KindBuild, taskmap.KindApply, taskmap.KindGuard, taskmap.KindExplore, taskmap.KindTrain:
	default:
		panic("driver: performing task of unknown kind " + t.Kind.String())
	}
	return true
}

// release frees the actor from its task. Whatever the task map hands back
// goes to the stockpile.
func (d *Driver) release(ctx context.Context, a *game.Actor) {
	t, ok := d.tasks.TaskOf(a.Id)
	if !ok {
		return
	}
	refund := d.tasks.FreeFromTask(a.Id, a.Clock)
	d.refund(refund)
	if t.Kind == taskmap.KindHaul {
		a.Carrying = ""
	}

	ev := taskEvent(messaging.EventReleased, a, t)
	ev.Refund = costString(refund)
	d.emit(ctx, ev)
}

func (d *Driver) defaultInterval() game.Interval {
	return game.Interval(d.tuning.DefaultTurnInterval)
}

func taskEvent(typ messaging.EventType, a *game.Actor, t taskmap.Task) messaging.Event {
	return messaging.Event{
		Type:      typ,
		Time:      a.Clock,
		Actor:     a.Id,
		ActorName: a.Name,
		Task:      uint64(t.ID),
		Kind:      t.Kind.String(),
		Activity:  t.Activity.String(),
	}
}
