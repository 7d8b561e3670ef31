// Package driver runs the simulation. Each tick every actor whose turn has
// come acts once, either on the task it owns or on a new one. The turn queue
// decides who goes next and the task map decides what they work on.
package driver

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pixil98/go-colony/internal/activity"
	"github.com/pixil98/go-colony/internal/game"
	"github.com/pixil98/go-colony/internal/messaging"
	"github.com/pixil98/go-colony/internal/taskmap"
	"github.com/pixil98/go-colony/internal/tuning"
	"github.com/pixil98/go-colony/internal/turnqueue"
)

const (
	DefaultTickLength = time.Second * 2
)

// Manager is ticked once per driver tick, after the actors have acted.
type Manager interface {
	Tick(context.Context) error
}

// EventSink receives what the scheduler did.
type EventSink interface {
	Emit(messaging.Event) error
}

type Driver struct {
	mu sync.Mutex

	tickLength time.Duration
	managers   []Manager
	ready      <-chan struct{}

	world   *game.WorldState
	catalog *activity.Catalog
	tuning  tuning.Tuning

	queue *turnqueue.Queue
	tasks *taskmap.TaskMap
	locks *activity.LockSet

	events    EventSink
	snapshots SnapshotSaver
	runID     uuid.UUID

	src *rand.PCG
	rnd *rand.Rand
	now game.Time
}

func NewDriver(world *game.WorldState, catalog *activity.Catalog, opts ...DriverOpt) *Driver {
	d := &Driver{
		tickLength: DefaultTickLength,
		world:      world,
		catalog:    catalog,
		tuning:     tuning.Default(),
		queue:      turnqueue.New(),
		locks:      activity.NewLockSet(),
		runID:      uuid.New(),
	}

	for _, opt := range opts {
		opt(d)
	}

	d.tasks = taskmap.New(
		taskmap.WithTransferRadius(d.tuning.TransferRadius),
		taskmap.WithFreeTaskDelay(game.Interval(d.tuning.FreeTaskDelay)),
	)
	d.src = rand.NewPCG(d.tuning.Seed, d.tuning.Seed)
	d.rnd = rand.New(d.src)

	return d
}

func (d *Driver) Start(ctx context.Context) error {
	if d.ready != nil {
		select {
		case <-ctx.Done():
			return nil
		case <-d.ready:
		}
	}

	d.mu.Lock()
	actors := d.queue.Len()
	d.mu.Unlock()
	slog.InfoContext(ctx, "driver started", "run", d.runID, "actors", actors, "tick", d.tickLength)

	ticker := time.NewTicker(d.tickLength)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			d.saveSnapshot(context.WithoutCancel(ctx))
			slog.InfoContext(ctx, "driver stopped", "time", d.Now())
			return nil
		case <-ticker.C:
			err := d.Tick(ctx)
			if err != nil {
				return err
			}
		}
	}
}

// Tick advances simulation time by one turn window, lets every due actor
// act and then ticks the managers.
func (d *Driver) Tick(ctx context.Context) error {
	d.mu.Lock()
	d.step(ctx, d.now.Add(game.Interval(d.tuning.TurnWindow)))
	d.mu.Unlock()

	for _, m := range d.managers {
		if err := m.Tick(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Step lets every actor whose slot time is not after now act until none is
// left, then sweeps the task map. It returns the number of turns taken.
func (d *Driver) Step(ctx context.Context, now game.Time) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.step(ctx, now)
}

func (d *Driver) step(ctx context.Context, now game.Time) int {
	turns := 0
	for {
		id, ok := d.queue.NextActor(now)
		if !ok {
			break
		}
		interval := d.takeTurn(ctx, id)
		if !d.queue.Contains(id) {
			continue
		}
		d.queue.IncreaseTime(id, interval)
		turns++
	}

	for _, id := range d.tasks.Tick(d.world) {
		slog.DebugContext(ctx, "swept task", "task", id)
	}
	if now > d.now {
		d.now = now
	}
	return turns
}

// Now returns the latest simulation time the driver stepped to.
func (d *Driver) Now() game.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.now
}

// AddActor places the actor in the world and schedules it at its local time.
func (d *Driver) AddActor(a *game.Actor) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.world.AddActor(a); err != nil {
		return fmt.Errorf("adding %s: %w", a.Id, err)
	}
	side := turnqueue.SideNPC
	if a.Player {
		side = turnqueue.SidePlayer
	}
	d.queue.Register(a.Id, side, a.Clock)
	return nil
}

// RemoveActor frees the actor's task and takes it out of the queue and the
// world. It may be called at any time, including from within a turn.
func (d *Driver) RemoveActor(ctx context.Context, id game.ActorID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.removeActor(ctx, id)
}

func (d *Driver) removeActor(ctx context.Context, id game.ActorID) error {
	if a := d.world.GetActor(id); a != nil {
		d.release(ctx, a)
	}
	d.queue.Remove(id)
	d.tasks.ClearLocks(id)
	d.locks.Clear(id)
	if err := d.world.RemoveActor(id); err != nil {
		return fmt.Errorf("removing %s: %w", id, err)
	}
	return nil
}

// SetPlayer moves the actor to the player or non-player side of its slot.
func (d *Driver) SetPlayer(id game.ActorID, player bool) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	a := d.world.GetActor(id)
	if a == nil {
		return false
	}
	side := turnqueue.SideNPC
	if player {
		side = turnqueue.SidePlayer
	}
	a.Player = player
	return d.queue.SetSide(id, side)
}

// GrantExtraTurn gives the actor a bonus turn right after its next one.
func (d *Driver) GrantExtraTurn(id game.ActorID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.queue.GrantExtraTurn(id)
}

// Postpone sends the actor to the back of its slot.
func (d *Driver) Postpone(id game.ActorID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.queue.Postpone(id)
}

// MoveNow makes the actor act first in the earliest slot.
func (d *Driver) MoveNow(id game.ActorID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.queue.MoveNow(id)
}

// AddTask reserves the task's cost from the stockpile and offers the task
// under a fresh id.
func (d *Driver) AddTask(t taskmap.Task, pos *game.Position) (taskmap.TaskID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !t.Kind.Valid() {
		return 0, fmt.Errorf("%w: %d", taskmap.ErrUnknownKind, int(t.Kind))
	}
	if !t.Activity.Valid() {
		return 0, fmt.Errorf("%w: %d", activity.ErrUnknownActivity, int(t.Activity))
	}
	if !t.Cost.IsZero() && !d.world.Withdraw(t.Cost.Resource, t.Cost.Amount) {
		return 0, fmt.Errorf("reserving %d %s: %w", t.Cost.Amount, t.Cost.Resource, ErrInsufficientStock)
	}
	t.ID = 0
	return d.tasks.AddTask(t, pos), nil
}

// CancelTask removes the task and returns its unconsumed cost to the stockpile.
func (d *Driver) CancelTask(ctx context.Context, id taskmap.TaskID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	owner, owned := d.tasks.OwnerOf(id)
	refund, ok := d.tasks.RemoveTask(id)
	if !ok {
		return false
	}
	d.refund(refund)
	if owned {
		d.emit(ctx, messaging.Event{
			Type:   messaging.EventReleased,
			Actor:  owner,
			Task:   uint64(id),
			Refund: costString(refund),
		})
	}
	return true
}

// MarkPriority flags every task at pos as priority.
func (d *Driver) MarkPriority(pos game.Position) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tasks.MarkPriority(pos)
}

// ToggleActivity locks or unlocks an activity for the actor and reports
// whether it is now locked.
func (d *Driver) ToggleActivity(id game.ActorID, a activity.Activity) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.locks.Toggle(id, a)
}

// TaskOf returns the task the actor is working on.
func (d *Driver) TaskOf(id game.ActorID) (taskmap.Task, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tasks.TaskOf(id)
}

// GetTask returns a copy of the task.
func (d *Driver) GetTask(id taskmap.TaskID) (taskmap.Task, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tasks.GetTask(id)
}

// CheckConsistency verifies the queue and the task map.
func (d *Driver) CheckConsistency() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.queue.CheckConsistency(); err != nil {
		return err
	}
	return d.tasks.CheckConsistency()
}

func (d *Driver) refund(c taskmap.Cost) {
	if !c.IsZero() {
		d.world.Deposit(c.Resource, c.Amount)
	}
}

func (d *Driver) emit(ctx context.Context, ev messaging.Event) {
	if ev.Time == 0 {
		ev.Time = d.now
	}
	if ev.ActorName == "" {
		if a := d.world.GetActor(ev.Actor); a != nil {
			ev.ActorName = a.Name
		}
	}
	slog.DebugContext(ctx, "scheduler event", "type", ev.Type, "actor", ev.Actor, "task", ev.Task)

	if d.events == nil {
		return
	}
	if err := d.events.Emit(ev); err != nil {
		slog.WarnContext(ctx, "publishing event", "type", ev.Type, "error", err)
	}
}

func costString(c taskmap.Cost) string {
	if c.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d %s", c.Amount, c.Resource)
}
