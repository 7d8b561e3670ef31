package driver

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"math/rand/v2"

	"github.com/pixil98/go-colony/internal/activity"
	"github.com/pixil98/go-colony/internal/game"
	"github.com/pixil98/go-colony/internal/storage"
	"github.com/pixil98/go-colony/internal/taskmap"
	"github.com/pixil98/go-colony/internal/turnqueue"
)

// SnapshotSaver persists the scheduler state.
type SnapshotSaver interface {
	Save(*storage.Snapshot) error
}

// Snapshot captures everything the scheduler owns, down to the state of its
// random source.
func (d *Driver) Snapshot() (*storage.Snapshot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshot()
}

func (d *Driver) snapshot() (*storage.Snapshot, error) {
	rnd, err := d.src.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("marshalling random source: %w", err)
	}

	snap := &storage.Snapshot{
		Version:   storage.SnapshotVersion,
		RunID:     d.runID,
		Now:       d.now,
		Stockpile: d.world.Stockpile(),
		Queue:     d.queue.State(),
		Tasks:     d.tasks.State(),
		Rand:      rnd,
	}
	for _, a := range d.world.Actors() {
		c := *a
		c.Attributes = maps.Clone(a.Attributes)
		snap.Actors = append(snap.Actors, &c)

		if locked := d.locks.Locked(a.Id); len(locked) > 0 {
			snap.Locks = append(snap.Locks, storage.ActorLocks{Actor: a.Id, Activities: locked})
		}
	}
	return snap, nil
}

// Restore replaces the scheduler state with snap. Nothing changes when snap
// is inconsistent.
func (d *Driver) Restore(snap *storage.Snapshot) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := snap.Validate(); err != nil {
		return fmt.Errorf("validating snapshot: %w", err)
	}

	queue := turnqueue.New()
	if err := queue.Restore(snap.Queue); err != nil {
		return err
	}
	tasks := taskmap.New(
		taskmap.WithTransferRadius(d.tuning.TransferRadius),
		taskmap.WithFreeTaskDelay(game.Interval(d.tuning.FreeTaskDelay)),
	)
	if err := tasks.Restore(snap.Tasks); err != nil {
		return err
	}

	src := rand.NewPCG(d.tuning.Seed, d.tuning.Seed)
	if len(snap.Rand) > 0 {
		if err := src.UnmarshalBinary(snap.Rand); err != nil {
			return fmt.Errorf("restoring random source: %w", err)
		}
	}

	locks := activity.NewLockSet()
	for _, al := range snap.Locks {
		for _, a := range al.Activities {
			locks.Lock(al.Actor, a)
		}
	}

	for _, a := range d.world.Actors() {
		if err := d.world.RemoveActor(a.Id); err != nil {
			return fmt.Errorf("clearing %s: %w", a.Id, err)
		}
	}
	for _, a := range snap.Actors {
		if err := d.world.AddActor(a); err != nil {
			return fmt.Errorf("restoring %s: %w", a.Id, err)
		}
	}
	d.world.SetStockpile(snap.Stockpile)

	d.queue = queue
	d.tasks = tasks
	d.locks = locks
	d.src = src
	d.rnd = rand.New(src)
	d.runID = snap.RunID
	d.now = snap.Now
	return nil
}

func (d *Driver) saveSnapshot(ctx context.Context) {
	if d.snapshots == nil {
		return
	}

	snap, err := d.Snapshot()
	if err != nil {
		slog.ErrorContext(ctx, "taking snapshot", "error", err)
		return
	}
	if err := d.snapshots.Save(snap); err != nil {
		slog.ErrorContext(ctx, "saving snapshot", "error", err)
		return
	}
	slog.InfoContext(ctx, "saved snapshot", "run", snap.RunID, "time", snap.Now, "actors", len(snap.Actors), "tasks", len(snap.Tasks.Tasks))
}

// snapshotManager saves a snapshot every few ticks.
type snapshotManager struct {
	d     *Driver
	every int
	ticks int
}

func (m *snapshotManager) Tick(ctx context.Context) error {
	m.ticks++
	if m.ticks%m.every == 0 {
		m.d.saveSnapshot(ctx)
	}
	return nil
}
