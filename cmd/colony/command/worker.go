package command

import (
	"fmt"
	"log/slog"

	"github.com/pixil98/go-colony/internal/driver"
	"github.com/pixil98/go-colony/internal/messaging"
	"github.com/pixil98/go-colony/internal/tuning"
	"github.com/pixil98/go-service"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	tn, err := tuning.Load(cfg.Scheduler.Tuning)
	if err != nil {
		return nil, fmt.Errorf("loading tuning: %w", err)
	}

	catalog, err := cfg.Storage.BuildCatalog()
	if err != nil {
		return nil, fmt.Errorf("building activity catalog: %w", err)
	}

	world, err := cfg.Scheduler.World.BuildWorld()
	if err != nil {
		return nil, fmt.Errorf("building world: %w", err)
	}

	// Setup the event bus
	nats, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}
	events, err := cfg.Nats.buildEventPublisher(nats)
	if err != nil {
		return nil, err
	}

	opts := []driver.DriverOpt{
		driver.WithTickLength(cfg.tickLength()),
		driver.WithTuning(tn),
		driver.WithEvents(events),
		driver.WithReady(nats.Ready()),
	}

	snapshots, err := cfg.Storage.Snapshot.buildSnapshotStore()
	if err != nil {
		return nil, fmt.Errorf("creating snapshot store: %w", err)
	}
	if snapshots != nil {
		opts = append(opts, driver.WithSnapshots(snapshots, cfg.Storage.Snapshot.EveryTicks))
	}

	// Setup the scheduler, resuming the last run when there is one
	d := driver.NewDriver(world, catalog, opts...)

	resumed := false
	if snapshots != nil {
		snap, err := loadSnapshot(snapshots)
		if err != nil {
			return nil, fmt.Errorf("loading snapshot: %w", err)
		}
		if snap != nil {
			if err := d.Restore(snap); err != nil {
				return nil, fmt.Errorf("restoring snapshot: %w", err)
			}
			slog.Info("resumed from snapshot", "path", snapshots.Path(), "run", snap.RunID, "time", snap.Now)
			resumed = true
		}
	}
	if !resumed {
		if err := cfg.Scheduler.Populate(d); err != nil {
			return nil, fmt.Errorf("populating scheduler: %w", err)
		}
	}

	inspect := messaging.NewResponder(nats, messaging.InspectSubject, func([]byte) ([]byte, error) {
		return []byte(d.Inspect()), nil
	})

	// Create a worker list
	return service.WorkerList{
		"nats":    nats,
		"driver":  d,
		"inspect": inspect,
	}, nil
}
