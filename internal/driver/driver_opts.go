package driver

import (
	"time"

	"github.com/pixil98/go-colony/internal/tuning"
)

type DriverOpt func(*Driver)

func WithTickLength(tickLength time.Duration) DriverOpt {
	return func(d *Driver) {
		d.tickLength = tickLength
	}
}

func WithTuning(t tuning.Tuning) DriverOpt {
	return func(d *Driver) {
		d.tuning = t
	}
}

func WithEvents(events EventSink) DriverOpt {
	return func(d *Driver) {
		d.events = events
	}
}

func WithManagers(managers ...Manager) DriverOpt {
	return func(d *Driver) {
		d.managers = append(d.managers, managers...)
	}
}

// WithSnapshots saves a snapshot every n ticks and on shutdown.
func WithSnapshots(s SnapshotSaver, every int) DriverOpt {
	return func(d *Driver) {
		d.snapshots = s
		if every > 0 {
			d.managers = append(d.managers, &snapshotManager{d: d, every: every})
		}
	}
}

// WithReady holds off the first tick until ready is closed.
func WithReady(ready <-chan struct{}) DriverOpt {
	return func(d *Driver) {
		d.ready = ready
	}
}
