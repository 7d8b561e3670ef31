package command

import (
	"errors"
	"fmt"
	"os"

	"github.com/pixil98/go-colony/internal/activity"
	"github.com/pixil98/go-colony/internal/storage"
	errlist "github.com/pixil98/go-errors"
)

type StorageConfig struct {
	// Activities overrides the built-in activity definitions. Optional.
	Activities AssetConfig[*activity.Definition] `json:"activities"`
	Snapshot   SnapshotConfig                    `json:"snapshot"`
}

func (c *StorageConfig) validate() error {
	el := errlist.NewErrorList()
	if c.Activities.Path != "" {
		el.Add(c.Activities.Validate("activities"))
	}
	el.Add(c.Snapshot.validate())
	return el.Err()
}

// BuildCatalog returns the built-in activity catalog with any definitions
// found under the activities path applied on top.
func (c *StorageConfig) BuildCatalog() (*activity.Catalog, error) {
	if c.Activities.Path == "" {
		return activity.NewCatalog(), nil
	}
	store, err := c.Activities.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating activity store: %w", err)
	}
	return activity.NewCatalog(store.Values()...), nil
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path"`
}

func (c *AssetConfig[T]) Validate(name string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	_, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}

	return nil
}

func (c *AssetConfig[T]) BuildFileStore() (*storage.FileStore[T], error) {
	return storage.NewFileStore[T](c.Path)
}

type SnapshotConfig struct {
	// Path is where the snapshot is kept. Snapshots are off when empty.
	Path string `json:"path"`

	// EveryTicks is how many driver ticks pass between saves. Zero only
	// saves on shutdown.
	EveryTicks int `json:"every_ticks"`
}

func (c *SnapshotConfig) validate() error {
	if c.EveryTicks < 0 {
		return fmt.Errorf("snapshot: every_ticks must not be negative")
	}
	return nil
}

func (c *SnapshotConfig) buildSnapshotStore() (*storage.SnapshotStore, error) {
	if c.Path == "" {
		return nil, nil
	}
	return storage.NewSnapshotStore(c.Path)
}

// loadSnapshot returns the saved snapshot, or nil when there is none yet.
func loadSnapshot(store *storage.SnapshotStore) (*storage.Snapshot, error) {
	snap, err := store.Load()
	if errors.Is(err, storage.ErrNoSnapshot) {
		return nil, nil
	}
	return snap, err
}
