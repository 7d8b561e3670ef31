package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/pixil98/go-colony/internal/activity"
	"github.com/pixil98/go-colony/internal/game"
	"github.com/pixil98/go-colony/internal/taskmap"
	"github.com/pixil98/go-colony/internal/turnqueue"
	errlist "github.com/pixil98/go-errors"
)

// SnapshotVersion is the snapshot format this build reads and writes.
const SnapshotVersion = 1

var ErrNoSnapshot = errors.New("no snapshot")

// ActorLocks lists the activities locked for one actor.
type ActorLocks struct {
	Actor      game.ActorID        `json:"actor"`
	Activities []activity.Activity `json:"activities"`
}

// Snapshot is everything needed to resume a simulation with the same
// scheduling order.
type Snapshot struct {
	Version uint      `json:"version"`
	RunID   uuid.UUID `json:"run_id"`
	SavedAt time.Time `json:"saved_at"`

	Now       game.Time      `json:"now"`
	Actors    []*game.Actor  `json:"actors"`
	Stockpile map[string]int `json:"stockpile,omitempty"`
	Locks     []ActorLocks   `json:"locks,omitempty"`

	Queue turnqueue.State `json:"queue"`
	Tasks taskmap.State   `json:"tasks"`

	// Rand is the marshalled state of the generator idle actors draw their
	// activities from.
	Rand []byte `json:"rand,omitempty"`
}

func (s *Snapshot) Validate() error {
	el := errlist.NewErrorList()

	if s.Version != SnapshotVersion {
		el.Add(fmt.Errorf("unsupported snapshot version %d", s.Version))
	}
	if s.RunID == uuid.Nil {
		el.Add(fmt.Errorf("run id must be set"))
	}

	seen := make(map[game.ActorID]bool, len(s.Actors))
	for _, a := range s.Actors {
		if a == nil {
			el.Add(fmt.Errorf("nil actor"))
			continue
		}
		if seen[a.Id] {
			el.Add(fmt.Errorf("%s listed twice", a.Id))
		}
		seen[a.Id] = true
	}
	for _, id := range s.Queue.Registration {
		if !seen[id] {
			el.Add(fmt.Errorf("%s queued but not in the world", id))
		}
	}

	return el.Err()
}

// SnapshotStore saves snapshots as zstd compressed JSON at a single path.
type SnapshotStore struct {
	path string
}

func NewSnapshotStore(path string) (*SnapshotStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating snapshot directory: %w", err)
	}
	return &SnapshotStore{path: path}, nil
}

func (s *SnapshotStore) Path() string {
	return s.path
}

// Save writes snap, replacing any earlier snapshot. SavedAt is filled in
// when unset.
func (s *SnapshotStore) Save(snap *Snapshot) error {
	if snap.SavedAt.IsZero() {
		snap.SavedAt = time.Now().UTC()
	}
	if err := snap.Validate(); err != nil {
		return fmt.Errorf("validating snapshot: %w", err)
	}

	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshalling snapshot: %w", err)
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("creating encoder: %w", err)
	}
	defer func() { _ = enc.Close() }()

	return atomicWrite(s.path, enc.EncodeAll(raw, nil), 0644)
}

// Load reads the snapshot. It returns ErrNoSnapshot when none was saved yet.
func (s *SnapshotStore) Load() (*Snapshot, error) {
	compressed, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("creating decoder: %w", err)
	}
	defer dec.Close()

	raw, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("decompressing snapshot: %w", err)
	}

	snap := &Snapshot{}
	if err := json.Unmarshal(raw, snap); err != nil {
		return nil, fmt.Errorf("unmarshalling snapshot: %w", err)
	}
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("validating snapshot: %w", err)
	}
	return snap, nil
}
