package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-colony/internal/activity"
	"github.com/pixil98/go-colony/internal/driver"
	"github.com/pixil98/go-colony/internal/game"
	"github.com/pixil98/go-colony/internal/taskmap"
	"github.com/pixil98/go-errors"
)

var terrainGlyphs = map[rune]game.Terrain{
	'.': game.TerrainFloor,
	'#': game.TerrainWall,
	'~': game.TerrainWater,
	'_': game.TerrainChasm,
}

type SchedulerConfig struct {
	// Tuning is the path of the YAML tuning file. Defaults apply when empty.
	Tuning string `json:"tuning"`

	World WorldConfig  `json:"world"`
	Tasks []TaskConfig `json:"tasks"`
}

func (c *SchedulerConfig) validate() error {
	el := errors.NewErrorList()

	if c.Tuning != "" {
		if _, err := os.Stat(c.Tuning); err != nil {
			el.Add(fmt.Errorf("tuning: invalid path %q: %w", c.Tuning, err))
		}
	}
	el.Add(c.World.validate())
	for i, t := range c.Tasks {
		if err := t.validate(c.World.inBounds); err != nil {
			el.Add(fmt.Errorf("task %d: %w", i, err))
		}
	}

	return el.Err()
}

// Populate adds the configured actors and tasks to a fresh driver.
func (c *SchedulerConfig) Populate(d *driver.Driver) error {
	for _, a := range c.World.Actors {
		actor := *a
		if err := d.AddActor(&actor); err != nil {
			return err
		}
	}
	for i, t := range c.Tasks {
		pos := &game.Position{X: t.X, Y: t.Y}
		if _, err := d.AddTask(t.task(), pos); err != nil {
			return fmt.Errorf("adding task %d: %w", i, err)
		}
		if t.Priority {
			d.MarkPriority(*pos)
		}
	}
	return nil
}

type WorldConfig struct {
	// Rows draws the map one line per row: '.' floor, '#' wall, '~' water
	// and '_' chasm.
	Rows      []string        `json:"rows"`
	Features  []FeatureConfig `json:"features"`
	Actors    []*game.Actor   `json:"actors"`
	Stockpile map[string]int  `json:"stockpile"`
}

type FeatureConfig struct {
	X    int              `json:"x"`
	Y    int              `json:"y"`
	Type game.FeatureType `json:"type"`
}

func (c *WorldConfig) size() (int, int) {
	if len(c.Rows) == 0 {
		return 0, 0
	}
	return len(c.Rows[0]), len(c.Rows)
}

func (c *WorldConfig) inBounds(x, y int) bool {
	w, h := c.size()
	return x >= 0 && y >= 0 && x < w && y < h
}

func (c *WorldConfig) validate() error {
	el := errors.NewErrorList()

	width, _ := c.size()
	if width == 0 {
		el.Add(fmt.Errorf("world: rows are required"))
	}
	for y, row := range c.Rows {
		if len(row) != width {
			el.Add(fmt.Errorf("world: row %d is %d wide, expected %d", y, len(row), width))
		}
		for x, r := range row {
			if _, ok := terrainGlyphs[r]; !ok {
				el.Add(fmt.Errorf("world: unknown terrain %q at (%d,%d)", r, x, y))
			}
		}
	}
	for i, f := range c.Features {
		if f.Type == "" {
			el.Add(fmt.Errorf("world: feature %d has no type", i))
		}
		if !c.inBounds(f.X, f.Y) {
			el.Add(fmt.Errorf("world: feature %d out of bounds", i))
		}
	}

	seen := make(map[game.ActorID]bool, len(c.Actors))
	for i, a := range c.Actors {
		if a == nil || a.Id == 0 {
			el.Add(fmt.Errorf("world: actor %d needs an id", i))
			continue
		}
		if seen[a.Id] {
			el.Add(fmt.Errorf("world: %s listed twice", a.Id))
		}
		seen[a.Id] = true
		if !c.inBounds(a.Pos.X, a.Pos.Y) {
			el.Add(fmt.Errorf("world: %s out of bounds", a.Id))
		}
		if a.Activity != "" {
			if _, err := activity.Parse(a.Activity); err != nil {
				el.Add(fmt.Errorf("world: %s: %w", a.Id, err))
			}
		}
	}

	return el.Err()
}

// BuildWorld lays out the terrain, features and stockpile. Actors are added
// by Populate so they are also scheduled.
func (c *WorldConfig) BuildWorld() (*game.WorldState, error) {
	width, height := c.size()
	w := game.NewWorldState(width, height)

	for y, row := range c.Rows {
		for x, r := range row {
			if err := w.SetTerrain(game.Position{X: x, Y: y}, terrainGlyphs[r]); err != nil {
				return nil, err
			}
		}
	}
	for _, f := range c.Features {
		if err := w.AddFeature(game.Position{X: f.X, Y: f.Y}, f.Type); err != nil {
			return nil, err
		}
	}
	w.SetStockpile(c.Stockpile)

	return w, nil
}

type TaskConfig struct {
	Kind         taskmap.Kind      `json:"kind"`
	Activity     activity.Activity `json:"activity"`
	X            int               `json:"x"`
	Y            int               `json:"y"`
	Transferable bool              `json:"transferable"`
	Priority     bool              `json:"priority"`
	Storage      game.StorageID    `json:"storage"`
	Cost         taskmap.Cost      `json:"cost"`
	Work         int               `json:"work"`
}

func (c *TaskConfig) validate(inBounds func(x, y int) bool) error {
	el := errors.NewErrorList()

	if !inBounds(c.X, c.Y) {
		el.Add(fmt.Errorf("position (%d,%d) out of bounds", c.X, c.Y))
	}
	if c.Activity == activity.Idle {
		el.Add(fmt.Errorf("activity is required"))
	}
	if c.Cost.Amount < 0 {
		el.Add(fmt.Errorf("cost must not be negative"))
	}
	if c.Work < 0 {
		el.Add(fmt.Errorf("work must not be negative"))
	}

	return el.Err()
}

func (c *TaskConfig) task() taskmap.Task {
	return taskmap.Task{
		Kind:         c.Kind,
		Activity:     c.Activity,
		Transferable: c.Transferable,
		Storage:      c.Storage,
		Cost:         c.Cost,
		Work:         c.Work,
	}
}
