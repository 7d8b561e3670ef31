package command

import (
	"encoding/json"
	"testing"

	"github.com/pixil98/go-colony/internal/activity"
	"github.com/pixil98/go-colony/internal/game"
	"github.com/pixil98/go-colony/internal/messaging"
	"github.com/pixil98/go-colony/internal/taskmap"
	"github.com/pixil98/go-testutil"
)

const sampleConfig = `{
	"tick_interval": "500ms",
	"nats": {"in_process": true},
	"scheduler": {
		"world": {
			"rows": [
				"..#..",
				"..~..",
				"....."
			],
			"features": [{"x": 4, "y": 0, "type": "bed"}],
			"actors": [
				{"id": 1, "name": "Ada", "position": {"x": 0, "y": 0}, "movement": "walk", "activity": "dig"},
				{"id": 2, "name": "Bob", "position": {"x": 4, "y": 2}, "movement": "walk+swim", "player": true}
			],
			"stockpile": {"wood": 4}
		},
		"tasks": [
			{"kind": "dig", "activity": "dig", "x": 2, "y": 0, "transferable": true, "priority": true},
			{"kind": "build", "activity": "build", "x": 1, "y": 2, "cost": {"resource": "wood", "amount": 3}}
		]
	}
}`

func loadSample(t *testing.T) *Config {
	t.Helper()
	cfg := &Config{}
	if err := json.Unmarshal([]byte(sampleConfig), cfg); err != nil {
		t.Fatalf("unmarshalling config: %v", err)
	}
	return cfg
}

func TestConfig_Validate(t *testing.T) {
	tests := map[string]struct {
		mutate func(*Config)
		expErr bool
	}{
		"sample is valid": {
			mutate: func(*Config) {},
		},
		"tick too short": {
			mutate: func(c *Config) { c.TickInterval = "1ms" },
			expErr: true,
		},
		"ragged rows": {
			mutate: func(c *Config) { c.Scheduler.World.Rows[1] = "..." },
			expErr: true,
		},
		"unknown terrain": {
			mutate: func(c *Config) { c.Scheduler.World.Rows[2] = "..X.." },
			expErr: true,
		},
		"duplicate actor": {
			mutate: func(c *Config) { c.Scheduler.World.Actors[1].Id = 1 },
			expErr: true,
		},
		"actor off the map": {
			mutate: func(c *Config) { c.Scheduler.World.Actors[0].Pos = game.Position{X: 9, Y: 9} },
			expErr: true,
		},
		"unknown assigned activity": {
			mutate: func(c *Config) { c.Scheduler.World.Actors[0].Activity = "juggle" },
			expErr: true,
		},
		"idle task": {
			mutate: func(c *Config) { c.Scheduler.Tasks[0].Activity = activity.Idle },
			expErr: true,
		},
		"bad template": {
			mutate: func(c *Config) { c.Nats.Templates = map[messaging.EventType]string{messaging.EventTurn: "{{ .Nope"} },
			expErr: true,
		},
		"negative snapshot interval": {
			mutate: func(c *Config) { c.Storage.Snapshot.EveryTicks = -1 },
			expErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := loadSample(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			testutil.AssertEqual(t, "error", err != nil, tt.expErr)
		})
	}
}

func TestSchedulerConfig_BuildWorld(t *testing.T) {
	cfg := loadSample(t)

	w, err := cfg.Scheduler.World.BuildWorld()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	width, height := w.Size()
	testutil.AssertEqual(t, "width", width, 5)
	testutil.AssertEqual(t, "height", height, 3)
	testutil.AssertEqual(t, "wall", w.Terrain(game.Position{X: 2, Y: 0}), game.TerrainWall)
	testutil.AssertEqual(t, "water", w.Terrain(game.Position{X: 2, Y: 1}), game.TerrainWater)
	testutil.AssertEqual(t, "floor", w.Terrain(game.Position{X: 0, Y: 2}), game.TerrainFloor)
	f, ok := w.FeatureAt(game.Position{X: 4, Y: 0})
	testutil.AssertEqual(t, "bed placed", ok, true)
	testutil.AssertEqual(t, "bed", f, game.FeatureBed)
	testutil.AssertEqual(t, "wood", w.Stockpile()["wood"], 4)
	testutil.AssertEqual(t, "actors wait for populate", len(w.Actors()), 0)

	testutil.AssertEqual(t, "task kind", cfg.Scheduler.Tasks[1].Kind, taskmap.KindBuild)
	testutil.AssertEqual(t, "bob swims", cfg.Scheduler.World.Actors[1].Moves.Has(game.MoveSwim), true)
}
