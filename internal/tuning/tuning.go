// Package tuning loads the balancing constants of the scheduler from YAML.
package tuning

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"
	"gopkg.in/yaml.v3"
)

type Tuning struct {
	// TransferRadius is how close an actor must be to take over a task
	// another actor owns.
	TransferRadius int `yaml:"transfer_radius"`

	// FreeTaskDelay is how long a released task is hidden from assignment.
	FreeTaskDelay int64 `yaml:"free_task_delay"`

	// TurnWindow is how much simulation time one driver step covers.
	TurnWindow int64 `yaml:"turn_window"`

	// DefaultTurnInterval is how long a turn takes when nothing else says so.
	DefaultTurnInterval int64 `yaml:"default_turn_interval"`

	// WorkPerTurn is how many work units an actor applies to its task per turn.
	WorkPerTurn int `yaml:"work_per_turn"`

	// Seed feeds the random activity picks of idle actors.
	Seed uint64 `yaml:"seed"`
}

// Default returns the built-in tuning.
func Default() Tuning {
	return Tuning{
		TransferRadius:      4,
		FreeTaskDelay:       20,
		TurnWindow:          1,
		DefaultTurnInterval: 1,
		WorkPerTurn:         1,
		Seed:                1,
	}
}

// Load reads the tuning file at path. Keys missing from the file keep their
// defaults. An empty path yields the defaults.
func Load(path string) (Tuning, error) {
	t := Default()
	if path == "" {
		return t, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("reading tuning: %w", err)
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("validating %s: %w", path, err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	el := errors.NewErrorList()

	if t.TransferRadius < 0 {
		el.Add(fmt.Errorf("transfer_radius must not be negative"))
	}
	if t.FreeTaskDelay < 0 {
		el.Add(fmt.Errorf("free_task_delay must not be negative"))
	}
	if t.TurnWindow < 1 {
		el.Add(fmt.Errorf("turn_window must be at least 1"))
	}
	if t.DefaultTurnInterval < 1 {
		el.Add(fmt.Errorf("default_turn_interval must be at least 1"))
	}
	if t.WorkPerTurn < 1 {
		el.Add(fmt.Errorf("work_per_turn must be at least 1"))
	}

	return el.Err()
}
