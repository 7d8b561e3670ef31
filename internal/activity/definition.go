package activity

import (
	"fmt"

	"github.com/pixil98/go-colony/internal/game"
	"github.com/pixil98/go-errors"
)

const minDuration game.Interval = 1

// Attributes exposes the named actor attributes a duration can depend on.
type Attributes interface {
	Attribute(name string) int
}

// DurationPolicy computes how long one turn of an activity takes. A fixed
// duration wins; otherwise the duration is Base reduced by PerPoint for each
// point of the named attribute, never below one.
type DurationPolicy struct {
	Fixed     game.Interval `json:"fixed,omitempty"`
	Base      game.Interval `json:"base,omitempty"`
	Attribute string        `json:"attribute,omitempty"`
	PerPoint  game.Interval `json:"per_point,omitempty"`
}

// Duration returns the turn length for an actor with the given attributes.
func (d DurationPolicy) Duration(attrs Attributes) game.Interval {
	if d.Fixed > 0 {
		return d.Fixed
	}
	out := d.Base
	if d.Attribute != "" && attrs != nil {
		out -= d.PerPoint * game.Interval(attrs.Attribute(d.Attribute))
	}
	return max(out, minDuration)
}

func (d DurationPolicy) validate() error {
	el := errors.NewErrorList()

	if d.Fixed < 0 || d.Base < 0 || d.PerPoint < 0 {
		el.Add(fmt.Errorf("durations must not be negative"))
	}
	if d.Fixed == 0 && d.Base == 0 {
		el.Add(fmt.Errorf("either fixed or base duration is required"))
	}
	if d.PerPoint > 0 && d.Attribute == "" {
		el.Add(fmt.Errorf("per_point requires an attribute"))
	}

	return el.Err()
}

// Definition describes one activity. Task-driven activities draw their work
// from the task map; the others are performed at a hosting feature.
type Definition struct {
	Activity   Activity           `json:"activity"`
	Features   []game.FeatureType `json:"features,omitempty"`
	Duration   DurationPolicy     `json:"duration"`
	TaskDriven bool               `json:"task_driven,omitempty"`

	// RandomOnly activities are never taken from an explicit assignment,
	// only when an idle actor picks something at random.
	RandomOnly bool `json:"random_only,omitempty"`
}

// Validate satisfies storage.ValidatingSpec
func (d *Definition) Validate() error {
	el := errors.NewErrorList()

	if !d.Activity.Valid() {
		el.Add(fmt.Errorf("%w: %d", ErrUnknownActivity, int(d.Activity)))
	}
	if d.TaskDriven && len(d.Features) > 0 {
		el.Add(fmt.Errorf("%s: task driven activities cannot be hosted by features", d.Activity))
	}
	if !d.TaskDriven && d.Activity != Idle && len(d.Features) == 0 {
		el.Add(fmt.Errorf("%s: at least one feature is required", d.Activity))
	}
	if err := d.Duration.validate(); err != nil {
		el.Add(fmt.Errorf("%s: duration: %w", d.Activity, err))
	}

	return el.Err()
}
