// Package activity holds the closed set of work categories actors pursue,
// the world features hosting each one, how long a turn of it takes, and the
// per-actor locks that keep an activity from being assigned automatically.
package activity

import (
	"errors"
	"fmt"
)

var ErrUnknownActivity = errors.New("unknown activity")

// Activity is a category of work used to bucket tasks.
type Activity int

const (
	Idle Activity = iota
	Sleep
	Eat
	Train
	Study
	Craft
	Worship
	Dig
	Build
	Haul
	Guard
	Explore

	numActivities
)

var names = [numActivities]string{
	Idle:    "idle",
	Sleep:   "sleep",
	Eat:     "eat",
	Train:   "train",
	Study:   "study",
	Craft:   "craft",
	Worship: "worship",
	Dig:     "dig",
	Build:   "build",
	Haul:    "haul",
	Guard:   "guard",
	Explore: "explore",
}

// All returns every activity in declaration order.
func All() []Activity {
	out := make([]Activity, 0, numActivities)
	for a := Idle; a < numActivities; a++ {
		out = append(out, a)
	}
	return out
}

// Valid reports whether a is one of the declared activities.
func (a Activity) Valid() bool {
	return a >= 0 && a < numActivities
}

func (a Activity) String() string {
	if !a.Valid() {
		return fmt.Sprintf("activity(%d)", int(a))
	}
	return names[a]
}

// Parse returns the activity with the given name.
func Parse(s string) (Activity, error) {
	for a, n := range names {
		if n == s {
			return Activity(a), nil
		}
	}
	return Idle, fmt.Errorf("%w: %q", ErrUnknownActivity, s)
}

func (a Activity) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownActivity, int(a))
	}
	return []byte(names[a]), nil
}

func (a *Activity) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
