package activity

import (
	"math/rand/v2"
	"slices"

	"github.com/pixil98/go-colony/internal/game"
)

var builtin = []*Definition{
	{Activity: Idle, Duration: DurationPolicy{Fixed: 1}},
	{Activity: Sleep, Features: []game.FeatureType{game.FeatureBed}, Duration: DurationPolicy{Base: 20, Attribute: "stamina", PerPoint: 1}},
	{Activity: Eat, Features: []game.FeatureType{game.FeatureTable}, Duration: DurationPolicy{Fixed: 5}},
	{Activity: Train, Features: []game.FeatureType{game.FeatureTrainingDummy}, Duration: DurationPolicy{Base: 10, Attribute: "strength", PerPoint: 1}},
	{Activity: Study, Features: []game.FeatureType{game.FeatureLibrary, game.FeatureLaboratory}, Duration: DurationPolicy{Fixed: 10}},
	{Activity: Craft, Features: []game.FeatureType{game.FeatureWorkshop, game.FeatureForge}, Duration: DurationPolicy{Base: 12, Attribute: "dexterity", PerPoint: 1}},
	{Activity: Worship, Features: []game.FeatureType{game.FeatureAltar}, Duration: DurationPolicy{Fixed: 8}, RandomOnly: true},
	{Activity: Dig, TaskDriven: true, Duration: DurationPolicy{Base: 6, Attribute: "strength", PerPoint: 1}},
	{Activity: Build, TaskDriven: true, Duration: DurationPolicy{Fixed: 4}},
	{Activity: Haul, TaskDriven: true, Duration: DurationPolicy{Fixed: 2}},
	{Activity: Guard, TaskDriven: true, Duration: DurationPolicy{Fixed: 3}},
	{Activity: Explore, TaskDriven: true, Duration: DurationPolicy{Fixed: 2}, RandomOnly: true},
}

// Catalog maps every activity to its definition. It is read-only after
// construction.
type Catalog struct {
	defs [numActivities]*Definition
}

// NewCatalog builds a catalog from the built-in table with the given
// definitions replacing the built-in ones for the same activity.
func NewCatalog(overrides ...*Definition) *Catalog {
	c := &Catalog{}
	for _, d := range builtin {
		c.defs[d.Activity] = d
	}
	for _, d := range overrides {
		if d != nil && d.Activity.Valid() {
			c.defs[d.Activity] = d
		}
	}
	return c
}

// Get returns the definition for a.
func (c *Catalog) Get(a Activity) *Definition {
	if !a.Valid() {
		return nil
	}
	return c.defs[a]
}

// Features returns the feature types that can host a.
func (c *Catalog) Features(a Activity) []game.FeatureType {
	if d := c.Get(a); d != nil {
		return d.Features
	}
	return nil
}

// Duration returns how long one turn of a takes for the given actor.
func (c *Catalog) Duration(a Activity, attrs Attributes) game.Interval {
	if d := c.Get(a); d != nil {
		return d.Duration.Duration(attrs)
	}
	return minDuration
}

// IsTaskDriven reports whether work for a comes from the task map.
func (c *Catalog) IsTaskDriven(a Activity) bool {
	d := c.Get(a)
	return d != nil && d.TaskDriven
}

// ActivitiesFor returns every activity that feature type f can host.
func (c *Catalog) ActivitiesFor(f game.FeatureType) []Activity {
	var out []Activity
	for _, a := range All() {
		if slices.Contains(c.Features(a), f) {
			out = append(out, a)
		}
	}
	return out
}

// Available reports whether a may be given to the actor automatically.
// Explicit selects the rule for an activity the actor was assigned rather
// than one picked at random.
func (c *Catalog) Available(locks *LockSet, actor game.ActorID, a Activity, explicit bool) bool {
	d := c.Get(a)
	if d == nil {
		return false
	}
	if locks.IsLocked(actor, a) {
		return false
	}
	return !explicit || !d.RandomOnly
}

// Choose picks the activity the actor should pursue this turn. An assigned
// activity is used while it is available; otherwise one of the available
// activities other than Idle is drawn from rnd. Idle is returned when
// nothing else is available.
func (c *Catalog) Choose(locks *LockSet, actor game.ActorID, assigned Activity, hasAssigned bool, rnd *rand.Rand) Activity {
	if hasAssigned && assigned != Idle && c.Available(locks, actor, assigned, true) {
		return assigned
	}

	var options []Activity
	for _, a := range All() {
		if a == Idle {
			continue
		}
		if c.Available(locks, actor, a, false) {
			options = append(options, a)
		}
	}
	if len(options) == 0 || rnd == nil {
		return Idle
	}
	return options[rnd.IntN(len(options))]
}
