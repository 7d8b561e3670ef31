package game

// Actor is an autonomous agent in the world. Actors are owned by the
// WorldState; the scheduling core only refers to them by ActorID.
type Actor struct {
	Id    ActorID  `json:"id"`
	Name  string   `json:"name"`
	Pos   Position `json:"position"`
	Moves Movement `json:"movement"`
	Clock Time     `json:"local_time"`

	// Player is set for actors under direct player control.
	Player bool `json:"player,omitempty"`

	// Activity is the activity the actor was explicitly assigned, if any.
	Activity string `json:"activity,omitempty"`

	// Carrying is the storage kind of the goods the actor currently holds.
	Carrying StorageID `json:"carrying,omitempty"`

	Attributes map[string]int `json:"attributes,omitempty"`
}

func (a *Actor) ActorID() ActorID   { return a.Id }
func (a *Actor) Position() Position { return a.Pos }
func (a *Actor) Movement() Movement { return a.Moves }
func (a *Actor) LocalTime() Time    { return a.Clock }

// Attribute returns the named attribute, or zero when unset.
func (a *Actor) Attribute(name string) int {
	return a.Attributes[name]
}
