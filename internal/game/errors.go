package game

import "errors"

var (
	ErrActorNotFound = errors.New("actor not found")
	ErrActorExists   = errors.New("actor already exists")
	ErrOutOfBounds   = errors.New("position out of bounds")
)
