package taskmap

import "errors"

var (
	ErrUnknownKind  = errors.New("unknown task kind")
	ErrTaskNotFound = errors.New("task not found")
)
