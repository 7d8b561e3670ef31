package messaging

import "errors"

var (
	ErrNotStarted   = errors.New("nats server not started")
	ErrUnknownEvent = errors.New("unknown event type")
)
