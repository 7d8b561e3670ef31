package messaging

import (
	"context"
	"fmt"
	"log/slog"
)

// Responder is a worker answering requests on one subject for as long as it
// runs. It waits for the server before subscribing.
type Responder struct {
	srv     *NatsServer
	subject string
	handler func(req []byte) ([]byte, error)
}

func NewResponder(srv *NatsServer, subject string, handler func(req []byte) ([]byte, error)) *Responder {
	return &Responder{srv: srv, subject: subject, handler: handler}
}

func (r *Responder) Start(ctx context.Context) error {
	if err := r.srv.WaitReady(ctx); err != nil {
		// Shut down before the server came up.
		return nil
	}

	stop, err := r.srv.Respond(r.subject, r.handler)
	if err != nil {
		return fmt.Errorf("responding on %s: %w", r.subject, err)
	}
	defer stop()

	slog.InfoContext(ctx, "answering requests", "subject", r.subject)
	<-ctx.Done()
	return nil
}
