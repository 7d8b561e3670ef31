package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

// NatsServer runs an embedded NATS server together with the client
// connection the rest of the process talks through.
type NatsServer struct {
	ns   *server.Server
	conn *nats.Conn

	ready chan struct{}

	startupTimeout time.Duration
	host           string
	port           int
	inProcess      bool
}

func NewNatsServer(opts ...NatsServerOpt) (*NatsServer, error) {
	s := &NatsServer{
		startupTimeout: 10 * time.Second,
		host:           "127.0.0.1",
		ready:          make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	ns, err := server.NewServer(&server.Options{
		Host:       s.host,
		Port:       s.port,
		DontListen: s.inProcess,
		NoSigs:     true, // Let the application handle signals
	})
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}
	s.ns = ns

	return s, nil
}

func (n *NatsServer) Start(ctx context.Context) error {
	n.ns.Start()

	if !n.ns.ReadyForConnections(n.startupTimeout) {
		return fmt.Errorf("nats server not ready for connections")
	}

	conn, err := n.connect()
	if err != nil {
		n.ns.Shutdown()
		return fmt.Errorf("creating nats client connection: %w", err)
	}
	n.conn = conn
	close(n.ready)

	if n.inProcess {
		slog.InfoContext(ctx, "nats server running in process")
	} else {
		slog.InfoContext(ctx, "nats server listening", "addr", n.ns.Addr())
	}

	<-ctx.Done()
	n.conn.Close()
	n.ns.Shutdown()
	n.ns.WaitForShutdown()

	return nil
}

func (n *NatsServer) connect() (*nats.Conn, error) {
	if n.inProcess {
		return nats.Connect(n.clientURL(), nats.InProcessServer(n.ns))
	}
	return nats.Connect(n.clientURL())
}

// Ready is closed once the client connection is up.
func (n *NatsServer) Ready() <-chan struct{} {
	return n.ready
}

// WaitReady blocks until the server accepts messages or ctx is done.
func (n *NatsServer) WaitReady(ctx context.Context) error {
	select {
	case <-n.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe creates a subscription on the given subject.
// The handler is called for each message received.
// Returns an unsubscribe function to remove the subscription.
func (n *NatsServer) Subscribe(subject string, handler func(data []byte)) (func(), error) {
	conn, err := n.client()
	if err != nil {
		return nil, err
	}
	sub, err := conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return nil, err
	}
	return func() { _ = sub.Unsubscribe() }, nil
}

// Respond answers requests on subject with whatever handler returns. A
// handler error is sent back as the reply text.
func (n *NatsServer) Respond(subject string, handler func(req []byte) ([]byte, error)) (func(), error) {
	conn, err := n.client()
	if err != nil {
		return nil, err
	}
	sub, err := conn.Subscribe(subject, func(msg *nats.Msg) {
		reply, err := handler(msg.Data)
		if err != nil {
			slog.Warn("request handler failed", "subject", subject, "error", err)
			reply = []byte(err.Error())
		}
		if err := msg.Respond(reply); err != nil {
			slog.Warn("failed to send reply", "subject", subject, "error", err)
		}
	})
	if err != nil {
		return nil, err
	}
	return func() { _ = sub.Unsubscribe() }, nil
}

// Request sends data to subject and waits for a single reply.
func (n *NatsServer) Request(subject string, data []byte, timeout time.Duration) ([]byte, error) {
	conn, err := n.client()
	if err != nil {
		return nil, err
	}
	msg, err := conn.Request(subject, data, timeout)
	if err != nil {
		return nil, err
	}
	return msg.Data, nil
}

// Publish sends a message to the given subject
func (n *NatsServer) Publish(subject string, data []byte) error {
	conn, err := n.client()
	if err != nil {
		return err
	}
	return conn.Publish(subject, data)
}

func (n *NatsServer) client() (*nats.Conn, error) {
	select {
	case <-n.ready:
		return n.conn, nil
	default:
		return nil, ErrNotStarted
	}
}

func (n *NatsServer) clientURL() string {
	return fmt.Sprintf("nats://%s:%d", n.host, n.port)
}
