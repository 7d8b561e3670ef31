package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-colony/internal/messaging"
	"github.com/pixil98/go-errors"
)

type NatsConfig struct {
	Host         string `json:"host"`
	Port         int    `json:"port"`
	StartTimeout string `json:"start_timeout"`

	// InProcess keeps the server off the network.
	InProcess bool `json:"in_process"`

	// Templates override the text rendered for each event type.
	Templates map[messaging.EventType]string `json:"templates"`
}

func (n *NatsConfig) validate() error {
	el := errors.NewErrorList()

	if n.StartTimeout != "" {
		_, err := time.ParseDuration(n.StartTimeout)
		if err != nil {
			el.Add(fmt.Errorf("parsing start_timeout: %w", err))
		}
	}
	if n.Port < 0 || n.Port > 65535 {
		el.Add(fmt.Errorf("port %d out of range", n.Port))
	}
	if _, err := messaging.NewFormatter(n.Templates); err != nil {
		el.Add(fmt.Errorf("templates: %w", err))
	}

	return el.Err()
}

func (c *NatsConfig) buildNatsServer() (*messaging.NatsServer, error) {
	var opts []messaging.NatsServerOpt
	if c.StartTimeout != "" {
		d, err := time.ParseDuration(c.StartTimeout)
		if err != nil {
			return nil, fmt.Errorf("parsing start_timeout: %w", err)
		}
		opts = append(opts, messaging.WithStartTimeout(d))
	}
	if c.Host != "" {
		opts = append(opts, messaging.WithHost(c.Host))
	}
	if c.Port != 0 {
		opts = append(opts, messaging.WithPort(c.Port))
	}
	if c.InProcess {
		opts = append(opts, messaging.WithInProcess())
	}

	s, err := messaging.NewNatsServer(opts...)
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (c *NatsConfig) buildEventPublisher(s *messaging.NatsServer) (*messaging.EventPublisher, error) {
	f, err := messaging.NewFormatter(c.Templates)
	if err != nil {
		return nil, fmt.Errorf("building event formatter: %w", err)
	}
	return messaging.NewEventPublisher(s, f), nil
}
