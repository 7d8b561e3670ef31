package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
)

type Config struct {
	TickInterval string          `json:"tick_interval"`
	Storage      StorageConfig   `json:"storage"`
	Nats         NatsConfig      `json:"nats"`
	Scheduler    SchedulerConfig `json:"scheduler"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	d, err := time.ParseDuration(c.TickInterval)
	if err != nil {
		el.Add(fmt.Errorf("parsing tick_interval: %w", err))
	} else if d < 10*time.Millisecond {
		el.Add(fmt.Errorf("tick_interval must be at least 10ms"))
	}

	el.Add(c.Storage.validate())
	el.Add(c.Nats.validate())
	el.Add(c.Scheduler.validate())

	return el.Err()
}

func (c *Config) tickLength() time.Duration {
	d, _ := time.ParseDuration(c.TickInterval)
	return d
}
