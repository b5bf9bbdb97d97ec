package emulator

import (
	"time"

	"gopkg.in/tomb.v2"
)

// ClockConfig is used to configure a clock.
type ClockConfig struct {
	// The period between steps.
	Interval time.Duration

	// The callback used to observe every tick. Runs in the worker.
	OnTick func(done bool, err error)
}

// Clock steps an emulator once per interval in a background worker,
// until the CPU stops or the clock is stopped. The emulator must not be
// used by anything else while the clock runs.
type Clock struct {
	emu    *Emulator
	config ClockConfig

	tomb tomb.Tomb
}

// NewClock will create and start a new clock.
func NewClock(emu *Emulator, config ClockConfig) *Clock {
	// check interval
	if config.Interval <= 0 {
		panic("emulator: missing interval")
	}

	c := &Clock{
		emu:    emu,
		config: config,
	}

	// run worker
	c.tomb.Go(c.worker)

	return c
}

// Wait blocks until the CPU stops, and returns its fault if any.
func (c *Clock) Wait() error {
	return c.tomb.Wait()
}

// Done is closed once the worker has exited.
func (c *Clock) Done() <-chan struct{} {
	return c.tomb.Dead()
}

// Stop will stop the clock, and wait for the worker to exit.
func (c *Clock) Stop() error {
	c.tomb.Kill(nil)
	return c.tomb.Wait()
}

func (c *Clock) worker() error {
	ticker := time.NewTicker(c.config.Interval)
	defer ticker.Stop()

	for {
		// wait for tick or close
		select {
		case <-ticker.C:
		case <-c.tomb.Dying():
			return tomb.ErrDying
		}

		done, err := c.emu.Tick()
		if c.config.OnTick != nil {
			c.config.OnTick(done, err)
		}
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}
