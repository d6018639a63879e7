package eeprom

import (
	"errors"
	"fmt"
	"time"

	"github.com/i2cflash/i2cflash-go/pkg/i2c"
	"github.com/i2cflash/i2cflash-go/pkg/log"
)

// Write cycle timing.
const (
	// WriteCycleTimeMax is the longest internal write cycle of any catalog part.
	WriteCycleTimeMax = 5 * time.Millisecond

	// WriteCycleMargin multiplies WriteCycleTimeMax for the default wait.
	WriteCycleMargin = 4

	// DefaultPollInterval is the pause between acknowledge probes.
	DefaultPollInterval = 100 * time.Microsecond
)

// WaitResult reports how a write cycle wait went.
type WaitResult struct {
	Strategy log.WaitStrategy
	Waited   time.Duration
	Polls    int
}

// WriteCycleWaiter blocks until the chip behind port has finished its
// internal write cycle. It returns an error wrapping ErrWriteTimeout when
// completion cannot be confirmed.
type WriteCycleWaiter interface {
	WaitWriteCycle(port i2c.Port) (WaitResult, error)
}

// FixedDelay sleeps for a fixed time after every page write.
type FixedDelay struct {
	// Delay defaults to WriteCycleMargin * WriteCycleTimeMax.
	Delay time.Duration
}

func (f FixedDelay) delay() time.Duration {
	if f.Delay > 0 {
		return f.Delay
	}
	return WriteCycleMargin * WriteCycleTimeMax
}

// WaitWriteCycle implements WriteCycleWaiter. It never fails.
func (f FixedDelay) WaitWriteCycle(i2c.Port) (WaitResult, error) {
	d := f.delay()
	time.Sleep(d)
	return WaitResult{Strategy: log.WaitFixed, Waited: d}, nil
}

// AckPolling probes the chip until it acknowledges its address. A chip in
// its write cycle does not acknowledge. Ports without i2c.Prober fall back
// to a fixed delay of Timeout.
type AckPolling struct {
	// Timeout bounds the wait. Defaults to WriteCycleMargin * WriteCycleTimeMax.
	Timeout time.Duration

	// Interval between probes. Defaults to DefaultPollInterval.
	Interval time.Duration
}

// WaitWriteCycle implements WriteCycleWaiter.
func (a AckPolling) WaitWriteCycle(port i2c.Port) (WaitResult, error) {
	timeout := a.Timeout
	if timeout <= 0 {
		timeout = WriteCycleMargin * WriteCycleTimeMax
	}
	interval := a.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	prober, ok := port.(i2c.Prober)
	if !ok {
		return FixedDelay{Delay: timeout}.WaitWriteCycle(port)
	}

	start := time.Now()
	res := WaitResult{Strategy: log.WaitAckPolling}
	for {
		res.Polls++
		err := prober.Probe()
		res.Waited = time.Since(start)
		if err == nil {
			return res, nil
		}
		if !errors.Is(err, i2c.ErrNACK) {
			return res, fmt.Errorf("probe: %w", err)
		}
		if res.Waited >= timeout {
			return res, fmt.Errorf("%w: no acknowledge after %v (%d polls)", ErrWriteTimeout, res.Waited, res.Polls)
		}
		time.Sleep(interval)
	}
}

var (
	_ WriteCycleWaiter = FixedDelay{}
	_ WriteCycleWaiter = AckPolling{}
)
