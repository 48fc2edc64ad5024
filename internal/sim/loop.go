package sim

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Versifine/corridor/internal/body"
	"github.com/Versifine/corridor/internal/physics"
)

const (
	DefaultTickRate = 60
	maxTickDelta    = 0.25
)

// Stepper is the controlled entity advanced once per tick.
type Stepper interface {
	Tick(dt float64, input body.InputState) (physics.State, error)
}

// InputSource is sampled once per tick. Edge-triggered keys (jump, respawn)
// must be reported on one sample only.
type InputSource interface {
	NextInput() body.InputState
}

type Loop struct {
	body     Stepper
	input    InputSource
	interval time.Duration
	onTick   func(physics.State)
}

func NewLoop(b Stepper, input InputSource, tickRate int) *Loop {
	if tickRate <= 0 {
		tickRate = DefaultTickRate
	}
	return &Loop{
		body:     b,
		input:    input,
		interval: time.Second / time.Duration(tickRate),
	}
}

// OnTick registers a callback run on the loop goroutine after every tick.
func (l *Loop) OnTick(fn func(physics.State)) {
	l.onTick = fn
}

// Run ticks until ctx is cancelled. Tick errors are logged and the loop
// keeps going; the next tick is the retry.
func (l *Loop) Run(ctx context.Context) error {
	if l.body == nil {
		return errors.New("sim loop has no body")
	}

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			dt := clampDelta(now.Sub(last))
			last = now

			var input body.InputState
			if l.input != nil {
				input = l.input.NextInput()
			}
			state, err := l.body.Tick(dt, input)
			if err != nil {
				slog.Debug("body tick failed", "error", err)
			}
			if l.onTick != nil {
				l.onTick(state)
			}
		}
	}
}

// clampDelta keeps a stalled process from teleporting the body through a
// pillar on the tick after the stall.
func clampDelta(d time.Duration) float64 {
	dt := d.Seconds()
	if dt < 0 {
		return 0
	}
	if dt > maxTickDelta {
		return maxTickDelta
	}
	return dt
}
