package server

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/bibliz/internal/questions"
	"github.com/abhisek/bibliz/internal/quiz"
)

// ErrDriverStopped is returned for calls made after the driver exited.
var ErrDriverStopped = errors.New("quiz driver stopped")

// EventFunc applies one event to the machine.
type EventFunc func(ctx context.Context, m *quiz.Machine) (quiz.Effect, error)

type call struct {
	ctx   context.Context
	fn    EventFunc
	reply chan result
}

type result struct {
	snap    quiz.Snapshot
	history []quiz.SessionResult
	err     error
}

type fetchResult struct {
	generation uint64
	questions  []quiz.Question
	err        error
}

// Driver owns a quiz machine on a single goroutine. Events, fetch results
// and countdown ticks are serialized through Run.
type Driver struct {
	machine *quiz.Machine
	gen     questions.Generator
	log     *zap.Logger
	tick    time.Duration

	calls   chan call
	fetches chan fetchResult
	done    chan struct{}

	timer      *time.Timer
	timerToken uint64
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithTickInterval overrides the wall-clock length of one countdown unit.
func WithTickInterval(d time.Duration) DriverOption {
	return func(dr *Driver) { dr.tick = d }
}

// NewDriver creates a driver for machine. Call Run to start it.
func NewDriver(machine *quiz.Machine, gen questions.Generator, log *zap.Logger, opts ...DriverOption) *Driver {
	if log == nil {
		log = zap.NewNop()
	}
	d := &Driver{
		machine: machine,
		gen:     gen,
		log:     log.Named("driver"),
		tick:    quiz.TickInterval,
		calls:   make(chan call),
		fetches: make(chan fetchResult),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run processes events until ctx is cancelled.
func (d *Driver) Run(ctx context.Context) error {
	defer close(d.done)
	defer d.stopTimer()

	for {
		var timerC <-chan time.Time
		if d.timer != nil {
			timerC = d.timer.C
		}

		select {
		case <-ctx.Done():
			return nil

		case c := <-d.calls:
			eff, err := c.fn(c.ctx, d.machine)
			if err != nil {
				d.log.Debug("event rejected", zap.Error(err))
			}
			d.apply(ctx, eff)
			c.reply <- result{snap: d.machine.Snapshot(), history: d.machine.History(), err: err}

		case f := <-d.fetches:
			if f.err != nil {
				d.log.Warn("question fetch failed", zap.Uint64("generation", f.generation), zap.Error(f.err))
			}
			d.apply(ctx, d.machine.ResolveFetch(f.generation, f.questions, f.err))

		case <-timerC:
			d.timer = nil
			d.apply(ctx, d.machine.Tick(d.timerToken))
		}
	}
}

func (d *Driver) apply(ctx context.Context, eff quiz.Effect) {
	if eff.Fetch != nil {
		go d.fetch(ctx, *eff.Fetch)
	}
	switch {
	case eff.TimerToken != 0:
		d.armTimer(eff.TimerToken)
	case !d.machine.TimerArmed():
		d.stopTimer()
	}
}

func (d *Driver) fetch(ctx context.Context, req quiz.FetchRequest) {
	d.log.Info("fetching questions",
		zap.Uint64("generation", req.Generation),
		zap.String("topic", req.TopicID),
		zap.Stringer("difficulty", req.Difficulty),
		zap.String("language", string(req.Language)),
	)
	qs, err := d.gen.Generate(ctx, req.TopicID, req.Difficulty, req.Language, req.Count)
	select {
	case d.fetches <- fetchResult{generation: req.Generation, questions: qs, err: err}:
	case <-ctx.Done():
	}
}

func (d *Driver) armTimer(token uint64) {
	d.stopTimer()
	d.timerToken = token
	d.timer = time.NewTimer(d.tick)
}

func (d *Driver) stopTimer() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Do applies fn on the driver goroutine and returns the resulting state.
// The error is fn's own error, or ErrDriverStopped.
func (d *Driver) Do(ctx context.Context, fn EventFunc) (quiz.Snapshot, error) {
	r, err := d.do(ctx, fn)
	if err != nil {
		return quiz.Snapshot{}, err
	}
	return r.snap, r.err
}

// Snapshot returns the current state.
func (d *Driver) Snapshot(ctx context.Context) (quiz.Snapshot, error) {
	return d.Do(ctx, noop)
}

// History returns the full result history, most recent first.
func (d *Driver) History(ctx context.Context) ([]quiz.SessionResult, error) {
	r, err := d.do(ctx, noop)
	if err != nil {
		return nil, err
	}
	return r.history, nil
}

func (d *Driver) do(ctx context.Context, fn EventFunc) (result, error) {
	c := call{ctx: ctx, fn: fn, reply: make(chan result, 1)}
	select {
	case d.calls <- c:
	case <-d.done:
		return result{}, ErrDriverStopped
	case <-ctx.Done():
		return result{}, ctx.Err()
	}
	return <-c.reply, nil
}

func noop(context.Context, *quiz.Machine) (quiz.Effect, error) {
	return quiz.Effect{}, nil
}
