package entangle

import (
	"go.uber.org/zap"
)

type effect struct {
	rs      *System
	id      uint64
	fn      func(get *Getter, set *Setter) error
	tracker tracker
	deb     *debouncer
}

func (e *effect) ID() uint64 {
	return e.id
}

func (e *effect) Kind() Kind {
	return KindEffect
}

// MakeAtomEffect runs fn now and re-runs it from scratch whenever a node it
// read through Get changes. Errors returned by fn go to the system's error
// handler. stop detaches the effect; it never runs again afterwards.
func MakeAtomEffect(rs *System, fn func(get *Getter, set *Setter) error, opts ...Option) (stop func()) {
	cfg := newConfig(opts)

	e := &effect{
		rs: rs,
		id: rs.nextID(),
		fn: fn,
	}
	if cfg.debounce > 0 {
		e.deb = newDebouncer(rs.clock, cfg.debounce, e.rerun)
	}
	e.run()

	return func() {
		e.tracker.stop()
		if e.deb != nil {
			e.deb.stop()
		}
	}
}

// MakeAtomEffectSnapshot returns a function that runs fn with a getter that
// tracks nothing. Calling it never subscribes to anything.
func MakeAtomEffectSnapshot(rs *System, fn func(get *Getter, set *Setter, args ...any) error) func(args ...any) error {
	set := &Setter{rs: rs}
	return func(args ...any) error {
		return fn(&Getter{}, set, args...)
	}
}

func (e *effect) onChange() {
	if e.deb != nil {
		e.deb.trigger()
		return
	}
	e.rerun()
}

func (e *effect) rerun() {
	if e.tracker.isStopped() {
		return
	}
	e.rs.metrics.recomputations.WithLabelValues(KindEffect.String()).Inc()
	e.run()
}

func (e *effect) run() {
	p, _ := e.tracker.begin(e.onChange)
	if err := e.fn(&Getter{pass: p}, &Setter{rs: e.rs}); err != nil {
		e.rs.logger.Debug("atom effect failed", zap.Uint64("id", e.id), zap.Error(err))
		e.rs.reportError(e, err)
	}
}
