package entangle

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/zoobzio/capitan"
	"go.uber.org/zap"
)

// AsyncMolecule is a read-only value derived on its own goroutine. It holds its
// default until the first derivation resolves.
//
// Derivations started by successive source changes are not serialised. Unless
// WithLatestOnly is given, whichever resolves last wins, even if it was started
// first.
type AsyncMolecule[T any] struct {
	rs         *System
	atom       *Atom[T]
	derive     func(ctx context.Context, get *Getter) (T, error)
	tracker    tracker
	deb        *debouncer
	latestOnly bool
	resolved   atomic.Bool
}

func MakeAsyncMolecule[T any](rs *System, derive func(ctx context.Context, get *Getter) (T, error), def T, opts ...Option) (*AsyncMolecule[T], error) {
	if isNil(def) {
		return nil, fmt.Errorf("async molecule default %T: %w", def, ErrInvalidValue)
	}
	cfg := newConfig(opts)

	m := &AsyncMolecule[T]{
		rs:         rs,
		atom:       newAtom(rs, def, KindAsyncMolecule),
		derive:     derive,
		latestOnly: cfg.latestOnly,
	}
	if cfg.debounce > 0 {
		m.deb = newDebouncer(rs.clock, cfg.debounce, m.relaunch)
	}
	m.launch()
	return m, nil
}

func (m *AsyncMolecule[T]) ID() uint64 {
	return m.atom.id
}

func (m *AsyncMolecule[T]) Kind() Kind {
	return KindAsyncMolecule
}

func (m *AsyncMolecule[T]) Read() T {
	return m.atom.Read()
}

func (m *AsyncMolecule[T]) Subscribe(cb func(T)) (cancel func()) {
	return m.atom.Subscribe(cb)
}

func (m *AsyncMolecule[T]) SubscriberCount() int {
	return m.atom.SubscriberCount()
}

// Pending reports whether no derivation has resolved successfully yet.
func (m *AsyncMolecule[T]) Pending() bool {
	return !m.resolved.Load()
}

func (m *AsyncMolecule[T]) onChange() {
	if m.deb != nil {
		m.deb.trigger()
		return
	}
	m.relaunch()
}

func (m *AsyncMolecule[T]) relaunch() {
	m.rs.metrics.recomputations.WithLabelValues(KindAsyncMolecule.String()).Inc()
	m.launch()
}

func (m *AsyncMolecule[T]) launch() {
	p, gen := m.tracker.begin(m.onChange)
	go m.run(p, gen)
}

func (m *AsyncMolecule[T]) run(p *pass, gen uint64) {
	v, err := m.invoke(p)
	if err != nil {
		m.fail(err)
		return
	}
	if m.latestOnly && !m.tracker.isCurrent(gen) {
		m.rs.logger.Debug("async molecule result superseded",
			zap.Uint64("id", m.atom.id),
			zap.Uint64("generation", gen),
		)
		return
	}
	m.resolve(v)
}

func (m *AsyncMolecule[T]) invoke(p *pass) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &DeriveError{ID: m.atom.id, Kind: KindAsyncMolecule, Value: r}
		}
	}()
	return m.derive(m.rs.ctx, &Getter{pass: p})
}

func (m *AsyncMolecule[T]) resolve(v T) {
	m.resolved.Store(true)
	m.rs.logger.Debug("async molecule resolved", zap.Uint64("id", m.atom.id))
	capitan.Emit(m.rs.ctx, AsyncResolved,
		KeySystem.Field(m.rs.id),
		KeyNodeID.Field(int(m.atom.id)),
	)
	m.atom.Write(v)
}

// fail leaves the value untouched. The failure is not retried; the next source
// change starts a fresh derivation.
func (m *AsyncMolecule[T]) fail(err error) {
	m.rs.metrics.asyncFailures.Inc()
	m.rs.logger.Debug("async molecule derivation failed",
		zap.Uint64("id", m.atom.id),
		zap.Error(err),
	)
	capitan.Emit(m.rs.ctx, AsyncFailed,
		KeySystem.Field(m.rs.id),
		KeyNodeID.Field(int(m.atom.id)),
		KeyError.Field(err.Error()),
	)
	m.rs.reportError(m, err)
}
