package entangle

import (
	"fmt"

	"github.com/zoobzio/capitan"
	"go.uber.org/zap"
)

// Molecule is a read-only value derived from the nodes its derivation reads.
type Molecule[T any] struct {
	rs      *System
	atom    *Atom[T]
	derive  func(get *Getter) T
	tracker tracker
	deb     *debouncer
}

// MakeMolecule runs derive once to produce the initial value, then again every
// time a node it read through Get changes. Each run depends only on what that
// run read.
func MakeMolecule[T any](rs *System, derive func(get *Getter) T, opts ...Option) (*Molecule[T], error) {
	cfg := newConfig(opts)

	var zero T
	m := &Molecule[T]{
		rs:     rs,
		atom:   newAtom(rs, zero, KindMolecule),
		derive: derive,
	}
	if cfg.debounce > 0 {
		m.deb = newDebouncer(rs.clock, cfg.debounce, m.recompute)
	}

	p, gen := m.tracker.begin(m.onChange)
	v := derive(&Getter{pass: p})
	if isNil(v) {
		m.tracker.stop()
		if m.deb != nil {
			m.deb.stop()
		}
		return nil, fmt.Errorf("molecule initial value %T: %w", v, ErrInvalidValue)
	}
	if m.tracker.isCurrent(gen) {
		m.atom.set(v)
	}
	return m, nil
}

func (m *Molecule[T]) ID() uint64 {
	return m.atom.id
}

func (m *Molecule[T]) Kind() Kind {
	return KindMolecule
}

func (m *Molecule[T]) Read() T {
	return m.atom.Read()
}

func (m *Molecule[T]) Subscribe(cb func(T)) (cancel func()) {
	return m.atom.Subscribe(cb)
}

func (m *Molecule[T]) SubscriberCount() int {
	return m.atom.SubscriberCount()
}

// SourceCount is the number of nodes the latest derivation depends on.
func (m *Molecule[T]) SourceCount() int {
	return m.tracker.sourceCount()
}

func (m *Molecule[T]) onChange() {
	if m.deb != nil {
		m.deb.trigger()
		return
	}
	m.recompute()
}

func (m *Molecule[T]) recompute() {
	p, gen := m.tracker.begin(m.onChange)
	v := m.derive(&Getter{pass: p})
	if !m.tracker.isCurrent(gen) {
		return
	}

	m.rs.metrics.recomputations.WithLabelValues(KindMolecule.String()).Inc()
	m.rs.logger.Debug("molecule recomputed", zap.Uint64("id", m.atom.id))
	capitan.Emit(m.rs.ctx, MoleculeRecomputed,
		KeySystem.Field(m.rs.id),
		KeyNodeID.Field(int(m.atom.id)),
		KeyKind.Field(KindMolecule.String()),
	)

	m.atom.Write(v)
}
