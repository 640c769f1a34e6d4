package entangle

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
)

// Readable is implemented by every node whose value can be read and watched.
type Readable[T any] interface {
	Node
	Read() T
	Subscribe(cb func(T)) (cancel func())
}

type subscription[T any] struct {
	cb   func(T)
	live atomic.Bool
}

type Atom[T any] struct {
	rs   *System
	id   uint64
	kind Kind

	mu    sync.RWMutex
	value T
	subs  []*subscription[T]
}

// MakeAtom fails with ErrInvalidValue for a nil pointer, interface, chan or
// func. Zero values, including nil slices and maps, are valid.
func MakeAtom[T any](rs *System, value T) (*Atom[T], error) {
	if isNil(value) {
		return nil, fmt.Errorf("atom initial value %T: %w", value, ErrInvalidValue)
	}
	return newAtom(rs, value, KindAtom), nil
}

func newAtom[T any](rs *System, value T, kind Kind) *Atom[T] {
	return &Atom[T]{
		rs:    rs,
		id:    rs.nextID(),
		kind:  kind,
		value: value,
	}
}

func (a *Atom[T]) ID() uint64 {
	return a.id
}

func (a *Atom[T]) Kind() Kind {
	return a.kind
}

func (a *Atom[T]) Read() T {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.value
}

// Write stores v and then calls every live subscriber, in subscription order,
// on the calling goroutine. No lock is held while subscribers run so they may
// write other atoms, or this one.
func (a *Atom[T]) Write(v T) T {
	a.mu.Lock()
	a.value = v
	subs := make([]*subscription[T], len(a.subs))
	copy(subs, a.subs)
	a.mu.Unlock()

	a.rs.metrics.atomWrites.Inc()

	for _, s := range subs {
		if s.live.Load() {
			s.cb(v)
		}
	}
	return v
}

func (a *Atom[T]) Update(fn func(T) T) T {
	return a.Write(fn(a.Read()))
}

// set replaces the value without notifying anyone.
func (a *Atom[T]) set(v T) {
	a.mu.Lock()
	a.value = v
	a.mu.Unlock()
}

func (a *Atom[T]) Subscribe(cb func(T)) (cancel func()) {
	s := &subscription[T]{cb: cb}
	s.live.Store(true)

	a.mu.Lock()
	a.subs = append(a.subs, s)
	a.mu.Unlock()

	return func() {
		if !s.live.CompareAndSwap(true, false) {
			return
		}
		a.mu.Lock()
		defer a.mu.Unlock()
		for i, other := range a.subs {
			if other == s {
				a.subs = append(a.subs[:i:i], a.subs[i+1:]...)
				return
			}
		}
	}
}

func (a *Atom[T]) SubscriberCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.subs)
}

func Read[T any](r Readable[T]) T {
	return r.Read()
}

func Subscribe[T any](r Readable[T], cb func(T)) (cancel func()) {
	return r.Subscribe(cb)
}

// Write writes v through r when r is a writable atom. Molecules and async
// molecules return ErrReadOnly and keep their value.
func Write[T any](r Readable[T], v T) (T, error) {
	a, ok := r.(*Atom[T])
	if !ok || a.kind != KindAtom {
		var zero T
		return zero, fmt.Errorf("write to %s %d: %w", r.Kind(), r.ID(), ErrReadOnly)
	}
	return a.Write(v), nil
}

func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// isNil reports values with nothing behind them. Nil slices and maps are
// empty collections, not absent values, so they pass.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Chan, reflect.Func, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}
