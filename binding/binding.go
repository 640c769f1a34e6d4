// Package binding adapts entangle nodes to a component lifecycle: mount
// subscribes, the latest value is kept for rendering, and unmount cancels.
// It does no rendering itself; onChange is where a UI layer schedules one.
package binding

import (
	"fmt"
	"sync"

	"github.com/delaneyj/entangle"
)

// Handle is a mounted subscription to one node.
type Handle[T any] struct {
	node   entangle.Readable[T]
	cancel func()
	once   sync.Once

	mu    sync.RWMutex
	value T
}

// UseRead mounts r. onChange, if not nil, is called with every new value
// until Close.
func UseRead[T any](r entangle.Readable[T], onChange func(T)) *Handle[T] {
	h := &Handle[T]{node: r, value: r.Read()}
	h.cancel = r.Subscribe(func(v T) {
		h.mu.Lock()
		h.value = v
		h.mu.Unlock()
		if onChange != nil {
			onChange(v)
		}
	})
	return h
}

// UseSet returns a setter for r. It fails with entangle.ErrReadOnly right
// away when r is a molecule or async molecule.
func UseSet[T any](r entangle.Readable[T]) (func(T) error, error) {
	if _, ok := r.(*entangle.Atom[T]); !ok {
		return nil, fmt.Errorf("use set on %s %d: %w", r.Kind(), r.ID(), entangle.ErrReadOnly)
	}
	return func(v T) error {
		_, err := entangle.Write(r, v)
		return err
	}, nil
}

// Use is UseRead and UseSet together. Like UseSet it refuses read-only nodes,
// and then nothing is mounted.
func Use[T any](r entangle.Readable[T], onChange func(T)) (*Handle[T], func(T) error, error) {
	set, err := UseSet(r)
	if err != nil {
		return nil, nil, err
	}
	return UseRead(r, onChange), set, nil
}

func (h *Handle[T]) Value() T {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.value
}

func (h *Handle[T]) Set(v T) error {
	_, err := entangle.Write(h.node, v)
	return err
}

// Close unmounts the handle. It is safe to call more than once.
func (h *Handle[T]) Close() {
	h.once.Do(h.cancel)
}

// Source is a node with its type erased so several can be mounted together.
type Source interface {
	mount(onChange func()) (cancel func())
}

type source[T any] struct {
	r entangle.Readable[T]
}

func (s source[T]) mount(onChange func()) func() {
	return s.r.Subscribe(func(T) { onChange() })
}

func Of[T any](r entangle.Readable[T]) Source {
	return source[T]{r: r}
}

// UseMulti mounts every source and calls onChange when any of them changes.
// The returned func unmounts all of them.
func UseMulti(onChange func(), sources ...Source) (unmount func()) {
	cancels := make([]func(), 0, len(sources))
	for _, s := range sources {
		cancels = append(cancels, s.mount(onChange))
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			for _, cancel := range cancels {
				cancel()
			}
		})
	}
}
