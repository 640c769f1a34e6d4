package entangle

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/zoobzio/capitan"
	"go.uber.org/zap"
)

const familyShardCount = 16

type familyEntry[V any] struct {
	once  sync.Once
	ready atomic.Bool
	value V
	err   error
}

type familyShard[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]*familyEntry[V]
}

// Family memoises one node per key. The first Get for a key builds the node
// with that call's args; later calls return the same node and ignore theirs.
type Family[K comparable, V Node] struct {
	rs     *System
	build  func(key K, args ...any) (V, error)
	shards [familyShardCount]familyShard[K, V]
}

func newFamily[K comparable, V Node](rs *System, build func(key K, args ...any) (V, error)) *Family[K, V] {
	f := &Family[K, V]{rs: rs, build: build}
	for i := range f.shards {
		f.shards[i].entries = map[K]*familyEntry[V]{}
	}
	return f
}

func (f *Family[K, V]) shard(key K) *familyShard[K, V] {
	h := xxhash.Sum64String(fmt.Sprintf("%#v", key))
	return &f.shards[h%familyShardCount]
}

// Get returns the node for key, building it on first use. Concurrent first
// calls for one key build it once. A failed build is not remembered, so the
// next call tries again. If the build panics the panic reaches the building
// caller, and callers that were waiting on it get ErrBuildPanicked.
func (f *Family[K, V]) Get(key K, args ...any) (V, error) {
	s := f.shard(key)

	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok {
		e = &familyEntry[V]{}
		s.entries[key] = e
	}
	s.mu.Unlock()

	e.once.Do(func() {
		defer func() {
			if r := recover(); r != nil {
				e.err = fmt.Errorf("%w: %v", ErrBuildPanicked, r)
				s.mu.Lock()
				if s.entries[key] == e {
					delete(s.entries, key)
				}
				s.mu.Unlock()
				panic(r)
			}
		}()
		e.value, e.err = f.build(key, args...)
		if e.err != nil {
			return
		}
		e.ready.Store(true)

		f.rs.metrics.familyMembers.Inc()
		f.rs.logger.Debug("family member created",
			zap.Any("key", key),
			zap.Uint64("id", e.value.ID()),
		)
		capitan.Emit(f.rs.ctx, FamilyMemberCreated,
			KeySystem.Field(f.rs.id),
			KeyNodeID.Field(int(e.value.ID())),
			KeyKind.Field(e.value.Kind().String()),
			KeyFamilyKey.Field(fmt.Sprintf("%v", key)),
		)
	})

	if e.err != nil {
		s.mu.Lock()
		if s.entries[key] == e {
			delete(s.entries, key)
		}
		s.mu.Unlock()

		var zero V
		return zero, fmt.Errorf("family key %v: %w", key, e.err)
	}
	return e.value, nil
}

func (f *Family[K, V]) Len() int {
	n := 0
	for i := range f.shards {
		s := &f.shards[i]
		s.mu.Lock()
		for _, e := range s.entries {
			if e.ready.Load() {
				n++
			}
		}
		s.mu.Unlock()
	}
	return n
}

func (f *Family[K, V]) Keys() mapset.Set[K] {
	keys := mapset.NewThreadUnsafeSet[K]()
	for i := range f.shards {
		s := &f.shards[i]
		s.mu.Lock()
		for k, e := range s.entries {
			if e.ready.Load() {
				keys.Add(k)
			}
		}
		s.mu.Unlock()
	}
	return keys
}

type initKind uint8

const (
	initValue initKind = iota
	initFunc
	initFromAtoms
)

// Init describes how a family member's initial value is produced.
type Init[K comparable, T any] struct {
	kind      initKind
	value     T
	fn        func(key K, args ...any) T
	fromAtoms func(get *Getter, key K, args ...any) T
}

// InitValue gives every member the same initial value.
func InitValue[K comparable, T any](v T) Init[K, T] {
	return Init[K, T]{kind: initValue, value: v}
}

// InitFunc computes each member's initial value from its key and args.
func InitFunc[K comparable, T any](fn func(key K, args ...any) T) Init[K, T] {
	return Init[K, T]{kind: initFunc, fn: fn}
}

// InitFromAtoms computes each member's initial value from the current values
// of other nodes. The getter does not track.
func InitFromAtoms[K comparable, T any](fn func(get *Getter, key K, args ...any) T) Init[K, T] {
	return Init[K, T]{kind: initFromAtoms, fromAtoms: fn}
}

func (in Init[K, T]) resolve(key K, args []any) T {
	switch in.kind {
	case initFunc:
		return in.fn(key, args...)
	case initFromAtoms:
		return in.fromAtoms(&Getter{}, key, args...)
	default:
		return in.value
	}
}

func MakeAtomFamily[K comparable, T any](rs *System, init Init[K, T]) *Family[K, *Atom[T]] {
	return newFamily(rs, func(key K, args ...any) (*Atom[T], error) {
		return MakeAtom(rs, init.resolve(key, args))
	})
}

func MakeMoleculeFamily[K comparable, T any](rs *System, derive func(get *Getter, key K, args ...any) T, opts ...Option) *Family[K, *Molecule[T]] {
	return newFamily(rs, func(key K, args ...any) (*Molecule[T], error) {
		return MakeMolecule(rs, func(get *Getter) T {
			return derive(get, key, args...)
		}, opts...)
	})
}

func MakeAsyncMoleculeFamily[K comparable, T any](rs *System, derive func(ctx context.Context, get *Getter, key K, args ...any) (T, error), init Init[K, T], opts ...Option) *Family[K, *AsyncMolecule[T]] {
	return newFamily(rs, func(key K, args ...any) (*AsyncMolecule[T], error) {
		return MakeAsyncMolecule(rs, func(ctx context.Context, get *Getter) (T, error) {
			return derive(ctx, get, key, args...)
		}, init.resolve(key, args), opts...)
	})
}
