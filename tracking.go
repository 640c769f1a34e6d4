package entangle

import (
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
)

// pass is one run of a derivation or effect. It owns the subscriptions that
// run installed, at most one per source node.
type pass struct {
	notify func()

	mu      sync.Mutex
	sources mapset.Set[Node]
	cancels []func()
	closed  bool
}

func newPass(notify func()) *pass {
	return &pass{
		notify:  notify,
		sources: mapset.NewThreadUnsafeSet[Node](),
	}
}

func (p *pass) track(n Node, subscribe func() (cancel func())) {
	p.mu.Lock()
	if p.closed || !p.sources.Add(n) {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	cancel := subscribe()

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		cancel()
		return
	}
	p.cancels = append(p.cancels, cancel)
	p.mu.Unlock()
}

func (p *pass) close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	cancels := p.cancels
	p.cancels = nil
	p.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}

func (p *pass) size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sources.Cardinality()
}

// tracker replaces a node's pass on every run.
type tracker struct {
	mu      sync.Mutex
	current *pass
	gen     uint64
	stopped bool
}

func (t *tracker) begin(notify func()) (*pass, uint64) {
	p := newPass(notify)

	t.mu.Lock()
	old := t.current
	if t.stopped {
		p.closed = true
	}
	t.current = p
	t.gen++
	gen := t.gen
	t.mu.Unlock()

	if old != nil {
		old.close()
	}
	return p, gen
}

func (t *tracker) isCurrent(gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.stopped && t.gen == gen
}

func (t *tracker) isStopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

func (t *tracker) stop() {
	t.mu.Lock()
	t.stopped = true
	old := t.current
	t.current = nil
	t.mu.Unlock()

	if old != nil {
		old.close()
	}
}

func (t *tracker) sourceCount() int {
	t.mu.Lock()
	p := t.current
	t.mu.Unlock()
	if p == nil {
		return 0
	}
	return p.size()
}

// Getter reads nodes inside a derivation or effect. Reads through Get are
// tracked by the running pass; a Getter built for a snapshot tracks nothing.
type Getter struct {
	pass *pass
}

// Setter writes atoms from inside an effect.
type Setter struct {
	rs *System
}

// Get returns r's value and makes the running pass depend on r.
func Get[T any](get *Getter, r Readable[T]) T {
	if get != nil && get.pass != nil {
		p := get.pass
		p.track(r, func() func() {
			return r.Subscribe(func(T) { p.notify() })
		})
	}
	return r.Read()
}

// Peek returns r's value without depending on it.
func Peek[T any](_ *Getter, r Readable[T]) T {
	return r.Read()
}

func Set[T any](_ *Setter, a *Atom[T], v T) T {
	return a.Write(v)
}
