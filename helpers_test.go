package entangle_test

import (
	"sync"
	"sync/atomic"

	"github.com/delaneyj/entangle"
)

type atomicCounter struct {
	n atomic.Int64
}

func (c *atomicCounter) inc() {
	c.n.Add(1)
}

func (c *atomicCounter) load() int {
	return int(c.n.Load())
}

// errorSink collects everything routed to a system's error handler.
type errorSink struct {
	mu    sync.Mutex
	nodes []entangle.Node
	errs  []error
}

func (s *errorSink) handle(from entangle.Node, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes = append(s.nodes, from)
	s.errs = append(s.errs, err)
}

func (s *errorSink) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.errs)
}

func (s *errorSink) last() (entangle.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.errs) == 0 {
		return nil, nil
	}
	return s.nodes[len(s.nodes)-1], s.errs[len(s.errs)-1]
}
