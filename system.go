package entangle

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/zoobzio/clockz"
	"go.uber.org/zap"
)

type Kind uint8

const (
	KindAtom Kind = iota
	KindMolecule
	KindAsyncMolecule
	KindEffect
)

func (k Kind) String() string {
	switch k {
	case KindAtom:
		return "atom"
	case KindMolecule:
		return "molecule"
	case KindAsyncMolecule:
		return "async_molecule"
	case KindEffect:
		return "effect"
	default:
		return "unknown"
	}
}

// Node is anything owned by a System that can be reported to an OnErrorFunc.
type Node interface {
	ID() uint64
	Kind() Kind
}

type OnErrorFunc func(from Node, err error)

type System struct {
	id     string
	seq    atomic.Uint64
	ctx    context.Context
	cancel context.CancelFunc

	logger  *zap.Logger
	clock   clockz.Clock
	onError OnErrorFunc
	metrics *metrics
}

type systemConfig struct {
	id         string
	ctx        context.Context
	logger     *zap.Logger
	clock      clockz.Clock
	onError    OnErrorFunc
	registerer prometheus.Registerer
}

type SystemOption func(*systemConfig)

func WithLogger(logger *zap.Logger) SystemOption {
	return func(c *systemConfig) {
		c.logger = logger
	}
}

// WithClock sets the clock used for debounce timers.
// Use this with clockz.FakeClock for deterministic debounce testing.
func WithClock(clock clockz.Clock) SystemOption {
	return func(c *systemConfig) {
		c.clock = clock
	}
}

func WithErrorHandler(fn OnErrorFunc) SystemOption {
	return func(c *systemConfig) {
		c.onError = fn
	}
}

// WithRegisterer registers the system's counters with reg. NewSystem panics if
// a system with the same id is already registered there.
func WithRegisterer(reg prometheus.Registerer) SystemOption {
	return func(c *systemConfig) {
		c.registerer = reg
	}
}

// WithContext sets the parent of the context handed to async derivations.
func WithContext(ctx context.Context) SystemOption {
	return func(c *systemConfig) {
		c.ctx = ctx
	}
}

// WithID overrides the generated system id used in logs and metric labels.
func WithID(id string) SystemOption {
	return func(c *systemConfig) {
		c.id = id
	}
}

func NewSystem(opts ...SystemOption) *System {
	cfg := &systemConfig{
		ctx:    context.Background(),
		logger: zap.NewNop(),
		clock:  clockz.RealClock,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.id == "" {
		cfg.id = uuid.NewString()
	}

	ctx, cancel := context.WithCancel(cfg.ctx)
	rs := &System{
		id:      cfg.id,
		ctx:     ctx,
		cancel:  cancel,
		logger:  cfg.logger.With(zap.String("system", cfg.id)),
		clock:   cfg.clock,
		onError: cfg.onError,
		metrics: newMetrics(cfg.id, cfg.registerer),
	}
	return rs
}

func (rs *System) ID() string {
	return rs.id
}

// Context is cancelled by Close. Async derivations receive it.
func (rs *System) Context() context.Context {
	return rs.ctx
}

// Close cancels the context handed to async derivations. Nodes stay readable
// and writable afterwards.
func (rs *System) Close() {
	rs.cancel()
}

func (rs *System) nextID() uint64 {
	return rs.seq.Add(1)
}

func (rs *System) reportError(from Node, err error) {
	if rs.onError != nil {
		rs.onError(from, err)
	}
}
