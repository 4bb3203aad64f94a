// Package monitor tracks the reachability of the MCP server.
package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	apierrors "github.com/diogo/mcpchat/internal/errors"
	"github.com/diogo/mcpchat/internal/models"
)

// DefaultProbeTimeout bounds a single probe when no option overrides it
const DefaultProbeTimeout = 5 * time.Second

// Prober checks whether the MCP server is reachable
type Prober interface {
	Probe(ctx context.Context) bool
}

// ProberFunc adapts a function to the Prober interface
type ProberFunc func(ctx context.Context) bool

// Probe calls f(ctx)
func (f ProberFunc) Probe(ctx context.Context) bool {
	return f(ctx)
}

// StatusFunc is notified with the new state when the connection status flips
type StatusFunc func(models.ConnectionState)

// Monitor owns the ConnectionState and the polling goroutine that keeps it
// current.
type Monitor struct {
	prober       Prober
	logger       *zap.Logger
	now          func() time.Time
	probeTimeout time.Duration
	onChange     StatusFunc

	// notifyMu orders state updates with their callbacks. It is taken
	// before mu and is held while onChange runs.
	notifyMu sync.Mutex

	mu     sync.RWMutex
	state  models.ConnectionState
	known  bool
	poller *Poller
}

// Option configures a Monitor
type Option func(*Monitor)

// WithLogger sets the monitor logger
func WithLogger(logger *zap.Logger) Option {
	return func(m *Monitor) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) {
		if now != nil {
			m.now = now
		}
	}
}

// WithProbeTimeout bounds each probe
func WithProbeTimeout(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.probeTimeout = d
		}
	}
}

// WithStatusCallback registers fn for status changes. It also fires after
// the very first probe. Callbacks are delivered one at a time in the order
// the states were recorded; fn must not call back into the Monitor.
func WithStatusCallback(fn StatusFunc) Option {
	return func(m *Monitor) {
		m.onChange = fn
	}
}

// New creates a monitor for prober
func New(prober Prober, opts ...Option) *Monitor {
	m := &Monitor{
		prober:       prober,
		logger:       zap.NewNop(),
		now:          time.Now,
		probeTimeout: DefaultProbeTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns a snapshot of the last known connection state
func (m *Monitor) State() models.ConnectionState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Connected reports the last probe result
func (m *Monitor) Connected() bool {
	return m.State().Connected
}

// Probe runs one reachability check and records the result. Failures of
// any kind, including a panicking prober, count as disconnected.
func (m *Monitor) Probe(ctx context.Context) bool {
	ok := m.probe(ctx)
	m.record(ok)
	return ok
}

func (m *Monitor) probe(ctx context.Context) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Warn("probe panicked", zap.Any("panic", r))
			ok = false
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, m.probeTimeout)
	defer cancel()
	return m.prober.Probe(ctx)
}

func (m *Monitor) record(ok bool) {
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()

	m.mu.Lock()
	changed := !m.known || m.state.Connected != ok
	m.state = models.ConnectionState{Connected: ok, LastCheckedAt: m.now()}
	m.known = true
	state := m.state
	m.mu.Unlock()

	if changed {
		m.logger.Info("connection status changed", zap.String("status", state.StatusText()))
		if m.onChange != nil {
			m.onChange(state)
		}
	}
}

// StartPolling probes immediately and then every interval until the
// returned Poller is stopped or ctx is cancelled.
func (m *Monitor) StartPolling(ctx context.Context, interval time.Duration) (*Poller, error) {
	if interval <= 0 {
		return nil, apierrors.ErrInvalidInterval
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.poller != nil && !m.poller.Stopped() {
		return nil, apierrors.ErrAlreadyPolling
	}

	ctx, cancel := context.WithCancel(ctx)
	p := &Poller{
		interval: interval,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	m.poller = p

	go m.run(ctx, p)
	return p, nil
}

// StopPolling stops the active poller, if any, and waits for it to exit
func (m *Monitor) StopPolling() {
	m.mu.Lock()
	p := m.poller
	m.poller = nil
	m.mu.Unlock()

	if p != nil {
		p.Stop()
	}
}

func (m *Monitor) run(ctx context.Context, p *Poller) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	m.tick(ctx)
	for {
		select {
		case <-ticker.C:
			m.tick(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// tick probes once, discarding the result if polling was stopped mid-probe
func (m *Monitor) tick(ctx context.Context) {
	ok := m.probe(ctx)
	if ctx.Err() != nil {
		return
	}
	m.record(ok)
}

// Poller is the handle of a running polling loop
type Poller struct {
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
	once     sync.Once
}

// Stop cancels future probes and blocks until the loop has exited.
// Calling it more than once is safe.
func (p *Poller) Stop() {
	p.once.Do(p.cancel)
	<-p.done
}

// Done is closed when the polling loop exits
func (p *Poller) Done() <-chan struct{} {
	return p.done
}

// Stopped reports whether the polling loop has exited
func (p *Poller) Stopped() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Interval returns the spacing between probes
func (p *Poller) Interval() time.Duration {
	return p.interval
}
