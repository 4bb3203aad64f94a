package monitor

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/diogo/mcpchat/internal/errors"
	"github.com/diogo/mcpchat/internal/models"
)

// scriptedProber returns results in order, repeating the last one
type scriptedProber struct {
	mu      sync.Mutex
	results []bool
	calls   atomic.Int32
}

func (p *scriptedProber) Probe(ctx context.Context) bool {
	n := int(p.calls.Add(1)) - 1
	p.mu.Lock()
	defer p.mu.Unlock()
	if n >= len(p.results) {
		return p.results[len(p.results)-1]
	}
	return p.results[n]
}

type statusRecorder struct {
	mu     sync.Mutex
	states []models.ConnectionState
}

func (r *statusRecorder) record(s models.ConnectionState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *statusRecorder) snapshot() []models.ConnectionState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.ConnectionState(nil), r.states...)
}

func TestMonitor_InitialState(t *testing.T) {
	m := New(ProberFunc(func(context.Context) bool { return true }))

	state := m.State()
	assert.False(t, state.Checked())
	assert.Equal(t, models.StatusChecking, state.StatusText())
}

func TestMonitor_Probe(t *testing.T) {
	now := time.Date(2025, 10, 16, 12, 0, 0, 0, time.UTC)
	rec := &statusRecorder{}
	prober := &scriptedProber{results: []bool{false}}
	m := New(prober, WithClock(func() time.Time { return now }), WithStatusCallback(rec.record))

	assert.False(t, m.Probe(context.Background()))

	state := m.State()
	assert.False(t, state.Connected)
	assert.Equal(t, now, state.LastCheckedAt)
	assert.Equal(t, models.StatusDisconnected, state.StatusText())

	// first probe always notifies, even though "false" is not a change
	require.Len(t, rec.snapshot(), 1)
}

func TestMonitor_CallbackOnlyOnFlip(t *testing.T) {
	rec := &statusRecorder{}
	prober := &scriptedProber{results: []bool{true, true, false, false, true}}
	m := New(prober, WithStatusCallback(rec.record))

	for i := 0; i < 5; i++ {
		m.Probe(context.Background())
	}

	states := rec.snapshot()
	require.Len(t, states, 3)
	assert.True(t, states[0].Connected)
	assert.False(t, states[1].Connected)
	assert.True(t, states[2].Connected)
}

func TestMonitor_ConcurrentCallbacksMatchState(t *testing.T) {
	rec := &statusRecorder{}
	var flip atomic.Bool
	m := New(ProberFunc(func(context.Context) bool {
		return flip.Load()
	}), WithStatusCallback(rec.record))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				flip.Store(j%3 == 0)
				m.Probe(context.Background())
			}
		}()
	}
	wg.Wait()

	states := rec.snapshot()
	require.NotEmpty(t, states)
	for i := 1; i < len(states); i++ {
		require.NotEqual(t, states[i-1].Connected, states[i].Connected, "callback %d repeats the previous status", i)
	}
	assert.Equal(t, m.State().Connected, states[len(states)-1].Connected)
}

func TestMonitor_ProbePanicIsDisconnected(t *testing.T) {
	m := New(ProberFunc(func(context.Context) bool { panic("boom") }))

	assert.NotPanics(t, func() {
		assert.False(t, m.Probe(context.Background()))
	})
	assert.Equal(t, models.StatusDisconnected, m.State().StatusText())
}

func TestMonitor_ProbeTimeout(t *testing.T) {
	m := New(ProberFunc(func(ctx context.Context) bool {
		<-ctx.Done()
		return false
	}), WithProbeTimeout(10*time.Millisecond))

	start := time.Now()
	assert.False(t, m.Probe(context.Background()))
	assert.Less(t, time.Since(start), time.Second)
}

func TestMonitor_StartPolling(t *testing.T) {
	prober := &scriptedProber{results: []bool{true}}
	m := New(prober)

	p, err := m.StartPolling(context.Background(), 10*time.Millisecond)
	require.NoError(t, err)
	defer p.Stop()

	// the first probe fires immediately, not after one interval
	require.Eventually(t, func() bool { return m.State().Checked() }, time.Second, time.Millisecond)
	require.Eventually(t, func() bool { return prober.calls.Load() >= 3 }, time.Second, time.Millisecond)
	assert.True(t, m.Connected())
	assert.Equal(t, 10*time.Millisecond, p.Interval())
}

func TestMonitor_FailuresDoNotStopPolling(t *testing.T) {
	prober := &scriptedProber{results: []bool{false}}
	m := New(prober)

	p, err := m.StartPolling(context.Background(), 5*time.Millisecond)
	require.NoError(t, err)
	defer p.Stop()

	require.Eventually(t, func() bool { return prober.calls.Load() >= 4 }, time.Second, time.Millisecond)
	assert.False(t, m.Connected())
}

func TestMonitor_StartPollingTwice(t *testing.T) {
	m := New(&scriptedProber{results: []bool{true}})

	p, err := m.StartPolling(context.Background(), time.Hour)
	require.NoError(t, err)

	_, err = m.StartPolling(context.Background(), time.Hour)
	assert.ErrorIs(t, err, apierrors.ErrAlreadyPolling)

	p.Stop()

	p2, err := m.StartPolling(context.Background(), time.Hour)
	require.NoError(t, err, "a stopped poller must not block a new one")
	m.StopPolling()
	assert.True(t, p2.Stopped())
}

func TestMonitor_InvalidInterval(t *testing.T) {
	m := New(&scriptedProber{results: []bool{true}})

	for _, interval := range []time.Duration{0, -time.Second} {
		_, err := m.StartPolling(context.Background(), interval)
		assert.ErrorIs(t, err, apierrors.ErrInvalidInterval)
	}
}

func TestPoller_StopIsIdempotent(t *testing.T) {
	prober := &scriptedProber{results: []bool{true}}
	m := New(prober)

	p, err := m.StartPolling(context.Background(), 5*time.Millisecond)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return prober.calls.Load() >= 1 }, time.Second, time.Millisecond)

	p.Stop()
	p.Stop()
	m.StopPolling()
	assert.True(t, p.Stopped())

	calls := prober.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, calls, prober.calls.Load(), "no probes after Stop")
}

func TestPoller_ParentCancel(t *testing.T) {
	m := New(&scriptedProber{results: []bool{true}})
	ctx, cancel := context.WithCancel(context.Background())

	p, err := m.StartPolling(ctx, time.Hour)
	require.NoError(t, err)

	cancel()
	select {
	case <-p.Done():
	case <-time.After(time.Second):
		t.Fatal("poller did not exit after parent cancel")
	}
}

func TestMonitor_StopDuringProbeDiscardsResult(t *testing.T) {
	release := make(chan struct{})
	var started atomic.Bool
	rec := &statusRecorder{}
	m := New(ProberFunc(func(ctx context.Context) bool {
		started.Store(true)
		select {
		case <-release:
		case <-ctx.Done():
		}
		return false
	}), WithStatusCallback(rec.record))

	p, err := m.StartPolling(context.Background(), time.Hour)
	require.NoError(t, err)
	require.Eventually(t, started.Load, time.Second, time.Millisecond)

	p.Stop()
	close(release)

	assert.Empty(t, rec.snapshot())
	assert.False(t, m.State().Checked())
}
