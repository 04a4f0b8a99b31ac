package poller

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualClock отдает тики только по явной команде теста
type manualClock struct {
	mu sync.Mutex
	ch chan time.Time
}

func newManualClock() *manualClock {
	return &manualClock{ch: make(chan time.Time)}
}

func (c *manualClock) Tick(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ch
}

func (c *manualClock) Stop() {}

// Fire блокируется, пока цикл поллера не заберет тик
func (c *manualClock) Fire() {
	c.ch <- time.Now()
}

// TryFire отдает тик, только если цикл готов его принять
func (c *manualClock) TryFire() {
	select {
	case c.ch <- time.Now():
	default:
	}
}

type testLogger struct {
	mu    sync.Mutex
	warns int
}

func (l *testLogger) Info(format string, v ...interface{}) {}

func (l *testLogger) Warn(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns++
}

func (l *testLogger) Error(format string, v ...interface{}) {}

func (l *testLogger) Warns() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.warns
}

func TestPoller_RunsPassOnTicks(t *testing.T) {
	clock := newManualClock()
	p := New(clock, &testLogger{})

	var passes atomic.Int64
	p.Start(time.Second, func(ctx context.Context) {
		passes.Add(1)
	})
	defer p.Stop()

	clock.Fire()
	require.Eventually(t, func() bool {
		return passes.Load() >= 1
	}, 2*time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		clock.TryFire()
		return passes.Load() >= 2
	}, 2*time.Second, 5*time.Millisecond)
}

func TestPoller_SkipsTickWhilePassInFlight(t *testing.T) {
	clock := newManualClock()
	log := &testLogger{}
	p := New(clock, log)

	started := make(chan struct{})
	release := make(chan struct{})
	var passes atomic.Int64

	p.Start(time.Second, func(ctx context.Context) {
		if passes.Add(1) == 1 {
			close(started)
			<-release
		}
	})
	defer p.Stop()

	clock.Fire()
	<-started

	// Пока первый проход висит, тик отбрасывается
	clock.Fire()
	require.Eventually(t, func() bool {
		return log.Warns() == 1
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, int64(1), passes.Load())

	close(release)

	// После завершения прохода тики снова обрабатываются
	require.Eventually(t, func() bool {
		clock.TryFire()
		return passes.Load() >= 2
	}, 2*time.Second, 5*time.Millisecond)
}

func TestPoller_StopCancelsContext(t *testing.T) {
	clock := newManualClock()
	p := New(clock, &testLogger{})

	cancelled := make(chan struct{})
	startedPass := make(chan struct{})

	p.Start(time.Second, func(ctx context.Context) {
		close(startedPass)
		<-ctx.Done()
		close(cancelled)
	})

	clock.Fire()
	<-startedPass

	p.Stop()

	select {
	case <-cancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("pass context was not cancelled on Stop")
	}
}

func TestPoller_RestartReplacesLoop(t *testing.T) {
	clock := newManualClock()
	p := New(clock, &testLogger{})

	var first, second atomic.Int64
	p.Start(time.Second, func(ctx context.Context) { first.Add(1) })
	p.Start(time.Second, func(ctx context.Context) { second.Add(1) })
	defer p.Stop()

	clock.Fire()

	require.Eventually(t, func() bool {
		return second.Load() == 1
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, int64(0), first.Load())
}

func TestPoller_StopWithoutStartIsNoop(t *testing.T) {
	p := New(newManualClock(), &testLogger{})
	assert.NotPanics(t, func() {
		p.Stop()
		p.Stop()
	})
}
