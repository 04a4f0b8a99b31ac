package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/WB-SupplyBot/internal/domain"
)

type stubClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stubClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type memLogStore struct {
	mu       sync.Mutex
	messages []string
	fail     bool
}

func (s *memLogStore) AppendMonitoringLog(ctx context.Context, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return context.DeadlineExceeded
	}
	s.messages = append(s.messages, message)
	return nil
}

func (s *memLogStore) Messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.messages...)
}

type silentTelegram struct{}

func (silentTelegram) Configured() bool { return false }

func (silentTelegram) SendMessage(ctx context.Context, text string) error { return nil }

type countingMetrics struct {
	mu     sync.Mutex
	counts map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{counts: map[string]int{}}
}

func (m *countingMetrics) ObserveNotification(channel, result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[channel+"/"+result]++
}

func (m *countingMetrics) Count(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[key]
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func TestNotifier_ThrottlesRepeatedMessages(t *testing.T) {
	ctx := context.Background()
	clock := &stubClock{now: time.Date(2025, time.October, 13, 12, 0, 0, 0, time.UTC)}
	store := &memLogStore{}
	metrics := newCountingMetrics()

	n := NewNotifier(silentTelegram{}, store, metrics, clock, nopLogger{})

	assert.True(t, n.Notify(ctx, "первое"))
	assert.False(t, n.Notify(ctx, "второе"))

	require.Len(t, store.Messages(), 1)
	assert.Equal(t, "первое", store.Messages()[0])
	assert.Equal(t, 1, metrics.Count("system/throttled"))
}

func TestNotifier_AllowsAfterThrottleWindow(t *testing.T) {
	ctx := context.Background()
	clock := &stubClock{now: time.Date(2025, time.October, 13, 12, 0, 0, 0, time.UTC)}
	store := &memLogStore{}

	n := NewNotifier(silentTelegram{}, store, newCountingMetrics(), clock, nopLogger{})

	assert.True(t, n.Notify(ctx, "первое"))

	clock.Advance(domain.NotificationThrottle)

	assert.True(t, n.Notify(ctx, "второе"))
	assert.Len(t, store.Messages(), 2)
}

func TestNotifier_UrgentBypassesThrottle(t *testing.T) {
	ctx := context.Background()
	clock := &stubClock{now: time.Date(2025, time.October, 13, 12, 0, 0, 0, time.UTC)}
	store := &memLogStore{}

	n := NewNotifier(silentTelegram{}, store, newCountingMetrics(), clock, nopLogger{})

	assert.True(t, n.Notify(ctx, "обычное"))
	n.NotifyUrgent(ctx, "срочное")

	assert.Len(t, store.Messages(), 2)

	// Срочное уведомление сдвигает окно: следующее обычное подавляется
	assert.False(t, n.Notify(ctx, "после срочного"))
}

func TestNotifier_LogStoreFailureCounted(t *testing.T) {
	ctx := context.Background()
	clock := &stubClock{now: time.Date(2025, time.October, 13, 12, 0, 0, 0, time.UTC)}
	metrics := newCountingMetrics()

	n := NewNotifier(silentTelegram{}, &memLogStore{fail: true}, metrics, clock, nopLogger{})

	assert.True(t, n.Notify(ctx, "сообщение"))
	assert.Equal(t, 1, metrics.Count("system/failed"))
}
