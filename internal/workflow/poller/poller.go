package poller

import (
	"context"
	"sync"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Clock источник тиков
// В тестах подменяется виртуальными часами
type Clock interface {
	Tick(d time.Duration) <-chan time.Time
	Stop()
}

// realClock реализация Clock на time.Ticker
type realClock struct {
	mu     sync.Mutex
	ticker *time.Ticker
}

func NewRealClock() Clock {
	return &realClock{}
}

func (c *realClock) Tick(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ticker != nil {
		c.ticker.Stop()
	}
	c.ticker = time.NewTicker(d)
	return c.ticker.C
}

func (c *realClock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
}

// Poller запускает переданную функцию на каждом тике
// Тик, пришедший во время выполнения предыдущего, отбрасывается:
// одновременно выполняется не более одного прохода
type Poller struct {
	clock Clock
	log   Logger

	mu       sync.Mutex
	cancel   context.CancelFunc
	done     chan struct{}
	inFlight bool
}

// New создает новый экземпляр поллера
func New(clock Clock, log Logger) *Poller {
	return &Poller{
		clock: clock,
		log:   log,
	}
}

// Start запускает цикл тиков с заданным интервалом
// Повторный вызов перезапускает цикл с новым интервалом
func (p *Poller) Start(interval time.Duration, pass func(ctx context.Context)) {
	p.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	p.mu.Lock()
	p.cancel = cancel
	p.done = done
	p.mu.Unlock()

	ticks := p.clock.Tick(interval)

	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticks:
				if !p.tryAcquire() {
					p.log.Warn("Previous pass still in progress, tick skipped")
					continue
				}
				go func() {
					defer p.release()
					pass(ctx)
				}()
			}
		}
	}()
}

// Stop останавливает цикл и дожидается завершения текущего прохода
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	done := p.done
	p.cancel = nil
	p.done = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.clock.Stop()
	if done != nil {
		<-done
	}
}

func (p *Poller) tryAcquire() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.inFlight {
		return false
	}
	p.inFlight = true
	return true
}

func (p *Poller) release() {
	p.mu.Lock()
	p.inFlight = false
	p.mu.Unlock()
}
