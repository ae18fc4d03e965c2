package quizrunner

import (
	"context"
	"sync"
	"time"
)

// Countdown отсчитывает заданное число секунд, сообщая остаток после
// каждого интервала. Канал закрывается по истечении времени или после
// Cancel; сам по себе отсчет никем не прерывается, Cancel нужен для
// остановки всей сессии.
type Countdown struct {
	seconds  int
	interval time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	expired bool
}

// NewCountdown создает отсчет на seconds секунд с тиком раз в interval
func NewCountdown(seconds int, interval time.Duration) *Countdown {
	return &Countdown{
		seconds:  seconds,
		interval: interval,
	}
}

// Start запускает отсчет. Возвращаемый канал получает остаток секунд
// после каждого тика и закрывается, когда остаток достигает нуля.
func (c *Countdown) Start(ctx context.Context) <-chan int {
	ctx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	c.cancel = cancel
	c.mu.Unlock()

	ticks := make(chan int)

	go func() {
		defer close(ticks)
		defer cancel()

		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		remaining := c.seconds
		for remaining > 0 {
			select {
			case <-ticker.C:
				remaining--
				select {
				case ticks <- remaining:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}

		c.mu.Lock()
		c.expired = true
		c.mu.Unlock()
	}()

	return ticks
}

// Cancel досрочно останавливает отсчет
func (c *Countdown) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
}

// Expired сообщает, дошел ли отсчет до нуля
func (c *Countdown) Expired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expired
}
