package mapview

import (
	"sync"
	"time"
)

// FrameScheduler runs a callback on the next display refresh tick.
type FrameScheduler interface {
	RequestFrame(fn func(now time.Time))
}

// TickerScheduler is a FrameScheduler driven by a fixed-interval ticker.
// Callbacks requested during a tick run on the following tick.
type TickerScheduler struct {
	mu      sync.Mutex
	pending []func(time.Time)
	stop    chan struct{}
	once    sync.Once
}

// NewTickerScheduler starts a scheduler ticking every interval.
func NewTickerScheduler(interval time.Duration) *TickerScheduler {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	s := &TickerScheduler{stop: make(chan struct{})}
	go s.run(interval)
	return s
}

// RequestFrame queues fn for the next tick.
func (s *TickerScheduler) RequestFrame(fn func(now time.Time)) {
	s.mu.Lock()
	s.pending = append(s.pending, fn)
	s.mu.Unlock()
}

// Close stops the ticker. Queued callbacks are dropped.
func (s *TickerScheduler) Close() {
	s.once.Do(func() { close(s.stop) })
}

func (s *TickerScheduler) run(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			batch := s.pending
			s.pending = nil
			s.mu.Unlock()

			for _, fn := range batch {
				fn(now)
			}
		}
	}
}
