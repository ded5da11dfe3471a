package pomodoro

import (
	"sync"
	"time"
)

type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct {
	t *time.Ticker
}

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// Scheduler runs fn on a fixed interval while attached. Detach blocks until the running
// callback, if any, has returned, so nothing fires after Detach or Close. fn must not call
// back into the Scheduler.
type Scheduler struct {
	interval  time.Duration
	fn        func(time.Time)
	newTicker func(time.Duration) Ticker

	mu   sync.Mutex
	stop chan struct{}
	wg   sync.WaitGroup
}

func NewScheduler(interval time.Duration, fn func(time.Time)) *Scheduler {
	return &Scheduler{
		interval: interval,
		fn:       fn,
		newTicker: func(d time.Duration) Ticker {
			return timeTicker{t: time.NewTicker(d)}
		},
	}
}

// Sync attaches while running and detaches otherwise.
func (s *Scheduler) Sync(running bool) {
	if running {
		s.Attach()
		return
	}
	s.Detach()
}

func (s *Scheduler) Attached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stop != nil
}

func (s *Scheduler) Attach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		return
	}
	stop := make(chan struct{})
	s.stop = stop
	ticker := s.newTicker(s.interval)
	s.wg.Add(1)
	go s.loop(ticker, stop)
}

func (s *Scheduler) Detach() {
	s.mu.Lock()
	stop := s.stop
	s.stop = nil
	s.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	s.wg.Wait()
}

func (s *Scheduler) Close() {
	s.Detach()
}

func (s *Scheduler) loop(ticker Ticker, stop <-chan struct{}) {
	defer s.wg.Done()
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C():
			select {
			case <-stop:
				return
			default:
			}
			s.fn(now)
		}
	}
}
