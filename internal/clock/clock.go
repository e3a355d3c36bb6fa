// Package clock drives the per-round countdown.
//
// A Countdown is never reset in place: a new round stops the old one and
// starts another. Callers tag each countdown with a round number and drop
// ticks from rounds that are no longer current.
package clock

import (
	"sync"
	"time"
)

// Ticker is the part of *time.Ticker a Countdown needs.
type Ticker interface {
	Chan() <-chan time.Time
	Stop()
}

// Clock creates tickers.
type Clock interface {
	NewTicker(d time.Duration) Ticker
}

type realClock struct{}

type realTicker struct{ *time.Ticker }

func (t realTicker) Chan() <-chan time.Time { return t.C }

func (realClock) NewTicker(d time.Duration) Ticker {
	return realTicker{time.NewTicker(d)}
}

// Real is the wall clock.
var Real Clock = realClock{}

// Countdown calls a function once per period until stopped.
type Countdown struct {
	ticker   Ticker
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// Start begins calling onTick every period on its own goroutine.
func Start(clk Clock, period time.Duration, onTick func()) *Countdown {
	if clk == nil {
		clk = Real
	}
	ticker := clk.NewTicker(period)
	cd := &Countdown{
		ticker: ticker,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go func() {
		defer close(cd.done)
		defer ticker.Stop()
		for {
			select {
			case <-cd.stop:
				return
			case <-ticker.Chan():
				select {
				case <-cd.stop:
					return
				default:
				}
				onTick()
			}
		}
	}()
	return cd
}

// Stop cancels the countdown and its ticker. It does not wait for a tick
// already in progress; use Done for that. Safe to call more than once.
func (cd *Countdown) Stop() {
	if cd == nil {
		return
	}
	cd.stopOnce.Do(func() {
		close(cd.stop)
		cd.ticker.Stop()
	})
}

// Done is closed once the countdown goroutine has exited.
func (cd *Countdown) Done() <-chan struct{} {
	return cd.done
}

// Manual is a Clock whose tickers only fire when told to.
type Manual struct {
	mu      sync.Mutex
	tickers []*manualTicker
}

type manualTicker struct {
	c       chan time.Time
	mu      sync.Mutex
	stopped bool
}

func (t *manualTicker) Chan() <-chan time.Time { return t.c }

func (t *manualTicker) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
}

func (t *manualTicker) isStopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// NewManual returns a Manual clock with no tickers.
func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) NewTicker(time.Duration) Ticker {
	t := &manualTicker{c: make(chan time.Time, 1)}
	m.mu.Lock()
	m.tickers = append(m.tickers, t)
	m.mu.Unlock()
	return t
}

// Fire delivers one tick to every live ticker and returns how many received
// it. A ticker whose previous tick is still unread is skipped, as with
// time.Ticker.
func (m *Manual) Fire() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	live := m.tickers[:0]
	sent := 0
	for _, t := range m.tickers {
		if t.isStopped() {
			continue
		}
		live = append(live, t)
		select {
		case t.c <- time.Now():
			sent++
		default:
		}
	}
	m.tickers = live
	return sent
}

// Live reports how many tickers have not been stopped.
func (m *Manual) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.tickers {
		if !t.isStopped() {
			n++
		}
	}
	return n
}
