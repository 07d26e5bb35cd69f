// Package dispatch serializes the sync layer onto one goroutine. Subscription
// fanout, join recomputation, and mutation state all run as posted tasks, so
// none of those components need their own locking.
package dispatch

import "sync"

// Runner schedules sync-layer work. Post runs fn serialized with every other
// posted task; Go runs fn in the background for blocking store IO.
type Runner interface {
	Post(fn func())
	Go(fn func())
}

// Loop runs posted tasks one at a time on a single goroutine.
type Loop struct {
	tasks chan func()
	quit  chan struct{}
	done  chan struct{}
	once  sync.Once
}

// NewLoop starts a loop. It runs until Close.
func NewLoop() *Loop {
	l := &Loop{
		tasks: make(chan func(), 256),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		select {
		case fn := <-l.tasks:
			fn()
		case <-l.quit:
			for {
				select {
				case fn := <-l.tasks:
					fn()
				default:
					return
				}
			}
		}
	}
}

// Post queues fn for execution on the loop goroutine. Tasks posted after
// Close may be dropped.
func (l *Loop) Post(fn func()) {
	select {
	case l.tasks <- fn:
	case <-l.quit:
	}
}

// Go runs fn on its own goroutine. Blocking IO belongs here, with completion
// posted back via Post.
func (l *Loop) Go(fn func()) {
	go fn()
}

// Close stops the loop after draining already-queued tasks and waits for the
// loop goroutine to exit. Must not be called from the loop itself.
func (l *Loop) Close() {
	l.once.Do(func() { close(l.quit) })
	<-l.done
}

// Inline runs everything immediately on the caller's goroutine. Tests use it
// to make the whole layer synchronous and deterministic.
type Inline struct{}

func (Inline) Post(fn func()) { fn() }
func (Inline) Go(fn func())   { fn() }
