// Package task provides the repeating background task used to report
// conversion progress.
package task

import (
	"sync"
	"time"
)

// Periodic runs a function on a fixed interval until cancelled.
type Periodic struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// Start launches fn every interval on its own goroutine.
// fn must not call Cancel on the task that runs it.
func Start(interval time.Duration, fn func()) *Periodic {
	p := &Periodic{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go p.loop(interval, fn)
	return p
}

func (p *Periodic) loop(interval time.Duration, fn func()) {
	defer close(p.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			// A tick may race with Cancel; prefer the stop signal.
			select {
			case <-p.stop:
				return
			default:
			}
			fn()
		}
	}
}

// Cancel stops the task and waits for an in-progress tick to return.
// It is safe to call more than once.
func (p *Periodic) Cancel() {
	p.once.Do(func() { close(p.stop) })
	<-p.done
}

// Live reports whether Cancel has not yet been called.
func (p *Periodic) Live() bool {
	select {
	case <-p.stop:
		return false
	default:
		return true
	}
}

// Registrar owns the single progress task slot of a conversion session.
//
// StartPeriodic cancels whatever task currently occupies the slot before the
// new one starts, so two tasks registered with the same Registrar never run
// at the same time.
type Registrar interface {
	StartPeriodic(interval time.Duration, fn func()) *Periodic
}
