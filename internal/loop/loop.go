// Package loop provides single-shot timers whose callbacks run on the owning
// event loop rather than on a timer goroutine.
package loop

import (
	"sort"
	"sync"
	"time"
)

// Timer is a pending single-shot callback.
type Timer interface {
	// Stop prevents the callback from running. Returns false if it already
	// ran or was stopped.
	Stop() bool
}

// Scheduler runs fn once after d on the event loop.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// PostFunc delivers fn to the event loop. It must be safe to call from any
// goroutine.
type PostFunc func(fn func())

// Loop is a Scheduler backed by time.AfterFunc. Expired timers are posted
// back onto the loop instead of running on the timer goroutine. Callbacks
// posted before the loop has an owner are queued until SetPost.
type Loop struct {
	mu       sync.Mutex
	post     PostFunc
	pending  []func()
	flushing bool
}

// New creates a Loop that delivers callbacks through post. A nil post queues
// callbacks until SetPost is called.
func New(post PostFunc) *Loop {
	return &Loop{post: post}
}

// SetPost replaces the delivery function and flushes any queued callbacks
// through it in post order, on the calling goroutine. Used when the loop
// owner is created after the scheduler (e.g. a tea.Program that needs the
// model first). Posts that race with the flush are queued behind it.
func (l *Loop) SetPost(post PostFunc) {
	l.mu.Lock()
	l.post = post
	if post == nil || l.flushing {
		l.mu.Unlock()
		return
	}
	l.flushing = true
	for len(l.pending) > 0 {
		queued := l.pending
		l.pending = nil
		l.mu.Unlock()
		for _, fn := range queued {
			post(fn)
		}
		l.mu.Lock()
	}
	l.flushing = false
	l.mu.Unlock()
}

// Post delivers fn to the event loop, or queues it while there is no owner.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	if l.post == nil || l.flushing {
		l.pending = append(l.pending, fn)
		l.mu.Unlock()
		return
	}
	post := l.post
	l.mu.Unlock()
	post(fn)
}

// Queued returns the number of callbacks waiting for SetPost.
func (l *Loop) Queued() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

// AfterFunc implements Scheduler.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	lt := &loopTimer{}
	lt.t = time.AfterFunc(d, func() {
		l.Post(func() {
			lt.mu.Lock()
			stopped := lt.stopped
			lt.fired = true
			lt.mu.Unlock()
			if !stopped {
				fn()
			}
		})
	})
	return lt
}

type loopTimer struct {
	mu      sync.Mutex
	t       *time.Timer
	stopped bool
	fired   bool
}

// Stop also suppresses a callback that already expired but has not yet been
// run by the loop.
func (lt *loopTimer) Stop() bool {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	if lt.stopped || lt.fired {
		return false
	}
	lt.stopped = true
	lt.t.Stop()
	return true
}

// Manual is a Scheduler driven explicitly by Advance. Not safe for concurrent
// use; tests call it from a single goroutine.
type Manual struct {
	now     time.Time
	seq     int
	pending []*manualTimer
}

// NewManual creates a Manual scheduler whose clock starts at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the manual clock.
func (m *Manual) Now() time.Time { return m.now }

// Pending returns the number of timers that have neither run nor stopped.
func (m *Manual) Pending() int {
	n := 0
	for _, t := range m.pending {
		if !t.done {
			n++
		}
	}
	return n
}

// AfterFunc implements Scheduler.
func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	m.seq++
	t := &manualTimer{at: m.now.Add(d), seq: m.seq, fn: fn}
	m.pending = append(m.pending, t)
	return t
}

// Advance moves the clock forward by d, running every timer that expires on
// the way in expiry order. Timers scheduled by callbacks are honored if they
// fall inside the window.
func (m *Manual) Advance(d time.Duration) {
	end := m.now.Add(d)
	for {
		next := m.nextDue(end)
		if next == nil {
			break
		}
		m.now = next.at
		next.done = true
		next.fn()
	}
	m.now = end
	m.compact()
}

func (m *Manual) nextDue(end time.Time) *manualTimer {
	var due []*manualTimer
	for _, t := range m.pending {
		if !t.done && !t.at.After(end) {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].at.Equal(due[j].at) {
			return due[i].seq < due[j].seq
		}
		return due[i].at.Before(due[j].at)
	})
	return due[0]
}

func (m *Manual) compact() {
	live := m.pending[:0]
	for _, t := range m.pending {
		if !t.done {
			live = append(live, t)
		}
	}
	m.pending = live
}

type manualTimer struct {
	at   time.Time
	seq  int
	fn   func()
	done bool
}

func (t *manualTimer) Stop() bool {
	if t.done {
		return false
	}
	t.done = true
	return true
}
