// Package sched runs deferred callbacks off the frame delta instead of
// goroutines, so the whole wave loop stays on one thread.
package sched

// ID identifies a scheduled waiter. The zero ID is never issued.
type ID uint64

type waiter struct {
	id        ID
	remaining float64
	interval  float64
	pred      func() bool
	fire      func()
	repeat    func() bool
	done      bool
}

// Waiters is a set of pending callbacks ticked once per frame.
type Waiters struct {
	next  ID
	items []*waiter
}

func New() *Waiters {
	return &Waiters{}
}

// After runs fn once seconds have elapsed. A non-positive delay fires on the
// next Tick.
func (s *Waiters) After(seconds float64, fn func()) ID {
	if s == nil || fn == nil {
		return 0
	}
	return s.push(&waiter{remaining: seconds, fire: fn})
}

// When runs fn on the first Tick where pred reports true.
func (s *Waiters) When(pred func() bool, fn func()) ID {
	if s == nil || pred == nil || fn == nil {
		return 0
	}
	return s.push(&waiter{pred: pred, fire: fn})
}

// Every runs fn each interval seconds, the first time after one interval,
// until fn returns false or the waiter is canceled.
func (s *Waiters) Every(interval float64, fn func() bool) ID {
	if s == nil || fn == nil || interval <= 0 {
		return 0
	}
	return s.push(&waiter{remaining: interval, interval: interval, repeat: fn})
}

func (s *Waiters) push(w *waiter) ID {
	s.next++
	w.id = s.next
	s.items = append(s.items, w)
	return w.id
}

// Cancel drops a pending waiter. It reports false when id already fired or
// was never issued.
func (s *Waiters) Cancel(id ID) bool {
	if s == nil || id == 0 {
		return false
	}
	for _, w := range s.items {
		if w.id == id && !w.done {
			w.done = true
			return true
		}
	}
	return false
}

func (s *Waiters) CancelAll() {
	if s == nil {
		return
	}
	for _, w := range s.items {
		w.done = true
	}
	s.items = nil
}

// Pending counts waiters that have not fired or been canceled.
func (s *Waiters) Pending() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, w := range s.items {
		if !w.done {
			n++
		}
	}
	return n
}

// Tick advances every waiter by dt. Waiters scheduled from inside a callback
// are not considered until the next Tick.
func (s *Waiters) Tick(dt float64) {
	if s == nil || len(s.items) == 0 {
		return
	}
	batch := s.items[:len(s.items):len(s.items)]
	for _, w := range batch {
		if w.done {
			continue
		}
		switch {
		case w.pred != nil:
			if w.pred() {
				w.done = true
				w.fire()
			}
		case w.repeat != nil:
			w.remaining -= dt
			for !w.done && w.remaining <= 0 {
				if !w.repeat() {
					w.done = true
					break
				}
				w.remaining += w.interval
			}
		default:
			w.remaining -= dt
			if w.remaining <= 0 {
				w.done = true
				w.fire()
			}
		}
	}

	kept := s.items[:0]
	for _, w := range s.items {
		if !w.done {
			kept = append(kept, w)
		}
	}
	for i := len(kept); i < len(s.items); i++ {
		s.items[i] = nil
	}
	s.items = kept
}
