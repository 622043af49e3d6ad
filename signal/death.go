// Package signal carries enemy death notifications from whoever decides an
// instance died to everyone counting population.
package signal

import "github.com/milk9111/hordewave/ecs"

// Subscription is the handle returned by Subscribe.
type Subscription uint64

// DeathBus is an explicit observer registry. Listeners run synchronously in
// Broadcast on the caller's goroutine.
type DeathBus struct {
	next      Subscription
	listeners map[Subscription]func(ecs.Entity)
	order     []Subscription
}

func NewDeathBus() *DeathBus {
	return &DeathBus{listeners: make(map[Subscription]func(ecs.Entity))}
}

func (b *DeathBus) Subscribe(fn func(ecs.Entity)) Subscription {
	if b == nil || fn == nil {
		return 0
	}
	if b.listeners == nil {
		b.listeners = make(map[Subscription]func(ecs.Entity))
	}
	b.next++
	b.listeners[b.next] = fn
	b.order = append(b.order, b.next)
	return b.next
}

func (b *DeathBus) Unsubscribe(sub Subscription) {
	if b == nil {
		return
	}
	if _, ok := b.listeners[sub]; !ok {
		return
	}
	delete(b.listeners, sub)
	for i, s := range b.order {
		if s == sub {
			b.order = append(b.order[:i:i], b.order[i+1:]...)
			break
		}
	}
}

// Listeners returns the number of live subscriptions.
func (b *DeathBus) Listeners() int {
	if b == nil {
		return 0
	}
	return len(b.listeners)
}

// Broadcast notifies every listener subscribed when the call began. A
// listener removed by an earlier listener in the same broadcast is skipped.
func (b *DeathBus) Broadcast(e ecs.Entity) {
	if b == nil || len(b.order) == 0 {
		return
	}
	snapshot := append([]Subscription(nil), b.order...)
	for _, sub := range snapshot {
		if fn, ok := b.listeners[sub]; ok {
			fn(e)
		}
	}
}
