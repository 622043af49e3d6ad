// Package pool recycles enemy entities per archetype so waves do not churn
// entity slots.
package pool

import (
	"errors"
	"fmt"
	"log"
	"slices"

	"github.com/milk9111/hordewave/common"
	"github.com/milk9111/hordewave/ecs"
)

var ErrEmptyArchetype = errors.New("pool: empty archetype")

// Host creates and manipulates the instances the pool hands out.
type Host interface {
	Create(archetype string, pos common.Vec2, rot float64) (ecs.Entity, error)
	Place(e ecs.Entity, pos common.Vec2, rot float64)
	SetActive(e ecs.Entity, active bool)
	Alive(e ecs.Entity) bool
	Destroy(e ecs.Entity)
}

// Lifecycle is optionally implemented by a Host that needs to reset instance
// state on every trip in and out of the pool.
type Lifecycle interface {
	OnAcquiredFromPool(e ecs.Entity)
	OnReleasedToPool(e ecs.Entity)
}

// Occupancy is a per-archetype snapshot used by debug views.
type Occupancy struct {
	Archetype string `yaml:"archetype"`
	Active    int    `yaml:"active"`
	Free      int    `yaml:"free"`
}

type Pool struct {
	host   Host
	life   Lifecycle
	queues map[string][]ecs.Entity
	free   map[ecs.Entity]string
	active map[ecs.Entity]string
	counts map[string]int
}

func New(host Host) *Pool {
	p := &Pool{
		host:   host,
		queues: make(map[string][]ecs.Entity),
		free:   make(map[ecs.Entity]string),
		active: make(map[ecs.Entity]string),
		counts: make(map[string]int),
	}
	p.life, _ = host.(Lifecycle)
	return p
}

// Acquire returns an instance of archetype placed at pos, reusing the oldest
// free one when available.
func (p *Pool) Acquire(archetype string, pos common.Vec2, rot float64) (ecs.Entity, error) {
	if p == nil || p.host == nil {
		return 0, errors.New("pool: no host")
	}
	if archetype == "" {
		return 0, ErrEmptyArchetype
	}

	e, ok := p.dequeue(archetype)
	if ok {
		p.host.Place(e, pos, rot)
		p.host.SetActive(e, true)
	} else {
		created, err := p.host.Create(archetype, pos, rot)
		if err != nil {
			return 0, fmt.Errorf("pool: create %s: %w", archetype, err)
		}
		e = created
	}

	p.active[e] = archetype
	p.counts[archetype]++
	if p.life != nil {
		p.life.OnAcquiredFromPool(e)
	}
	return e, nil
}

func (p *Pool) dequeue(archetype string) (ecs.Entity, bool) {
	q := p.queues[archetype]
	for len(q) > 0 {
		e := q[0]
		q = q[1:]
		delete(p.free, e)
		if p.host.Alive(e) {
			p.queues[archetype] = q
			return e, true
		}
	}
	delete(p.queues, archetype)
	return 0, false
}

// Release parks an active instance in its archetype queue. Instances the
// pool never handed out are destroyed. Releasing an already free instance is
// a no-op.
func (p *Pool) Release(e ecs.Entity) bool {
	if p == nil {
		return false
	}
	if _, ok := p.free[e]; ok {
		return false
	}
	archetype, ok := p.active[e]
	if !ok {
		log.Printf("pool: release of unowned entity %v, destroying", e)
		if p.host != nil {
			p.host.Destroy(e)
		}
		return false
	}

	if p.life != nil {
		p.life.OnReleasedToPool(e)
	}
	p.host.SetActive(e, false)

	delete(p.active, e)
	p.counts[archetype]--
	p.queues[archetype] = append(p.queues[archetype], e)
	p.free[e] = archetype
	return true
}

func (p *Pool) IsActive(e ecs.Entity) bool {
	if p == nil {
		return false
	}
	_, ok := p.active[e]
	return ok
}

// ArchetypeOf reports the archetype of an active instance.
func (p *Pool) ArchetypeOf(e ecs.Entity) (string, bool) {
	if p == nil {
		return "", false
	}
	a, ok := p.active[e]
	return a, ok
}

func (p *Pool) ActiveCount() int {
	if p == nil {
		return 0
	}
	return len(p.active)
}

func (p *Pool) ActiveCountOf(archetype string) int {
	if p == nil {
		return 0
	}
	return p.counts[archetype]
}

func (p *Pool) FreeCount(archetype string) int {
	if p == nil {
		return 0
	}
	return len(p.queues[archetype])
}

// Active returns the active instances in no particular order.
func (p *Pool) Active() []ecs.Entity {
	if p == nil {
		return nil
	}
	out := make([]ecs.Entity, 0, len(p.active))
	for e := range p.active {
		out = append(out, e)
	}
	return out
}

func (p *Pool) Occupancy() []Occupancy {
	if p == nil {
		return nil
	}
	seen := make(map[string]struct{})
	for a := range p.counts {
		seen[a] = struct{}{}
	}
	for a := range p.queues {
		seen[a] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for a := range seen {
		names = append(names, a)
	}
	slices.Sort(names)

	out := make([]Occupancy, 0, len(names))
	for _, a := range names {
		occ := Occupancy{Archetype: a, Active: p.counts[a], Free: len(p.queues[a])}
		if occ.Active == 0 && occ.Free == 0 {
			continue
		}
		out = append(out, occ)
	}
	return out
}

// Clear destroys every instance, active or free.
func (p *Pool) Clear() {
	if p == nil {
		return
	}
	for e := range p.active {
		p.host.Destroy(e)
	}
	for e := range p.free {
		p.host.Destroy(e)
	}
	p.queues = make(map[string][]ecs.Entity)
	p.free = make(map[ecs.Entity]string)
	p.active = make(map[ecs.Entity]string)
	p.counts = make(map[string]int)
}
