// Package spawn places enemies around the reference actor and keeps the
// spawned/killed counters the director reads.
package spawn

import (
	"log"
	"math"
	"math/rand"

	"github.com/milk9111/hordewave/common"
	"github.com/milk9111/hordewave/ecs"
	"github.com/milk9111/hordewave/pool"
	"github.com/milk9111/hordewave/sched"
	"github.com/milk9111/hordewave/signal"
	"github.com/milk9111/hordewave/wave"
)

// Locator reports the position spawns are centered on and kept away from.
// ok is false when there is no reference actor.
type Locator interface {
	Position() (pos common.Vec2, ok bool)
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func() (common.Vec2, bool)

func (f LocatorFunc) Position() (common.Vec2, bool) { return f() }

// Obstacles answers whether a circle overlaps blocking geometry.
type Obstacles interface {
	Overlaps(p common.Vec2, radius float64, mask uint) bool
}

// Latcher gives a fresh instance the fire-once death latch it needs before
// it can report its own death.
type Latcher interface {
	EnsureDeathLatch(e ecs.Entity)
}

type Options struct {
	MinDistanceFromPlayer float64
	ObstacleRadius        float64
	ObstacleMask          uint
	MaxAttempts           int
	PoolReturnDelay       float64
	Seed                  int64
	Debug                 bool
}

func DefaultOptions() Options {
	return Options{
		MinDistanceFromPlayer: 2,
		ObstacleRadius:        0.5,
		ObstacleMask:          ^uint(0),
		MaxAttempts:           10,
		PoolReturnDelay:       2,
		Seed:                  1,
	}
}

type Deps struct {
	Pool      *pool.Pool
	Bus       *signal.DeathBus
	Locator   Locator
	Obstacles Obstacles
	Latcher   Latcher
}

type Service struct {
	opts      Options
	rng       *rand.Rand
	pool      *pool.Pool
	bus       *signal.DeathBus
	sub       signal.Subscription
	locator   Locator
	obstacles Obstacles
	latcher   Latcher
	waiters   *sched.Waiters
	pending   map[ecs.Entity]sched.ID

	spawned int
	killed  int
}

func NewService(opts Options, deps Deps) *Service {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 1
	}
	s := &Service{
		opts:      opts,
		rng:       rand.New(rand.NewSource(opts.Seed)),
		pool:      deps.Pool,
		bus:       deps.Bus,
		locator:   deps.Locator,
		obstacles: deps.Obstacles,
		latcher:   deps.Latcher,
		waiters:   sched.New(),
		pending:   make(map[ecs.Entity]sched.ID),
	}
	if s.bus != nil {
		s.sub = s.bus.Subscribe(s.onDeath)
	}
	return s
}

// Close detaches the service from the death bus.
func (s *Service) Close() {
	if s == nil || s.bus == nil {
		return
	}
	s.bus.Unsubscribe(s.sub)
	s.sub = 0
}

// Update advances pending pool returns.
func (s *Service) Update(dt float64) {
	if s == nil {
		return
	}
	s.waiters.Tick(dt)
}

func (s *Service) reference() (common.Vec2, bool) {
	if s.locator == nil {
		return common.Vec2{}, false
	}
	return s.locator.Position()
}

// SpawnEnemy tries up to MaxAttempts ring samples and acquires an instance at
// the first valid one.
func (s *Service) SpawnEnemy(archetype string, ring wave.Ring) (ecs.Entity, bool) {
	if s == nil || s.pool == nil {
		return 0, false
	}
	if archetype == "" {
		log.Printf("spawn: empty archetype")
		return 0, false
	}

	center, ok := s.reference()
	if !ok {
		log.Printf("spawn: no reference actor for %s", archetype)
		return 0, false
	}
	for attempt := 0; attempt < s.opts.MaxAttempts; attempt++ {
		pos := s.SampleRing(center, ring)
		if !s.ValidPosition(pos) {
			continue
		}
		e, err := s.pool.Acquire(archetype, pos, 0)
		if err != nil {
			log.Printf("spawn: acquire %s: %v", archetype, err)
			return 0, false
		}
		s.spawned++
		if s.latcher != nil {
			s.latcher.EnsureDeathLatch(e)
		}
		if s.opts.Debug {
			log.Printf("spawn: %s at (%.1f, %.1f) attempt %d", archetype, pos.X, pos.Y, attempt+1)
		}
		return e, true
	}

	if s.opts.Debug {
		log.Printf("spawn: no valid position for %s after %d attempts", archetype, s.opts.MaxAttempts)
	}
	return 0, false
}

// SampleRing picks a point at a uniform angle and uniform radius around
// center, clamped into the ring bounds when enabled.
func (s *Service) SampleRing(center common.Vec2, ring wave.Ring) common.Vec2 {
	theta := s.rng.Float64() * 2 * math.Pi
	r := ring.RadiusMin
	if ring.RadiusMax > ring.RadiusMin {
		r += s.rng.Float64() * (ring.RadiusMax - ring.RadiusMin)
	}
	p := center.Add(common.V(math.Cos(theta), math.Sin(theta)).Scale(r))
	if ring.UseBounds {
		p = ring.Bounds.ClampPoint(p)
	}
	return p
}

// ValidPosition rejects points too close to the reference actor or touching
// an obstacle. Nothing is valid while there is no reference actor.
func (s *Service) ValidPosition(p common.Vec2) bool {
	if s == nil {
		return false
	}
	ref, ok := s.reference()
	if !ok || p.Dist(ref) < s.opts.MinDistanceFromPlayer {
		return false
	}
	if s.obstacles != nil && s.obstacles.Overlaps(p, s.opts.ObstacleRadius, s.opts.ObstacleMask) {
		return false
	}
	return true
}

// SelectWeightedRandom draws one entry with Cost <= maxAffordable in
// proportion to its weight.
func (s *Service) SelectWeightedRandom(entries []wave.SpawnEntry, maxAffordable float64) (wave.SpawnEntry, bool) {
	if s == nil {
		return wave.SpawnEntry{}, false
	}
	eligible := make([]wave.SpawnEntry, 0, len(entries))
	total := 0.0
	for _, e := range entries {
		if !e.Valid() || float64(e.Cost) > maxAffordable {
			continue
		}
		eligible = append(eligible, e)
		total += e.Weight
	}
	if len(eligible) == 0 {
		return wave.SpawnEntry{}, false
	}

	r := s.rng.Float64() * total
	cumulative := 0.0
	for _, e := range eligible {
		cumulative += e.Weight
		if r <= cumulative {
			return e, true
		}
	}
	return eligible[len(eligible)-1], true
}

func (s *Service) onDeath(e ecs.Entity) {
	if !s.pool.IsActive(e) {
		return
	}
	if _, ok := s.pending[e]; ok {
		return
	}
	s.killed++

	if s.opts.PoolReturnDelay <= 0 {
		s.pool.Release(e)
		return
	}
	s.pending[e] = s.waiters.After(s.opts.PoolReturnDelay, func() {
		delete(s.pending, e)
		if s.pool.IsActive(e) {
			s.pool.Release(e)
		}
	})
}

// AliveCount counts instances out of the pool, including dead ones still
// waiting for their return delay.
func (s *Service) AliveCount() int {
	if s == nil {
		return 0
	}
	return s.pool.ActiveCount()
}

func (s *Service) ActiveCount(archetype string) int {
	if s == nil {
		return 0
	}
	return s.pool.ActiveCountOf(archetype)
}

func (s *Service) TotalSpawned() int {
	if s == nil {
		return 0
	}
	return s.spawned
}

func (s *Service) TotalKilled() int {
	if s == nil {
		return 0
	}
	return s.killed
}

// PendingReturns counts dead instances not yet back in the pool.
func (s *Service) PendingReturns() int {
	if s == nil {
		return 0
	}
	return len(s.pending)
}

func (s *Service) Pool() *pool.Pool {
	if s == nil {
		return nil
	}
	return s.pool
}

func (s *Service) ResetStats() {
	if s == nil {
		return
	}
	s.spawned = 0
	s.killed = 0
}

// ClearAll drops pending returns, destroys every pooled instance and resets
// the counters.
func (s *Service) ClearAll() {
	if s == nil {
		return
	}
	s.waiters.CancelAll()
	s.pending = make(map[ecs.Entity]sched.ID)
	s.pool.Clear()
	s.ResetStats()
}
