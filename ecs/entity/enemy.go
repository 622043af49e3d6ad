package entity

import (
	"errors"
	"fmt"
	"math"

	"github.com/milk9111/hordewave/common"
	"github.com/milk9111/hordewave/ecs"
	"github.com/milk9111/hordewave/ecs/component"
	"github.com/milk9111/hordewave/prefabs"
	"github.com/milk9111/hordewave/signal"
)

var ErrUnknownArchetype = errors.New("enemy: unknown archetype")

var defaultArchetype = prefabs.ArchetypeSpec{Health: 1, Damage: 1, Speed: 3, Radius: 0.5, ContactCooldown: 1}

// EnemyHost builds enemy entities in a world and is the instance host for
// the enemy pool. It also owns the single path by which an enemy dies.
type EnemyHost struct {
	w          *ecs.World
	bus        *signal.DeathBus
	archetypes map[string]prefabs.ArchetypeSpec
}

// NewEnemyHost returns a host for the given archetype table. With an empty
// table every archetype gets default stats.
func NewEnemyHost(w *ecs.World, bus *signal.DeathBus, archetypes map[string]prefabs.ArchetypeSpec) *EnemyHost {
	return &EnemyHost{w: w, bus: bus, archetypes: archetypes}
}

// SetArchetypes replaces the stat table. Existing instances keep their base
// stats until they are destroyed.
func (h *EnemyHost) SetArchetypes(archetypes map[string]prefabs.ArchetypeSpec) {
	if h == nil {
		return
	}
	h.archetypes = archetypes
}

func (h *EnemyHost) Archetype(name string) (prefabs.ArchetypeSpec, bool) {
	if h == nil {
		return prefabs.ArchetypeSpec{}, false
	}
	if len(h.archetypes) == 0 {
		return defaultArchetype, name != ""
	}
	spec, ok := h.archetypes[name]
	return spec, ok
}

func (h *EnemyHost) Create(archetype string, pos common.Vec2, rot float64) (ecs.Entity, error) {
	spec, ok := h.Archetype(archetype)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownArchetype, archetype)
	}

	entity := ecs.CreateEntity(h.w)

	if err := ecs.Add(h.w, entity, component.TransformComponent.Kind(), &component.Transform{
		Position: pos,
		Rotation: rot,
	}); err != nil {
		return 0, fmt.Errorf("enemy: add transform: %w", err)
	}

	if err := ecs.Add(h.w, entity, component.EnemyComponent.Kind(), &component.Enemy{
		Archetype:  archetype,
		Radius:     spec.Radius,
		BaseHealth: spec.Health,
		BaseDamage: spec.Damage,
		BaseSpeed:  spec.Speed,
		Damage:     spec.Damage,
		Speed:      spec.Speed,
	}); err != nil {
		return 0, fmt.Errorf("enemy: add enemy: %w", err)
	}

	if err := ecs.Add(h.w, entity, component.HealthComponent.Kind(), &component.Health{
		Current: spec.Health,
		Max:     spec.Health,
	}); err != nil {
		return 0, fmt.Errorf("enemy: add health: %w", err)
	}

	if err := ecs.Add(h.w, entity, component.ContactComponent.Kind(), &component.Contact{
		Cooldown: spec.ContactCooldown,
	}); err != nil {
		return 0, fmt.Errorf("enemy: add contact: %w", err)
	}

	if err := ecs.Add(h.w, entity, component.ActiveComponent.Kind(), &component.Active{}); err != nil {
		return 0, fmt.Errorf("enemy: add active: %w", err)
	}

	return entity, nil
}

func (h *EnemyHost) Place(e ecs.Entity, pos common.Vec2, rot float64) {
	if t, ok := ecs.Get(h.w, e, component.TransformComponent.Kind()); ok {
		t.Position = pos
		t.Rotation = rot
	}
}

func (h *EnemyHost) SetActive(e ecs.Entity, active bool) {
	if active {
		_ = ecs.Add(h.w, e, component.ActiveComponent.Kind(), &component.Active{})
		return
	}
	ecs.Remove(h.w, e, component.ActiveComponent.Kind())
}

func (h *EnemyHost) Alive(e ecs.Entity) bool {
	return ecs.IsAlive(h.w, e)
}

func (h *EnemyHost) Destroy(e ecs.Entity) {
	ecs.DestroyEntity(h.w, e)
}

// OnAcquiredFromPool restores base stats and re-arms the death latch.
func (h *EnemyHost) OnAcquiredFromPool(e ecs.Entity) {
	enemy, ok := ecs.Get(h.w, e, component.EnemyComponent.Kind())
	if !ok {
		return
	}
	enemy.Damage = enemy.BaseDamage
	enemy.Speed = enemy.BaseSpeed
	if hp, ok := ecs.Get(h.w, e, component.HealthComponent.Kind()); ok {
		hp.Max = enemy.BaseHealth
		hp.Current = enemy.BaseHealth
	}
	if latch, ok := ecs.Get(h.w, e, component.DeathLatchComponent.Kind()); ok {
		latch.Fired = false
	}
	if c, ok := ecs.Get(h.w, e, component.ContactComponent.Kind()); ok {
		c.Timer = 0
	}
}

func (h *EnemyHost) OnReleasedToPool(e ecs.Entity) {
	ecs.Remove(h.w, e, component.BossTagComponent.Kind())
}

func (h *EnemyHost) EnsureDeathLatch(e ecs.Entity) {
	if ecs.Has(h.w, e, component.DeathLatchComponent.Kind()) {
		return
	}
	_ = ecs.Add(h.w, e, component.DeathLatchComponent.Kind(), &component.DeathLatch{})
}

// ApplyScaling multiplies the base stats of a fresh spawn.
func (h *EnemyHost) ApplyScaling(e ecs.Entity, hpMult, dmgMult, speedMult float64) {
	enemy, ok := ecs.Get(h.w, e, component.EnemyComponent.Kind())
	if !ok {
		return
	}
	enemy.Damage = int(math.Round(float64(enemy.BaseDamage) * dmgMult))
	enemy.Speed = enemy.BaseSpeed * speedMult
	if hp, ok := ecs.Get(h.w, e, component.HealthComponent.Kind()); ok {
		hp.Max = int(math.Round(float64(enemy.BaseHealth) * hpMult))
		if hp.Max < 1 {
			hp.Max = 1
		}
		hp.Current = hp.Max
	}
}

func (h *EnemyHost) MarkBoss(e ecs.Entity) {
	_ = ecs.Add(h.w, e, component.BossTagComponent.Kind(), &component.BossTag{})
}

// Dying reports whether e already announced its death this activation.
func (h *EnemyHost) Dying(e ecs.Entity) bool {
	latch, ok := ecs.Get(h.w, e, component.DeathLatchComponent.Kind())
	return ok && latch.Fired
}

// Kill broadcasts the death of an active enemy once per activation.
func (h *EnemyHost) Kill(e ecs.Entity) bool {
	if !ecs.Has(h.w, e, component.ActiveComponent.Kind()) {
		return false
	}
	h.EnsureDeathLatch(e)
	latch, _ := ecs.Get(h.w, e, component.DeathLatchComponent.Kind())
	if latch.Fired {
		return false
	}
	latch.Fired = true
	h.bus.Broadcast(e)
	return true
}

// Damage applies amount to e and kills it at zero health. It reports whether
// this hit was the killing blow.
func (h *EnemyHost) Damage(e ecs.Entity, amount int) bool {
	if h.Dying(e) {
		return false
	}
	hp, ok := ecs.Get(h.w, e, component.HealthComponent.Kind())
	if !ok {
		return false
	}
	hp.Current -= amount
	if hp.Current > 0 {
		return false
	}
	hp.Current = 0
	return h.Kill(e)
}
