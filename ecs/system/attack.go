package system

import (
	"math"

	"github.com/milk9111/hordewave/ecs"
	"github.com/milk9111/hordewave/ecs/component"
)

// Damager applies damage to an enemy and reports whether it died from it.
type Damager interface {
	Damage(e ecs.Entity, amount int) bool
}

// AutoAttackSystem lets the player strike the nearest enemy in range on a
// fixed interval, and lets touching enemies hurt the player on their
// contact cooldown.
type AutoAttackSystem struct {
	enemies      Damager
	PlayerRadius float64
	// Kills counts killing blows dealt by the player.
	Kills int
}

func NewAutoAttackSystem(enemies Damager) *AutoAttackSystem {
	return &AutoAttackSystem{enemies: enemies, PlayerRadius: 0.5}
}

func (s *AutoAttackSystem) Update(w *ecs.World) {
	if s == nil {
		return
	}
	player, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return
	}
	pt, ok := ecs.Get(w, player, component.TransformComponent.Kind())
	if !ok {
		return
	}
	hp, _ := ecs.Get(w, player, component.HealthComponent.Kind())
	dt := w.DeltaTime()

	if hp == nil || hp.Current > 0 {
		s.playerAttack(w, player, pt, dt)
	}
	s.contactDamage(w, pt, hp, dt)
}

func (s *AutoAttackSystem) playerAttack(w *ecs.World, player ecs.Entity, pt *component.Transform, dt float64) {
	atk, ok := ecs.Get(w, player, component.AttackerComponent.Kind())
	if !ok || atk.Damage <= 0 {
		return
	}
	if atk.Timer > 0 {
		atk.Timer -= dt
		if atk.Timer > 0 {
			return
		}
	}

	var (
		target ecs.Entity
		best   = math.Inf(1)
	)
	ecs.ForEach2(w, component.EnemyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, enemy *component.Enemy, t *component.Transform) {
		if !ecs.Has(w, e, component.ActiveComponent.Kind()) || dying(w, e) {
			return
		}
		d := t.Position.Dist(pt.Position) - enemy.Radius
		if d <= atk.Range && d < best {
			best = d
			target = e
		}
	})
	if target == 0 {
		return
	}

	if s.enemies != nil && s.enemies.Damage(target, atk.Damage) {
		s.Kills++
	}
	atk.Timer = atk.Interval
}

func (s *AutoAttackSystem) contactDamage(w *ecs.World, pt *component.Transform, hp *component.Health, dt float64) {
	ecs.ForEach2(w, component.EnemyComponent.Kind(), component.ContactComponent.Kind(), func(e ecs.Entity, enemy *component.Enemy, c *component.Contact) {
		if c.Timer > 0 {
			c.Timer -= dt
		}
		if hp == nil || hp.Current <= 0 {
			return
		}
		if !ecs.Has(w, e, component.ActiveComponent.Kind()) || dying(w, e) || c.Timer > 0 {
			return
		}
		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			return
		}
		// small slack so enemies parked at touching distance still connect
		if t.Position.Dist(pt.Position) > enemy.Radius+s.PlayerRadius+0.05 {
			return
		}
		hp.Current -= enemy.Damage
		if hp.Current < 0 {
			hp.Current = 0
		}
		c.Timer = c.Cooldown
	})
}
