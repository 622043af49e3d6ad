package system

import (
	"github.com/milk9111/hordewave/ecs"
	"github.com/milk9111/hordewave/ecs/component"
)

// ChaseSystem walks every active, living enemy straight at the player and
// stops it at touching distance.
type ChaseSystem struct {
	PlayerRadius float64
}

func NewChaseSystem() *ChaseSystem { return &ChaseSystem{PlayerRadius: 0.5} }

func (s *ChaseSystem) Update(w *ecs.World) {
	player, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return
	}
	pt, ok := ecs.Get(w, player, component.TransformComponent.Kind())
	if !ok {
		return
	}
	dt := w.DeltaTime()
	if dt <= 0 {
		return
	}

	ecs.ForEach2(w, component.EnemyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, enemy *component.Enemy, t *component.Transform) {
		if !ecs.Has(w, e, component.ActiveComponent.Kind()) || dying(w, e) {
			return
		}
		to := pt.Position.Sub(t.Position)
		gap := to.Len() - (enemy.Radius + s.PlayerRadius)
		if gap <= 0 {
			return
		}
		step := enemy.Speed * dt
		if step > gap {
			step = gap
		}
		t.Position = t.Position.Add(to.Norm().Scale(step))
	})
}

func dying(w *ecs.World, e ecs.Entity) bool {
	latch, ok := ecs.Get(w, e, component.DeathLatchComponent.Kind())
	return ok && latch.Fired
}
