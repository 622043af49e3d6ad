package entity

import (
	"fmt"

	"github.com/milk9111/hordewave/common"
	"github.com/milk9111/hordewave/ecs"
	"github.com/milk9111/hordewave/ecs/component"
	"github.com/milk9111/hordewave/prefabs"
)

func NewPlayer(w *ecs.World, spec prefabs.PlayerSpec) (ecs.Entity, error) {
	entity := ecs.CreateEntity(w)

	if err := ecs.Add(w, entity, component.PlayerTagComponent.Kind(), &component.PlayerTag{}); err != nil {
		return 0, fmt.Errorf("player: add tag: %w", err)
	}
	if err := ecs.Add(w, entity, component.TransformComponent.Kind(), &component.Transform{Position: spec.Position}); err != nil {
		return 0, fmt.Errorf("player: add transform: %w", err)
	}

	health := spec.Health
	if health <= 0 {
		health = 1
	}
	if err := ecs.Add(w, entity, component.HealthComponent.Kind(), &component.Health{Current: health, Max: health}); err != nil {
		return 0, fmt.Errorf("player: add health: %w", err)
	}

	if err := ecs.Add(w, entity, component.AttackerComponent.Kind(), &component.Attacker{
		Range:    spec.AttackRange,
		Damage:   spec.AttackDamage,
		Interval: spec.AttackInterval,
	}); err != nil {
		return 0, fmt.Errorf("player: add attacker: %w", err)
	}

	return entity, nil
}

// PlayerLocator finds the player each time it is asked, so it survives the
// player entity being rebuilt.
type PlayerLocator struct {
	World *ecs.World
}

func (l PlayerLocator) Position() (common.Vec2, bool) {
	player, ok := ecs.First(l.World, component.PlayerTagComponent.Kind())
	if !ok {
		return common.Vec2{}, false
	}
	t, ok := ecs.Get(l.World, player, component.TransformComponent.Kind())
	if !ok {
		return common.Vec2{}, false
	}
	return t.Position, true
}
