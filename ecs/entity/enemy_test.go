package entity

import (
	"errors"
	"testing"

	"github.com/milk9111/hordewave/common"
	"github.com/milk9111/hordewave/ecs"
	"github.com/milk9111/hordewave/ecs/component"
	"github.com/milk9111/hordewave/pool"
	"github.com/milk9111/hordewave/prefabs"
	"github.com/milk9111/hordewave/signal"
)

func newHost(t *testing.T) (*EnemyHost, *ecs.World, *signal.DeathBus) {
	t.Helper()
	w := ecs.NewWorld()
	bus := signal.NewDeathBus()
	h := NewEnemyHost(w, bus, map[string]prefabs.ArchetypeSpec{
		"grunt": {Health: 10, Damage: 4, Speed: 2, Radius: 0.5, ContactCooldown: 1},
	})
	return h, w, bus
}

func TestCreateEnemy(t *testing.T) {
	h, w, _ := newHost(t)

	e, err := h.Create("grunt", common.V(1, 2), 0.5)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || tr.Position != common.V(1, 2) || tr.Rotation != 0.5 {
		t.Fatalf("unexpected transform %+v", tr)
	}
	hp, ok := ecs.Get(w, e, component.HealthComponent.Kind())
	if !ok || hp.Current != 10 || hp.Max != 10 {
		t.Fatalf("unexpected health %+v", hp)
	}
	if !ecs.Has(w, e, component.ActiveComponent.Kind()) {
		t.Fatalf("new enemy should be active")
	}

	if _, err := h.Create("wyvern", common.Vec2{}, 0); !errors.Is(err, ErrUnknownArchetype) {
		t.Fatalf("expected ErrUnknownArchetype, got %v", err)
	}
}

func TestKillFiresOncePerActivation(t *testing.T) {
	h, _, bus := newHost(t)
	deaths := 0
	bus.Subscribe(func(ecs.Entity) { deaths++ })

	e, _ := h.Create("grunt", common.Vec2{}, 0)
	h.EnsureDeathLatch(e)

	if !h.Kill(e) {
		t.Fatalf("first kill should fire")
	}
	if h.Kill(e) {
		t.Fatalf("second kill should be latched")
	}
	if h.Damage(e, 100) {
		t.Fatalf("damage on a dying enemy should not kill again")
	}
	if deaths != 1 {
		t.Fatalf("expected 1 broadcast, got %d", deaths)
	}

	h.OnAcquiredFromPool(e)
	if !h.Kill(e) || deaths != 2 {
		t.Fatalf("latch should re-arm on reuse, deaths=%d", deaths)
	}
}

func TestKillIgnoresInactive(t *testing.T) {
	h, _, _ := newHost(t)
	e, _ := h.Create("grunt", common.Vec2{}, 0)
	h.SetActive(e, false)
	if h.Kill(e) {
		t.Fatalf("inactive enemy should not die")
	}
}

func TestDamage(t *testing.T) {
	tests := []struct {
		name   string
		hits   []int
		killed bool
		left   int
	}{
		{"chip", []int{3}, false, 7},
		{"exact", []int{4, 6}, true, 0},
		{"overkill", []int{25}, true, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, w, _ := newHost(t)
			e, _ := h.Create("grunt", common.Vec2{}, 0)
			killed := false
			for _, amt := range tc.hits {
				killed = h.Damage(e, amt) || killed
			}
			if killed != tc.killed {
				t.Fatalf("killed=%v want %v", killed, tc.killed)
			}
			hp, _ := ecs.Get(w, e, component.HealthComponent.Kind())
			if hp.Current != tc.left {
				t.Fatalf("health %d want %d", hp.Current, tc.left)
			}
		})
	}
}

func TestScalingResetsOnReuse(t *testing.T) {
	h, w, _ := newHost(t)
	e, _ := h.Create("grunt", common.Vec2{}, 0)

	h.ApplyScaling(e, 1.5, 2, 1.25)
	h.MarkBoss(e)
	enemy, _ := ecs.Get(w, e, component.EnemyComponent.Kind())
	hp, _ := ecs.Get(w, e, component.HealthComponent.Kind())
	if hp.Max != 15 || hp.Current != 15 || enemy.Damage != 8 || enemy.Speed != 2.5 {
		t.Fatalf("unexpected scaled stats hp=%+v enemy=%+v", hp, enemy)
	}

	h.OnReleasedToPool(e)
	h.OnAcquiredFromPool(e)
	if hp.Max != 10 || enemy.Damage != 4 || enemy.Speed != 2 {
		t.Fatalf("stats not restored hp=%+v enemy=%+v", hp, enemy)
	}
	if ecs.Has(w, e, component.BossTagComponent.Kind()) {
		t.Fatalf("boss tag should not survive a pool round trip")
	}
}

func TestHostThroughPool(t *testing.T) {
	h, w, _ := newHost(t)
	p := pool.New(h)

	a, err := p.Acquire("grunt", common.V(5, 5), 0)
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	if !p.Release(a) {
		t.Fatalf("release failed")
	}
	if ecs.Has(w, a, component.ActiveComponent.Kind()) {
		t.Fatalf("released enemy should be inactive")
	}

	b, _ := p.Acquire("grunt", common.V(-3, 1), 0)
	if b != a {
		t.Fatalf("expected reuse of %v, got %v", a, b)
	}
	tr, _ := ecs.Get(w, b, component.TransformComponent.Kind())
	if tr.Position != common.V(-3, 1) {
		t.Fatalf("reused enemy not placed, at %v", tr.Position)
	}
}

func TestPlayerLocator(t *testing.T) {
	w := ecs.NewWorld()
	loc := PlayerLocator{World: w}
	if _, ok := loc.Position(); ok {
		t.Fatalf("no player yet")
	}
	if _, err := NewPlayer(w, prefabs.PlayerSpec{Position: common.V(4, -2), Health: 20}); err != nil {
		t.Fatalf("new player: %v", err)
	}
	pos, ok := loc.Position()
	if !ok || pos != common.V(4, -2) {
		t.Fatalf("unexpected player position %v ok=%v", pos, ok)
	}
}
