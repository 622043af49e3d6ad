package spawn

import (
	"testing"

	"github.com/milk9111/hordewave/common"
	"github.com/milk9111/hordewave/ecs"
	"github.com/milk9111/hordewave/pool"
	"github.com/milk9111/hordewave/signal"
	"github.com/milk9111/hordewave/wave"
)

type testHost struct {
	w       *ecs.World
	latched map[ecs.Entity]int
}

func (h *testHost) Create(string, common.Vec2, float64) (ecs.Entity, error) {
	return ecs.CreateEntity(h.w), nil
}
func (h *testHost) Place(ecs.Entity, common.Vec2, float64) {}
func (h *testHost) SetActive(ecs.Entity, bool)             {}
func (h *testHost) Alive(e ecs.Entity) bool                { return ecs.IsAlive(h.w, e) }
func (h *testHost) Destroy(e ecs.Entity)                   { ecs.DestroyEntity(h.w, e) }
func (h *testHost) EnsureDeathLatch(e ecs.Entity)          { h.latched[e]++ }

type blockAll struct{}

func (blockAll) Overlaps(common.Vec2, float64, uint) bool { return true }

func newTestService(t *testing.T, opts Options, obstacles Obstacles) (*Service, *signal.DeathBus, *testHost) {
	t.Helper()
	h := &testHost{w: ecs.NewWorld(), latched: map[ecs.Entity]int{}}
	bus := signal.NewDeathBus()
	svc := NewService(opts, Deps{
		Pool:      pool.New(h),
		Bus:       bus,
		Locator:   LocatorFunc(func() (common.Vec2, bool) { return common.Vec2{}, true }),
		Obstacles: obstacles,
		Latcher:   h,
	})
	return svc, bus, h
}

func TestSampleRingRadius(t *testing.T) {
	svc, _, _ := newTestService(t, DefaultOptions(), nil)
	ring := wave.Ring{RadiusMin: 15, RadiusMax: 25}
	center := common.V(3, -7)
	for i := 0; i < 2000; i++ {
		p := svc.SampleRing(center, ring)
		d := p.Dist(center)
		if d < 15-1e-9 || d > 25+1e-9 {
			t.Fatalf("sample %d at distance %v outside [15,25]", i, d)
		}
	}
}

func TestSampleRingClampsToBounds(t *testing.T) {
	svc, _, _ := newTestService(t, DefaultOptions(), nil)
	ring := wave.Ring{
		RadiusMin: 15,
		RadiusMax: 25,
		Bounds:    common.Rect{Min: common.V(-10, -10), Max: common.V(10, 10)},
		UseBounds: true,
	}
	for i := 0; i < 500; i++ {
		p := svc.SampleRing(common.Vec2{}, ring)
		if !ring.Bounds.Contains(p) {
			t.Fatalf("clamped sample %v outside bounds", p)
		}
	}
}

func TestSelectWeightedRandom(t *testing.T) {
	svc, _, _ := newTestService(t, DefaultOptions(), nil)
	entries := []wave.SpawnEntry{
		{Archetype: "cheap", Cost: 1, Weight: 1, MinWave: -1, MaxWave: -1},
		{Archetype: "mid", Cost: 3, Weight: 2, MinWave: -1, MaxWave: -1},
		{Archetype: "pricey", Cost: 10, Weight: 5, MinWave: -1, MaxWave: -1},
		{Archetype: "", Cost: 1, Weight: 100},
		{Archetype: "weightless", Cost: 1, Weight: 0},
	}

	tests := []struct {
		name      string
		max       float64
		wantOK    bool
		allowed   map[string]bool
		mustSee   []string
		maxCostOK float64
	}{
		{"none_affordable", 0.5, false, nil, nil, 0},
		{"only_cheap", 2.9, true, map[string]bool{"cheap": true}, []string{"cheap"}, 2.9},
		{"cheap_and_mid", 3, true, map[string]bool{"cheap": true, "mid": true}, []string{"cheap", "mid"}, 3},
		{"all", 100, true, map[string]bool{"cheap": true, "mid": true, "pricey": true}, []string{"cheap", "mid", "pricey"}, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen := map[string]int{}
			for i := 0; i < 1000; i++ {
				e, ok := svc.SelectWeightedRandom(entries, tt.max)
				if ok != tt.wantOK {
					t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
				}
				if !ok {
					return
				}
				if float64(e.Cost) > tt.maxCostOK {
					t.Fatalf("selected %s cost %d above %v", e.Archetype, e.Cost, tt.max)
				}
				if !tt.allowed[e.Archetype] {
					t.Fatalf("selected disallowed %q", e.Archetype)
				}
				seen[e.Archetype]++
			}
			for _, name := range tt.mustSee {
				if seen[name] == 0 {
					t.Fatalf("never selected %s in 1000 draws: %v", name, seen)
				}
			}
		})
	}
}

func TestSpawnEnemyRejections(t *testing.T) {
	tests := []struct {
		name      string
		opts      func() Options
		obstacles Obstacles
		archetype string
		noPlayer  bool
	}{
		{"empty_archetype", DefaultOptions, nil, "", false},
		{"player_too_close", func() Options {
			o := DefaultOptions()
			o.MinDistanceFromPlayer = 1000
			return o
		}, nil, "grunt", false},
		{"obstacles_everywhere", DefaultOptions, blockAll{}, "grunt", false},
		{"no_reference_actor", DefaultOptions, nil, "grunt", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestService(t, tt.opts(), tt.obstacles)
			if tt.noPlayer {
				svc.locator = LocatorFunc(func() (common.Vec2, bool) { return common.Vec2{}, false })
				if svc.ValidPosition(common.V(100, 100)) {
					t.Fatalf("position valid without a reference actor")
				}
			}
			ring := wave.Ring{RadiusMin: 15, RadiusMax: 25}
			if _, ok := svc.SpawnEnemy(tt.archetype, ring); ok {
				t.Fatalf("expected spawn failure")
			}
			if svc.TotalSpawned() != 0 || svc.AliveCount() != 0 || svc.ActiveCount("grunt") != 0 {
				t.Fatalf("failed spawn changed counters: spawned=%d alive=%d", svc.TotalSpawned(), svc.AliveCount())
			}
		})
	}
}

func TestDeathReturnsAfterDelay(t *testing.T) {
	svc, bus, h := newTestService(t, DefaultOptions(), nil)
	ring := wave.Ring{RadiusMin: 15, RadiusMax: 25}

	e, ok := svc.SpawnEnemy("grunt", ring)
	if !ok {
		t.Fatalf("expected spawn")
	}
	if h.latched[e] != 1 {
		t.Fatalf("expected death latch on spawn")
	}
	if svc.TotalSpawned() != 1 || svc.AliveCount() != 1 || svc.ActiveCount("grunt") != 1 {
		t.Fatalf("spawned=%d alive=%d", svc.TotalSpawned(), svc.AliveCount())
	}

	bus.Broadcast(e)
	bus.Broadcast(e)
	if svc.TotalKilled() != 1 {
		t.Fatalf("duplicate death counted: killed=%d", svc.TotalKilled())
	}
	if svc.AliveCount() != 1 || svc.PendingReturns() != 1 {
		t.Fatalf("dying instance should stay counted until return")
	}

	svc.Update(1.9)
	if svc.AliveCount() != 1 {
		t.Fatalf("returned too early")
	}
	svc.Update(0.2)
	if svc.AliveCount() != 0 || svc.PendingReturns() != 0 {
		t.Fatalf("expected return after delay, alive=%d", svc.AliveCount())
	}
	if svc.Pool().FreeCount("grunt") != 1 {
		t.Fatalf("instance not back in free queue")
	}

	again, ok := svc.SpawnEnemy("grunt", ring)
	if !ok || again != e {
		t.Fatalf("expected pooled reuse of %v, got %v", e, again)
	}
	if h.latched[e] != 2 {
		t.Fatalf("latch not re-ensured on reuse")
	}
}

func TestForeignDeathIgnored(t *testing.T) {
	svc, bus, h := newTestService(t, DefaultOptions(), nil)
	bus.Broadcast(ecs.CreateEntity(h.w))
	if svc.TotalKilled() != 0 {
		t.Fatalf("foreign death counted")
	}
}

func TestClearAllAndClose(t *testing.T) {
	svc, bus, _ := newTestService(t, DefaultOptions(), nil)
	ring := wave.Ring{RadiusMin: 15, RadiusMax: 25}
	a, _ := svc.SpawnEnemy("grunt", ring)
	svc.SpawnEnemy("grunt", ring)
	bus.Broadcast(a)

	svc.ClearAll()
	if svc.AliveCount() != 0 || svc.TotalKilled() != 0 || svc.TotalSpawned() != 0 || svc.PendingReturns() != 0 {
		t.Fatalf("ClearAll left state behind")
	}
	svc.Update(5)

	svc.Close()
	if bus.Listeners() != 0 {
		t.Fatalf("Close should unsubscribe")
	}
}
