package arena

import (
	"fmt"
	"log"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/hordewave/audio"
	"github.com/milk9111/hordewave/common"
	"github.com/milk9111/hordewave/director"
	"github.com/milk9111/hordewave/ecs"
	"github.com/milk9111/hordewave/ecs/component"
	"github.com/milk9111/hordewave/ecs/entity"
	"github.com/milk9111/hordewave/ecs/system"
	"github.com/milk9111/hordewave/hud"
	"github.com/milk9111/hordewave/obj"
	"github.com/milk9111/hordewave/pool"
	"github.com/milk9111/hordewave/prefabs"
	"github.com/milk9111/hordewave/records"
	"github.com/milk9111/hordewave/signal"
	"github.com/milk9111/hordewave/spawn"
)

type Config struct {
	// ArenaFile is resolved through prefabs.Load. Defaults to arena.yaml.
	ArenaFile string
	// WaveSetFile overrides the arena's wave_set.
	WaveSetFile string
	// Watch enables hot reload of the prefabs directory.
	Watch bool
	Debug bool

	Records *records.Store
	Cues    *audio.Cues
}

// EnemyView is what a front end needs to draw one enemy.
type EnemyView struct {
	Entity    ecs.Entity
	Archetype string
	Position  common.Vec2
	Radius    float64
	Health    int
	MaxHealth int
	Boss      bool
	Dying     bool
}

// Arena wires the spawn service, director and gameplay systems around one
// world. Everything runs on the caller's goroutine inside Update.
type Arena struct {
	cfg   Config
	spec  *prefabs.ArenaSpec
	waves *prefabs.WaveSet

	world     *ecs.World
	bus       *signal.DeathBus
	obstacles *obj.ObstacleWorld
	host      *entity.EnemyHost
	pool      *pool.Pool
	spawner   *spawn.Service
	director  *director.Director
	scheduler *ecs.Scheduler
	attack    *system.AutoAttackSystem

	hud       *hud.Model
	watcher   *prefabs.Watcher
	listeners []func(director.Event)

	runTime  float64
	recorded bool
	defeated bool
}

func New(cfg Config) (*Arena, error) {
	if cfg.ArenaFile == "" {
		cfg.ArenaFile = "arena.yaml"
	}
	spec, err := prefabs.LoadArenaSpec(cfg.ArenaFile)
	if err != nil {
		return nil, fmt.Errorf("arena: %w", err)
	}
	if cfg.WaveSetFile != "" {
		spec.WaveSet = cfg.WaveSetFile
	}
	ws, err := prefabs.LoadWaveSet(spec.WaveSet)
	if err != nil {
		return nil, fmt.Errorf("arena: %w", err)
	}
	if cfg.Debug {
		ws.Director.Debug = true
	}

	a := &Arena{
		cfg:       cfg,
		spec:      spec,
		waves:     ws,
		world:     ecs.NewWorld(),
		bus:       signal.NewDeathBus(),
		obstacles: obj.NewObstacleWorld(),
		hud:       hud.New(),
	}

	for _, o := range spec.Obstacles {
		if o.Box != nil {
			a.obstacles.AddBox(*o.Box, o.Layer)
			continue
		}
		a.obstacles.AddCircle(o.Center, o.Radius, o.Layer)
	}

	if _, err := entity.NewPlayer(a.world, spec.Player); err != nil {
		return nil, fmt.Errorf("arena: %w", err)
	}

	a.host = entity.NewEnemyHost(a.world, a.bus, ws.Archetypes)
	a.pool = pool.New(a.host)
	a.spawner = spawn.NewService(ws.Spawn, spawn.Deps{
		Pool:      a.pool,
		Bus:       a.bus,
		Locator:   entity.PlayerLocator{World: a.world},
		Obstacles: a.obstacles,
		Latcher:   a.host,
	})
	a.director = director.New(ws.Set, ws.Director, director.Deps{
		Spawner:   a.spawner,
		Decorator: a.host,
		Bus:       a.bus,
	})

	a.attack = system.NewAutoAttackSystem(a.host)
	a.scheduler = ecs.NewScheduler(
		system.NewWaveSystem(a.spawner, a.director),
		system.NewChaseSystem(),
		a.attack,
	)

	if cfg.Watch {
		w, err := prefabs.NewWatcher(prefabs.DiskDir(), filepath.Join(prefabs.DiskDir(), "scripts"))
		if err != nil {
			log.Printf("arena: hot reload disabled: %v", err)
		} else {
			a.watcher = w
		}
	}

	return a, nil
}

// Start begins the run. An invalid wave set leaves the director halted and
// is returned.
func (a *Arena) Start() error {
	if a == nil {
		return nil
	}
	err := a.director.Start()
	a.flush()
	return err
}

// OnEvent registers fn to see every director event after the HUD has.
func (a *Arena) OnEvent(fn func(director.Event)) {
	if a == nil || fn == nil {
		return
	}
	a.listeners = append(a.listeners, fn)
}

// Update advances the whole arena by dt seconds.
func (a *Arena) Update(dt float64) {
	if a == nil {
		return
	}
	a.pollReload()

	a.world.Advance(dt)
	a.scheduler.Update(a.world)
	a.flush()

	st := a.director.State()
	if st == director.WaveActive || st == director.Intermission || st == director.Warmup {
		a.runTime += dt
	}
	if !a.defeated && a.playerDown() {
		a.defeated = true
		a.director.Stop()
		log.Printf("arena: player down on wave %d", a.hud.Wave)
		a.record(false)
	}
}

func (a *Arena) flush() {
	for _, ev := range a.director.Events().Drain() {
		a.hud.Apply(ev)
		a.cfg.Cues.Handle(ev)
		for _, fn := range a.listeners {
			fn(ev)
		}
		if _, ok := ev.(director.AllWavesCompleted); ok {
			a.record(true)
		}
	}
}

func (a *Arena) playerDown() bool {
	p, ok := ecs.First(a.world, component.PlayerTagComponent.Kind())
	if !ok {
		return false
	}
	hp, ok := ecs.Get(a.world, p, component.HealthComponent.Kind())
	return ok && hp.Current <= 0
}

func (a *Arena) record(completed bool) {
	if a.recorded || a.cfg.Records == nil || a.hud.Wave == 0 {
		return
	}
	a.recorded = true
	cleared := a.hud.Wave - 1
	if completed {
		cleared = a.hud.Cleared
	}
	if cleared < 0 {
		cleared = 0
	}
	rec, best, err := a.cfg.Records.Submit(a.waves.Set.Name, records.Run{
		WavesCleared: cleared,
		Loop:         a.hud.Loop,
		Kills:        a.hud.TotalKills,
		Seconds:      a.runTime,
		Completed:    completed,
	})
	if err != nil {
		log.Printf("arena: %v", err)
		return
	}
	if best {
		log.Printf("arena: new best on %s: wave %d loop %d", a.waves.Set.Name, rec.BestWave, rec.BestLoop)
	}
}

// Restart records the current run, clears every enemy and starts over with
// the current wave set.
func (a *Arena) Restart() error {
	if a == nil {
		return nil
	}
	a.record(false)
	a.director.Stop()
	a.spawner.ClearAll()
	a.director.Events().Drain()

	if p, ok := ecs.First(a.world, component.PlayerTagComponent.Kind()); ok {
		ecs.DestroyEntity(a.world, p)
	}
	if _, err := entity.NewPlayer(a.world, a.spec.Player); err != nil {
		return fmt.Errorf("arena: restart: %w", err)
	}

	a.hud = hud.New()
	a.attack.Kills = 0
	a.runTime = 0
	a.recorded = false
	a.defeated = false
	return a.Start()
}

func (a *Arena) SkipWave() bool {
	if a == nil {
		return false
	}
	ok := a.director.ForceNextWave()
	a.flush()
	return ok
}

// Reload re-reads the wave set file and hands it to the director for the
// next wave. Archetype stats apply to instances created from now on.
func (a *Arena) Reload() error {
	if a == nil {
		return nil
	}
	ws, err := prefabs.LoadWaveSet(a.spec.WaveSet)
	if err != nil {
		return fmt.Errorf("arena: reload: %w", err)
	}
	if err := a.director.SetWaveSet(ws.Set); err != nil {
		return fmt.Errorf("arena: reload: %w", err)
	}
	a.host.SetArchetypes(ws.Archetypes)
	a.waves = ws
	log.Printf("arena: reloaded %s (%d waves)", ws.Source, ws.Set.Len())
	return nil
}

func (a *Arena) pollReload() {
	changes := a.watcher.Poll()
	if len(changes) == 0 {
		return
	}
	reload := false
	for _, c := range changes {
		// scripts are referenced by the wave set, so any script edit reloads it
		if c.Script || c.Name() == filepath.Base(a.spec.WaveSet) {
			reload = true
		}
	}
	if !reload {
		return
	}
	if err := a.Reload(); err != nil {
		log.Printf("%v", err)
	}
}

// OccupancyYAML dumps pool occupancy per archetype.
func (a *Arena) OccupancyYAML() ([]byte, error) {
	if a == nil {
		return nil, nil
	}
	out := struct {
		WaveSet   string           `yaml:"wave_set"`
		Wave      int              `yaml:"wave"`
		Alive     int              `yaml:"alive"`
		Pending   int              `yaml:"pending_returns"`
		Spawned   int              `yaml:"total_spawned"`
		Killed    int              `yaml:"total_killed"`
		Occupancy []pool.Occupancy `yaml:"occupancy"`
	}{
		WaveSet:   a.waves.Set.Name,
		Wave:      a.hud.Wave,
		Alive:     a.spawner.AliveCount(),
		Pending:   a.spawner.PendingReturns(),
		Spawned:   a.spawner.TotalSpawned(),
		Killed:    a.spawner.TotalKilled(),
		Occupancy: a.pool.Occupancy(),
	}
	data, err := yaml.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("arena: occupancy: %w", err)
	}
	return data, nil
}

func (a *Arena) Enemies() []EnemyView {
	if a == nil {
		return nil
	}
	var out []EnemyView
	for _, e := range a.pool.Active() {
		arch, ok := a.pool.ArchetypeOf(e)
		if !ok {
			continue
		}
		enemy, ok := ecs.Get(a.world, e, component.EnemyComponent.Kind())
		if !ok {
			continue
		}
		t, _ := ecs.Get(a.world, e, component.TransformComponent.Kind())
		hp, _ := ecs.Get(a.world, e, component.HealthComponent.Kind())
		v := EnemyView{
			Entity:    e,
			Archetype: arch,
			Radius:    enemy.Radius,
			Boss:      ecs.Has(a.world, e, component.BossTagComponent.Kind()),
			Dying:     a.host.Dying(e),
		}
		if t != nil {
			v.Position = t.Position
		}
		if hp != nil {
			v.Health, v.MaxHealth = hp.Current, hp.Max
		}
		out = append(out, v)
	}
	slices.SortFunc(out, func(x, y EnemyView) int {
		if x.Entity < y.Entity {
			return -1
		}
		if x.Entity > y.Entity {
			return 1
		}
		return 0
	})
	return out
}

// Player returns the player position and health.
func (a *Arena) Player() (common.Vec2, int, int) {
	if a == nil {
		return common.Vec2{}, 0, 0
	}
	p, ok := ecs.First(a.world, component.PlayerTagComponent.Kind())
	if !ok {
		return common.Vec2{}, 0, 0
	}
	var pos common.Vec2
	if t, ok := ecs.Get(a.world, p, component.TransformComponent.Kind()); ok {
		pos = t.Position
	}
	hp, ok := ecs.Get(a.world, p, component.HealthComponent.Kind())
	if !ok {
		return pos, 0, 0
	}
	return pos, hp.Current, hp.Max
}

// MovePlayer nudges the player by dir scaled by the player speed and dt,
// kept inside the arena bounds.
func (a *Arena) MovePlayer(dir common.Vec2, dt float64) {
	if a == nil || a.defeated || dir.Len() == 0 {
		return
	}
	p, ok := ecs.First(a.world, component.PlayerTagComponent.Kind())
	if !ok {
		return
	}
	t, ok := ecs.Get(a.world, p, component.TransformComponent.Kind())
	if !ok {
		return
	}
	next := t.Position.Add(dir.Norm().Scale(a.spec.Player.Speed * dt))
	t.Position = a.spec.Bounds.ClampPoint(next)
}

func (a *Arena) Archetype(name string) (prefabs.ArchetypeSpec, bool) {
	return a.host.Archetype(name)
}

func (a *Arena) HUD() *hud.Model               { return a.hud }
func (a *Arena) Status() director.Status       { return a.director.Status() }
func (a *Arena) Obstacles() []obj.ObstacleInfo { return a.obstacles.Obstacles() }
func (a *Arena) Bounds() common.Rect           { return a.spec.Bounds }
func (a *Arena) Name() string                  { return a.spec.Name }
func (a *Arena) WaveSet() *prefabs.WaveSet     { return a.waves }
func (a *Arena) Defeated() bool                { return a.defeated }
func (a *Arena) Spawner() *spawn.Service       { return a.spawner }
func (a *Arena) Director() *director.Director  { return a.director }
func (a *Arena) World() *ecs.World             { return a.world }

// Close records an unfinished run and releases the watcher and audio.
func (a *Arena) Close() error {
	if a == nil {
		return nil
	}
	a.record(false)
	a.director.Close()
	a.spawner.Close()
	a.cfg.Cues.Close()
	return a.watcher.Close()
}
