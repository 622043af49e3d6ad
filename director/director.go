// Package director sequences waves: warmup, the active wave in either spawn
// discipline, intermissions, endless loops and completion.
package director

import (
	"fmt"
	"log"
	"math"

	"github.com/milk9111/hordewave/common"
	"github.com/milk9111/hordewave/ecs"
	"github.com/milk9111/hordewave/sched"
	"github.com/milk9111/hordewave/signal"
	"github.com/milk9111/hordewave/wave"
)

type State int

const (
	Idle State = iota
	Warmup
	WaveActive
	Intermission
	Completed
	Halted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Warmup:
		return "warmup"
	case WaveActive:
		return "wave"
	case Intermission:
		return "intermission"
	case Completed:
		return "completed"
	case Halted:
		return "halted"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Spawner is the slice of the spawn service the director drives.
type Spawner interface {
	SpawnEnemy(archetype string, ring wave.Ring) (ecs.Entity, bool)
	SelectWeightedRandom(entries []wave.SpawnEntry, maxAffordable float64) (wave.SpawnEntry, bool)
	AliveCount() int
	TotalKilled() int
}

// Decorator adjusts freshly spawned instances.
type Decorator interface {
	ApplyScaling(e ecs.Entity, hp, dmg, speed float64)
	MarkBoss(e ecs.Entity)
}

type Options struct {
	WarmupSeconds float64
	Debug         bool
}

func DefaultOptions() Options {
	return Options{WarmupSeconds: 3}
}

type Deps struct {
	Spawner   Spawner
	Decorator Decorator
	Bus       *signal.DeathBus
}

type Director struct {
	opts    Options
	set     wave.SetConfig
	nextSet *wave.SetConfig

	spawner Spawner
	deco    Decorator
	bus     *signal.DeathBus
	sub     signal.Subscription

	events  ecs.EventQueue[Event]
	waiters *sched.Waiters

	state    State
	err      error
	serial   int
	gameTime float64

	index int
	cfg   wave.Config
	mult  float64

	budget       float64
	elapsed      float64
	spawnTimer   float64
	waveSpawned  int
	waveKilled   int
	killBaseline int
	bossSpawned  bool
	total        int
	target       int
	interval     float64

	lastAlive int
}

func New(set wave.SetConfig, opts Options, deps Deps) *Director {
	d := &Director{
		opts:      opts,
		set:       set,
		spawner:   deps.Spawner,
		deco:      deps.Decorator,
		bus:       deps.Bus,
		waiters:   sched.New(),
		lastAlive: -1,
	}
	if d.bus != nil {
		d.sub = d.bus.Subscribe(func(e ecs.Entity) {
			d.events.Push(EnemyKilled{Entity: e})
		})
	}
	return d
}

// Close detaches the director from the death bus.
func (d *Director) Close() {
	if d == nil {
		return
	}
	d.waiters.CancelAll()
	if d.bus != nil {
		d.bus.Unsubscribe(d.sub)
		d.sub = 0
	}
}

func (d *Director) Events() *ecs.EventQueue[Event] {
	if d == nil {
		return nil
	}
	return &d.events
}

// Start validates the wave set and begins the run from wave 0.
func (d *Director) Start() error {
	if d == nil {
		return nil
	}
	d.waiters.CancelAll()
	d.err = nil
	if d.nextSet != nil {
		d.set = *d.nextSet
		d.nextSet = nil
	}
	if d.spawner == nil {
		return d.halt(fmt.Errorf("director: no spawner"))
	}
	if err := wave.Validate(d.set); err != nil {
		return d.halt(fmt.Errorf("director: invalid wave set: %w", err))
	}

	d.index = 0
	d.gameTime = 0
	d.mult = 1
	d.resetWave()
	d.lastAlive = -1

	if d.opts.WarmupSeconds > 0 {
		d.state = Warmup
		d.waiters.After(d.opts.WarmupSeconds, func() { d.beginWave(0) })
		return nil
	}
	d.beginWave(0)
	return nil
}

// Stop abandons the run. Instances already spawned are left to the caller.
func (d *Director) Stop() {
	if d == nil {
		return
	}
	d.waiters.CancelAll()
	d.state = Idle
}

// SetWaveSet swaps in a new set starting with the next wave. An invalid set
// is rejected and the current one kept.
func (d *Director) SetWaveSet(set wave.SetConfig) error {
	if d == nil {
		return nil
	}
	if err := wave.Validate(set); err != nil {
		return fmt.Errorf("director: reject wave set: %w", err)
	}
	if d.state == Idle || d.state == Halted || d.state == Completed {
		d.set = set
		d.nextSet = nil
		return nil
	}
	d.nextSet = &set
	return nil
}

func (d *Director) upcoming() wave.SetConfig {
	if d.nextSet != nil {
		return *d.nextSet
	}
	return d.set
}

// Tick advances the director by dt seconds. A wave started by a timer during
// this tick does its first step on the next one.
func (d *Director) Tick(dt float64) {
	if d == nil || dt < 0 {
		return
	}
	switch d.state {
	case Warmup, WaveActive, Intermission:
	default:
		return
	}

	d.gameTime += dt
	serial := d.serial
	d.waiters.Tick(dt)

	if d.state == WaveActive && d.serial == serial {
		switch d.cfg.Mode {
		case wave.ContinuousBudget:
			d.stepContinuous(dt)
		case wave.DiscreteTarget:
			d.stepDiscrete(dt)
		}
	}

	if alive := d.spawner.AliveCount(); alive != d.lastAlive {
		d.lastAlive = alive
		d.events.Push(AliveChanged{Count: alive})
	}
}

func (d *Director) stepContinuous(dt float64) {
	cfg := d.cfg
	d.elapsed += dt
	n := common.Clamp01(d.elapsed / cfg.DurationSeconds)
	d.budget += cfg.PointsPerSecondAt(n) * d.mult * dt

	if !d.bossSpawned && cfg.BossTimeSeconds > 0 && d.elapsed >= cfg.BossTimeSeconds {
		d.SpawnBoss()
	}

	entries := d.entries()
	if minCost, ok := wave.MinCost(entries); ok {
		for d.budget >= float64(minCost) && d.spawner.AliveCount() < cfg.MaxAlive {
			entry, ok := d.spawner.SelectWeightedRandom(entries, d.budget)
			if !ok {
				break
			}
			if !d.spawn(entry.Archetype, false) {
				break
			}
			d.budget -= float64(entry.Cost)
			d.waveSpawned++
		}
	}

	if d.elapsed >= cfg.DurationSeconds {
		d.endWave()
	}
}

func (d *Director) stepDiscrete(dt float64) {
	cfg := d.cfg
	d.elapsed += dt
	d.spawnTimer += dt

	d.updateKills()

	if d.waveSpawned < d.total && d.spawnTimer >= d.interval && d.spawner.AliveCount() < cfg.MaxAlive {
		if entry, ok := d.spawner.SelectWeightedRandom(d.entries(), math.Inf(1)); ok {
			if d.spawn(entry.Archetype, false) {
				d.waveSpawned++
				d.spawnTimer = 0
			}
		}
	}

	if d.waveKilled >= d.target {
		d.endWave()
	}
}

func (d *Director) updateKills() {
	killed := d.spawner.TotalKilled() - d.killBaseline
	if killed > d.target {
		killed = d.target
	}
	if killed < 0 {
		killed = 0
	}
	if killed != d.waveKilled {
		d.waveKilled = killed
		d.events.Push(KillProgress{Current: killed, Target: d.target})
	}
}

func (d *Director) entries() []wave.SpawnEntry {
	all := d.cfg.AvailableEntries(d.gameTime, d.index)
	out := all[:0]
	for _, e := range all {
		if e.Valid() {
			out = append(out, e)
		}
	}
	return out
}

// SpawnBoss spawns the configured boss once per wave. It reports whether a
// boss was spawned by this call.
func (d *Director) SpawnBoss() bool {
	if d == nil || d.state != WaveActive || d.bossSpawned || !d.cfg.HasBoss() {
		return false
	}
	if !d.spawn(d.cfg.Boss, true) {
		return false
	}
	d.bossSpawned = true
	if d.opts.Debug {
		log.Printf("director: boss %s spawned in wave %d", d.cfg.Boss, d.index)
	}
	return true
}

func (d *Director) spawn(archetype string, boss bool) bool {
	e, ok := d.spawner.SpawnEnemy(archetype, d.cfg.Ring())
	if !ok {
		return false
	}
	if d.deco != nil {
		if d.set.Scaling.Enabled {
			hp, dmg, speed := d.set.Scaling.Factors(d.index)
			d.deco.ApplyScaling(e, hp, dmg, speed)
		}
		if boss {
			d.deco.MarkBoss(e)
		}
	}
	d.events.Push(EnemySpawned{Entity: e, Archetype: archetype, Boss: boss})
	return true
}

func (d *Director) resetWave() {
	d.budget = 0
	d.elapsed = 0
	d.spawnTimer = 0
	d.waveSpawned = 0
	d.waveKilled = 0
	d.bossSpawned = false
	d.total = 0
	d.target = 0
	d.interval = 0
}

func (d *Director) beginWave(index int) {
	if d.nextSet != nil {
		d.set = *d.nextSet
		d.nextSet = nil
		log.Printf("director: wave set %q applied at wave %d", d.set.Name, index)
	}
	cfg, mult, ok := d.set.Wave(index)
	if !ok {
		d.complete()
		return
	}

	d.serial++
	d.index = index
	d.cfg = cfg
	d.mult = mult
	d.resetWave()
	d.killBaseline = d.spawner.TotalKilled()
	if cfg.Mode == wave.DiscreteTarget {
		d.total, d.target, d.interval = cfg.Scaled(mult)
	}
	d.state = WaveActive

	n := d.set.Len()
	d.events.Push(WaveChanged{Current: index + 1, Total: n, Loop: index / n})
	d.events.Push(WaveStarted{Index: index, Name: cfg.Name, Mode: cfg.Mode, Multiplier: mult})
	if d.set.IsFinal(index) {
		d.events.Push(FinalWave{Index: index})
	}
	if cfg.Mode == wave.DiscreteTarget {
		d.events.Push(KillProgress{Current: 0, Target: d.target})
	}
	if d.opts.Debug {
		log.Printf("director: wave %d %q (%s) x%.2f", index, cfg.Name, cfg.Mode, mult)
	}

	if cfg.SpawnBossAtStart {
		d.SpawnBoss()
	}
}

func (d *Director) endWave() {
	d.events.Push(WaveEnded{Index: d.index, Spawned: d.waveSpawned, Killed: d.waveKilled})

	next := d.index + 1
	if !d.upcoming().HasWave(next) {
		d.complete()
		return
	}
	if d.cfg.Mode == wave.DiscreteTarget && d.cfg.IntermissionSeconds > 0 {
		d.startIntermission(next, d.cfg.IntermissionSeconds)
		return
	}
	d.beginWave(next)
}

func (d *Director) startIntermission(next int, seconds float64) {
	d.state = Intermission
	d.serial++
	remaining := seconds
	d.events.Push(IntermissionTick{SecondsLeft: remaining})
	d.waiters.Every(1, func() bool {
		remaining--
		if remaining <= 0 {
			d.beginWave(next)
			return false
		}
		d.events.Push(IntermissionTick{SecondsLeft: remaining})
		return true
	})
}

func (d *Director) complete() {
	d.waiters.CancelAll()
	d.state = Completed
	d.events.Push(AllWavesCompleted{WavesCleared: d.index + 1})
	log.Printf("director: all waves completed (%d cleared)", d.index+1)
}

func (d *Director) halt(err error) error {
	d.waiters.CancelAll()
	d.state = Halted
	d.err = err
	d.events.Push(DirectorHalted{Err: err})
	log.Printf("director: halted: %v", err)
	return err
}

// ForceNextWave abandons the current warmup, wave or intermission and starts
// the following wave immediately. It reports false when nothing is running.
func (d *Director) ForceNextWave() bool {
	if d == nil {
		return false
	}
	next := d.index + 1
	switch d.state {
	case Warmup:
		next = 0
	case WaveActive:
		d.events.Push(WaveEnded{Index: d.index, Spawned: d.waveSpawned, Killed: d.waveKilled})
	case Intermission:
	default:
		return false
	}
	d.waiters.CancelAll()
	if !d.upcoming().HasWave(next) {
		d.complete()
		return true
	}
	d.beginWave(next)
	return true
}

func (d *Director) State() State {
	if d == nil {
		return Idle
	}
	return d.state
}

// Err is the error that halted the director, if any.
func (d *Director) Err() error {
	if d == nil {
		return nil
	}
	return d.err
}

func (d *Director) WaveSet() wave.SetConfig {
	if d == nil {
		return wave.SetConfig{}
	}
	return d.set
}

// Status is a read-only snapshot for HUDs and debug views.
type Status struct {
	State      State
	WaveIndex  int
	WaveName   string
	WaveCount  int
	Mode       wave.Mode
	Multiplier float64
	GameTime   float64
	Elapsed    float64
	Duration   float64
	Budget     float64
	Spawned    int
	Killed     int
	Total      int
	Target     int
	Alive      int
	MaxAlive   int
	Boss       bool
}

func (d *Director) Status() Status {
	if d == nil {
		return Status{}
	}
	st := Status{
		State:      d.state,
		WaveIndex:  d.index,
		WaveName:   d.cfg.Name,
		WaveCount:  d.set.Len(),
		Mode:       d.cfg.Mode,
		Multiplier: d.mult,
		GameTime:   d.gameTime,
		Elapsed:    d.elapsed,
		Duration:   d.cfg.DurationSeconds,
		Budget:     d.budget,
		Spawned:    d.waveSpawned,
		Killed:     d.waveKilled,
		Total:      d.total,
		Target:     d.target,
		MaxAlive:   d.cfg.MaxAlive,
		Boss:       d.bossSpawned,
	}
	if d.spawner != nil {
		st.Alive = d.spawner.AliveCount()
	}
	return st
}
