package director

import (
	"math"
	"testing"

	"github.com/milk9111/hordewave/ecs"
	"github.com/milk9111/hordewave/wave"
)

type fakeSpawner struct {
	alive   int
	killed  int
	fail    bool
	spawned []string
}

func (f *fakeSpawner) SpawnEnemy(archetype string, _ wave.Ring) (ecs.Entity, bool) {
	if f.fail {
		return 0, false
	}
	f.alive++
	f.spawned = append(f.spawned, archetype)
	return ecs.Entity(len(f.spawned)), true
}

// SelectWeightedRandom picks the first affordable entry so tests are exact.
func (f *fakeSpawner) SelectWeightedRandom(entries []wave.SpawnEntry, max float64) (wave.SpawnEntry, bool) {
	for _, e := range entries {
		if e.Valid() && float64(e.Cost) <= max {
			return e, true
		}
	}
	return wave.SpawnEntry{}, false
}

func (f *fakeSpawner) AliveCount() int  { return f.alive }
func (f *fakeSpawner) TotalKilled() int { return f.killed }

func (f *fakeSpawner) kill(n int) {
	f.alive -= n
	f.killed += n
}

func (f *fakeSpawner) count(archetype string) int {
	n := 0
	for _, a := range f.spawned {
		if a == archetype {
			n++
		}
	}
	return n
}

type fakeDecorator struct {
	scaled [][3]float64
	bosses []ecs.Entity
}

func (d *fakeDecorator) ApplyScaling(_ ecs.Entity, hp, dmg, speed float64) {
	d.scaled = append(d.scaled, [3]float64{hp, dmg, speed})
}
func (d *fakeDecorator) MarkBoss(e ecs.Entity) { d.bosses = append(d.bosses, e) }

func continuousWave(pps float64) wave.Config {
	c := wave.DefaultConfig()
	c.Name = "budget"
	c.PointsPerSecond = pps
	c.MaxAlive = 1000
	c.Entries = []wave.SpawnEntry{wave.NewSpawnEntry("grunt")}
	return c
}

func discreteWave(total int) wave.Config {
	c := wave.DefaultConfig()
	c.Name = "target"
	c.Mode = wave.DiscreteTarget
	c.TotalToSpawn = total
	c.SpawnsPerSecond = 10
	c.IntermissionSeconds = 0
	c.Entries = []wave.SpawnEntry{wave.NewSpawnEntry("grunt")}
	return c
}

func setOf(waves ...wave.Config) wave.SetConfig {
	s := wave.DefaultSetConfig()
	s.Waves = waves
	return s
}

func newTestDirector(t *testing.T, set wave.SetConfig, sp *fakeSpawner) *Director {
	t.Helper()
	d := New(set, Options{}, Deps{Spawner: sp})
	if err := d.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	return d
}

func tickFor(d *Director, seconds, dt float64) {
	steps := int(math.Round(seconds / dt))
	for i := 0; i < steps; i++ {
		d.Tick(dt)
	}
}

func drain[T Event](d *Director) []T {
	var out []T
	for _, evt := range d.Events().Drain() {
		if v, ok := evt.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

func TestBudgetAccumulatesAndSpends(t *testing.T) {
	sp := &fakeSpawner{}
	d := newTestDirector(t, setOf(continuousWave(2)), sp)

	tickFor(d, 5, 0.1)

	st := d.Status()
	got := float64(st.Spawned) + st.Budget
	if math.Abs(got-10) > 1e-6 {
		t.Fatalf("spent+budget = %v, want 10", got)
	}
	if st.Budget < 0 || st.Budget >= 1 {
		t.Fatalf("budget %v should be below the minimum cost", st.Budget)
	}
	if st.Spawned != len(sp.spawned) {
		t.Fatalf("wave counted %d spawns, spawner saw %d", st.Spawned, len(sp.spawned))
	}
}

func TestFailedSpawnKeepsBudget(t *testing.T) {
	sp := &fakeSpawner{fail: true}
	d := newTestDirector(t, setOf(continuousWave(2)), sp)
	tickFor(d, 1, 0.25)
	if b := d.Status().Budget; math.Abs(b-2) > 1e-9 {
		t.Fatalf("budget %v, want 2 with no successful spawns", b)
	}
}

func TestBudgetRespectsMaxAlive(t *testing.T) {
	sp := &fakeSpawner{}
	c := continuousWave(100)
	c.MaxAlive = 3
	d := newTestDirector(t, setOf(c), sp)
	tickFor(d, 2, 0.1)
	if sp.alive != 3 {
		t.Fatalf("alive %d, want cap 3", sp.alive)
	}
}

func TestContinuousWaveEndsOnDuration(t *testing.T) {
	sp := &fakeSpawner{}
	c := continuousWave(1)
	c.DurationSeconds = 2
	d := newTestDirector(t, setOf(c), sp)

	started := drain[FinalWave](d)
	if len(started) != 1 {
		t.Fatalf("single wave should be announced as final")
	}
	tickFor(d, 1.9, 0.1)
	if d.State() != WaveActive {
		t.Fatalf("state %v before duration", d.State())
	}
	tickFor(d, 0.2, 0.1)
	if d.State() != Completed {
		t.Fatalf("state %v after duration, want completed", d.State())
	}
	if done := drain[AllWavesCompleted](d); len(done) != 1 || done[0].WavesCleared != 1 {
		t.Fatalf("completion event %v", done)
	}
}

func TestMaxAliveStall(t *testing.T) {
	sp := &fakeSpawner{}
	c := discreteWave(5)
	c.MaxAlive = 2
	d := newTestDirector(t, setOf(c, discreteWave(1)), sp)

	tickFor(d, 3, 0.1)
	if len(sp.spawned) != 2 || d.State() != WaveActive {
		t.Fatalf("spawned %d state %v, want 2 and still active", len(sp.spawned), d.State())
	}

	sp.kill(1)
	tickFor(d, 1, 0.1)
	if len(sp.spawned) != 3 {
		t.Fatalf("spawned %d after a kill, want 3", len(sp.spawned))
	}

	for len(sp.spawned) < 5 {
		sp.kill(1)
		tickFor(d, 0.5, 0.1)
	}
	if d.Status().WaveIndex != 0 {
		t.Fatalf("wave advanced before its kill target")
	}
	sp.kill(sp.alive)
	d.Tick(0.1)
	if d.Status().WaveIndex != 1 {
		t.Fatalf("wave index %d after all kills, want 1", d.Status().WaveIndex)
	}
}

func TestDiscreteCompletesOnKillsOnly(t *testing.T) {
	tests := []struct {
		name       string
		total      int
		killTarget int
		kills      int
		wantDone   bool
	}{
		{"all_spawned_not_killed", 4, 0, 3, false},
		{"target_fallback_met", 4, 0, 4, true},
		{"explicit_target_met", 4, 2, 2, true},
		{"explicit_target_short", 4, 3, 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sp := &fakeSpawner{}
			c := discreteWave(tt.total)
			c.KillTarget = tt.killTarget
			d := newTestDirector(t, setOf(c), sp)
			tickFor(d, 2, 0.1)
			sp.kill(tt.kills)
			d.Tick(0.1)
			if done := d.State() == Completed; done != tt.wantDone {
				t.Fatalf("completed = %v, want %v", done, tt.wantDone)
			}
		})
	}
}

func TestKillsFromEarlierWavesDoNotCount(t *testing.T) {
	sp := &fakeSpawner{killed: 50}
	d := newTestDirector(t, setOf(discreteWave(3)), sp)
	tickFor(d, 1, 0.1)
	if d.Status().Killed != 0 {
		t.Fatalf("baseline not applied: killed %d", d.Status().Killed)
	}
}

func TestBossSpawnsOnce(t *testing.T) {
	sp := &fakeSpawner{}
	deco := &fakeDecorator{}
	c := continuousWave(1)
	c.Boss = "ogre"
	c.BossTimeSeconds = 2
	d := New(setOf(c), Options{}, Deps{Spawner: sp, Decorator: deco})
	if err := d.Start(); err != nil {
		t.Fatal(err)
	}

	tickFor(d, 1.5, 0.1)
	if sp.count("ogre") != 0 {
		t.Fatalf("boss spawned early")
	}
	tickFor(d, 10, 0.1)
	if sp.count("ogre") != 1 || len(deco.bosses) != 1 {
		t.Fatalf("boss spawns %d marks %d, want 1", sp.count("ogre"), len(deco.bosses))
	}
	if d.SpawnBoss() {
		t.Fatalf("manual boss spawn after latch should be a no-op")
	}
}

func TestBossAtStart(t *testing.T) {
	sp := &fakeSpawner{}
	c := discreteWave(3)
	c.Boss = "ogre"
	c.SpawnBossAtStart = true
	newTestDirector(t, setOf(c), sp)
	if sp.count("ogre") != 1 {
		t.Fatalf("expected boss at wave start")
	}
}

func TestIntermissionCountdown(t *testing.T) {
	sp := &fakeSpawner{}
	first := discreteWave(1)
	first.IntermissionSeconds = 3
	d := newTestDirector(t, setOf(first, discreteWave(1)), sp)

	d.Tick(0.1)
	sp.kill(1)
	d.Tick(0.1)
	if d.State() != Intermission {
		t.Fatalf("state %v, want intermission", d.State())
	}

	var ticks []float64
	collect := func() {
		for _, evt := range d.Events().Drain() {
			if it, ok := evt.(IntermissionTick); ok {
				ticks = append(ticks, it.SecondsLeft)
			}
		}
	}
	collect()
	tickFor(d, 2.9, 0.1)
	collect()
	if d.State() != Intermission {
		t.Fatalf("intermission ended early")
	}
	tickFor(d, 0.2, 0.1)
	collect()
	if d.State() != WaveActive || d.Status().WaveIndex != 1 {
		t.Fatalf("state %v index %d after intermission", d.State(), d.Status().WaveIndex)
	}
	want := []float64{3, 2, 1}
	if len(ticks) != len(want) {
		t.Fatalf("ticks %v, want %v", ticks, want)
	}
	for i := range want {
		if ticks[i] != want[i] {
			t.Fatalf("ticks %v, want %v", ticks, want)
		}
	}
}

func TestEndlessScalesTargets(t *testing.T) {
	sp := &fakeSpawner{}
	set := setOf(discreteWave(10))
	set.EndlessMode = true
	set.EndlessScaling = 1.5
	set.MaxDifficultyMultiplier = 2
	d := newTestDirector(t, set, sp)

	for loop, want := range []int{10, 15, 20, 20} {
		st := d.Status()
		if st.WaveIndex != loop || st.Target != want || st.Total != want {
			t.Fatalf("loop %d: index=%d target=%d total=%d, want target %d", loop, st.WaveIndex, st.Target, st.Total, want)
		}
		sp.kill(want)
		d.Tick(0.1)
	}
	if d.State() == Completed {
		t.Fatalf("endless set must never complete")
	}
}

func TestInvalidSetHalts(t *testing.T) {
	c := continuousWave(1)
	c.MaxAlive = 0
	d := New(setOf(c), Options{}, Deps{Spawner: &fakeSpawner{}})
	if err := d.Start(); err == nil {
		t.Fatalf("expected config error")
	}
	if d.State() != Halted || d.Err() == nil {
		t.Fatalf("state %v err %v, want halted", d.State(), d.Err())
	}
	if halted := drain[DirectorHalted](d); len(halted) != 1 {
		t.Fatalf("expected halt event")
	}
	d.Tick(1)
}

func TestWarmupAndForceNextWave(t *testing.T) {
	sp := &fakeSpawner{}
	d := New(setOf(discreteWave(5), discreteWave(5)), Options{WarmupSeconds: 3}, Deps{Spawner: sp})
	if err := d.Start(); err != nil {
		t.Fatal(err)
	}
	if d.State() != Warmup {
		t.Fatalf("state %v, want warmup", d.State())
	}

	if !d.ForceNextWave() || d.State() != WaveActive || d.Status().WaveIndex != 0 {
		t.Fatalf("skip from warmup should start wave 0")
	}
	tickFor(d, 5, 0.1)
	if d.State() != WaveActive {
		t.Fatalf("canceled warmup timer restarted the wave")
	}
	if !d.ForceNextWave() || d.Status().WaveIndex != 1 {
		t.Fatalf("skip should advance to wave 1")
	}
	if !d.ForceNextWave() || d.State() != Completed {
		t.Fatalf("skip past the last wave should complete, got %v", d.State())
	}
	if d.ForceNextWave() {
		t.Fatalf("skip after completion should report false")
	}
}

func TestWarmupDelaysFirstWave(t *testing.T) {
	sp := &fakeSpawner{}
	d := New(setOf(continuousWave(10)), Options{WarmupSeconds: 3}, Deps{Spawner: sp})
	_ = d.Start()
	tickFor(d, 2.9, 0.1)
	if len(sp.spawned) != 0 || d.State() != Warmup {
		t.Fatalf("spawned during warmup")
	}
	tickFor(d, 1, 0.1)
	if d.State() != WaveActive || len(sp.spawned) == 0 {
		t.Fatalf("wave did not begin after warmup")
	}
}

func TestSetWaveSetAppliesNextWave(t *testing.T) {
	sp := &fakeSpawner{}
	d := newTestDirector(t, setOf(discreteWave(2), discreteWave(2)), sp)

	replacement := discreteWave(7)
	replacement.Name = "reloaded"
	if err := d.SetWaveSet(setOf(discreteWave(2), replacement)); err != nil {
		t.Fatal(err)
	}
	if d.Status().Total != 2 {
		t.Fatalf("active wave changed mid-wave")
	}
	d.ForceNextWave()
	if st := d.Status(); st.WaveName != "reloaded" || st.Total != 7 {
		t.Fatalf("next wave %q total %d, want reloaded/7", st.WaveName, st.Total)
	}

	bad := setOf()
	if err := d.SetWaveSet(bad); err == nil {
		t.Fatalf("empty set should be rejected")
	}
}

func TestScalingDecorator(t *testing.T) {
	sp := &fakeSpawner{}
	deco := &fakeDecorator{}
	set := setOf(discreteWave(1), discreteWave(1), discreteWave(1))
	set.Scaling.Enabled = true
	d := New(set, Options{}, Deps{Spawner: sp, Decorator: deco})
	_ = d.Start()
	d.ForceNextWave()
	d.ForceNextWave()
	d.Tick(0.2)

	if len(deco.scaled) != 1 {
		t.Fatalf("expected one scaled spawn, got %d", len(deco.scaled))
	}
	got := deco.scaled[0]
	if math.Abs(got[0]-1.3225) > 1e-9 || math.Abs(got[1]-1.21) > 1e-9 {
		t.Fatalf("wave 2 factors %v", got)
	}
}

func TestAliveChangedEvents(t *testing.T) {
	sp := &fakeSpawner{}
	d := newTestDirector(t, setOf(discreteWave(3)), sp)
	d.Events().Drain()
	d.Tick(0.1)
	d.Tick(0.1)
	got := drain[AliveChanged](d)
	if len(got) == 0 || got[len(got)-1].Count != sp.alive {
		t.Fatalf("alive events %v, spawner alive %d", got, sp.alive)
	}
}
