package wave

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestSpawnEntryAvailable(t *testing.T) {
	tests := []struct {
		name  string
		entry SpawnEntry
		time  float64
		wave  int
		want  bool
	}{
		{"unbounded", NewSpawnEntry("a"), 0, 0, true},
		{"before_min_time", SpawnEntry{Archetype: "a", MinTime: 10, MinWave: -1, MaxWave: -1}, 9.9, 0, false},
		{"at_min_time", SpawnEntry{Archetype: "a", MinTime: 10, MinWave: -1, MaxWave: -1}, 10, 0, true},
		{"after_max_time", SpawnEntry{Archetype: "a", MaxTime: 30, MinWave: -1, MaxWave: -1}, 30.5, 0, false},
		{"below_min_wave", SpawnEntry{Archetype: "a", MinWave: 2, MaxWave: -1}, 0, 1, false},
		{"above_max_wave", SpawnEntry{Archetype: "a", MinWave: -1, MaxWave: 3}, 0, 4, false},
		{"inside_wave_window", SpawnEntry{Archetype: "a", MinWave: 2, MaxWave: 3}, 0, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.Available(tt.time, tt.wave); got != tt.want {
				t.Fatalf("Available(%v, %d) = %v, want %v", tt.time, tt.wave, got, tt.want)
			}
		})
	}
}

func TestAvailableEntriesSkipsEmptyArchetype(t *testing.T) {
	c := DefaultConfig()
	c.Entries = []SpawnEntry{NewSpawnEntry(""), NewSpawnEntry("a"), {Archetype: "late", Cost: 1, Weight: 1, MinWave: 5, MaxWave: -1}}
	got := c.AvailableEntries(0, 0)
	if len(got) != 1 || got[0].Archetype != "a" {
		t.Fatalf("unexpected entries %v", got)
	}
}

func TestKeyframes(t *testing.T) {
	k := NewKeyframes(Key{1, 3}, Key{0, 1}, Key{0.5, 1})
	tests := []struct {
		t    float64
		want float64
	}{
		{-1, 1},
		{0, 1},
		{0.25, 1},
		{0.75, 2},
		{1, 3},
		{2, 3},
	}
	for _, tt := range tests {
		if got := k.Evaluate(tt.t); math.Abs(got-tt.want) > 1e-9 {
			t.Fatalf("Evaluate(%v) = %v, want %v", tt.t, got, tt.want)
		}
	}
	var empty *Keyframes
	if empty.Evaluate(0.5) != 1 {
		t.Fatalf("nil curve should evaluate to 1")
	}
}

func TestPointsPerSecondAt(t *testing.T) {
	c := DefaultConfig()
	c.PointsPerSecond = 4
	c.DifficultyMultiplier = 1.5
	if got := c.PointsPerSecondAt(0.3); got != 6 {
		t.Fatalf("flat income = %v, want 6", got)
	}
	c.PointsCurve = LinearRamp(0, 2)
	if got := c.PointsPerSecondAt(2); got != 12 {
		t.Fatalf("income past end should clamp t to 1, got %v", got)
	}
}

func TestEffectiveKillTarget(t *testing.T) {
	c := Config{TotalToSpawn: 20}
	if c.EffectiveKillTarget() != 20 {
		t.Fatalf("expected fallback to total")
	}
	c.KillTarget = 12
	if c.EffectiveKillTarget() != 12 {
		t.Fatalf("expected explicit target")
	}
}

func TestScaled(t *testing.T) {
	c := Config{TotalToSpawn: 10, KillTarget: 5, SpawnsPerSecond: 2}
	total, target, interval := c.Scaled(1.44)
	if total != 14 || target != 7 {
		t.Fatalf("total=%d target=%d", total, target)
	}
	if math.Abs(interval-1/2.88) > 1e-9 {
		t.Fatalf("interval=%v", interval)
	}
}

func TestSetWave(t *testing.T) {
	a := DefaultConfig()
	a.Name = "a"
	b := DefaultConfig()
	b.Name = "b"
	set := DefaultSetConfig()
	set.Waves = []Config{a, b}

	tests := []struct {
		name     string
		endless  bool
		index    int
		wantName string
		wantMult float64
		wantOK   bool
	}{
		{"first", false, 0, "a", 1, true},
		{"last", false, 1, "b", 1, true},
		{"past_end", false, 2, "", 0, false},
		{"negative", true, -1, "", 0, false},
		{"endless_loop1", true, 2, "a", 1.2, true},
		{"endless_loop1_second", true, 3, "b", 1.2, true},
		{"endless_loop2", true, 5, "b", 1.44, true},
		{"endless_capped", true, 40, "a", 5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := set
			s.EndlessMode = tt.endless
			cfg, mult, ok := s.Wave(tt.index)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if cfg.Name != tt.wantName || math.Abs(mult-tt.wantMult) > 1e-9 {
				t.Fatalf("got %s x%v, want %s x%v", cfg.Name, mult, tt.wantName, tt.wantMult)
			}
		})
	}

	if (SetConfig{EndlessMode: true}).HasWave(0) {
		t.Fatalf("empty set must report no wave")
	}
}

func TestEndlessMultiplierMonotonic(t *testing.T) {
	s := SetConfig{EndlessScaling: 1.3, MaxDifficultyMultiplier: 4}
	prev := 0.0
	for loop := 0; loop < 20; loop++ {
		m := s.EndlessMultiplier(loop)
		if m < prev {
			t.Fatalf("multiplier decreased at loop %d: %v < %v", loop, m, prev)
		}
		if m > 4 {
			t.Fatalf("multiplier %v exceeds cap", m)
		}
		prev = m
	}
	if s.EndlessMultiplier(0) != 1 {
		t.Fatalf("loop 0 must be 1")
	}
}

func TestScalingFactors(t *testing.T) {
	s := DefaultScaling()
	if hp, _, _ := s.Factors(3); hp != 1 {
		t.Fatalf("disabled scaling must be identity, got %v", hp)
	}
	s.Enabled = true
	hp, dmg, speed := s.Factors(2)
	if math.Abs(hp-1.3225) > 1e-9 || math.Abs(dmg-1.21) > 1e-9 || math.Abs(speed-1.1025) > 1e-9 {
		t.Fatalf("factors %v %v %v", hp, dmg, speed)
	}
}

func TestValidate(t *testing.T) {
	good := DefaultConfig()
	good.Entries = []SpawnEntry{NewSpawnEntry("grunt")}

	tests := []struct {
		name    string
		mutate  func(s *SetConfig)
		wantErr string
	}{
		{"ok", func(s *SetConfig) {}, ""},
		{"empty_set", func(s *SetConfig) { s.Waves = nil }, "no waves"},
		{"max_alive_zero", func(s *SetConfig) { s.Waves[0].MaxAlive = 0 }, "max_alive"},
		{"no_entries", func(s *SetConfig) { s.Waves[0].Entries = nil }, "no valid spawn entries"},
		{"empty_archetype", func(s *SetConfig) { s.Waves[0].Entries = append(s.Waves[0].Entries, NewSpawnEntry("")) }, "empty archetype"},
		{"radius_inverted", func(s *SetConfig) { s.Waves[0].SpawnRadiusMin = 30 }, "spawn radius"},
		{"discrete_rate", func(s *SetConfig) {
			s.Waves[0].Mode = DiscreteTarget
			s.Waves[0].SpawnsPerSecond = 0
		}, "spawns_per_second"},
		{"endless_scaling", func(s *SetConfig) {
			s.EndlessMode = true
			s.EndlessScaling = 0.5
		}, "endless_scaling"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSetConfig()
			w := good
			w.Entries = append([]SpawnEntry(nil), good.Entries...)
			s.Waves = []Config{w}
			tt.mutate(&s)
			err := Validate(s)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error %v, want substring %q", err, tt.wantErr)
			}
		})
	}

	if !errors.Is(Validate(SetConfig{}), ErrEmptySet) {
		t.Fatalf("expected ErrEmptySet")
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode("Discrete_Target"); err != nil || m != DiscreteTarget {
		t.Fatalf("got %v %v", m, err)
	}
	if _, err := ParseMode("bogus"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestValidateRing(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		minDist float64
		wantErr bool
	}{
		{"outside", Config{SpawnRadiusMin: 8, SpawnRadiusMax: 12}, 2, false},
		{"straddles", Config{SpawnRadiusMin: 0, SpawnRadiusMax: 3}, 2, false},
		{"inside", Config{SpawnRadiusMin: 0, SpawnRadiusMax: 1}, 2, true},
		{"zero_ring", Config{}, 2, true},
		{"bounded", Config{UseWorldBounds: true}, 2, false},
		{"no_min_distance", Config{}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRing(tt.cfg, tt.minDist)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateRing = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
