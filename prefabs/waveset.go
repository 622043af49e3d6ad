package prefabs

import (
	"fmt"
	"slices"

	"github.com/milk9111/hordewave/director"
	"github.com/milk9111/hordewave/spawn"
	"github.com/milk9111/hordewave/wave"
	"gopkg.in/yaml.v3"
)

// WaveSet is a wave set file resolved into runtime configuration.
type WaveSet struct {
	Source     string
	Set        wave.SetConfig
	Director   director.Options
	Spawn      spawn.Options
	Archetypes map[string]ArchetypeSpec
}

// LoadWaveSet reads and builds a wave set file in either supported layout.
func LoadWaveSet(filename string) (*WaveSet, error) {
	data, err := Load(filename)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	ws, err := ParseWaveSet(data)
	if err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", filename, err)
	}
	ws.Source = filename
	return ws, nil
}

// ParseWaveSet decodes a wave set document.
func ParseWaveSet(data []byte) (*WaveSet, error) {
	var head struct {
		Kind string `yaml:"kind"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	switch head.Kind {
	case "", "director":
		spec := DefaultWaveSetSpec()
		if err := yaml.Unmarshal(data, &spec); err != nil {
			return nil, fmt.Errorf("unmarshal: %w", err)
		}
		return spec.Build()
	case "simple":
		spec := DefaultSimpleWaveSetSpec()
		if err := yaml.Unmarshal(data, &spec); err != nil {
			return nil, fmt.Errorf("unmarshal: %w", err)
		}
		return spec.Build()
	}
	return nil, fmt.Errorf("unknown wave set kind %q", head.Kind)
}

// Build resolves the decoded file into runtime configuration. Archetypes
// referenced by entries or bosses must be declared when the archetypes table
// is non-empty.
func (s WaveSetSpec) Build() (*WaveSet, error) {
	set := wave.SetConfig{
		Name:                    s.Name,
		EndlessMode:             s.EndlessMode,
		EndlessScaling:          s.EndlessScaling,
		MaxDifficultyMultiplier: s.MaxDifficultyMultiplier,
		Scaling: wave.Scaling{
			Enabled:       s.Scaling.Enabled,
			HPPerWave:     s.Scaling.HPPerWave,
			DamagePerWave: s.Scaling.DamagePerWave,
			SpeedPerWave:  s.Scaling.SpeedPerWave,
		},
	}

	spawnOpts := s.Spawn.options()
	for i, ws := range s.Waves {
		cfg, err := ws.build()
		if err != nil {
			return nil, fmt.Errorf("wave %d (%s): %w", i, ws.Name, err)
		}
		if err := wave.ValidateRing(cfg, spawnOpts.MinDistanceFromPlayer); err != nil {
			return nil, fmt.Errorf("wave %d (%s): %w", i, ws.Name, err)
		}
		if err := s.checkArchetypes(cfg); err != nil {
			return nil, fmt.Errorf("wave %d (%s): %w", i, ws.Name, err)
		}
		set.Waves = append(set.Waves, cfg)
	}

	return &WaveSet{
		Set:        set,
		Director:   director.Options{WarmupSeconds: s.Director.WarmupSeconds, Debug: s.Director.Debug},
		Spawn:      spawnOpts,
		Archetypes: s.Archetypes,
	}, nil
}

func (s WaveSetSpec) checkArchetypes(cfg wave.Config) error {
	if len(s.Archetypes) == 0 {
		return nil
	}
	names := make([]string, 0, len(cfg.Entries)+1)
	for _, e := range cfg.Entries {
		names = append(names, e.Archetype)
	}
	if cfg.Boss != "" {
		names = append(names, cfg.Boss)
	}
	for _, n := range names {
		if n == "" {
			continue
		}
		if _, ok := s.Archetypes[n]; !ok {
			return fmt.Errorf("unknown archetype %q", n)
		}
	}
	return nil
}

func (s SpawnSpec) options() spawn.Options {
	opts := spawn.DefaultOptions()
	opts.MinDistanceFromPlayer = s.MinDistanceFromPlayer
	opts.ObstacleRadius = s.ObstacleRadius
	if s.ObstacleMask != 0 {
		opts.ObstacleMask = s.ObstacleMask
	}
	if s.MaxAttempts > 0 {
		opts.MaxAttempts = s.MaxAttempts
	}
	opts.PoolReturnDelay = s.PoolReturnDelay
	opts.Seed = s.Seed
	opts.Debug = s.Debug
	return opts
}

func (w WaveSpec) build() (wave.Config, error) {
	mode, err := wave.ParseMode(w.Mode)
	if err != nil {
		return wave.Config{}, err
	}
	curve, err := buildCurve(w.PointsCurve)
	if err != nil {
		return wave.Config{}, err
	}

	entries := make([]wave.SpawnEntry, 0, len(w.Entries))
	for _, e := range w.Entries {
		entries = append(entries, wave.SpawnEntry{
			Archetype: e.Archetype,
			Cost:      e.Cost,
			Weight:    e.Weight,
			MinTime:   e.MinTime,
			MaxTime:   e.MaxTime,
			MinWave:   e.MinWave,
			MaxWave:   e.MaxWave,
		})
	}

	return wave.Config{
		Name:                 w.Name,
		Mode:                 mode,
		DurationSeconds:      w.DurationSeconds,
		PointsPerSecond:      w.PointsPerSecond,
		PointsCurve:          curve,
		TotalToSpawn:         w.TotalToSpawn,
		KillTarget:           w.KillTarget,
		SpawnsPerSecond:      w.SpawnsPerSecond,
		MaxAlive:             w.MaxAlive,
		SpawnRadiusMin:       w.SpawnRadiusMin,
		SpawnRadiusMax:       w.SpawnRadiusMax,
		WorldBounds:          w.WorldBounds,
		UseWorldBounds:       w.UseWorldBounds,
		Entries:              entries,
		Boss:                 w.Boss,
		BossTimeSeconds:      w.BossTimeSeconds,
		SpawnBossAtStart:     w.SpawnBossAtStart,
		DifficultyMultiplier: w.DifficultyMultiplier,
		IntermissionSeconds:  w.IntermissionSeconds,
	}, nil
}

// ArchetypeNames lists declared archetypes in sorted order.
func (ws *WaveSet) ArchetypeNames() []string {
	if ws == nil {
		return nil
	}
	names := make([]string, 0, len(ws.Archetypes))
	for n := range ws.Archetypes {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
