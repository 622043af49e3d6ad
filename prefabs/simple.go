package prefabs

import (
	"github.com/milk9111/hordewave/wave"
	"gopkg.in/yaml.v3"
)

// SimpleWaveSetSpec is the count-and-rate layout: every wave spawns a fixed
// number of uniformly chosen enemies and ends when all of them are dead.
type SimpleWaveSetSpec struct {
	Kind              string                   `yaml:"kind"`
	Name              string                   `yaml:"name"`
	EndlessMode       bool                     `yaml:"endless_mode"`
	EndlessMultiplier float64                  `yaml:"endless_multiplier"`
	Scaling           ScalingSpec              `yaml:"scaling"`
	Director          DirectorSpec             `yaml:"director"`
	Spawn             SpawnSpec                `yaml:"spawn"`
	Archetypes        map[string]ArchetypeSpec `yaml:"archetypes"`
	Waves             []SimpleWaveSpec         `yaml:"waves"`
}

type SimpleWaveSpec struct {
	Name           string   `yaml:"name"`
	EnemiesToSpawn int      `yaml:"enemies_to_spawn"`
	SpawnRate      float64  `yaml:"spawn_rate"`
	MaxAlive       int      `yaml:"max_alive"`
	Enemies        []string `yaml:"enemies"`
	SpawnMinRadius float64  `yaml:"spawn_min_radius"`
	SpawnMaxRadius float64  `yaml:"spawn_max_radius"`
	BreakDuration  float64  `yaml:"break_duration"`
}

// UnmarshalYAML fills omitted keys with the stock simple wave tuning.
func (w *SimpleWaveSpec) UnmarshalYAML(value *yaml.Node) error {
	type plain SimpleWaveSpec
	p := plain{
		EnemiesToSpawn: 10,
		SpawnRate:      1,
		MaxAlive:       8,
		SpawnMinRadius: 8,
		SpawnMaxRadius: 12,
		BreakDuration:  5,
	}
	if err := value.Decode(&p); err != nil {
		return err
	}
	*w = SimpleWaveSpec(p)
	return nil
}

// simpleMaxMultiplier stands in for "no cap" on endless growth.
const simpleMaxMultiplier = 1000

func DefaultSimpleWaveSetSpec() SimpleWaveSetSpec {
	d := DefaultWaveSetSpec()
	return SimpleWaveSetSpec{
		EndlessMultiplier: 1.2,
		Scaling:           ScalingSpec{Enabled: true, HPPerWave: 1.15, DamagePerWave: 1.1, SpeedPerWave: 1.05},
		Director:          d.Director,
		Spawn:             d.Spawn,
	}
}

// Build turns every simple wave into a DiscreteTarget wave.
func (s SimpleWaveSetSpec) Build() (*WaveSet, error) {
	full := WaveSetSpec{
		Kind:                    "director",
		Name:                    s.Name,
		EndlessMode:             s.EndlessMode,
		EndlessScaling:          s.EndlessMultiplier,
		MaxDifficultyMultiplier: simpleMaxMultiplier,
		Scaling:                 s.Scaling,
		Director:                s.Director,
		Spawn:                   s.Spawn,
		Archetypes:              s.Archetypes,
	}
	for _, w := range s.Waves {
		full.Waves = append(full.Waves, w.toWaveSpec())
	}
	return full.Build()
}

func (w SimpleWaveSpec) toWaveSpec() WaveSpec {
	spec := defaultWaveSpec()
	spec.Name = w.Name
	spec.Mode = wave.DiscreteTarget.String()
	spec.TotalToSpawn = w.EnemiesToSpawn
	spec.KillTarget = w.EnemiesToSpawn
	spec.SpawnsPerSecond = w.SpawnRate
	spec.MaxAlive = w.MaxAlive
	spec.SpawnRadiusMin = w.SpawnMinRadius
	spec.SpawnRadiusMax = w.SpawnMaxRadius
	spec.UseWorldBounds = false
	spec.IntermissionSeconds = w.BreakDuration
	for _, name := range w.Enemies {
		spec.Entries = append(spec.Entries, EntrySpec{Archetype: name, Cost: 1, Weight: 1, MinWave: -1, MaxWave: -1})
	}
	return spec
}
