package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/milk9111/hordewave/common"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// WaveSetSpec is the on-disk form of a wave set. Kind selects the format:
// empty or "director" for this layout, "simple" for SimpleWaveSetSpec.
type WaveSetSpec struct {
	Kind                    string                   `yaml:"kind"`
	Name                    string                   `yaml:"name"`
	EndlessMode             bool                     `yaml:"endless_mode"`
	EndlessScaling          float64                  `yaml:"endless_scaling"`
	MaxDifficultyMultiplier float64                  `yaml:"max_difficulty_multiplier"`
	Scaling                 ScalingSpec              `yaml:"scaling"`
	Director                DirectorSpec             `yaml:"director"`
	Spawn                   SpawnSpec                `yaml:"spawn"`
	Archetypes              map[string]ArchetypeSpec `yaml:"archetypes"`
	Waves                   []WaveSpec               `yaml:"waves"`
}

func DefaultWaveSetSpec() WaveSetSpec {
	return WaveSetSpec{
		EndlessScaling:          1.2,
		MaxDifficultyMultiplier: 5,
		Scaling:                 ScalingSpec{HPPerWave: 1.15, DamagePerWave: 1.1, SpeedPerWave: 1.05},
		Director:                DirectorSpec{WarmupSeconds: 3},
		Spawn: SpawnSpec{
			MinDistanceFromPlayer: 2,
			ObstacleRadius:        0.5,
			MaxAttempts:           10,
			PoolReturnDelay:       2,
			Seed:                  1,
		},
	}
}

type ScalingSpec struct {
	Enabled       bool    `yaml:"enabled"`
	HPPerWave     float64 `yaml:"hp_per_wave"`
	DamagePerWave float64 `yaml:"damage_per_wave"`
	SpeedPerWave  float64 `yaml:"speed_per_wave"`
}

type DirectorSpec struct {
	WarmupSeconds float64 `yaml:"warmup_seconds"`
	Debug         bool    `yaml:"debug"`
}

type SpawnSpec struct {
	MinDistanceFromPlayer float64 `yaml:"min_distance_from_player"`
	ObstacleRadius        float64 `yaml:"obstacle_radius"`
	ObstacleMask          uint    `yaml:"obstacle_mask"`
	MaxAttempts           int     `yaml:"max_attempts"`
	PoolReturnDelay       float64 `yaml:"pool_return_delay"`
	Seed                  int64   `yaml:"seed"`
	Debug                 bool    `yaml:"debug"`
}

// ArchetypeSpec is what an enemy instance of one archetype is built from.
type ArchetypeSpec struct {
	Health          int        `yaml:"health"`
	Damage          int        `yaml:"damage"`
	Speed           float64    `yaml:"speed"`
	Radius          float64    `yaml:"radius"`
	ContactCooldown float64    `yaml:"contact_cooldown"`
	Color           *YAMLColor `yaml:"color"`
}

type WaveSpec struct {
	Name string `yaml:"name"`
	Mode string `yaml:"mode"`

	DurationSeconds float64   `yaml:"duration_seconds"`
	PointsPerSecond float64   `yaml:"points_per_second"`
	PointsCurve     CurveSpec `yaml:"points_curve"`

	TotalToSpawn    int     `yaml:"total_to_spawn"`
	KillTarget      int     `yaml:"kill_target"`
	SpawnsPerSecond float64 `yaml:"spawns_per_second"`

	MaxAlive       int         `yaml:"max_alive"`
	SpawnRadiusMin float64     `yaml:"spawn_radius_min"`
	SpawnRadiusMax float64     `yaml:"spawn_radius_max"`
	WorldBounds    common.Rect `yaml:"world_bounds"`
	UseWorldBounds bool        `yaml:"use_world_bounds"`

	Entries []EntrySpec `yaml:"entries"`

	Boss             string  `yaml:"boss"`
	BossTimeSeconds  float64 `yaml:"boss_time_seconds"`
	SpawnBossAtStart bool    `yaml:"spawn_boss_at_start"`

	DifficultyMultiplier float64 `yaml:"difficulty_multiplier"`
	IntermissionSeconds  float64 `yaml:"intermission_seconds"`
}

func defaultWaveSpec() WaveSpec {
	return WaveSpec{
		DurationSeconds:      60,
		PointsPerSecond:      2,
		TotalToSpawn:         20,
		SpawnsPerSecond:      1,
		MaxAlive:             50,
		SpawnRadiusMin:       15,
		SpawnRadiusMax:       25,
		WorldBounds:          common.Rect{Min: common.V(-50, -50), Max: common.V(50, 50)},
		UseWorldBounds:       true,
		DifficultyMultiplier: 1,
		IntermissionSeconds:  10,
	}
}

// UnmarshalYAML fills omitted keys with the stock wave tuning.
func (w *WaveSpec) UnmarshalYAML(value *yaml.Node) error {
	type plain WaveSpec
	p := plain(defaultWaveSpec())
	if err := value.Decode(&p); err != nil {
		return err
	}
	*w = WaveSpec(p)
	return nil
}

type EntrySpec struct {
	Archetype string  `yaml:"archetype"`
	Cost      int     `yaml:"cost"`
	Weight    float64 `yaml:"weight"`
	MinTime   float64 `yaml:"min_time"`
	MaxTime   float64 `yaml:"max_time"`
	MinWave   int     `yaml:"min_wave"`
	MaxWave   int     `yaml:"max_wave"`
}

func (e *EntrySpec) UnmarshalYAML(value *yaml.Node) error {
	type plain EntrySpec
	p := plain{Cost: 1, Weight: 1, MinWave: -1, MaxWave: -1}
	if err := value.Decode(&p); err != nil {
		return err
	}
	*e = EntrySpec(p)
	return nil
}

// CurveSpec is either inline keyframes or a tengo script that assigns
// `value` from `t`. An empty spec is a flat curve.
type CurveSpec struct {
	Keys   []KeySpec `yaml:"keys"`
	Script string    `yaml:"script"`
}

type KeySpec struct {
	T float64 `yaml:"t"`
	V float64 `yaml:"v"`
}

// ArenaSpec lays out the playfield the demos run in.
type ArenaSpec struct {
	Name      string         `yaml:"name"`
	WaveSet   string         `yaml:"wave_set"`
	Bounds    common.Rect    `yaml:"bounds"`
	Player    PlayerSpec     `yaml:"player"`
	Obstacles []ObstacleSpec `yaml:"obstacles"`
}

type PlayerSpec struct {
	Position       common.Vec2 `yaml:"position"`
	Speed          float64     `yaml:"speed"`
	Health         int         `yaml:"health"`
	AttackRange    float64     `yaml:"attack_range"`
	AttackDamage   int         `yaml:"attack_damage"`
	AttackInterval float64     `yaml:"attack_interval"`
}

// ObstacleSpec is a box when Box is set, otherwise a circle.
type ObstacleSpec struct {
	Box    *common.Rect `yaml:"box"`
	Center common.Vec2  `yaml:"center"`
	Radius float64      `yaml:"radius"`
	Layer  uint         `yaml:"layer"`
}

func LoadArenaSpec(filename string) (*ArenaSpec, error) {
	spec, err := LoadSpec[ArenaSpec](filename)
	if err != nil {
		return nil, err
	}
	if spec.WaveSet == "" {
		spec.WaveSet = "waves.yaml"
	}
	return &spec, nil
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}

// RGBA falls back to opaque white when no color was given.
func (c *YAMLColor) RGBA() (r, g, b, a uint32) {
	if c == nil || c.Color == nil {
		return color.White.RGBA()
	}
	return c.Color.RGBA()
}
