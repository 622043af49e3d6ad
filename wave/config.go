// Package wave holds the authored description of waves and wave sets and
// the pure queries the director runs against it.
package wave

import (
	"fmt"
	"math"
	"strings"

	"github.com/milk9111/hordewave/common"
)

type Mode int

const (
	// ContinuousBudget accrues spend points over a fixed duration.
	ContinuousBudget Mode = iota
	// DiscreteTarget spawns a fixed count at a fixed cadence and ends on kills.
	DiscreteTarget
)

func (m Mode) String() string {
	switch m {
	case ContinuousBudget:
		return "continuous_budget"
	case DiscreteTarget:
		return "discrete_target"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "continuous_budget", "continuous", "budget":
		return ContinuousBudget, nil
	case "discrete_target", "discrete", "target":
		return DiscreteTarget, nil
	}
	return 0, fmt.Errorf("wave: unknown mode %q", s)
}

// Ring describes where spawns are sampled relative to the reference actor.
type Ring struct {
	RadiusMin float64
	RadiusMax float64
	Bounds    common.Rect
	UseBounds bool
}

// Config describes one wave. Only the fields of the active Mode are read.
type Config struct {
	Name string
	Mode Mode

	DurationSeconds float64
	PointsPerSecond float64
	PointsCurve     Curve

	TotalToSpawn    int
	KillTarget      int
	SpawnsPerSecond float64

	MaxAlive       int
	SpawnRadiusMin float64
	SpawnRadiusMax float64
	WorldBounds    common.Rect
	UseWorldBounds bool

	Entries []SpawnEntry

	Boss             string
	BossTimeSeconds  float64
	SpawnBossAtStart bool

	DifficultyMultiplier float64
	IntermissionSeconds  float64
}

// DefaultConfig returns a wave with the stock tuning values.
func DefaultConfig() Config {
	return Config{
		Mode:                 ContinuousBudget,
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

// EffectiveKillTarget falls back to the spawn count when no target is set.
func (c Config) EffectiveKillTarget() int {
	if c.KillTarget > 0 {
		return c.KillTarget
	}
	return c.TotalToSpawn
}

// PointsPerSecondAt is budget income at normalized wave time t.
func (c Config) PointsPerSecondAt(t float64) float64 {
	mult := 1.0
	if c.PointsCurve != nil {
		mult = c.PointsCurve.Evaluate(common.Clamp01(t))
	}
	return c.PointsPerSecond * mult * c.DifficultyMultiplier
}

// AvailableEntries filters Entries down to those drawable right now.
func (c Config) AvailableEntries(gameTime float64, waveIndex int) []SpawnEntry {
	out := make([]SpawnEntry, 0, len(c.Entries))
	for _, e := range c.Entries {
		if e.Archetype == "" {
			continue
		}
		if e.Available(gameTime, waveIndex) {
			out = append(out, e)
		}
	}
	return out
}

func (c Config) Ring() Ring {
	return Ring{
		RadiusMin: c.SpawnRadiusMin,
		RadiusMax: c.SpawnRadiusMax,
		Bounds:    c.WorldBounds,
		UseBounds: c.UseWorldBounds,
	}
}

// HasBoss reports whether a boss archetype is configured.
func (c Config) HasBoss() bool {
	return c.Boss != ""
}

// Scaled returns the discrete-mode quantities after applying the endless
// multiplier: spawn total, kill target, and seconds between spawns.
func (c Config) Scaled(mult float64) (total, target int, interval float64) {
	total = int(math.Round(float64(c.TotalToSpawn) * mult))
	target = int(math.Round(float64(c.EffectiveKillTarget()) * mult))
	rate := c.SpawnsPerSecond * mult
	if rate > 0 {
		interval = 1 / rate
	} else {
		interval = math.Inf(1)
	}
	return total, target, interval
}
