package wave

import (
	"errors"
	"fmt"
)

var ErrEmptySet = errors.New("wave: set has no waves")

// Validate reports every authoring error in s joined together, or nil.
func Validate(s SetConfig) error {
	if len(s.Waves) == 0 {
		return ErrEmptySet
	}

	var errs []error
	if s.EndlessMode {
		if s.EndlessScaling < 1 {
			errs = append(errs, fmt.Errorf("wave: endless_scaling %.2f < 1", s.EndlessScaling))
		}
		if s.MaxDifficultyMultiplier < 1 {
			errs = append(errs, fmt.Errorf("wave: max_difficulty_multiplier %.2f < 1", s.MaxDifficultyMultiplier))
		}
	}
	for i, w := range s.Waves {
		if err := ValidateWave(w); err != nil {
			errs = append(errs, fmt.Errorf("wave %d (%s): %w", i, w.Name, err))
		}
	}
	return errors.Join(errs...)
}

// ValidateWave checks a single wave in isolation.
func ValidateWave(c Config) error {
	var errs []error
	valid := 0
	for i, e := range c.Entries {
		switch {
		case e.Archetype == "":
			errs = append(errs, fmt.Errorf("entry %d: empty archetype", i))
		case e.Cost < 1:
			errs = append(errs, fmt.Errorf("entry %d (%s): cost %d < 1", i, e.Archetype, e.Cost))
		case e.Weight <= 0:
			errs = append(errs, fmt.Errorf("entry %d (%s): weight must be positive", i, e.Archetype))
		default:
			valid++
		}
	}
	if valid == 0 {
		errs = append(errs, errors.New("no valid spawn entries"))
	}
	if c.MaxAlive <= 0 {
		errs = append(errs, fmt.Errorf("max_alive %d must be positive", c.MaxAlive))
	}
	if c.SpawnRadiusMin < 0 || c.SpawnRadiusMin > c.SpawnRadiusMax {
		errs = append(errs, fmt.Errorf("spawn radius [%.2f, %.2f] invalid", c.SpawnRadiusMin, c.SpawnRadiusMax))
	}
	if c.UseWorldBounds && (c.WorldBounds.Min.X > c.WorldBounds.Max.X || c.WorldBounds.Min.Y > c.WorldBounds.Max.Y) {
		errs = append(errs, errors.New("world bounds min exceeds max"))
	}
	switch c.Mode {
	case ContinuousBudget:
		if c.DurationSeconds <= 0 {
			errs = append(errs, errors.New("duration_seconds must be positive"))
		}
		if c.PointsPerSecond < 0 {
			errs = append(errs, errors.New("points_per_second must not be negative"))
		}
	case DiscreteTarget:
		if c.TotalToSpawn <= 0 {
			errs = append(errs, errors.New("total_to_spawn must be positive"))
		}
		if c.SpawnsPerSecond <= 0 {
			errs = append(errs, errors.New("spawns_per_second must be positive"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown mode %v", c.Mode))
	}
	return errors.Join(errs...)
}

// ValidateRing rejects an unbounded ring that lies entirely inside the
// minimum spawn distance, since no sample could ever be accepted.
func ValidateRing(c Config, minDistance float64) error {
	if c.UseWorldBounds || minDistance <= 0 {
		return nil
	}
	if max(c.SpawnRadiusMin, c.SpawnRadiusMax) < minDistance {
		return fmt.Errorf("spawn ring max radius %.2f is inside min distance %.2f", max(c.SpawnRadiusMin, c.SpawnRadiusMax), minDistance)
	}
	return nil
}

// Warnings lists suspicious but playable settings.
func Warnings(s SetConfig) []string {
	var out []string
	for i, w := range s.Waves {
		if w.Mode == DiscreteTarget && w.EffectiveKillTarget() > w.TotalToSpawn {
			out = append(out, fmt.Sprintf("wave %d: kill_target %d exceeds total_to_spawn %d; completion relies on kills from other waves", i, w.KillTarget, w.TotalToSpawn))
		}
		if w.Mode == ContinuousBudget && w.BossTimeSeconds > w.DurationSeconds && w.HasBoss() {
			out = append(out, fmt.Sprintf("wave %d: boss_time_seconds %.1f is after the wave ends", i, w.BossTimeSeconds))
		}
		if w.Mode == ContinuousBudget && w.PointsPerSecond == 0 {
			out = append(out, fmt.Sprintf("wave %d: points_per_second is 0, nothing will spawn", i))
		}
		drawable := false
		for _, e := range w.Entries {
			if e.Valid() && (e.MinWave < 0 || e.MinWave <= i) && (e.MaxWave < 0 || e.MaxWave >= i) {
				drawable = true
				break
			}
		}
		if !drawable {
			out = append(out, fmt.Sprintf("wave %d: no entry is available at its own wave index", i))
		}
	}
	return out
}
