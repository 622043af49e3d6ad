package wave

import "math"

// Scaling grows enemy stats geometrically with the absolute wave index.
type Scaling struct {
	Enabled       bool
	HPPerWave     float64
	DamagePerWave float64
	SpeedPerWave  float64
}

func DefaultScaling() Scaling {
	return Scaling{HPPerWave: 1.15, DamagePerWave: 1.1, SpeedPerWave: 1.05}
}

// Factors returns the hp, damage and speed multipliers for waveIndex.
func (s Scaling) Factors(waveIndex int) (hp, dmg, speed float64) {
	if !s.Enabled || waveIndex <= 0 {
		return 1, 1, 1
	}
	w := float64(waveIndex)
	return math.Pow(s.HPPerWave, w), math.Pow(s.DamagePerWave, w), math.Pow(s.SpeedPerWave, w)
}

// SetConfig is an ordered list of waves plus the endless-loop policy.
type SetConfig struct {
	Name                    string
	Waves                   []Config
	EndlessMode             bool
	EndlessScaling          float64
	MaxDifficultyMultiplier float64
	Scaling                 Scaling
}

func DefaultSetConfig() SetConfig {
	return SetConfig{
		EndlessScaling:          1.2,
		MaxDifficultyMultiplier: 5,
		Scaling:                 DefaultScaling(),
	}
}

func (s SetConfig) Len() int {
	return len(s.Waves)
}

// EndlessMultiplier is EndlessScaling^loop capped at MaxDifficultyMultiplier.
// A non-positive cap leaves the multiplier uncapped.
func (s SetConfig) EndlessMultiplier(loop int) float64 {
	if loop <= 0 {
		return 1
	}
	m := math.Pow(s.EndlessScaling, float64(loop))
	if s.MaxDifficultyMultiplier > 0 && m > s.MaxDifficultyMultiplier {
		return s.MaxDifficultyMultiplier
	}
	return m
}

// Wave resolves an absolute wave index. In endless mode indexes past the end
// wrap and carry the loop multiplier; otherwise they are reported missing.
func (s SetConfig) Wave(index int) (Config, float64, bool) {
	n := len(s.Waves)
	if index < 0 || n == 0 {
		return Config{}, 0, false
	}
	if index < n {
		return s.Waves[index], 1, true
	}
	if !s.EndlessMode {
		return Config{}, 0, false
	}
	loop := index / n
	return s.Waves[index%n], s.EndlessMultiplier(loop), true
}

func (s SetConfig) HasWave(index int) bool {
	_, _, ok := s.Wave(index)
	return ok
}

// IsFinal reports whether index is the last wave of a non-endless set.
func (s SetConfig) IsFinal(index int) bool {
	return !s.EndlessMode && index == len(s.Waves)-1
}
