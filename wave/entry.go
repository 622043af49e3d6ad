package wave

// SpawnEntry is one archetype a wave may draw from, with its price and
// relative weight.
type SpawnEntry struct {
	Archetype string
	Cost      int
	Weight    float64
	MinTime   float64 // seconds of game time, 0 = no lower bound
	MaxTime   float64 // seconds of game time, 0 = no upper bound
	MinWave   int     // -1 = no lower bound
	MaxWave   int     // -1 = no upper bound
}

// NewSpawnEntry returns an entry with the unbounded defaults.
func NewSpawnEntry(archetype string) SpawnEntry {
	return SpawnEntry{Archetype: archetype, Cost: 1, Weight: 1, MinWave: -1, MaxWave: -1}
}

func (e SpawnEntry) Valid() bool {
	return e.Archetype != "" && e.Cost >= 1 && e.Weight > 0
}

// Available reports whether the entry may be drawn at gameTime during the
// given absolute wave index.
func (e SpawnEntry) Available(gameTime float64, waveIndex int) bool {
	if e.MinTime > 0 && gameTime < e.MinTime {
		return false
	}
	if e.MaxTime > 0 && gameTime > e.MaxTime {
		return false
	}
	if e.MinWave >= 0 && waveIndex < e.MinWave {
		return false
	}
	if e.MaxWave >= 0 && waveIndex > e.MaxWave {
		return false
	}
	return true
}

// MinCost returns the cheapest cost among entries, or false when empty.
func MinCost(entries []SpawnEntry) (int, bool) {
	if len(entries) == 0 {
		return 0, false
	}
	min := entries[0].Cost
	for _, e := range entries[1:] {
		if e.Cost < min {
			min = e.Cost
		}
	}
	return min, true
}
