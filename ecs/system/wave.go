package system

import (
	"github.com/milk9111/hordewave/director"
	"github.com/milk9111/hordewave/ecs"
	"github.com/milk9111/hordewave/spawn"
)

// WaveSystem drives the spawn service timers and the director from the
// world's frame delta. Pool returns run before the director so a wave that
// ends on this frame sees the freed capacity.
type WaveSystem struct {
	spawner  *spawn.Service
	director *director.Director
}

func NewWaveSystem(spawner *spawn.Service, dir *director.Director) *WaveSystem {
	return &WaveSystem{spawner: spawner, director: dir}
}

func (s *WaveSystem) Update(w *ecs.World) {
	if s == nil {
		return
	}
	dt := w.DeltaTime()
	s.spawner.Update(dt)
	s.director.Tick(dt)
}
