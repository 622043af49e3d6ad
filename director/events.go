package director

import (
	"github.com/milk9111/hordewave/ecs"
	"github.com/milk9111/hordewave/wave"
)

// Event is anything the director reports to presentation layers.
type Event interface {
	event()
}

type WaveStarted struct {
	Index      int
	Name       string
	Mode       wave.Mode
	Multiplier float64
}

type WaveEnded struct {
	Index   int
	Spawned int
	Killed  int
}

// WaveChanged carries 1-based numbering for display. Total is the configured
// wave count; Loop is how many times an endless set has wrapped.
type WaveChanged struct {
	Current int
	Total   int
	Loop    int
}

type AliveChanged struct {
	Count int
}

type KillProgress struct {
	Current int
	Target  int
}

type IntermissionTick struct {
	SecondsLeft float64
}

type EnemySpawned struct {
	Entity    ecs.Entity
	Archetype string
	Boss      bool
}

type EnemyKilled struct {
	Entity ecs.Entity
}

type FinalWave struct {
	Index int
}

type AllWavesCompleted struct {
	WavesCleared int
}

type DirectorHalted struct {
	Err error
}

func (WaveStarted) event()       {}
func (WaveEnded) event()         {}
func (WaveChanged) event()       {}
func (AliveChanged) event()      {}
func (KillProgress) event()      {}
func (IntermissionTick) event()  {}
func (EnemySpawned) event()      {}
func (EnemyKilled) event()       {}
func (FinalWave) event()         {}
func (AllWavesCompleted) event() {}
func (DirectorHalted) event()    {}
