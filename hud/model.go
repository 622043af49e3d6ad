package hud

import (
	"fmt"
	"strings"

	"github.com/milk9111/hordewave/director"
	"github.com/milk9111/hordewave/wave"
)

// Model is the display state a HUD draws from. It only ever changes by
// folding director events into it, so every front end shows the same thing.
type Model struct {
	Wave      int
	WaveTotal int
	Loop      int
	WaveName  string
	Mode      wave.Mode
	Alive     int
	Kills     int
	Target    int

	Intermission float64
	Final        bool
	Completed    bool
	Cleared      int
	Halted       error

	BossAlive  bool
	TotalKills int

	// Log keeps the last few notable events, newest last.
	Log    []string
	LogCap int
}

func New() *Model {
	return &Model{LogCap: 6}
}

// Apply folds one event into the model.
func (m *Model) Apply(ev director.Event) {
	if m == nil {
		return
	}
	switch e := ev.(type) {
	case director.WaveStarted:
		m.WaveName = e.Name
		m.Mode = e.Mode
		m.Intermission = 0
		m.Kills = 0
		m.Target = 0
		m.BossAlive = false
		m.note("wave %d: %s (x%.2f)", e.Index+1, e.Name, e.Multiplier)
	case director.WaveChanged:
		m.Wave = e.Current
		m.WaveTotal = e.Total
		m.Loop = e.Loop
	case director.WaveEnded:
		m.note("wave %d cleared: %d/%d", e.Index+1, e.Killed, e.Spawned)
	case director.AliveChanged:
		m.Alive = e.Count
	case director.KillProgress:
		m.Kills = e.Current
		m.Target = e.Target
	case director.IntermissionTick:
		m.Intermission = e.SecondsLeft
	case director.EnemySpawned:
		if e.Boss {
			m.BossAlive = true
			m.note("boss: %s", e.Archetype)
		}
	case director.EnemyKilled:
		m.TotalKills++
	case director.FinalWave:
		m.Final = true
		m.note("final wave")
	case director.AllWavesCompleted:
		m.Completed = true
		m.Cleared = e.WavesCleared
		m.note("all %d waves cleared", e.WavesCleared)
	case director.DirectorHalted:
		m.Halted = e.Err
		m.note("halted: %v", e.Err)
	}
}

// ApplyAll folds a batch of events in order.
func (m *Model) ApplyAll(events []director.Event) {
	for _, ev := range events {
		m.Apply(ev)
	}
}

func (m *Model) note(format string, args ...any) {
	m.Log = append(m.Log, fmt.Sprintf(format, args...))
	if m.LogCap > 0 && len(m.Log) > m.LogCap {
		m.Log = m.Log[len(m.Log)-m.LogCap:]
	}
}

// WaveLabel is "Wave 3/5", with the loop count appended once an endless set
// has wrapped.
func (m *Model) WaveLabel() string {
	if m == nil || m.Wave == 0 {
		return "Wave -"
	}
	label := fmt.Sprintf("Wave %d/%d", m.Wave, m.WaveTotal)
	if m.Loop > 0 {
		label += fmt.Sprintf(" (loop %d)", m.Loop)
	}
	return label
}

func (m *Model) KillLabel() string {
	if m == nil || m.Target <= 0 {
		return ""
	}
	return fmt.Sprintf("Kills %d/%d", m.Kills, m.Target)
}

// Lines renders the model as plain text rows for text front ends.
func (m *Model) Lines() []string {
	if m == nil {
		return nil
	}
	lines := []string{m.WaveLabel()}
	if m.WaveName != "" {
		lines = append(lines, fmt.Sprintf("%s [%s]", m.WaveName, m.Mode))
	}
	lines = append(lines, fmt.Sprintf("Alive %d", m.Alive))
	if k := m.KillLabel(); k != "" {
		lines = append(lines, k)
	}
	if m.Intermission > 0 {
		lines = append(lines, fmt.Sprintf("Next wave in %.0f", m.Intermission))
	}
	var flags []string
	if m.Final {
		flags = append(flags, "FINAL")
	}
	if m.BossAlive {
		flags = append(flags, "BOSS")
	}
	if m.Completed {
		flags = append(flags, "COMPLETE")
	}
	if m.Halted != nil {
		flags = append(flags, "HALTED")
	}
	if len(flags) > 0 {
		lines = append(lines, strings.Join(flags, " "))
	}
	return lines
}
