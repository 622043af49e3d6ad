package audio

import (
	"log"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/milk9111/hordewave/director"
)

const sampleRate = beep.SampleRate(44100)

// Cue names a short synthesized sound tied to a director event.
type Cue int

const (
	CueWaveStart Cue = iota
	CueWaveEnd
	CueFinalWave
	CueBoss
	CueComplete
	CueKill
)

// CueFor maps a director event to the cue it should sound, if any.
func CueFor(ev director.Event) (Cue, bool) {
	switch e := ev.(type) {
	case director.WaveStarted:
		return CueWaveStart, true
	case director.WaveEnded:
		return CueWaveEnd, true
	case director.FinalWave:
		return CueFinalWave, true
	case director.EnemySpawned:
		if e.Boss {
			return CueBoss, true
		}
	case director.EnemyKilled:
		return CueKill, true
	case director.AllWavesCompleted:
		return CueComplete, true
	}
	return 0, false
}

// Cues plays event cues through a single mixer. A Cues that failed to open
// the speaker stays usable and silent.
type Cues struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	initialized bool
	muted       map[Cue]bool
}

func NewCues(volume float64) *Cues {
	return &Cues{mixer: &beep.Mixer{}, volume: volume, muted: map[Cue]bool{}}
}

// Init opens the speaker. Failure is logged and leaves the cues silent.
func (c *Cues) Init() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		log.Printf("audio: speaker unavailable: %v", err)
		return err
	}
	speaker.Play(c.mixer)
	c.initialized = true
	return nil
}

func (c *Cues) Close() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized {
		return
	}
	speaker.Lock()
	c.mixer.Clear()
	speaker.Unlock()
	c.initialized = false
}

// Mute silences one cue without closing the speaker.
func (c *Cues) Mute(cue Cue, muted bool) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.muted[cue] = muted
	c.mu.Unlock()
}

// Handle plays the cue for ev, if it has one.
func (c *Cues) Handle(ev director.Event) {
	if cue, ok := CueFor(ev); ok {
		c.Play(cue)
	}
}

func (c *Cues) Play(cue Cue) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized || c.muted[cue] {
		return
	}
	s := Build(cue, c.volume)
	speaker.Lock()
	c.mixer.Add(s)
	speaker.Unlock()
}

// Build synthesizes the streamer for a cue. It is finite.
func Build(cue Cue, volume float64) beep.Streamer {
	var s beep.Streamer
	switch cue {
	case CueWaveStart:
		s = beep.Seq(tone(440, 90*time.Millisecond), tone(660, 140*time.Millisecond))
	case CueWaveEnd:
		s = beep.Seq(tone(660, 90*time.Millisecond), tone(440, 140*time.Millisecond))
	case CueFinalWave:
		s = beep.Seq(tone(330, 120*time.Millisecond), tone(330, 120*time.Millisecond), tone(220, 300*time.Millisecond))
	case CueBoss:
		s = beep.Mix(tone(110, 450*time.Millisecond), tone(116, 450*time.Millisecond))
	case CueComplete:
		s = beep.Seq(tone(523, 120*time.Millisecond), tone(659, 120*time.Millisecond), tone(784, 260*time.Millisecond))
	default:
		s = tone(880, 40*time.Millisecond)
	}
	return withVolume(s, volume)
}

func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

func tone(freq float64, d time.Duration) beep.Streamer {
	return beep.Take(sampleRate.N(d), &sine{freq: freq, fade: sampleRate.N(d)})
}

// sine is an endless sine wave with a linear fade over its first fade
// samples; Take bounds it.
type sine struct {
	freq  float64
	phase float64
	pos   int
	fade  int
}

func (s *sine) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		env := 1.0
		if s.fade > 0 {
			env = 1 - float64(s.pos)/float64(s.fade)
			if env < 0 {
				env = 0
			}
		}
		v := 0.3 * env * math.Sin(2*math.Pi*s.phase)
		samples[i][0] = v
		samples[i][1] = v
		s.phase += s.freq / float64(sampleRate)
		s.phase -= math.Floor(s.phase)
		s.pos++
	}
	return len(samples), true
}

func (s *sine) Err() error { return nil }
