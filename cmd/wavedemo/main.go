package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.design/x/clipboard"

	"github.com/milk9111/hordewave/arena"
	"github.com/milk9111/hordewave/audio"
	"github.com/milk9111/hordewave/records"
)

func main() {
	arenaFile := flag.String("arena", "arena.yaml", "arena file in prefabs/")
	waveSet := flag.String("waves", "", "wave set file in prefabs/ (overrides the arena's)")
	watch := flag.Bool("watch", true, "hot reload prefabs/ on change")
	mute := flag.Bool("mute", false, "disable audio cues")
	quietKills := flag.Bool("quiet-kills", false, "keep wave cues but silence the per-kill cue")
	debug := flag.Bool("debug", false, "enable debug mode")
	flag.Parse()

	store, err := records.Open("hordewave")
	if err != nil {
		log.Printf("records: %v (using memory)", err)
	}

	var cues *audio.Cues
	if !*mute {
		cues = audio.NewCues(0.6)
		if err := cues.Init(); err != nil {
			cues = nil
		}
		cues.Mute(audio.CueKill, *quietKills)
	}

	clipOK := clipboard.Init() == nil
	if !clipOK {
		log.Printf("clipboard unavailable; occupancy copies go to the log")
	}

	a, err := arena.New(arena.Config{
		ArenaFile:   *arenaFile,
		WaveSetFile: *waveSet,
		Watch:       *watch,
		Debug:       *debug,
		Records:     store,
		Cues:        cues,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer a.Close()

	if err := a.Start(); err != nil {
		log.Printf("wave set rejected: %v", err)
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("hordewave")

	if err := ebiten.RunGame(NewGame(a, store, clipOK, *debug)); err != nil {
		// log.Fatal skips deferred calls; record the run first.
		a.Close()
		log.Fatal(err)
	}
}
