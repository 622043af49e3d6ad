package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/milk9111/hordewave/arena"
	"github.com/milk9111/hordewave/records"
)

func main() {
	arenaFile := flag.String("arena", "arena.yaml", "arena file in prefabs/")
	waveSet := flag.String("waves", "", "wave set file in prefabs/ (overrides the arena's)")
	speed := flag.Float64("speed", 1, "simulation speed multiplier")
	logFile := flag.String("log", "wavetui.log", "log file (the terminal is taken by the dashboard)")
	flag.Parse()

	if f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
		log.SetOutput(f)
		defer f.Close()
	}

	store, err := records.Open("hordewave")
	if err != nil {
		log.Printf("records: %v (using memory)", err)
	}

	a, err := arena.New(arena.Config{
		ArenaFile:   *arenaFile,
		WaveSetFile: *waveSet,
		Watch:       true,
		Records:     store,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	if err := a.Start(); err != nil {
		log.Printf("wave set rejected: %v", err)
	}
	run(screen, a, *speed)
}

func run(screen tcell.Screen, a *arena.Arena, speed float64) {
	const frame = 50 * time.Millisecond
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	d := &dashboard{arena: a}
	for {
		select {
		case ev := <-events:
			if !d.handle(ev) {
				return
			}
			if _, ok := ev.(*tcell.EventResize); ok {
				screen.Sync()
			}
		case <-ticker.C:
			if !d.paused {
				a.Update(frame.Seconds() * speed)
			}
			d.draw(screen)
			screen.Show()
		}
	}
}
