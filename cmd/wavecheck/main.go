package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/milk9111/hordewave/prefabs"
	"github.com/milk9111/hordewave/wave"
)

func main() {
	preview := flag.Int("preview", 0, "print the first N waves as the director would run them")
	all := flag.Bool("all", false, "check every wave set in prefabs/")
	flag.Parse()

	files := flag.Args()
	if *all {
		files = append(files, waveSetFiles()...)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "usage: wavecheck [-preview N] [-all] file.yaml ...")
		os.Exit(2)
	}

	ok := true
	for _, f := range files {
		if !check(os.Stdout, f, *preview) {
			ok = false
		}
	}
	if !ok {
		os.Exit(1)
	}
}

// waveSetFiles lists the prefabs that parse as a wave set.
func waveSetFiles() []string {
	var out []string
	for _, name := range prefabs.List() {
		if !strings.HasSuffix(name, ".yaml") {
			continue
		}
		// other prefabs decode as an empty set
		if ws, err := prefabs.LoadWaveSet(name); err == nil && ws.Set.Len() > 0 {
			out = append(out, name)
		}
	}
	return out
}

// check prints a report for one file and reports whether it is usable.
func check(w io.Writer, file string, preview int) bool {
	ws, err := prefabs.LoadWaveSet(file)
	if err != nil {
		fmt.Fprintf(w, "FAIL %s\n  %v\n", file, err)
		return false
	}
	set := ws.Set

	if err := wave.Validate(set); err != nil {
		fmt.Fprintf(w, "FAIL %s (%s)\n", file, set.Name)
		for _, line := range strings.Split(err.Error(), "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
		return false
	}

	mode := "finite"
	if set.EndlessMode {
		mode = fmt.Sprintf("endless x%.2f cap %.2f", set.EndlessScaling, set.MaxDifficultyMultiplier)
	}
	fmt.Fprintf(w, "ok   %s (%s): %d waves, %s, %d archetypes\n", file, set.Name, set.Len(), mode, len(ws.Archetypes))
	for _, warn := range wave.Warnings(set) {
		fmt.Fprintf(w, "  warn: %s\n", warn)
	}

	for i := 0; i < preview; i++ {
		cfg, mult, ok := set.Wave(i)
		if !ok {
			break
		}
		fmt.Fprintf(w, "  #%d %-10s %-17s x%.2f %s\n", i+1, cfg.Name, cfg.Mode, mult, describe(cfg, mult))
	}
	return true
}

func describe(cfg wave.Config, mult float64) string {
	var parts []string
	switch cfg.Mode {
	case wave.ContinuousBudget:
		parts = append(parts,
			fmt.Sprintf("%.0fs", cfg.DurationSeconds),
			fmt.Sprintf("pps %.2f..%.2f", cfg.PointsPerSecondAt(0)*mult, cfg.PointsPerSecondAt(1)*mult),
		)
	case wave.DiscreteTarget:
		total, target, interval := cfg.Scaled(mult)
		parts = append(parts,
			fmt.Sprintf("spawn %d", total),
			fmt.Sprintf("kill %d", target),
			fmt.Sprintf("every %.2fs", interval),
		)
		if cfg.IntermissionSeconds > 0 {
			parts = append(parts, fmt.Sprintf("break %.0fs", cfg.IntermissionSeconds))
		}
	}
	parts = append(parts, fmt.Sprintf("max %d", cfg.MaxAlive))
	if cfg.HasBoss() {
		parts = append(parts, fmt.Sprintf("boss %s@%.0fs", cfg.Boss, cfg.BossTimeSeconds))
	}
	return strings.Join(parts, " ")
}
