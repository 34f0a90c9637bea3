// Command corridor replays scenario files through the path-boundary
// pipeline. For each scenario it prints a corridor summary and can persist
// the cycle to a SQLite database and render a boundary plot.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/banshee-data/corridor/internal/config"
	"github.com/banshee-data/corridor/internal/corridor"
	"github.com/banshee-data/corridor/internal/monitor"
	"github.com/banshee-data/corridor/internal/scenario"
	"github.com/banshee-data/corridor/internal/storage/sqlite"
	"github.com/banshee-data/corridor/internal/version"
)

var (
	configFile  = flag.String("config", "", "Path to a tuning JSON file (defaults apply when empty)")
	dbFile      = flag.String("db", "", "Path to a SQLite database to persist cycles (disabled when empty)")
	plotDir     = flag.String("plot", "", "Directory for boundary PNG plots (disabled when empty)")
	borrowFlag  = flag.String("borrow", "", "Override the scenarios' lane-borrow direction: left or right")
	showStats   = flag.Bool("stats", false, "Print aggregate width statistics after the batch")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()
	if *showVersion {
		fmt.Printf("corridor %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}
	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] scenario.json [scenario.json ...]\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg := &config.Tuning{}
	if *configFile != "" {
		loaded, err := config.Load(*configFile)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}

	var store *sqlite.CycleStore
	if *dbFile != "" {
		db, err := sqlite.Open(*dbFile)
		if err != nil {
			log.Fatalf("open cycle database: %v", err)
		}
		defer db.Close()
		store = sqlite.NewCycleStore(db)
	}

	var plotter *monitor.BoundaryPlotter
	if *plotDir != "" {
		bp, err := monitor.NewBoundaryPlotter(*plotDir)
		if err != nil {
			log.Fatalf("create plotter: %v", err)
		}
		plotter = bp
	}

	decider := corridor.NewDecider(cfg)
	stats := monitor.NewWidthStats()
	failures := 0

	for _, path := range flag.Args() {
		if err := runScenario(decider, store, plotter, stats, path); err != nil {
			log.Printf("scenario %s: %v", path, err)
			failures++
		}
	}

	if *showStats {
		snap := stats.Snapshot()
		log.Printf("cycles=%d blocked=%d width min=%.2f mean=%.2f p50=%.2f p90=%.2f max=%.2f",
			snap.Cycles, snap.Blocked, snap.MinWidth, snap.MeanWidth,
			snap.P50Width, snap.P90Width, snap.MaxWidth)
	}
	if failures > 0 {
		os.Exit(1)
	}
}

func runScenario(decider *corridor.Decider, store *sqlite.CycleStore,
	plotter *monitor.BoundaryPlotter, stats *monitor.WidthStats, path string) error {
	sc, err := scenario.Load(path)
	if err != nil {
		return err
	}
	name := sc.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), ".json")
	}

	switch *borrowFlag {
	case "":
	case "left", "right":
		sc.Borrow = *borrowFlag
	default:
		return fmt.Errorf("unknown -borrow value %q", *borrowFlag)
	}

	req, err := sc.BuildRequest()
	if err != nil {
		return err
	}

	res, err := decider.Decide(req)
	if err != nil {
		return fmt.Errorf("decide: %w", err)
	}

	bound := res.Boundary
	log.Printf("%s: %d points, s=[%.2f, %.2f], narrowest=%.2f m, blocking=%q",
		name, bound.Len(), bound.StartS(), bound.EndS(), bound.NarrowestWidth,
		bound.BlockingObstacleID)
	stats.AddCycle(bound.NarrowestWidth, bound.BlockingObstacleID != "")

	if store != nil {
		cycle, err := sqlite.NewCycle(name, sc.Mode, res)
		if err != nil {
			return err
		}
		if err := store.Insert(cycle); err != nil {
			return fmt.Errorf("persist cycle: %w", err)
		}
		log.Printf("%s: persisted cycle %s", name, cycle.CycleID)
	}

	if plotter != nil {
		polys := decider.GetSLPolygons(req.Ref, req.Obstacles, res.InitSL)
		file, err := plotter.Plot(name, bound, polys)
		if err != nil {
			return fmt.Errorf("plot boundary: %w", err)
		}
		log.Printf("%s: wrote %s", name, file)
	}
	return nil
}
