// Command biodome runs the planet simulation headless: it seeds a world
// from config, ticks it to a scenario outcome or a tick cap, and writes
// telemetry, with optional sqlite run history.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/mossline/biodome/config"
	"github.com/mossline/biodome/sim"
	"github.com/mossline/biodome/storage"
	"github.com/mossline/biodome/systems"
	"github.com/mossline/biodome/telemetry"
	"github.com/mossline/biodome/traits"
)

func main() {
	configPath := flag.String("config", "", "Config YAML file (empty = embedded defaults)")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Deterministic RNG seed")
	maxTicks := flag.Int("max-ticks", 50000, "Tick cap for the run")
	outputDir := flag.String("output-dir", "", "Telemetry output directory (empty = none)")
	dbPath := flag.String("db", "", "Sqlite run-history file (empty = none)")
	scenarioName := flag.String("scenario", "", "Built-in scenario to play (empty = sandbox)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	if err := config.Init(*configPath); err != nil {
		logger.Error("config load failed", "path", *configPath, "err", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	s := sim.New(cfg, *seed)

	if *scenarioName != "" {
		if err := s.SetScenario(*scenarioName); err != nil {
			logger.Error("unknown scenario", "name", *scenarioName, "err", err)
			os.Exit(1)
		}
	}

	if *outputDir != "" {
		om, err := telemetry.NewOutputManager(*outputDir)
		if err != nil {
			logger.Error("output dir setup failed", "dir", *outputDir, "err", err)
			os.Exit(1)
		}
		defer om.Close()
		if err := om.WriteConfig(cfg); err != nil {
			logger.Warn("config snapshot write failed", "err", err)
		}
		s.SetOutput(om)
	}

	ctx := context.Background()
	var store *storage.RunStore
	var runID string
	if *dbPath != "" {
		store = storage.NewRunStore(*dbPath)
		if err := store.Init(ctx); err != nil {
			logger.Error("run store init failed", "path", *dbPath, "err", err)
			os.Exit(1)
		}
		defer store.Close()

		id, err := store.BeginRun(ctx, *seed, *scenarioName)
		if err != nil {
			logger.Error("run registration failed", "err", err)
			os.Exit(1)
		}
		runID = id
		s.SetWindowSink(func(w telemetry.WindowStats) {
			if err := store.SaveWindow(ctx, runID, w); err != nil {
				logger.Warn("window save failed", "tick", w.Tick, "err", err)
			}
		})
	}

	logger.Info("run starting",
		"seed", *seed,
		"scenario", *scenarioName,
		"max_ticks", *maxTicks,
		"world", fmt.Sprintf("%.0fx%.0f", cfg.World.Width, cfg.World.Height),
	)

	start := time.Now()
	for i := 0; i < *maxTicks; i++ {
		s.Step()
		if s.Outcome() != systems.OutcomeNone {
			break
		}
	}
	elapsed := time.Since(start)

	agg := s.Aggregates()
	logger.Info("run finished",
		"ticks", s.Tick(),
		"outcome", s.Outcome().String(),
		"plants", agg.PlantCount(),
		"creatures", agg.CreatureCount(),
		"predators", agg.Counts[traits.Predator],
		"tribes", agg.Counts[traits.Tribe],
		"elapsed", elapsed.Round(time.Millisecond).String(),
	)

	if store != nil {
		if err := store.FinishRun(ctx, runID, s.Tick(), s.Outcome().String()); err != nil {
			logger.Warn("run finalize failed", "err", err)
		}
	}

	fmt.Printf("simulated %s ticks in %s (%s ticks/sec)\n",
		humanize.Comma(int64(s.Tick())),
		elapsed.Round(time.Millisecond),
		humanize.CommafWithDigits(float64(s.Tick())/elapsed.Seconds(), 0),
	)
}
