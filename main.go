package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/impulse/config"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed for scene generation (0 = time-based)")
	maxTicks := flag.Int64("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	sceneType := flag.String("scene", "", "Scene type (stack, rain, container, mixed; empty = config)")
	useGrid := flag.Bool("grid", false, "Use the uniform-grid broadphase index")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	opts := options{
		Seed:      rngSeed,
		LogStats:  *logStats,
		OutputDir: *outputDir,
		Scene:     *sceneType,
		UseGrid:   *useGrid,
	}

	if *headless {
		s, err := newSim(cfg, opts)
		if err != nil {
			slog.Error("failed to build simulation", "error", err)
			os.Exit(1)
		}
		defer s.close()

		slog.Info("starting headless simulation",
			"seed", rngSeed,
			"scene", s.sceneName,
			"bodies", s.world.BodyCount(),
			"max_ticks", *maxTicks,
		)

		for {
			if err := s.step(); err != nil {
				slog.Error("tick failed", "error", err)
				os.Exit(1)
			}
			if *maxTicks > 0 && s.tick >= *maxTicks {
				slog.Info("max ticks reached", "tick", s.tick)
				return
			}
		}
	}

	// Graphical mode
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "impulse")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	s, err := newSim(cfg, opts)
	if err != nil {
		slog.Error("failed to build simulation", "error", err)
		os.Exit(1)
	}
	defer s.close()

	for !rl.WindowShouldClose() {
		s.update()
		s.draw()

		if *maxTicks > 0 && s.tick >= *maxTicks {
			break
		}
	}
}
