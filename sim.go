package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/pthm-cable/impulse/collision"
	"github.com/pthm-cable/impulse/config"
	"github.com/pthm-cable/impulse/material"
	"github.com/pthm-cable/impulse/telemetry"
	"github.com/pthm-cable/impulse/world"
)

// options bundles the CLI-level run parameters.
type options struct {
	Seed      int64
	LogStats  bool
	OutputDir string
	Scene     string
	UseGrid   bool
}

// sim drives one world: scene setup, the tick loop, and telemetry.
type sim struct {
	cfg     *config.Config
	worldID world.ID
	world   *world.World

	sceneName string
	tick      int64
	paused    bool

	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	out       *telemetry.OutputManager
	logStats  bool
}

func newSim(cfg *config.Config, opts options) (*sim, error) {
	material.Reset()
	if err := registerConfigMaterials(cfg.Materials); err != nil {
		return nil, err
	}

	id := world.Create()
	w, err := world.Get(id)
	if err != nil {
		return nil, err
	}

	w.SetIterations(cfg.Simulation.Iterations)
	if cfg.Boundary != nil {
		w.SetBoundary(&collision.AABB{
			MinX: cfg.Boundary.MinX, MinY: cfg.Boundary.MinY,
			MaxX: cfg.Boundary.MaxX, MaxY: cfg.Boundary.MaxY,
		})
	}
	if opts.UseGrid {
		w.SetBroadphase(world.NewGrid(4))
	}

	sceneName := opts.Scene
	if sceneName == "" {
		sceneName = cfg.Scene.Type
	}
	if err := buildScene(w, cfg, sceneName, opts.Seed); err != nil {
		world.Destroy(id)
		return nil, err
	}

	out, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		world.Destroy(id)
		return nil, err
	}
	if err := out.WriteConfig(cfg); err != nil {
		slog.Warn("failed to snapshot config", "error", err)
	}

	return &sim{
		cfg:       cfg,
		worldID:   id,
		world:     w,
		sceneName: sceneName,
		collector: telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Simulation.DT),
		perf:      telemetry.NewPerfCollector(cfg.Derived.TicksPerWindow),
		out:       out,
		logStats:  opts.LogStats,
	}, nil
}

func registerConfigMaterials(entries []config.MaterialConfig) error {
	for _, mc := range entries {
		combine, err := parseCombineMode(mc.FrictionCombine)
		if err != nil {
			return err
		}
		_, err = material.Register(material.Material{
			Name:            mc.Name,
			Density:         mc.Density,
			Restitution:     mc.Restitution,
			StaticFriction:  mc.StaticFriction,
			DynamicFriction: mc.DynamicFriction,
			FrictionCombine: combine,
			LinearDrag:      mc.LinearDrag,
			AngularDrag:     mc.AngularDrag,
		})
		if err != nil {
			return fmt.Errorf("registering material %q: %w", mc.Name, err)
		}
	}
	return nil
}

func parseCombineMode(name string) (material.CombineMode, error) {
	switch name {
	case "", "average":
		return material.CombineAverage, nil
	case "minimum":
		return material.CombineMinimum, nil
	case "maximum":
		return material.CombineMaximum, nil
	case "multiply":
		return material.CombineMultiply, nil
	default:
		return 0, fmt.Errorf("unknown friction combine mode %q", name)
	}
}

// step advances the world by one tick and feeds telemetry.
func (s *sim) step() error {
	s.world.ApplyGravity(s.cfg.Simulation.GravityX, s.cfg.Simulation.GravityY)

	s.perf.StartTick()
	if err := s.world.Tick(s.cfg.Simulation.DT); err != nil {
		return err
	}
	stats := s.world.Stats()
	s.perf.EndTick(map[string]time.Duration{
		telemetry.PhaseIntegrate:  stats.Integrate,
		telemetry.PhaseBroadphase: stats.Broadphase,
		telemetry.PhaseResolve:    stats.Resolve,
		telemetry.PhaseBoundary:   stats.Boundary,
	})

	s.tick++
	s.collector.RecordTick(stats.PairsTested, stats.NarrowHits, stats.Contacts, stats.MaxDepth)

	if s.collector.WindowDone(s.tick) {
		window := s.collector.Flush(s.tick, s.world.BodyCount())
		perfStats := s.perf.Stats()

		if s.logStats {
			slog.Info("window", "stats", window)
			perfStats.LogStats()
		}
		if err := s.out.WriteTelemetry(window); err != nil {
			slog.Warn("telemetry write failed", "error", err)
		}
		if err := s.out.WritePerf(perfStats, s.tick); err != nil {
			slog.Warn("perf write failed", "error", err)
		}
	}
	return nil
}

// update runs the per-frame logic in graphical mode.
func (s *sim) update() {
	s.handleInput()
	if s.paused {
		return
	}
	if err := s.step(); err != nil {
		slog.Error("tick failed", "error", err)
		s.paused = true
	}
}

func (s *sim) close() {
	s.out.Close()
	world.Destroy(s.worldID)
}
