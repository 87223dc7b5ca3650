// Package main runs a headless stress benchmark: a container scene with a
// configurable body count, ticked as fast as possible while telemetry is
// streamed to CSV.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/pthm-cable/impulse/collision"
	"github.com/pthm-cable/impulse/material"
	"github.com/pthm-cable/impulse/shape"
	"github.com/pthm-cable/impulse/telemetry"
	"github.com/pthm-cable/impulse/world"
)

func main() {
	bodies := flag.Int("bodies", 300, "Number of dynamic bodies")
	ticks := flag.Int("ticks", 600, "Number of ticks to run")
	iterations := flag.Int("iterations", 4, "Substeps per tick")
	seed := flag.Int64("seed", 42, "RNG seed")
	useGrid := flag.Bool("grid", false, "Use the uniform-grid broadphase index")
	outputDir := flag.String("output", "", "Output directory for telemetry CSV")
	flag.Parse()

	const dt = 1.0 / 60.0

	id := world.Create()
	w, err := world.Get(id)
	if err != nil {
		log.Fatalf("creating world: %v", err)
	}
	defer world.Destroy(id)

	w.SetIterations(*iterations)
	w.SetBoundary(&collision.AABB{MinX: -60, MinY: -40, MaxX: 60, MaxY: 40})
	if *useGrid {
		w.SetBroadphase(world.NewGrid(4))
	}

	if err := populate(w, *bodies, *seed); err != nil {
		log.Fatalf("building scene: %v", err)
	}

	out, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		log.Fatalf("opening output: %v", err)
	}
	defer out.Close()

	collector := telemetry.NewCollector(1.0, dt)
	start := time.Now()

	for tick := int64(1); tick <= int64(*ticks); tick++ {
		w.ApplyGravity(0, -9.8*dt)
		if err := w.Tick(dt); err != nil {
			log.Fatalf("tick %d: %v", tick, err)
		}

		stats := w.Stats()
		collector.RecordTick(stats.PairsTested, stats.NarrowHits, stats.Contacts, stats.MaxDepth)
		if collector.WindowDone(tick) {
			if err := out.WriteTelemetry(collector.Flush(tick, w.BodyCount())); err != nil {
				log.Printf("telemetry write failed: %v", err)
			}
		}
	}

	elapsed := time.Since(start)
	perTick := elapsed / time.Duration(*ticks)
	fmt.Printf("%d bodies, %d ticks in %s (%s/tick, %.0f ticks/sec)\n",
		w.BodyCount(), *ticks, elapsed.Round(time.Millisecond),
		perTick.Round(time.Microsecond), float64(time.Second)/float64(perTick))
}

// populate fills the world with a floor and a mix of falling bodies.
func populate(w *world.World, bodies int, seed int64) error {
	rng := rand.New(rand.NewSource(seed))
	mat := material.Default()

	floor := w.NewStaticBody()
	slab, err := shape.Rectangle(110, 2)
	if err != nil {
		return err
	}
	if err := w.SetShape(floor, slab); err != nil {
		return err
	}
	if err := w.SetPosition(floor, 0, -35); err != nil {
		return err
	}

	for i := 0; i < bodies; i++ {
		id := w.NewDynamicBody()

		var s shape.Shape
		if rng.Float64() < 0.6 {
			s, err = shape.Circle(rng.Float64()*0.6 + 0.3)
		} else {
			s, err = shape.Rectangle(rng.Float64()+0.5, rng.Float64()+0.5)
		}
		if err != nil {
			return err
		}
		if err := w.SetShape(id, s); err != nil {
			return err
		}
		if err := w.SetMaterial(id, mat.ID); err != nil {
			return err
		}
		x := (rng.Float64() - 0.5) * 100
		y := rng.Float64()*60 - 25
		if err := w.SetPosition(id, x, y); err != nil {
			return err
		}
	}
	return nil
}
