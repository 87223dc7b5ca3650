package main

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/impulse/config"
	"github.com/pthm-cable/impulse/material"
	"github.com/pthm-cable/impulse/shape"
	"github.com/pthm-cable/impulse/world"
)

// buildScene populates a world with one of the generated demo scenes.
func buildScene(w *world.World, cfg *config.Config, name string, seed int64) error {
	rng := rand.New(rand.NewSource(seed))

	mat, err := material.GetByName(cfg.Scene.Material)
	if err != nil {
		return err
	}

	switch name {
	case "stack":
		return buildStackScene(w, cfg, mat, rng)
	case "rain":
		return buildRainScene(w, cfg, mat, rng)
	case "container":
		return buildContainerScene(w, cfg, mat, rng)
	case "mixed":
		return buildMixedScene(w, cfg, mat, rng)
	default:
		return fmt.Errorf("unknown scene type %q", name)
	}
}

// addStatic creates a static rectangle, used for grounds and walls.
func addStatic(w *world.World, x, y, width, height float64) error {
	id := w.NewStaticBody()
	s, err := shape.Rectangle(width, height)
	if err != nil {
		return err
	}
	if err := w.SetShape(id, s); err != nil {
		return err
	}
	return w.SetPosition(id, x, y)
}

func addCircle(w *world.World, mat material.Material, x, y, r float64) error {
	id := w.NewDynamicBody()
	s, err := shape.Circle(r)
	if err != nil {
		return err
	}
	if err := w.SetShape(id, s); err != nil {
		return err
	}
	if err := w.SetMaterial(id, mat.ID); err != nil {
		return err
	}
	return w.SetPosition(id, x, y)
}

func addBox(w *world.World, mat material.Material, x, y, width, height float64) error {
	id := w.NewDynamicBody()
	s, err := shape.Rectangle(width, height)
	if err != nil {
		return err
	}
	if err := w.SetShape(id, s); err != nil {
		return err
	}
	if err := w.SetMaterial(id, mat.ID); err != nil {
		return err
	}
	return w.SetPosition(id, x, y)
}

// buildStackScene piles boxes into a pyramid on a ground slab.
func buildStackScene(w *world.World, cfg *config.Config, mat material.Material, rng *rand.Rand) error {
	if err := addStatic(w, 0, -10, 2*cfg.Scene.Spread+20, 2); err != nil {
		return err
	}

	const boxSize = 2.0
	levels := 1
	for levels*(levels+1)/2 < cfg.Scene.Bodies {
		levels++
	}

	placed := 0
	y := -9.0 + boxSize/2
	for level := levels; level > 0 && placed < cfg.Scene.Bodies; level-- {
		for i := 0; i < level && placed < cfg.Scene.Bodies; i++ {
			// A touch of jitter keeps the pyramid from settling perfectly.
			x := (float64(i)-float64(level-1)/2)*boxSize + (rng.Float64()-0.5)*0.05
			if err := addBox(w, mat, x, y, boxSize*0.9, boxSize*0.9); err != nil {
				return err
			}
			placed++
		}
		y += boxSize
	}
	return nil
}

// buildRainScene drops random bodies onto a ground slab.
func buildRainScene(w *world.World, cfg *config.Config, mat material.Material, rng *rand.Rand) error {
	spread := cfg.Scene.Spread
	if err := addStatic(w, 0, -15, 2*spread+20, 2); err != nil {
		return err
	}

	for i := 0; i < cfg.Scene.Bodies; i++ {
		x := (rng.Float64() - 0.5) * 2 * spread
		y := rng.Float64()*40 + 10
		if rng.Float64() < 0.7 {
			if err := addCircle(w, mat, x, y, rng.Float64()*0.8+0.3); err != nil {
				return err
			}
		} else {
			width := rng.Float64()*1.5 + 0.5
			height := rng.Float64()*1.5 + 0.5
			if err := addBox(w, mat, x, y, width, height); err != nil {
				return err
			}
		}
	}
	return nil
}

// buildContainerScene fills a three-walled container with bodies.
func buildContainerScene(w *world.World, cfg *config.Config, mat material.Material, rng *rand.Rand) error {
	spread := cfg.Scene.Spread
	const wall = 2.0

	if err := addStatic(w, 0, -15, 2*spread, wall); err != nil {
		return err
	}
	if err := addStatic(w, -spread, 0, wall, 30); err != nil {
		return err
	}
	if err := addStatic(w, spread, 0, wall, 30); err != nil {
		return err
	}

	for i := 0; i < cfg.Scene.Bodies; i++ {
		x := (rng.Float64() - 0.5) * (2*spread - 8)
		y := rng.Float64()*25 - 5
		if rng.Float64() < 0.6 {
			if err := addCircle(w, mat, x, y, rng.Float64()*0.7+0.3); err != nil {
				return err
			}
		} else {
			size := rng.Float64() + 0.5
			if err := addBox(w, mat, x, y, size, size); err != nil {
				return err
			}
		}
	}
	return nil
}

// buildMixedScene scatters platforms and a mix of falling bodies.
func buildMixedScene(w *world.World, cfg *config.Config, mat material.Material, rng *rand.Rand) error {
	spread := cfg.Scene.Spread

	if err := addStatic(w, -spread/2, -15, spread*0.8, 2); err != nil {
		return err
	}
	if err := addStatic(w, spread/2, -15, spread*0.8, 2); err != nil {
		return err
	}
	for i := 0; i < 4; i++ {
		x := (rng.Float64() - 0.5) * 2 * spread
		y := float64(i)*6 - 8
		if err := addStatic(w, x, y, rng.Float64()*10+6, 1); err != nil {
			return err
		}
	}

	for i := 0; i < cfg.Scene.Bodies; i++ {
		x := (rng.Float64() - 0.5) * 2 * spread
		y := rng.Float64()*30 + 5
		switch rng.Intn(3) {
		case 0:
			if err := addCircle(w, mat, x, y, rng.Float64()*0.8+0.3); err != nil {
				return err
			}
		case 1:
			size := rng.Float64() + 0.5
			if err := addBox(w, mat, x, y, size, size); err != nil {
				return err
			}
		default:
			width := rng.Float64()*2 + 0.5
			height := rng.Float64() + 0.3
			if err := addBox(w, mat, x, y, width, height); err != nil {
				return err
			}
		}
	}
	return nil
}
