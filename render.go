package main

import (
	"fmt"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/impulse/components"
	"github.com/pthm-cable/impulse/shape"
)

// pixelsPerUnit maps world units onto screen pixels.
const pixelsPerUnit = 16.0

// toScreen converts a world point to screen coordinates (y-up to y-down).
func (s *sim) toScreen(x, y float64) rl.Vector2 {
	return rl.Vector2{
		X: float32(s.cfg.Screen.Width)/2 + float32(x*pixelsPerUnit),
		Y: float32(s.cfg.Screen.Height)/2 - float32(y*pixelsPerUnit),
	}
}

// handleInput processes keyboard input.
func (s *sim) handleInput() {
	if rl.IsKeyPressed(rl.KeySpace) {
		s.paused = !s.paused
	}
}

// draw renders the world and the control panel.
func (s *sim) draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	s.drawBodies()
	s.drawBoundary()
	s.drawHUD()
	s.drawPanel()

	rl.EndDrawing()
}

func (s *sim) drawBodies() {
	for _, id := range s.world.Bodies() {
		typ, err := s.world.BodyType(id)
		if err != nil {
			continue
		}
		color := rl.Green
		switch typ {
		case components.Static:
			color = rl.Gray
		case components.Kinematic:
			color = rl.SkyBlue
		}

		bodyShape, err := s.world.Shape(id)
		if err != nil {
			continue
		}

		if bodyShape.Kind == shape.CircleKind {
			x, y, _ := s.world.Position(id)
			center := s.toScreen(x, y)
			rl.DrawCircleLinesV(center, float32(bodyShape.Radius*pixelsPerUnit), color)

			// Radius line makes rotation visible.
			theta, _ := s.world.Rotation(id)
			edge := s.toScreen(x+bodyShape.Radius*math.Cos(theta), y+bodyShape.Radius*math.Sin(theta))
			rl.DrawLineV(center, edge, color)
			continue
		}

		verts, err := s.world.TransformedVertices(id)
		if err != nil || len(verts) == 0 {
			continue
		}
		for i := range verts {
			j := (i + 1) % len(verts)
			rl.DrawLineV(s.toScreen(verts[i].X, verts[i].Y), s.toScreen(verts[j].X, verts[j].Y), color)
		}
	}
}

func (s *sim) drawBoundary() {
	b := s.world.Boundary()
	if b == nil {
		return
	}
	tl := s.toScreen(b.MinX, b.MaxY)
	br := s.toScreen(b.MaxX, b.MinY)
	rl.DrawRectangleLines(int32(tl.X), int32(tl.Y), int32(br.X-tl.X), int32(br.Y-tl.Y), rl.DarkGray)
}

func (s *sim) drawHUD() {
	stats := s.world.Stats()
	rl.DrawText(fmt.Sprintf("Tick: %d", s.tick), 10, 10, 20, rl.White)
	rl.DrawText(fmt.Sprintf("Bodies: %d  Pairs: %d  Hits: %d",
		s.world.BodyCount(), stats.PairsTested, stats.NarrowHits), 10, 35, 20, rl.White)
	if s.paused {
		rl.DrawText("PAUSED [space]", 10, 60, 20, rl.Yellow)
	}
}

// drawPanel renders the raygui control strip along the bottom edge.
func (s *sim) drawPanel() {
	panelY := float32(s.cfg.Screen.Height - 40)

	label := "Pause"
	if s.paused {
		label = "Resume"
	}
	if gui.Button(rl.Rectangle{X: 10, Y: panelY, Width: 90, Height: 30}, label) {
		s.paused = !s.paused
	}

	iterations := gui.SliderBar(
		rl.Rectangle{X: 180, Y: panelY, Width: 160, Height: 30},
		"1", "16",
		float32(s.world.Iterations()), 1, 16,
	)
	if int(iterations) != s.world.Iterations() {
		s.world.SetIterations(int(iterations))
	}
	rl.DrawText(fmt.Sprintf("iterations: %d", s.world.Iterations()), 360, int32(panelY)+6, 16, rl.RayWhite)

	gravity := gui.SliderBar(
		rl.Rectangle{X: 540, Y: panelY, Width: 160, Height: 30},
		"-0.5", "0.5",
		float32(s.cfg.Simulation.GravityY), -0.5, 0.5,
	)
	if float64(gravity) != s.cfg.Simulation.GravityY {
		s.cfg.Simulation.GravityY = float64(gravity)
	}
	rl.DrawText(fmt.Sprintf("gravity dv: %.3f", s.cfg.Simulation.GravityY), 720, int32(panelY)+6, 16, rl.RayWhite)
}
