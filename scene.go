package main

import (
	"fmt"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"heatsim/internal/heat"
	"heatsim/internal/palette"
)

var (
	renderTime movingAverage
	simTime    movingAverage
)

type Scene struct {
	sim     *heat.Simulation
	palette *palette.Palette
	// Raw data sent to the GPU
	frameBuffer []byte
	// Stop after this many frames, 0 runs until the window closes
	frameLimit uint64
	err        error
}

func newScene(sim *heat.Simulation, pal *palette.Palette, frameLimit uint64) *Scene {
	w, h := sim.Size()
	return &Scene{
		sim:         sim,
		palette:     pal,
		frameBuffer: make([]byte, w*h*4),
		frameLimit:  frameLimit,
	}
}

// The simulation runs in Draw so every displayed frame gets exactly one
// batch of sub-steps. Update only reports how the run ended.
func (s *Scene) Update() error {
	if s.err != nil {
		return s.err
	}
	if s.frameLimit > 0 && s.sim.Frames() >= s.frameLimit {
		return ebiten.Termination
	}
	return nil
}

func (s *Scene) Draw(screen *ebiten.Image) {
	if s.err != nil {
		return
	}
	timer := makeTimer()
	if err := s.sim.RequestFrame(); err != nil {
		s.err = err
		return
	}
	simTime.add(timer.tick())
	if err := s.render(screen); err != nil {
		s.err = err
		return
	}
	renderTime.add(timer.tick())

	debugInfo := ""
	debugInfo += fmt.Sprintf("FPS: %0.4g\n", ebiten.ActualFPS())
	debugInfo += fmt.Sprintf("Simulation time: %s\n", &simTime)
	debugInfo += fmt.Sprintf("Render time: %s\n", &renderTime)
	ebitenutil.DebugPrint(screen, debugInfo)
}

// Color every cell of the latest frame and push it to the screen
func (s *Scene) render(screen *ebiten.Image) error {
	err := s.sim.Export(func(f heat.Fetch) {
		s.palette.Fill(s.frameBuffer, f)
	})
	if err != nil {
		return err
	}
	screen.WritePixels(s.frameBuffer)
	return nil
}

func (s *Scene) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return s.sim.Size()
}

// Runs frames without a window and logs how the field looks afterwards
func runHeadless(sim *heat.Simulation, frames int) error {
	for i := 0; i < frames; i++ {
		timer := makeTimer()
		if err := sim.RequestFrame(); err != nil {
			return err
		}
		simTime.add(timer.tick())
	}

	var lo, hi, total float64
	err := sim.Export(func(f heat.Fetch) {
		lo, hi = float64(f.At(0)), float64(f.At(0))
		for i := 0; i < f.Len(); i++ {
			v := float64(f.At(i))
			lo = min(lo, v)
			hi = max(hi, v)
			total += v
		}
	})
	if err != nil {
		return err
	}

	w, h := sim.Size()
	slog.Info("headless run finished",
		slog.Uint64("frames", sim.Frames()),
		slog.String("avg_frame", simTime.String()),
		slog.Float64("min", lo),
		slog.Float64("max", hi),
		slog.Float64("mean", total/float64(w*h)))
	return nil
}
