package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"heatsim/internal/config"
	"heatsim/internal/heat"
	"heatsim/internal/palette"
)

type flags struct {
	configPath  string
	headless    bool
	frames      int
	dim         int
	speed       float32
	workers     int
	noHeaters   bool
	scale       int
	logLevel    string
	metricsAddr string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := flags{}
	cmd := &cobra.Command{
		Use:   "heatsim",
		Short: "2D heat diffusion with fixed heaters",
		Long: `heatsim diffuses temperature across a square grid. Heater cells are
forced back to their temperature before every sub-step, and each displayed
frame runs a fixed number of sub-steps.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			return run(cfg, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.configPath, "config", "c", "", "YAML settings file")
	fl.BoolVar(&f.headless, "headless", false, "run without a window")
	fl.IntVar(&f.frames, "frames", 0, "stop after this many frames (headless default 10)")
	fl.IntVar(&f.dim, "dim", 0, "grid edge length")
	fl.Float32Var(&f.speed, "speed", 0, "diffusion speed, keep at or below 0.25")
	fl.IntVar(&f.workers, "workers", 0, "goroutines per pass (0 = GOMAXPROCS)")
	fl.BoolVar(&f.noHeaters, "no-heaters", false, "run without heater cells")
	fl.IntVar(&f.scale, "scale", 0, "window scale factor")
	fl.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	fl.StringVar(&f.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	return cmd
}

// Flags only override the file when they were actually given
func loadConfig(cmd *cobra.Command, f flags) (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return cfg, err
	}
	changed := cmd.Flags().Changed
	if changed("dim") {
		cfg.Simulation.Dim = f.dim
	}
	if changed("speed") {
		cfg.Simulation.Speed = f.speed
	}
	if changed("workers") {
		cfg.Simulation.Workers = f.workers
	}
	if changed("no-heaters") {
		cfg.Simulation.Heaters = !f.noHeaters
	}
	if changed("scale") {
		cfg.Window.Scale = f.scale
	}
	if changed("log-level") {
		cfg.Observability.LogLevel = f.logLevel
	}
	if changed("metrics-addr") {
		cfg.Observability.MetricsAddr = f.metricsAddr
	}
	return cfg, cfg.Validate()
}

func run(cfg config.Config, f flags) error {
	level, err := config.ParseLevel(cfg.Observability.LogLevel)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	heat.SetLogger(logger)

	if cfg.Simulation.Speed > heat.StabilityLimit {
		slog.Warn("speed above stability limit, the field will diverge",
			slog.Float64("speed", float64(cfg.Simulation.Speed)),
			slog.Float64("limit", heat.StabilityLimit))
	}

	if addr := cfg.Observability.MetricsAddr; addr != "" {
		go serveMetrics(addr)
	}

	sim, err := heat.New(cfg.Heat(),
		heat.WithDevice(heat.NewHostDevice(cfg.Simulation.DeviceBudget)),
		heat.WithLayout(cfg.Layout()))
	if err != nil {
		return fmt.Errorf("set up simulation: %w", err)
	}
	defer sim.Teardown()

	if f.headless {
		frames := f.frames
		if frames <= 0 {
			frames = 10
		}
		return runHeadless(sim, frames)
	}

	pal := palette.New(cfg.Window.PaletteSize, cfg.Simulation.MinTemperature, cfg.Simulation.MaxTemperature)
	scene := newScene(sim, pal, uint64(max(f.frames, 0)))
	w, h := sim.Size()
	ebiten.SetWindowSize(w*cfg.Window.Scale, h*cfg.Window.Scale)
	ebiten.SetWindowTitle(cfg.Window.Title)
	return ebiten.RunGame(scene)
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	slog.Info("serving metrics", slog.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("metrics server stopped", slog.Any("error", err))
	}
}
