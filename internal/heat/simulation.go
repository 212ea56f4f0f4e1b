package heat

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"heatsim/internal/parallel"
)

// Defaults for a run.
const (
	DefaultDim            = 1024
	DefaultMaxTemperature = 1.0
	DefaultMinTemperature = 0.0001
	DefaultSpeed          = 0.2
	DefaultStepsPerFrame  = 50
)

// Config sizes and tunes a Simulation. Speed must stay at or below
// StabilityLimit for the field to stay bounded; this is not checked.
type Config struct {
	Dim            int
	MaxTemperature float32
	MinTemperature float32
	Speed          float32
	StepsPerFrame  int

	// TileSize and Workers shape the parallel passes. Zero picks defaults.
	TileSize int
	Workers  int
}

// DefaultConfig returns the stock 1024x1024 setup.
func DefaultConfig() Config {
	return Config{
		Dim:            DefaultDim,
		MaxTemperature: DefaultMaxTemperature,
		MinTemperature: DefaultMinTemperature,
		Speed:          DefaultSpeed,
		StepsPerFrame:  DefaultStepsPerFrame,
		TileSize:       parallel.DefaultTileSize,
	}
}

// Option customizes New.
type Option func(*options)

type options struct {
	device  Device
	layout  *Layout
	initial []float32
}

// WithDevice reserves buffers on dev instead of an unlimited HostDevice.
func WithDevice(dev Device) Option {
	return func(o *options) { o.device = dev }
}

// WithLayout replaces the default heater layout.
func WithLayout(l Layout) Option {
	return func(o *options) { o.layout = &l }
}

// WithInitial sets the starting temperatures of grid A. Without it, A starts
// from the rendered heater layout.
func WithInitial(cells []float32) Option {
	return func(o *options) { o.initial = cells }
}

// Simulation owns both grids, the heater map and the scheduler that drives
// them. It is what the window harness talks to.
//
// RequestFrame, Export and Teardown are safe to call from different
// goroutines; they serialize on an internal lock.
type Simulation struct {
	mu sync.Mutex

	cfg     Config
	dev     Device
	a, b    *Grid
	heaters *HeaterMap
	sched   *Scheduler
	export  *View

	frames uint64
	err    error
	closed bool
}

// New reserves the grids and heater map and seeds grid A.
// Any allocation or upload failure releases what was already reserved.
func New(cfg Config, opts ...Option) (*Simulation, error) {
	if cfg.Dim <= 0 {
		return nil, fmt.Errorf("grid dimension %d: %w", cfg.Dim, ErrSizeMismatch)
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.device == nil {
		o.device = NewHostDevice(0)
	}
	layout := DefaultLayout(cfg.Dim, cfg.MaxTemperature, cfg.MinTemperature)
	if o.layout != nil {
		layout = *o.layout
	}

	s := &Simulation{cfg: cfg, dev: o.device}
	if err := s.allocate(layout, o.initial); err != nil {
		s.release()
		return nil, err
	}

	d := parallel.NewDispatcher(cfg.Dim, cfg.TileSize, cfg.Workers)
	s.sched = NewScheduler(d, s.a, s.b, s.heaters, cfg.Speed, cfg.StepsPerFrame)
	s.export = NewView("export", cfg.Dim)

	Logger().Info("simulation ready",
		slog.Int("dim", cfg.Dim),
		slog.Int("workers", d.Workers()),
		slog.Int("tiles", len(d.Tiles())),
		slog.Float64("speed", float64(cfg.Speed)),
		slog.Int("steps_per_frame", cfg.StepsPerFrame))
	return s, nil
}

func (s *Simulation) allocate(layout Layout, initial []float32) error {
	var err error
	if s.heaters, err = NewHeaterMap(s.dev, s.cfg.Dim, layout); err != nil {
		return err
	}
	if s.a, err = s.dev.Alloc(s.cfg.Dim); err != nil {
		return fmt.Errorf("grid A: %w", err)
	}
	if s.b, err = s.dev.Alloc(s.cfg.Dim); err != nil {
		return fmt.Errorf("grid B: %w", err)
	}

	if initial == nil {
		_, initial = layout.Render(s.cfg.Dim)
	}
	if err := s.dev.Upload(s.a, initial); err != nil {
		return fmt.Errorf("seed grid A: %w", err)
	}
	return nil
}

// RequestFrame runs one frame of sub-steps. After the first failure every
// later call returns that same error.
func (s *Simulation) RequestFrame() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrReleased
	}
	if s.err != nil {
		return s.err
	}

	start := time.Now()
	if err := s.sched.Frame(); err != nil {
		s.err = err
		frameFailures.Inc()
		Logger().Error("frame failed", slog.Uint64("frame", s.frames), slog.Any("error", err))
		return err
	}
	s.frames++
	framesTotal.Inc()
	frameDuration.Observe(time.Since(start).Seconds())
	return nil
}

// Size returns the grid width and height.
func (s *Simulation) Size() (width, height int) {
	return s.cfg.Dim, s.cfg.Dim
}

// Export hands the latest result to fn through a read-only handle. The
// handle must not be kept after fn returns. After a failed frame it
// returns the frame's error and fn is not called.
func (s *Simulation) Export(fn func(Fetch)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrReleased
	}
	// a failed frame may have left the current grid half written
	if s.err != nil {
		return s.err
	}
	if err := s.export.Bind(s.sched.Current()); err != nil {
		return err
	}
	fn(s.export.Fetch())
	return nil
}

// Frames returns the number of completed frames.
func (s *Simulation) Frames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Role returns the role the next sub-step will run with.
func (s *Simulation) Role() Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sched.Role()
}

// Err returns the error that stopped the run, if any.
func (s *Simulation) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Teardown unbinds the views and releases both grids and the heater map.
// Calling it more than once is fine.
func (s *Simulation) Teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.sched.Unbind()
	s.export.Unbind()
	s.release()
	Logger().Info("simulation torn down", slog.Uint64("frames", s.frames))
}

func (s *Simulation) release() {
	if s.heaters != nil {
		s.dev.Release(s.heaters.grid)
	}
	s.dev.Release(s.a)
	s.dev.Release(s.b)
}

// IsResourceError reports whether err came from reserving or binding buffers.
func IsResourceError(err error) bool {
	return errors.Is(err, ErrOutOfMemory) || errors.Is(err, ErrReleased)
}
