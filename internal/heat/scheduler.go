package heat

import (
	"fmt"
	"log/slog"
	"time"
)

// Role says which of the two grids is read during a sub-step.
type Role uint8

const (
	AIsInput Role = iota
	BIsInput
)

// Flip returns the other role.
func (r Role) Flip() Role {
	if r == AIsInput {
		return BIsInput
	}
	return AIsInput
}

// Buffers picks (input, output) out of the A and B grids.
func (r Role) Buffers(a, b *Grid) (in, out *Grid) {
	if r == AIsInput {
		return a, b
	}
	return b, a
}

func (r Role) String() string {
	if r == AIsInput {
		return "A_is_input"
	}
	return "B_is_input"
}

// Scheduler runs sub-steps over grids A and B, swapping their roles after
// each one.
type Scheduler struct {
	d       Dispatcher
	a, b    *Grid
	heaters *HeaterMap

	heaterView *View
	inputView  *View

	speed float32
	steps int
	role  Role
}

// NewScheduler wires the two grids, the heater map and their views.
// A starts as the input.
func NewScheduler(d Dispatcher, a, b *Grid, heaters *HeaterMap, speed float32, steps int) *Scheduler {
	dim := d.Dim()
	return &Scheduler{
		d:          d,
		a:          a,
		b:          b,
		heaters:    heaters,
		heaterView: NewView("heaters", dim),
		inputView:  NewView("input", dim),
		speed:      speed,
		steps:      steps,
		role:       AIsInput,
	}
}

// SubStep runs one heater pass and one stencil pass for the given role and
// returns the role for the next sub-step.
func (s *Scheduler) SubStep(role Role) (Role, error) {
	in, out := role.Buffers(s.a, s.b)

	if !s.heaters.BoundTo(s.heaterView) {
		if err := s.heaters.Bind(s.heaterView); err != nil {
			return role, err
		}
	}
	if err := ApplyHeaters(s.d, s.heaterView, in); err != nil {
		return role, err
	}

	if err := s.inputView.Bind(in); err != nil {
		return role, err
	}
	if err := UpdateStencil(s.d, s.inputView, out, s.speed); err != nil {
		return role, err
	}

	return role.Flip(), nil
}

// Frame runs the configured number of sub-steps. On success Current holds
// the frame's result.
func (s *Scheduler) Frame() error {
	start := time.Now()
	role := s.role
	for i := 0; i < s.steps; i++ {
		next, err := s.SubStep(role)
		if err != nil {
			return fmt.Errorf("%w: sub-step %d (%s): %w", ErrStepFailed, i, role, err)
		}
		role = next
		subStepsTotal.Inc()
	}
	s.role = role

	Logger().Debug("frame done",
		slog.Int("sub_steps", s.steps),
		slog.String("role", role.String()),
		slog.Duration("elapsed", time.Since(start)))
	return nil
}

// Role returns the role the next sub-step will run with.
func (s *Scheduler) Role() Role { return s.role }

// Current returns the grid the next sub-step will read, which after Frame
// holds the latest result.
func (s *Scheduler) Current() *Grid {
	in, _ := s.role.Buffers(s.a, s.b)
	return in
}

// Unbind detaches both views.
func (s *Scheduler) Unbind() {
	s.heaterView.Unbind()
	s.inputView.Unbind()
}
