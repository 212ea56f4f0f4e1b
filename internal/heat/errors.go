package heat

import "errors"

// Resource acquisition failures. These abort the run; nothing retries them.
var (
	// ErrOutOfMemory is returned when the device cannot reserve a buffer.
	ErrOutOfMemory = errors.New("heat: out of device memory")

	// ErrReleased is returned when a buffer is used after teardown.
	ErrReleased = errors.New("heat: buffer already released")
)

// Contract breaches. They mean a programming error, not a runtime condition.
var (
	ErrSizeMismatch = errors.New("heat: buffer size mismatch")
	ErrUnbound      = errors.New("heat: view is not bound")
	ErrAliased      = errors.New("heat: input and output are the same buffer")
)

// ErrStepFailed wraps any failure inside a sub-step. Once returned, the
// simulation refuses further frames.
var ErrStepFailed = errors.New("heat: sub-step failed")
