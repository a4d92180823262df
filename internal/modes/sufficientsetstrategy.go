// File: sufficientsetstrategy.go
// Brief: The per-variant hook set that DPOR decorates with HB bookkeeping
//
// Grounded on the template parameter sufficient_set_t of
// original_source/src/dpor.hpp's dpor<sufficient_set_t>.
package modes

import (
	"sse/internal/exec"
	"sse/internal/hb"
	"sse/internal/sufficientset"
)

// SufficientSetStrategy is implemented by Persistent, Source, and
// BoundPersistent[F]. DPOR wraps one of these with the shared
// happens-before relation and sleep-set propagation.
type SufficientSetStrategy interface {
	Name() string
	Path() string
	CheckValid(containsLocks bool) bool
	UpdateState(e *exec.Execution, t exec.Transition)

	BacktrackPoints(e *exec.Execution, index int, h *hb.HB) []sufficientset.BacktrackPoint

	AddBacktrackPoint(
		e *exec.Execution,
		index int,
		frames []*sufficientset.SufficientSet,
		h *hb.HB,
		point sufficientset.BacktrackPoint,
	)

	UpdateAfterExploration(t exec.Transition, pre *sufficientset.SufficientSet)

	// AddToPool unions mode-specific extra candidates (e.g.
	// BoundPersistent's pending set) into pool.
	AddToPool(pool map[int]struct{})

	Condition(e *exec.Execution, frame *sufficientset.SufficientSet, tid int) bool

	PopBack()
}
