// File: preemptions.go
// Brief: Preemption-count bound function
//
// Grounded on original_source/src/bound_functions/preemptions.{hpp,cpp} and
// local_bound_function.hpp's value() aggregation.
package modes

import "sse/internal/exec"

// BoundFunction computes a numeric budget over an execution prefix, used
// by Bound and BoundPersistent to cap explored schedules.
type BoundFunction interface {
	Name() string

	// Value returns the bound value of extending the prefix ending at
	// frames[index] (the already-computed per-index bound values) with a
	// next step by tid. index is the 0-based execution length preceding
	// the candidate step; index < 1 denotes the empty prefix.
	Value(e *exec.Execution, frames []int, index int, tid int) int

	// MinValue returns the element of priority, failing that of
	// candidates, with the least marginal step value at index; failing
	// that any element of candidates. Returns -1 if candidates is empty.
	MinValue(e *exec.Execution, index int, candidates, priority []int) int

	// LastContextSwitchBefore returns the greatest j with 1 < j < index
	// at which a context switch occurred, or 1 if none exists.
	LastContextSwitchBefore(e *exec.Execution, index int) int
}

// Preemptions counts context switches: a step is a preemption iff it
// schedules a thread other than the one that ran last, while that last
// thread was still enabled.
type Preemptions struct{}

func (Preemptions) Name() string { return "preemptions" }

func (Preemptions) stepValue(last exec.Transition, tid int) int {
	if last.TID() != tid && last.Post.IsEnabled(last.TID()) {
		return 1
	}
	return 0
}

func (p Preemptions) Value(e *exec.Execution, frames []int, index int, tid int) int {
	if index < 1 {
		return 0
	}
	return frames[index] + p.stepValue(e.At(index), tid)
}

func (p Preemptions) MinValue(e *exec.Execution, index int, candidates, priority []int) int {
	isZero := func(tid int) bool {
		if index < 1 {
			return true
		}
		return p.stepValue(e.At(index), tid) == 0
	}
	for _, tid := range priority {
		if isZero(tid) {
			return tid
		}
	}
	for _, tid := range candidates {
		if isZero(tid) {
			return tid
		}
	}
	if len(candidates) > 0 {
		return candidates[0]
	}
	return -1
}

// LastContextSwitchBefore preserves the original's quirk (spec.md §9 open
// question): when the descending scan reaches j == 1 without finding a
// switch, it still returns 1, not "no such index".
func (Preemptions) LastContextSwitchBefore(e *exec.Execution, index int) int {
	for j := index - 1; j > 1; j-- {
		if e.At(j-1).TID() != e.At(j).TID() {
			return j
		}
	}
	return 1
}

var _ BoundFunction = Preemptions{}
