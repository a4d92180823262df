// File: bound.go
// Brief: Bound<F> reduction mode — nonpreemptive scheduling capped by F
//
// Grounded on original_source/src/bound.{hpp,cpp}.
package modes

import (
	"path/filepath"
	"sort"
	"strconv"

	"sse/internal/exec"
	"sse/internal/sidechannel"
)

// Bound restricts the pool at each frame to threads whose bound value (per
// F) does not exceed a fixed budget. It needs no happens-before relation.
type Bound struct {
	fn         BoundFunction
	boundValue int
	frames     []int
}

// NewBound creates a Bound mode using bound function fn and budget
// boundValue
func NewBound(fn BoundFunction, boundValue int) *Bound {
	return &Bound{fn: fn, boundValue: boundValue, frames: []int{0}}
}

func (b *Bound) Path() string {
	return filepath.Join("bound", b.fn.Name(), strconv.Itoa(b.boundValue))
}

func (b *Bound) SchedulerSettings() string { return "Nonpreemptive" }

func (b *Bound) WriteSchedulerFiles(ch *sidechannel.Channel) error { return nil }

func (b *Bound) CheckValid(containsLocks bool) bool { return true }

func (b *Bound) UpdateState(e *exec.Execution, t exec.Transition) {
	b.frames = append(b.frames, b.fn.Value(e, b.frames, t.Index-1, t.TID()))
}

func (b *Bound) UpdateAfterExploration(t exec.Transition) {}

func (b *Bound) RestoreState(t exec.Transition) {}

func (b *Bound) Pool(e *exec.Execution) []int {
	enabled := e.Final.EnabledSet()
	sort.Ints(enabled)
	var pool []int
	for _, tid := range enabled {
		if b.fn.Value(e, b.frames, e.Len(), tid) <= b.boundValue {
			pool = append(pool, tid)
		}
	}
	return pool
}

func (b *Bound) SelectFromPool(e *exec.Execution, pool []int) int {
	if len(pool) == 0 {
		return -1
	}
	return pool[0]
}

func (b *Bound) PopBack() {
	b.frames = b.frames[:len(b.frames)-1]
}

func (b *Bound) Reset() {}

func (b *Bound) UpdateStatistics(e *exec.Execution) {}

func (b *Bound) Close(statsPath string) error { return nil }

var _ Mode = (*Bound)(nil)
