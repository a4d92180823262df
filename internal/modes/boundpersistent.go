// File: boundpersistent.go
// Brief: BoundPersistent[F] — persistent sets with bounded-completeness
//
// Grounded on
// original_source/src/sufficient_sets/bound_persistent_set.{hpp,cpp} and
// @cite coons-oopsla-13 / @cite coons-thesis as cited there. Implements
// the CONSERVATIVE sleep-set optimization with transitive reduction and
// alternative-thread selection enabled, matching the original's defaults.
package modes

import (
	"sort"

	"sse/internal/exec"
	"sse/internal/hb"
	"sse/internal/sufficientset"
)

type boundPersistentFrame struct {
	boundValue    int
	pending       map[int]struct{}
	boundExceeded bool
}

func newBoundPersistentFrame() *boundPersistentFrame {
	return &boundPersistentFrame{pending: make(map[int]struct{})}
}

func (f *boundPersistentFrame) addPending(tid int)    { f.pending[tid] = struct{}{} }
func (f *boundPersistentFrame) addAllPending(tids []int) {
	for _, tid := range tids {
		f.pending[tid] = struct{}{}
	}
}

// BoundPersistent combines bounded search with persistent-set reduction,
// providing bounded-completeness with respect to F and a fixed bound.
type BoundPersistent struct {
	fn    BoundFunction
	bound int
	state []*boundPersistentFrame

	transitiveReduction bool
	alternativeThread   bool
	boundOpt            bool
	conservativeSleep   bool
}

// NewBoundPersistent creates a BoundPersistent[F] strategy with the
// original's default optimizations: transitive reduction, alternative
// thread selection, bound optimization, and conservative sleep-set
// placement all enabled.
func NewBoundPersistent(fn BoundFunction, bound int) *BoundPersistent {
	return &BoundPersistent{
		fn:                  fn,
		bound:               bound,
		state:               []*boundPersistentFrame{newBoundPersistentFrame()},
		transitiveReduction: true,
		alternativeThread:   true,
		boundOpt:            true,
		conservativeSleep:   true,
	}
}

func (bp *BoundPersistent) Name() string { return "BoundPersistent" }
func (bp *BoundPersistent) Path() string { return "BoundPersistent/" + bp.fn.Name() }

func (*BoundPersistent) CheckValid(containsLocks bool) bool { return true }

func (bp *BoundPersistent) boundValues() []int {
	out := make([]int, len(bp.state))
	for i, f := range bp.state {
		out[i] = f.boundValue
	}
	return out
}

func (bp *BoundPersistent) UpdateState(e *exec.Execution, t exec.Transition) {
	f := newBoundPersistentFrame()
	f.boundValue = bp.fn.Value(e, bp.boundValues(), t.Index-1, t.TID())
	bp.state = append(bp.state, f)
}

func (bp *BoundPersistent) BacktrackPoints(e *exec.Execution, index int, h *hb.HB) []sufficientset.BacktrackPoint {
	t := e.At(index)
	var tids []int
	for tid := range t.Pre.Next {
		tids = append(tids, tid)
	}
	sort.Ints(tids)
	var points []sufficientset.BacktrackPoint
	for _, tid := range tids {
		next, _ := t.Pre.NextInstr(tid)
		for _, j := range h.MaxDependentPerThread(index, next, bp.transitiveReduction) {
			points = append(points, sufficientset.BacktrackPoint{Tid: tid, Index: j})
		}
	}
	return points
}

func (bp *BoundPersistent) addingCondition(s exec.State, suf *sufficientset.SufficientSet, tid int) bool {
	if !bp.conservativeSleepEnabled() {
		return s.IsEnabled(tid)
	}
	return s.IsEnabled(tid) && suf.SleepSet().IsAwake(tid)
}

func (bp *BoundPersistent) addingTids(s exec.State, suf *sufficientset.SufficientSet) []int {
	if !bp.conservativeSleepEnabled() {
		return s.EnabledSet()
	}
	return suf.SleepSet().Awake(s.EnabledSet())
}

func (bp *BoundPersistent) conservativeSleepEnabled() bool {
	return bp.conservativeSleep
}

func (bp *BoundPersistent) addBacktrackPoint(
	e *exec.Execution,
	index int,
	frames []*sufficientset.SufficientSet,
	h *hb.HB,
	point sufficientset.BacktrackPoint,
	conservative bool,
) {
	alt := point.Tid
	if bp.alternativeThread {
		candidates := Alternatives(e, index, frames[point.Index-1], h, point, bp.conservativeSleepEnabled())
		if len(candidates) > 0 {
			alt = bp.fn.MinValue(e, point.Index-1, candidates, []int{point.Tid})
		}
	}
	s := e.At(point.Index).Pre
	var add []int
	if bp.addingCondition(s, frames[point.Index-1], alt) {
		add = []int{alt}
	} else {
		add = bp.addingTids(s, frames[point.Index-1])
	}
	switch {
	case !conservative:
		frames[point.Index-1].AddAllToBacktrack(add)
	case bp.boundOpt:
		bp.state[point.Index-1].addAllPending(add)
	default:
		frames[point.Index-1].AddAllToBacktrack(add)
	}
	if !conservative {
		conservativeIndex := bp.fn.LastContextSwitchBefore(e, point.Index)
		if conservativeIndex < point.Index {
			bp.addBacktrackPoint(e, index, frames, h, sufficientset.BacktrackPoint{Tid: point.Tid, Index: conservativeIndex}, true)
		}
	}
}

func (bp *BoundPersistent) AddBacktrackPoint(
	e *exec.Execution,
	index int,
	frames []*sufficientset.SufficientSet,
	h *hb.HB,
	point sufficientset.BacktrackPoint,
) {
	bp.addBacktrackPoint(e, index, frames, h, point, false)
}

func (bp *BoundPersistent) UpdateAfterExploration(t exec.Transition, pre *sufficientset.SufficientSet) {
	if bp.state[t.Index].boundExceeded {
		bp.state[t.Index-1].boundExceeded = true
	}
	if !bp.conservativeSleep || (bp.conservativeSleep && bp.state[t.Index-1].boundExceeded) {
		pre.WakeUp(t.TID())
	}
}

func (bp *BoundPersistent) AddToPool(pool map[int]struct{}) {
	top := bp.state[len(bp.state)-1]
	if !top.boundExceeded {
		return
	}
	for tid := range top.pending {
		pool[tid] = struct{}{}
	}
}

// Condition reports whether scheduling tid as the |E|-th step would stay
// within the bound; if not, it marks the current frame bound_exceeded.
func (bp *BoundPersistent) Condition(e *exec.Execution, frame *sufficientset.SufficientSet, tid int) bool {
	if bp.fn.Value(e, bp.boundValues(), e.Len(), tid) <= bp.bound {
		return true
	}
	bp.state[len(bp.state)-1].boundExceeded = true
	return false
}

func (bp *BoundPersistent) PopBack() {
	bp.state = bp.state[:len(bp.state)-1]
}

var _ SufficientSetStrategy = (*BoundPersistent)(nil)
