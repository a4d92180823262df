// File: persistent.go
// Brief: Persistent sufficient-set strategy (Flanagan & Godefroid POPL'05)
//
// Grounded on original_source/src/sufficient_sets/persistent_set.{hpp,cpp}.
package modes

import (
	"sort"

	"sse/internal/exec"
	"sse/internal/hb"
	"sse/internal/sufficientset"
)

// Persistent computes backtrack points from the most recent coenabled
// dependent predecessor of each pending instruction, with no other
// bookkeeping.
type Persistent struct{}

func NewPersistent() *Persistent { return &Persistent{} }

func (*Persistent) Name() string { return "Persistent" }
func (*Persistent) Path() string { return "Persistent" }

func (*Persistent) CheckValid(containsLocks bool) bool { return true }

func (*Persistent) UpdateState(e *exec.Execution, t exec.Transition) {}

func (*Persistent) BacktrackPoints(e *exec.Execution, index int, h *hb.HB) []sufficientset.BacktrackPoint {
	t := e.At(index)
	var tids []int
	for tid := range t.Pre.Next {
		tids = append(tids, tid)
	}
	sort.Ints(tids)
	var points []sufficientset.BacktrackPoint
	for _, tid := range tids {
		next, _ := t.Pre.NextInstr(tid)
		if j := h.MaxDependent(index, next, true, true); j > 0 {
			points = append(points, sufficientset.BacktrackPoint{Tid: tid, Index: j})
		}
	}
	return points
}

func (*Persistent) AddBacktrackPoint(
	e *exec.Execution,
	index int,
	frames []*sufficientset.SufficientSet,
	h *hb.HB,
	point sufficientset.BacktrackPoint,
) {
	s := e.At(point.Index).Pre
	sPre := frames[point.Index-1]
	if s.IsEnabled(point.Tid) && sPre.SleepSet().IsAwake(point.Tid) {
		sPre.AddToBacktrack(point.Tid)
		return
	}
	alt := Alternatives(e, index, sPre, h, point, true)
	if len(alt) > 0 {
		sPre.AddToBacktrack(alt[0])
		return
	}
	sPre.AddAllToBacktrack(s.EnabledSet())
}

// Alternatives returns the candidate threads that may replace point.Tid as
// the one scheduled at point.Index without losing coverage.
func Alternatives(
	e *exec.Execution,
	index int,
	s *sufficientset.SufficientSet,
	h *hb.HB,
	point sufficientset.BacktrackPoint,
	useSleepSets bool,
) []int {
	alt := h.ThreadTransitiveRelation(index, point.Index, point.Tid)
	alt = append(alt, point.Tid)
	enabled := e.At(point.Index).Pre.EnabledSet()
	enabledSet := make(map[int]struct{}, len(enabled))
	for _, tid := range enabled {
		enabledSet[tid] = struct{}{}
	}
	seen := make(map[int]struct{}, len(alt))
	var altEnabled []int
	for _, tid := range alt {
		if _, dup := seen[tid]; dup {
			continue
		}
		seen[tid] = struct{}{}
		if _, ok := enabledSet[tid]; ok {
			altEnabled = append(altEnabled, tid)
		}
	}
	sort.Ints(altEnabled)
	if useSleepSets {
		return s.SleepSet().Awake(altEnabled)
	}
	return altEnabled
}

func (*Persistent) UpdateAfterExploration(t exec.Transition, pre *sufficientset.SufficientSet) {}

func (*Persistent) AddToPool(pool map[int]struct{}) {}

func (*Persistent) Condition(e *exec.Execution, frame *sufficientset.SufficientSet, tid int) bool {
	return true
}

func (*Persistent) PopBack() {}

var _ SufficientSetStrategy = (*Persistent)(nil)
