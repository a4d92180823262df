// File: source.go
// Brief: Source sufficient-set strategy (Abdulla et al. POPL'14)
//
// Grounded on original_source/src/sufficient_sets/source_set.{hpp,cpp}.
// Requires lock-free programs: check_valid rejects any execution that
// contains a lock instruction.
package modes

import (
	"sse/internal/exec"
	"sse/internal/hb"
	"sse/internal/log"
	"sse/internal/sufficientset"
)

// Source computes backtrack points from the happens-before covering set
// of each new transition, assuming threads never disable one another.
type Source struct{}

func NewSource() *Source { return &Source{} }

func (*Source) Name() string { return "Source" }
func (*Source) Path() string { return "Source" }

func (*Source) CheckValid(containsLocks bool) bool {
	if containsLocks {
		log.Error("Source: assumes threads do not disable each other")
	}
	return !containsLocks
}

func (*Source) UpdateState(e *exec.Execution, t exec.Transition) {}

func (*Source) BacktrackPoints(e *exec.Execution, index int, h *hb.HB) []sufficientset.BacktrackPoint {
	t := e.At(index)
	covering := h.Covering(index, t.Instr)
	points := make([]sufficientset.BacktrackPoint, len(covering))
	for i, j := range covering {
		points[i] = sufficientset.BacktrackPoint{Tid: t.TID(), Index: j}
	}
	return points
}

func (*Source) AddBacktrackPoint(
	e *exec.Execution,
	index int,
	frames []*sufficientset.SufficientSet,
	h *hb.HB,
	point sufficientset.BacktrackPoint,
) {
	v := h.IncomparableAfter(point.Index, index)
	v = append(v, index)
	front := h.Tids(h.Front(v))
	if len(front) == 0 {
		log.Fatal("Source.add_backtrack_point: front must not be empty")
		return
	}
	frontSet := make(map[int]struct{}, len(front))
	for _, tid := range front {
		frontSet[tid] = struct{}{}
	}
	backtrack := frames[point.Index-1].Backtrack()
	sourcesFor := false
	for _, tid := range backtrack {
		if _, ok := frontSet[tid]; ok {
			sourcesFor = true
			break
		}
	}
	if sourcesFor {
		return
	}
	add := front[0]
	if _, ok := frontSet[point.Tid]; ok {
		add = point.Tid
	}
	frames[point.Index-1].AddToBacktrack(add)
}

func (*Source) UpdateAfterExploration(t exec.Transition, pre *sufficientset.SufficientSet) {}

func (*Source) AddToPool(pool map[int]struct{}) {}

func (*Source) Condition(e *exec.Execution, frame *sufficientset.SufficientSet, tid int) bool {
	return true
}

func (*Source) PopBack() {}

var _ SufficientSetStrategy = (*Source)(nil)
