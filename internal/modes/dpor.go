// File: dpor.go
// Brief: DPOR — decorates a SufficientSetStrategy with HB and sleep sets
//
// Grounded on original_source/src/dpor.{hpp,cpp}'s dpor_base/dpor<S>.
package modes

import (
	"fmt"
	"path/filepath"
	"sort"

	"sse/internal/dependence"
	"sse/internal/exec"
	"sse/internal/hb"
	"sse/internal/log"
	"sse/internal/sidechannel"
	"sse/internal/sleepset"
	"sse/internal/sufficientset"
)

// DPOR implements partial-order reduction on top of a happens-before
// relation, delegating to a SufficientSetStrategy for which thread ids
// are sufficient to explore from each frame.
type DPOR struct {
	strategy SufficientSetStrategy
	frames   []*sufficientset.SufficientSet
	hb       *hb.HB

	nrSleepSetBlocked int
}

// NewDPOR wraps strategy with a fresh happens-before relation over e
func NewDPOR(e *exec.Execution, strategy SufficientSetStrategy) *DPOR {
	return &DPOR{
		strategy: strategy,
		frames:   []*sufficientset.SufficientSet{sufficientset.New()},
		hb:       hb.New(e),
	}
}

func (d *DPOR) Path() string {
	return filepath.Join("DPOR", d.strategy.Path())
}

func (d *DPOR) SchedulerSettings() string { return "SleepSets" }

func (d *DPOR) WriteSchedulerFiles(ch *sidechannel.Channel) error {
	if len(d.frames) == 0 {
		log.Fatal("DPOR.write_scheduler_files: no frames")
		return fmt.Errorf("dpor: no frames")
	}
	return ch.WriteSleepSet(d.frames[len(d.frames)-1].SleepSet())
}

func (d *DPOR) CheckValid(containsLocks bool) bool {
	return d.strategy.CheckValid(containsLocks)
}

func (d *DPOR) preOfTransition(index int) *sufficientset.SufficientSet {
	return d.frames[index-1]
}

// UpdateState adds t.tid to pre(t).backtrack, pushes a new frame whose
// sleep set is pre(t)'s propagated across t (waking threads whose next
// instruction in t.Post is dependent with t), advances HB, then lets the
// strategy add its own backtrack points.
//
// Only ever called on new transitions (index >= from): calling it twice on
// the same index would double-propagate the sleep set.
func (d *DPOR) UpdateState(e *exec.Execution, t exec.Transition) {
	if len(d.frames) != t.Index {
		log.Fatal("DPOR.update_state: frame stack out of sync")
		return
	}
	d.frames[len(d.frames)-1].AddToBacktrack(t.TID())
	next := sleepset.From(d.frames[len(d.frames)-1].SleepSet(), t, dependence.Dependent)
	d.frames = append(d.frames, sufficientset.WithSleepSet(next))
	d.hb.Update(t.Index)

	d.strategy.UpdateState(e, t)
	points := d.strategy.BacktrackPoints(e, t.Index, d.hb)
	for _, point := range points {
		d.strategy.AddBacktrackPoint(e, t.Index, d.frames, d.hb, point)
	}
}

func (d *DPOR) UpdateAfterExploration(t exec.Transition) {
	if len(d.frames) != t.Index+1 {
		log.Fatal("DPOR.update_after_exploration: frame stack out of sync")
		return
	}
	pre := d.frames[t.Index-1]
	pre.SleepSet().Add(t.TID())
	d.strategy.UpdateAfterExploration(t, pre)
}

func (d *DPOR) RestoreState(t exec.Transition) {
	if len(d.frames) <= t.Index {
		log.Fatal("DPOR.restore_state: frame stack out of sync")
		return
	}
	d.hb.Restore(t.Index)
}

func (d *DPOR) Pool(e *exec.Execution) []int {
	top := d.frames[len(d.frames)-1]
	sufficient := top.SleepSet().Awake(top.Backtrack())
	poolSet := make(map[int]struct{}, len(sufficient))
	for _, tid := range sufficient {
		poolSet[tid] = struct{}{}
	}
	d.strategy.AddToPool(poolSet)
	out := make([]int, 0, len(poolSet))
	for tid := range poolSet {
		out = append(out, tid)
	}
	sort.Ints(out)
	return out
}

func (d *DPOR) SelectFromPool(e *exec.Execution, pool []int) int {
	for _, tid := range pool {
		if d.strategy.Condition(e, d.frames[len(d.frames)-1], tid) {
			return tid
		}
	}
	return -1
}

func (d *DPOR) PopBack() {
	d.frames = d.frames[:len(d.frames)-1]
	d.hb.PopBack()
	d.strategy.PopBack()
}

func (d *DPOR) Reset() {
	d.hb.Reset()
}

func (d *DPOR) UpdateStatistics(e *exec.Execution) {
	if e.Status == exec.Blocked {
		d.nrSleepSetBlocked++
	}
}

func (d *DPOR) Close(statsPath string) error {
	return appendStat(statsPath, "nr_sleepset_blocked", d.nrSleepSetBlocked)
}

var _ Mode = (*DPOR)(nil)
