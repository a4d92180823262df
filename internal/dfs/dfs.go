// File: dfs.go
// Brief: Depth-first traversal of the state-space, treating Execution as a stack
//
// Grounded on original_source/src/depth_first_search.{hpp,cpp}. The
// argument mode is used to (potentially) restrict the pool of thread ids
// explored at each internal node.
package dfs

import (
	"sse/internal/exec"
	"sse/internal/log"
	"sse/internal/modes"
	"sse/internal/sidechannel"
)

type frame struct {
	done map[int]struct{}
}

func newFrame() *frame {
	return &frame{done: make(map[int]struct{})}
}

func (f *frame) addDone(tid int) {
	f.done[tid] = struct{}{}
}

// undone returns { tid in pool | tid notin f.done }
func (f *frame) undone(pool []int) []int {
	var out []int
	for _, tid := range pool {
		if _, done := f.done[tid]; !done {
			out = append(out, tid)
		}
	}
	return out
}

// DFS wraps a reduction Mode with the bookkeeping a depth-first driver
// needs: one done-set per frame, used to avoid re-exploring a thread id
// already backtracked into from the same node.
type DFS struct {
	frames []*frame
	mode   modes.Mode
}

// New creates a DFS rooted at the empty execution
func New(mode modes.Mode) *DFS {
	return &DFS{frames: []*frame{newFrame()}, mode: mode}
}

func (d *DFS) Path() string { return "DFS/" + d.mode.Path() }

func (d *DFS) SchedulerSettings() string { return d.mode.SchedulerSettings() }

func (d *DFS) WriteSchedulerFiles(ch *sidechannel.Channel) error {
	return d.mode.WriteSchedulerFiles(ch)
}

func (d *DFS) CheckValid(containsLocks bool) bool { return d.mode.CheckValid(containsLocks) }

func (d *DFS) UpdateStatistics(e *exec.Execution) { d.mode.UpdateStatistics(e) }

// RestoreState forwards to the mode, checking that the frame stack has
// already grown past t.Index (i.e. this prefix was visited before).
func (d *DFS) RestoreState(t exec.Transition) {
	if len(d.frames) <= t.Index {
		log.Fatal("DFS.restore_state: precondition violated")
		return
	}
	d.mode.RestoreState(t)
}

// UpdateState pushes a fresh frame and forwards to the mode
func (d *DFS) UpdateState(e *exec.Execution, t exec.Transition) {
	if len(d.frames) != t.Index {
		log.Fatal("DFS.update_state: precondition violated")
		return
	}
	d.frames = append(d.frames, newFrame())
	d.mode.UpdateState(e, t)
}

// UpdateAfterExploration records t.tid as done at t's pre-frame and
// forwards to the mode
func (d *DFS) UpdateAfterExploration(t exec.Transition) {
	if len(d.frames) != t.Index+1 {
		log.Fatal("DFS.update_after_exploration: precondition violated")
		return
	}
	d.frames[t.Index-1].addDone(t.TID())
	d.mode.UpdateAfterExploration(t)
}

func (d *DFS) Reset() { d.mode.Reset() }

func (d *DFS) popBack(e *exec.Execution, schedule []int) []int {
	e.PopLast()
	d.frames = d.frames[:len(d.frames)-1]
	d.mode.PopBack()
	if len(schedule) == 0 {
		return schedule
	}
	return schedule[:len(schedule)-1]
}

// NewSchedule backtracks along the current execution until it finds an
// index i with an undone, mode-sufficient tid, and returns the schedule
// extended with that tid. An empty return means exploration is complete.
func (d *DFS) NewSchedule(e *exec.Execution, schedule []int) []int {
	for !e.IsEmpty() {
		d.UpdateAfterExploration(e.Last())
		schedule = d.popBack(e, schedule)
		poolUndone := d.frames[len(d.frames)-1].undone(d.mode.Pool(e))
		if len(poolUndone) > 0 {
			next := d.mode.SelectFromPool(e, poolUndone)
			if next >= 0 {
				schedule = append(schedule, next)
				break
			}
		}
	}
	return schedule
}

func (d *DFS) Close(statsPath string) error { return d.mode.Close(statsPath) }
