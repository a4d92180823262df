package hb

import (
	"testing"

	"sse/internal/exec"
	"sse/internal/instr"
)

// buildConflictTrace builds a 4-step, 2-thread execution:
//
//	1: tid0 store x
//	2: tid1 store x   (conflicts with 1: same operand, both writes)
//	3: tid0 store x   (conflicts with 2, and same thread as 1)
//	4: tid1 store y   (independent of 3: different operand, different thread)
//
// and drives HB forward over all four steps.
func buildConflictTrace(t *testing.T) (*exec.Execution, *HB) {
	t.Helper()
	e := exec.New(3)
	e.Append(instr.Memory{Tid: 0, Op: instr.Store, Operand: "x"}, exec.NewState(), exec.NewState())
	e.Append(instr.Memory{Tid: 1, Op: instr.Store, Operand: "x"}, exec.NewState(), exec.NewState())
	e.Append(instr.Memory{Tid: 0, Op: instr.Store, Operand: "x"}, exec.NewState(), exec.NewState())
	e.Append(instr.Memory{Tid: 1, Op: instr.Store, Operand: "y"}, exec.NewState(), exec.NewState())

	h := New(e)
	for i := 1; i <= 4; i++ {
		h.Update(i)
	}
	return e, h
}

func TestHappensBeforeOrdersConflictingAccesses(t *testing.T) {
	_, h := buildConflictTrace(t)

	if !h.HappensBefore(1, 2) {
		t.Errorf("HappensBefore(1, 2) = false, want true (conflicting writes to x, in trace order)")
	}
	if !h.HappensBefore(2, 3) {
		t.Errorf("HappensBefore(2, 3) = false, want true (conflicting writes to x)")
	}
	if !h.HappensBefore(1, 3) {
		t.Errorf("HappensBefore(1, 3) = false, want true (same thread)")
	}
}

func TestHappensBeforeIndependentStepsUnordered(t *testing.T) {
	_, h := buildConflictTrace(t)

	if h.HappensBefore(3, 4) {
		t.Errorf("HappensBefore(3, 4) = true, want false (different operand, different thread)")
	}
}

func TestHappensBeforeSameThreadAlwaysOrdered(t *testing.T) {
	_, h := buildConflictTrace(t)

	if !h.HappensBefore(2, 4) {
		t.Errorf("HappensBefore(2, 4) = false, want true (same thread, 2 precedes 4)")
	}
}

func TestLenGrowsWithEachUpdate(t *testing.T) {
	_, h := buildConflictTrace(t)
	if h.Len() != 5 {
		t.Errorf("Len() = %d, want 5 (four steps plus the empty-prefix clock)", h.Len())
	}
}

func TestMaxDependentFindsMostRecentConflict(t *testing.T) {
	_, h := buildConflictTrace(t)

	// A hypothetical next step by thread 0, storing to x: its most recent
	// dependent predecessor among other threads is step 2 (thread 1 store
	// x); same-thread predecessors (steps 1 and 3) are excluded by
	// construction (MaxDependent zeroes the candidate's own thread entry).
	candidate := instr.Memory{Tid: 0, Op: instr.Store, Operand: "x"}
	got := h.MaxDependent(4, candidate, false, false)
	if got != 2 {
		t.Errorf("MaxDependent() = %d, want 2", got)
	}
}

func TestMaxDependentReturnsZeroWhenNoneDependent(t *testing.T) {
	_, h := buildConflictTrace(t)

	// Thread 2 never appears in the trace and "z" is never touched, so no
	// recorded step is dependent with this candidate.
	candidate := instr.Memory{Tid: 2, Op: instr.Store, Operand: "z"}
	got := h.MaxDependent(4, candidate, false, false)
	if got != 0 {
		t.Errorf("MaxDependent() = %d, want 0 (no conflicting predecessor)", got)
	}
}

func TestPopBackThenRestoreRecoversFrontier(t *testing.T) {
	_, h := buildConflictTrace(t)

	h.PopBack()
	if h.Len() != 4 {
		t.Fatalf("Len() after PopBack = %d, want 4", h.Len())
	}
	if !h.NotRestored() {
		t.Fatalf("NotRestored() = false immediately after PopBack")
	}

	// The driver walks Restore forward in index order, the same way a
	// backtracked-into prefix is replayed transition by transition.
	h.Restore(1)
	h.Restore(2)
	h.Restore(3)

	if !h.Restored() {
		t.Errorf("Restored() = false after restoring up to the new top")
	}
	if !h.FrontierValidFor(3) {
		t.Errorf("FrontierValidFor(3) = false after Restore(3)")
	}
}
