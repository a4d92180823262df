package modes

import (
	"testing"

	"sse/internal/exec"
	"sse/internal/hb"
	"sse/internal/instr"
	"sse/internal/sufficientset"
)

// buildRacingWritesTrace builds the two-thread execution used throughout
// this file: tid0 and tid1 are both enabled from the start and each write
// once to the same operand, tid0 scheduled first. The two writes conflict
// (same operand, both writes, different threads), so index 2's conflicting
// predecessor is index 1.
func buildRacingWritesTrace(t *testing.T) (*exec.Execution, *hb.HB) {
	t.Helper()
	e := exec.New(2)

	pre1 := exec.NewState()
	pre1.Enabled[0] = struct{}{}
	pre1.Enabled[1] = struct{}{}
	pre1.Next[0] = instr.Memory{Tid: 0, Op: instr.Store, Operand: "x"}
	pre1.Next[1] = instr.Memory{Tid: 1, Op: instr.Store, Operand: "x"}

	post1 := exec.NewState()
	post1.Enabled[1] = struct{}{}
	post1.Next[1] = instr.Memory{Tid: 1, Op: instr.Store, Operand: "x"}

	post2 := exec.NewState()

	e.Append(instr.Memory{Tid: 0, Op: instr.Store, Operand: "x"}, pre1, post1)
	e.Append(instr.Memory{Tid: 1, Op: instr.Store, Operand: "x"}, post1, post2)

	h := hb.New(e)
	h.Update(1)
	h.Update(2)
	return e, h
}

func TestPersistentBacktrackPointsFindsConflictingPredecessor(t *testing.T) {
	e, h := buildRacingWritesTrace(t)
	p := NewPersistent()

	points := p.BacktrackPoints(e, 2, h)
	if len(points) != 1 {
		t.Fatalf("BacktrackPoints() = %v, want exactly one point", points)
	}
	if points[0].Tid != 1 || points[0].Index != 1 {
		t.Errorf("BacktrackPoints()[0] = %+v, want {Tid:1 Index:1}", points[0])
	}
}

func TestPersistentBacktrackPointsNoConflictIsEmpty(t *testing.T) {
	// MaxDependent requires the frontier to be valid for the index being
	// queried, so this checks index 1 right after its own Update call
	// rather than reusing a trace whose frontier has already moved past it.
	e := exec.New(2)
	pre1 := exec.NewState()
	pre1.Enabled[0] = struct{}{}
	pre1.Enabled[1] = struct{}{}
	pre1.Next[0] = instr.Memory{Tid: 0, Op: instr.Store, Operand: "x"}
	pre1.Next[1] = instr.Memory{Tid: 1, Op: instr.Store, Operand: "x"}
	e.Append(instr.Memory{Tid: 0, Op: instr.Store, Operand: "x"}, pre1, exec.NewState())

	h := hb.New(e)
	h.Update(1)

	p := NewPersistent()
	// index 1 is the first step: there is no predecessor to conflict with.
	if points := p.BacktrackPoints(e, 1, h); len(points) != 0 {
		t.Errorf("BacktrackPoints(1) = %v, want none", points)
	}
}

func TestPersistentAddBacktrackPointAddsEnabledAlternative(t *testing.T) {
	e, h := buildRacingWritesTrace(t)
	p := NewPersistent()
	frames := []*sufficientset.SufficientSet{sufficientset.New(), sufficientset.New()}

	// tid1 is still enabled in e.At(1).Pre, and frames[0]'s sleep set is
	// empty, so the fast path adds tid1 directly without consulting
	// Alternatives.
	p.AddBacktrackPoint(e, 2, frames, h, sufficientset.BacktrackPoint{Tid: 1, Index: 1})

	if bt := frames[0].Backtrack(); len(bt) != 1 || bt[0] != 1 {
		t.Errorf("frames[0].Backtrack() = %v, want [1]", bt)
	}
}

func TestPersistentAddBacktrackPointSkipsAsleepAlternative(t *testing.T) {
	e, h := buildRacingWritesTrace(t)
	p := NewPersistent()
	frames := []*sufficientset.SufficientSet{sufficientset.New(), sufficientset.New()}
	frames[0].SleepSet().Add(1)

	// tid1 is enabled but asleep: the fast path is skipped, and
	// Alternatives finds no other enabled candidate (tid0 already ran at
	// index 1, tid1 is the only thread enabled afterward), so every
	// enabled thread in e.At(1).Pre is added as a fallback.
	p.AddBacktrackPoint(e, 2, frames, h, sufficientset.BacktrackPoint{Tid: 1, Index: 1})

	bt := frames[0].Backtrack()
	if len(bt) != 2 || bt[0] != 0 || bt[1] != 1 {
		t.Errorf("frames[0].Backtrack() = %v, want [0 1] (fallback: all enabled threads)", bt)
	}
}

func TestPersistentCheckValidAlwaysTrue(t *testing.T) {
	p := NewPersistent()
	if !p.CheckValid(true) {
		t.Error("CheckValid(true) = false, want true (Persistent has no lock restriction)")
	}
}
