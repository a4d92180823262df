package modes

import (
	"testing"

	"sse/internal/sufficientset"
)

func TestBoundPersistentBacktrackPointsFindsConflictingPredecessor(t *testing.T) {
	e, h := buildRacingWritesTrace(t)
	bp := NewBoundPersistent(Preemptions{}, 10)

	points := bp.BacktrackPoints(e, 2, h)
	if len(points) != 1 {
		t.Fatalf("BacktrackPoints() = %v, want exactly one point", points)
	}
	if points[0].Tid != 1 || points[0].Index != 1 {
		t.Errorf("BacktrackPoints()[0] = %+v, want {Tid:1 Index:1}", points[0])
	}
}

func TestBoundPersistentAddBacktrackPointAddsEnabledAlternative(t *testing.T) {
	e, h := buildRacingWritesTrace(t)
	bp := NewBoundPersistent(Preemptions{}, 10)
	frames := []*sufficientset.SufficientSet{sufficientset.New(), sufficientset.New()}

	bp.AddBacktrackPoint(e, 2, frames, h, sufficientset.BacktrackPoint{Tid: 1, Index: 1})

	if bt := frames[0].Backtrack(); len(bt) != 1 || bt[0] != 1 {
		t.Errorf("frames[0].Backtrack() = %v, want [1]", bt)
	}
}

func TestBoundPersistentAddBacktrackPointExcludesAsleepAlternative(t *testing.T) {
	e, h := buildRacingWritesTrace(t)
	bp := NewBoundPersistent(Preemptions{}, 10)
	frames := []*sufficientset.SufficientSet{sufficientset.New(), sufficientset.New()}
	frames[0].SleepSet().Add(1)

	// tid1 is enabled but asleep, so neither the alternative-thread search
	// nor the direct-add condition picks it; addingTids falls back to
	// every enabled, awake thread instead, which excludes tid1.
	bp.AddBacktrackPoint(e, 2, frames, h, sufficientset.BacktrackPoint{Tid: 1, Index: 1})

	if bt := frames[0].Backtrack(); len(bt) != 1 || bt[0] != 0 {
		t.Errorf("frames[0].Backtrack() = %v, want [0]", bt)
	}
}

func TestBoundPersistentPathIncludesBoundFunctionName(t *testing.T) {
	bp := NewBoundPersistent(Preemptions{}, 3)
	if got, want := bp.Path(), "BoundPersistent/preemptions"; got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestBoundPersistentPopBackShrinksState(t *testing.T) {
	bp := NewBoundPersistent(Preemptions{}, 3)
	bp.state = append(bp.state, newBoundPersistentFrame())
	if len(bp.state) != 2 {
		t.Fatalf("len(state) = %d, want 2", len(bp.state))
	}
	bp.PopBack()
	if len(bp.state) != 1 {
		t.Errorf("len(state) after PopBack = %d, want 1", len(bp.state))
	}
}
