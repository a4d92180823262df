package exec

import (
	"testing"

	"sse/internal/instr"
)

func TestNewIsEmpty(t *testing.T) {
	e := New(2)
	if !e.IsEmpty() {
		t.Errorf("IsEmpty() = false on a fresh Execution")
	}
	if e.Len() != 0 {
		t.Errorf("Len() = %d, want 0", e.Len())
	}
	if e.NrThreads != 2 {
		t.Errorf("NrThreads = %d, want 2", e.NrThreads)
	}
}

func TestAppendAssignsSequentialOneBasedIndex(t *testing.T) {
	e := New(2)
	i1 := instr.Memory{Tid: 0, Op: instr.Load, Operand: "x"}
	i2 := instr.Memory{Tid: 1, Op: instr.Store, Operand: "x"}

	t1 := e.Append(i1, NewState(), NewState())
	t2 := e.Append(i2, NewState(), NewState())

	if t1.Index != 1 {
		t.Errorf("first Append index = %d, want 1", t1.Index)
	}
	if t2.Index != 2 {
		t.Errorf("second Append index = %d, want 2", t2.Index)
	}
	if e.Len() != 2 {
		t.Errorf("Len() = %d, want 2", e.Len())
	}
}

func TestAtIsOneIndexed(t *testing.T) {
	e := New(1)
	i1 := instr.Memory{Tid: 0, Op: instr.Load, Operand: "x"}
	e.Append(i1, NewState(), NewState())

	got := e.At(1)
	if got.Instr != i1 {
		t.Errorf("At(1).Instr = %v, want %v", got.Instr, i1)
	}
}

func TestLastReturnsMostRecentAppend(t *testing.T) {
	e := New(1)
	i1 := instr.Memory{Tid: 0, Op: instr.Load, Operand: "x"}
	i2 := instr.Memory{Tid: 0, Op: instr.Store, Operand: "y"}
	e.Append(i1, NewState(), NewState())
	e.Append(i2, NewState(), NewState())

	if e.Last().Instr != i2 {
		t.Errorf("Last().Instr = %v, want %v", e.Last().Instr, i2)
	}
}

func TestPopLastRemovesAndReturnsTail(t *testing.T) {
	e := New(1)
	i1 := instr.Memory{Tid: 0, Op: instr.Load, Operand: "x"}
	i2 := instr.Memory{Tid: 0, Op: instr.Store, Operand: "y"}
	e.Append(i1, NewState(), NewState())
	e.Append(i2, NewState(), NewState())

	popped := e.PopLast()
	if popped.Instr != i2 {
		t.Errorf("PopLast().Instr = %v, want %v", popped.Instr, i2)
	}
	if e.Len() != 1 {
		t.Errorf("Len() after PopLast = %d, want 1", e.Len())
	}
	if e.Last().Instr != i1 {
		t.Errorf("Last() after PopLast = %v, want %v", e.Last().Instr, i1)
	}
}

func TestResetKeepsWidthClearsContents(t *testing.T) {
	e := New(3)
	e.ContainsLock = true
	e.Status = Deadlock
	e.Append(instr.Memory{Tid: 0, Op: instr.Load, Operand: "x"}, NewState(), NewState())

	e.Reset()

	if e.NrThreads != 3 {
		t.Errorf("NrThreads after Reset = %d, want 3", e.NrThreads)
	}
	if !e.IsEmpty() {
		t.Errorf("IsEmpty() = false after Reset")
	}
	if e.ContainsLock {
		t.Errorf("ContainsLock = true after Reset, want false")
	}
	if e.Status != OK {
		t.Errorf("Status after Reset = %v, want OK", e.Status)
	}
}

func TestStateEnabledAndNextInstr(t *testing.T) {
	s := NewState()
	ins := instr.Memory{Tid: 0, Op: instr.Load, Operand: "x"}
	s.Enabled[0] = struct{}{}
	s.Next[0] = ins

	if !s.IsEnabled(0) {
		t.Errorf("IsEnabled(0) = false, want true")
	}
	if s.IsEnabled(1) {
		t.Errorf("IsEnabled(1) = true, want false")
	}
	got, ok := s.NextInstr(0)
	if !ok || got != ins {
		t.Errorf("NextInstr(0) = (%v, %v), want (%v, true)", got, ok, ins)
	}
}

func TestStatusString(t *testing.T) {
	cases := []struct {
		s    Status
		want string
	}{
		{OK, "OK"},
		{Blocked, "BLOCKED"},
		{Deadlock, "DEADLOCK"},
		{Error, "ERROR"},
	}
	for _, c := range cases {
		if got := c.s.String(); got != c.want {
			t.Errorf("String() = %q, want %q", got, c.want)
		}
	}
}
