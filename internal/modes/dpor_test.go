package modes

import (
	"path/filepath"
	"testing"

	"sse/internal/exec"
	"sse/internal/instr"
	"sse/internal/sidechannel"
)

func TestDPORPathAndSchedulerSettings(t *testing.T) {
	e := exec.New(2)
	d := NewDPOR(e, NewPersistent())

	if got, want := d.Path(), filepath.Join("DPOR", "Persistent"); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
	if got := d.SchedulerSettings(); got != "SleepSets" {
		t.Errorf("SchedulerSettings() = %q, want %q", got, "SleepSets")
	}
}

func TestDPORUpdateStateAddsRunTidToPredecessorBacktrack(t *testing.T) {
	e := exec.New(2)
	pre1 := exec.NewState()
	pre1.Enabled[0] = struct{}{}
	pre1.Enabled[1] = struct{}{}
	pre1.Next[0] = instr.Memory{Tid: 0, Op: instr.Store, Operand: "x"}
	pre1.Next[1] = instr.Memory{Tid: 1, Op: instr.Store, Operand: "x"}
	post1 := exec.NewState()
	post1.Enabled[1] = struct{}{}
	post1.Next[1] = instr.Memory{Tid: 1, Op: instr.Store, Operand: "x"}

	t1 := e.Append(instr.Memory{Tid: 0, Op: instr.Store, Operand: "x"}, pre1, post1)

	d := NewDPOR(e, NewPersistent())
	d.UpdateState(e, t1)

	if len(d.frames) != 2 {
		t.Fatalf("len(frames) after UpdateState = %d, want 2", len(d.frames))
	}
	if bt := d.frames[0].Backtrack(); len(bt) != 1 || bt[0] != 0 {
		t.Errorf("frames[0].Backtrack() = %v, want [0] (the tid that just ran)", bt)
	}
}

func TestDPORUpdateAfterExplorationPutsRunTidToSleep(t *testing.T) {
	e := exec.New(2)
	pre1 := exec.NewState()
	pre1.Enabled[0] = struct{}{}
	pre1.Next[0] = instr.Memory{Tid: 0, Op: instr.Store, Operand: "x"}
	post1 := exec.NewState()

	t1 := e.Append(instr.Memory{Tid: 0, Op: instr.Store, Operand: "x"}, pre1, post1)

	d := NewDPOR(e, NewPersistent())
	d.UpdateState(e, t1)
	d.UpdateAfterExploration(t1)

	if d.frames[0].SleepSet().IsAwake(0) {
		t.Error("frames[0].SleepSet().IsAwake(0) = true, want false (tid 0 explored from here)")
	}
}

func TestDPORWriteSchedulerFilesWritesTopFrameSleepSet(t *testing.T) {
	dir := t.TempDir()
	e := exec.New(1)
	d := NewDPOR(e, NewPersistent())
	ch := sidechannel.New(dir)

	if err := d.WriteSchedulerFiles(ch); err != nil {
		t.Fatalf("WriteSchedulerFiles() error: %v", err)
	}
	got, err := ch.ReadSleepSet()
	if err != nil {
		t.Fatalf("ReadSleepSet() error: %v", err)
	}
	if !got.IsAwake(0) {
		t.Error("round-tripped sleep set should start empty (everything awake)")
	}
}

func TestDPORPopBackShrinksFramesAndHB(t *testing.T) {
	e := exec.New(1)
	t1 := e.Append(instr.Memory{Tid: 0, Op: instr.Load, Operand: "x"}, exec.NewState(), exec.NewState())

	d := NewDPOR(e, NewPersistent())
	d.UpdateState(e, t1)
	if len(d.frames) != 2 {
		t.Fatalf("len(frames) = %d, want 2", len(d.frames))
	}

	d.PopBack()
	if len(d.frames) != 1 {
		t.Errorf("len(frames) after PopBack = %d, want 1", len(d.frames))
	}
}
