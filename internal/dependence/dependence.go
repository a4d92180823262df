// File: dependence.go
// Brief: Static dependence and co-enabledness predicates over instruction pairs
//
// Grounded on original_source/src/dependence.cpp (Dependence::dependent,
// Dependence::coenabled), re-expressed as free functions over instr.Instr.
// Per the Open Question in spec.md §9, one_lock here considers Lock and
// Trylock together (the original only considers Lock); lock_unlock only
// ever compares Lock against Unlock.

package dependence

import "sse/internal/instr"

// sameThread reports whether both instructions belong to the same thread
func sameThread(a, b instr.Instr) bool {
	return a.TID() == b.TID()
}

// isMemoryModification reports whether a memory instruction writes
func isMemoryModification(i instr.Instr) bool {
	m, ok := i.(instr.Memory)
	if !ok {
		return false
	}
	return m.Op == instr.Store || m.Op == instr.ReadModifyWrite
}

// oneWrite reports whether at least one of a, b is a Store or ReadModifyWrite
func oneWrite(a, b instr.Instr) bool {
	return isMemoryModification(a) || isMemoryModification(b)
}

// isLockAcquire reports whether a lock instruction is a Lock or Trylock
func isLockAcquire(i instr.Instr) bool {
	l, ok := i.(instr.LockInstr)
	if !ok {
		return false
	}
	return l.Op == instr.Lock || l.Op == instr.Trylock
}

// oneLock reports whether at least one of a, b is a Lock or Trylock
func oneLock(a, b instr.Instr) bool {
	return isLockAcquire(a) || isLockAcquire(b)
}

// lockUnlockSameObject reports whether a, b are a {Lock, Unlock} pair (in
// either order) on the same operand
func lockUnlockSameObject(a, b instr.Instr) bool {
	if a.GetOperand() != b.GetOperand() {
		return false
	}
	al, aIsLock := a.(instr.LockInstr)
	bl, bIsLock := b.(instr.LockInstr)
	if !aIsLock || !bIsLock {
		return false
	}
	return (al.Op == instr.Lock && bl.Op == instr.Unlock) ||
		(al.Op == instr.Unlock && bl.Op == instr.Lock)
}

// Dependent holds iff a and b belong to the same thread, or they share an
// operand and at least one is a write (Store/ReadModifyWrite) or a lock
// acquire (Lock/Trylock).
func Dependent(a, b instr.Instr) bool {
	if sameThread(a, b) {
		return true
	}
	return a.GetOperand() == b.GetOperand() && (oneWrite(a, b) || oneLock(a, b))
}

// Coenabled holds iff a and b belong to different threads and are not a
// Lock/Unlock pair on the same operand.
func Coenabled(a, b instr.Instr) bool {
	if sameThread(a, b) {
		return false
	}
	return !lockUnlockSameObject(a, b)
}
