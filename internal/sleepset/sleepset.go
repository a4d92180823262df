// File: sleepset.go
// Brief: Sleep-set tracking of already-explored thread continuations
//
// Grounded on original_source/src/sufficient_sets/sleep_set.{hpp,cpp}.
package sleepset

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"sse/internal/exec"
	"sse/internal/instr"
)

// SleepSet is the set of thread ids whose immediate continuation from a
// state has already been explored in equivalent form elsewhere.
type SleepSet struct {
	sleep map[int]struct{}
}

// New returns an empty SleepSet
func New() *SleepSet {
	return &SleepSet{sleep: make(map[int]struct{})}
}

// From propagates previous and wakes up every sleeping tid whose next
// instruction in t.Post is dependent with t.Instr, per dependent.
func From(previous *SleepSet, t exec.Transition, dependent func(a, b instr.Instr) bool) *SleepSet {
	s := &SleepSet{sleep: make(map[int]struct{}, len(previous.sleep))}
	for tid := range previous.sleep {
		s.sleep[tid] = struct{}{}
	}
	s.wakeUpDependent(t.Instr, t.Post, dependent)
	return s
}

// wakeUpDependent removes every sleeping tid whose next instruction in
// pool is dependent with instr
func (s *SleepSet) wakeUpDependent(ins instr.Instr, pool exec.State, dependent func(a, b instr.Instr) bool) {
	for tid := range s.sleep {
		next, ok := pool.NextInstr(tid)
		if ok && dependent(ins, next) {
			delete(s.sleep, tid)
		}
	}
}

// WakeUpDependent is the replay-side counterpart of From's propagation:
// given the current instruction and the replayer's runnable pool, wake up
// every sleeping tid whose next instruction in the pool is dependent with
// current.
func (s *SleepSet) WakeUpDependent(current instr.Instr, pool exec.State, dependent func(a, b instr.Instr) bool) {
	s.wakeUpDependent(current, pool, dependent)
}

// Add puts tid to sleep
func (s *SleepSet) Add(tid int) {
	s.sleep[tid] = struct{}{}
}

// WakeUp removes tid from the sleep set
func (s *SleepSet) WakeUp(tid int) {
	delete(s.sleep, tid)
}

// IsAwake reports whether tid is not asleep
func (s *SleepSet) IsAwake(tid int) bool {
	_, asleep := s.sleep[tid]
	return !asleep
}

// Awake returns { tid in tids | tid notin sleep }
func (s *SleepSet) Awake(tids []int) []int {
	var out []int
	for _, tid := range tids {
		if s.IsAwake(tid) {
			out = append(out, tid)
		}
	}
	return out
}

// sorted returns the sleeping tids in ascending order
func (s *SleepSet) sorted() []int {
	out := make([]int, 0, len(s.sleep))
	for tid := range s.sleep {
		out = append(out, tid)
	}
	sort.Ints(out)
	return out
}

// String renders the sleep set as a brace-delimited integer set, matching
// the schedules/sleepset.txt wire format.
func (s *SleepSet) String() string {
	tids := s.sorted()
	parts := make([]string, len(tids))
	for i, tid := range tids {
		parts[i] = strconv.Itoa(tid)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Parse reads the brace-delimited integer set format written by String
func Parse(text string) (*SleepSet, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "{")
	text = strings.TrimSuffix(text, "}")
	s := New()
	text = strings.TrimSpace(text)
	if text == "" {
		return s, nil
	}
	for _, field := range strings.Split(text, ",") {
		field = strings.TrimSpace(field)
		tid, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("sleepset: parse %q: %w", field, err)
		}
		s.Add(tid)
	}
	return s, nil
}
