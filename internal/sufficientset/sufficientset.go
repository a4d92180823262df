// File: sufficientset.go
// Brief: Per-frame {backtrack, sleep} pair and backtrack points
//
// Grounded on original_source/src/sufficient_sets/sufficient_set.{hpp,cpp}.
package sufficientset

import (
	"fmt"
	"sort"

	"sse/internal/sleepset"
)

// SufficientSet is the subset of thread ids whose exploration from the
// associated state is sufficient to cover the reachable behaviors, paired
// with the sleep set tracking continuations already explored elsewhere.
type SufficientSet struct {
	backtrack map[int]struct{}
	sleep     *sleepset.SleepSet
}

// New returns an empty SufficientSet
func New() *SufficientSet {
	return &SufficientSet{backtrack: make(map[int]struct{}), sleep: sleepset.New()}
}

// WithSleepSet returns a SufficientSet with an empty backtrack set and the
// given sleep set
func WithSleepSet(sleep *sleepset.SleepSet) *SufficientSet {
	return &SufficientSet{backtrack: make(map[int]struct{}), sleep: sleep}
}

// Backtrack returns the backtrack set's members, ascending
func (s *SufficientSet) Backtrack() []int {
	out := make([]int, 0, len(s.backtrack))
	for tid := range s.backtrack {
		out = append(out, tid)
	}
	sort.Ints(out)
	return out
}

// AddToBacktrack adds a single tid to the backtrack set
func (s *SufficientSet) AddToBacktrack(tid int) {
	s.backtrack[tid] = struct{}{}
}

// AddAllToBacktrack unions tids into the backtrack set
func (s *SufficientSet) AddAllToBacktrack(tids []int) {
	for _, tid := range tids {
		s.backtrack[tid] = struct{}{}
	}
}

// SleepSet returns the frame's sleep set
func (s *SufficientSet) SleepSet() *sleepset.SleepSet {
	return s.sleep
}

// SetSleepSet replaces the frame's sleep set
func (s *SufficientSet) SetSleepSet(sleep *sleepset.SleepSet) {
	s.sleep = sleep
}

// WakeUp wakes tid in the frame's sleep set
func (s *SufficientSet) WakeUp(tid int) {
	s.sleep.WakeUp(tid)
}

// BacktrackPoint records that, at prefix index Index, thread Tid must be
// scheduled in some alternate exploration.
type BacktrackPoint struct {
	Tid   int
	Index int
}

func (p BacktrackPoint) String() string {
	return fmt.Sprintf("(tid=%d, index=%d)", p.Tid, p.Index)
}
