// File: resmon.go
// Brief: Background memory supervisor that cancels exploration if RAM runs low
//
// Grounded on advocate/utils/control/memory.go's Supervisor/cancelRAM, pared
// down to the single concern this driver needs: a cancellation flag the
// exploration loop polls between replays (spec.md names no in-core
// suspension or cancellation, so the supervisor only ever sets a flag; it
// never kills the driver itself).
package resmon

import (
	"runtime"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/mem"

	"sse/internal/log"
)

// Supervisor periodically samples available RAM and swap usage, requesting
// cancellation once either crosses its threshold.
type Supervisor struct {
	canceled atomic.Bool

	pollInterval   time.Duration
	ramThresholdOf float64 // fraction of total RAM below which to cancel
	swapThreshold  uint64
}

// New creates a Supervisor with the original's thresholds: cancel once
// available RAM drops below 2% of total, or swap usage grows by more than
// 1GiB since the supervisor started.
func New() *Supervisor {
	return &Supervisor{
		pollInterval:   500 * time.Millisecond,
		ramThresholdOf: 0.02,
		swapThreshold:  1024 * 1024 * 1024,
	}
}

// Run polls until stop is closed. Intended to be launched with `go
// s.Run(stop)` alongside the exploration loop.
func (s *Supervisor) Run(stop <-chan struct{}) {
	v, err := mem.VirtualMemory()
	if err != nil {
		log.Errorf("resmon: reading memory stats: %v", err)
		return
	}
	swap, err := mem.SwapMemory()
	if err != nil {
		log.Errorf("resmon: reading swap stats: %v", err)
		return
	}

	thresholdRAM := uint64(float64(v.Total) * s.ramThresholdOf)
	startSwap := swap.Used

	for {
		select {
		case <-stop:
			return
		default:
		}

		v, err = mem.VirtualMemory()
		if err != nil {
			log.Errorf("resmon: reading memory stats: %v", err)
		}
		swap, err = mem.SwapMemory()
		if err != nil {
			log.Errorf("resmon: reading swap stats: %v", err)
		}

		if v.Available < thresholdRAM || swap.Used > s.swapThreshold+startSwap {
			s.Cancel()
			time.Sleep(5 * time.Second)
			continue
		}

		time.Sleep(s.pollInterval)
	}
}

// Cancel flips the cancellation flag the exploration loop polls, and tries
// to relieve memory pressure. Exported so tests can simulate the condition
// Run detects without needing to starve the process of real RAM.
func (s *Supervisor) Cancel() {
	if s.canceled.CompareAndSwap(false, true) {
		log.Error("resmon: not enough RAM, requesting cancellation")
		runtime.GC()
		debug.FreeOSMemory()
	}
}

// Canceled reports whether the threshold has been crossed since New
func (s *Supervisor) Canceled() bool {
	return s.canceled.Load()
}

// Reset clears the cancellation flag, e.g. between independent CLI runs in
// the same process (tests)
func (s *Supervisor) Reset() {
	s.canceled.Store(false)
}
