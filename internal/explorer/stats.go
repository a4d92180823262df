// File: stats.go
// Brief: Wall/CPU clocks and the nr_explorations counter
//
// Grounded on original_source/src/exploration.{hpp,cpp}'s
// ExplorationStatistics. CPU time is read through gopsutil's process
// package (already wired for resmon's memory checks) rather than shelling
// out to /proc directly.
package explorer

import (
	"fmt"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

// Statistics tracks one run's exploration count and elapsed clocks
type Statistics struct {
	nrExplorations int
	wallStart      time.Time
	wallElapsed    time.Duration
	cpuStart       float64
	cpuElapsed     float64
}

func (s *Statistics) NrExplorations() int { return s.nrExplorations }

func (s *Statistics) IncreaseNrExplorations() { s.nrExplorations++ }

func cpuSeconds() float64 {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0
	}
	times, err := p.Times()
	if err != nil {
		return 0
	}
	return times.User + times.System
}

// StartClock records the wall and CPU clock starting points
func (s *Statistics) StartClock() {
	s.wallStart = time.Now()
	s.cpuStart = cpuSeconds()
}

// StopClock accumulates elapsed wall and CPU time since StartClock
func (s *Statistics) StopClock() {
	s.wallElapsed += time.Since(s.wallStart)
	s.cpuElapsed += cpuSeconds() - s.cpuStart
}

// Dump appends nr_explorations, cpu_time(s), wall_time(s) to path
func (s *Statistics) Dump(path string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = fmt.Fprintf(f, "nr_explorations\t%d\ncpu_time(s)\t%.3f\nwall_time(s)\t%.3f\n",
		s.nrExplorations, s.cpuElapsed, s.wallElapsed.Seconds())
	return err
}
