// File: sidechannel.go
// Brief: Side-channel files read by the replayer before each execution
//
// Grounded on original_source/src/dpor.cpp's
// utils::io::write_to_file("schedules/sleepset.txt", ...) and
// scheduler::write_settings(...); spec.md §9 notes that a file is merely
// the simplest realization of "pass a set of tids to the replayer before it
// starts" and that a pipe or shared memory would serve equally.
package sidechannel

import (
	"fmt"
	"os"
	"path/filepath"

	"sse/internal/sleepset"
)

const (
	schedulesSubdir    = "schedules"
	sleepSetFilename   = "sleepset.txt"
	schedulerSettingsFilename = "scheduler_settings.txt"
)

// Channel writes the side-channel files the replayer reads before it picks
// its first thread, rooted at one exploration run's output directory.
type Channel struct {
	dir string
}

// New returns a Channel rooted at outputDir
func New(outputDir string) *Channel {
	return &Channel{dir: outputDir}
}

func (c *Channel) schedulesDir() string {
	return filepath.Join(c.dir, schedulesSubdir)
}

// WriteSleepSet writes the current frame's sleep set to
// schedules/sleepset.txt, in the set-of-int format sleepset.Parse reads
func (c *Channel) WriteSleepSet(s *sleepset.SleepSet) error {
	dir := c.schedulesDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("sidechannel: create schedules dir: %w", err)
	}
	path := filepath.Join(dir, sleepSetFilename)
	if err := os.WriteFile(path, []byte(s.String()+"\n"), 0o644); err != nil {
		return fmt.Errorf("sidechannel: write sleepset: %w", err)
	}
	return nil
}

// ReadSleepSet reads back what WriteSleepSet wrote, exercised by the
// round-trip test oracle in spec.md §8
func (c *Channel) ReadSleepSet() (*sleepset.SleepSet, error) {
	path := filepath.Join(c.schedulesDir(), sleepSetFilename)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sidechannel: read sleepset: %w", err)
	}
	return sleepset.Parse(string(data))
}

// WriteSchedulerSettings writes the selector tag ("Nonpreemptive" or
// "SleepSets") that the replayer's thread selector reads once at startup
func (c *Channel) WriteSchedulerSettings(tag string) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("sidechannel: create output dir: %w", err)
	}
	path := filepath.Join(c.dir, schedulerSettingsFilename)
	if err := os.WriteFile(path, []byte(tag+"\n"), 0o644); err != nil {
		return fmt.Errorf("sidechannel: write scheduler settings: %w", err)
	}
	return nil
}
