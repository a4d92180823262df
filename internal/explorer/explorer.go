// File: explorer.go
// Brief: The top-level exploration loop driving one DFS-wrapped mode
//
// Grounded on original_source/src/exploration.{hpp,cpp}'s ExplorationBase /
// Exploration<Mode>. Mode here plays the role the original's template
// parameter plays when instantiated with depth_first_search<Reduction>: the
// loop only ever calls the DFS driver's surface, never a reduction
// directly.
package explorer

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sse/internal/exec"
	"sse/internal/log"
	"sse/internal/replay"
	"sse/internal/resmon"
	"sse/internal/sidechannel"
)

// Mode is the capability set the exploration loop drives. internal/dfs.DFS
// satisfies it for every reduction mode this core implements.
type Mode interface {
	Path() string
	SchedulerSettings() string
	WriteSchedulerFiles(ch *sidechannel.Channel) error
	CheckValid(containsLocks bool) bool
	Reset()
	UpdateStatistics(e *exec.Execution)
	RestoreState(t exec.Transition)
	UpdateState(e *exec.Execution, t exec.Transition)
	NewSchedule(e *exec.Execution, schedule []int) []int
	Close(statsPath string) error
}

// Settings mirrors the original's per-run knobs for archiving
type Settings struct {
	KeepRecords bool
	KeepLogs    bool
}

// Explorer owns the output directory, the schedule log, the statistics
// clock, and the single Execution that every replay round refills in place
// for one run of one mode against one program. The Execution's identity
// must survive the whole run: modes wrapping internal/hb.HB capture it once
// at construction and index into it by reference on every later round (see
// exec.Execution.Reset), so the same *exec.Execution given to the mode at
// construction time must be the one Explorer threads through Run.
type Explorer struct {
	program           string
	mode              Mode
	execution         *exec.Execution
	maxNrExplorations int
	runner            replay.Runner
	timeout           time.Duration
	settings          Settings
	supervisor        *resmon.Supervisor

	outputDir     string
	schedulesFile *os.File
	stats         Statistics
}

// New creates an Explorer. outputRoot/program.basename/mode.Path() is the
// output directory, matching output_dir() in original_source/exploration.hpp.
// execution must be the same object passed to any HB-backed mode (e.g.
// modes.NewDPOR) so that the mode's view of the trace and the replay loop's
// view never diverge. sup may be nil, in which case Run never aborts on
// memory pressure (used by tests that have no supervisor goroutine running).
func New(outputRoot, program string, execution *exec.Execution, mode Mode, maxNrExplorations int, runner replay.Runner, timeout time.Duration, settings Settings, sup *resmon.Supervisor) *Explorer {
	return &Explorer{
		program:           program,
		mode:              mode,
		execution:         execution,
		maxNrExplorations: maxNrExplorations,
		runner:            runner,
		timeout:           timeout,
		settings:          settings,
		supervisor:        sup,
		outputDir:         filepath.Join(outputRoot, filepath.Base(program), mode.Path()),
	}
}

// OutputDir returns the directory this run writes into
func (ex *Explorer) OutputDir() string { return ex.outputDir }

// Run explores the state space reachable from the given initial schedule
// (empty by default), replaying the program once per iteration until the
// mode reports no further schedule or maxNrExplorations is reached.
func (ex *Explorer) Run(initial []int) error {
	if err := os.RemoveAll(ex.outputDir); err != nil {
		return fmt.Errorf("explorer: clearing output dir: %w", err)
	}
	if err := os.MkdirAll(ex.outputDir, 0o755); err != nil {
		return fmt.Errorf("explorer: creating output dir: %w", err)
	}

	var err error
	ex.schedulesFile, err = os.Create(filepath.Join(ex.outputDir, "schedules.txt"))
	if err != nil {
		return fmt.Errorf("explorer: opening schedules.txt: %w", err)
	}
	defer ex.schedulesFile.Close()

	ch := sidechannel.New(ex.outputDir)
	if err := ch.WriteSchedulerSettings(ex.mode.SchedulerSettings()); err != nil {
		return fmt.Errorf("explorer: writing scheduler settings: %w", err)
	}

	schedule := initial
	from := 1
	done := false
	ex.stats.StartClock()

	for !done && ex.stats.NrExplorations() < ex.maxNrExplorations {
		if ex.supervisor != nil && ex.supervisor.Canceled() {
			log.Error("explorer: aborting run, resource supervisor requested cancellation")
			break
		}
		if err := ex.mode.WriteSchedulerFiles(ch); err != nil {
			return fmt.Errorf("explorer: writing scheduler files: %w", err)
		}

		if err := ex.runner.Replay(ex.execution, schedule, ex.timeout); err != nil {
			return fmt.Errorf("explorer: replay failed: %w", err)
		}
		ex.mode.Reset()

		if ex.stats.NrExplorations() > 0 || ex.mode.CheckValid(ex.execution.ContainsLock) {
			ex.stats.IncreaseNrExplorations()
			ex.mode.UpdateStatistics(ex.execution)

			schedule = scheduleOf(ex.execution)
			if _, err := fmt.Fprintln(ex.schedulesFile, formatSchedule(schedule)); err != nil {
				return fmt.Errorf("explorer: writing schedules.txt: %w", err)
			}
			if ex.settings.KeepRecords {
				if err := archiveRecord(ex.outputDir, ex.stats.NrExplorations(), ex.execution); err != nil {
					log.Errorf("explorer: archiving record: %v", err)
				}
			}

			for _, t := range ex.execution.All() {
				if t.Index < from {
					ex.mode.RestoreState(t)
				} else {
					ex.mode.UpdateState(ex.execution, t)
				}
			}

			if ex.settings.KeepLogs {
				if err := dumpBranch(ex.outputDir, ex.stats.NrExplorations(), ex.execution); err != nil {
					log.Errorf("explorer: dumping branch: %v", err)
				}
			}

			schedule = ex.mode.NewSchedule(ex.execution, schedule)
			if len(schedule) == 0 {
				done = true
				break
			}
			from = len(schedule)
		} else {
			log.Fatal("explorer: invalid input program")
			return fmt.Errorf("explorer: invalid input program")
		}
	}

	ex.stats.StopClock()
	statsPath := filepath.Join(ex.outputDir, "statistics.txt")
	if err := ex.stats.Dump(statsPath); err != nil {
		return fmt.Errorf("explorer: writing statistics.txt: %w", err)
	}
	return ex.mode.Close(statsPath)
}

func scheduleOf(e *exec.Execution) []int {
	out := make([]int, e.Len())
	for i, t := range e.All() {
		out[i] = t.TID()
	}
	return out
}

func formatSchedule(schedule []int) string {
	s := ""
	for i, tid := range schedule {
		if i > 0 {
			s += ","
		}
		s += fmt.Sprintf("%d", tid)
	}
	return s
}
