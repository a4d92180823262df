// File: runner.go
// Brief: External collaborator that replays a program under a schedule
//
// spec.md §1 and §6 name the record/replay runtime as an external
// collaborator reached through replay(program, schedule, timeout); this
// file is the Go side of that boundary. The process plumbing (pipe output,
// process-group kill on timeout) is grounded on
// aclements-go-misc/stress2/cmd.go's StartCommand/Kill, simplified to the
// synchronous request/response shape spec.md §4.8 requires: replay() blocks
// until the run finishes or the timeout expires, then returns.
package replay

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	sseexec "sse/internal/exec"
	"sse/internal/log"
	"sse/internal/sidechannel"
)

// Runner is the external record/replay collaborator. Implementations run
// the instrumented program under the given schedule, wait up to timeout,
// and refill e with whatever record.txt the run produced. e is reset, not
// replaced: see exec.Execution.Reset for why its identity must survive
// across rounds.
type Runner interface {
	Replay(e *sseexec.Execution, schedule []int, timeout time.Duration) error
}

// ProcessRunner launches the instrumented program as a subprocess, passing
// the schedule as a --schedule argument, then parses the record.txt the
// subprocess leaves on disk. The side-channel files are written by the
// exploration loop, not by Replay.
type ProcessRunner struct {
	// ProgramPath is the instrumented program's executable.
	ProgramPath string
	// WorkDir is the directory the subprocess runs in, and where
	// record.txt / record_short.txt are expected to appear.
	WorkDir string
	// Channel is not read by Replay.
	Channel *sidechannel.Channel
}

func scheduleArg(schedule []int) string {
	parts := make([]string, len(schedule))
	for i, tid := range schedule {
		parts[i] = strconv.Itoa(tid)
	}
	return strings.Join(parts, ",")
}

// Replay runs ProgramPath once under schedule, killing the whole process
// group if it does not finish within timeout. A timeout is not an error:
// spec.md §7 classifies it as a partial trace to be parsed like any other.
func (r *ProcessRunner) Replay(e *sseexec.Execution, schedule []int, timeout time.Duration) error {
	ctx := context.Background()
	var cancel context.CancelFunc
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, r.ProgramPath, "--schedule", scheduleArg(schedule))
	cmd.Dir = r.WorkDir
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		log.Error("replay: timed out, killing process group")
		if cmd.Process != nil {
			if grp, perr := os.FindProcess(-cmd.Process.Pid); perr == nil {
				grp.Signal(os.Kill)
			}
		}
	} else if err != nil {
		if _, isExit := err.(*exec.ExitError); !isExit {
			return fmt.Errorf("replay: starting %s: %w", r.ProgramPath, err)
		}
	}

	recordPath := filepath.Join(r.WorkDir, "record.txt")
	f, err := os.Open(recordPath)
	if err != nil {
		return fmt.Errorf("replay: record file unreadable: %w", err)
	}
	defer f.Close()

	return ParseRecord(e, f)
}

var _ Runner = (*ProcessRunner)(nil)
