// File: archive.go
// Brief: Optional per-run artifact archiving (keep_records / keep_logs)
//
// Grounded on original_source/src/exploration.cpp's move_records and
// dump_branch. Since the Runner abstraction (internal/replay.Runner) need
// not leave a movable file behind — a fixture runner in tests has none —
// archiving re-serializes the already-parsed Execution instead of moving
// the replayer's raw record.txt.
package explorer

import (
	"fmt"
	"os"
	"path/filepath"

	"sse/internal/exec"
	"sse/internal/replay"
)

func archiveRecord(outputDir string, nr int, e *exec.Execution) error {
	full, err := os.Create(filepath.Join(outputDir, fmt.Sprintf("record_%d.txt", nr)))
	if err != nil {
		return err
	}
	defer full.Close()
	if err := replay.WriteRecord(full, e); err != nil {
		return err
	}

	short, err := os.Create(filepath.Join(outputDir, fmt.Sprintf("record_short_%d.txt", nr)))
	if err != nil {
		return err
	}
	defer short.Close()
	return replay.WriteShortRecord(short, e)
}

func dumpBranch(outputDir string, nr int, e *exec.Execution) error {
	f, err := os.Create(filepath.Join(outputDir, fmt.Sprintf("exploration%d.txt", nr)))
	if err != nil {
		return err
	}
	defer f.Close()

	for _, t := range e.All() {
		if _, err := fmt.Fprintf(f, "%v %v\n", t.Pre.EnabledSet(), t.Instr); err != nil {
			return err
		}
	}
	return replay.WriteShortRecord(f, e)
}
