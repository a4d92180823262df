// File: main.go
// Brief: Entry point for exhaustive depth-first exploration (no reduction)
//
// Grounded on original_source/src/run_depth_first_search.cpp, which
// instantiates Exploration<depth_first_search<bound<Preemptions>>> with the
// bound set to the maximum representable int, i.e. an unbounded DFS that
// still reuses the Bound/Preemptions plumbing rather than a separate code
// path.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"sse/internal/cliflags"
	"sse/internal/dfs"
	"sse/internal/exec"
	"sse/internal/explorer"
	"sse/internal/log"
	"sse/internal/modes"
	"sse/internal/replay"
	"sse/internal/resmon"
)

func main() {
	fs := flag.NewFlagSet("rundfs", flag.ContinueOnError)
	common := cliflags.RegisterCommon(fs)
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(1)
	}
	if common.Help {
		fs.Usage()
		return
	}
	if !common.Validate() {
		fs.Usage()
		os.Exit(1)
	}

	log.Init(false, false)

	mode := dfs.New(modes.NewBound(modes.Preemptions{}, math.MaxInt))
	runner := &replay.ProcessRunner{
		ProgramPath: common.ProgramPath,
		WorkDir:     common.OutputDir,
	}

	sup := resmon.New()
	stop := make(chan struct{})
	go sup.Run(stop)
	defer close(stop)

	execution := exec.New(common.Threads)
	ex := explorer.New(common.OutputDir, common.ProgramPath, execution, mode, common.MaxNrExplorations,
		runner, common.Timeout, explorer.Settings{KeepRecords: common.KeepRecords, KeepLogs: common.KeepLogs}, sup)

	if err := ex.Run(nil); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
