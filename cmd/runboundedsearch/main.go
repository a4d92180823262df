// File: main.go
// Brief: Entry point for bounded depth-first exploration
//
// Grounded on original_source/src/run_bounded_search.cpp, which selects a
// bound function by name and instantiates
// Exploration<depth_first_search<bound<bound_function_t>>> with a
// caller-supplied bound value.
package main

import (
	"flag"
	"fmt"
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
	fs := flag.NewFlagSet("runboundedsearch", flag.ContinueOnError)
	common := cliflags.RegisterCommon(fs)
	bound := fs.Int("bound", 0, "Bound")
	boundFunction := fs.String("bound-function", "preemptions", "Bound function")
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

	var fn modes.BoundFunction
	switch *boundFunction {
	case "preemptions":
		fn = modes.Preemptions{}
	default:
		fmt.Fprintf(os.Stderr, "bound-function has to be in { preemptions }, got %q\n", *boundFunction)
		os.Exit(1)
	}

	log.Init(false, false)

	mode := dfs.New(modes.NewBound(fn, *bound))
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
