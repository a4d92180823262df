// File: main.go
// Brief: Entry point for DPOR exploration with a selectable sufficient set
//
// Grounded on original_source/src/run_dpor.cpp, extended to additionally
// select Source and BoundPersistent (present as classes in
// sufficient_sets/ but not wired into the original's DPOR main, which only
// offered "persistent").
package main

import (
	"flag"
	"fmt"
	"os"

	"sse/internal/cliflags"
	"sse/internal/dfs"
	sseexec "sse/internal/exec"
	"sse/internal/explorer"
	"sse/internal/log"
	"sse/internal/modes"
	"sse/internal/replay"
	"sse/internal/resmon"
)

func main() {
	fs := flag.NewFlagSet("rundpor", flag.ContinueOnError)
	common := cliflags.RegisterCommon(fs)
	sufficientSet := fs.String("sufficient-set", "persistent", "Reduction for DPOR: persistent, source, or boundpersistent")
	bound := fs.Int("bound", 0, "Bound (boundpersistent only)")
	boundFunction := fs.String("bound-function", "preemptions", "Bound function (boundpersistent only)")
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

	var strategy modes.SufficientSetStrategy
	switch *sufficientSet {
	case "persistent":
		strategy = modes.NewPersistent()
	case "source":
		strategy = modes.NewSource()
	case "boundpersistent":
		var fn modes.BoundFunction
		switch *boundFunction {
		case "preemptions":
			fn = modes.Preemptions{}
		default:
			fmt.Fprintf(os.Stderr, "bound-function has to be in { preemptions }, got %q\n", *boundFunction)
			os.Exit(1)
		}
		strategy = modes.NewBoundPersistent(fn, *bound)
	default:
		fmt.Fprintf(os.Stderr, "sufficient-set has to be in { persistent, source, boundpersistent }, got %q\n", *sufficientSet)
		os.Exit(1)
	}

	log.Init(false, false)

	runner := &replay.ProcessRunner{
		ProgramPath: common.ProgramPath,
		WorkDir:     common.OutputDir,
	}

	sup := resmon.New()
	stop := make(chan struct{})
	go sup.Run(stop)
	defer close(stop)

	execution := sseexec.New(common.Threads)
	mode := dfs.New(modes.NewDPOR(execution, strategy))

	ex := explorer.New(common.OutputDir, common.ProgramPath, execution, mode, common.MaxNrExplorations,
		runner, common.Timeout, explorer.Settings{KeepRecords: common.KeepRecords, KeepLogs: common.KeepLogs}, sup)

	if err := ex.Run(nil); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
