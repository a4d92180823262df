// File: flags.go
// Brief: Shared command-line flags for the three exploration entry points
//
// Grounded on advocate/utils/flags/flags.go's flat, exported-var style and
// advocate/main.go's flag.*Var + flag.Parse idiom; consolidated here since
// all three cmd/ mains (spec.md §6) share --i/--max/--o/-h.
package cliflags

import (
	"flag"
	"fmt"
	"os"
	"time"
)

// Common holds the flags every entry point accepts
type Common struct {
	ProgramPath      string
	MaxNrExplorations int
	OutputDir        string
	Threads          int
	Timeout          time.Duration
	KeepRecords      bool
	KeepLogs         bool
	Help             bool
}

// RegisterCommon adds the shared flags to fs and returns the struct they
// populate once fs.Parse is called
func RegisterCommon(fs *flag.FlagSet) *Common {
	c := &Common{}
	fs.StringVar(&c.ProgramPath, "i", "", "Instrumented program (required)")
	fs.IntVar(&c.MaxNrExplorations, "max", 0, "Max explorations (required)")
	fs.StringVar(&c.OutputDir, "o", "./statespace_explorer_output", "Output directory")
	fs.IntVar(&c.Threads, "threads", 0, "Number of threads the program runs with (required)")
	fs.DurationVar(&c.Timeout, "timeout", 30*time.Second, "Per-replay timeout")
	fs.BoolVar(&c.KeepRecords, "keep-records", false, "Archive record.txt/record_short.txt per exploration")
	fs.BoolVar(&c.KeepLogs, "keep-logs", false, "Dump a per-step state log per exploration")
	fs.BoolVar(&c.Help, "h", false, "Print help")
	return c
}

// Validate checks the required common flags, printing a diagnostic and
// returning false if any are missing (the caller should then exit 1, per
// spec.md §6's "exit code 0 on success, 1 on invalid arguments")
func (c *Common) Validate() bool {
	ok := true
	if c.ProgramPath == "" {
		fmt.Fprintln(os.Stderr, "missing required flag -i")
		ok = false
	}
	if c.MaxNrExplorations <= 0 {
		fmt.Fprintln(os.Stderr, "missing or invalid required flag -max")
		ok = false
	}
	if c.Threads <= 0 {
		fmt.Fprintln(os.Stderr, "missing or invalid required flag -threads")
		ok = false
	}
	return ok
}
