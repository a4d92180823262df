// File: log.go
// Brief: Leveled, colorized terminal logging for the exploration core

package log

import (
	"fmt"
	"log"
)

// Color codes for the logging output
const (
	Reset  = "\033[0m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Purple = "\033[35m"
)

var (
	noInfoFlag     bool
	noProgressFlag bool

	numberErrors int
	numberFatal  int
)

// Init configures the logging package
//
// Parameter:
//   - noInfo bool: suppress Info/Infof output
//   - noProgress bool: suppress Progress/Progressf output
func Init(noInfo, noProgress bool) {
	noInfoFlag = noInfo
	noProgressFlag = noProgress
}

// Info logs an informational message in the base color
func Info(v ...any) {
	if noInfoFlag {
		return
	}
	log.Println(v...)
}

// Infof logs a formatted informational message in the base color
func Infof(format string, v ...any) {
	if noInfoFlag {
		return
	}
	log.Printf(format, v...)
}

// Important logs a message in yellow, regardless of noInfo
func Important(v ...any) {
	log.Print(Yellow, fmt.Sprint(v...), Reset, "\n")
}

// Progress logs exploration progress in green, suppressed by noProgress
func Progress(v ...any) {
	if noProgressFlag {
		return
	}
	log.Print(Green, fmt.Sprint(v...), Reset, "\n")
}

// Progressf logs formatted exploration progress, suppressed by noProgress
func Progressf(format string, v ...any) {
	if noProgressFlag {
		return
	}
	log.Printf(Green+format+Reset, v...)
}

// Error logs an error in red and counts it
func Error(v ...any) {
	log.Print(Red, fmt.Sprint(v...), Reset, "\n")
	numberErrors++
}

// Errorf logs a formatted error in red and counts it
func Errorf(format string, v ...any) {
	log.Printf(Red+format+Reset, v...)
	numberErrors++
}

// Fatal logs a programmer-error diagnostic (precondition violation) and
// counts it separately from recoverable errors; the caller is expected to
// abort the run immediately afterwards.
func Fatal(v ...any) {
	log.Print(Red, "fatal: ", fmt.Sprint(v...), Reset, "\n")
	numberFatal++
}

// Counts returns the number of logged errors and fatal diagnostics
func Counts() (errors, fatal int) {
	return numberErrors, numberFatal
}
